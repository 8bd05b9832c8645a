package rest

import (
	"net/http"

	"craftconnect-be/internal/identity"
	"craftconnect-be/internal/user"
	"craftconnect-be/internal/verification"

	"github.com/gin-gonic/gin"
)

type OTPHandler struct {
	verification verification.Service
	users        user.Service
}

type otpSendRequest struct {
	Phone string `json:"phone" binding:"required"`
}

func (h *OTPHandler) Send(c *gin.Context) {
	var req otpSendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.verification.Issue(c.Request.Context(), req.Phone); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "verification code sent"})
}

type otpVerifyRequest struct {
	Phone string `json:"phone" binding:"required"`
	Code  string `json:"code" binding:"required"`
}

func (h *OTPHandler) Verify(c *gin.Context) {
	actor, _ := identity.ActorFrom(c.Request.Context())

	var req otpVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.verification.Confirm(c.Request.Context(), req.Phone, req.Code); err != nil {
		respondError(c, err)
		return
	}
	if err := h.users.MarkPhoneVerified(c.Request.Context(), actor, req.Phone); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "phone verified"})
}
