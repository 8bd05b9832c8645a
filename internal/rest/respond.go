package rest

import (
	"errors"
	"net/http"

	"craftconnect-be/internal/catalog"
	"craftconnect-be/internal/logger"
	"craftconnect-be/internal/order"
	"craftconnect-be/internal/payment"
	"craftconnect-be/internal/user"
	"craftconnect-be/internal/verification"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError maps domain errors onto HTTP status codes. Anything not in
// the taxonomy is a 500 with a generic body.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, catalog.ErrProductNotFound),
		errors.Is(err, order.ErrOrderNotFound),
		errors.Is(err, user.ErrProfileNotFound):
		status = http.StatusNotFound
	case errors.Is(err, catalog.ErrInsufficientStock),
		errors.Is(err, order.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, order.ErrInvalidTransition),
		errors.Is(err, order.ErrInvalidOrder),
		errors.Is(err, catalog.ErrInvalidProduct),
		errors.Is(err, user.ErrInvalidProfile),
		errors.Is(err, verification.ErrInvalidPhone),
		errors.Is(err, verification.ErrCodeMismatch):
		status = http.StatusBadRequest
	case errors.Is(err, order.ErrForbidden),
		errors.Is(err, catalog.ErrNotOwner),
		errors.Is(err, user.ErrNotArtisan):
		status = http.StatusForbidden
	case errors.Is(err, payment.ErrDeclined):
		status = http.StatusPaymentRequired
	}

	if status == http.StatusInternalServerError {
		logger.FromCtx(c.Request.Context()).Error("unhandled error", zap.Error(err))
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
