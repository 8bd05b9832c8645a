package rest

import (
	"net/http"
	"strconv"
	"time"

	"craftconnect-be/internal/identity"
	"craftconnect-be/internal/order"
	"craftconnect-be/internal/orderview"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	orders order.Service
	views  orderview.Service
}

type createOrderRequest struct {
	ProductID       int64   `json:"product_id" binding:"required"`
	Quantity        int     `json:"quantity" binding:"required"`
	ShippingAddress *string `json:"shipping_address"`
}

type orderResponse struct {
	OrderID          int64        `json:"order_id"`
	ProductID        int64        `json:"product_id"`
	Quantity         int          `json:"quantity"`
	TotalAmountCents int64        `json:"total_amount_cents"`
	Status           order.Status `json:"status"`
	CreatedAt        time.Time    `json:"created_at"`
}

func toOrderResponse(o *order.Order) orderResponse {
	return orderResponse{
		OrderID:          o.ID,
		ProductID:        o.ProductID,
		Quantity:         o.Quantity,
		TotalAmountCents: o.TotalAmountCents,
		Status:           o.Status,
		CreatedAt:        o.CreatedAt,
	}
}

func (h *OrderHandler) Create(c *gin.Context) {
	actor, _ := identity.ActorFrom(c.Request.Context())

	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	o, err := h.orders.Create(c.Request.Context(), actor, order.CreateInput{
		ProductID:       req.ProductID,
		Quantity:        req.Quantity,
		ShippingAddress: req.ShippingAddress,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toOrderResponse(o))
}

type updateStatusRequest struct {
	Status order.Status `json:"status" binding:"required"`
}

func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	actor, _ := identity.ActorFrom(c.Request.Context())

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	o, err := h.orders.Transition(c.Request.Context(), actor, id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(o))
}

func (h *OrderHandler) Get(c *gin.Context) {
	actor, _ := identity.ActorFrom(c.Request.Context())

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	o, err := h.orders.Get(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(o))
}

func (h *OrderHandler) List(c *gin.Context) {
	actor, _ := identity.ActorFrom(c.Request.Context())

	// An artisan who also buys can ask for their buyer-side orders with
	// role=buyer; the artisan view stays gated on the token's role.
	viewer := actor
	switch identity.Role(c.Query("role")) {
	case "":
	case identity.RoleBuyer:
		viewer.Role = identity.RoleBuyer
	case identity.RoleArtisan:
		if actor.Role != identity.RoleArtisan {
			respondError(c, order.ErrForbidden)
			return
		}
		viewer.Role = identity.RoleArtisan
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role"})
		return
	}

	var filter orderview.Filter
	if s := c.Query("status"); s != "" {
		st := order.Status(s)
		filter.Status = &st
	}
	if s := c.Query("search"); s != "" {
		filter.Search = &s
	}

	views, err := h.views.List(c.Request.Context(), viewer, filter,
		parseInt32(c.Query("limit"), 0), parseInt32(c.Query("offset"), 0))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": views})
}
