package rest

import (
	"craftconnect-be/internal/catalog"
	"craftconnect-be/internal/middleware"
	"craftconnect-be/internal/order"
	"craftconnect-be/internal/orderview"
	"craftconnect-be/internal/user"
	"craftconnect-be/internal/verification"

	"github.com/gin-gonic/gin"
)

type Services struct {
	Catalog      catalog.Service
	Orders       order.Service
	OrderViews   orderview.Service
	Users        user.Service
	Verification verification.Service
}

// NewRouter wires every endpoint under /api. Tokens are verified by the
// auth middleware; handlers only read the actor from context.
func NewRouter(svcs Services, jwtSecret []byte) *gin.Engine {
	r := gin.New()
	// Auth runs before the rate limiter so authenticated traffic is
	// bucketed by user id rather than the spoofable device header.
	r.Use(gin.Recovery(), middleware.RequestLogger(), middleware.Auth(jwtSecret), middleware.RateLimit())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	products := &ProductHandler{svc: svcs.Catalog}
	orders := &OrderHandler{orders: svcs.Orders, views: svcs.OrderViews}
	profiles := &ProfileHandler{svc: svcs.Users}
	otp := &OTPHandler{verification: svcs.Verification, users: svcs.Users}

	api := r.Group("/api")
	{
		api.GET("/products", products.List)
		api.GET("/products/:id", products.Get)
		api.GET("/artisans/:id/products", products.ListByArtisan)
		api.GET("/featured-artisans", profiles.FeaturedArtisans)

		authed := api.Group("")
		authed.Use(middleware.RequireAuth())
		{
			authed.POST("/products", products.Create)
			authed.PUT("/products/:id", products.Update)
			authed.DELETE("/products/:id", products.Delete)

			authed.POST("/orders", orders.Create)
			authed.GET("/orders", orders.List)
			authed.GET("/orders/:id", orders.Get)
			authed.PUT("/orders/:id/status", orders.UpdateStatus)

			authed.GET("/profile", profiles.Get)
			authed.PUT("/profile", profiles.Update)

			authed.POST("/otp/send", otp.Send)
			authed.POST("/otp/verify", otp.Verify)
		}
	}

	return r
}
