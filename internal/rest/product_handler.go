package rest

import (
	"net/http"
	"strconv"

	"craftconnect-be/internal/catalog"
	"craftconnect-be/internal/identity"

	"github.com/gin-gonic/gin"
)

type ProductHandler struct {
	svc catalog.Service
}

type productResponse struct {
	ID            int64   `json:"id"`
	ArtisanID     string  `json:"artisan_id"`
	ArtisanName   string  `json:"artisan_name,omitempty"`
	ArtisanImage  *string `json:"artisan_image,omitempty"`
	Name          string  `json:"name"`
	Description   *string `json:"description,omitempty"`
	PriceCents    int64   `json:"price_cents"`
	Category      *string `json:"category,omitempty"`
	Images        *string `json:"images,omitempty"`
	StockQuantity int     `json:"stock_quantity"`
	IsActive      bool    `json:"is_active"`
}

func toProductResponse(p *catalog.Product) productResponse {
	return productResponse{
		ID:            p.ID,
		ArtisanID:     p.ArtisanID,
		ArtisanName:   p.ArtisanName,
		ArtisanImage:  p.ArtisanImage,
		Name:          p.Name,
		Description:   p.Description,
		PriceCents:    p.PriceCents,
		Category:      p.Category,
		Images:        p.Images,
		StockQuantity: p.StockQuantity,
		IsActive:      p.IsActive,
	}
}

type createProductRequest struct {
	Name          string  `json:"name" binding:"required"`
	Description   *string `json:"description"`
	PriceCents    int64   `json:"price_cents" binding:"required"`
	Category      *string `json:"category"`
	Images        *string `json:"images"`
	StockQuantity int     `json:"stock_quantity"`
}

func (h *ProductHandler) Create(c *gin.Context) {
	actor, _ := identity.ActorFrom(c.Request.Context())

	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p, err := h.svc.CreateProduct(c.Request.Context(), actor, catalog.CreateProductInput{
		Name:          req.Name,
		Description:   req.Description,
		PriceCents:    req.PriceCents,
		Category:      req.Category,
		Images:        req.Images,
		StockQuantity: req.StockQuantity,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toProductResponse(p))
}

func (h *ProductHandler) List(c *gin.Context) {
	limit := parseInt32(c.Query("limit"), 0)
	offset := parseInt32(c.Query("offset"), 0)

	products, err := h.svc.ListProducts(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	c.JSON(http.StatusOK, gin.H{"products": out})
}

func (h *ProductHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}

	p, err := h.svc.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponse(p))
}

func (h *ProductHandler) ListByArtisan(c *gin.Context) {
	products, err := h.svc.ListArtisanProducts(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	c.JSON(http.StatusOK, gin.H{"products": out})
}

type updateProductRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	PriceCents  *int64  `json:"price_cents"`
	Category    *string `json:"category"`
	Images      *string `json:"images"`
}

func (h *ProductHandler) Update(c *gin.Context) {
	actor, _ := identity.ActorFrom(c.Request.Context())

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}

	var req updateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p, err := h.svc.UpdateProduct(c.Request.Context(), actor, id, catalog.UpdateProductInput{
		Name:        req.Name,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		Category:    req.Category,
		Images:      req.Images,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponse(p))
}

func (h *ProductHandler) Delete(c *gin.Context) {
	actor, _ := identity.ActorFrom(c.Request.Context())

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}

	if err := h.svc.DeactivateProduct(c.Request.Context(), actor, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func parseInt32(s string, fallback int32) int32 {
	if s == "" {
		return fallback
	}
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return fallback
	}
	return int32(n)
}
