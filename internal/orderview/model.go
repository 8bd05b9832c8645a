package orderview

import (
	"time"

	"craftconnect-be/internal/order"
)

// OrderView is the denormalized row both dashboards render.
type OrderView struct {
	ID               int64        `json:"id"`
	ProductID        int64        `json:"product_id"`
	ProductName      string       `json:"product_name"`
	BuyerID          string       `json:"buyer_id"`
	BuyerName        *string      `json:"buyer_name,omitempty"`
	ArtisanID        string       `json:"artisan_id"`
	ArtisanName      *string      `json:"artisan_name,omitempty"`
	Quantity         int          `json:"quantity"`
	TotalAmountCents int64        `json:"total_amount_cents"`
	Status           order.Status `json:"status"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
}

type Filter struct {
	Status *order.Status
	Search *string
}
