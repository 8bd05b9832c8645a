package order

import "time"

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

type Order struct {
	ID               int64
	BuyerID          string
	ArtisanID        string
	ProductID        int64
	Quantity         int
	TotalAmountCents int64
	Status           Status
	ShippingAddress  *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type CreateInput struct {
	ProductID       int64
	Quantity        int
	ShippingAddress *string
}
