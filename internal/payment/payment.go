package payment

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrDeclined means the authorization was refused; the order must not
	// be created.
	ErrDeclined = errors.New("payment authorization declined")

	// ErrNotImplemented is returned by the real-gateway slot until one is
	// integrated.
	ErrNotImplemented = errors.New("payment gateway not implemented")
)

// OrderIntent describes the charge the workflow engine wants authorized
// before it commits an order.
type OrderIntent struct {
	BuyerID     string
	ProductID   int64
	Quantity    int
	AmountCents int64
}

type Authorization struct {
	Reference    string
	AuthorizedAt time.Time
}

// Authorizer is consulted synchronously by the order workflow before the
// create transaction commits.
type Authorizer interface {
	Authorize(ctx context.Context, intent OrderIntent) (*Authorization, error)
}
