package catalog

import "errors"

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrNotOwner          = errors.New("product belongs to another artisan")
	ErrInvalidProduct    = errors.New("invalid product input")
)
