package order

import "errors"

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrForbidden         = errors.New("actor not allowed to perform this action")
	ErrConflict          = errors.New("concurrent update conflict, try again")
	ErrInvalidOrder      = errors.New("invalid order input")
)
