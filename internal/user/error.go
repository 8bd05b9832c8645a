package user

import "errors"

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrNotArtisan      = errors.New("account is not an artisan")
	ErrInvalidProfile  = errors.New("invalid profile input")
)
