package verification

import (
	"context"
	"errors"
)

var (
	// ErrNotImplemented is returned by the SMS delivery slot until a real
	// provider is integrated.
	ErrNotImplemented = errors.New("sms delivery not implemented")

	ErrCodeMismatch = errors.New("verification code invalid or expired")
	ErrInvalidPhone = errors.New("invalid phone number")
)

// Sender delivers a verification code to a phone number.
type Sender interface {
	Send(ctx context.Context, phone, code string) error
}

// UnimplementedSender is the slot for a real SMS provider. It refuses every
// delivery with an explicit not-implemented error.
type UnimplementedSender struct{}

func (UnimplementedSender) Send(context.Context, string, string) error {
	return ErrNotImplemented
}
