package payment

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SimulatedAuthorizer approves any positive amount with a deterministic
// reference. Used in development and test environments.
type SimulatedAuthorizer struct{}

func (SimulatedAuthorizer) Authorize(_ context.Context, intent OrderIntent) (*Authorization, error) {
	if intent.AmountCents <= 0 {
		return nil, ErrDeclined
	}
	return &Authorization{
		Reference:    "SIM-" + uuid.NewString(),
		AuthorizedAt: time.Now(),
	}, nil
}

// UnimplementedGateway is the slot for a real gateway integration. It
// refuses every authorization with an explicit not-implemented error.
type UnimplementedGateway struct{}

func (UnimplementedGateway) Authorize(context.Context, OrderIntent) (*Authorization, error) {
	return nil, ErrNotImplemented
}
