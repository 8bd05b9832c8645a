package identity

import "context"

type Role string

const (
	RoleArtisan Role = "artisan"
	RoleBuyer   Role = "buyer"
)

// Actor is a verified identity handed to the core by the auth boundary.
// The core never manages credentials itself.
type Actor struct {
	ID    string
	Email string
	Role  Role
}

type ctxKey string

const actorKey ctxKey = "actor"

func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, actorKey, a)
}

func ActorFrom(ctx context.Context) (Actor, bool) {
	a, ok := ctx.Value(actorKey).(Actor)
	return a, ok
}
