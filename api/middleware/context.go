package middleware

import (
	"context"

	"github.com/classwish/classwish-backend/internal/profiles"
	"github.com/classwish/classwish-backend/pkg/enums"
	"github.com/google/uuid"
)

type contextKey string

const (
	ctxProfileID contextKey = "profile_id"
	ctxRole      contextKey = "actor_role"
)

func ProfileIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxProfileID).(string); ok {
		return v
	}
	return ""
}

func RoleFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxRole).(string); ok {
		return v
	}
	return ""
}

// ActorFromContext rebuilds the acting account from the request context.
// The zero Actor is returned when the request is unauthenticated.
func ActorFromContext(ctx context.Context) profiles.Actor {
	profileID, err := uuid.Parse(ProfileIDFromContext(ctx))
	if err != nil {
		return profiles.Actor{}
	}
	role, err := enums.ParseRole(RoleFromContext(ctx))
	if err != nil {
		return profiles.Actor{}
	}
	return profiles.Actor{ProfileID: profileID, Role: role}
}

// WithActor injects the acting account into the context.
func WithActor(ctx context.Context, actor profiles.Actor) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, ctxProfileID, actor.ProfileID.String())
	return context.WithValue(ctx, ctxRole, string(actor.Role))
}
