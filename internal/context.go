package internal

import (
	"context"
	"time"
)

type ctxKey string

const ContextActorKey ctxKey = "actorEmail"

// ActorFromContext returns the email of the signed-in account that triggered the event.
func ActorFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if email, ok := ctx.Value(ContextActorKey).(string); ok {
		return email
	}
	return ""
}

func ContextWithActor(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, ContextActorKey, email)
}

// WithTimeout returns a context with timeout, defaulting to 5 seconds if duration is zero or negative.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		duration = 5 * time.Second
	}
	return context.WithTimeout(ctx, duration)
}
