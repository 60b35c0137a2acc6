package auth

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/procurement-portal/internal"
	"github.com/frahmantamala/procurement-portal/internal/command"
)

type Requirement int

const (
	Anyone Requirement = iota
	SignedIn
	Admin
)

func (r Requirement) String() string {
	switch r {
	case SignedIn:
		return "signed_in"
	case Admin:
		return "admin"
	default:
		return "anyone"
	}
}

// Identity is what a guard needs to know about the session.
type Identity interface {
	IsAuthenticated() bool
	IsAdmin() bool
}

// Guard rejects commands the current identity is not allowed to run.
type Guard struct {
	identity Identity
	logger   *slog.Logger
}

func NewGuard(identity Identity, logger *slog.Logger) *Guard {
	return &Guard{
		identity: identity,
		logger:   logger,
	}
}

// Check returns ErrNotSignedIn or ErrAdminRequired when r is not met.
func (g *Guard) Check(ctx context.Context, r Requirement) error {
	switch {
	case r == Anyone:
		return nil
	case !g.identity.IsAuthenticated():
		g.logger.WarnContext(ctx, "access denied: not signed in", "required", r.String())
		return internal.ErrNotSignedIn
	case r == Admin && !g.identity.IsAdmin():
		g.logger.WarnContext(ctx, "access denied: admin required", "actor", internal.ActorFromContext(ctx))
		return internal.ErrAdminRequired
	}
	return nil
}

// Require wraps next so it only runs when r is met.
func (g *Guard) Require(r Requirement, next command.HandlerFunc) command.HandlerFunc {
	return func(ctx context.Context, p command.Payload) error {
		if err := g.Check(ctx, r); err != nil {
			return err
		}
		return next(ctx, p)
	}
}

// Reporter surfaces a rejected command to the user.
type Reporter interface {
	Fail(ctx context.Context, err error) error
}

// Protect is Require for handlers that report their own failures. A denial goes
// through rep before it is returned.
func (g *Guard) Protect(rep Reporter, r Requirement, next command.HandlerFunc) command.HandlerFunc {
	return func(ctx context.Context, p command.Payload) error {
		if err := g.Check(ctx, r); err != nil {
			return rep.Fail(ctx, err)
		}
		return next(ctx, p)
	}
}
