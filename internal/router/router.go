// Package router maps URL fragments to pages and enforces sign-in and admin guards.
package router

import (
	"context"
	"log/slog"
	"sync"

	"github.com/frahmantamala/procurement-portal/internal"
	"github.com/frahmantamala/procurement-portal/internal/notify"
)

// Identity is the session state the guards look at.
type Identity interface {
	IsAuthenticated() bool
	IsAdmin() bool
}

// EnterFunc runs every time its page becomes active. It must be safe to call repeatedly
// and must not navigate.
type EnterFunc func(ctx context.Context) error

// Observer is told the result of every evaluation.
type Observer interface {
	ObserveRoute(route, outcome string)
}

type Reason string

const (
	ReasonRendered      Reason = "rendered"
	ReasonUnknown       Reason = "unknown_route"
	ReasonAuthRequired  Reason = "auth_required"
	ReasonAdminRequired Reason = "admin_required"
)

// Outcome describes what one evaluation did.
type Outcome struct {
	Requested string
	Fragment  string
	Page      Page
	Reason    Reason
}

func (o Outcome) Redirected() bool {
	return o.Reason != ReasonRendered
}

// maxRedirects bounds redirect chains; the default table needs at most one hop.
const maxRedirects = 4

type Router struct {
	mu       sync.Mutex
	routes   map[string]Route
	enter    map[Page]EnterFunc
	identity Identity
	notifier notify.Sink
	observer Observer
	history  History
	active   Page
	logger   *slog.Logger
}

func New(routes []Route, identity Identity, notifier notify.Sink, logger *slog.Logger) *Router {
	table := make(map[string]Route, len(routes))
	for _, r := range routes {
		table[r.Fragment] = r
	}
	return &Router{
		routes:   table,
		enter:    make(map[Page]EnterFunc),
		identity: identity,
		notifier: notifier,
		logger:   logger,
	}
}

func (r *Router) SetObserver(o Observer) {
	r.observer = o
}

// OnEnter sets the callback for page.
func (r *Router) OnEnter(page Page, fn EnterFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.enter[page] = fn
}

// Lookup reports the route registered for fragment.
func (r *Router) Lookup(fragment string) (Route, bool) {
	route, ok := r.routes[CleanFragment(fragment)]
	return route, ok
}

// Navigate pushes fragment onto the history, unless it is already current, and evaluates it.
func (r *Router) Navigate(ctx context.Context, fragment string) Outcome {
	r.mu.Lock()
	defer r.mu.Unlock()

	f := CleanFragment(fragment)
	if f != r.history.Current() {
		r.history.Push(f)
	}
	return r.evaluate(ctx, f)
}

// Evaluate routes the fragment already on the history top, as on page load.
func (r *Router) Evaluate(ctx context.Context, fragment string) Outcome {
	r.mu.Lock()
	defer r.mu.Unlock()

	f := CleanFragment(fragment)
	r.history.Replace(f)
	return r.evaluate(ctx, f)
}

// Reload re-evaluates the current fragment.
func (r *Router) Reload(ctx context.Context) Outcome {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.evaluate(ctx, r.history.Current())
}

func (r *Router) evaluate(ctx context.Context, fragment string) Outcome {
	out := Outcome{Requested: fragment, Reason: ReasonRendered}
	current := fragment

	for hop := 0; hop <= maxRedirects; hop++ {
		route, ok := r.routes[current]
		var next string
		var reason Reason

		switch {
		case !ok:
			next, reason = Home, ReasonUnknown
		case route.RequiresAuth && !r.identity.IsAuthenticated():
			next, reason = Login, ReasonAuthRequired
		case route.RequiresAdmin && !r.identity.IsAdmin():
			r.notifier.Notify(internal.ErrAdminRequired.Message, notify.Danger)
			next, reason = Home, ReasonAdminRequired
		default:
			r.activate(ctx, route)
			out.Fragment = current
			out.Page = route.Page
			r.observe(fragment, out.Reason)
			return out
		}

		r.logger.DebugContext(ctx, "route redirected", "from", current, "to", next, "reason", reason)
		if out.Reason == ReasonRendered {
			out.Reason = reason
		}
		r.history.Replace(next)
		current = next
	}

	r.logger.ErrorContext(ctx, "redirect loop", "requested", fragment)
	out.Fragment = current
	out.Page = r.active
	r.observe(fragment, out.Reason)
	return out
}

func (r *Router) activate(ctx context.Context, route Route) {
	r.active = route.Page
	if fn, ok := r.enter[route.Page]; ok && fn != nil {
		if err := fn(ctx); err != nil {
			r.logger.ErrorContext(ctx, "page enter failed", "page", route.Page, "error", err)
		}
	}
}

func (r *Router) observe(fragment string, reason Reason) {
	if r.observer == nil {
		return
	}
	label := fragment
	if _, ok := r.routes[fragment]; !ok {
		label = "unknown"
	}
	r.observer.ObserveRoute(label, string(reason))
}

// Active is the one page currently shown, or PageNone before the first evaluation.
func (r *Router) Active() Page {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

// Current is the fragment on top of the history.
func (r *Router) Current() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.history.Current()
}

func (r *Router) History() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.history.Entries()
}
