// Package app assembles the portal core from a slot store.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/procurement-portal/internal"
	"github.com/frahmantamala/procurement-portal/internal/account"
	"github.com/frahmantamala/procurement-portal/internal/auth"
	"github.com/frahmantamala/procurement-portal/internal/command"
	"github.com/frahmantamala/procurement-portal/internal/department"
	"github.com/frahmantamala/procurement-portal/internal/employee"
	"github.com/frahmantamala/procurement-portal/internal/normalize"
	"github.com/frahmantamala/procurement-portal/internal/notify"
	"github.com/frahmantamala/procurement-portal/internal/portal"
	"github.com/frahmantamala/procurement-portal/internal/request"
	"github.com/frahmantamala/procurement-portal/internal/router"
	"github.com/frahmantamala/procurement-portal/internal/storage"
	"github.com/frahmantamala/procurement-portal/internal/transport"
	"github.com/frahmantamala/procurement-portal/internal/transport/rest"
	"github.com/frahmantamala/procurement-portal/internal/view"
	"github.com/frahmantamala/procurement-portal/pkg/metrics"

	"github.com/go-chi/chi"
)

// Portal is one running instance of the portal core.
type Portal struct {
	Config     *internal.Config
	Slots      storage.SlotStore
	Documents  *storage.DocumentStore
	Repo       *portal.Repository
	Token      *storage.Slot
	Pending    *storage.Slot
	Session    *auth.Session
	Guard      *auth.Guard
	Inbox      *notify.Recorder
	Router     *router.Router
	Surface    *view.MemorySurface
	Renderer   *view.Renderer
	Dispatcher *command.Dispatcher
	Metrics    *metrics.Metrics
	Logger     *slog.Logger
}

// New loads the document from slots, restores the session and evaluates the home route.
func New(ctx context.Context, cfg *internal.Config, slots storage.SlotStore, logger *slog.Logger) (*Portal, error) {
	p := &Portal{
		Config:  cfg,
		Slots:   slots,
		Token:   storage.NewSlot(slots, cfg.Storage.TokenSlot),
		Pending: storage.NewSlot(slots, cfg.Storage.UnverifiedSlot),
		Inbox:   notify.NewRecorder(),
		Surface: view.NewMemorySurface(),
		Metrics: metrics.New(),
		Logger:  logger,
	}

	p.Documents = storage.NewDocumentStore(slots, cfg.Storage.DocumentSlot, normalize.New(), logger)
	repo, err := portal.Open(ctx, p.Documents, logger)
	if err != nil {
		return nil, err
	}
	p.Repo = repo

	p.Session = auth.NewSession(repo, p.Token, logger)
	if err := p.Session.Restore(ctx); err != nil {
		return nil, fmt.Errorf("restore session: %w", err)
	}
	p.Guard = auth.NewGuard(p.Session, logger)

	notifier := notify.Multi(notify.NewLogSink(logger), p.Inbox)

	p.Router = router.New(router.DefaultRoutes, p.Session, notifier, logger)
	p.Router.SetObserver(p.Metrics)

	p.Renderer, err = view.NewRenderer(repo, p.Session, p.Pending, p.Surface, logger)
	if err != nil {
		return nil, err
	}
	p.Renderer.Bind(p.Router)

	base := command.NewBaseHandler(logger, notifier, p.Router)
	p.Dispatcher = command.NewDispatcher(logger)
	p.Dispatcher.SetObserver(p.Metrics)
	p.Dispatcher.Register(
		command.NewNavigationHandler(base),
		auth.NewHandler(base, p.Session),
		account.NewHandler(base, account.NewService(repo, p.Session, p.Pending, logger), p.Guard),
		department.NewHandler(base, department.NewService(repo, logger), p.Guard),
		employee.NewHandler(base, employee.NewService(repo, logger), p.Guard),
		request.NewHandler(base, request.NewService(repo, p.Session, logger)),
	)

	p.Router.Evaluate(ctx, router.Home)
	p.Inbox.Drain()
	return p, nil
}

// Dispatch runs a named command on behalf of the signed-in account, if any.
func (p *Portal) Dispatch(ctx context.Context, name string, payload command.Payload) error {
	if me := p.Session.Current(); me != nil {
		ctx = internal.ContextWithActor(ctx, me.Email)
	}
	return p.Dispatcher.Dispatch(ctx, name, payload)
}

// HealthChecks probes the slot store, plus redis directly when it backs the store.
func (p *Portal) HealthChecks() map[string]rest.CheckFunc {
	checks := map[string]rest.CheckFunc{
		"storage": func(ctx context.Context) error {
			_, _, err := p.Documents.Raw(ctx)
			return err
		},
	}
	if pinger, ok := p.Slots.(interface{ Ping(context.Context) error }); ok {
		checks["redis"] = pinger.Ping
	}
	return checks
}

// Handler returns the preview HTTP surface.
func (p *Portal) Handler() http.Handler {
	mux := chi.NewRouter()

	portalHandler := rest.NewPortalHandler(transport.NewBaseHandler(p.Logger), rest.PortalDeps{
		Dispatcher: p,
		Router:     p.Router,
		Layout:     p.Renderer,
		Containers: p.Surface,
		Viewer:     p.Session,
		Inbox:      p.Inbox,
		Document:   p.Documents,
	})

	routes := rest.Routes{
		Portal: portalHandler,
		Health: rest.NewHealthHandler(p.HealthChecks()),
	}
	if p.Config.Observability.Metrics.Enabled {
		routes.Metrics = p.Metrics.Handler()
		routes.MetricsPath = p.Config.Observability.Metrics.Path
	}

	rest.RegisterAllRoutes(mux, routes, p.Logger)
	return mux
}

// Close releases the slot store.
func (p *Portal) Close() error {
	return p.Slots.Close()
}
