// Package request lets signed-in users file procurement requests.
package request

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/frahmantamala/procurement-portal/internal"
	"github.com/frahmantamala/procurement-portal/internal/command"
	portalDatamodel "github.com/frahmantamala/procurement-portal/internal/core/datamodel/portal"
	"github.com/frahmantamala/procurement-portal/internal/normalize"
	"github.com/frahmantamala/procurement-portal/internal/notify"
	"github.com/frahmantamala/procurement-portal/internal/router"
)

const (
	CommandSubmit = "request.submit"
	DefaultType   = "Equipment"
)

// SubmitRequestDTO is the request form. Items arrive as loose {name, qty} objects.
type SubmitRequestDTO struct {
	Type  string `json:"type" mapstructure:"type"`
	Items []any  `json:"items" mapstructure:"items"`
}

type RepositoryAPI interface {
	AddRequest(ctx context.Context, r portalDatamodel.Request) error
	RequestsFor(email string) []portalDatamodel.Request
}

type SessionAPI interface {
	Current() *portalDatamodel.Account
}

type Service struct {
	repo    RepositoryAPI
	session SessionAPI
	now     func() time.Time
	logger  *slog.Logger
}

func NewService(repo RepositoryAPI, session SessionAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		session: session,
		now:     time.Now,
		logger:  logger,
	}
}

// WithClock replaces the clock used to stamp new requests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Submit files a pending request for the signed-in account. Items without a name are
// dropped and quantities below one become one.
func (s *Service) Submit(ctx context.Context, dto SubmitRequestDTO) (*portalDatamodel.Request, error) {
	me := s.session.Current()
	if me == nil {
		return nil, internal.ErrNotSignedIn
	}

	items := normalize.Items(dto.Items)
	if len(items) == 0 {
		return nil, internal.ErrNoItems
	}

	kind := strings.TrimSpace(dto.Type)
	if kind == "" {
		kind = DefaultType
	}

	r := portalDatamodel.Request{
		ID:            portalDatamodel.NewID(portalDatamodel.PrefixRequest),
		EmployeeEmail: me.Email,
		Type:          kind,
		Items:         items,
		Status:        portalDatamodel.StatusPending,
		Date:          s.now().UTC().Format(normalize.DateLayout),
	}
	if err := s.repo.AddRequest(ctx, r); err != nil {
		return nil, err
	}

	s.logger.Info("request submitted", "request_id", r.ID, "items", len(items))
	return &r, nil
}

// Mine lists the signed-in account's requests, newest first.
func (s *Service) Mine() []portalDatamodel.Request {
	me := s.session.Current()
	if me == nil {
		return []portalDatamodel.Request{}
	}
	return s.repo.RequestsFor(me.Email)
}

type Handler struct {
	*command.BaseHandler
	Service *Service
}

func NewHandler(base *command.BaseHandler, svc *Service) *Handler {
	return &Handler{BaseHandler: base, Service: svc}
}

func (h *Handler) RegisterCommands(d *command.Dispatcher) {
	d.Handle(CommandSubmit, h.Submit)
}

func (h *Handler) Submit(ctx context.Context, p command.Payload) error {
	var dto SubmitRequestDTO
	if err := h.Decode(p, &dto); err != nil {
		return h.Fail(ctx, err)
	}

	if _, err := h.Service.Submit(ctx, dto); err != nil {
		if errors.Is(err, internal.ErrNotSignedIn) {
			h.Succeed(ctx, "", notify.Primary, router.Login)
			return err
		}
		return h.Fail(ctx, err)
	}

	h.Succeed(ctx, "Request submitted.", notify.Success, "")
	return nil
}
