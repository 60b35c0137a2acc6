package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/frahmantamala/procurement-portal/internal"
	"github.com/frahmantamala/procurement-portal/internal/command"
	portalDatamodel "github.com/frahmantamala/procurement-portal/internal/core/datamodel/portal"
	"github.com/frahmantamala/procurement-portal/internal/notify"
	"github.com/frahmantamala/procurement-portal/internal/router"
	"github.com/frahmantamala/procurement-portal/internal/transport"
	"github.com/frahmantamala/procurement-portal/internal/view"

	"github.com/go-chi/chi"
)

type Dispatcher interface {
	Dispatch(ctx context.Context, name string, p command.Payload) error
}

type Navigator interface {
	Navigate(ctx context.Context, fragment string) router.Outcome
	Current() string
	Active() router.Page
}

type Layout interface {
	Layout(w io.Writer, data view.PageData) error
}

type Containers interface {
	Pick(ids ...string) []view.Container
}

type Viewer interface {
	Current() *portalDatamodel.Account
	IsAuthenticated() bool
	IsAdmin() bool
}

type Inbox interface {
	Drain() []notify.Notification
}

// DocumentSource exposes the persisted document as stored.
type DocumentSource interface {
	Raw(ctx context.Context) (string, bool, error)
}

// PortalDeps is everything the preview handler drives.
type PortalDeps struct {
	Dispatcher Dispatcher
	Router     Navigator
	Layout     Layout
	Containers Containers
	Viewer     Viewer
	Inbox      Inbox
	Document   DocumentSource
}

// PortalHandler exposes the portal core over HTTP. The core is single-threaded, so
// every request holds one lock from dispatch until the response is built.
type PortalHandler struct {
	*transport.BaseHandler
	deps PortalDeps
	mu   sync.Mutex
}

func NewPortalHandler(base *transport.BaseHandler, deps PortalDeps) *PortalHandler {
	return &PortalHandler{BaseHandler: base, deps: deps}
}

type RouteResponse struct {
	Requested  string `json:"requested"`
	Fragment   string `json:"fragment"`
	Page       string `json:"page"`
	Redirected bool   `json:"redirected"`
	Reason     string `json:"reason"`
}

type CommandResponse struct {
	Command       string                `json:"command"`
	Outcome       string                `json:"outcome"`
	Fragment      string                `json:"fragment"`
	Page          string                `json:"page"`
	Notifications []notify.Notification `json:"notifications"`
}

func toRouteResponse(o router.Outcome) RouteResponse {
	return RouteResponse{
		Requested:  o.Requested,
		Fragment:   o.Fragment,
		Page:       string(o.Page),
		Redirected: o.Redirected(),
		Reason:     string(o.Reason),
	}
}

// Page renders the layout for ?fragment= (the current fragment when absent).
func (h *PortalHandler) Page(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	fragment := r.URL.Query().Get("fragment")
	if fragment == "" {
		fragment = h.deps.Router.Current()
	}
	outcome := h.deps.Router.Navigate(r.Context(), fragment)

	data := view.PageData{
		Fragment:      outcome.Fragment,
		Page:          outcome.Page,
		User:          h.deps.Viewer.Current(),
		Notifications: h.deps.Inbox.Drain(),
		Containers:    h.deps.Containers.Pick(view.PageContainers[outcome.Page]...),
	}

	var buf bytes.Buffer
	if err := h.deps.Layout.Layout(&buf, data); err != nil {
		h.WriteAppError(w, internal.NewInternalError("render page", err), nil)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// Route evaluates ?fragment= and reports where the guard chain settled.
func (h *PortalHandler) Route(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	outcome := h.deps.Router.Navigate(r.Context(), r.URL.Query().Get("fragment"))
	h.deps.Inbox.Drain()
	h.WriteJSON(w, http.StatusOK, toRouteResponse(outcome))
}

// Command dispatches {name} with the JSON object body as its payload.
func (h *PortalHandler) Command(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	name := chi.URLParam(r, "name")

	payload := command.Payload{}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "failed to read request body")
		return
	}
	if len(strings.TrimSpace(string(body))) > 0 {
		if err := json.Unmarshal(body, &payload); err != nil {
			h.WriteAppError(w, internal.NewValidationError("Invalid form data.", internal.ErrCodeValidationFailed).WithCause(err), nil)
			return
		}
	}

	dispatchErr := h.deps.Dispatcher.Dispatch(r.Context(), name, payload)

	resp := CommandResponse{
		Command:       name,
		Outcome:       command.Outcome(dispatchErr),
		Fragment:      h.deps.Router.Current(),
		Page:          string(h.deps.Router.Active()),
		Notifications: h.deps.Inbox.Drain(),
	}
	if resp.Notifications == nil {
		resp.Notifications = []notify.Notification{}
	}

	if dispatchErr != nil {
		h.WriteAppError(w, dispatchErr, map[string]interface{}{
			"command":       resp.Command,
			"outcome":       resp.Outcome,
			"fragment":      resp.Fragment,
			"page":          resp.Page,
			"notifications": resp.Notifications,
		})
		return
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

// Document returns the persisted document to admins.
func (h *PortalHandler) Document(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.deps.Viewer.IsAuthenticated() {
		h.WriteAppError(w, internal.ErrNotSignedIn, nil)
		return
	}
	if !h.deps.Viewer.IsAdmin() {
		h.WriteAppError(w, internal.ErrAdminRequired, nil)
		return
	}

	raw, ok, err := h.deps.Document.Raw(r.Context())
	if err != nil {
		h.WriteAppError(w, internal.NewInternalError("read document", err), nil)
		return
	}
	if !ok {
		h.WriteAppError(w, internal.NewNotFoundError("No document stored yet.", internal.ErrCodeDocumentNotFound), nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(raw))
}
