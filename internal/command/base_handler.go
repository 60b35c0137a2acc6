package command

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/procurement-portal/internal"
	"github.com/frahmantamala/procurement-portal/internal/notify"
	"github.com/frahmantamala/procurement-portal/internal/router"
	"github.com/frahmantamala/procurement-portal/pkg/logger"
)

// Navigator moves the UI to another fragment or redraws the current one.
type Navigator interface {
	Navigate(ctx context.Context, fragment string) router.Outcome
	Reload(ctx context.Context) router.Outcome
}

// BaseHandler provides the report-and-navigate plumbing every feature handler shares.
type BaseHandler struct {
	Logger    *slog.Logger
	Notifier  notify.Sink
	Navigator Navigator
}

func NewBaseHandler(lg *slog.Logger, notifier notify.Sink, nav Navigator) *BaseHandler {
	if lg == nil {
		lg = logger.LoggerWrapper()
	}
	return &BaseHandler{Logger: lg, Notifier: notifier, Navigator: nav}
}

func (h *BaseHandler) Decode(p Payload, out any) error {
	return Decode(p, out)
}

// Fail reports err to the user and hands it back to the caller.
func (h *BaseHandler) Fail(ctx context.Context, err error) error {
	if appErr, ok := internal.IsAppError(err); ok && appErr.Type != internal.ErrorTypeInternal {
		h.Logger.InfoContext(ctx, "command rejected", "code", appErr.Code, "message", appErr.GetDetailedMessage())
		h.Notifier.Notify(appErr.GetDetailedMessage(), notify.Danger)
		return err
	}

	h.Logger.ErrorContext(ctx, "command failed", "error", err)
	h.Notifier.Notify("Something went wrong. Please try again.", notify.Danger)
	return err
}

// Succeed notifies, then navigates to fragment or, when it is empty, redraws the current page.
func (h *BaseHandler) Succeed(ctx context.Context, message string, severity notify.Severity, fragment string) {
	if message != "" {
		h.Notifier.Notify(message, severity)
	}
	if h.Navigator == nil {
		return
	}
	if fragment == "" {
		h.Navigator.Reload(ctx)
		return
	}
	h.Navigator.Navigate(ctx, fragment)
}
