// Package command maps named UI events to the handlers that serve them.
package command

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/frahmantamala/procurement-portal/internal"
	"github.com/go-viper/mapstructure/v2"
)

// Payload is the loosely typed form data that came with an event.
type Payload map[string]any

type HandlerFunc func(ctx context.Context, p Payload) error

// Registrar is implemented by every feature handler.
type Registrar interface {
	RegisterCommands(d *Dispatcher)
}

// Observer is told the outcome of every dispatch.
type Observer interface {
	ObserveCommand(name, outcome string)
}

const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// Dispatcher runs one command at a time.
type Dispatcher struct {
	mu       sync.Mutex
	handlers map[string]HandlerFunc
	observer Observer
	logger   *slog.Logger
}

func NewDispatcher(logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		handlers: make(map[string]HandlerFunc),
		logger:   logger,
	}
}

func (d *Dispatcher) SetObserver(o Observer) {
	d.observer = o
}

// Handle registers fn under name, replacing any previous handler.
func (d *Dispatcher) Handle(name string, fn HandlerFunc) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[name] = fn
}

func (d *Dispatcher) Register(registrars ...Registrar) {
	for _, r := range registrars {
		r.RegisterCommands(d)
	}
}

// Names lists registered commands in sorted order.
func (d *Dispatcher) Names() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	names := make([]string, 0, len(d.handlers))
	for name := range d.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (d *Dispatcher) Dispatch(ctx context.Context, name string, p Payload) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	fn, ok := d.handlers[name]
	if !ok {
		d.observe(name, OutcomeError)
		return internal.NewNotFoundError(fmt.Sprintf("unknown command %q", name), internal.ErrCodeCommandNotFound)
	}
	if p == nil {
		p = Payload{}
	}

	start := time.Now()
	err := fn(ctx, p)
	outcome := Outcome(err)
	d.observe(name, outcome)

	d.logger.InfoContext(ctx, "command dispatched",
		"command", name,
		"actor", internal.ActorFromContext(ctx),
		"outcome", outcome,
		"duration_ms", time.Since(start).Milliseconds())
	return err
}

func (d *Dispatcher) observe(name, outcome string) {
	if d.observer != nil {
		d.observer.ObserveCommand(name, outcome)
	}
}

// Outcome classifies err: user-facing AppErrors are rejections, everything else is an error.
func Outcome(err error) string {
	if err == nil {
		return OutcomeOK
	}
	if appErr, ok := internal.IsAppError(err); ok && appErr.Type != internal.ErrorTypeInternal {
		return OutcomeRejected
	}
	return OutcomeError
}

// Decode copies p into the struct out points at. Scalars are converted weakly, the way
// form fields arrive as strings.
func Decode(p Payload, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(map[string]any(p)); err != nil {
		return internal.NewValidationError("Invalid form data.", internal.ErrCodeValidationFailed).WithCause(err)
	}
	return nil
}
