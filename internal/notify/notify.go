// Package notify carries user-facing outcome messages out of the core.
package notify

import (
	"context"
	"log/slog"
	"sync"
)

type Severity string

const (
	Primary   Severity = "primary"
	Success   Severity = "success"
	Warning   Severity = "warning"
	Danger    Severity = "danger"
	Secondary Severity = "secondary"
)

type Sink interface {
	Notify(message string, severity Severity)
}

type Notification struct {
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// LogSink writes notifications to a structured logger.
type LogSink struct {
	logger *slog.Logger
}

func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Notify(message string, severity Severity) {
	level := slog.LevelInfo
	switch severity {
	case Danger:
		level = slog.LevelWarn
	case Secondary:
		level = slog.LevelDebug
	}
	s.logger.Log(context.Background(), level, "notification", "message", message, "severity", string(severity))
}

// Recorder keeps notifications until drained.
type Recorder struct {
	mu    sync.Mutex
	items []Notification
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Notify(message string, severity Severity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, Notification{Message: message, Severity: severity})
}

// All returns what has been recorded so far without draining.
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification{}, r.items...)
}

// Drain returns and forgets everything recorded.
func (r *Recorder) Drain() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.items
	r.items = nil
	return out
}

// Last returns the most recent notification, if any.
func (r *Recorder) Last() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.items) == 0 {
		return Notification{}, false
	}
	return r.items[len(r.items)-1], true
}

type multi []Sink

// Multi fans every notification out to each sink in order.
func Multi(sinks ...Sink) Sink {
	return multi(sinks)
}

func (m multi) Notify(message string, severity Severity) {
	for _, s := range m {
		s.Notify(message, severity)
	}
}
