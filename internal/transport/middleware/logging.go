package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/frahmantamala/procurement-portal/pkg/logger"

	chiMiddleware "github.com/go-chi/chi/middleware"
)

const masked = "[FILTERED]"

// credentialHints are matched as substrings of lower-cased header and payload field names.
var credentialHints = []string{"password", "pass", "token", "authorization", "cookie", "secret", "session", "credential"}

// LoggingMiddleware writes one line per request with the command payload and headers
// masked. It uses the request-scoped logger when RequestID ran first.
func LoggingMiddleware(base *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			lg := logger.FromOr(r.Context(), base)
			payload := readPayload(r)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			level := slog.LevelInfo
			switch {
			case status >= http.StatusInternalServerError:
				level = slog.LevelError
			case status >= http.StatusBadRequest:
				level = slog.LevelWarn
			}

			lg.Log(r.Context(), level, "request handled",
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
				"remote_addr", r.RemoteAddr,
				"headers", maskHeaders(r.Header),
				"payload", payload,
			)
		})
	}
}

// readPayload returns the masked body and hands an unread copy back to the handler.
func readPayload(r *http.Request) string {
	if r.Body == nil || r.Body == http.NoBody {
		return ""
	}
	body, err := io.ReadAll(r.Body)
	r.Body = io.NopCloser(bytes.NewReader(body))
	if err != nil || len(body) == 0 {
		return ""
	}
	return maskPayload(body)
}

// maskPayload masks credential fields of a JSON body. Anything else is reduced to its size.
func maskPayload(body []byte) string {
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		return fmt.Sprintf("[%d bytes, not JSON]", len(body))
	}
	out, err := json.Marshal(mask(v))
	if err != nil {
		return ""
	}
	return string(out)
}

func mask(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			if sensitive(k) {
				out[k] = masked
				continue
			}
			out[k] = mask(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = mask(t[i])
		}
		return out
	}
	return v
}

func maskHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for name, values := range h {
		if sensitive(name) {
			out[name] = masked
			continue
		}
		out[name] = strings.Join(values, ", ")
	}
	return out
}

func sensitive(name string) bool {
	name = strings.ToLower(name)
	for _, hint := range credentialHints {
		if strings.Contains(name, hint) {
			return true
		}
	}
	return false
}
