package middleware

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestMiddleware(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Middleware Suite")
}

var _ = Describe("maskPayload", func() {
	It("masks credential fields at any depth", func() {
		out := maskPayload([]byte(`{"email":"a@b.com","password":"secret1","nested":[{"auth_token":"x"}]}`))

		Expect(out).To(ContainSubstring(`"email":"a@b.com"`))
		Expect(out).To(ContainSubstring(`"password":"[FILTERED]"`))
		Expect(out).To(ContainSubstring(`"auth_token":"[FILTERED]"`))
		Expect(out).NotTo(ContainSubstring("secret1"))
	})

	It("reduces other bodies to their size", func() {
		Expect(maskPayload([]byte("password=secret1"))).To(Equal("[16 bytes, not JSON]"))
	})
})

var _ = Describe("chain", func() {
	var logs *bytes.Buffer
	var base *slog.Logger

	BeforeEach(func() {
		logs = &bytes.Buffer{}
		base = slog.New(slog.NewTextHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	})

	It("tags log lines with the request id and never logs passwords", func() {
		h := RequestID(base)(LoggingMiddleware(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})))

		req := httptest.NewRequest(http.MethodPost, "/api/v1/commands/login", strings.NewReader(`{"password":"secret1"}`))
		req.Header.Set(RequestIDHeader, "req-42")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		Expect(rec.Code).To(Equal(http.StatusNoContent))
		Expect(rec.Header().Get(RequestIDHeader)).To(Equal("req-42"))
		Expect(logs.String()).To(ContainSubstring("request_id=req-42"))
		Expect(logs.String()).NotTo(ContainSubstring("secret1"))
	})

	It("leaves the body readable and logs the status and masked headers", func() {
		var seen string
		h := LoggingMiddleware(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			b, _ := io.ReadAll(r.Body)
			seen = string(b)
			w.WriteHeader(http.StatusUnprocessableEntity)
		}))

		req := httptest.NewRequest(http.MethodPost, "/api/v1/commands/login", strings.NewReader(`{"email":"a@b.com","password":"secret1"}`))
		req.Header.Set("Cookie", "sid=abc123")
		h.ServeHTTP(httptest.NewRecorder(), req)

		Expect(seen).To(ContainSubstring("secret1"))
		Expect(logs.String()).To(ContainSubstring("level=WARN"))
		Expect(logs.String()).To(ContainSubstring("status=422"))
		Expect(logs.String()).NotTo(ContainSubstring("secret1"))
		Expect(logs.String()).NotTo(ContainSubstring("abc123"))
	})

	It("turns panics into 500s", func() {
		h := RecoveryMiddleware(base)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic("boom")
		}))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		Expect(rec.Code).To(Equal(http.StatusInternalServerError))
		Expect(logs.String()).To(ContainSubstring("panic recovered"))
	})
})
