package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/frahmantamala/procurement-portal/pkg/metrics"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Metrics Suite")
}

var _ = Describe("Metrics", func() {
	It("counts commands and routes by label", func() {
		m := metrics.New()

		m.ObserveCommand("login", "ok")
		m.ObserveCommand("login", "ok")
		m.ObserveCommand("login", "rejected")
		m.ObserveRoute("#/accounts", "admin_required")

		commands, err := testutil.GatherAndCount(m.Registry(), "portal_commands_total")
		Expect(err).NotTo(HaveOccurred())
		Expect(commands).To(Equal(2))

		routes, err := testutil.GatherAndCount(m.Registry(), "portal_route_evaluations_total")
		Expect(err).NotTo(HaveOccurred())
		Expect(routes).To(Equal(1))
	})

	It("serves the exposition format", func() {
		m := metrics.New()
		m.ObserveCommand("logout", "ok")

		rec := httptest.NewRecorder()
		m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(ContainSubstring(`portal_commands_total{command="logout",outcome="ok"} 1`))
	})
})
