// Package metrics exposes portal counters to Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry
	commands *prometheus.CounterVec
	routes   *prometheus.CounterVec
}

// New registers the portal counters plus the Go and process collectors on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "portal",
			Name:      "commands_total",
			Help:      "Dispatched commands by name and outcome.",
		}, []string{"command", "outcome"}),
		routes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "portal",
			Name:      "route_evaluations_total",
			Help:      "Route evaluations by requested route and outcome.",
		}, []string{"route", "outcome"}),
	}
	m.registry.MustRegister(
		m.commands,
		m.routes,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) ObserveCommand(name, outcome string) {
	m.commands.WithLabelValues(name, outcome).Inc()
}

func (m *Metrics) ObserveRoute(route, outcome string) {
	m.routes.WithLabelValues(route, outcome).Inc()
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RouteCounter exposes the route counter for assertions.
func (m *Metrics) RouteCounter() *prometheus.CounterVec {
	return m.routes
}

// CommandCounter exposes the command counter for assertions.
func (m *Metrics) CommandCounter() *prometheus.CounterVec {
	return m.commands
}
