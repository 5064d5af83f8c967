package prometheus

import (
	"net/http"

	"github.com/authpipe/authpipe"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsSource is the read side a collector consumes, satisfied by
// [authpipe.CookieExchange].
type MetricsSource interface {
	MetricsSnapshot() authpipe.MetricsSnapshot
	AuditDropped() uint64
}

var metricHelp = map[authpipe.MetricID]string{
	authpipe.MetricExchangeSuccess:     "Cookie exchanges that installed a token.",
	authpipe.MetricExchangeFailure:     "Cookie exchanges rejected by the token exchanger.",
	authpipe.MetricCookieMissing:       "Invocations that found no token cookie.",
	authpipe.MetricSkipUnfetched:       "Invocations skipped on the unfetched-cookie sentinel.",
	authpipe.MetricSkipPresent:         "Invocations skipped because a token was already present.",
	authpipe.MetricSessionWrite:        "Exchanged tokens persisted into an active session.",
	authpipe.MetricSessionWriteFailure: "Session writes rejected by the store.",
}

// Collector exposes authpipe stage counters as Prometheus metrics. It
// implements [prom.Collector] by reading a fresh snapshot on every scrape.
type Collector struct {
	source       MetricsSource
	descs        map[authpipe.MetricID]*prom.Desc
	auditDropped *prom.Desc
}

var _ prom.Collector = (*Collector)(nil)

// NewCollector creates a collector reading from source.
func NewCollector(source MetricsSource) *Collector {
	descs := make(map[authpipe.MetricID]*prom.Desc, len(metricHelp))
	for _, id := range authpipe.MetricIDs() {
		descs[id] = prom.NewDesc(
			"authpipe_"+id.Name()+"_total",
			metricHelp[id],
			nil, nil,
		)
	}

	return &Collector{
		source: source,
		descs:  descs,
		auditDropped: prom.NewDesc(
			"authpipe_audit_dropped_total",
			"Dropped audit events due to dispatcher backpressure.",
			nil, nil,
		),
	}
}

// Describe implements [prom.Collector].
func (c *Collector) Describe(ch chan<- *prom.Desc) {
	for _, desc := range c.descs {
		ch <- desc
	}
	ch <- c.auditDropped
}

// Collect implements [prom.Collector].
func (c *Collector) Collect(ch chan<- prom.Metric) {
	if c == nil || c.source == nil {
		return
	}

	snapshot := c.source.MetricsSnapshot()
	for id, desc := range c.descs {
		ch <- prom.MustNewConstMetric(desc, prom.CounterValue, float64(snapshot.Counters[id]))
	}
	ch <- prom.MustNewConstMetric(c.auditDropped, prom.CounterValue, float64(c.source.AuditDropped()))
}

// Handler registers a collector for source on a private registry and
// returns an http.Handler serving it.
func Handler(source MetricsSource) http.Handler {
	registry := prom.NewRegistry()
	registry.MustRegister(NewCollector(source))
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
