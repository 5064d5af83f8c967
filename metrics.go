package authpipe

import "sync/atomic"

// MetricID identifies one counter in the in-process metrics registry.
type MetricID uint8

const (
	// MetricExchangeSuccess counts cookie exchanges that installed a token.
	MetricExchangeSuccess MetricID = iota
	// MetricExchangeFailure counts exchanges rejected by the implementation.
	MetricExchangeFailure
	// MetricCookieMissing counts invocations that found no token cookie.
	MetricCookieMissing
	// MetricSkipUnfetched counts invocations skipped on the unfetched-cookie
	// sentinel.
	MetricSkipUnfetched
	// MetricSkipPresent counts invocations skipped because a token was
	// already installed for the slot.
	MetricSkipPresent
	// MetricSessionWrite counts exchanged tokens persisted into an active
	// session.
	MetricSessionWrite
	// MetricSessionWriteFailure counts session writes the store rejected.
	MetricSessionWriteFailure

	metricIDCount
)

var metricNames = [metricIDCount]string{
	MetricExchangeSuccess:     "exchange_success",
	MetricExchangeFailure:     "exchange_failure",
	MetricCookieMissing:       "cookie_missing",
	MetricSkipUnfetched:       "skip_unfetched",
	MetricSkipPresent:         "skip_present",
	MetricSessionWrite:        "session_write",
	MetricSessionWriteFailure: "session_write_failure",
}

// Name returns the stable snake_case name of the metric, or "" for an
// unknown ID.
func (id MetricID) Name() string {
	if id >= metricIDCount {
		return ""
	}
	return metricNames[id]
}

// MetricIDs returns every defined [MetricID] in declaration order.
func MetricIDs() []MetricID {
	ids := make([]MetricID, metricIDCount)
	for i := range ids {
		ids[i] = MetricID(i)
	}
	return ids
}

// Metrics holds lock-free counters incremented on the stage hot path. A nil
// or disabled Metrics turns every operation into a no-op.
type Metrics struct {
	enabled  bool
	counters [metricIDCount]atomic.Uint64
}

// NewMetrics creates a metrics registry. When enabled is false all
// operations are no-ops.
func NewMetrics(enabled bool) *Metrics {
	return &Metrics{enabled: enabled}
}

// Inc increments the counter for id.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= metricIDCount {
		return
	}
	m.counters[id].Add(1)
}

// Value returns the current count for id.
func (m *Metrics) Value(id MetricID) uint64 {
	if m == nil || id >= metricIDCount {
		return 0
	}
	return m.counters[id].Load()
}

// MetricsSnapshot is a point-in-time copy of all counters.
type MetricsSnapshot struct {
	Counters map[MetricID]uint64
}

// Snapshot copies every counter. The result is detached from the live
// registry.
func (m *Metrics) Snapshot() MetricsSnapshot {
	out := MetricsSnapshot{Counters: make(map[MetricID]uint64, metricIDCount)}
	if m == nil {
		return out
	}
	for i := MetricID(0); i < metricIDCount; i++ {
		out.Counters[i] = m.counters[i].Load()
	}
	return out
}
