package prometheus

import (
	"testing"

	"github.com/authpipe/authpipe"
	prom "github.com/prometheus/client_golang/prometheus"
)

type fakeSource struct {
	snapshot authpipe.MetricsSnapshot
	dropped  uint64
}

func (f *fakeSource) MetricsSnapshot() authpipe.MetricsSnapshot { return f.snapshot }
func (f *fakeSource) AuditDropped() uint64                      { return f.dropped }

func TestCollectorExposesCounters(t *testing.T) {
	src := &fakeSource{
		snapshot: authpipe.MetricsSnapshot{
			Counters: map[authpipe.MetricID]uint64{
				authpipe.MetricExchangeSuccess: 7,
				authpipe.MetricCookieMissing:   2,
			},
		},
		dropped: 3,
	}

	registry := prom.NewRegistry()
	if err := registry.Register(NewCollector(src)); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	families, err := registry.Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}

	got := make(map[string]float64, len(families))
	for _, family := range families {
		for _, metric := range family.GetMetric() {
			got[family.GetName()] = metric.GetCounter().GetValue()
		}
	}

	if got["authpipe_exchange_success_total"] != 7 {
		t.Fatalf("expected exchange_success 7, got %v", got["authpipe_exchange_success_total"])
	}
	if got["authpipe_cookie_missing_total"] != 2 {
		t.Fatalf("expected cookie_missing 2, got %v", got["authpipe_cookie_missing_total"])
	}
	if got["authpipe_audit_dropped_total"] != 3 {
		t.Fatalf("expected audit_dropped 3, got %v", got["authpipe_audit_dropped_total"])
	}
	// Zero-valued counters are still exported.
	if _, ok := got["authpipe_session_write_total"]; !ok {
		t.Fatalf("expected session_write exported at zero")
	}
}
