package telemetry

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCountersIncrementAndRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New("eppotest", reg)

	m.FetchAttempts.Inc()
	m.FetchSuccesses.Inc()
	m.FetchSuccesses.Inc()

	if got := testutil.ToFloat64(m.FetchAttempts); got != 1 {
		t.Fatalf("expected FetchAttempts=1, got %v", got)
	}
	if got := testutil.ToFloat64(m.FetchSuccesses); got != 2 {
		t.Fatalf("expected FetchSuccesses=2, got %v", got)
	}
}

func TestNoopMetricsDoNotPanic(t *testing.T) {
	m := Noop()
	m.FetchAttempts.Inc()
	m.PollFailures.Inc()
}
