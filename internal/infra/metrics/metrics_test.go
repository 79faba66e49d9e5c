// Tests for the Prometheus collectors. Collectors live on the default
// registry, so counters are only ever incremented here, never reset.
package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCompletionFailovers_Increments(t *testing.T) {
	before := testutil.ToFloat64(CompletionFailovers)
	CompletionFailovers.Inc()
	after := testutil.ToFloat64(CompletionFailovers)

	if after != before+1 {
		t.Errorf("CompletionFailovers went %v -> %v; want +1", before, after)
	}
}

func TestCompletionErrors_LabelledByKind(t *testing.T) {
	c := CompletionErrors.WithLabelValues("provider_timeout")
	before := testutil.ToFloat64(c)
	c.Inc()
	if got := testutil.ToFloat64(c); got != before+1 {
		t.Errorf("CompletionErrors{kind=provider_timeout} went %v -> %v; want +1", before, got)
	}
}

func TestSuggestionYield_LabelledBySource(t *testing.T) {
	c := SuggestionYield.WithLabelValues("history")
	before := testutil.ToFloat64(c)
	c.Add(3)
	if got := testutil.ToFloat64(c); got != before+3 {
		t.Errorf("SuggestionYield{source=history} went %v -> %v; want +3", before, got)
	}
}

func TestRegisterDroppedEventsGauge_ReadsThrough(t *testing.T) {
	var drops uint64 = 7
	// Registration is global; this test is the single registration site in the
	// test binary (main is not linked in).
	g := RegisterDroppedEventsGauge(func() uint64 { return drops })

	if got := testutil.ToFloat64(g); got != 7 {
		t.Errorf("gauge = %v; want 7", got)
	}
	drops = 9
	if got := testutil.ToFloat64(g); got != 9 {
		t.Errorf("gauge after bump = %v; want 9 (must read through)", got)
	}
}
