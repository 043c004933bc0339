package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCountersRegisterAndIncrement(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewAdvisoryMetrics(reg)

	m.IncLedgerAppend("subsidy_checked")
	m.IncLedgerAppend("subsidy_checked")
	m.IncIssued("irrigation")
	m.IncResolved("followed")
	m.IncIntegrityFailure()

	if got := testutil.ToFloat64(m.ledgerAppends.WithLabelValues("subsidy_checked")); got != 2 {
		t.Fatalf("expected 2 ledger appends, got %v", got)
	}
	if got := testutil.ToFloat64(m.advisoriesIssued.WithLabelValues("irrigation")); got != 1 {
		t.Fatalf("expected 1 issued, got %v", got)
	}
	if got := testutil.ToFloat64(m.integrityFailures); got != 1 {
		t.Fatalf("expected 1 integrity failure, got %v", got)
	}
}

func TestNilReceiverSafe(t *testing.T) {
	var m *AdvisoryMetrics
	m.IncLedgerAppend("x")
	m.IncIssued("")
	m.IncResolved("ignored")
	m.IncIntegrityFailure()

	empty := NewAdvisoryMetrics(nil)
	empty.IncLedgerAppend("x")
}

func TestEmptyLabelNormalized(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewAdvisoryMetrics(reg)
	m.IncIssued("")
	if got := testutil.ToFloat64(m.advisoriesIssued.WithLabelValues("unknown")); got != 1 {
		t.Fatalf("expected unknown label increment, got %v", got)
	}
}
