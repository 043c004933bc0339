package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// AdvisoryMetrics records counters for the ledger and advisory lifecycle.
type AdvisoryMetrics struct {
	ledgerAppends      *prometheus.CounterVec
	integrityFailures  prometheus.Counter
	advisoriesIssued   *prometheus.CounterVec
	advisoriesResolved *prometheus.CounterVec
}

// NewAdvisoryMetrics registers the lifecycle metrics on the provided registerer.
func NewAdvisoryMetrics(reg prometheus.Registerer) *AdvisoryMetrics {
	if reg == nil {
		return &AdvisoryMetrics{}
	}
	ledgerAppends := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_appends_total",
		Help: "Records appended to the integrity ledger.",
	}, []string{"event"})
	integrityFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ledger_integrity_failures_total",
		Help: "Chain verifications that found a broken link.",
	})
	advisoriesIssued := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "advisories_issued_total",
		Help: "Advisories created, by kind.",
	}, []string{"kind"})
	advisoriesResolved := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "advisories_resolved_total",
		Help: "Advisory transitions out of pending, by outcome.",
	}, []string{"status"})
	reg.MustRegister(ledgerAppends, integrityFailures, advisoriesIssued, advisoriesResolved)
	return &AdvisoryMetrics{
		ledgerAppends:      ledgerAppends,
		integrityFailures:  integrityFailures,
		advisoriesIssued:   advisoriesIssued,
		advisoriesResolved: advisoriesResolved,
	}
}

// IncLedgerAppend counts an appended record for the named event kind.
func (m *AdvisoryMetrics) IncLedgerAppend(event string) {
	if m == nil || m.ledgerAppends == nil {
		return
	}
	m.ledgerAppends.WithLabelValues(normalizeLabel(event)).Inc()
}

// IncIntegrityFailure counts a failed chain verification.
func (m *AdvisoryMetrics) IncIntegrityFailure() {
	if m == nil || m.integrityFailures == nil {
		return
	}
	m.integrityFailures.Inc()
}

// IncIssued counts a created advisory by kind.
func (m *AdvisoryMetrics) IncIssued(kind string) {
	if m == nil || m.advisoriesIssued == nil {
		return
	}
	m.advisoriesIssued.WithLabelValues(normalizeLabel(kind)).Inc()
}

// IncResolved counts a resolved advisory by terminal status.
func (m *AdvisoryMetrics) IncResolved(status string) {
	if m == nil || m.advisoriesResolved == nil {
		return
	}
	m.advisoriesResolved.WithLabelValues(normalizeLabel(status)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
