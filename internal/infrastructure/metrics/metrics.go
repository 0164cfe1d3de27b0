package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// SettlementMetrics covers the escrow lifecycle: funds held, the three
// release triggers, benign race losers and payout failures.
type SettlementMetrics struct {
	EscrowsCreatedTotal       prometheus.CounterVec
	EscrowsCreatedAmountTotal prometheus.CounterVec
	EscrowsPendingCount       prometheus.GaugeVec

	ReleasesTotal        prometheus.CounterVec
	ReleasesAmountTotal  prometheus.CounterVec
	ReleaseRaceLostTotal prometheus.CounterVec
	ReleaseRejectedTotal prometheus.CounterVec
	PayoutFailuresTotal  prometheus.CounterVec

	DisputesOpenedTotal   prometheus.CounterVec
	DisputesResolvedTotal prometheus.CounterVec

	SchedulerFiredTotal   prometheus.CounterVec
	ReleaseLatencySeconds prometheus.HistogramVec

	LedgerViolationsTotal prometheus.CounterVec
}

func NewSettlementMetrics() *SettlementMetrics {
	return &SettlementMetrics{
		EscrowsCreatedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "escrows_created_total",
				Help: "Escrow records created after payment capture",
			},
			[]string{"currency"},
		),

		EscrowsCreatedAmountTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "escrows_created_amount_total",
				Help: "Total amount captured into escrow",
			},
			[]string{"currency"},
		),

		EscrowsPendingCount: *promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "escrows_pending_count",
				Help: "Escrows currently holding funds",
			},
			[]string{"currency"},
		),

		ReleasesTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "escrow_releases_total",
				Help: "Successful escrow releases by trigger and recipient",
			},
			[]string{"trigger", "recipient", "currency"},
		),

		ReleasesAmountTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "escrow_releases_amount_total",
				Help: "Total amount released from escrow",
			},
			[]string{"trigger", "currency"},
		),

		ReleaseRaceLostTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "escrow_release_race_lost_total",
				Help: "Release attempts that lost the per-order race (benign)",
			},
			[]string{"trigger"},
		),

		ReleaseRejectedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "escrow_release_rejected_total",
				Help: "Release attempts rejected before the critical section",
			},
			[]string{"trigger", "reason"},
		),

		PayoutFailuresTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payout_failures_total",
				Help: "Escrows frozen in FAILED after a payout initiation error",
			},
			[]string{"currency"},
		),

		DisputesOpenedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "disputes_opened_total",
				Help: "Disputes opened by buyers, by type",
			},
			[]string{"type"},
		),

		DisputesResolvedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "disputes_resolved_total",
				Help: "Disputes closed, by verdict or cancellation",
			},
			[]string{"outcome"},
		),

		SchedulerFiredTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scheduler_fired_total",
				Help: "Auto-release firings claimed by the deadline poller",
			},
			[]string{"outcome"},
		),

		ReleaseLatencySeconds: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "escrow_release_latency_seconds",
				Help:    "Wall time of attemptRelease including payout initiation",
				Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
			},
			[]string{"trigger"},
		),

		LedgerViolationsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "escrow_ledger_violations_total",
				Help: "InvalidTransition hits outside the coordinator, indicates a bug",
			},
			[]string{"operation"},
		),
	}
}

func (m *SettlementMetrics) RecordEscrowCreated(currency string, amount float64) {
	m.EscrowsCreatedTotal.WithLabelValues(currency).Inc()
	m.EscrowsCreatedAmountTotal.WithLabelValues(currency).Add(amount)
	m.EscrowsPendingCount.WithLabelValues(currency).Inc()
}

func (m *SettlementMetrics) RecordRelease(trigger, recipient, currency string, amount float64) {
	m.ReleasesTotal.WithLabelValues(trigger, recipient, currency).Inc()
	m.ReleasesAmountTotal.WithLabelValues(trigger, currency).Add(amount)
	m.EscrowsPendingCount.WithLabelValues(currency).Dec()
}

func (m *SettlementMetrics) RecordRaceLost(trigger string) {
	m.ReleaseRaceLostTotal.WithLabelValues(trigger).Inc()
}

func (m *SettlementMetrics) RecordRejected(trigger, reason string) {
	m.ReleaseRejectedTotal.WithLabelValues(trigger, reason).Inc()
}

func (m *SettlementMetrics) RecordPayoutFailure(currency string) {
	m.PayoutFailuresTotal.WithLabelValues(currency).Inc()
	m.EscrowsPendingCount.WithLabelValues(currency).Dec()
}

func (m *SettlementMetrics) RecordDisputeOpened(disputeType string) {
	m.DisputesOpenedTotal.WithLabelValues(disputeType).Inc()
}

func (m *SettlementMetrics) RecordDisputeClosed(outcome string) {
	m.DisputesResolvedTotal.WithLabelValues(outcome).Inc()
}

func (m *SettlementMetrics) RecordSchedulerFired(outcome string) {
	m.SchedulerFiredTotal.WithLabelValues(outcome).Inc()
}

func (m *SettlementMetrics) RecordReleaseLatency(trigger string, seconds float64) {
	m.ReleaseLatencySeconds.WithLabelValues(trigger).Observe(seconds)
}

func (m *SettlementMetrics) RecordLedgerViolation(operation string) {
	m.LedgerViolationsTotal.WithLabelValues(operation).Inc()
}
