package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics
type Metrics struct {
	SettlementsCompleted prometheus.Counter
	SettlementStepErrors *prometheus.CounterVec
	ReferralsSettled     prometheus.Counter
	ReschedulesTotal     *prometheus.CounterVec
	DueDevicesFlagged    prometheus.Counter
}

// New creates and registers all application metrics.
func New(namespace string) *Metrics {
	return &Metrics{
		SettlementsCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "settlements_completed_total",
			Help:      "Total number of appointments marked completed",
		}),
		SettlementStepErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "settlement_step_errors_total",
			Help:      "Settlement sub-step failures that were logged and skipped",
		}, []string{"step"}),
		ReferralsSettled: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "referrals_settled_total",
			Help:      "Referral bonuses credited",
		}),
		ReschedulesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reschedules_total",
			Help:      "Reschedule attempts by outcome",
		}, []string{"outcome"}),
		DueDevicesFlagged: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "due_devices_flagged_total",
			Help:      "Devices flagged due for cleaning by the reminder worker",
		}),
	}
}
