package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "referral_http_requests_total",
			Help: "Total HTTP requests by route and status code",
		},
		[]string{"route", "method", "status"},
	)
	CommissionsPaid = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "referral_commissions_paid_total",
			Help: "Commissions credited to referrers by package",
		},
		[]string{"package"},
	)
	CommissionAmount = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "referral_commission_amount_total",
			Help: "Sum of all commission credited",
		},
	)
	Withdrawals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "referral_withdrawals_total",
			Help: "Withdrawal requests by outcome",
		},
		[]string{"outcome"},
	)
	DialogueOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "referral_dialogue_outcomes_total",
			Help: "Withdrawal dialogue message outcomes",
		},
		[]string{"outcome"},
	)
	PersistFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "referral_persist_failures_total",
			Help: "State snapshots that could not be persisted",
		},
	)
	NotificationFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "referral_notification_failures_total",
			Help: "Notifications that could not be delivered by kind",
		},
		[]string{"kind"},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequests)
	prometheus.MustRegister(CommissionsPaid)
	prometheus.MustRegister(CommissionAmount)
	prometheus.MustRegister(Withdrawals)
	prometheus.MustRegister(DialogueOutcomes)
	prometheus.MustRegister(PersistFailures)
	prometheus.MustRegister(NotificationFailures)
}
