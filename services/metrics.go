package services

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	transactionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jsjreward_card_transactions_total",
			Help: "Card transactions recorded, by transaction type.",
		},
		[]string{"type"},
	)

	pointsIssuedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "jsjreward_points_issued_total",
			Help: "Total points credited across all ledgers.",
		},
	)

	pointsRedeemedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "jsjreward_points_redeemed_total",
			Help: "Total points debited across all ledgers.",
		},
	)

	redemptionsRejected = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "jsjreward_redemptions_insufficient_total",
			Help: "Redemption attempts rejected for insufficient balance.",
		},
	)

	notificationFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jsjreward_notification_failures_total",
			Help: "Outbound notification attempts that failed, by channel.",
		},
		[]string{"channel"},
	)
)

func init() {
	prometheus.MustRegister(
		transactionsTotal,
		pointsIssuedTotal,
		pointsRedeemedTotal,
		redemptionsRejected,
		notificationFailures,
	)
}
