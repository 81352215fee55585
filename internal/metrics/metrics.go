package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticwallet_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ticwallet_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	TransfersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticwallet_transfers_total",
			Help: "Between-account transfers by route and outcome",
		},
		[]string{"from", "to", "outcome"},
	)

	AuditFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ticwallet_audit_failures_total",
			Help: "Committed transfers whose audit row could not be written",
		},
	)

	PeerTransfersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticwallet_peer_transfers_total",
			Help: "Main wallet sends between users",
		},
		[]string{"outcome"},
	)

	ReferralEdgesCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ticwallet_referral_edges_created_total",
			Help: "Referral edges inserted across all levels",
		},
	)

	HistorySourceErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticwallet_history_source_errors_total",
			Help: "History sources skipped because their query failed",
		},
		[]string{"source"},
	)

	FundingRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticwallet_funding_requests_total",
			Help: "Deposit and withdrawal requests by resulting status",
		},
		[]string{"kind", "status"},
	)

	DepositsExpiredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ticwallet_deposits_expired_total",
			Help: "Pending deposits cancelled by the expiry job",
		},
	)

	SubscriptionsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticwallet_subscriptions_created_total",
			Help: "Total number of plan subscriptions purchased",
		},
		[]string{"plan"},
	)

	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticwallet_notifications_total",
			Help: "Notification emails by type and delivery status",
		},
		[]string{"type", "status"},
	)

	NotificationQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ticwallet_notification_queue_length",
			Help: "Current length of the notification queue",
		},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordTransfer(from, to, outcome string) {
	TransfersTotal.WithLabelValues(from, to, outcome).Inc()
}

func RecordAuditFailure() {
	AuditFailuresTotal.Inc()
}

func RecordPeerTransfer(outcome string) {
	PeerTransfersTotal.WithLabelValues(outcome).Inc()
}

func RecordReferralEdges(n int) {
	ReferralEdgesCreated.Add(float64(n))
}

func RecordHistorySourceError(source string) {
	HistorySourceErrors.WithLabelValues(source).Inc()
}

func RecordFundingRequest(kind, status string) {
	FundingRequestsTotal.WithLabelValues(kind, status).Inc()
}

func RecordDepositsExpired(n int64) {
	DepositsExpiredTotal.Add(float64(n))
}

func RecordSubscription(plan string) {
	SubscriptionsCreatedTotal.WithLabelValues(plan).Inc()
}

func RecordNotification(kind, status string) {
	NotificationsTotal.WithLabelValues(kind, status).Inc()
}

func SetNotificationQueueLength(n int64) {
	NotificationQueueLength.Set(float64(n))
}
