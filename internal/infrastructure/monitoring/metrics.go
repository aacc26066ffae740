package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"handler", "method", "status_code"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"handler", "method", "status_code"},
	)
)

var (
	CheckoutAttemptsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "checkout_attempts_total",
			Help: "Total number of place-order attempts",
		},
	)

	CheckoutSessionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "checkout_sessions_total",
			Help: "Total number of hosted checkout sessions created",
		},
	)

	CheckoutFailureTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkout_failure_total",
			Help: "Total number of failed place-order attempts",
		},
		[]string{"reason"},
	)

	VerifyAttemptsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "verify_attempts_total",
			Help: "Total number of payment verification attempts",
		},
	)

	PaymentsSettledTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "payments_settled_total",
			Help: "Total number of payments flipped to SUCCESS",
		},
	)

	StockDecrementsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "stock_decrements_total",
			Help: "Total units of product stock decremented",
		},
	)
)

var (
	GatewayRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gateway_request_duration_seconds",
			Help:    "Duration of payment gateway calls in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"operation", "status"},
	)
)

var (
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Duration of database queries in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"query_type", "table"},
	)

	DBConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_active",
			Help: "Number of active database connections",
		},
	)

	DBConnectionsIdle = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_idle",
			Help: "Number of idle database connections",
		},
	)
)

var (
	RedisCommandDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "redis_command_duration_seconds",
			Help:    "Duration of Redis commands in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"command"},
	)

	RedisLockSuccessTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "redis_lock_success_total",
			Help: "Total number of successful lock acquisitions",
		},
		[]string{"lock_type"},
	)

	RedisLockFailureTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "redis_lock_failure_total",
			Help: "Total number of failed lock acquisitions",
		},
		[]string{"lock_type", "reason"},
	)
)

func TimeDBQuery(queryType, table string) func() {
	start := time.Now()
	return func() {
		duration := time.Since(start).Seconds()
		DBQueryDuration.WithLabelValues(queryType, table).Observe(duration)
	}
}

func TimeGatewayRequest(operation string) func(status string) {
	start := time.Now()
	return func(status string) {
		duration := time.Since(start).Seconds()
		GatewayRequestDuration.WithLabelValues(operation, status).Observe(duration)
	}
}

func RecordCheckoutAttempt() {
	CheckoutAttemptsTotal.Inc()
}

func RecordCheckoutSession() {
	CheckoutSessionsTotal.Inc()
}

func RecordCheckoutFailure(reason string) {
	CheckoutFailureTotal.WithLabelValues(reason).Inc()
}

func RecordVerifyAttempt(refID string) {
	VerifyAttemptsTotal.Inc()
}

func RecordPaymentSettled(paymentID string) {
	PaymentsSettledTotal.Inc()
}

func RecordStockDecrement(productID string, quantity int) {
	StockDecrementsTotal.Add(float64(quantity))
}
