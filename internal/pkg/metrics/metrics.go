package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups the business and HTTP instrumentation registered once at
// bootstrap and shared across handlers, usecases and the worker.
type Metrics struct {
	RequestDuration *prometheus.HistogramVec

	ReservationsStarted   prometheus.Counter
	ReservationsConfirmed prometheus.Counter
	CouponRedemptions     prometheus.Counter
	CouponRejections      prometheus.Counter
	NotificationsSent     *prometheus.CounterVec
	NotificationsFailed   *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by method, route and status.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),

		ReservationsStarted: factory.NewCounter(prometheus.CounterOpts{
			Name: "reservations_started_total",
			Help: "Draft reservations created at the trip-details step.",
		}),
		ReservationsConfirmed: factory.NewCounter(prometheus.CounterOpts{
			Name: "reservations_confirmed_total",
			Help: "Reservations moved to pending payment.",
		}),
		CouponRedemptions: factory.NewCounter(prometheus.CounterOpts{
			Name: "coupon_redemptions_total",
			Help: "Successful coupon usage increments.",
		}),
		CouponRejections: factory.NewCounter(prometheus.CounterOpts{
			Name: "coupon_rejections_total",
			Help: "Coupon codes rejected during validation or redemption.",
		}),
		NotificationsSent: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "notifications_sent_total",
			Help: "Notification jobs dispatched successfully, by channel.",
		}, []string{"channel"}),
		NotificationsFailed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "notifications_failed_total",
			Help: "Notification dispatch attempts that failed, by channel.",
		}, []string{"channel"}),
	}
}
