package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics はアプリケーションのメトリクスを管理する
type Metrics struct {
	// HTTPリクエストの総数（method, path, status_code）
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPリクエストのレイテンシ（method, path）
	HTTPRequestDuration *prometheus.HistogramVec

	// 予約操作の総数（operation: create/edit/delete, status: success, insufficient_seats, not_found, error）
	BookingsTotal *prometheus.CounterVec

	// 期限切れ予約の回収件数
	ReclaimedBookingsTotal prometheus.Counter

	// 回収で復元された座席数
	ReclaimedSeatsTotal prometheus.Counter

	// レストランごとの空席数（restaurant_id）
	AvailableSeats *prometheus.GaugeVec
}

// New は新しいMetricsインスタンスを作成し、デフォルトレジストリに登録する
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry は指定したレジストリにメトリクスを登録する
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		BookingsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bookings_total",
				Help: "Total number of booking operations",
			},
			[]string{"operation", "status"},
		),
		ReclaimedBookingsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "reclaimed_bookings_total",
				Help: "Total number of expired bookings reclaimed",
			},
		),
		ReclaimedSeatsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "reclaimed_seats_total",
				Help: "Total number of seats restored by reclamation",
			},
		),
		AvailableSeats: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "available_seats",
				Help: "Current number of available seats per restaurant",
			},
			[]string{"restaurant_id"},
		),
	}

	// レジストリに登録
	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.BookingsTotal,
		m.ReclaimedBookingsTotal,
		m.ReclaimedSeatsTotal,
		m.AvailableSeats,
	)

	return m
}

// デフォルトのメトリクスインスタンス
var defaultMetrics *Metrics

// Init はデフォルトのメトリクスインスタンスを初期化する
func Init() *Metrics {
	defaultMetrics = New()
	return defaultMetrics
}

// Get はデフォルトのメトリクスインスタンスを返す
func Get() *Metrics {
	return defaultMetrics
}
