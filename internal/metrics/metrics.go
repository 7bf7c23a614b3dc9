package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sisocc_http_requests_total",
		Help: "Total HTTP requests by route and status",
	}, []string{"method", "route", "status"})
	HTTPDurationMs = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sisocc_http_request_duration_ms",
		Help:    "HTTP request duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000, 5000},
	}, []string{"route"})

	GeocodeRequestsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sisocc_geocode_requests_total",
		Help: "Total geocoding lookups",
	})
	GeocodeFailTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sisocc_geocode_fail_total",
		Help: "Total geocoding lookups that failed or found nothing",
	})
	GeocodeFallbackTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sisocc_geocode_fallback_total",
		Help: "Total submissions placed on the fallback coordinate",
	})
	GeocodeDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "sisocc_geocode_duration_ms",
		Help:    "Geocoding call duration in milliseconds",
		Buckets: []float64{10, 50, 100, 200, 500, 1000, 2000, 5000},
	})

	LiveEventsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sisocc_live_events_total",
		Help: "Live-update events by direction and type",
	}, []string{"direction", "type"})
	LiveClients = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "sisocc_live_clients",
		Help: "Currently connected live-update clients",
	})

	StoreRefreshTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sisocc_store_refresh_total",
		Help: "Store refreshes by outcome (ok, error, stale)",
	}, []string{"outcome"})
	StoreSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "sisocc_store_occurrences",
		Help: "Occurrences currently held by the store",
	})

	PushSentTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sisocc_push_sent_total",
		Help: "Push notifications by outcome",
	}, []string{"outcome"})
)

func init() {
	prometheus.MustRegister(HTTPRequestsTotal)
	prometheus.MustRegister(HTTPDurationMs)
	prometheus.MustRegister(GeocodeRequestsTotal)
	prometheus.MustRegister(GeocodeFailTotal)
	prometheus.MustRegister(GeocodeFallbackTotal)
	prometheus.MustRegister(GeocodeDurationMs)
	prometheus.MustRegister(LiveEventsTotal)
	prometheus.MustRegister(LiveClients)
	prometheus.MustRegister(StoreRefreshTotal)
	prometheus.MustRegister(StoreSize)
	prometheus.MustRegister(PushSentTotal)
}

// Handler возвращает обработчик /metrics для Prometheus
func Handler() http.Handler { return promhttp.Handler() }

// GinMiddleware считает запросы и их длительность по шаблону маршрута
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		HTTPRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		HTTPDurationMs.WithLabelValues(route).Observe(float64(time.Since(start).Milliseconds()))
	}
}
