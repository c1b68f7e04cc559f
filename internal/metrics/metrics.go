package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ShopifyMetrics records Admin API round trips. It satisfies shopify.Observer.
type ShopifyMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewShopifyMetrics(reg prometheus.Registerer) *ShopifyMetrics {
	f := promauto.With(reg)
	return &ShopifyMetrics{
		requests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shopify_api_requests_total",
				Help: "Total number of Shopify Admin API requests",
			},
			[]string{"method", "resource", "status"},
		),
		duration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "shopify_api_request_duration_seconds",
				Help:    "Duration of Shopify Admin API requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "resource"},
		),
	}
}

func (m *ShopifyMetrics) ObserveRequest(method, resource string, status int, elapsed time.Duration, err error) {
	res := ResourceLabel(resource)
	code := strconv.Itoa(status)
	if err != nil {
		code = "transport_error"
	}
	m.requests.WithLabelValues(method, res, code).Inc()
	m.duration.WithLabelValues(method, res).Observe(elapsed.Seconds())
}

// ResourceLabel replaces numeric path segments so "orders/123/fulfillments" and
// "orders/456/fulfillments" share one series.
func ResourceLabel(resource string) string {
	resource = strings.TrimSuffix(strings.Trim(resource, "/"), ".json")
	parts := strings.Split(resource, "/")
	for i, p := range parts {
		if _, err := strconv.ParseInt(p, 10, 64); err == nil {
			parts[i] = ":id"
		}
	}
	return strings.Join(parts, "/")
}

func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
