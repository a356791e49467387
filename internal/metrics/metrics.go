package metrics

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/polkiloo/letterdesk/internal/domain/model"
)

const namespace = "letterdesk"

// Registry records workflow outcomes and exposes them for scraping.
type Registry struct {
	prom          *prometheus.Registry
	transitions   *prometheus.CounterVec
	proofUploads  *prometheus.CounterVec
	invoices      *prometheus.CounterVec
	bulkItems     *prometheus.CounterVec
	notifications *prometheus.CounterVec
	requests      *prometheus.HistogramVec
}

// NewRegistry creates a registry with runtime collectors and workflow counters.
func NewRegistry() (*Registry, error) {
	reg := prometheus.NewRegistry()
	if err := reg.Register(collectors.NewGoCollector()); err != nil {
		return nil, fmt.Errorf("registering go collector: %w", err)
	}
	if err := reg.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
		return nil, fmt.Errorf("registering process collector: %w", err)
	}

	r := &Registry{
		prom: reg,
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_transitions_total",
			Help:      "Order status transition attempts by source, target and outcome.",
		}, []string{"from", "to", "outcome"}),
		proofUploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "proof_uploads_total",
			Help:      "Proof uploads by outcome.",
		}, []string{"outcome"}),
		invoices: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invoices_generated_total",
			Help:      "Invoice generation attempts by outcome.",
		}, []string{"outcome"}),
		bulkItems: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bulk_action_items_total",
			Help:      "Orders processed by bulk actions per category and result.",
		}, []string{"category", "result"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Notification deliveries by email type and outcome.",
		}, []string{"type", "outcome"}),
		requests: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route, method and status code.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method", "code"}),
	}

	for _, c := range []prometheus.Collector{r.transitions, r.proofUploads, r.invoices, r.bulkItems, r.notifications, r.requests} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("registering collector: %w", err)
		}
	}
	return r, nil
}

// Handler returns an http.Handler for the /metrics endpoint.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.prom, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

func (r *Registry) ObserveTransition(from, to model.OrderStatus, outcome string) {
	r.transitions.WithLabelValues(statusLabel(from), statusLabel(to), outcome).Inc()
}

func (r *Registry) ObserveProofUpload(outcome string) {
	r.proofUploads.WithLabelValues(outcome).Inc()
}

func (r *Registry) ObserveInvoice(outcome string) {
	r.invoices.WithLabelValues(outcome).Inc()
}

func (r *Registry) ObserveBulk(category string, succeeded, failed int) {
	r.bulkItems.WithLabelValues(category, "succeeded").Add(float64(succeeded))
	r.bulkItems.WithLabelValues(category, "failed").Add(float64(failed))
}

func (r *Registry) ObserveNotification(emailType model.EmailType, outcome string) {
	r.notifications.WithLabelValues(string(emailType), outcome).Inc()
}

// ObserveRequest records the latency of one HTTP request.
func (r *Registry) ObserveRequest(route, method string, code int, seconds float64) {
	r.requests.WithLabelValues(route, method, strconv.Itoa(code)).Observe(seconds)
}

// statusLabel folds revision statuses so label cardinality stays bounded.
func statusLabel(s model.OrderStatus) string {
	if _, ok := s.Revision(); ok {
		return "waiting-approval"
	}
	if s == "" {
		return "none"
	}
	if !s.IsValid() {
		return "unknown"
	}
	return string(s)
}
