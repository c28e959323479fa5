package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// WebhookMetrics records per-receiver webhook handling outcomes.
type WebhookMetrics struct {
	duration *prometheus.HistogramVec
	handled  *prometheus.CounterVec
	failures *prometheus.CounterVec
	rejected *prometheus.CounterVec
}

// NewWebhookMetrics registers the webhook metrics on the provided registerer.
func NewWebhookMetrics(reg prometheus.Registerer) *WebhookMetrics {
	if reg == nil {
		return &WebhookMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "webhook_duration_seconds",
		Help:    "Duration of webhook event handling in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"receiver", "event_type"})
	handled := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "webhook_events_handled",
		Help: "Webhook events dispatched to a handler.",
	}, []string{"receiver", "event_type"})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "webhook_handler_failures",
		Help: "Webhook handler invocations that returned an error.",
	}, []string{"receiver", "event_type"})
	rejected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "webhook_signature_rejections",
		Help: "Webhook requests rejected during signature verification.",
	}, []string{"receiver"})
	reg.MustRegister(duration, handled, failures, rejected)
	return &WebhookMetrics{
		duration: duration,
		handled:  handled,
		failures: failures,
		rejected: rejected,
	}
}

// ObserveDuration records handling duration for one event.
func (m *WebhookMetrics) ObserveDuration(receiver, eventType string, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(receiver), normalizeLabel(eventType)).Observe(duration.Seconds())
}

// IncHandled increments the dispatched-event counter.
func (m *WebhookMetrics) IncHandled(receiver, eventType string) {
	if m == nil || m.handled == nil {
		return
	}
	m.handled.WithLabelValues(normalizeLabel(receiver), normalizeLabel(eventType)).Inc()
}

// IncFailure increments the handler-failure counter.
func (m *WebhookMetrics) IncFailure(receiver, eventType string) {
	if m == nil || m.failures == nil {
		return
	}
	m.failures.WithLabelValues(normalizeLabel(receiver), normalizeLabel(eventType)).Inc()
}

// IncRejected increments the signature-rejection counter.
func (m *WebhookMetrics) IncRejected(receiver string) {
	if m == nil || m.rejected == nil {
		return
	}
	m.rejected.WithLabelValues(normalizeLabel(receiver)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
