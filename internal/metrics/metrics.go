package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WebhookRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "linehook_webhook_requests_total",
		Help: "Webhook requests, labelled by outcome (ok, unauthorized, malformed).",
	}, []string{"status"})

	EventsReceived = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "linehook_events_received_total",
		Help: "Decoded webhook events, labelled by kind.",
	}, []string{"kind"})

	EventsInline = promauto.NewCounter(prometheus.CounterOpts{
		Name: "linehook_events_inline_total",
		Help: "Events run on the request goroutine because the worker queue was full.",
	})

	Dispatches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "linehook_dispatches_total",
		Help: "Handler invocations, labelled by route and status.",
	}, []string{"route", "status"})

	Deliveries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "linehook_deliveries_total",
		Help: "Platform delivery attempts, labelled by method (reply, push) and status.",
	}, []string{"method", "status"})

	EventProcessingDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "linehook_event_processing_duration_ms",
		Help:    "Dispatch plus delivery latency per event in milliseconds.",
		Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
	})

	QueueUtilization = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "linehook_queue_utilization_ratio",
		Help: "Current event queue utilization (0–1).",
	})
)
