package metric

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics contains the core pipeline metrics.
type Metrics struct {
	InterchangesReceived *prometheus.CounterVec
	ParseFailures        prometheus.Counter
	ValidationReports    *prometheus.CounterVec
	ValidationIssues     *prometheus.CounterVec
	DocumentsConverted   *prometheus.CounterVec
	AperaksGenerated     *prometheus.CounterVec
	ProcessingDuration   *prometheus.HistogramVec
	MessagesPublished    *prometheus.CounterVec
	ErrorsTotal          *prometheus.CounterVec

	NATSConnected  prometheus.Gauge
	NATSRTT        prometheus.Gauge
	NATSReconnects prometheus.Counter
}

// NewMetrics creates the core metric set.
func NewMetrics() *Metrics {
	return &Metrics{
		InterchangesReceived: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "comako",
				Subsystem: "edi",
				Name:      "interchanges_received_total",
				Help:      "Total number of EDIFACT interchanges received",
			},
			[]string{"message_type"},
		),

		ParseFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "comako",
				Subsystem: "edi",
				Name:      "parse_failures_total",
				Help:      "Total number of interchanges that failed to tokenize",
			},
		),

		ValidationReports: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "comako",
				Subsystem: "edi",
				Name:      "validation_reports_total",
				Help:      "Total number of validation reports produced",
			},
			[]string{"message_type", "valid"},
		),

		ValidationIssues: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "comako",
				Subsystem: "edi",
				Name:      "validation_issues_total",
				Help:      "Total number of validation issues by severity",
			},
			[]string{"severity"},
		),

		DocumentsConverted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "comako",
				Subsystem: "edi",
				Name:      "documents_converted_total",
				Help:      "Total number of canonical documents produced",
			},
			[]string{"message_type"},
		),

		AperaksGenerated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "comako",
				Subsystem: "edi",
				Name:      "aperaks_generated_total",
				Help:      "Total number of APERAK acknowledgments generated",
			},
			[]string{"status"},
		),

		ProcessingDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "comako",
				Subsystem: "edi",
				Name:      "processing_duration_seconds",
				Help:      "Per-stage processing duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"stage"},
		),

		MessagesPublished: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "comako",
				Subsystem: "bus",
				Name:      "messages_published_total",
				Help:      "Total number of messages published to the bus",
			},
			[]string{"subject"},
		),

		ErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "comako",
				Subsystem: "errors",
				Name:      "total",
				Help:      "Total number of errors by component and class",
			},
			[]string{"component", "class"},
		),

		NATSConnected: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "comako",
				Subsystem: "nats",
				Name:      "connected",
				Help:      "NATS connection status (0=disconnected, 1=connected)",
			},
		),

		NATSRTT: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "comako",
				Subsystem: "nats",
				Name:      "rtt_milliseconds",
				Help:      "NATS round-trip time in milliseconds",
			},
		),

		NATSReconnects: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "comako",
				Subsystem: "nats",
				Name:      "reconnects_total",
				Help:      "Total number of NATS reconnections",
			},
		),
	}
}

// RecordInterchangeReceived increments the received counter.
func (m *Metrics) RecordInterchangeReceived(messageType string) {
	m.InterchangesReceived.WithLabelValues(messageType).Inc()
}

// RecordParseFailure increments the parse failure counter.
func (m *Metrics) RecordParseFailure() {
	m.ParseFailures.Inc()
}

// RecordValidationReport counts one report outcome.
func (m *Metrics) RecordValidationReport(messageType string, valid bool) {
	v := "false"
	if valid {
		v = "true"
	}
	m.ValidationReports.WithLabelValues(messageType, v).Inc()
}

// RecordValidationIssues adds to the per-severity issue counters.
func (m *Metrics) RecordValidationIssues(severity string, count int) {
	if count > 0 {
		m.ValidationIssues.WithLabelValues(severity).Add(float64(count))
	}
}

// RecordDocumentConverted increments the conversion counter.
func (m *Metrics) RecordDocumentConverted(messageType string) {
	m.DocumentsConverted.WithLabelValues(messageType).Inc()
}

// RecordAperakGenerated increments the acknowledgment counter.
func (m *Metrics) RecordAperakGenerated(status string) {
	m.AperaksGenerated.WithLabelValues(status).Inc()
}

// RecordProcessingDuration records one stage duration.
func (m *Metrics) RecordProcessingDuration(stage string, duration time.Duration) {
	m.ProcessingDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

// RecordMessagePublished increments the publish counter.
func (m *Metrics) RecordMessagePublished(subject string) {
	m.MessagesPublished.WithLabelValues(subject).Inc()
}

// RecordError increments the error counter.
func (m *Metrics) RecordError(component, class string) {
	m.ErrorsTotal.WithLabelValues(component, class).Inc()
}

// RecordNATSStatus updates the NATS connection gauge.
func (m *Metrics) RecordNATSStatus(connected bool) {
	v := 0.0
	if connected {
		v = 1.0
	}
	m.NATSConnected.Set(v)
}

// RecordNATSRTT updates the round-trip gauge.
func (m *Metrics) RecordNATSRTT(rtt time.Duration) {
	m.NATSRTT.Set(float64(rtt.Milliseconds()))
}

// RecordNATSReconnect increments the reconnect counter.
func (m *Metrics) RecordNATSReconnect() {
	m.NATSReconnects.Inc()
}
