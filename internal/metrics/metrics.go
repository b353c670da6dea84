package metrics

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"

	"github.com/slackrelay/slackrelay/pkg/types"
)

// Metric family names.
const (
	EventsReceived   = "slackrelay_events_received_total"
	EventsSuppressed = "slackrelay_events_suppressed_total"
	MessagesSent     = "slackrelay_messages_sent_total"
	SendDuration     = "slackrelay_send_duration_seconds"
)

// Send outcomes used as the status label.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Metrics groups the relay's instruments. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	reg          *prometheus.Registry
	received     *prometheus.CounterVec
	suppressed   *prometheus.CounterVec
	sent         *prometheus.CounterVec
	sendDuration *prometheus.HistogramVec
}

// New registers all instruments in a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		reg: reg,
		received: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: EventsReceived,
				Help: "Events delivered to the relay by kind.",
			},
			[]string{"kind"},
		),
		suppressed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: EventsSuppressed,
				Help: "Events dropped by the suppression window by kind.",
			},
			[]string{"kind"},
		),
		sent: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: MessagesSent,
				Help: "Slack webhook posts by status.",
			},
			[]string{"status"},
		),
		sendDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    SendDuration,
				Help:    "Duration of Slack webhook HTTP requests.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"status"},
		),
	}
}

// Kind maps an event type to a bounded label value.
func Kind(t types.EventType) string {
	switch t {
	case types.EventTypeAlertV1:
		return "alert_v1"
	case types.EventTypeAlertV2:
		return "alert_v2"
	default:
		return "event"
	}
}

// EventReceived counts an event handed to the relay.
func (m *Metrics) EventReceived(t types.EventType) {
	if m == nil {
		return
	}
	m.received.WithLabelValues(Kind(t)).Inc()
}

// EventSuppressed counts an event dropped by the suppression window.
func (m *Metrics) EventSuppressed(t types.EventType) {
	if m == nil {
		return
	}
	m.suppressed.WithLabelValues(Kind(t)).Inc()
}

// MessageSent records the outcome and latency of one webhook post.
func (m *Metrics) MessageSent(status string, d time.Duration) {
	if m == nil {
		return
	}
	m.sent.WithLabelValues(status).Inc()
	m.sendDuration.WithLabelValues(status).Observe(d.Seconds())
}

// Gather returns the current metric families keyed by name.
func (m *Metrics) Gather() (map[string]*dto.MetricFamily, error) {
	out := make(map[string]*dto.MetricFamily)
	if m == nil {
		return out, nil
	}
	mfs, err := m.reg.Gather()
	if err != nil {
		return nil, fmt.Errorf("metrics: gather: %w", err)
	}
	for _, mf := range mfs {
		out[mf.GetName()] = mf
	}
	return out, nil
}

// Handler serves the registry in the format requested by the Accept header.
func (m *Metrics) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m == nil {
			http.Error(w, "metrics disabled", http.StatusNotFound)
			return
		}
		mfs, err := m.reg.Gather()
		if err != nil {
			slog.Error("metrics: gather failed", "err", err)
			http.Error(w, "gather failed", http.StatusInternalServerError)
			return
		}

		format := expfmt.Negotiate(r.Header)
		w.Header().Set("Content-Type", string(format))
		enc := expfmt.NewEncoder(w, format)
		for _, mf := range mfs {
			if err := enc.Encode(mf); err != nil {
				slog.Warn("metrics: encode failed", "family", mf.GetName(), "err", err)
				return
			}
		}
		if closer, ok := enc.(expfmt.Closer); ok {
			_ = closer.Close()
		}
	})
}

// Sum adds up all counter, gauge and untyped values in mf, and the sample
// counts of histograms. A nil family sums to zero.
func Sum(mf *dto.MetricFamily) float64 {
	if mf == nil {
		return 0
	}
	var total float64
	for _, m := range mf.GetMetric() {
		switch {
		case m.Counter != nil:
			total += m.Counter.GetValue()
		case m.Gauge != nil:
			total += m.Gauge.GetValue()
		case m.Untyped != nil:
			total += m.Untyped.GetValue()
		case m.Histogram != nil:
			total += float64(m.Histogram.GetSampleCount())
		}
	}
	return total
}

// Totals returns the sum of each relay counter, keyed by family name.
func (m *Metrics) Totals() (map[string]float64, error) {
	mfs, err := m.Gather()
	if err != nil {
		return nil, err
	}
	return map[string]float64{
		EventsReceived:   Sum(mfs[EventsReceived]),
		EventsSuppressed: Sum(mfs[EventsSuppressed]),
		MessagesSent:     Sum(mfs[MessagesSent]),
	}, nil
}
