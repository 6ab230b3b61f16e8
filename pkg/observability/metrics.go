package observability

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/dreamboard/pkg/domain"
)

// Metrics holds the slot collectors.
type Metrics struct {
	Triggers  *prometheus.CounterVec
	Outcomes  *prometheus.CounterVec
	Duration  *prometheus.HistogramVec
	InFlight  *prometheus.GaugeVec
	Discarded *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Triggers: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dreamboard_slot_triggers_total",
				Help: "Total number of requests issued per persona",
			},
			[]string{"persona"},
		),
		Outcomes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dreamboard_slot_outcomes_total",
				Help: "Terminal slot states per persona and outcome (success or error kind)",
			},
			[]string{"persona", "outcome"},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "dreamboard_request_duration_seconds",
				Help:    "Duration of outbound text-generation requests",
				Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 30, 60},
			},
			[]string{"persona"},
		),
		InFlight: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "dreamboard_requests_in_flight",
				Help: "Requests currently outstanding per persona",
			},
			[]string{"persona"},
		),
		Discarded: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dreamboard_late_results_discarded_total",
				Help: "Results that arrived after their slot was torn down",
			},
			[]string{"persona"},
		),
	}

	for _, c := range []prometheus.Collector{m.Triggers, m.Outcomes, m.Duration, m.InFlight, m.Discarded} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTrigger: func(ctx context.Context, e *domain.SlotEvent) {
			m.Triggers.WithLabelValues(e.PersonaID).Inc()
			m.InFlight.WithLabelValues(e.PersonaID).Inc()
		},
		OnSettle: func(ctx context.Context, e *domain.SlotEvent) {
			m.InFlight.WithLabelValues(e.PersonaID).Dec()
			m.Outcomes.WithLabelValues(e.PersonaID, e.State.Outcome()).Inc()
			m.Duration.WithLabelValues(e.PersonaID).Observe(e.Duration.Seconds())
		},
		OnDiscard: func(ctx context.Context, e *domain.SlotEvent) {
			m.InFlight.WithLabelValues(e.PersonaID).Dec()
			m.Discarded.WithLabelValues(e.PersonaID).Inc()
		},
		OnReject: func(ctx context.Context, e *domain.SlotEvent) {
			m.Outcomes.WithLabelValues(e.PersonaID, e.State.Outcome()).Inc()
		},
	}
}
