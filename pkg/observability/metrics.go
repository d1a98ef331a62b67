package observability

import (
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/aretw0/parley/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the dialogue collectors.
// Its hooks are safe to share between engines ticking on different goroutines.
type Metrics struct {
	Conversations *prometheus.CounterVec
	Transitions   *prometheus.CounterVec
	Selections    *prometheus.CounterVec
	Characters    prometheus.Counter
	Faults        prometheus.Counter
	Open          prometheus.Gauge
	Duration      prometheus.Histogram

	gatherer prometheus.Gatherer

	mu      sync.Mutex
	started map[string]time.Time
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg gets a private registry, which keeps tests and multiple engines isolated.
func NewMetrics(reg *prometheus.Registry) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := &Metrics{
		Conversations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "parley_conversations_total",
				Help: "Conversations opened and closed, by outcome",
			},
			[]string{"outcome"},
		),
		Transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "parley_state_transitions_total",
				Help: "Engine state transitions",
			},
			[]string{"from", "to"},
		),
		Selections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "parley_branch_selections_total",
				Help: "Options confirmed, by 1-based index",
			},
			[]string{"option"},
		),
		Characters: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "parley_characters_revealed_total",
			Help: "Characters revealed by the typewriter",
		}),
		Faults: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "parley_faults_total",
			Help: "Internal invariant violations that forced a close",
		}),
		Open: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "parley_conversation_open",
			Help: "Dialogue boxes currently on screen",
		}),
		Duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "parley_conversation_duration_seconds",
			Help:    "Wall time between opening and closing a conversation",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 8),
		}),
		gatherer: reg,
		started:  make(map[string]time.Time),
	}

	for _, c := range []prometheus.Collector{
		m.Conversations, m.Transitions, m.Selections, m.Characters, m.Faults, m.Open, m.Duration,
	} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register dialogue metrics: %w", err)
		}
	}
	return m, nil
}

// Hooks returns lifecycle hooks recording into the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnBegin: func(e *domain.ConversationEvent) {
			m.Conversations.WithLabelValues("opened").Inc()
			m.Open.Inc()
			m.mu.Lock()
			m.started[e.ConversationID] = e.Timestamp
			m.mu.Unlock()
		},
		OnStateChange: func(e *domain.StateEvent) {
			m.Transitions.WithLabelValues(e.From.String(), e.To.String()).Inc()
		},
		OnReveal: func(*domain.RevealEvent) {
			m.Characters.Inc()
		},
		OnBranchSelected: func(e *domain.BranchEvent) {
			m.Selections.WithLabelValues(strconv.Itoa(e.Index)).Inc()
		},
		OnEnd: func(e *domain.EndEvent) {
			outcome := "dismissed"
			if e.Forced {
				outcome = "forced"
			}
			m.Conversations.WithLabelValues(outcome).Inc()
			m.Open.Dec()
			m.mu.Lock()
			start, ok := m.started[e.ConversationID]
			delete(m.started, e.ConversationID)
			m.mu.Unlock()
			if ok {
				m.Duration.Observe(e.Timestamp.Sub(start).Seconds())
			}
		},
		OnFault: func(*domain.FaultEvent) {
			m.Faults.Inc()
		},
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
