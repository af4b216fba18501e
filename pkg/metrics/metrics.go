package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/trytobebee/snakegym/pkg/game"
)

// outcomeTruncated labels episodes abandoned by a Reset before they ended
const outcomeTruncated = "truncated"

// Metrics collects episode statistics. It implements game.StepObserver, so
// it can be attached with game.WithObserver. Not safe for concurrent use
// by multiple envs.
type Metrics struct {
	Steps         prometheus.Counter
	ApplesEaten   prometheus.Counter
	Episodes      *prometheus.CounterVec
	EpisodeReward prometheus.Histogram
	EpisodeSteps  prometheus.Histogram
	SnakeLength   prometheus.Histogram

	running bool
	reward  float64
	steps   int
}

// NewMetrics creates the collectors and registers them with reg
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Steps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "steps_total",
			Help:      "Total number of env steps",
		}),
		ApplesEaten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "apples_eaten_total",
			Help:      "Total number of apples eaten",
		}),
		Episodes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "episodes_total",
			Help:      "Finished episodes by outcome",
		}, []string{"outcome"}),
		EpisodeReward: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "episode_reward",
			Help:      "Undiscounted return per episode",
			Buckets:   prometheus.LinearBuckets(-1, 5, 12),
		}),
		EpisodeSteps: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "episode_steps",
			Help:      "Steps per episode",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
		}),
		SnakeLength: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "snake_length",
			Help:      "Snake length when the episode ends",
			Buckets:   prometheus.ExponentialBuckets(2, 2, 9),
		}),
	}

	reg.MustRegister(
		m.Steps,
		m.ApplesEaten,
		m.Episodes,
		m.EpisodeReward,
		m.EpisodeSteps,
		m.SnakeLength,
	)
	return m
}

// OnReset closes out an unfinished episode as truncated and starts a new one
func (m *Metrics) OnReset(obs game.Observation) {
	if m.running && m.steps > 0 {
		m.Episodes.WithLabelValues(outcomeTruncated).Inc()
		m.EpisodeReward.Observe(m.reward)
		m.EpisodeSteps.Observe(float64(m.steps))
	}
	m.running = true
	m.reward = 0
	m.steps = 0
}

func (m *Metrics) OnStep(_ game.Observation, _ game.Action, res game.StepResult) {
	m.Steps.Inc()
	m.steps++
	m.reward += res.Reward
	if res.Info.Outcome == game.OutcomeAteApple || res.Info.Outcome == game.OutcomeBoardFull {
		m.ApplesEaten.Inc()
	}

	if res.Done {
		m.Episodes.WithLabelValues(res.Info.Outcome.String()).Inc()
		m.EpisodeReward.Observe(m.reward)
		m.EpisodeSteps.Observe(float64(m.steps))
		m.SnakeLength.Observe(float64(res.Info.Length))
		m.running = false
	}
}

// Server exposes /metrics for a gatherer
type Server struct {
	srv *http.Server
}

// NewServer creates a metrics HTTP server on addr
func NewServer(addr string, g prometheus.Gatherer) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// Handler returns the underlying mux, mostly for tests
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// Start serves in the background; listener errors go to errc
func (s *Server) Start(errc chan<- error) {
	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()
}

// Close stops the listener
func (s *Server) Close() error {
	return s.srv.Close()
}
