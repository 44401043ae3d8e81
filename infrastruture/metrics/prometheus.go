// Package metrics exports maze session measurements to prometheus.
package metrics

import (
	"strconv"
	"time"

	"github.com/ThanosTheo/maze-singleplayer/service/i"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "maze"

var _ i.MazeMetrics = &Prometheus{}

type Prometheus struct {
	generateDuration *prometheus.HistogramVec
	searchDuration   *prometheus.HistogramVec
	searchTotal      *prometheus.CounterVec
	movesTotal       *prometheus.CounterVec
	runsTotal        *prometheus.CounterVec
	sessionsActive   prometheus.Gauge
}

// NewPrometheus registers the maze collectors on reg.
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	factory := promauto.With(reg)

	return &Prometheus{
		generateDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "generate_duration_seconds",
			Help:      "Maze generation duration in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.00005, 2, 14), // 50µs to ~400ms
		}, []string{"size"}),
		searchDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "path_search_duration_seconds",
			Help:      "A* search duration in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.00005, 2, 14),
		}, []string{"size"}),
		searchTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "path_search_total",
			Help:      "Total path searches by result",
		}, []string{"result"}),
		movesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "moves_total",
			Help:      "Total move requests by outcome",
		}, []string{"outcome"}),
		runsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_finished_total",
			Help:      "Total solved mazes",
		}, []string{"autopilot"}),
		sessionsActive: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_active",
			Help:      "Number of open maze sessions",
		}),
	}
}

func (p *Prometheus) MazeGenerated(size int, took time.Duration) {
	p.generateDuration.WithLabelValues(strconv.Itoa(size)).Observe(took.Seconds())
}

func (p *Prometheus) PathSearched(size int, found bool, took time.Duration) {
	result := "found"
	if !found {
		result = "not_found"
	}
	p.searchTotal.WithLabelValues(result).Inc()
	p.searchDuration.WithLabelValues(strconv.Itoa(size)).Observe(took.Seconds())
}

func (p *Prometheus) MoveApplied(accepted bool) {
	outcome := "accepted"
	if !accepted {
		outcome = "rejected"
	}
	p.movesTotal.WithLabelValues(outcome).Inc()
}

func (p *Prometheus) RunFinished(autopilot bool) {
	p.runsTotal.WithLabelValues(strconv.FormatBool(autopilot)).Inc()
}

func (p *Prometheus) SessionsActive(n int) {
	p.sessionsActive.Set(float64(n))
}
