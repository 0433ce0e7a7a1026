package observability

import (
	"context"
	"fmt"

	"github.com/aretw0/motionplan/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors fed by lifecycle hooks.
type Metrics struct {
	Tasks        *prometheus.CounterVec
	TaskDuration *prometheus.HistogramVec
	Running      prometheus.Gauge
	Expansions   prometheus.Counter
	Rejected     prometheus.Counter
	Goals        prometheus.Counter
}

// NewMetrics creates and registers the collectors on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Tasks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "motionplan_tasks_total",
				Help: "Finished scenario tasks by planner and status",
			},
			[]string{"planner", "status"},
		),
		TaskDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "motionplan_task_duration_seconds",
				Help:    "Wall-clock runtime of scenario tasks",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60, 120},
			},
			[]string{"planner"},
		),
		Running: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "motionplan_tasks_running",
			Help: "Scenario tasks currently executing",
		}),
		Expansions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "motionplan_node_expansions_total",
			Help: "Search nodes expanded across all tasks",
		}),
		Rejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "motionplan_successors_rejected_total",
			Help: "Successor paths rejected by the collision checker",
		}),
		Goals: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "motionplan_goals_reached_total",
			Help: "Searches that reached their goal region",
		}),
	}

	for _, c := range []prometheus.Collector{m.Tasks, m.TaskDuration, m.Running, m.Expansions, m.Rejected, m.Goals} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register metric: %w", err)
		}
	}
	return m, nil
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTaskStart: func(ctx context.Context, e *domain.TaskEvent) {
			m.Running.Inc()
		},
		OnTaskDone: func(ctx context.Context, e *domain.TaskEvent) {
			m.Running.Dec()
			if e.Result == nil {
				return
			}
			m.Tasks.WithLabelValues(e.Planner, string(e.Result.Status)).Inc()
			m.TaskDuration.WithLabelValues(e.Planner).Observe(e.Result.RuntimeSeconds)
		},
		OnExpand: func(ctx context.Context, e *domain.ExpandEvent) {
			m.Expansions.Inc()
			m.Rejected.Add(float64(e.Rejected))
		},
		OnGoal: func(ctx context.Context, e *domain.ExpandEvent) {
			m.Goals.Inc()
		},
	}
}
