package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventTaskStart EventType = "task_start"
	EventTaskDone  EventType = "task_done"
	EventExpand    EventType = "expand"
	EventGoal      EventType = "goal"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// TaskEvent represents the start or completion of one scenario task.
type TaskEvent struct {
	EventBase
	ScenarioID string  `json:"scenario_id"`
	Planner    string  `json:"planner"`
	Result     *Result `json:"result,omitempty"` // set on EventTaskDone
}

// ExpandEvent represents a node leaving the frontier.
type ExpandEvent struct {
	EventBase
	Depth    int     `json:"depth"`
	Priority float64 `json:"priority"`
	Children int     `json:"children"`
	Rejected int     `json:"rejected"`
	TimeStep int     `json:"time_step"`
	Frontier int     `json:"frontier"`
}

// LifecycleHooks defines callbacks for planner observability.
// Any field may be nil.
type LifecycleHooks struct {
	OnTaskStart func(context.Context, *TaskEvent)
	OnTaskDone  func(context.Context, *TaskEvent)
	OnExpand    func(context.Context, *ExpandEvent)
	OnGoal      func(context.Context, *ExpandEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnTaskStart: chainTask(h.OnTaskStart, other.OnTaskStart),
		OnTaskDone:  chainTask(h.OnTaskDone, other.OnTaskDone),
		OnExpand:    chainExpand(h.OnExpand, other.OnExpand),
		OnGoal:      chainExpand(h.OnGoal, other.OnGoal),
	}
}

func chainTask(a, b func(context.Context, *TaskEvent)) func(context.Context, *TaskEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e *TaskEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}

func chainExpand(a, b func(context.Context, *ExpandEvent)) func(context.Context, *ExpandEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e *ExpandEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}
