package search

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/aretw0/motionplan/internal/logging"
	"github.com/aretw0/motionplan/pkg/domain"
	"github.com/aretw0/motionplan/pkg/ports"
)

// Engine runs the expansion loop for one planning problem.
// An Engine is not safe for concurrent Search calls.
type Engine struct {
	strategy  Strategy
	automaton ports.Automaton
	checker   ports.CollisionChecker
	goal      domain.GoalRegion

	maxDepth int
	timeout  time.Duration
	offset   float64
	logger   *slog.Logger
	hooks    domain.LifecycleHooks
	now      func() time.Time

	seq uint64
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithMaxDepth bounds the number of primitives per trajectory. 0 means unbounded.
func WithMaxDepth(d int) EngineOption {
	return func(e *Engine) {
		e.maxDepth = d
	}
}

// WithTimeout bounds the wall-clock time of Search. 0 means unbounded.
// The bound is checked once per iteration.
func WithTimeout(d time.Duration) EngineOption {
	return func(e *Engine) {
		e.timeout = d
	}
}

// WithOffset sets the reference-point offset applied in goal tests.
func WithOffset(offset float64) EngineOption {
	return func(e *Engine) {
		e.offset = offset
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithHooks registers expansion callbacks.
func WithHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		e.now = now
	}
}

// NewEngine binds a strategy to the collaborators of one planning problem.
func NewEngine(strategy Strategy, automaton ports.Automaton, checker ports.CollisionChecker, goal domain.GoalRegion, opts ...EngineOption) *Engine {
	if checker == nil {
		checker = ports.FreeSpace{}
	}
	e := &Engine{
		strategy:  strategy.normalized(),
		automaton: automaton,
		checker:   checker,
		goal:      goal,
		logger:    logging.NewNop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SearchResult describes how a search terminated.
type SearchResult struct {
	Outcome domain.Outcome

	// Node is the goal node with its last path trimmed; nil unless GOAL_FOUND.
	Node           *Node
	Trajectory     domain.Path
	Cost           float64
	NodesExpanded  int
	NodesGenerated int
	DepthPruned    int
	Elapsed        time.Duration
}

// Status maps the outcome onto the batch status taxonomy.
func (r *SearchResult) Status() domain.Status {
	return r.Outcome.Status()
}

// Search explores from initial until a terminal state is reached.
// Only automaton failures are returned as errors; every other
// termination is described by SearchResult.Outcome.
func (e *Engine) Search(ctx context.Context, initial domain.State) (*SearchResult, error) {
	start := e.now()
	e.seq = 0
	frontier := NewFrontier(e.strategy.Discipline)
	frontier.Push(e.prepare(newRoot(initial)))

	res := &SearchResult{NodesGenerated: 1}
	finish := func(o domain.Outcome) (*SearchResult, error) {
		res.Outcome = o
		res.Elapsed = e.now().Sub(start)
		e.logger.Debug("search finished",
			"strategy", e.strategy.Name,
			"outcome", o,
			"expanded", res.NodesExpanded,
			"generated", res.NodesGenerated,
			"pruned", res.DepthPruned,
			"elapsed", res.Elapsed)
		return res, nil
	}

	for {
		if frontier.Len() == 0 {
			if res.DepthPruned > 0 {
				return finish(domain.OutcomeDepthLimitReached)
			}
			return finish(domain.OutcomeExhausted)
		}
		if e.expired(ctx, start) {
			return finish(domain.OutcomeTimedOut)
		}

		n := frontier.Pop()

		last := n.LastPath()
		if i, ok := e.goal.FirstReached(last, e.offset); ok {
			goalNode := n.withLastPath(last[:i+1])
			goalNode.Cost = e.strategy.Cost(goalNode)
			res.Node = goalNode
			res.Trajectory = goalNode.Trajectory()
			res.Cost = goalNode.Cost
			if e.hooks.OnGoal != nil {
				e.hooks.OnGoal(ctx, e.event(domain.EventGoal, n, 0, 0, frontier.Len()))
			}
			return finish(domain.OutcomeGoalFound)
		}

		if e.maxDepth > 0 && n.Depth >= e.maxDepth {
			res.DepthPruned++
			continue
		}

		successors, err := e.automaton.Successors(n.Last())
		if err != nil {
			res.Elapsed = e.now().Sub(start)
			return res, fmt.Errorf("expand node at depth %d: %w", n.Depth, err)
		}
		res.NodesExpanded++

		rejected := 0
		for _, p := range successors {
			if p.Empty() || e.checker.Collides(p) {
				rejected++
				continue
			}
			frontier.Push(e.prepare(n.child(p)))
			res.NodesGenerated++
		}

		if e.hooks.OnExpand != nil {
			e.hooks.OnExpand(ctx, e.event(domain.EventExpand, n, len(successors)-rejected, rejected, frontier.Len()))
		}
	}
}

// prepare stamps sequence, cost and priority onto a freshly built node.
func (e *Engine) prepare(n *Node) *Node {
	n.Seq = e.seq
	e.seq++
	n.Cost = e.strategy.Cost(n)
	n.Priority = e.strategy.Evaluate(n, e.strategy.Heuristic)
	if math.IsNaN(n.Priority) {
		n.Priority = math.Inf(1)
	}
	return n
}

func (e *Engine) expired(ctx context.Context, start time.Time) bool {
	if ctx.Err() != nil {
		return true
	}
	return e.timeout > 0 && e.now().Sub(start) >= e.timeout
}

func (e *Engine) event(t domain.EventType, n *Node, children, rejected, frontier int) *domain.ExpandEvent {
	return &domain.ExpandEvent{
		EventBase: domain.EventBase{Timestamp: e.now(), Type: t},
		Depth:     n.Depth,
		Priority:  n.Priority,
		Children:  children,
		Rejected:  rejected,
		TimeStep:  n.Last().TimeStep,
		Frontier:  frontier,
	}
}
