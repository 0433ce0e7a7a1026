package search

import "github.com/aretw0/motionplan/pkg/domain"

// HeuristicFunc estimates the remaining cost from a node to the goal.
type HeuristicFunc func(n *Node) float64

// EvaluationFunc computes the frontier priority of a node.
// Cost and Seq are already set when it runs.
type EvaluationFunc func(n *Node, h HeuristicFunc) float64

// CostFunc computes the accumulated cost g(n) of a node.
type CostFunc func(n *Node) float64

// ElapsedTime is the default cost: simulated time steps since the initial state.
func ElapsedTime(n *Node) float64 {
	return float64(n.Last().TimeStep - n.Initial().TimeStep)
}

// PathLength counts applied primitives.
func PathLength(n *Node) float64 {
	return float64(n.Depth)
}

// Zero is a heuristic that always returns 0.
func Zero(*Node) float64 { return 0 }

// Weights scale the cost and heuristic terms of a weighted evaluation.
type Weights struct {
	G float64 `json:"g"`
	H float64 `json:"h"`
}

// DefaultWeights turns the weighted evaluation into plain A*.
var DefaultWeights = Weights{G: 1, H: 1}

// InsertionOrder ranks nodes by creation order.
func InsertionOrder(n *Node, _ HeuristicFunc) float64 {
	return float64(n.Seq)
}

// PathCost ranks nodes by g(n).
func PathCost(n *Node, _ HeuristicFunc) float64 {
	return n.Cost
}

// HeuristicOnly ranks nodes by h(n).
func HeuristicOnly(n *Node, h HeuristicFunc) float64 {
	return h(n)
}

// WeightedSum ranks nodes by w.G*g(n) + w.H*h(n).
// A zero weight drops its term, so an infinite h with w.H == 0 contributes nothing.
func WeightedSum(w Weights) EvaluationFunc {
	return func(n *Node, h HeuristicFunc) float64 {
		var v float64
		if w.G != 0 {
			v += w.G * n.Cost
		}
		if w.H != 0 {
			v += w.H * h(n)
		}
		return v
	}
}

// Strategy parameterizes the shared expansion loop.
type Strategy struct {
	Name       string
	Discipline Discipline
	Evaluate   EvaluationFunc
	Heuristic  HeuristicFunc
	Cost       CostFunc
}

func (s Strategy) normalized() Strategy {
	if s.Evaluate == nil {
		s.Evaluate = InsertionOrder
	}
	if s.Heuristic == nil {
		s.Heuristic = Zero
	}
	if s.Cost == nil {
		s.Cost = ElapsedTime
	}
	return s
}

// BreadthFirst expands nodes in generation order.
func BreadthFirst() Strategy {
	return Strategy{Name: domain.PlannerBFS, Discipline: FIFO, Evaluate: InsertionOrder}
}

// DepthFirst expands the most recently generated node first.
func DepthFirst() Strategy {
	return Strategy{Name: domain.PlannerDFS, Discipline: LIFO, Evaluate: InsertionOrder}
}

// DepthLimited is depth-first search bounded by the engine's maximum depth.
func DepthLimited() Strategy {
	return Strategy{Name: domain.PlannerDLS, Discipline: LIFO, Evaluate: InsertionOrder}
}

// UniformCost expands the cheapest node first.
func UniformCost() Strategy {
	return Strategy{Name: domain.PlannerUCS, Discipline: Priority, Evaluate: PathCost}
}

// GreedyBestFirst expands the node that looks closest to the goal. It is not optimal.
func GreedyBestFirst(h HeuristicFunc) Strategy {
	return Strategy{Name: domain.PlannerGBFS, Discipline: Priority, Evaluate: HeuristicOnly, Heuristic: h}
}

// AStar expands by weighted g+h. It returns a minimum-cost trajectory when h is
// admissible and the weights are equal.
func AStar(h HeuristicFunc, w Weights) Strategy {
	return Strategy{Name: domain.PlannerAStar, Discipline: Priority, Evaluate: WeightedSum(w), Heuristic: h}
}

// StrategyOption overrides one part of a base strategy.
type StrategyOption func(*Strategy)

// WithHeuristic replaces the heuristic.
func WithHeuristic(h HeuristicFunc) StrategyOption {
	return func(s *Strategy) {
		s.Heuristic = h
	}
}

// WithEvaluation replaces the evaluation function.
func WithEvaluation(e EvaluationFunc) StrategyOption {
	return func(s *Strategy) {
		s.Evaluate = e
	}
}

// WithCost replaces the cost function.
func WithCost(c CostFunc) StrategyOption {
	return func(s *Strategy) {
		s.Cost = c
	}
}

// WithName renames the strategy.
func WithName(name string) StrategyOption {
	return func(s *Strategy) {
		s.Name = name
	}
}

// Custom derives a planner from base. The frontier discipline of base is kept.
func Custom(base Strategy, opts ...StrategyOption) Strategy {
	for _, opt := range opts {
		opt(&base)
	}
	return base
}
