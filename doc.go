/*
Package motionplan is a motion-primitive graph-search planner for automated vehicles,
with a batch layer that solves many scenarios in parallel.

A trajectory is built by chaining precomputed motion primitives from an initial
state until a goal region (time window plus optional position, orientation and
velocity bounds) is reached. The search loop is shared by every planner; planners
only differ in frontier discipline, evaluation and heuristic.

# Usage

Solve a single planning problem with the built-in primitive lattice:

	problem := domain.PlanningProblem{
		Initial: domain.State{Velocity: 5},
		Goal:    domain.GoalRegion{Time: domain.TimeInterval{Start: 10, End: 40}},
	}

	res, err := motionplan.Solve(ctx, problem,
		motionplan.WithPlanner(domain.PlannerUCS),
		motionplan.WithMaxDepth(20),
	)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(res.Outcome, len(res.Trajectory))

Batches of scenarios are run by pkg/batch, usually through the motionplan CLI:

	motionplan run --config batch.yaml --store sqlite --sqlite-dsn reports.db

# Packages

  - pkg/search: frontier, strategies, heuristics and the expansion loop.
  - pkg/registry: planner ids mapped to strategy factories.
  - pkg/config: batch file parsing and per-scenario resolution.
  - pkg/batch: worker pool, timeouts, reuse and validation.
  - pkg/adapters: scenario loading (loam), primitives (lattice) and report stores.
*/
package motionplan
