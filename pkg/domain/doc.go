/*
Package domain contains the core domain models of the motion planner.

It defines the vehicle states produced by motion primitives, the goal regions they
are tested against, and the results a batch run aggregates. This package is kept
pure and free of external dependencies like I/O or persistence, following
Hexagonal Architecture principles.

# Key Entities

  - State: A vehicle snapshot (position, orientation, velocity, time step).
  - Path: A chronologically ordered run of States produced by one primitive.
  - GoalRegion: The time interval and optional position/orientation/velocity intervals to reach.
  - PlanningProblem: An initial State plus a GoalRegion.
  - Result: The outcome of solving one scenario; Report aggregates the Results of a batch.
*/
package domain
