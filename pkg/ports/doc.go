/*
Package ports defines the driven ports (interfaces) of the motion planner.

The search engine and the batch orchestrator only talk to the outside world
through these interfaces, so scenario parsing, primitive generation, persistence
and validation can be swapped without touching the core.

# Key Interfaces

  - Automaton: Expands a state into the successor paths of its motion primitives.
  - CollisionChecker: Rejects colliding paths and reports obstacle clearance.
  - ScenarioLoader: Lists and loads scenarios (planning problems plus collaborators).
  - SolutionWriter: Persists one trajectory artifact per solved scenario.
  - ReportStore: Persists aggregate batch reports.
  - DistributedLocker: Provides distributed locking around artifact writes.
*/
package ports
