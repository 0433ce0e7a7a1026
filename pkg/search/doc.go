/*
Package search implements the motion-primitive graph search.

A single expansion loop (Engine) is shared by every strategy. Strategies differ
only in their frontier discipline and in the evaluation function that turns a
node into a priority:

  - bfs, dfs, dls: FIFO / LIFO frontiers, priority is the insertion sequence.
  - ucs: priority is the path cost g(n).
  - gbfs: priority is the heuristic h(n).
  - astar: priority is w_g*g(n) + w_h*h(n).

User-defined planners are built with Custom, which swaps the heuristic and/or
evaluation of a base strategy while reusing its frontier and the shared loop.

Priority frontiers break ties by insertion order, so identical input always
yields identical trajectories.
*/
package search
