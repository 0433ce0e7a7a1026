/*
Package observability turns planner lifecycle hooks into Prometheus metrics.

Metrics are registered on a caller-supplied prometheus.Registerer, so tests and
embedding applications can keep them off the global registry.
*/
package observability
