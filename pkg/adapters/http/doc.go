// Package http serves batch reports, solutions, task events and metrics
// over a chi router.
package http
