// Package batch runs one planner task per scenario and aggregates the results
// into a report.
//
// Tasks are immutable (scenario id, Config) pairs sent to a fixed pool of
// workers over a channel; each worker sends one domain.Result back. With a
// single worker the same per-task logic runs on the caller's goroutine.
//
// Every failure inside a task (unknown scenario, bad problem index, automaton
// error, panic, timeout) is recorded in that task's Result. Only errors that
// affect the whole batch, such as an unreadable scenario directory or an
// invalid configuration, are returned from Run.
package batch
