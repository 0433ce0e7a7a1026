/*
Package artifacts guards per-scenario solution artifacts.

Several runners (goroutines in one batch, or separate batch processes sharing an
output directory) may target the same scenario. The Manager serializes the
"exists? -> solve -> write" sequence per scenario id with a refcounted in-process
lock and, optionally, a distributed lock.
*/
package artifacts
