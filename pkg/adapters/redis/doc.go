// Package redis shares reports, solutions and artifact locks between
// orchestrator processes through a Redis server.
package redis
