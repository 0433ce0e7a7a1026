// Package process adapts external programs as solution checkers.
package process
