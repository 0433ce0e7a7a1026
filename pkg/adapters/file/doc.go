// Package file stores solutions and batch reports as JSON files.
//
// Every write goes through a temporary file in the target directory followed by
// fsync and rename, so readers never observe a partially written artifact.
package file
