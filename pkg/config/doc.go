// Package config loads batch configuration files.
//
// A batch file holds a few run-wide keys (input_path, output_path,
// num_worker_processes), a mandatory `default` block, and any number of
// override blocks named after a scenario id. Override keys replace the matching
// default keys; every other key is inherited.
package config
