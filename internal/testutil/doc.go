// Package testutil provides isolated backends, loggers and deterministic
// run IDs for tests.
package testutil
