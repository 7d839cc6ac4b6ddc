// Package publisher pushes the run's outputs to the configured git
// remote. The push is fire-and-forget: each of add, commit and push is
// attempted even when an earlier step failed, and exit codes are
// surfaced in per-step results instead of errors.
package publisher
