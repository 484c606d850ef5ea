// Package metrics exposes Prometheus collectors for sync passes and catalog
// fetching, registered on a Recorder-owned registry and served over fiber.
//
// A nil *Recorder is valid and records nothing, so components can be
// constructed without metrics in tests and one-shot CLI commands.
package metrics
