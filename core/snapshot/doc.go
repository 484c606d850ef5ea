// Package snapshot provides an explicitly owned, TTL-bounded value holder.
//
// A Snapshot wraps a loader function. Get serves the held value until it
// expires and then reloads it; Reload and Invalidate give callers an explicit
// refresh contract (the sync engine invalidates the matcher snapshot after
// every committed pass). Concurrent reloads are collapsed with singleflight to
// prevent stampedes against the database.
package snapshot
