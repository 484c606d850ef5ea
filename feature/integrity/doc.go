// Package integrity provides health checks for the mirrored catalog.
//
// # Checks Provided
//
//   - Schema: Validates that every catalog table exists and carries the columns the models declare.
//   - Archive: Counts pass snapshots in the storage bucket and finds the newest (supports creating the bucket).
//   - Freshness: Reports the newest last_synced value and flags the catalog as stale past a maximum age.
//
// # HTTP Endpoints
//
//   - GET /integrity : Runs all checks.
//   - GET /integrity/schema : Runs the schema check.
//   - GET /integrity/archive : Runs the archive check (supports ?fix=true).
//   - GET /integrity/freshness : Runs the freshness check.
package integrity
