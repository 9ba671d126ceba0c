// Package store provides SQLite-backed durable storage for matchup groups.
//
// A group is a named pair of participant lists plus an append-only log of
// observations:
//   - groups: one row per group, participant names stored as JSON arrays
//   - observations: one row per applied observation, keyed by content hash
//
// # Ordering and Identity
//
// Observations are ordered by their logical seq (1, 2, 3, ...), never by
// wall time. Every read uses ORDER BY seq ASC so a group's history replays
// identically on every load. Observation IDs are content hashes computed by
// ir.ObservationID, so writing the same observation twice is a no-op.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Deleting a group removes its observations
package store
