// Package ir provides the persisted record types for matchup.
//
// This package contains the observation and record definitions plus the
// canonical JSON encoder used to derive content-addressed identifiers. All
// other internal packages import ir; ir imports nothing internal.
//
// Key design constraints:
//   - NO float types in records - observations carry names, booleans and counts
//   - Names are stored exactly as supplied; lookups use NFC-normalized keys
//   - All JSON and YAML tags use snake_case
//   - Logical sequence numbers (seq) only, never wall-clock timestamps
package ir
