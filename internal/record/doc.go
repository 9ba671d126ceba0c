// Package record reads and writes persisted group records.
//
// A record file holds a group's participant lists and its ordered
// observation history. Three encodings are read:
//   - .json: the canonical form written by export
//   - .yaml / .yml: hand-edited records
//   - .cue: records assembled with CUE (read-only)
//
// Every encoding is normalized to JSON and checked against the record JSON
// Schema before it is decoded, so a malformed file is reported with the
// location of each problem instead of a single decode error.
package record
