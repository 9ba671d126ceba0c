// Package engine narrows the space of one-to-one pairings between two
// equal-size groups as observations are revealed, and reports the implied
// probability of every cross-group pair.
//
// ARCHITECTURE:
//
// An Engine owns three pieces of state, created together by New:
//   - the candidate set: every permutation of 0..N-1, shrinking as
//     observations are applied
//   - the history: the ordered, append-only list of applied observations
//   - the probability cache: derived from the candidate set, stale until
//     recomputed
//
// Observation Flow:
//  1. Names are resolved to ids; every name is validated before anything
//     changes
//  2. The candidate set is filtered once, atomically, by a partial assignment
//     and an expected agreement count
//  3. One record is appended to the history
//  4. Probabilities are recomputed unless DeferRecompute was passed
//
// Exact-match observations are count-match observations over a single pair
// with expected count 1 (match) or 0 (no match).
//
// REPLAY:
//
// The history stores intent (observations), never the candidate table.
// Load constructs a fresh engine and replays the history through the same
// public operations with recomputation deferred, then recomputes once.
// Permutation generation is deterministic and filtering preserves row order,
// so a replayed engine has a byte-identical candidate set.
//
// CONCURRENCY:
//
// The engine is synchronous and has no internal locking. Callers sharing one
// Engine must serialize ApplyExactMatch, ApplyCountMatch,
// CalculateProbabilities and Probabilities against each other and against
// reads. TryPartial and CachedProbabilities may run concurrently with each
// other but not with a mutation. Engines share no package-level state.
package engine
