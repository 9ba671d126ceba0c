// Package harness runs matchup scenarios as executable tests.
//
// A scenario names two participant groups, a sequence of steps applied
// through the engine, and assertions on the final probability table.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	participants_a: [A1, A2, A3]
//	participants_b: [B1, B2, B3]
//	steps:
//	  - exact: {a: A1, b: B1, match: false}
//	    expect: {scenarios: 4}
//	  - count:
//	      pairs: [{a: A1, b: B2}, {a: A2, b: B1}]
//	      expected: 1
//	  - try:
//	      matches: [{a: A3, b: B3}]
//	    expect: {scenarios: 1, ratio: 0.5}
//	  - calculate: true
//	assertions:
//	  - type: probability
//	    a: A3
//	    b: B3
//	    value: 0.5
//	  - type: row
//	    a: A1
//	    values: [0, 0.5, 0.5]
//	  - type: scenarios
//	    count: 2
//	  - type: stochastic
//
// # Step Types
//
//   - exact: an exact-match observation (a, b, match)
//   - count: a count-match observation (pairs, expected)
//   - try: a hypothetical query (matches, non_matches); never mutates
//   - calculate: recompute the probability table
//
// exact and count steps defer recomputation; the table is recomputed once
// before assertions run. A step's expect clause checks the remaining (or,
// for try, consistent) scenario count, the try ratio, or the error code the
// step must fail with.
//
// # Assertion Types
//
//   - probability: one cell of the final table
//   - row: one participant's whole distribution
//   - scenarios: the final candidate count
//   - stochastic: every row and column of the final table sums to 1
//
// # Persistence Check
//
// Every scenario runs against a fresh in-memory SQLite store. Each applied
// observation is appended to the store, and after the last step the stored
// record is replayed; a replay that disagrees with the live engine fails
// the scenario.
package harness
