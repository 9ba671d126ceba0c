package engine

import (
	"fmt"

	"github.com/roach88/matchup/internal/ir"
)

// Serialize returns the persisted record: both name sequences and the
// ordered history. The candidate table itself is never serialized.
func (e *Engine) Serialize() ir.Record {
	return ir.Record{
		FormatVersion: ir.FormatVersion,
		ParticipantsA: e.ParticipantsA(),
		ParticipantsB: e.ParticipantsB(),
		History:       e.History(),
	}
}

// Load reconstructs an engine from a persisted record.
//
// A fresh engine is built for the record's names and every observation is
// replayed through ApplyExactMatch or ApplyCountMatch with recomputation
// deferred; probabilities are computed once at the end. A record whose
// history leaves no scenario loads successfully with an empty probability
// cache, so the contradiction surfaces on the next CalculateProbabilities.
//
// Records without a format_version are treated as version 1. History seq
// values, when present, must be 1, 2, 3, ... in order.
func Load(rec ir.Record, opts ...Option) (*Engine, error) {
	if rec.FormatVersion > ir.FormatVersion || rec.FormatVersion < 0 {
		return nil, newInvalidObservationError("unsupported format version %d (supported: %d)", rec.FormatVersion, ir.FormatVersion)
	}

	e, err := New(rec.ParticipantsA, rec.ParticipantsB, opts...)
	if err != nil {
		return nil, err
	}

	for i, obs := range rec.History {
		if obs.Seq != 0 && obs.Seq != int64(i+1) {
			return nil, fmt.Errorf("replay history[%d]: %w", i,
				newInvalidObservationError("seq %d out of order, expected %d", obs.Seq, i+1))
		}
		if err := e.replay(obs); err != nil {
			return nil, fmt.Errorf("replay history[%d]: %w", i, err)
		}
	}

	if e.NumScenarios() > 0 {
		if err := e.CalculateProbabilities(); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// replay applies one recorded observation through the public operations.
func (e *Engine) replay(obs ir.Observation) error {
	var err error
	switch obs.Kind {
	case ir.KindExactMatch:
		_, err = e.ApplyExactMatch(obs.NameA, obs.NameB, obs.IsMatch, DeferRecompute())
	case ir.KindCountMatch:
		_, err = e.ApplyCountMatch(obs.Pairs, obs.ExpectedCount, DeferRecompute())
	default:
		err = newInvalidObservationError("unknown observation kind %q", obs.Kind)
	}
	return err
}

// Verification reports whether replaying a record is deterministic.
type Verification struct {
	RecordHash    string   `json:"record_hash"`
	Fingerprint   string   `json:"fingerprint"`
	Scenarios     int      `json:"scenarios"`
	Observations  int      `json:"observations"`
	Deterministic bool     `json:"deterministic"`
	Mismatches    []string `json:"mismatches,omitempty"`
}

// Verify loads rec twice and compares the two engines: surviving candidate
// set, probability table and serialized history must all be identical.
func Verify(rec ir.Record, opts ...Option) (*Verification, error) {
	first, err := Load(rec, opts...)
	if err != nil {
		return nil, fmt.Errorf("first replay failed: %w", err)
	}
	second, err := Load(rec, opts...)
	if err != nil {
		return nil, fmt.Errorf("second replay failed: %w", err)
	}

	hash1, err := ir.RecordHash(first.Serialize())
	if err != nil {
		return nil, err
	}
	hash2, err := ir.RecordHash(second.Serialize())
	if err != nil {
		return nil, err
	}

	v := &Verification{
		RecordHash:   hash1,
		Fingerprint:  first.Fingerprint(),
		Scenarios:    first.NumScenarios(),
		Observations: len(rec.History),
	}
	if hash1 != hash2 {
		v.Mismatches = append(v.Mismatches, "history differs between replays")
	}
	if first.Fingerprint() != second.Fingerprint() {
		v.Mismatches = append(v.Mismatches, "candidate sets differ between replays")
	}
	if !EqualTables(first.probs, second.probs) {
		v.Mismatches = append(v.Mismatches, "probability tables differ between replays")
	}
	v.Deterministic = len(v.Mismatches) == 0
	return v, nil
}

// EqualTables reports whether two tables hold identical names and values.
// Two nil tables are equal.
func EqualTables(a, b *Table) bool {
	if a == nil || b == nil {
		return a == b
	}
	if len(a.namesA) != len(b.namesA) || len(a.namesB) != len(b.namesB) {
		return false
	}
	for i := range a.namesA {
		if a.namesA[i] != b.namesA[i] || a.namesB[i] != b.namesB[i] {
			return false
		}
	}
	n := a.matrix.N()
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if a.matrix.At(i, j) != b.matrix.At(i, j) {
				return false
			}
		}
	}
	return true
}
