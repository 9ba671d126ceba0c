package ir

import "fmt"

// Kind tags an observation record.
type Kind string

const (
	// KindExactMatch is a single-pair confirmed-match-or-not result.
	KindExactMatch Kind = "exact-match"

	// KindCountMatch is a simultaneous partial seating plus the number of
	// positions that turned out correct.
	KindCountMatch Kind = "count-match"
)

// Valid reports whether k is a known observation kind.
func (k Kind) Valid() bool {
	return k == KindExactMatch || k == KindCountMatch
}

// Pair is one (participant A, participant B) seating, by name.
type Pair struct {
	A string `json:"a" yaml:"a"`
	B string `json:"b" yaml:"b"`
}

func (p Pair) String() string {
	return fmt.Sprintf("%s=%s", p.A, p.B)
}

// Observation is one entry in a group's append-only history.
//
// Exactly one field set is meaningful per Kind:
//   - exact-match: NameA, NameB, IsMatch
//   - count-match: Pairs, ExpectedCount
type Observation struct {
	// Seq is the 1-based position of the observation in its history. Zero
	// means unnumbered; loading numbers it by position.
	Seq int64 `json:"seq,omitempty" yaml:"seq,omitempty" jsonschema:"minimum=1"`

	Kind Kind `json:"kind" yaml:"kind" jsonschema:"enum=exact-match,enum=count-match"`

	NameA   string `json:"name_a,omitempty" yaml:"name_a,omitempty"`
	NameB   string `json:"name_b,omitempty" yaml:"name_b,omitempty"`
	IsMatch bool   `json:"is_match,omitempty" yaml:"is_match,omitempty"`

	Pairs         []Pair `json:"pairs,omitempty" yaml:"pairs,omitempty"`
	ExpectedCount int    `json:"expected_count,omitempty" yaml:"expected_count,omitempty" jsonschema:"minimum=0"`
}

// ExactMatch builds an exact-match observation.
func ExactMatch(nameA, nameB string, isMatch bool) Observation {
	return Observation{Kind: KindExactMatch, NameA: nameA, NameB: nameB, IsMatch: isMatch}
}

// CountMatch builds a count-match observation. The pairs slice is copied.
func CountMatch(pairs []Pair, expected int) Observation {
	return Observation{
		Kind:          KindCountMatch,
		Pairs:         append([]Pair(nil), pairs...),
		ExpectedCount: expected,
	}
}

// Clone returns a deep copy of the observation.
func (o Observation) Clone() Observation {
	c := o
	if o.Pairs != nil {
		c.Pairs = append([]Pair(nil), o.Pairs...)
	}
	return c
}

// Record is the persisted state of one tracked group: the two name sequences
// plus the ordered observation history. Loading a record replays the
// history; internal candidate tables are never stored. A zero FormatVersion
// means the file omitted it and is read as version 1.
type Record struct {
	FormatVersion int           `json:"format_version,omitempty" yaml:"format_version,omitempty" jsonschema:"minimum=1"`
	ParticipantsA []string      `json:"participants_a" yaml:"participants_a" jsonschema:"minItems=1,uniqueItems=true"`
	ParticipantsB []string      `json:"participants_b" yaml:"participants_b" jsonschema:"minItems=1,uniqueItems=true"`
	History       []Observation `json:"history" yaml:"history"`
}

// Clone returns a deep copy of the record.
func (r Record) Clone() Record {
	c := Record{
		FormatVersion: r.FormatVersion,
		ParticipantsA: append([]string(nil), r.ParticipantsA...),
		ParticipantsB: append([]string(nil), r.ParticipantsB...),
		History:       make([]Observation, len(r.History)),
	}
	for i, obs := range r.History {
		c.History[i] = obs.Clone()
	}
	return c
}
