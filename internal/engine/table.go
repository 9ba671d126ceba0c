package engine

import (
	"encoding/json"

	"github.com/roach88/matchup/internal/ir"
	"github.com/roach88/matchup/internal/probability"
)

// Table is a probability matrix addressed by participant name.
// Rows are A-side participants, columns are B-side participants.
type Table struct {
	namesA []string
	namesB []string
	idsA   map[string]int
	idsB   map[string]int
	matrix *probability.Matrix
}

// ParticipantsA returns the row names in order.
func (t *Table) ParticipantsA() []string { return append([]string(nil), t.namesA...) }

// ParticipantsB returns the column names in order.
func (t *Table) ParticipantsB() []string { return append([]string(nil), t.namesB...) }

// At returns the probability for A id a and B id b.
func (t *Table) At(a, b int) float64 { return t.matrix.At(a, b) }

// Get returns the probability that nameA and nameB are a match.
func (t *Table) Get(nameA, nameB string) (float64, error) {
	a, ok := t.idsA[ir.NameKey(nameA)]
	if !ok {
		return 0, NewUnknownParticipantError(SideA, nameA, t.namesA)
	}
	b, ok := t.idsB[ir.NameKey(nameB)]
	if !ok {
		return 0, NewUnknownParticipantError(SideB, nameB, t.namesB)
	}
	return t.matrix.At(a, b), nil
}

// Row returns a copy of nameA's distribution over the B side.
func (t *Table) Row(nameA string) ([]float64, error) {
	a, ok := t.idsA[ir.NameKey(nameA)]
	if !ok {
		return nil, NewUnknownParticipantError(SideA, nameA, t.namesA)
	}
	return append([]float64(nil), t.matrix.Row(a)...), nil
}

// Rows returns a copy of the whole matrix in id order.
func (t *Table) Rows() [][]float64 { return t.matrix.Rows() }

type tableJSON struct {
	ParticipantsA []string    `json:"participants_a"`
	ParticipantsB []string    `json:"participants_b"`
	Probabilities [][]float64 `json:"probabilities"`
}

// MarshalJSON encodes the table with its names in id order.
func (t *Table) MarshalJSON() ([]byte, error) {
	return json.Marshal(tableJSON{
		ParticipantsA: t.namesA,
		ParticipantsB: t.namesB,
		Probabilities: t.Rows(),
	})
}
