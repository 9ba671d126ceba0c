package engine

import "github.com/roach88/matchup/internal/ir"

// History is the ordered, append-only list of applied observations.
// Records are never reordered or changed after Append.
type History struct {
	records []ir.Observation
}

// Append stamps obs with the next logical sequence number, stores a copy and
// returns the stored record.
func (h *History) Append(obs ir.Observation) ir.Observation {
	rec := obs.Clone()
	rec.Seq = int64(len(h.records) + 1)
	h.records = append(h.records, rec)
	return rec.Clone()
}

// Len returns the number of records.
func (h *History) Len() int { return len(h.records) }

// Last returns the most recent record.
func (h *History) Last() (ir.Observation, bool) {
	if len(h.records) == 0 {
		return ir.Observation{}, false
	}
	return h.records[len(h.records)-1].Clone(), true
}

// Records returns a deep copy of every record in application order.
func (h *History) Records() []ir.Observation {
	out := make([]ir.Observation, len(h.records))
	for i, rec := range h.records {
		out[i] = rec.Clone()
	}
	return out
}
