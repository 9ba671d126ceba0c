package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/roach88/matchup/internal/candidates"
	"github.com/roach88/matchup/internal/ir"
	"github.com/roach88/matchup/internal/permute"
	"github.com/roach88/matchup/internal/probability"
)

// Engine tracks one group of participants through a sequence of observations.
type Engine struct {
	namesA []string
	namesB []string
	idsA   map[string]int
	idsB   map[string]int

	set     *candidates.Set
	history *History

	// probs is nil while stale.
	probs *Table

	observer Observer
}

// Option configures an Engine at construction.
type Option func(*config)

type config struct {
	observer Observer
}

// WithObserver injects an observer that receives generation, filtering and
// probability events. The default observer discards them.
func WithObserver(o Observer) Option {
	return func(c *config) {
		if o != nil {
			c.observer = o
		}
	}
}

// ApplyOption configures a single observation.
type ApplyOption func(*applyConfig)

type applyConfig struct {
	recompute bool
}

// DeferRecompute skips the probability recomputation that normally follows
// an observation. Use it to batch several observations and call
// CalculateProbabilities once at the end.
func DeferRecompute() ApplyOption {
	return func(c *applyConfig) { c.recompute = false }
}

// New creates an engine for two equal-size lists of unique names. The
// candidate set starts as all N! pairings and the history starts empty.
func New(participantsA, participantsB []string, opts ...Option) (*Engine, error) {
	cfg := config{observer: NopObserver{}}
	for _, opt := range opts {
		opt(&cfg)
	}

	n := len(participantsA)
	if n == 0 {
		return nil, newInvalidParticipantsError("at least one participant per side is required")
	}
	if len(participantsB) != n {
		return nil, newInvalidParticipantsError("groups must be the same size, got %d and %d", n, len(participantsB))
	}
	if n > permute.MaxParticipants {
		return nil, newInvalidParticipantsError("%d participants per side exceeds the maximum of %d", n, permute.MaxParticipants)
	}

	idsA, err := indexNames(SideA, participantsA)
	if err != nil {
		return nil, err
	}
	idsB, err := indexNames(SideB, participantsB)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	tbl, err := permute.Generate(n)
	if err != nil {
		return nil, newInvalidParticipantsError("%v", err)
	}
	cfg.observer.ScenariosGenerated(n, tbl.Rows, time.Since(start))

	return &Engine{
		namesA:   append([]string(nil), participantsA...),
		namesB:   append([]string(nil), participantsB...),
		idsA:     idsA,
		idsB:     idsB,
		set:      candidates.New(tbl),
		history:  &History{},
		observer: cfg.observer,
	}, nil
}

// indexNames maps normalized names to dense ids, rejecting blanks and
// duplicates.
func indexNames(side Side, names []string) (map[string]int, error) {
	ids := make(map[string]int, len(names))
	for i, name := range names {
		key := ir.NameKey(name)
		if key == "" {
			return nil, newInvalidParticipantsError("side %s: name at position %d is blank", side, i)
		}
		if prev, dup := ids[key]; dup {
			return nil, newInvalidParticipantsError("side %s: duplicate name %q at positions %d and %d", side, name, prev, i)
		}
		ids[key] = i
	}
	return ids, nil
}

// SetObserver replaces the observer for subsequent events. A nil observer
// discards them.
func (e *Engine) SetObserver(o Observer) {
	if o == nil {
		o = NopObserver{}
	}
	e.observer = o
}

// N returns the number of participants per side.
func (e *Engine) N() int { return len(e.namesA) }

// ParticipantsA returns a copy of the A-side names in id order.
func (e *Engine) ParticipantsA() []string { return append([]string(nil), e.namesA...) }

// ParticipantsB returns a copy of the B-side names in id order.
func (e *Engine) ParticipantsB() []string { return append([]string(nil), e.namesB...) }

// NumScenarios returns how many candidate scenarios remain.
func (e *Engine) NumScenarios() int { return e.set.Len() }

// Fingerprint returns a digest of the surviving candidate set.
func (e *Engine) Fingerprint() string { return e.set.Fingerprint() }

// History returns a copy of the applied observations in order.
func (e *Engine) History() []ir.Observation { return e.history.Records() }

// resolve maps a name on side to its id.
func (e *Engine) resolve(side Side, name string) (int, error) {
	ids, names := e.idsA, e.namesA
	if side == SideB {
		ids, names = e.idsB, e.namesB
	}
	id, ok := ids[ir.NameKey(name)]
	if !ok {
		return 0, NewUnknownParticipantError(side, name, names)
	}
	return id, nil
}

// buildAssignment resolves every pair and rejects repeated A or B ids.
func (e *Engine) buildAssignment(pairs []ir.Pair) (candidates.Assignment, error) {
	assignment := candidates.NewAssignment(len(pairs))
	seenA := make(map[int]bool, len(pairs))
	seenB := make(map[int]bool, len(pairs))
	for _, p := range pairs {
		a, err := e.resolve(SideA, p.A)
		if err != nil {
			return assignment, err
		}
		b, err := e.resolve(SideB, p.B)
		if err != nil {
			return assignment, err
		}
		if seenA[a] {
			return assignment, newInvalidObservationError("participant %s is seated more than once", p.A)
		}
		if seenB[b] {
			return assignment, newInvalidObservationError("participant %s is seated more than once", p.B)
		}
		seenA[a], seenB[b] = true, true
		assignment.Assign(a, b)
	}
	return assignment, nil
}

// ApplyExactMatch records whether nameA and nameB are a confirmed match and
// returns the number of scenarios remaining.
func (e *Engine) ApplyExactMatch(nameA, nameB string, isMatch bool, opts ...ApplyOption) (int, error) {
	a, err := e.resolve(SideA, nameA)
	if err != nil {
		return e.NumScenarios(), err
	}
	b, err := e.resolve(SideB, nameB)
	if err != nil {
		return e.NumScenarios(), err
	}

	expected := 0
	if isMatch {
		expected = 1
	}
	return e.apply(ir.ExactMatch(nameA, nameB, isMatch), candidates.Single(a, b), expected, opts)
}

// ApplyCountMatch records that exactly expected of the seated pairs are
// correct and returns the number of scenarios remaining.
//
// Every pair must seat distinct A and distinct B participants, and expected
// must lie in [0, len(pairs)].
func (e *Engine) ApplyCountMatch(pairs []ir.Pair, expected int, opts ...ApplyOption) (int, error) {
	if len(pairs) == 0 {
		return e.NumScenarios(), newInvalidObservationError("count-match requires at least one pair")
	}
	assignment, err := e.buildAssignment(pairs)
	if err != nil {
		return e.NumScenarios(), err
	}
	if expected < 0 || expected > len(pairs) {
		return e.NumScenarios(), newInvalidObservationError("expected count %d out of range [0, %d]", expected, len(pairs))
	}
	return e.apply(ir.CountMatch(pairs, expected), assignment, expected, opts)
}

// apply filters the candidate set and appends obs to the history.
// All validation has already happened.
func (e *Engine) apply(obs ir.Observation, assignment candidates.Assignment, expected int, opts []ApplyOption) (int, error) {
	cfg := applyConfig{recompute: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	before := e.set.Len()
	start := time.Now()
	remaining := e.set.RetainWhere(assignment, expected)
	recorded := e.history.Append(obs)
	e.probs = nil
	e.observer.ObservationApplied(recorded, before, remaining, time.Since(start))

	if cfg.recompute {
		if err := e.CalculateProbabilities(); err != nil {
			return remaining, err
		}
	}
	return remaining, nil
}

// CalculateProbabilities recomputes and caches the probability table from the
// current candidate set. It fails with an impossible-scenario error when no
// candidate remains; the cache is left empty in that case.
func (e *Engine) CalculateProbabilities() error {
	start := time.Now()
	table, err := e.compute(e.set)
	if err != nil {
		e.probs = nil
		return err
	}
	e.probs = table
	e.observer.ProbabilitiesCalculated(e.set.Len(), time.Since(start))
	return nil
}

// Probabilities returns the cached probability table, recomputing it first
// when observations were applied with DeferRecompute.
func (e *Engine) Probabilities() (*Table, error) {
	if e.probs == nil {
		if err := e.CalculateProbabilities(); err != nil {
			return nil, err
		}
	}
	return e.probs, nil
}

// CachedProbabilities returns the cached table without recomputing.
// The boolean is false while the cache is stale.
func (e *Engine) CachedProbabilities() (*Table, bool) {
	return e.probs, e.probs != nil
}

func (e *Engine) compute(set *candidates.Set) (*Table, error) {
	m, err := probability.Compute(set)
	if errors.Is(err, probability.ErrNoCandidates) {
		return nil, NewImpossibleScenarioError()
	}
	if err != nil {
		return nil, fmt.Errorf("compute probabilities: %w", err)
	}
	return &Table{
		namesA: e.namesA,
		namesB: e.namesB,
		idsA:   e.idsA,
		idsB:   e.idsB,
		matrix: m,
	}, nil
}
