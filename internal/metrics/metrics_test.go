package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/matchup/internal/engine"
	"github.com/roach88/matchup/internal/ir"
)

var (
	testA = []string{"A1", "A2", "A3", "A4", "A5"}
	testB = []string{"B1", "B2", "B3", "B4", "B5"}
)

func TestObserver_EngineEvents(t *testing.T) {
	reg := prometheus.NewRegistry()
	obs := NewObserver(reg)

	e, err := engine.New(testA, testB, engine.WithObserver(obs))
	require.NoError(t, err)
	assert.Equal(t, 120.0, testutil.ToFloat64(obs.scenariosRemaining))

	_, err = e.ApplyExactMatch("A1", "B1", true)
	require.NoError(t, err)
	_, err = e.ApplyCountMatch([]ir.Pair{{A: "A2", B: "B2"}, {A: "A3", B: "B3"}}, 0)
	require.NoError(t, err)
	_, err = e.ApplyExactMatch("A4", "B5", false)
	require.NoError(t, err)

	assert.Equal(t, 2.0, testutil.ToFloat64(obs.observations.WithLabelValues("exact-match")))
	assert.Equal(t, 1.0, testutil.ToFloat64(obs.observations.WithLabelValues("count-match")))
	assert.Equal(t, float64(e.NumScenarios()), testutil.ToFloat64(obs.scenariosRemaining))

	// Two observation series (one per kind) plus one per remaining collector.
	assert.Equal(t, 6, testutil.CollectAndCount(reg,
		"matchup_observations_total",
		"matchup_scenarios_remaining",
		"matchup_filter_duration_seconds",
		"matchup_generation_duration_seconds",
		"matchup_probability_duration_seconds",
	))
}

func TestObserver_AttachedAfterReplay(t *testing.T) {
	e, err := engine.Load(ir.Record{ParticipantsA: testA, ParticipantsB: testB, History: []ir.Observation{
		ir.ExactMatch("A1", "B1", true),
		ir.ExactMatch("A2", "B2", false),
	}})
	require.NoError(t, err)

	obs := NewObserver(prometheus.NewRegistry())
	e.SetObserver(obs)
	obs.SetScenariosRemaining(e.NumScenarios())
	assert.Equal(t, 18.0, testutil.ToFloat64(obs.scenariosRemaining))
	assert.Equal(t, 0.0, testutil.ToFloat64(obs.observations.WithLabelValues("exact-match")))

	_, err = e.ApplyExactMatch("A3", "B3", true)
	require.NoError(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(obs.observations.WithLabelValues("exact-match")))
	assert.Equal(t, float64(e.NumScenarios()), testutil.ToFloat64(obs.scenariosRemaining))
}

func TestObserver_SeparateRegistries(t *testing.T) {
	first := NewObserver(prometheus.NewRegistry())
	second := NewObserver(prometheus.NewRegistry())

	_, err := engine.New(testA, testB, engine.WithObserver(first))
	require.NoError(t, err)

	assert.Equal(t, 120.0, testutil.ToFloat64(first.scenariosRemaining))
	assert.Equal(t, 0.0, testutil.ToFloat64(second.scenariosRemaining))
}

func TestObserver_DoubleRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewObserver(reg)
	assert.Panics(t, func() { NewObserver(reg) })
}

func TestWriteTextfile(t *testing.T) {
	reg := prometheus.NewRegistry()
	obs := NewObserver(reg)
	_, err := engine.New(testA[:3], testB[:3], engine.WithObserver(obs))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "matchup.prom")
	require.NoError(t, WriteTextfile(reg, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "matchup_scenarios_remaining 6")
}
