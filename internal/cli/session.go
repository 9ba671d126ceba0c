package cli

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/roach88/matchup/internal/engine"
	"github.com/roach88/matchup/internal/ir"
	"github.com/roach88/matchup/internal/metrics"
	"github.com/roach88/matchup/internal/store"
)

// session holds the resources shared by commands that work on stored groups.
type session struct {
	opts     *RootOptions
	out      *OutputFormatter
	logger   *slog.Logger
	store    *store.Store
	registry *prometheus.Registry
	metrics  *metrics.Observer

	// replayObserver sees events while stored history is rebuilt;
	// observer sees new work.
	replayObserver engine.Observer
	observer       engine.Observer
}

// newLogger returns a text logger on the command's stderr.
// --verbose lowers the level to Debug, which includes engine events.
func newLogger(opts *RootOptions, cmd *cobra.Command) *slog.Logger {
	logLevel := slog.LevelInfo
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: logLevel,
	})
	return slog.New(handler)
}

// newFormatter returns an OutputFormatter bound to the command's writers.
func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}

// openSession opens the database named by --db and prepares logging and
// metrics. Callers must Close the session.
func openSession(opts *RootOptions, cmd *cobra.Command) (*session, error) {
	out := newFormatter(opts, cmd)
	logger := newLogger(opts, cmd)

	logger.Debug("opening database", "path", opts.Database)
	st, err := store.Open(opts.Database)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}

	registry := prometheus.NewRegistry()
	logObserver := engine.NewLogObserver(logger)
	metricsObserver := metrics.NewObserver(registry)
	return &session{
		opts:           opts,
		out:            out,
		logger:         logger,
		store:          st,
		registry:       registry,
		metrics:        metricsObserver,
		replayObserver: logObserver,
		observer:       engine.MultiObserver{logObserver, metricsObserver},
	}, nil
}

// Close writes metrics when --metrics-out is set and closes the database.
func (s *session) Close() error {
	var metricsErr error
	if s.opts.MetricsOut != "" {
		metricsErr = metrics.WriteTextfile(s.registry, s.opts.MetricsOut)
	}
	if err := s.store.Close(); err != nil {
		s.logger.Error("error closing database", "error", err)
		return err
	}
	return metricsErr
}

// loadGroup reads the named group and replays its history into an engine.
// Metrics only see events that follow the replay.
func (s *session) loadGroup(ctx context.Context, name string) (store.Group, *engine.Engine, error) {
	group, err := s.store.GetGroup(ctx, name)
	if err != nil {
		return store.Group{}, nil, err
	}
	rec, err := s.store.ReadRecord(ctx, name)
	if err != nil {
		return store.Group{}, nil, err
	}
	eng, err := engine.Load(rec, engine.WithObserver(s.replayObserver))
	if err != nil {
		return store.Group{}, nil, fmt.Errorf("load group %s: %w", name, err)
	}
	eng.SetObserver(s.observer)
	s.metrics.SetScenariosRemaining(eng.NumScenarios())
	s.logger.Debug("group loaded", "group", group.Name, "observations", group.Observations, "scenarios", eng.NumScenarios())
	return group, eng, nil
}

// persistLast appends the engine's newest history record to the group.
func (s *session) persistLast(ctx context.Context, group store.Group, eng *engine.Engine) (ir.Observation, error) {
	history := eng.History()
	if len(history) == 0 {
		return ir.Observation{}, fmt.Errorf("persist observation: history is empty")
	}
	obs := history[len(history)-1]
	inserted, err := s.store.AppendObservation(ctx, group.ID, obs)
	if err != nil {
		return ir.Observation{}, err
	}
	s.logger.Info("observation recorded", "group", group.Name, "seq", obs.Seq, "kind", obs.Kind, "inserted", inserted)
	return obs, nil
}

// checkGroupSize enforces --max-participants.
func checkGroupSize(opts *RootOptions, a, b []string) error {
	for _, names := range [][]string{a, b} {
		if len(names) > opts.MaxParticipants {
			return fmt.Errorf("%w: %d participants per side exceeds --max-participants %d",
				errInvalidArgs, len(names), opts.MaxParticipants)
		}
	}
	return nil
}

// parsePair parses "A=B" into a pair.
func parsePair(s string) (ir.Pair, error) {
	a, b, ok := strings.Cut(s, "=")
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	if !ok || a == "" || b == "" {
		return ir.Pair{}, fmt.Errorf("%w: pair %q must look like NAME_A=NAME_B", errInvalidArgs, s)
	}
	return ir.Pair{A: a, B: b}, nil
}

// parsePairs parses every "A=B" argument.
func parsePairs(args []string) ([]ir.Pair, error) {
	pairs := make([]ir.Pair, 0, len(args))
	for _, arg := range args {
		p, err := parsePair(arg)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, p)
	}
	return pairs, nil
}

// trimNames trims blanks around each name.
func trimNames(names []string) []string {
	out := make([]string, len(names))
	for i, name := range names {
		out[i] = strings.TrimSpace(name)
	}
	return out
}

// ObservationResult is the data payload of booth and ceremony.
type ObservationResult struct {
	Group       string         `json:"group"`
	Observation ir.Observation `json:"observation"`
	Scenarios   int            `json:"scenarios"`
}

// record loads the group, applies one observation through apply and
// appends the resulting history record. Observations the engine rejects,
// including ones that leave no scenario, are not stored.
func (s *session) record(ctx context.Context, name string, apply func(*engine.Engine) (int, error)) (*ObservationResult, error) {
	group, eng, err := s.loadGroup(ctx, name)
	if err != nil {
		return nil, err
	}
	remaining, err := apply(eng)
	if err != nil {
		return nil, err
	}
	obs, err := s.persistLast(ctx, group, eng)
	if err != nil {
		return nil, err
	}
	return &ObservationResult{Group: group.Name, Observation: obs, Scenarios: remaining}, nil
}
