package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/matchup/internal/ir"
)

// AppendObservation adds obs to the end of a group's history.
// Returns whether a new row was written.
//
// The row ID is ir.ObservationID(groupID, obs), so appending an observation
// that is already stored is a no-op (inserted=false). Otherwise obs.Seq must
// be exactly one past the group's last seq, or ErrSeqOutOfOrder is returned.
func (s *Store) AppendObservation(ctx context.Context, groupID string, obs ir.Observation) (inserted bool, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("append observation: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	inserted, err = appendObservation(ctx, tx, groupID, obs)
	if err != nil {
		return false, fmt.Errorf("append observation: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("append observation: commit: %w", err)
	}
	return inserted, nil
}

func appendObservation(ctx context.Context, tx *sql.Tx, groupID string, obs ir.Observation) (bool, error) {
	if !obs.Kind.Valid() {
		return false, fmt.Errorf("unknown kind %q", obs.Kind)
	}

	id, err := ir.ObservationID(groupID, obs)
	if err != nil {
		return false, err
	}

	var exists int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM observations WHERE id = ?`, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("check existing: %w", err)
	}
	if exists > 0 {
		return false, nil
	}

	var last int64
	err = tx.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(seq), 0) FROM observations WHERE group_id = ?
	`, groupID).Scan(&last)
	if err != nil {
		return false, fmt.Errorf("last seq: %w", err)
	}
	if obs.Seq != last+1 {
		return false, fmt.Errorf("%w: got %d, expected %d", ErrSeqOutOfOrder, obs.Seq, last+1)
	}

	payload, err := marshalObservation(obs)
	if err != nil {
		return false, err
	}

	// ON CONFLICT covers a concurrent writer that stored the same content.
	result, err := tx.ExecContext(ctx, `
		INSERT INTO observations
		(id, group_id, seq, kind, payload)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		id,
		groupID,
		obs.Seq,
		string(obs.Kind),
		payload,
	)
	if err != nil {
		return false, fmt.Errorf("insert: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// ReadHistory returns a group's observations ordered by seq.
//
// Returns an empty slice (not nil) if the group has no observations.
func (s *Store) ReadHistory(ctx context.Context, groupID string) ([]ir.Observation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT payload
		FROM observations
		WHERE group_id = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, groupID)
	if err != nil {
		return nil, fmt.Errorf("query observations: %w", err)
	}
	defer rows.Close()

	history := []ir.Observation{}
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan observation: %w", err)
		}
		obs, err := unmarshalObservation(payload)
		if err != nil {
			return nil, err
		}
		history = append(history, obs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate observations: %w", err)
	}
	return history, nil
}

// ReadRecord assembles the persisted record of the named group.
// Returns ErrGroupNotFound if no group has that name.
func (s *Store) ReadRecord(ctx context.Context, name string) (ir.Record, error) {
	g, err := s.GetGroup(ctx, name)
	if err != nil {
		return ir.Record{}, err
	}
	history, err := s.ReadHistory(ctx, g.ID)
	if err != nil {
		return ir.Record{}, fmt.Errorf("read record %s: %w", name, err)
	}
	return ir.Record{
		FormatVersion: g.FormatVersion,
		ParticipantsA: g.ParticipantsA,
		ParticipantsB: g.ParticipantsB,
		History:       history,
	}, nil
}

// ImportRecord creates a group named name holding rec's participants and
// history in a single transaction. History records without a seq are
// numbered by position.
func (s *Store) ImportRecord(ctx context.Context, name string, rec ir.Record) (Group, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Group{}, fmt.Errorf("import record: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	g, err := s.insertGroup(ctx, tx, name, rec.ParticipantsA, rec.ParticipantsB)
	if err != nil {
		return Group{}, fmt.Errorf("import record: %w", err)
	}

	for i, obs := range rec.History {
		obs = obs.Clone()
		if obs.Seq == 0 {
			obs.Seq = int64(i + 1)
		}
		if _, err := appendObservation(ctx, tx, g.ID, obs); err != nil {
			return Group{}, fmt.Errorf("import record: history[%d]: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Group{}, fmt.Errorf("import record: commit: %w", err)
	}
	g.Observations = len(rec.History)
	return g, nil
}
