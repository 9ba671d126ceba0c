package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/matchup/internal/ir"
)

// Group is one tracked pair of participant lists.
type Group struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	ParticipantsA []string `json:"participants_a"`
	ParticipantsB []string `json:"participants_b"`
	FormatVersion int      `json:"format_version"`
	EngineVersion string   `json:"engine_version"`

	// Observations is the number of stored history records.
	Observations int `json:"observations"`
}

// CreateGroup inserts a new group with an empty history.
// Returns ErrGroupExists if name is already taken.
//
// Participant validation is the engine's job; callers construct an engine
// from the lists before persisting them.
func (s *Store) CreateGroup(ctx context.Context, name string, participantsA, participantsB []string) (Group, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Group{}, fmt.Errorf("create group: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	g, err := s.insertGroup(ctx, tx, name, participantsA, participantsB)
	if err != nil {
		return Group{}, fmt.Errorf("create group: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Group{}, fmt.Errorf("create group: commit: %w", err)
	}
	return g, nil
}

func (s *Store) insertGroup(ctx context.Context, tx *sql.Tx, name string, participantsA, participantsB []string) (Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Group{}, errors.New("group name is required")
	}

	var exists int
	err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM groups WHERE name = ?`, name).Scan(&exists)
	if err != nil {
		return Group{}, fmt.Errorf("check name: %w", err)
	}
	if exists > 0 {
		return Group{}, fmt.Errorf("%w: %s", ErrGroupExists, name)
	}

	namesA, err := marshalNames(participantsA)
	if err != nil {
		return Group{}, err
	}
	namesB, err := marshalNames(participantsB)
	if err != nil {
		return Group{}, err
	}

	g := Group{
		ID:            s.ids.Generate(),
		Name:          name,
		ParticipantsA: append([]string(nil), participantsA...),
		ParticipantsB: append([]string(nil), participantsB...),
		FormatVersion: ir.FormatVersion,
		EngineVersion: ir.EngineVersion,
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO groups
		(id, name, participants_a, participants_b, format_version, engine_version)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		g.ID,
		g.Name,
		namesA,
		namesB,
		g.FormatVersion,
		g.EngineVersion,
	)
	if err != nil {
		return Group{}, fmt.Errorf("insert: %w", err)
	}
	return g, nil
}

const selectGroup = `
	SELECT g.id, g.name, g.participants_a, g.participants_b, g.format_version, g.engine_version,
		(SELECT COUNT(*) FROM observations o WHERE o.group_id = g.id)
	FROM groups g
`

// rowScanner abstracts *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanGroup(row rowScanner) (Group, error) {
	var g Group
	var namesA, namesB string
	if err := row.Scan(&g.ID, &g.Name, &namesA, &namesB, &g.FormatVersion, &g.EngineVersion, &g.Observations); err != nil {
		return Group{}, err
	}

	var err error
	if g.ParticipantsA, err = unmarshalNames(namesA); err != nil {
		return Group{}, fmt.Errorf("group %s: %w", g.Name, err)
	}
	if g.ParticipantsB, err = unmarshalNames(namesB); err != nil {
		return Group{}, fmt.Errorf("group %s: %w", g.Name, err)
	}
	return g, nil
}

// GetGroup retrieves a group by name.
// Returns ErrGroupNotFound if no group has that name.
func (s *Store) GetGroup(ctx context.Context, name string) (Group, error) {
	row := s.db.QueryRowContext(ctx, selectGroup+`WHERE g.name = ?`, strings.TrimSpace(name))
	g, err := scanGroup(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Group{}, fmt.Errorf("%w: %s", ErrGroupNotFound, name)
	}
	if err != nil {
		return Group{}, fmt.Errorf("get group: %w", err)
	}
	return g, nil
}

// ListGroups returns every group ordered by name.
//
// Returns an empty slice (not nil) if the store has no groups.
func (s *Store) ListGroups(ctx context.Context) ([]Group, error) {
	rows, err := s.db.QueryContext(ctx, selectGroup+`ORDER BY g.name COLLATE BINARY ASC`)
	if err != nil {
		return nil, fmt.Errorf("query groups: %w", err)
	}
	defer rows.Close()

	groups := []Group{}
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, fmt.Errorf("scan group: %w", err)
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate groups: %w", err)
	}
	return groups, nil
}

// DeleteGroup removes a group and, through the foreign key cascade, its
// whole history. Returns ErrGroupNotFound if no group has that name.
func (s *Store) DeleteGroup(ctx context.Context, name string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM groups WHERE name = ?`, strings.TrimSpace(name))
	if err != nil {
		return fmt.Errorf("delete group: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete group: rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrGroupNotFound, name)
	}
	return nil
}
