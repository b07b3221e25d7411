package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/Dosada05/tournament-standings/models"
)

const snapshotSchema = `
CREATE TABLE IF NOT EXISTS tournament_snapshots (
    tournament_id INTEGER PRIMARY KEY,
    payload       JSONB NOT NULL,
    fetched_at    TIMESTAMPTZ NOT NULL,
    updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

var ErrSnapshotTableMissing = errors.New("tournament_snapshots table does not exist")

type postgresSnapshotRepository struct {
	db SQLExecutor
}

func NewPostgresSnapshotRepository(db SQLExecutor) SnapshotRepository {
	return &postgresSnapshotRepository{db: db}
}

// EnsureSnapshotSchema creates the snapshot table when it is missing.
func EnsureSnapshotSchema(ctx context.Context, db SQLExecutor) error {
	if _, err := db.ExecContext(ctx, snapshotSchema); err != nil {
		return fmt.Errorf("failed to create snapshot table: %w", err)
	}
	return nil
}

func (r *postgresSnapshotRepository) Save(ctx context.Context, snap *models.Snapshot) error {
	id := int(snap.Tournament.TournamentID)
	if id <= 0 {
		return ErrSnapshotInvalid
	}
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	query := `
		INSERT INTO tournament_snapshots (tournament_id, payload, fetched_at, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (tournament_id) DO UPDATE
		SET payload = EXCLUDED.payload, fetched_at = EXCLUDED.fetched_at, updated_at = NOW()`

	_, err = r.db.ExecContext(ctx, query, id, payload, snap.FetchedAt)
	if err != nil {
		return mapSnapshotError(err)
	}
	return nil
}

func (r *postgresSnapshotRepository) Get(ctx context.Context, tournamentID int) (*models.Snapshot, error) {
	query := `SELECT payload FROM tournament_snapshots WHERE tournament_id = $1`

	var payload []byte
	err := r.db.QueryRowContext(ctx, query, tournamentID).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSnapshotNotFound
		}
		return nil, mapSnapshotError(err)
	}

	var snap models.Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot %d: %w", tournamentID, err)
	}
	return &snap, nil
}

func (r *postgresSnapshotRepository) Delete(ctx context.Context, tournamentID int) error {
	query := `DELETE FROM tournament_snapshots WHERE tournament_id = $1`
	result, err := r.db.ExecContext(ctx, query, tournamentID)
	if err != nil {
		return mapSnapshotError(err)
	}
	return checkAffectedRows(result, ErrSnapshotNotFound)
}

func mapSnapshotError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "42P01" {
		return ErrSnapshotTableMissing
	}
	return fmt.Errorf("snapshot query failed: %w", err)
}
