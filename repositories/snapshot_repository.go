package repositories

import (
	"context"
	"errors"
	"sync"

	"github.com/Dosada05/tournament-standings/models"
)

var (
	ErrSnapshotNotFound = errors.New("snapshot not found")
	ErrSnapshotInvalid  = errors.New("snapshot is missing its tournament id")
)

// SnapshotRepository keeps the last snapshot that was read successfully from
// the backend for each tournament.
type SnapshotRepository interface {
	Save(ctx context.Context, snap *models.Snapshot) error
	Get(ctx context.Context, tournamentID int) (*models.Snapshot, error)
	Delete(ctx context.Context, tournamentID int) error
}

type memorySnapshotRepository struct {
	mu    sync.RWMutex
	items map[int]*models.Snapshot
}

func NewMemorySnapshotRepository() SnapshotRepository {
	return &memorySnapshotRepository{items: make(map[int]*models.Snapshot)}
}

func (r *memorySnapshotRepository) Save(_ context.Context, snap *models.Snapshot) error {
	id := int(snap.Tournament.TournamentID)
	if id <= 0 {
		return ErrSnapshotInvalid
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[id] = snap
	return nil
}

func (r *memorySnapshotRepository) Get(_ context.Context, tournamentID int) (*models.Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	snap, ok := r.items[tournamentID]
	if !ok {
		return nil, ErrSnapshotNotFound
	}
	return snap, nil
}

func (r *memorySnapshotRepository) Delete(_ context.Context, tournamentID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[tournamentID]; !ok {
		return ErrSnapshotNotFound
	}
	delete(r.items, tournamentID)
	return nil
}
