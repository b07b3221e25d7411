package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Dosada05/tournament-standings/models"
)

const (
	DefaultSnapshotTTL = 24 * time.Hour

	snapshotKeyFormat = "standings:snapshot:%d"
	snapshotIndexKey  = "standings:snapshots"
)

type redisSnapshotRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSnapshotRepository stores msgpack-encoded snapshots that expire
// after ttl. A non-positive ttl falls back to DefaultSnapshotTTL.
func NewRedisSnapshotRepository(client *redis.Client, ttl time.Duration) SnapshotRepository {
	if ttl <= 0 {
		ttl = DefaultSnapshotTTL
	}
	return &redisSnapshotRepository{client: client, ttl: ttl}
}

func snapshotKey(tournamentID int) string {
	return fmt.Sprintf(snapshotKeyFormat, tournamentID)
}

func (r *redisSnapshotRepository) Save(ctx context.Context, snap *models.Snapshot) error {
	id := int(snap.Tournament.TournamentID)
	if id <= 0 {
		return ErrSnapshotInvalid
	}
	data, err := encodeSnapshot(snap)
	if err != nil {
		return err
	}

	pipe := r.client.Pipeline()
	pipe.Set(ctx, snapshotKey(id), data, r.ttl)
	pipe.SAdd(ctx, snapshotIndexKey, id)
	pipe.Expire(ctx, snapshotIndexKey, r.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis save snapshot %d: %w", id, err)
	}
	return nil
}

func (r *redisSnapshotRepository) Get(ctx context.Context, tournamentID int) (*models.Snapshot, error) {
	data, err := r.client.Get(ctx, snapshotKey(tournamentID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("redis get snapshot %d: %w", tournamentID, err)
	}
	return decodeSnapshot(data)
}

func (r *redisSnapshotRepository) Delete(ctx context.Context, tournamentID int) error {
	pipe := r.client.TxPipeline()
	del := pipe.Del(ctx, snapshotKey(tournamentID))
	pipe.SRem(ctx, snapshotIndexKey, tournamentID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis delete snapshot %d: %w", tournamentID, err)
	}
	if del.Val() == 0 {
		return ErrSnapshotNotFound
	}
	return nil
}
