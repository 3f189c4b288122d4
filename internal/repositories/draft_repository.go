package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/chucuoi/flower-storefront/internal/productform"
	"github.com/chucuoi/flower-storefront/internal/utils"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	draftKeyPrefix = "draft:"
	draftExpiryKey = "drafts:expiry"

	// Draft keys outlive their expiry score so the sweeper can still read
	// the images of a draft it is late to collect.
	draftRetention = 24 * time.Hour
)

// DraftRepository keeps product form snapshots between admin requests.
// Saves are compare-and-set on Snapshot.Version.
type DraftRepository interface {
	SaveDraft(ctx context.Context, snap *productform.Snapshot, expiresAt time.Time) error
	GetDraft(ctx context.Context, id uuid.UUID) (*productform.Snapshot, error)
	DeleteDraft(ctx context.Context, id uuid.UUID) error
	ExpiredDrafts(ctx context.Context, now time.Time, limit int) ([]uuid.UUID, error)
}

type draftRepository struct {
	client *redis.Client
	now    func() time.Time
}

func NewDraftRepo(client *redis.Client) DraftRepository {
	return &draftRepository{client: client, now: time.Now}
}

func draftKey(id uuid.UUID) string {
	return draftKeyPrefix + id.String()
}

// SaveDraft writes snap only if the stored draft is still at snap.Version;
// version zero creates the draft. On success snap.Version holds the new
// version. A draft that moved on or was deleted yields ErrConflict.
func (r *draftRepository) SaveDraft(ctx context.Context, snap *productform.Snapshot, expiresAt time.Time) error {
	redisCtx, cancel := utils.WithRedisTimeout(ctx)
	defer cancel()

	next := *snap
	next.Version++

	data, err := json.Marshal(&next)
	if err != nil {
		return fmt.Errorf("failed to marshal draft %s: %w", snap.ID, err)
	}

	key := draftKey(snap.ID)
	ttl := expiresAt.Sub(r.now()) + draftRetention

	err = r.client.Watch(redisCtx, func(tx *redis.Tx) error {
		stored, exists, err := storedVersion(redisCtx, tx, key)
		if err != nil {
			return err
		}

		if exists != (snap.Version > 0) || stored != snap.Version {
			return ErrConflict
		}

		_, err = tx.TxPipelined(redisCtx, func(pipe redis.Pipeliner) error {
			pipe.Set(redisCtx, key, data, ttl)
			pipe.ZAdd(redisCtx, draftExpiryKey, redis.Z{Score: float64(expiresAt.Unix()), Member: snap.ID.String()})
			return nil
		})

		return err
	}, key)

	switch {
	case errors.Is(err, ErrConflict), errors.Is(err, redis.TxFailedErr):
		return ErrConflict
	case err != nil:
		return fmt.Errorf("failed to save draft %s: %w", snap.ID, err)
	}

	snap.Version = next.Version

	return nil
}

func storedVersion(ctx context.Context, tx *redis.Tx, key string) (int64, bool, error) {
	data, err := tx.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}

	var stored struct {
		Version int64 `json:"version"`
	}
	if err := json.Unmarshal(data, &stored); err != nil {
		return 0, true, fmt.Errorf("stored draft is corrupt: %w", err)
	}

	return stored.Version, true, nil
}

func (r *draftRepository) GetDraft(ctx context.Context, id uuid.UUID) (*productform.Snapshot, error) {
	redisCtx, cancel := utils.WithRedisTimeout(ctx)
	defer cancel()

	data, err := r.client.Get(redisCtx, draftKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("failed to get draft %s: %w", id, err)
	}

	var snap productform.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal draft %s: %w", id, err)
	}

	return &snap, nil
}

func (r *draftRepository) DeleteDraft(ctx context.Context, id uuid.UUID) error {
	redisCtx, cancel := utils.WithRedisTimeout(ctx)
	defer cancel()

	_, err := r.client.TxPipelined(redisCtx, func(pipe redis.Pipeliner) error {
		pipe.Del(redisCtx, draftKey(id))
		pipe.ZRem(redisCtx, draftExpiryKey, id.String())
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete draft %s: %w", id, err)
	}

	return nil
}

// ExpiredDrafts lists up to limit drafts whose expiry is at or before now,
// oldest first.
func (r *draftRepository) ExpiredDrafts(ctx context.Context, now time.Time, limit int) ([]uuid.UUID, error) {
	redisCtx, cancel := utils.WithRedisTimeout(ctx)
	defer cancel()

	members, err := r.client.ZRangeByScore(redisCtx, draftExpiryKey, &redis.ZRangeBy{
		Min:   "-inf",
		Max:   strconv.FormatInt(now.Unix(), 10),
		Count: int64(limit),
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list expired drafts: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(members))
	for _, m := range members {
		id, err := uuid.Parse(m)
		if err != nil {
			// not ours; drop it so the sweep does not stall on it
			r.client.ZRem(redisCtx, draftExpiryKey, m)
			continue
		}

		ids = append(ids, id)
	}

	return ids, nil
}
