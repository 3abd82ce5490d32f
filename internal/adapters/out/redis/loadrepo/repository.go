// Package loadrepo implements the load repository on Redis. Loads are
// stored as JSON documents keyed by id, with a sorted-set index over the
// pickup window end for the expiry sweep.
package loadrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/load"
	"freight/internal/core/ports"
	"freight/internal/pkg/errs"
)

const (
	loadKeyPrefix = "load:"

	// openLoadsKey indexes loads still waiting for a driver, scored by
	// their pickup window end.
	openLoadsKey = "loads:open"
)

// RedisLoadRepository implements ports.LoadRepository on Redis.
type RedisLoadRepository struct {
	client *redis.Client
}

var _ ports.LoadRepository = (*RedisLoadRepository)(nil)

// NewRedisLoadRepository creates a repository over an existing client.
func NewRedisLoadRepository(client *redis.Client) (*RedisLoadRepository, error) {
	if client == nil {
		return nil, errs.NewValueIsRequiredError("client")
	}
	return &RedisLoadRepository{client: client}, nil
}

// Add persists a new load and indexes it when it is still open.
func (r *RedisLoadRepository) Add(ctx context.Context, aggregate *load.Load) error {
	return r.store(ctx, aggregate)
}

// Update persists changes to an existing load, moving it out of the open
// index once it leaves the open states.
func (r *RedisLoadRepository) Update(ctx context.Context, aggregate *load.Load) error {
	return r.store(ctx, aggregate)
}

// Get retrieves a load by id.
func (r *RedisLoadRepository) Get(ctx context.Context, id kernel.ObjectID) (*load.Load, error) {
	if err := id.Validate(); err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("id", err)
	}

	raw, err := r.client.Get(ctx, loadKeyPrefix+id.String()).Result()
	if errors.Is(err, redis.Nil) {
		return nil, errs.NewObjectNotFoundError("load", id.String())
	}
	if err != nil {
		return nil, err
	}
	return parseLoad(raw)
}

// GetAllExpirable retrieves open loads whose pickup window ended at or
// before the given epoch-millisecond timestamp.
func (r *RedisLoadRepository) GetAllExpirable(ctx context.Context, pickupEndsBefore int64) ([]*load.Load, error) {
	ids, err := r.client.ZRangeByScore(ctx, openLoadsKey, &redis.ZRangeBy{
		Min: "-inf",
		Max: fmt.Sprintf("%d", pickupEndsBefore),
	}).Result()
	if err != nil {
		return nil, err
	}

	loads := make([]*load.Load, 0, len(ids))
	for _, id := range ids {
		raw, err := r.client.Get(ctx, loadKeyPrefix+id).Result()
		if errors.Is(err, redis.Nil) {
			// Index entry outlived its document. Drop it.
			r.client.ZRem(ctx, openLoadsKey, id)
			continue
		}
		if err != nil {
			return nil, err
		}

		l, err := parseLoad(raw)
		if err != nil {
			return nil, err
		}
		loads = append(loads, l)
	}
	return loads, nil
}

func (r *RedisLoadRepository) store(ctx context.Context, aggregate *load.Load) error {
	if err := aggregate.ID().Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("id", err)
	}
	if invalid := aggregate.Validate(kernel.FieldMaskAll); invalid != kernel.FieldMaskNone {
		return errs.NewValueIsInvalidErrorWithCause("load",
			fmt.Errorf("fields %#x failed validation", uint32(invalid)))
	}

	encoded, err := json.Marshal(aggregate.WriteJSON(map[string]any{}, kernel.FieldMaskAll))
	if err != nil {
		return err
	}

	id := aggregate.ID().String()
	if err := r.client.Set(ctx, loadKeyPrefix+id, encoded, 0).Err(); err != nil {
		return err
	}

	if isOpen(aggregate.State()) {
		return r.client.ZAdd(ctx, openLoadsKey, redis.Z{
			Score:  float64(aggregate.Pickup().Window().End()),
			Member: id,
		}).Err()
	}
	return r.client.ZRem(ctx, openLoadsKey, id).Err()
}

// isOpen reports whether the load is still waiting for a driver.
func isOpen(state load.State) bool {
	return state == load.StateCreated || state == load.StatePosted
}

func parseLoad(raw string) (*load.Load, error) {
	var document map[string]any
	if err := json.Unmarshal([]byte(raw), &document); err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("load", err)
	}

	l, invalid := load.LoadFromJSON(document, kernel.FieldMaskAll)
	if l == nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("load",
			fmt.Errorf("fields %#x failed validation", uint32(invalid)))
	}
	return l, nil
}
