package ports

import (
	"context"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/load"
)

// LoadRepository defines the persistence contract for load aggregates.
type LoadRepository interface {
	// Add persists a new load aggregate to storage.
	Add(ctx context.Context, aggregate *load.Load) error

	// Update persists changes to an existing load aggregate.
	Update(ctx context.Context, aggregate *load.Load) error

	// Get retrieves a load aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.ObjectID) (*load.Load, error)

	// GetAllExpirable retrieves loads still waiting for a driver, in the
	// Created or Posted state, whose pickup window ended at or before
	// the given epoch-millisecond timestamp.
	GetAllExpirable(ctx context.Context, pickupEndsBefore int64) ([]*load.Load, error)
}
