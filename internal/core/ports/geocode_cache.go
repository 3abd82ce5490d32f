package ports

import (
	"context"

	"freight/internal/core/domain/model/kernel"
)

// GeocodeCache stores resolved coordinates keyed by a normalized address
// query. A miss is not an error: Get reports it through the boolean so
// callers can fall through to the live geocoder.
type GeocodeCache interface {
	Get(ctx context.Context, query string) (kernel.Location, bool, error)
	Put(ctx context.Context, query string, location kernel.Location) error
}
