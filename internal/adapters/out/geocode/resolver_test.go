package geocode_test

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"freight/internal/adapters/out/geocode"
	"freight/internal/core/domain/model/address"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGeocoder struct {
	mu      sync.Mutex
	calls   int
	queries []string
	respond func(call int, query string) (ports.GeocodeStatus, []ports.GeocodeResult, error)
}

func (s *stubGeocoder) Geocode(_ context.Context, query string) (ports.GeocodeStatus, []ports.GeocodeResult, error) {
	s.mu.Lock()
	s.calls++
	call := s.calls
	s.queries = append(s.queries, query)
	s.mu.Unlock()
	return s.respond(call, query)
}

func (s *stubGeocoder) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type memoryCache struct {
	mu      sync.Mutex
	entries map[string]kernel.Location
	puts    int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string]kernel.Location{}}
}

func (c *memoryCache) Get(_ context.Context, query string) (kernel.Location, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	location, found := c.entries[query]
	return location, found, nil
}

func (c *memoryCache) Put(_ context.Context, query string, location kernel.Location) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[query] = location
	c.puts++
	return nil
}

func buildDockAddress(t *testing.T) address.Address {
	t.Helper()

	var a address.Address
	require.NoError(t, a.SetStreets([]string{"500 Congress Ave"}))
	require.NoError(t, a.SetCity("Austin"))
	require.NoError(t, a.SetState("Texas"))
	require.NoError(t, a.SetZipCode("78701"))
	return a
}

func matchingResult(lat, lng float64) ports.GeocodeResult {
	return ports.GeocodeResult{
		Components: []ports.GeocodeComponent{
			{ShortName: "Austin", Types: []string{"locality", "political"}},
			{ShortName: "TX", Types: []string{"administrative_area_level_1", "political"}},
			{ShortName: "78701", Types: []string{"postal_code"}},
		},
		Latitude:  lat,
		Longitude: lng,
	}
}

func await(t *testing.T, results <-chan kernel.Location) kernel.Location {
	t.Helper()

	select {
	case location := <-results:
		return location
	case <-time.After(5 * time.Second):
		t.Fatal("continuation was never invoked")
		return kernel.Location{}
	}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestResolver_Resolve(t *testing.T) {
	t.Run("resolves_address_and_stores_in_cache", func(t *testing.T) {
		// Given
		geocoder := &stubGeocoder{respond: func(int, string) (ports.GeocodeStatus, []ports.GeocodeResult, error) {
			return ports.GeocodeStatusOK, []ports.GeocodeResult{matchingResult(30.2672, -97.7431)}, nil
		}}
		cache := newMemoryCache()
		resolver, err := geocode.NewResolver(geocoder, cache, quietLogger())
		require.NoError(t, err)

		// When
		results := make(chan kernel.Location, 1)
		require.NoError(t, resolver.Resolve(context.Background(), buildDockAddress(t), func(l kernel.Location) {
			results <- l
		}))
		location := await(t, results)

		// Then
		assert.InDelta(t, 30.2672, location.Latitude(), 1e-9)
		assert.InDelta(t, -97.7431, location.Longitude(), 1e-9)
		assert.Equal(t, 1, geocoder.callCount())
		assert.Equal(t, 1, cache.puts)
		require.Len(t, geocoder.queries, 1)
		assert.Equal(t, "500 Congress Ave, Austin, TX, 78701", geocoder.queries[0])
	})

	t.Run("cache_hit_skips_the_provider", func(t *testing.T) {
		// Given
		geocoder := &stubGeocoder{respond: func(int, string) (ports.GeocodeStatus, []ports.GeocodeResult, error) {
			return ports.GeocodeStatusOK, []ports.GeocodeResult{matchingResult(30.2672, -97.7431)}, nil
		}}
		cache := newMemoryCache()
		var cached kernel.Location
		cached.SetPosition(30.5, -97.5)
		cache.entries["500 Congress Ave, Austin, TX, 78701"] = cached

		resolver, err := geocode.NewResolver(geocoder, cache, quietLogger())
		require.NoError(t, err)

		// When
		results := make(chan kernel.Location, 1)
		require.NoError(t, resolver.Resolve(context.Background(), buildDockAddress(t), func(l kernel.Location) {
			results <- l
		}))
		location := await(t, results)

		// Then
		assert.True(t, location.IsEqual(cached))
		assert.Zero(t, geocoder.callCount())
	})

	t.Run("dispatch_is_single_flight_and_fifo", func(t *testing.T) {
		// Given
		gate := make(chan struct{})
		var inFlight, maxInFlight int
		var mu sync.Mutex
		geocoder := &stubGeocoder{respond: func(call int, _ string) (ports.GeocodeStatus, []ports.GeocodeResult, error) {
			mu.Lock()
			inFlight++
			if inFlight > maxInFlight {
				maxInFlight = inFlight
			}
			mu.Unlock()
			if call == 1 {
				<-gate
			}
			mu.Lock()
			inFlight--
			mu.Unlock()
			return ports.GeocodeStatusOK, []ports.GeocodeResult{matchingResult(float64(call), float64(call))}, nil
		}}
		resolver, err := geocode.NewResolver(geocoder, nil, quietLogger())
		require.NoError(t, err)

		// When: three lookups land while the first is still in flight
		results := make(chan kernel.Location, 3)
		addr := buildDockAddress(t)
		for i := 0; i < 3; i++ {
			require.NoError(t, resolver.Resolve(context.Background(), addr, func(l kernel.Location) {
				results <- l
			}))
		}
		close(gate)

		first := await(t, results)
		second := await(t, results)
		third := await(t, results)

		// Then: strictly serialized, completed in submission order
		assert.Equal(t, 1, maxInFlight)
		assert.Equal(t, 3, geocoder.callCount())
		assert.InDelta(t, 1.0, first.Latitude(), 1e-9)
		assert.InDelta(t, 2.0, second.Latitude(), 1e-9)
		assert.InDelta(t, 3.0, third.Latitude(), 1e-9)
	})

	t.Run("rate_limit_exhausts_retry_budget_then_yields_sentinel", func(t *testing.T) {
		// Given
		geocoder := &stubGeocoder{respond: func(int, string) (ports.GeocodeStatus, []ports.GeocodeResult, error) {
			return ports.GeocodeStatusOverQueryLimit, nil, nil
		}}
		resolver, err := geocode.NewResolver(geocoder, nil, quietLogger(),
			geocode.WithRetryBudget(3),
			geocode.WithRetryDelay(time.Millisecond))
		require.NoError(t, err)

		// When
		results := make(chan kernel.Location, 1)
		require.NoError(t, resolver.Resolve(context.Background(), buildDockAddress(t), func(l kernel.Location) {
			results <- l
		}))
		location := await(t, results)

		// Then: initial attempt plus the full retry budget
		assert.Equal(t, 4, geocoder.callCount())
		assert.Zero(t, location.Latitude())
		assert.Zero(t, location.Longitude())
	})

	t.Run("rate_limit_then_success_resolves_normally", func(t *testing.T) {
		// Given
		geocoder := &stubGeocoder{respond: func(call int, _ string) (ports.GeocodeStatus, []ports.GeocodeResult, error) {
			if call == 1 {
				return ports.GeocodeStatusOverQueryLimit, nil, nil
			}
			return ports.GeocodeStatusOK, []ports.GeocodeResult{matchingResult(30.2672, -97.7431)}, nil
		}}
		resolver, err := geocode.NewResolver(geocoder, nil, quietLogger(),
			geocode.WithRetryDelay(time.Millisecond))
		require.NoError(t, err)

		// When
		results := make(chan kernel.Location, 1)
		require.NoError(t, resolver.Resolve(context.Background(), buildDockAddress(t), func(l kernel.Location) {
			results <- l
		}))
		location := await(t, results)

		// Then
		assert.Equal(t, 2, geocoder.callCount())
		assert.InDelta(t, 30.2672, location.Latitude(), 1e-9)
	})

	t.Run("terminal_statuses_resolve_to_sentinel_without_retry", func(t *testing.T) {
		for _, status := range []ports.GeocodeStatus{
			ports.GeocodeStatusZeroResults,
			ports.GeocodeStatusRequestDenied,
			ports.GeocodeStatusInvalidRequest,
			ports.GeocodeStatusUnknownError,
		} {
			t.Run(status.String(), func(t *testing.T) {
				// Given
				geocoder := &stubGeocoder{respond: func(int, string) (ports.GeocodeStatus, []ports.GeocodeResult, error) {
					return status, nil, nil
				}}
				resolver, err := geocode.NewResolver(geocoder, nil, quietLogger())
				require.NoError(t, err)

				// When
				results := make(chan kernel.Location, 1)
				require.NoError(t, resolver.Resolve(context.Background(), buildDockAddress(t), func(l kernel.Location) {
					results <- l
				}))
				location := await(t, results)

				// Then
				assert.Equal(t, 1, geocoder.callCount())
				assert.Zero(t, location.Latitude())
				assert.Zero(t, location.Longitude())
			})
		}
	})

	t.Run("component_mismatch_still_returns_coordinates", func(t *testing.T) {
		// Given: the provider answers with a different city
		geocoder := &stubGeocoder{respond: func(int, string) (ports.GeocodeStatus, []ports.GeocodeResult, error) {
			result := matchingResult(32.7767, -96.7970)
			result.Components[0].ShortName = "Dallas"
			return ports.GeocodeStatusOK, []ports.GeocodeResult{result}, nil
		}}
		resolver, err := geocode.NewResolver(geocoder, nil, quietLogger())
		require.NoError(t, err)

		// When
		results := make(chan kernel.Location, 1)
		require.NoError(t, resolver.Resolve(context.Background(), buildDockAddress(t), func(l kernel.Location) {
			results <- l
		}))
		location := await(t, results)

		// Then
		assert.InDelta(t, 32.7767, location.Latitude(), 1e-9)
		assert.InDelta(t, -96.7970, location.Longitude(), 1e-9)
	})

	t.Run("nil_continuation_is_rejected", func(t *testing.T) {
		// Given
		geocoder := &stubGeocoder{respond: func(int, string) (ports.GeocodeStatus, []ports.GeocodeResult, error) {
			return ports.GeocodeStatusOK, nil, nil
		}}
		resolver, err := geocode.NewResolver(geocoder, nil, quietLogger())
		require.NoError(t, err)

		// When / Then
		require.Error(t, resolver.Resolve(context.Background(), buildDockAddress(t), nil))
	})
}
