package geocode

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"freight/internal/core/domain/model/address"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/ports"
	"freight/internal/pkg/errs"
)

const (
	defaultRetryBudget = 10
	defaultRetryDelay  = time.Second
)

// Resolver serializes geocode lookups through a FIFO queue with at most
// one provider call in flight at any time. Rate-limit responses are
// retried on a fixed delay until the per-request budget runs out; every
// other failure is terminal. Each request invokes its continuation
// exactly once, from the dispatch goroutine, with the zero location as
// the failure sentinel.
type Resolver struct {
	geocoder    ports.Geocoder
	cache       ports.GeocodeCache
	logger      *slog.Logger
	retryBudget int
	retryDelay  time.Duration

	mu    sync.Mutex
	queue []*lookup
	busy  bool
}

type lookup struct {
	ctx     context.Context
	query   string
	city    string
	state   string
	zipCode string
	retries int
	done    func(kernel.Location)
}

// ResolverOption adjusts resolver tuning.
type ResolverOption func(*Resolver)

// WithRetryBudget overrides how many rate-limit retries each request gets.
func WithRetryBudget(budget int) ResolverOption {
	return func(r *Resolver) {
		r.retryBudget = budget
	}
}

// WithRetryDelay overrides the pause before a rate-limited retry.
func WithRetryDelay(delay time.Duration) ResolverOption {
	return func(r *Resolver) {
		r.retryDelay = delay
	}
}

// NewResolver creates a resolver over the given geocoder. The cache may
// be nil, in which case every request goes to the provider.
func NewResolver(geocoder ports.Geocoder, cache ports.GeocodeCache, logger *slog.Logger, opts ...ResolverOption) (*Resolver, error) {
	if geocoder == nil {
		return nil, errs.NewValueIsRequiredError("geocoder")
	}
	if logger == nil {
		logger = slog.Default()
	}
	resolver := &Resolver{
		geocoder:    geocoder,
		cache:       cache,
		logger:      logger.With("component", "geo_resolver"),
		retryBudget: defaultRetryBudget,
		retryDelay:  defaultRetryDelay,
	}
	for _, opt := range opts {
		opt(resolver)
	}
	return resolver, nil
}

// Resolve queues a lookup for the address and returns immediately. The
// continuation fires exactly once with the resolved coordinates, or the
// zero location when the lookup fails for good.
func (r *Resolver) Resolve(ctx context.Context, addr address.Address, done func(kernel.Location)) error {
	if done == nil {
		return errs.NewValueIsRequiredError("done")
	}

	request := &lookup{
		ctx:     ctx,
		query:   buildQuery(addr),
		city:    addr.City(),
		state:   addr.State(),
		zipCode: addr.ZipCode(),
		retries: r.retryBudget,
		done:    done,
	}

	r.mu.Lock()
	r.queue = append(r.queue, request)
	start := !r.busy
	if start {
		r.busy = true
	}
	r.mu.Unlock()

	if start {
		go r.dispatch()
	}
	return nil
}

// dispatch drains the queue one lookup at a time. A completed lookup is
// dequeued before the next one starts, so at most one provider call is
// ever outstanding.
func (r *Resolver) dispatch() {
	for {
		r.mu.Lock()
		if len(r.queue) == 0 {
			r.busy = false
			r.mu.Unlock()
			return
		}
		request := r.queue[0]
		r.mu.Unlock()

		request.done(r.resolve(request))

		r.mu.Lock()
		r.queue = r.queue[1:]
		r.mu.Unlock()
	}
}

func (r *Resolver) resolve(request *lookup) kernel.Location {
	if r.cache != nil {
		cached, found, err := r.cache.Get(request.ctx, request.query)
		if err != nil {
			r.logger.Warn("cache lookup failed", "query", request.query, "error", err)
		} else if found {
			return cached
		}
	}

	for {
		status, results, err := r.geocoder.Geocode(request.ctx, request.query)
		if err != nil {
			r.logger.Error("geocode request failed", "query", request.query, "error", err)
			return kernel.Location{}
		}

		switch status {
		case ports.GeocodeStatusOK:
			if len(results) == 0 {
				return kernel.Location{}
			}
			return r.accept(request, results[0])

		case ports.GeocodeStatusOverQueryLimit:
			if request.retries <= 0 {
				r.logger.Error("geocode retry budget exhausted", "query", request.query)
				return kernel.Location{}
			}
			request.retries--
			time.Sleep(r.retryDelay)

		default:
			r.logger.Warn("geocode rejected", "query", request.query, "status", status.String())
			return kernel.Location{}
		}
	}
}

// accept verifies the result's address components against the request
// and stores the coordinates in the cache. A component mismatch is
// logged but the coordinates are still returned.
func (r *Resolver) accept(request *lookup, result ports.GeocodeResult) kernel.Location {
	if !componentsMatch(request, result.Components) {
		r.logger.Warn("geocode result does not match address",
			"query", request.query,
			"latitude", result.Latitude,
			"longitude", result.Longitude)
	}

	var location kernel.Location
	location.SetPosition(result.Latitude, result.Longitude)

	if r.cache != nil {
		if err := r.cache.Put(request.ctx, request.query, location); err != nil {
			r.logger.Warn("cache store failed", "query", request.query, "error", err)
		}
	}
	return location
}

// componentsMatch checks the result's city, state and zip components
// against the request. The zip code participates in the check.
func componentsMatch(request *lookup, components []ports.GeocodeComponent) bool {
	matched := map[string]bool{}
	for _, component := range components {
		for _, componentType := range component.Types {
			switch componentType {
			case "locality":
				matched["city"] = matched["city"] || strings.EqualFold(component.ShortName, request.city)
			case "administrative_area_level_1":
				matched["state"] = matched["state"] || strings.EqualFold(component.ShortName, request.state)
			case "postal_code":
				matched["zip"] = matched["zip"] || component.ShortName == request.zipCode
			}
		}
	}
	return matched["city"] && matched["state"] && matched["zip"]
}

func buildQuery(addr address.Address) string {
	parts := make([]string, 0, 4)
	if streets := addr.Streets(); len(streets) > 0 {
		parts = append(parts, strings.Join(streets, " "))
	}
	if city := addr.City(); city != "" {
		parts = append(parts, city)
	}
	if state := addr.State(); state != "" {
		parts = append(parts, state)
	}
	if zip := addr.ZipCode(); zip != "" {
		parts = append(parts, zip)
	}
	return strings.Join(parts, ", ")
}
