package cmd

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"freight/internal/adapters/out/brokerapi"
	"freight/internal/adapters/out/geocode"
	"freight/internal/adapters/out/media"
	"freight/internal/adapters/out/redis/loadrepo"
	"freight/internal/adapters/out/rest"
	"freight/internal/core/application/usecases/commands"
	"freight/internal/core/ports"
	"freight/internal/jobs"
)

// CompositionRoot wires adapters, clients and use cases together.
type CompositionRoot struct {
	logger         *slog.Logger
	transport      *rest.Transport
	encoder        media.Base64Encoder
	resolver       *geocode.Resolver
	loadRepository *loadrepo.RedisLoadRepository
}

// NewCompositionRoot builds the dependency graph from configuration.
func NewCompositionRoot(config Config, logger *slog.Logger) (CompositionRoot, error) {
	if err := config.Validate(); err != nil {
		return CompositionRoot{}, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	transport, err := rest.NewTransport(config.BrokerAPIURL, nil)
	if err != nil {
		return CompositionRoot{}, fmt.Errorf("transport: %w", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     config.RedisAddr,
		Password: config.RedisPassword,
	})

	cacheTTL := time.Duration(0)
	if config.GeocodeCacheTTL != "" {
		cacheTTL, err = time.ParseDuration(config.GeocodeCacheTTL)
		if err != nil {
			return CompositionRoot{}, fmt.Errorf("geocode cache ttl: %w", err)
		}
	}

	cache, err := geocode.NewRedisCache(redisClient, cacheTTL)
	if err != nil {
		return CompositionRoot{}, fmt.Errorf("geocode cache: %w", err)
	}

	geocoder, err := geocode.NewGoogleClient(config.GoogleAPIKey, nil)
	if err != nil {
		return CompositionRoot{}, fmt.Errorf("geocoder: %w", err)
	}

	resolver, err := geocode.NewResolver(geocoder, cache, logger)
	if err != nil {
		return CompositionRoot{}, fmt.Errorf("geo resolver: %w", err)
	}

	loadRepository, err := loadrepo.NewRedisLoadRepository(redisClient)
	if err != nil {
		return CompositionRoot{}, fmt.Errorf("load repository: %w", err)
	}

	return CompositionRoot{
		logger:         logger,
		transport:      transport,
		encoder:        media.NewBase64Encoder(),
		resolver:       resolver,
		loadRepository: loadRepository,
	}, nil
}

// GeoResolver returns the shared single-flight geocode resolver.
func (c *CompositionRoot) GeoResolver() *geocode.Resolver {
	return c.resolver
}

// LoadRepository returns the Redis-backed load store.
func (c *CompositionRoot) LoadRepository() ports.LoadRepository {
	return c.loadRepository
}

// CreateLoadClient builds a load client over the shared transport.
func (c *CompositionRoot) CreateLoadClient() (*brokerapi.LoadClient, error) {
	return brokerapi.NewLoadClient(c.transport, c.encoder)
}

// CreateAccountClient builds an account client over the shared transport.
func (c *CompositionRoot) CreateAccountClient() (*brokerapi.AccountClient, error) {
	return brokerapi.NewAccountClient(c.transport)
}

// CreateExpireLoadsCommandHandler builds the expiry sweep use case.
func (c *CompositionRoot) CreateExpireLoadsCommandHandler() commands.ExpireLoadsCommandHandler {
	return commands.NewExpireLoadsCommandHandler(c.loadRepository)
}

// CreateJobManager builds the manager owning all scheduled jobs.
func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(c.CreateExpireLoadsCommandHandler(), c.logger)
}
