package factory

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/mcoot/swisspairing/internal/dependencies/clock"
	"github.com/mcoot/swisspairing/internal/dependencies/random"
	"github.com/mcoot/swisspairing/internal/services/pairing"
	"github.com/mcoot/swisspairing/internal/services/registry"
	"github.com/mcoot/swisspairing/internal/services/schedule"
	"github.com/mcoot/swisspairing/internal/services/tournament"
	"github.com/mcoot/swisspairing/internal/storage"
	"github.com/mcoot/swisspairing/internal/storage/memory"
	pgstorage "github.com/mcoot/swisspairing/internal/storage/postgres"
	redisstorage "github.com/mcoot/swisspairing/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory   = "memory"
	StorageTypeRedis    = "redis"
	StorageTypePostgres = "postgres"
)

// DefaultRounds is the schedule length used when a request does not name one
const DefaultRounds = 5

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage
	Locker  storage.Locker

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	Engine               *pairing.Engine
	Registry             *registry.Service
	Schedules            *schedule.Service
	TournamentController *tournament.Controller

	closer io.Closer
}

// Close releases the storage backend's connections
func (a *App) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory", "redis" or "postgres")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// PostgresConfig holds database settings (required if StorageType is "postgres")
	PostgresConfig *pgstorage.Config
	// DefaultRounds is used by the rankings path when no schedule is stored
	// If zero, DefaultRounds is used
	DefaultRounds int
	// ScheduleConfig controls lock waiting (optional)
	ScheduleConfig schedule.Config
	// RandomSeed, when set, makes the pairing engine's match outcomes
	// reproducible. Lock tokens always come from crypto/rand.
	RandomSeed *uint64
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	clk := clock.New()
	tokens := random.New()

	var rnd random.Random = tokens
	if cfg.RandomSeed != nil {
		rnd = random.NewSeeded(*cfg.RandomSeed)
	}

	var (
		store  storage.Storage
		locker storage.Locker
		closer io.Closer
	)

	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
		locker = memory.NewLocker()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store, locker, closer = redisStore, redisStore.Locker(tokens), redisStore
	case StorageTypePostgres:
		if cfg.PostgresConfig == nil {
			return nil, errors.New("PostgresConfig required when StorageType is postgres")
		}
		db, err := pgstorage.Connect(*cfg.PostgresConfig)
		if err != nil {
			return nil, err
		}
		ctx, cancel := context.WithTimeout(context.Background(), cfg.PostgresConfig.ConnectTimeout)
		defer cancel()
		if err := pgstorage.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
		pgStore := pgstorage.New(db)
		store, locker, closer = pgStore, pgStore, pgStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory', 'redis' or 'postgres'")
	}

	scheduleCfg := cfg.ScheduleConfig
	if scheduleCfg.LockTimeout == 0 {
		scheduleCfg = schedule.DefaultConfig()
	}
	rounds := cfg.DefaultRounds
	if rounds == 0 {
		rounds = DefaultRounds
	}

	app := newWithDependencies(store, locker, clk, rnd, scheduleCfg, rounds, logger)
	app.closer = closer
	return app, nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	locker storage.Locker,
	clk clock.Clock,
	rnd random.Random,
	scheduleCfg schedule.Config,
	defaultRounds int,
	logger *slog.Logger,
) *App {
	engine := pairing.New(rnd, clk, logger)
	registryService := registry.New(store, logger)
	scheduleService := schedule.New(store, locker, engine, logger, scheduleCfg)
	controller := tournament.NewController(registryService, scheduleService, defaultRounds, logger)

	return &App{
		Storage:              store,
		Locker:               locker,
		Clock:                clk,
		Random:               rnd,
		Engine:               engine,
		Registry:             registryService,
		Schedules:            scheduleService,
		TournamentController: controller,
	}
}
