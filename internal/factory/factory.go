package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/expoprize/prizewheel-go/internal/dependencies/clock"
	"github.com/expoprize/prizewheel-go/internal/dependencies/random"
	"github.com/expoprize/prizewheel-go/internal/flagstore"
	"github.com/expoprize/prizewheel-go/internal/services/draw"
	"github.com/expoprize/prizewheel-go/internal/services/guard"
	"github.com/expoprize/prizewheel-go/internal/services/raffle"
	"github.com/expoprize/prizewheel-go/internal/services/registration"
	"github.com/expoprize/prizewheel-go/internal/services/spin"
	"github.com/expoprize/prizewheel-go/internal/services/wheel"
	"github.com/expoprize/prizewheel-go/internal/sse"
	"github.com/expoprize/prizewheel-go/internal/storage"
	"github.com/expoprize/prizewheel-go/internal/storage/memory"
	redisstorage "github.com/expoprize/prizewheel-go/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage
	Flags   flagstore.Store

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	DrawEngine          *draw.Engine
	AngleResolver       *wheel.Resolver
	Guard               *guard.Guard
	RegistrationService *registration.Service
	SpinManager         *spin.Manager
	RaffleService       *raffle.Service
	HubManager          *sse.HubManager
}

// Config holds configuration for the application factory
type Config struct {
	// RegistrationConfig holds participant sign-up settings (optional)
	// If zero value, defaults to registration.DefaultConfig()
	RegistrationConfig registration.Config
	// SpinConfig holds wheel timing settings (optional)
	// If zero value, defaults to spin.DefaultConfig()
	SpinConfig spin.Config
	// WheelConfig holds angle resolution settings (optional)
	// If zero value, defaults to wheel.DefaultConfig()
	WheelConfig wheel.Config
	// RaffleConfig holds organizer draw settings (optional)
	// If zero value, defaults to raffle.DefaultConfig()
	RaffleConfig raffle.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type. The participation flag store rides
	// the same backend: per-process for memory, shared for redis.
	var store storage.Storage
	var flags flagstore.Store
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
		flags = flagstore.NewMemory()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
		flags = flagstore.NewRedis(redisStore.Client(), cfg.RedisConfig.ParticipantTTL)
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()

	// Use default registration config if not provided
	registrationCfg := cfg.RegistrationConfig
	if registrationCfg.TokenDuration == 0 {
		registrationCfg = registration.DefaultConfig()
	}

	return newWithDependencies(store, flags, clk, rnd, registrationCfg, cfg.SpinConfig, cfg.WheelConfig, cfg.RaffleConfig, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	flags flagstore.Store,
	clk clock.Clock,
	rnd random.Random,
	registrationCfg registration.Config,
	spinCfg spin.Config,
	wheelCfg wheel.Config,
	raffleCfg raffle.Config,
	logger *slog.Logger,
) *App {
	if wheelCfg.MinExtraTurns == 0 {
		wheelCfg = wheel.DefaultConfig()
	}

	// Create services
	engine := draw.NewEngine(rnd)
	resolver := wheel.NewResolver(rnd, wheelCfg)
	g := guard.New(store, flags, clk, logger)
	registrationService := registration.New(store, g, clk, rnd, logger, registrationCfg)
	spinManager := spin.NewManager(clk, engine, resolver, spinCfg, logger)
	raffleService := raffle.New(store, clk, engine, rnd, logger, raffleCfg)
	hubManager := sse.NewHubManager(logger)

	return &App{
		Storage:             store,
		Flags:               flags,
		Clock:               clk,
		Random:              rnd,
		DrawEngine:          engine,
		AngleResolver:       resolver,
		Guard:               g,
		RegistrationService: registrationService,
		SpinManager:         spinManager,
		RaffleService:       raffleService,
		HubManager:          hubManager,
	}
}
