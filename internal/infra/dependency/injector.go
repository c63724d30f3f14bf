// Package dependency provides dependency injection for the application.
package dependency

import (
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/trip-planner/backend/config"
	"github.com/trip-planner/backend/internal/application/adapter"
	"github.com/trip-planner/backend/internal/application/usecase/budget"
	"github.com/trip-planner/backend/internal/application/usecase/trip"
	"github.com/trip-planner/backend/internal/domain/ledger"
	"github.com/trip-planner/backend/internal/infra/cache"
	"github.com/trip-planner/backend/internal/infra/server/router"
	"github.com/trip-planner/backend/internal/integration/adapters"
	"github.com/trip-planner/backend/internal/integration/entrypoint/controller"
	"github.com/trip-planner/backend/internal/integration/entrypoint/middleware"
	"github.com/trip-planner/backend/internal/integration/persistence"
	"github.com/trip-planner/backend/internal/integration/redisstore"
	"github.com/trip-planner/backend/internal/integration/replication"
)

// Injector holds all application dependencies.
type Injector struct {
	Config   *config.Config
	DB       *gorm.DB
	Redis    *redis.Client
	Registry *prometheus.Registry
	Engine   *budget.Engine
	Worker   *replication.Worker
	Router   *router.Router
}

// NewInjector creates a new dependency injector with all dependencies wired.
// redisClient may be nil when neither the store nor the lock uses Redis.
func NewInjector(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, logger *slog.Logger) (*Injector, error) {
	if logger == nil {
		logger = slog.Default()
	}

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	observer := adapters.NewPrometheusObserver(registry)

	// Ledger store and lock
	store, storeHealth, err := newLedgerStore(cfg, db, redisClient)
	if err != nil {
		return nil, err
	}
	locker, err := newItemLocker(cfg, redisClient, logger)
	if err != nil {
		return nil, err
	}

	// Create repositories
	userRepo := persistence.NewUserRepository(db)
	tripRepo := persistence.NewTripRepository(db)
	jobRepo := persistence.NewReplicationJobRepository(db)

	// Create adapters/services
	tokenService := adapters.NewTokenService(cfg.JWT.Secret)

	// Replication engine
	replicator := budget.NewReplicator(store, locker, jobRepo, observer, logger)
	engine := budget.NewEngine(store, locker, replicator, ledger.ParseOverspendPolicy(cfg.Ledger.OverspendPolicy), logger)

	worker := replication.NewWorker(jobRepo, engine, observer, replication.WorkerConfig{
		PollInterval:  cfg.Ledger.WorkerPoll,
		BatchSize:     cfg.Ledger.WorkerBatchSize,
		RetentionDays: cfg.Ledger.JobRetentionDays,
	})

	// Create controllers
	healthController := controller.NewHealthController(func() bool {
		sqlDB, err := db.DB()
		if err != nil {
			return false
		}
		return sqlDB.Ping() == nil
	}, storeHealth, cfg.Ledger.StoreDriver)

	budgetController := controller.NewBudgetController(controller.BudgetUseCases{
		List:               budget.NewListBudgetsUseCase(engine),
		Get:                budget.NewGetBudgetUseCase(engine),
		Create:             budget.NewCreateBudgetUseCase(engine, userRepo),
		Update:             budget.NewUpdateBudgetUseCase(engine),
		Delete:             budget.NewDeleteBudgetUseCase(engine),
		AddExpense:         budget.NewAddExpenseUseCase(engine),
		UpdateExpense:      budget.NewUpdateExpenseUseCase(engine),
		DeleteExpense:      budget.NewDeleteExpenseUseCase(engine),
		AddContributor:     budget.NewAddContributorUseCase(engine, userRepo),
		RemoveContributor:  budget.NewRemoveContributorUseCase(engine),
		ChangeRole:         budget.NewChangeContributorRoleUseCase(engine),
		UpdateContribution: budget.NewUpdateContributionUseCase(engine),
	})

	tripController := controller.NewTripController(
		trip.NewCreateTripUseCase(tripRepo, userRepo, engine, logger),
		trip.NewGetTripUseCase(tripRepo),
		trip.NewDeleteTripUseCase(tripRepo, engine),
	)

	// Create middleware
	// Use higher rate limits for E2E/test environments to prevent flaky tests
	var rateLimiter *middleware.RateLimiter
	if cfg.Server.Environment == "e2e" || cfg.Server.Environment == "test" {
		rateLimiter = middleware.NewRateLimiterWithConfig(100000, cfg.Ledger.RateLimitWindow)
	} else {
		rateLimiter = middleware.NewRateLimiterWithConfig(cfg.Ledger.RateLimit, cfg.Ledger.RateLimitWindow)
	}
	authMiddleware := middleware.NewAuthMiddleware(tokenService)

	// Create router
	r := router.NewRouter(
		healthController,
		budgetController,
		tripController,
		promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		rateLimiter,
		authMiddleware,
	)

	return &Injector{
		Config:   cfg,
		DB:       db,
		Redis:    redisClient,
		Registry: registry,
		Engine:   engine,
		Worker:   worker,
		Router:   r,
	}, nil
}

func newLedgerStore(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (adapter.LedgerStore, func() bool, error) {
	switch cfg.Ledger.StoreDriver {
	case config.StoreDriverPostgres:
		return persistence.NewLedgerStore(db), func() bool {
			sqlDB, err := db.DB()
			if err != nil {
				return false
			}
			return sqlDB.Ping() == nil
		}, nil
	case config.StoreDriverRedis:
		if redisClient == nil {
			return nil, nil, fmt.Errorf("ledger store driver %q requires a redis connection", cfg.Ledger.StoreDriver)
		}
		return redisstore.NewLedgerStore(redisClient), cache.HealthCheck(redisClient), nil
	default:
		return nil, nil, fmt.Errorf("unknown ledger store driver %q", cfg.Ledger.StoreDriver)
	}
}

func newItemLocker(cfg *config.Config, redisClient *redis.Client, logger *slog.Logger) (adapter.ItemLocker, error) {
	switch cfg.Ledger.LockDriver {
	case config.LockDriverMemory:
		return adapters.NewMemoryLocker(), nil
	case config.LockDriverRedis:
		if redisClient == nil {
			return nil, fmt.Errorf("lock driver %q requires a redis connection", cfg.Ledger.LockDriver)
		}
		lockConfig := redisstore.DefaultItemLockerConfig()
		lockConfig.TTL = cfg.Ledger.LockTTL
		return redisstore.NewItemLocker(redisClient, lockConfig, logger), nil
	default:
		return nil, fmt.Errorf("unknown lock driver %q", cfg.Ledger.LockDriver)
	}
}

// NeedsRedis reports whether cfg selects a Redis-backed store or lock.
func NeedsRedis(cfg *config.Config) bool {
	return cfg.Ledger.StoreDriver == config.StoreDriverRedis || cfg.Ledger.LockDriver == config.LockDriverRedis
}
