// Package container provides dependency injection using Uber FX
package container

import (
	"context"

	"github.com/goalplate/v1/internal/application/feedback"
	"github.com/goalplate/v1/internal/application/goals"
	"github.com/goalplate/v1/internal/application/planning"
	"github.com/goalplate/v1/internal/domain/plan"
	"github.com/goalplate/v1/internal/infrastructure/cache"
	"github.com/goalplate/v1/internal/infrastructure/config"
	"github.com/goalplate/v1/internal/infrastructure/http/server"
	gormRepo "github.com/goalplate/v1/internal/infrastructure/persistence/gorm"
	"github.com/goalplate/v1/internal/infrastructure/persistence/memory"
	"github.com/goalplate/v1/internal/ports/outbound"
	"github.com/goalplate/v1/pkg/healthcheck"
	"github.com/goalplate/v1/pkg/logger"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Module provides all dependency injection modules
var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	DatabaseModule,
	CacheModule,
	RepositoryModule,
	ServiceModule,
	HealthModule,
	HTTPModule,
	LifecycleModule,
)

// ConfigModule provides configuration
var ConfigModule = fx.Provide(
	func() (*config.Config, error) {
		return config.Load("")
	},
)

// LoggerModule provides logging
var LoggerModule = fx.Provide(
	func(cfg *config.Config) (*zap.Logger, error) {
		return logger.New(logger.Config{
			Level:       cfg.App.LogLevel,
			Format:      cfg.App.LogFormat,
			Development: cfg.App.Debug,
		})
	},
)

// DatabaseModule provides database connections
var DatabaseModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
		return gormRepo.Connect(cfg, log)
	},
)

// CacheModule provides the constraint cache. Redis when enabled,
// otherwise the in-process cache.
var CacheModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) outbound.ConstraintCache {
		if !cfg.Redis.Enabled {
			log.Info("Using in-memory constraint cache")
			return memory.NewConstraintCache()
		}
		client := cache.NewRedisClient(cfg)
		return cache.NewConstraintCache(client, cfg.Redis.CacheTTL, log)
	},
)

// RepositoryModule provides repository implementations
var RepositoryModule = fx.Provide(
	fx.Annotate(
		gormRepo.NewGoalRepository,
		fx.As(new(outbound.GoalRepository)),
	),
	fx.Annotate(
		gormRepo.NewRecipeCorpus,
		fx.As(new(outbound.RecipeCorpus)),
	),
	fx.Annotate(
		gormRepo.NewProfileService,
		fx.As(new(outbound.ProfileService)),
	),
	fx.Annotate(
		gormRepo.NewProxyWeightStore,
		fx.As(new(outbound.ProxyWeightStore)),
	),
)

// ServiceModule provides application services. The application packages
// stay ignorant of viper, so the operator config maps onto their own
// Config types here.
var ServiceModule = fx.Provide(
	func(cfg *config.Config) goals.Config {
		return goals.Config{
			MaxActiveGoals:   cfg.Planner.MaxActiveGoals,
			LearnedThreshold: cfg.Planner.LearnedThreshold,
		}
	},
	func(cfg *config.Config) planning.Config {
		return planning.Config{
			MaxDays:         cfg.Planner.MaxDays,
			CandidateLimit:  cfg.Planner.CandidateLimit,
			GenerateTimeout: cfg.Planner.GenerateTimeout,
		}
	},
	goals.NewService,
	feedback.NewLearner,
	func(corpus outbound.RecipeCorpus, log *zap.Logger) *plan.Optimizer {
		return plan.NewOptimizer(corpus, log)
	},
	planning.NewService,
)

// HealthModule provides health checks
var HealthModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger, db *gorm.DB) *healthcheck.HealthCheck {
		hc := healthcheck.New(cfg.App.Version, log)
		hc.Register("database", healthcheck.NewDatabaseChecker(db))
		if cfg.Redis.Enabled {
			hc.Register("redis", healthcheck.NewRedisChecker(cache.NewRedisClient(cfg)))
		}
		return hc
	},
)

// HTTPModule provides the HTTP server
var HTTPModule = fx.Provide(
	server.NewServer,
)

// LifecycleModule provides lifecycle hooks
var LifecycleModule = fx.Invoke(
	RegisterLifecycleHooks,
)

// RegisterLifecycleHooks registers application lifecycle hooks
func RegisterLifecycleHooks(
	lc fx.Lifecycle,
	cfg *config.Config,
	log *zap.Logger,
	db *gorm.DB,
	server *server.Server,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Starting application",
				zap.String("name", cfg.App.Name),
				zap.String("version", cfg.App.Version),
				zap.String("environment", cfg.App.Environment),
			)

			go func() {
				if err := server.Start(); err != nil {
					log.Fatal("Failed to start HTTP server", zap.Error(err))
				}
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down application",
				zap.Duration("timeout", cfg.Server.ShutdownTimeout),
			)

			if cfg.Server.ShutdownTimeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
				defer cancel()
			}

			if err := server.Shutdown(ctx); err != nil {
				log.Error("Failed to shutdown HTTP server", zap.Error(err))
			}

			sqlDB, err := db.DB()
			if err == nil {
				if err := sqlDB.Close(); err != nil {
					log.Error("Failed to close database connection", zap.Error(err))
				}
			}

			_ = log.Sync()

			return nil
		},
	})
}
