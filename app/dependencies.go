package app

import (
	"context"
	"fmt"
	"time"

	"github.com/RushabhaJain/vocalbridge/auth"
	"github.com/RushabhaJain/vocalbridge/config"
	"github.com/RushabhaJain/vocalbridge/handlers"
	"github.com/RushabhaJain/vocalbridge/middleware"
	"github.com/RushabhaJain/vocalbridge/repositories"
	"github.com/RushabhaJain/vocalbridge/repositories/postgres"
	"github.com/RushabhaJain/vocalbridge/repositories/redisstore"
	"github.com/RushabhaJain/vocalbridge/services/conversation"
	"github.com/RushabhaJain/vocalbridge/services/dispatch"
	"github.com/RushabhaJain/vocalbridge/services/history"
	"github.com/RushabhaJain/vocalbridge/services/idempotency"
	"github.com/RushabhaJain/vocalbridge/services/normalizer"
	"github.com/RushabhaJain/vocalbridge/services/persistence"
	"github.com/RushabhaJain/vocalbridge/services/providers"
	"github.com/RushabhaJain/vocalbridge/services/providers/vendora"
	"github.com/RushabhaJain/vocalbridge/services/providers/vendorb"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Dependencies holds all initialized application components
type Dependencies struct {
	Config *config.Config
	Logger *zap.Logger

	DB          *postgres.DB
	RedisClient *redis.Client

	Repositories *repositories.Repositories
	TxManager    repositories.TransactionManager

	Registry       *providers.Registry
	Dispatcher     *dispatch.Service
	Conversations  *conversation.Service
	Idempotency    *idempotency.Service
	Reaper         *idempotency.Reaper
	AuthMiddleware *middleware.AuthMiddleware

	ConversationHandler *handlers.ConversationHandler
	AgentHandler        *handlers.AgentHandler
	SessionHandler      *handlers.SessionHandler
	UsageHandler        *handlers.UsageHandler
	HealthHandler       *handlers.HealthHandler
}

// NewDependencies initializes all application components in dependency order
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	if err := deps.initDatabase(ctx); err != nil {
		return nil, err
	}
	if err := deps.initRepositories(ctx); err != nil {
		return nil, err
	}
	deps.initProviders()
	deps.initServices()
	deps.initAuth()
	deps.initHandlers()

	logger.Info("application dependencies initialized",
		zap.Strings("providers", deps.Registry.Names()),
		zap.Bool("redis_idempotency", cfg.Redis.Enabled))

	return deps, nil
}

func (d *Dependencies) initDatabase(ctx context.Context) error {
	db, err := postgres.NewDB(d.Config.Database, d.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	d.DB = db

	if err := db.InitSchema(ctx); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}

func (d *Dependencies) initRepositories(ctx context.Context) error {
	factory := postgres.NewRepositoryFactory(d.DB, d.Logger)
	d.Repositories = factory.NewRepositories()
	d.TxManager = factory.NewTransactionManager()

	// Redis replaces only the idempotency store; everything else stays in
	// PostgreSQL
	if d.Config.Redis.Enabled {
		client, err := redisstore.NewClient(ctx, d.Config.Redis.Address(), d.Config.Redis.Password, d.Config.Redis.DB)
		if err != nil {
			return fmt.Errorf("failed to initialize redis: %w", err)
		}
		d.RedisClient = client
		d.Repositories.IdempotencyKeys = redisstore.NewIdempotencyStore(client, d.Logger)
		d.Logger.Info("redis idempotency store enabled",
			zap.String("addr", d.Config.Redis.Address()))
	}
	return nil
}

func (d *Dependencies) initProviders() {
	d.Registry = providers.NewRegistry(map[string]providers.Builder{
		"vendorA": func(logger *zap.Logger) providers.VendorAdapter {
			return vendora.New(logger)
		},
		"vendorB": func(logger *zap.Logger) providers.VendorAdapter {
			return vendorb.New(logger)
		},
	}, d.Logger)
}

func (d *Dependencies) initServices() {
	callConfig := providers.CallConfig{
		Timeout:    d.Config.Providers.CallTimeout,
		MaxRetries: d.Config.Providers.MaxRetries,
		RetryDelay: d.Config.Providers.RetryDelay,
	}

	d.Dispatcher = dispatch.NewService(d.Registry, callConfig, d.Repositories.ProviderCallEvents, d.Logger)
	d.Idempotency = idempotency.NewServiceWithTTL(d.Repositories.IdempotencyKeys, d.Config.Providers.IdempotencyTTL, d.Logger)
	d.Reaper = idempotency.NewReaper(d.Idempotency, time.Hour, d.Logger)

	historySvc := history.NewService(d.Repositories.Messages, d.Logger)
	normalizerSvc := normalizer.NewService(d.Logger)
	persistenceSvc := persistence.NewService(
		d.TxManager,
		d.Repositories.Messages,
		d.Repositories.UsageEvents,
		d.Repositories.Sessions,
		d.Logger,
	)

	d.Conversations = conversation.NewService(
		d.Repositories.Sessions,
		d.Repositories.Agents,
		d.Idempotency,
		historySvc,
		d.Dispatcher,
		normalizerSvc,
		persistenceSvc,
		d.Logger,
	)
}

func (d *Dependencies) initAuth() {
	tokens := auth.NewTokenService(d.Config.Auth.JWTSecret, d.Config.Auth.TokenTTL)
	d.AuthMiddleware = middleware.NewAuthMiddleware(tokens, d.Logger)
}

func (d *Dependencies) initHandlers() {
	d.ConversationHandler = handlers.NewConversationHandler(
		d.Conversations,
		d.Repositories.Messages,
		d.Repositories.ProviderCallEvents,
		d.Repositories.Sessions,
		d.Logger,
	)
	d.AgentHandler = handlers.NewAgentHandler(d.Repositories.Agents, d.Registry, d.Logger)
	d.SessionHandler = handlers.NewSessionHandler(d.Repositories.Sessions, d.Repositories.Agents, d.Logger)
	d.UsageHandler = handlers.NewUsageHandler(d.Repositories.UsageEvents, d.Logger)
	d.HealthHandler = handlers.NewHealthHandler(d.DB, d.Logger)
}

// Close releases all held resources
func (d *Dependencies) Close() error {
	var firstErr error

	if d.RedisClient != nil {
		if err := d.RedisClient.Close(); err != nil {
			d.Logger.Error("failed to close redis client", zap.Error(err))
			firstErr = err
		}
	}
	if d.DB != nil {
		if err := d.DB.Close(); err != nil {
			d.Logger.Error("failed to close database", zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
