package bootstrap

import (
	"context"
	"fmt"

	"fundchain-server/internal/config"
	"fundchain-server/internal/observability"
	"fundchain-server/internal/store"
	"fundchain-server/internal/trust"

	analyticsHandler "fundchain-server/internal/analytics/handler"
	analyticsProcessor "fundchain-server/internal/analytics/processor"
	authHandler "fundchain-server/internal/auth/handler"
	authProcessor "fundchain-server/internal/auth/processor"
	campaignHandler "fundchain-server/internal/campaign/handler"
	campaignProcessor "fundchain-server/internal/campaign/processor"
	"fundchain-server/internal/clients/groqai"
	redisClient "fundchain-server/internal/clients/redis"
)

// Dependencies holds all initialized application dependencies
type Dependencies struct {
	// Core
	Store  store.Store
	Logger *observability.Logger

	// Handlers
	AuthHandler      authHandler.Handler
	CampaignHandler  campaignHandler.Handler
	AnalyticsHandler analyticsHandler.Handler

	// Redis client (for cleanup); nil when Redis is not configured
	Redis *redisClient.Client
}

// Initialize sets up all application dependencies
func Initialize(ctx context.Context, cfg *config.Config, logger *observability.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Logger: logger,
	}

	// Initialize database store
	var err error
	deps.Store, err = store.New(cfg.Database.ConnectionString(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Initialize the analysis cache. Redis when configured, in-memory
	// otherwise.
	deps.Redis, err = redisClient.NewClient(cfg.Redis, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	var analysisCache trust.Cache
	if deps.Redis != nil {
		analysisCache = trust.NewRedisCache(deps.Redis.GetClient(), trust.DefaultCacheTTL, logger)
	} else {
		analysisCache = trust.NewMemoryCache(trust.DefaultCacheTTL)
	}

	// Initialize the external completion client. A missing API key leaves
	// the completer nil and the pipeline runs rule-based only.
	var completer trust.Completer
	if cfg.AI.GroqAPIKey != "" {
		client, err := groqai.New(cfg.AI.GroqAPIKey, cfg.AI.GroqBaseURL, cfg.AI.Model, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create groq client: %w", err)
		}
		completer = client
	} else {
		logger.Info(ctx, "No AI API key configured, trust analysis is rule-based only")
	}

	analysisPipeline := trust.NewPipeline(completer, analysisCache, cfg.AI.RequestTimeout, logger)

	// Initialize auth processor and handler
	authProc := authProcessor.New(&deps.Store, cfg.Auth, logger)
	deps.AuthHandler = authHandler.New(authProc, logger)

	// Initialize campaign processor and handler
	campaignProc := campaignProcessor.New(&deps.Store, analysisPipeline, logger)
	deps.CampaignHandler = campaignHandler.New(campaignProc, logger)

	// Initialize analytics processor and handler
	analyticsProc := analyticsProcessor.New(&deps.Store, logger)
	deps.AnalyticsHandler = analyticsHandler.New(analyticsProc, logger)

	return deps, nil
}

// Cleanup closes all resources that need cleanup
func (d *Dependencies) Cleanup() {
	if d.Redis != nil {
		if err := d.Redis.Close(); err != nil {
			d.Logger.Error(context.Background(), "failed to close redis client", err)
		}
	}
}
