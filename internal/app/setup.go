package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/firebase/genkit/go/genkit"
	"github.com/firebase/genkit/go/plugins/googlegenai"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wishkeep/wishkeep/db"
	"github.com/wishkeep/wishkeep/internal/assistant"
	"github.com/wishkeep/wishkeep/internal/config"
	"github.com/wishkeep/wishkeep/internal/log"
	"github.com/wishkeep/wishkeep/internal/tools"
	"github.com/wishkeep/wishkeep/internal/wishlist"
)

// Setup creates and initializes the application. On failure, everything
// already acquired is released before the error returns.
func Setup(ctx context.Context, cfg *config.Config, logger log.Logger) (_ *App, retErr error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if logger == nil {
		logger = log.NewNop()
	}

	a := &App{Config: cfg, Logger: logger}
	defer func() {
		if retErr != nil {
			a.Close()
		}
	}()

	pool, err := provideDBPool(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	a.Pool = pool

	g, err := provideGenkit(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	a.Genkit = g

	a.Store = wishlist.NewStore(pool, logger)

	kit, err := tools.NewKit(tools.KitConfig{
		Store:              a.Store,
		DuplicateThreshold: cfg.DuplicateThreshold,
		ResolveThreshold:   cfg.ResolveThreshold,
		Logger:             logger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating tool kit: %w", err)
	}

	refs, err := kit.Register(g)
	if err != nil {
		return nil, fmt.Errorf("registering tools: %w", err)
	}
	a.Tools = refs

	dispatcher, err := assistant.New(assistant.Config{
		Genkit:     g,
		Categories: a.Store,
		Tools:      refs,
		Logger:     logger,
		ModelName:  cfg.FullModelName(),
		MaxTurns:   cfg.MaxTurns,
	})
	if err != nil {
		return nil, fmt.Errorf("creating dispatcher: %w", err)
	}
	a.Dispatcher = dispatcher

	return a, nil
}

// provideDBPool runs migrations and opens a PostgreSQL connection pool.
func provideDBPool(ctx context.Context, cfg *config.Config, logger log.Logger) (*pgxpool.Pool, error) {
	if err := db.Migrate(cfg.PostgresURL(), logger); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.PostgresConnectionString())
	if err != nil {
		return nil, fmt.Errorf("parsing connection config: %w", err)
	}

	poolCfg.MaxConns = 10
	poolCfg.MinConns = 2
	poolCfg.MaxConnLifetime = 30 * time.Minute
	poolCfg.MaxConnIdleTime = 5 * time.Minute
	poolCfg.HealthCheckPeriod = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return pool, nil
}

// provideGenkit initializes Genkit with the Google AI plugin. The plugin
// reads GEMINI_API_KEY from the environment.
func provideGenkit(ctx context.Context, cfg *config.Config, logger log.Logger) (*genkit.Genkit, error) {
	g := genkit.Init(ctx, genkit.WithPlugins(&googlegenai.GoogleAI{}))
	if g == nil {
		return nil, errors.New("initializing genkit")
	}

	logger.Info("initialized genkit", "provider", cfg.Provider, "model", cfg.ModelName)
	return g, nil
}
