// Package app wires one triage run together.
package app

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/BosTheCoder/beeper-triage/internal/beeper"
	"github.com/BosTheCoder/beeper-triage/internal/cache"
	"github.com/BosTheCoder/beeper-triage/internal/config"
	"github.com/BosTheCoder/beeper-triage/internal/llm"
	"github.com/BosTheCoder/beeper-triage/internal/logging"
	"github.com/BosTheCoder/beeper-triage/internal/paths"
	"github.com/BosTheCoder/beeper-triage/internal/triage"
)

// Params holds the resolved configuration passed to the fx module.
type Params struct {
	Settings config.Settings
	Options  Options
}

// Module returns the fx module for a triage run, composing all providers and
// lifecycle hooks.
func Module(p Params) fx.Option {
	return fx.Module("triage",
		fx.Supply(p),
		// Keep fx's own chatter out of the interactive terminal; it lands
		// in the log file instead.
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Provide(
			provideLogger,
			provideCache,
			provideClient,
			provideService,
			provideLLMClient,
			provideFlow,
		),
		fx.Invoke(registerLifecycle),
	)
}

func provideLogger() (*zap.Logger, error) {
	if err := paths.EnsureDirs(); err != nil {
		return nil, err
	}
	return logging.New(paths.LogPath(), uuid.NewString())
}

// provideCache opens the snapshot cache. Cache trouble never blocks a run;
// a nil DB simply disables caching.
func provideCache(log *zap.Logger) *cache.DB {
	db, err := cache.Open(paths.CacheDBPath())
	if err != nil {
		log.Warn("cache unavailable", zap.Error(err))
		return nil
	}
	result, err := db.Migrate()
	if err != nil {
		log.Warn("cache migration failed", zap.Error(err))
		_ = db.Close()
		return nil
	}
	if result.Changed {
		log.Info("cache migrations applied", zap.Uint("version", result.Version))
	}
	return db
}

func provideClient(p Params, log *zap.Logger) *beeper.Client {
	return beeper.NewClient(p.Settings.BaseURL, p.Settings.AccessToken, log)
}

func provideService(p Params, client *beeper.Client, db *cache.DB, log *zap.Logger) *triage.Service {
	return triage.NewService(client, db, p.Settings.CacheTTL, log)
}

func provideLLMClient(p Params, log *zap.Logger) *llm.Client {
	return llm.NewClient(llm.DefaultEndpoint, p.Settings.OpenRouterKey, log)
}

func provideFlow(p Params, svc *triage.Service, llmClient *llm.Client, log *zap.Logger) *Flow {
	return NewFlow(p.Settings, p.Options, svc, llmClient, log)
}

func registerLifecycle(lc fx.Lifecycle, flow *Flow, db *cache.DB, shutdowner fx.Shutdowner, log *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go func() {
				code := flow.Run(context.Background())
				_ = shutdowner.Shutdown(fx.ExitCode(code))
			}()
			return nil
		},
		OnStop: func(_ context.Context) error {
			if db != nil {
				_ = db.Close()
			}
			log.Info("triage run finished")
			return nil
		},
	})
}
