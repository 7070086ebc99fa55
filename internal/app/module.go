// Package app composes the client's dependency graph.
package app

import (
	"context"
	"time"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/ymaeda/kotae/internal/api"
	"github.com/ymaeda/kotae/internal/config"
	"github.com/ymaeda/kotae/internal/logging"
	"github.com/ymaeda/kotae/internal/tui"
	"github.com/ymaeda/kotae/internal/tui/model"
)

// Params holds the command-line overrides passed to the fx module.
type Params struct {
	ConfigPath string
	ServerURL  string // optional override; empty = use config
}

// Module returns the fx module for the client, composing config, logging,
// the API client, the view model and the TUI shell.
func Module(p Params) fx.Option {
	return fx.Module("kotae",
		fx.Supply(p),
		fx.Provide(
			provideConfig,
			provideLogger,
			provideClient,
			provideViewModel,
			provideApp,
		),
		// The TUI owns the terminal, so fx events go to the log file.
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(registerLifecycle),
	)
}

func provideConfig(p Params) (*config.Config, error) {
	cfg, err := config.Load(p.ConfigPath)
	if err != nil {
		return nil, err
	}
	if p.ServerURL != "" {
		cfg.ServerURL = p.ServerURL
	}
	return cfg, nil
}

func provideLogger(cfg *config.Config) (*zap.Logger, error) {
	return logging.New(cfg.LogPath, cfg.ServerURL)
}

func provideClient(cfg *config.Config, logger *zap.Logger) *api.Client {
	timeout := time.Duration(cfg.RequestTimeoutSeconds) * time.Second
	return api.New(cfg.ServerURL, timeout, logger)
}

func provideViewModel(client *api.Client, cfg *config.Config, logger *zap.Logger) *model.ViewModel {
	return model.New(client, cfg.PageLimit, logger)
}

func provideApp(vm *model.ViewModel, cfg *config.Config, logger *zap.Logger) *tui.App {
	return tui.NewApp(vm, cfg, logger)
}

func registerLifecycle(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			logger.Info("client starting",
				zap.String("server", cfg.ServerURL),
				zap.Int("poll_interval_seconds", cfg.PollIntervalSeconds))
			return nil
		},
		OnStop: func(_ context.Context) error {
			logger.Info("client stopped")
			_ = logger.Sync()
			return nil
		},
	})
}
