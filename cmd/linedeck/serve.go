package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/linedeck/linedeck/internal/config"
	"github.com/linedeck/linedeck/internal/content"
	"github.com/linedeck/linedeck/internal/distribute"
	"github.com/linedeck/linedeck/internal/enrich"
	"github.com/linedeck/linedeck/internal/handlers"
	"github.com/linedeck/linedeck/internal/image"
	"github.com/linedeck/linedeck/internal/ingest"
	"github.com/linedeck/linedeck/internal/line"
	"github.com/linedeck/linedeck/internal/logger"
	"github.com/linedeck/linedeck/internal/server"
)

func runServe(configPath string) {
	fx.New(
		fx.Supply(configPathValue(configPath)),
		fx.Provide(
			provideConfig,
			provideLogger,
			content.NewStore,
			image.NewStore,
			provideLineClient,
			provideEnricher,
			provideHub,
			provideNotifier,
			providePipeline,
			provideServerHandler(provideWebhookHandler),
			provideServerHandler(provideContentHandler),
			provideServerHandler(provideHealthHandler),
			provideServerHandler(provideWSHandler),
			provideServer,
		),
		fx.Invoke(
			startHub,
			startServer,
		),
		fx.WithLogger(func(log *slog.Logger) fxevent.Logger {
			return &fxevent.SlogLogger{Logger: log.With(slog.String("component", "fx"))}
		}),
	).Run()
}

type configPathValue string

func provideServerHandler(fn any) any {
	return fx.Annotate(
		fn,
		fx.As(new(server.Handler)),
		fx.ResultTags(`group:"server_handlers"`),
	)
}

func provideConfig(path configPathValue) (config.Config, error) {
	cfgPath := string(path)
	if cfgPath == "" {
		cfgPath = os.Getenv("CONFIG_PATH")
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func provideLogger(cfg config.Config) *slog.Logger {
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	return logger.L
}

func provideLineClient(log *slog.Logger, cfg config.Config) *line.Client {
	return line.NewClient(log, cfg.Line.ContentBaseURL, cfg.Line.ChannelAccessToken)
}

func provideEnricher(log *slog.Logger, cfg config.Config) *enrich.Service {
	var generator enrich.Generator
	if cfg.Gemini.APIKey != "" {
		generator = enrich.NewGeminiClient(log, cfg.Gemini.BaseURL, cfg.Gemini.APIKey, cfg.Gemini.Model)
	}
	return enrich.NewService(log, generator)
}

// provideHub returns nil in poll mode; downstream consumers treat a nil hub
// as "push distribution disabled".
func provideHub(log *slog.Logger, cfg config.Config) *distribute.Hub {
	if cfg.Distribution.Mode != config.DistributionPush {
		return nil
	}
	return distribute.NewHub(log, cfg.Server.ClientOrigin)
}

func provideNotifier(hub *distribute.Hub) distribute.Notifier {
	if hub == nil {
		return distribute.NopNotifier{}
	}
	return hub
}

func providePipeline(log *slog.Logger, cfg config.Config, enricher *enrich.Service, client *line.Client, contentStore *content.Store, imageStore *image.Store, notifier distribute.Notifier) *ingest.Pipeline {
	return ingest.NewPipeline(log, cfg.Line.ChannelSecret, enricher, client, contentStore, imageStore, notifier)
}

func provideWebhookHandler(log *slog.Logger, pipeline *ingest.Pipeline) *handlers.WebhookHandler {
	return handlers.NewWebhookHandler(log, pipeline)
}

func provideContentHandler(log *slog.Logger, contentStore *content.Store, imageStore *image.Store) *handlers.ContentHandler {
	return handlers.NewContentHandler(log, contentStore, imageStore)
}

func provideHealthHandler(log *slog.Logger, cfg config.Config, contentStore *content.Store) *handlers.HealthHandler {
	return handlers.NewHealthHandler(log, cfg, contentStore)
}

func provideWSHandler(log *slog.Logger, hub *distribute.Hub) *handlers.WSHandler {
	return handlers.NewWSHandler(log, hub)
}

type serverParams struct {
	fx.In
	Logger   *slog.Logger
	Config   config.Config
	Handlers []server.Handler `group:"server_handlers"`
}

func provideServer(params serverParams) *server.Server {
	return server.New(params.Logger, params.Config.Server.Addr, params.Config.Server.ClientOrigin, params.Handlers...)
}

func startHub(lc fx.Lifecycle, hub *distribute.Hub) {
	if hub == nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go hub.Run(ctx)
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
}

func startServer(lc fx.Lifecycle, log *slog.Logger, srv *server.Server, shutdowner fx.Shutdowner, cfg config.Config) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("starting server",
				slog.String("addr", cfg.Server.Addr),
				slog.String("distribution", cfg.Distribution.Mode),
			)
			go func() {
				if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("server failed", slog.Any("error", err))
					_ = shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if err := srv.Stop(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server stop: %w", err)
			}
			return nil
		},
	})
}
