package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/PabloGalante/weatherchat/internal/adapters/llm"
	"github.com/PabloGalante/weatherchat/internal/adapters/pdf"
	"github.com/PabloGalante/weatherchat/internal/adapters/storage"
	"github.com/PabloGalante/weatherchat/internal/adapters/weather"
	"github.com/PabloGalante/weatherchat/internal/app/conversation"
	"github.com/PabloGalante/weatherchat/internal/app/sessions"
	"github.com/PabloGalante/weatherchat/internal/config"
	"github.com/PabloGalante/weatherchat/internal/domain"
	"github.com/PabloGalante/weatherchat/internal/observability"
)

// app holds the wired process state shared by every subcommand.
type app struct {
	cfg      *config.Config
	kv       domain.KVStore
	store    *sessions.Store
	chat     *conversation.Service
	exporter *pdf.Exporter
	logs     io.Closer
}

// newApp loads configuration and wires storage, adapters and the orchestrator.
// quiet keeps logs off stdout for interactive commands.
func newApp(ctx context.Context, cfgPath string, quiet bool) (*app, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}

	logs := observability.Setup(observability.Options{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Quiet:      quiet,
	})
	log := observability.Logger()

	kv, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		logs.Close()
		return nil, fmt.Errorf("open storage: %w", err)
	}

	store := sessions.NewStore(kv)
	store.Load(ctx)

	var fetcher domain.WeatherFetcher = weather.NewClient(cfg.Weather.URL, cfg.Weather.ThreadID, cfg.Weather.Timeout)
	if cfg.Weather.CacheTTL > 0 {
		log.Info("weather cache enabled", "ttl", cfg.Weather.CacheTTL)
		fetcher = weather.NewCachedFetcher(fetcher, cfg.Weather.CacheTTL)
	}

	composer, err := llm.NewComposer(cfg.LLM)
	if err != nil {
		kv.Close()
		logs.Close()
		return nil, err
	}
	log.Info("composer ready", "backend", cfg.LLM.Backend, "model", cfg.LLM.Model)

	chat := conversation.NewService(store, fetcher, composer, conversation.Options{
		WeatherTimeout: cfg.Weather.Timeout,
		ComposeTimeout: cfg.LLM.Timeout,
	})

	return &app{
		cfg:      cfg,
		kv:       kv,
		store:    store,
		chat:     chat,
		exporter: pdf.NewExporter(time.Local),
		logs:     logs,
	}, nil
}

func (a *app) Close() {
	if err := a.kv.Close(); err != nil {
		observability.Logger().Error("close storage", "error", err)
	}
	a.logs.Close()
}
