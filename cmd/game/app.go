package main

import (
	"context"
	"fmt"
	"math/rand"

	"corsair/cmd/game/ui"
	"corsair/internal/audio"
	"corsair/internal/config"
	"corsair/internal/debug"
	"corsair/internal/game"
	"corsair/internal/game/content"
	"corsair/internal/i18n"
	"corsair/internal/observability"
	"corsair/internal/storage"
)

func createApp() (ui.Model, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return ui.Model{}, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	debugLogger := debug.NewLogger(cfg.Debug)

	ctx := context.Background()
	tracingConfig := observability.LoadConfigFromEnv()
	tracerProvider, err := observability.InitTracing(ctx, tracingConfig)
	if err != nil {
		debugLogger.Printf("Failed to initialize tracing: %v", err)
	} else if tracerProvider.IsEnabled() {
		debugLogger.Println("OpenTelemetry tracing initialized and enabled")
	} else {
		debugLogger.Println("OpenTelemetry tracing disabled (set OTEL_TRACES_ENABLED=true to enable)")
	}

	var story *game.Story
	if cfg.StoryPath != "" {
		debugLogger.Printf("Loading story from %s", cfg.StoryPath)
		story, err = content.LoadFile(cfg.StoryPath, debugLogger)
	} else {
		story, err = content.LoadBuiltin(debugLogger)
	}
	if err != nil {
		return ui.Model{}, nil, fmt.Errorf("failed to load story: %w", err)
	}
	debugLogger.Printf("Story loaded: %s (%d scenes, %d endings)", story.Title, len(story.Scenes), len(story.Endings))

	loc, err := i18n.New(cfg.Language, debugLogger)
	if err != nil {
		return ui.Model{}, nil, fmt.Errorf("failed to load localization: %w", err)
	}

	store, err := storage.Open(cfg.SaveDBPath)
	if err != nil {
		return ui.Model{}, nil, fmt.Errorf("failed to open save storage: %w", err)
	}

	sink := audio.NewLogSink(debugLogger)
	tracer := tracerProvider.GetTracer("corsair/engine")

	newEngine := func() *game.Engine {
		opts := []game.Option{
			game.WithAudio(sink),
			game.WithLogger(debugLogger),
			game.WithTracer(tracer),
		}
		if cfg.RandomSeed != 0 {
			opts = append(opts, game.WithRandSource(rand.NewSource(cfg.RandomSeed)))
		}
		return game.New(story, opts...)
	}

	model := ui.NewModel(ui.GameDeps{
		NewEngine:     newEngine,
		Store:         store,
		Loc:           loc,
		Debug:         debugLogger,
		MaxSaveSlots:  cfg.MaxSaveSlots,
		HallOfFameMax: cfg.HallOfFameMax,
	})

	cleanup := func() {
		store.Close()
		if tracerProvider != nil {
			tracerProvider.Shutdown(context.Background())
		}
	}

	return model, cleanup, nil
}
