package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"

	"github.com/lyra-music/lyra/internal/catalog"
	"github.com/lyra-music/lyra/internal/config"
	"github.com/lyra-music/lyra/internal/downloads"
	"github.com/lyra-music/lyra/internal/engine"
	"github.com/lyra-music/lyra/internal/playback"
	"github.com/lyra-music/lyra/internal/queue"
	"github.com/lyra-music/lyra/internal/state"
)

// Application bundles the wired services behind the CLI commands.
type Application struct {
	cfg       *config.Config
	log       *slog.Logger
	state     *state.Manager
	catalog   *catalog.Client
	downloads *downloads.Manager
	engine    engine.Interface
	player    playback.Service
}

func newApplication(cfg *config.Config, log *slog.Logger) (*Application, error) {
	st, err := state.Open(log)
	if err != nil {
		return nil, fmt.Errorf("open state db: %w", err)
	}

	httpClient := &http.Client{Timeout: 30 * time.Second}
	client := catalog.NewClient(cfg.Catalog.BaseURL, cfg.Catalog.Quality, httpClient)

	downloadDir := cfg.DownloadFolder
	if downloadDir == "" {
		downloadDir = filepath.Join(xdg.DataHome, "lyra", "downloads")
	}
	dl, err := downloads.NewManager(log, downloadDir, httpClient, st)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("init downloads: %w", err)
	}

	eng := engine.NewBeep()
	player := playback.New(log, eng, queue.New(), dl, st)
	player.Restore()

	return &Application{
		cfg:       cfg,
		log:       log,
		state:     st,
		catalog:   client,
		downloads: dl,
		engine:    eng,
		player:    player,
	}, nil
}

func (app *Application) Close() {
	if err := app.player.Close(); err != nil {
		app.log.Warn("failed to close player", "error", err)
	}
	if err := app.engine.Close(); err != nil {
		app.log.Warn("failed to close audio engine", "error", err)
	}
	if err := app.state.Close(); err != nil {
		app.log.Warn("failed to close state db", "error", err)
	}
}
