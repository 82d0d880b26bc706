package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/at-ishikawa/studyplanner/internal/config"
	"github.com/at-ishikawa/studyplanner/internal/storage"
	"github.com/at-ishikawa/studyplanner/internal/tracker"
)

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create config loader: %w", err)
	}
	return loader.Load()
}

// environment holds what a command needs to act for the current user.
type environment struct {
	cfg     *config.Config
	repos   tracker.Repositories
	service *tracker.Service
	userID  string
	closer  io.Closer
}

func openEnvironment() (*environment, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	repos, closer, err := storage.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("storage.Open() > %w", err)
	}
	service, err := storage.NewService(cfg, repos)
	if err != nil {
		_ = closer.Close()
		return nil, fmt.Errorf("storage.NewService() > %w", err)
	}

	userID := cfg.User.ID
	if userFlag != "" {
		userID = userFlag
	}
	return &environment{
		cfg:     cfg,
		repos:   repos,
		service: service,
		userID:  userID,
		closer:  closer,
	}, nil
}

func (env *environment) close() {
	if err := env.closer.Close(); err != nil {
		slog.Default().Warn("failed to close storage", "error", err)
	}
}
