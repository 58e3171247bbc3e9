// Package app wires the vault, settings, journal and logger into a pipeline
// for the command-line and web entry points.
package app

import (
	"fmt"
	"path/filepath"

	"github.com/tmfelwu/obsidian-file-rename/internal/config"
	"github.com/tmfelwu/obsidian-file-rename/internal/log"
	"github.com/tmfelwu/obsidian-file-rename/internal/pipeline"
	"github.com/tmfelwu/obsidian-file-rename/internal/state"
	"github.com/tmfelwu/obsidian-file-rename/internal/vault"
)

const historyFile = "history.json"

type App struct {
	Config   *config.Config
	Settings *config.SettingsStore
	Vault    *vault.Vault
	Journal  *state.Journal
	Logger   *log.Logger
	Pipeline *pipeline.Pipeline
}

// Open validates cfg and builds every collaborator. The rename block of cfg
// overrides the persisted settings for this process only.
func Open(cfg *config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	store, err := config.NewSettingsStore(cfg.DataDir)
	if err != nil {
		return nil, err
	}
	settings := store.WithOverrides(cfg.Rename)
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	v, err := vault.NewOS(cfg.Vault)
	if err != nil {
		return nil, err
	}

	journal, err := state.Load(filepath.Join(cfg.DataDir, historyFile))
	if err != nil {
		return nil, fmt.Errorf("failed to load rename history: %w", err)
	}

	logger, err := log.New(cfg.LogFile, cfg.LogJSON, !cfg.LogJSON)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return &App{
		Config:   cfg,
		Settings: store,
		Vault:    v,
		Journal:  journal,
		Logger:   logger,
		Pipeline: pipeline.New(v, settings, journal, logger),
	}, nil
}

func (a *App) Close() error {
	return a.Logger.Close()
}
