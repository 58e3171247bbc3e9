package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const settingsFile = "settings.json"

// SettingsStore owns the persisted rename settings. Every update is written
// to disk before it becomes visible to readers.
type SettingsStore struct {
	mu      sync.RWMutex
	dataDir string
	current Settings
}

// NewSettingsStore creates dataDir if needed and loads the persisted
// settings merged over the defaults.
func NewSettingsStore(dataDir string) (*SettingsStore, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	s := &SettingsStore{dataDir: dataDir}
	partial, err := s.load()
	if err != nil {
		return nil, err
	}
	s.current = Merge(DefaultSettings(), partial.Sanitize())
	return s, nil
}

func (s *SettingsStore) Path() string {
	return filepath.Join(s.dataDir, settingsFile)
}

// Snapshot returns a copy of the current settings.
func (s *SettingsStore) Snapshot() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Update applies patch, validates the result and persists it.
func (s *SettingsStore) Update(patch Partial) (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := Merge(s.current, patch.Sanitize())
	if err := next.Validate(); err != nil {
		return s.current, err
	}
	if err := s.save(next); err != nil {
		return s.current, err
	}
	s.current = next
	return next, nil
}

func (s *SettingsStore) load() (Partial, error) {
	var partial Partial

	data, err := os.ReadFile(s.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return partial, nil
		}
		return partial, fmt.Errorf("failed to read settings file: %w", err)
	}

	if err := json.Unmarshal(data, &partial); err != nil {
		return partial, fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	return partial, nil
}

func (s *SettingsStore) save(settings Settings) error {
	filename := s.Path()
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	// Atomic write: write to temp file then rename
	tmpFile := filename + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}
	if err := os.Rename(tmpFile, filename); err != nil {
		os.Remove(tmpFile)
		return fmt.Errorf("failed to rename settings file: %w", err)
	}

	return nil
}

// Overrides layers per-invocation values over a store without persisting them.
type Overrides struct {
	store *SettingsStore
	patch Partial
}

// WithOverrides returns a settings source that applies patch on top of every
// snapshot of s.
func (s *SettingsStore) WithOverrides(patch Partial) *Overrides {
	return &Overrides{store: s, patch: patch.Sanitize()}
}

func (o *Overrides) Snapshot() Settings {
	return Merge(o.store.Snapshot(), o.patch)
}

// Validate checks the combined settings.
func (o *Overrides) Validate() error {
	return o.Snapshot().Validate()
}
