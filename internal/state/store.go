package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bilgisen/skypost/internal/models"
)

// Store persists the bot state document. The file is read once at the start
// of a run and rewritten wholesale after a confirmed publish; cross-run
// mutual exclusion is the scheduler's job, not ours.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads the state document. A missing file initializes an empty state
// and persists it immediately so first runs and later runs share the same
// file.
func (s *Store) Load() (models.BotState, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		empty := models.BotState{}
		if err := s.Save(empty); err != nil {
			return models.BotState{}, fmt.Errorf("failed to initialize state file: %w", err)
		}
		return empty, nil
	}
	if err != nil {
		return models.BotState{}, fmt.Errorf("failed to read state file %s: %w", s.path, err)
	}

	var st models.BotState
	if err := json.Unmarshal(data, &st); err != nil {
		return models.BotState{}, fmt.Errorf("failed to parse state file %s: %w", s.path, err)
	}
	return st, nil
}

// Save writes the document atomically: marshal to a temp file in the same
// directory, then rename over the target. A crash mid-write never leaves a
// corrupt state file behind.
func (s *Store) Save(st models.BotState) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".state-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp state file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write temp state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp state file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace state file: %w", err)
	}
	return nil
}
