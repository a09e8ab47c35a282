package models

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultSaveDir is where file-backed snapshots live unless configured.
const DefaultSaveDir = ".saves"

// sessionState is the mutable part of a snapshot, kept apart from the
// config and history files so a glance at state.yaml shows where play is.
type sessionState struct {
	Mode              Mode         `yaml:"mode"`
	Key               string       `yaml:"key"`
	Current           string       `yaml:"current"`
	AttemptsRemaining int          `yaml:"attempts_remaining"`
	Lab               *LabProgress `yaml:"lab,omitempty"`
}

type sessionHistory struct {
	Entries []HistoryEntry `yaml:"entries"`
}

// Save writes the snapshot under root/name as config.yaml, state.yaml
// and history.yaml.
func (s *Snapshot) Save(root, name string) error {
	dir := filepath.Join(root, name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	configData, err := yaml.Marshal(s.Config)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), configData, 0644); err != nil {
		return err
	}

	stateData, err := yaml.Marshal(sessionState{
		Mode:              s.Mode,
		Key:               s.Key,
		Current:           s.Current,
		AttemptsRemaining: s.AttemptsRemaining,
		Lab:               s.Lab,
	})
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, "state.yaml"), stateData, 0644); err != nil {
		return err
	}

	historyData, err := yaml.Marshal(sessionHistory{Entries: s.History})
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, "history.yaml"), historyData, 0644); err != nil {
		return err
	}

	return nil
}

// LoadSnapshot reads a snapshot written by Save.
func LoadSnapshot(root, name string) (*Snapshot, error) {
	dir := filepath.Join(root, name)

	configData, err := os.ReadFile(filepath.Join(dir, "config.yaml"))
	if err != nil {
		return nil, err
	}
	var config GameConfig
	if err := yaml.Unmarshal(configData, &config); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	stateData, err := os.ReadFile(filepath.Join(dir, "state.yaml"))
	if err != nil {
		return nil, err
	}
	var state sessionState
	if err := yaml.Unmarshal(stateData, &state); err != nil {
		return nil, fmt.Errorf("decode state: %w", err)
	}

	historyData, err := os.ReadFile(filepath.Join(dir, "history.yaml"))
	if err != nil {
		return nil, err
	}
	var history sessionHistory
	if err := yaml.Unmarshal(historyData, &history); err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}

	return &Snapshot{
		Mode:              state.Mode,
		Key:               state.Key,
		Config:            config,
		History:           history.Entries,
		Current:           state.Current,
		AttemptsRemaining: state.AttemptsRemaining,
		Lab:               state.Lab,
	}, nil
}

// ListSnapshots returns the names of saved snapshots.
func ListSnapshots(root string) ([]string, error) {
	if _, err := os.Stat(root); os.IsNotExist(err) {
		return []string{}, nil
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			// state.yaml marks a complete snapshot
			statePath := filepath.Join(root, entry.Name(), "state.yaml")
			if _, err := os.Stat(statePath); err == nil {
				names = append(names, entry.Name())
			}
		}
	}
	return names, nil
}

// EncodeSnapshot renders s as a single YAML document.
func EncodeSnapshot(s *Snapshot) ([]byte, error) {
	return yaml.Marshal(s)
}

// DecodeSnapshot parses a document produced by EncodeSnapshot.
func DecodeSnapshot(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &s, nil
}
