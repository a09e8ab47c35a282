package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/n4ze3m/num-shift/internal/models"
)

const completionsFile = "completions.yaml"

type completion struct {
	Day         string    `yaml:"day"`
	CompletedAt time.Time `yaml:"completed_at"`
}

type completionLog struct {
	Days []completion `yaml:"days"`
}

// FileStore keeps snapshots as YAML directories under Root, one per mode,
// plus a completions.yaml listing won days.
type FileStore struct {
	Root string
}

// NewFileStore returns a store rooted at root, or models.DefaultSaveDir
// when root is blank.
func NewFileStore(root string) *FileStore {
	if strings.TrimSpace(root) == "" {
		root = models.DefaultSaveDir
	}
	return &FileStore{Root: root}
}

func (s *FileStore) SaveSnapshot(ctx context.Context, snap *models.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if snap == nil || snap.Mode == "" {
		return fmt.Errorf("snapshot mode is required")
	}
	if err := snap.Save(s.Root, string(snap.Mode)); err != nil {
		return fmt.Errorf("save %s snapshot: %w", snap.Mode, err)
	}
	return nil
}

func (s *FileStore) LoadSnapshot(ctx context.Context, mode models.Mode) (*models.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	snap, err := models.LoadSnapshot(s.Root, string(mode))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load %s snapshot: %w", mode, err)
	}
	return snap, nil
}

func (s *FileStore) MarkDailyCompleted(ctx context.Context, day string, at time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(day) == "" {
		return fmt.Errorf("day is required")
	}
	log, err := s.readCompletions()
	if err != nil {
		return err
	}
	if slices.ContainsFunc(log.Days, func(c completion) bool { return c.Day == day }) {
		return nil
	}
	log.Days = append(log.Days, completion{Day: day, CompletedAt: at.UTC()})

	data, err := yaml.Marshal(log)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.Root, 0755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.Root, completionsFile), data, 0644)
}

func (s *FileStore) DailyCompleted(ctx context.Context, day string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	log, err := s.readCompletions()
	if err != nil {
		return false, err
	}
	return slices.ContainsFunc(log.Days, func(c completion) bool { return c.Day == day }), nil
}

func (s *FileStore) LabUnlocked(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	log, err := s.readCompletions()
	if err != nil {
		return false, err
	}
	return len(log.Days) > 0, nil
}

func (s *FileStore) Close() error {
	return nil
}

func (s *FileStore) readCompletions() (completionLog, error) {
	var log completionLog
	data, err := os.ReadFile(filepath.Join(s.Root, completionsFile))
	if errors.Is(err, fs.ErrNotExist) {
		return log, nil
	}
	if err != nil {
		return log, err
	}
	if err := yaml.Unmarshal(data, &log); err != nil {
		return log, fmt.Errorf("decode completions: %w", err)
	}
	return log, nil
}

var _ Store = (*FileStore)(nil)
