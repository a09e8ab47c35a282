package models

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func sampleSnapshot() *Snapshot {
	return &Snapshot{
		Mode: ModeLab,
		Key:  "level-3",
		Config: GameConfig{
			BaseNumber:         "163850",
			TargetNumber:       "689381",
			MutationPool:       []string{"0", "2", "5", "8", "9", "6"},
			FlipMap:            FlipMap(),
			MaxAttempts:        18,
			AvailableMutations: []MutationKind{KindSwap, KindFlip, KindReplace, KindBump},
			LockedPositions:    []int{},
			Seed:               3000,
		},
		History: []HistoryEntry{
			{Mutation: Swap(0, 1), Before: "163850", After: "613850"},
			{Mutation: Bump(5, Decrement), Before: "613850", After: "613859"},
		},
		Current:           "613859",
		AttemptsRemaining: 16,
		Lab:               &LabProgress{Level: 3, TotalScore: 420},
	}
}

func TestSnapshotYAML(t *testing.T) {
	snap := sampleSnapshot()

	data, err := yaml.Marshal(snap)
	if err != nil {
		t.Fatalf("Failed to marshal snapshot: %v", err)
	}

	var snap2 Snapshot
	err = yaml.Unmarshal(data, &snap2)
	if err != nil {
		t.Fatalf("Failed to unmarshal snapshot: %v", err)
	}

	if snap2.Config.TargetNumber != snap.Config.TargetNumber {
		t.Errorf("Expected target %s, got %s", snap.Config.TargetNumber, snap2.Config.TargetNumber)
	}

	if len(snap2.History) != 2 {
		t.Errorf("Expected 2 history entries, got %d", len(snap2.History))
	}
	require.Equal(t, snap, &snap2)
}

func TestEncodeDecodeSnapshot(t *testing.T) {
	snap := sampleSnapshot()
	data, err := EncodeSnapshot(snap)
	require.NoError(t, err)

	got, err := DecodeSnapshot(data)
	require.NoError(t, err)
	require.Equal(t, snap, got)

	_, err = DecodeSnapshot([]byte("history: [unterminated"))
	require.ErrorContains(t, err, "decode snapshot")
}

func TestSaveLoadSnapshot(t *testing.T) {
	root := t.TempDir()
	snap := sampleSnapshot()
	require.NoError(t, snap.Save(root, "lab"))

	for _, f := range []string{"config.yaml", "state.yaml", "history.yaml"} {
		_, err := os.Stat(filepath.Join(root, "lab", f))
		require.NoError(t, err, f)
	}

	got, err := LoadSnapshot(root, "lab")
	require.NoError(t, err)
	require.Equal(t, snap, got)

	_, err = LoadSnapshot(root, "missing")
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestListSnapshots(t *testing.T) {
	root := filepath.Join(t.TempDir(), "saves")

	names, err := ListSnapshots(root)
	require.NoError(t, err)
	require.Empty(t, names)

	require.NoError(t, sampleSnapshot().Save(root, "daily"))
	require.NoError(t, sampleSnapshot().Save(root, "lab"))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "junk"), 0755))

	names, err = ListSnapshots(root)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"daily", "lab"}, names)
}

func TestIsNumber(t *testing.T) {
	require.True(t, IsNumber("012345"))
	require.False(t, IsNumber("01234"))
	require.False(t, IsNumber("01234a"))
	require.False(t, IsNumber("0123456"))
}

func TestMatchesAndConfigHelpers(t *testing.T) {
	require.Equal(t, 6, Matches("123456", "123456"))
	require.Equal(t, 2, Matches("123456", "129956"))
	require.Equal(t, 0, Matches("123456", "654321"))

	cfg := sampleSnapshot().Config
	require.True(t, cfg.Allows(KindBump))
	require.False(t, cfg.Allows(KindShift))
	require.True(t, cfg.InPool("9"))
	require.False(t, cfg.InPool("7"))
}
