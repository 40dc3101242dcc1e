package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"household-organizer/internal/shopping"
)

// ErrNoSnapshot is returned by Latest when nothing has been exported yet.
var ErrNoSnapshot = errors.New("no grocery list snapshot")

const (
	snapshotPrefix = "groceries_"
	snapshotLayout = "20060102T150405.000000000Z"
)

// ListStore provides file-based storage for exported grocery lists. Each
// export is a separate JSON file named after the time it was taken.
type ListStore struct {
	basePath string
}

// Snapshot is a grocery list as it was exported.
type Snapshot struct {
	TakenAt time.Time            `json:"taken_at"`
	List    shopping.GroceryList `json:"list"`
}

// NewListStore creates a new ListStore and ensures the base directory exists.
func NewListStore(basePath string) (*ListStore, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	return &ListStore{basePath: basePath}, nil
}

// getSnapshotPath returns the full path of the snapshot taken at t.
func (s *ListStore) getSnapshotPath(t time.Time) string {
	return filepath.Join(s.basePath, snapshotPrefix+t.UTC().Format(snapshotLayout)+".json")
}

// Save writes list as a new snapshot and returns the file path.
func (s *ListStore) Save(list shopping.GroceryList, takenAt time.Time) (string, error) {
	data, err := json.MarshalIndent(Snapshot{TakenAt: takenAt.UTC(), List: list}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal grocery list: %w", err)
	}

	filePath := s.getSnapshotPath(takenAt)
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write grocery list file: %w", err)
	}
	return filePath, nil
}

// Load reads a snapshot file.
func (s *ListStore) Load(filePath string) (*Snapshot, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read grocery list file: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal grocery list: %w", err)
	}
	return &snap, nil
}

// Latest loads the most recent snapshot.
func (s *ListStore) Latest() (*Snapshot, error) {
	paths, err := s.list()
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, ErrNoSnapshot
	}
	return s.Load(paths[len(paths)-1])
}

// RemoveStaleSnapshots keeps the newest keep snapshots and removes the rest.
func (s *ListStore) RemoveStaleSnapshots(keep int) (int, error) {
	paths, err := s.list()
	if err != nil {
		return 0, err
	}
	if keep < 0 {
		keep = 0
	}
	if len(paths) <= keep {
		return 0, nil
	}

	stale := paths[:len(paths)-keep]
	for _, p := range stale {
		if err := os.Remove(p); err != nil {
			return 0, fmt.Errorf("failed to remove stale file %s: %w", p, err)
		}
	}
	return len(stale), nil
}

// list returns snapshot paths oldest first. The timestamp layout sorts lexically.
func (s *ListStore) list() ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(s.basePath, snapshotPrefix+"*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to glob snapshot files: %w", err)
	}
	sort.Slice(matches, func(i, j int) bool {
		return strings.Compare(filepath.Base(matches[i]), filepath.Base(matches[j])) < 0
	})
	return matches, nil
}
