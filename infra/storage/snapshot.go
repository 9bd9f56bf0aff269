package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/AIckathon-2025-08/blackout-tracker-mcp/core/model"
)

// snapshotFile is the on-disk shape of a snapshot. The timestamp travels as
// a string because older cache files carry zone-less ISO timestamps that
// time.Time refuses to decode.
type snapshotFile struct {
	Actual       []model.OutageSlot `json:"actual_schedules"`
	PossibleWeek []model.OutageSlot `json:"possible_schedules"`
	LastUpdated  string             `json:"last_updated"`
}

// SnapshotStore keeps the most recent schedule snapshot in a JSON file.
type SnapshotStore struct {
	path string
}

// NewSnapshotStore returns a store backed by the file at path.
func NewSnapshotStore(path string) *SnapshotStore {
	return &SnapshotStore{path: path}
}

// Load reads the stored snapshot. A missing file yields nil without error,
// meaning nothing has been cached yet.
func (s *SnapshotStore) Load() (*model.ScheduleSnapshot, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot %s: %w", s.path, err)
	}
	var raw snapshotFile
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", s.path, err)
	}
	fetchedAt, err := parseFetchedAt(raw.LastUpdated)
	if err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", s.path, err)
	}
	return &model.ScheduleSnapshot{
		Actual:       raw.Actual,
		PossibleWeek: raw.PossibleWeek,
		FetchedAt:    fetchedAt,
	}, nil
}

// Save writes the snapshot, creating the parent directory when needed.
// Slices are normalized to empty so the file never contains JSON null where
// a list belongs.
func (s *SnapshotStore) Save(snap model.ScheduleSnapshot) error {
	raw := snapshotFile{
		Actual:       snap.Actual,
		PossibleWeek: snap.PossibleWeek,
		LastUpdated:  snap.FetchedAt.Format(time.RFC3339Nano),
	}
	if raw.Actual == nil {
		raw.Actual = []model.OutageSlot{}
	}
	if raw.PossibleWeek == nil {
		raw.PossibleWeek = []model.OutageSlot{}
	}
	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot %s: %w", s.path, err)
	}
	return nil
}

// parseFetchedAt accepts RFC 3339 timestamps as well as the zone-less ISO
// form produced by earlier versions of the cache writer. Zone-less values
// are taken as local time. An empty value maps to the zero time, which the
// freshness check treats as expired.
func parseFetchedAt(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04:05.999999", s, time.Local); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unrecognized last_updated %q", s)
}
