// Package snapshot persists observation tables as paired CSV and JSON files:
// a timestamped archive per run plus an overwritten "latest" pointer pair.
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"connstat/internal/models"
)

// Snapshot errors.
var (
	ErrSnapshotMissing = errors.New("snapshot not found")
	ErrNoRows          = errors.New("no rows to persist")
)

// Stamp layout for archive file names.
const stampLayout = "20060102_150405"

// Paths lists the files one Write produced.
type Paths struct {
	ArchiveCSV  string
	ArchiveJSON string
	LatestCSV   string
	LatestJSON  string
}

// Store reads and writes snapshot pairs inside a single directory.
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir. The directory is created on the
// first write.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Write persists rows as {archiveBase}_{timestamp}.{csv,json} and overwrites
// {latestBase}_latest.{csv,json}. Archives are never touched again once
// written; only the latest pair is replaced on the next run.
func (s *Store) Write(archiveBase, latestBase string, rows []models.Observation, stamp time.Time) (Paths, error) {
	if len(rows) == 0 {
		return Paths{}, ErrNoRows
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return Paths{}, fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	paths := Paths{
		ArchiveCSV:  filepath.Join(s.dir, fmt.Sprintf("%s_%s.csv", archiveBase, stamp.Format(stampLayout))),
		ArchiveJSON: filepath.Join(s.dir, fmt.Sprintf("%s_%s.json", archiveBase, stamp.Format(stampLayout))),
		LatestCSV:   filepath.Join(s.dir, latestBase+"_latest.csv"),
		LatestJSON:  filepath.Join(s.dir, latestBase+"_latest.json"),
	}

	for _, path := range []string{paths.ArchiveCSV, paths.LatestCSV} {
		if err := writeCSVFile(path, rows); err != nil {
			return Paths{}, err
		}
	}

	for _, path := range []string{paths.ArchiveJSON, paths.LatestJSON} {
		if err := writeJSONFile(path, rows); err != nil {
			return Paths{}, err
		}
	}

	return paths, nil
}

// LoadLatest reads {latestBase}_latest.csv. A missing file yields
// ErrSnapshotMissing so the caller can exit without writing output.
func (s *Store) LoadLatest(latestBase string) ([]models.Observation, error) {
	path := filepath.Join(s.dir, latestBase+"_latest.csv")

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrSnapshotMissing, path)
		}

		return nil, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer f.Close()

	rows, err := decodeCSV(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot %s: %w", path, err)
	}

	return rows, nil
}

func writeCSVFile(path string, rows []models.Observation) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if err := encodeCSV(f, rows); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return nil
}

func writeJSONFile(path string, rows []models.Observation) error {
	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal rows: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return nil
}
