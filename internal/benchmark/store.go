package benchmark

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Store defines the interface for storing benchmark runs.
type Store interface {
	Save(run Run) error
	LoadLatest(suite string) (*Run, error)
	LoadAll(suite string) ([]Run, error)
	Close() error
}

// FileStore implements Store using a JSON file.
type FileStore struct {
	path string
}

func NewFileStore(path string) (*FileStore, error) {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return &FileStore{path: path}, nil
}

func (s *FileStore) Save(run Run) error {
	runs, err := s.readAll()
	if err != nil {
		return err
	}

	runs = append(runs, run)

	data, err := json.MarshalIndent(runs, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal runs: %w", err)
	}

	return os.WriteFile(s.path, data, 0644)
}

// LoadAll returns the runs of suite, oldest first. An empty suite matches all.
func (s *FileStore) LoadAll(suite string) ([]Run, error) {
	runs, err := s.readAll()
	if err != nil {
		return nil, err
	}

	filtered := runs[:0]
	for _, r := range runs {
		if suite == "" || r.Suite == suite {
			filtered = append(filtered, r)
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Timestamp.Before(filtered[j].Timestamp)
	})

	return filtered, nil
}

func (s *FileStore) LoadLatest(suite string) (*Run, error) {
	runs, err := s.LoadAll(suite)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, nil
	}
	return &runs[len(runs)-1], nil
}

func (s *FileStore) Close() error {
	return nil
}

func (s *FileStore) readAll() ([]Run, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []Run{}, nil
		}
		return nil, err
	}

	if len(data) == 0 {
		return []Run{}, nil
	}

	var runs []Run
	if err := json.Unmarshal(data, &runs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal runs: %w", err)
	}
	return runs, nil
}
