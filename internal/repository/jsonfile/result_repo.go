// Package jsonfile keeps the cumulative results store as a single JSON
// object mapping filename to record.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"docintel/internal/domain"
	"docintel/internal/port"
)

type resultRepo struct {
	mu      sync.RWMutex
	path    string
	records map[string]domain.Record
}

// NewResultRepo opens the results file at path, creating it on first Save.
func NewResultRepo(path string) (port.ResultRepository, error) {
	r := &resultRepo{path: path, records: map[string]domain.Record{}}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return r, nil
	case err != nil:
		return nil, fmt.Errorf("reading results file %s: %w", path, err)
	}

	if len(data) > 0 {
		if err := json.Unmarshal(data, &r.records); err != nil {
			return nil, fmt.Errorf("decoding results file %s: %w", path, err)
		}
	}
	return r, nil
}

// Save replaces any record with the same filename and rewrites the file.
func (r *resultRepo) Save(_ context.Context, rec *domain.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	prev, existed := r.records[rec.Filename]
	r.records[rec.Filename] = *rec
	if err := r.flush(); err != nil {
		if existed {
			r.records[rec.Filename] = prev
		} else {
			delete(r.records, rec.Filename)
		}
		return fmt.Errorf("resultRepo.Save: %w", err)
	}
	return nil
}

func (r *resultRepo) GetByFilename(_ context.Context, filename string) (*domain.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[filename]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &rec, nil
}

// List returns all records ordered by filename.
func (r *resultRepo) List(_ context.Context) ([]domain.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Record, 0, len(r.records))
	for _, rec := range r.records {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Filename < out[j].Filename })
	return out, nil
}

// Ping checks that the results directory is reachable.
func (r *resultRepo) Ping(_ context.Context) error {
	dir := filepath.Dir(r.path)
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("results directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("results directory %s is not a directory", dir)
	}
	return nil
}

// flush writes the whole store through a temp file and rename. Caller holds mu.
func (r *resultRepo) flush() error {
	data, err := json.MarshalIndent(r.records, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(r.path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, r.path)
}
