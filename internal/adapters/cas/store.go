// Package cas implements the run history store.
package cas

import (
	"cmp"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"go.trai.ch/xtc/internal/core/domain"
	"go.trai.ch/xtc/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.HistoryStore = (*Store)(nil)

// MaxRecords bounds the history file; the oldest runs are dropped first.
const MaxRecords = 500

// Store implements ports.HistoryStore using a flat JSON file.
// The file is read on first use.
type Store struct {
	path  string
	mu    sync.RWMutex
	once  sync.Once
	err   error
	cache map[string]domain.RunRecord
}

// NewStore creates a new HistoryStore backed by the file at the given path.
func NewStore(path string) *Store {
	return &Store{
		path:  filepath.Clean(path),
		cache: make(map[string]domain.RunRecord),
	}
}

// DefaultPath is $XTC_HISTORY_FILE, else history.json under $XDG_STATE_HOME/xtc
// or ~/.local/state/xtc.
func DefaultPath() string {
	if p := os.Getenv("XTC_HISTORY_FILE"); p != "" {
		return p
	}
	if state := os.Getenv("XDG_STATE_HOME"); state != "" {
		return filepath.Join(state, "xtc", "history.json")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "xtc", "history.json")
	}
	return filepath.Join(home, ".local", "state", "xtc", "history.json")
}

func (s *Store) ensureLoaded() error {
	s.once.Do(func() {
		s.err = s.load()
	})
	return s.err
}

func (s *Store) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	//nolint:gosec // Path is cleaned and provided by trusted caller
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return zerr.With(zerr.Wrap(err, "failed to read run history"), "path", s.path)
	}

	if len(data) == 0 {
		return nil
	}

	var records []domain.RunRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to unmarshal run history"), "path", s.path)
	}
	for _, r := range records {
		r.Status = domain.NormalizeRunStatus(string(r.Status))
		s.cache[r.ID] = r
	}
	return nil
}

// save writes the history. The caller holds the write lock.
func (s *Store) save() error {
	records := s.sorted()
	if len(records) > MaxRecords {
		for _, r := range records[MaxRecords:] {
			delete(s.cache, r.ID)
		}
		records = records[:MaxRecords]
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return zerr.Wrap(err, "failed to marshal run history")
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create directory for run history"), "path", dir)
	}

	tmp := s.path + ".tmp"
	//nolint:gosec // Path is cleaned and provided by trusted caller
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write run history"), "path", tmp)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to replace run history"), "path", s.path)
	}
	return nil
}

// sorted returns the cached records, most recent first.
func (s *Store) sorted() []domain.RunRecord {
	records := make([]domain.RunRecord, 0, len(s.cache))
	for _, r := range s.cache {
		records = append(records, r)
	}
	slices.SortFunc(records, func(a, b domain.RunRecord) int {
		if c := b.Started.Compare(a.Started); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return records
}

// Get retrieves the record with the given id.
func (s *Store) Get(id string) (*domain.RunRecord, error) {
	if err := s.ensureLoaded(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.cache[id]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

// List returns up to limit records, most recent first.
func (s *Store) List(limit int) ([]domain.RunRecord, error) {
	if err := s.ensureLoaded(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := s.sorted()
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

// Put stores the record, replacing any record with the same ID.
func (s *Store) Put(record domain.RunRecord) error {
	if record.ID == "" {
		return zerr.New("run record has no id")
	}
	if err := s.ensureLoaded(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache[record.ID] = record
	return s.save()
}
