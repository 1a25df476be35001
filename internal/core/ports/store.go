package ports

import "go.trai.ch/xtc/internal/core/domain"

// HistoryStore persists the outcome of toolchain runs.
//
//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type HistoryStore interface {
	// Put inserts or replaces the record with the same ID.
	Put(record domain.RunRecord) error
	// Get returns nil, nil when no record has the given ID.
	Get(id string) (*domain.RunRecord, error)
	// List returns the most recent records first; limit <= 0 returns all.
	List(limit int) ([]domain.RunRecord, error)
}
