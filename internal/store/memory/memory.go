// Package memory is an in-process store.Store used for tests and ephemeral runs.
package memory

import (
	"context"
	"fmt"
	"sync"

	"impuls/internal/impulse"
	"impuls/internal/store"
)

var _ store.Store = (*Store)(nil)

type Store struct {
	mu      sync.Mutex
	records map[string][]impulse.Record
}

func New() *Store {
	return &Store{records: make(map[string][]impulse.Record)}
}

// Seed appends records as-is, without enrichment. Used to reproduce data
// written by older versions.
func (s *Store) Seed(namespace string, records ...impulse.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[namespace] = append(s.records[namespace], records...)
}

func (s *Store) LoadAll(ctx context.Context, namespace string) ([]impulse.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]impulse.Record, len(s.records[namespace]))
	copy(out, s.records[namespace])
	return out, nil
}

func (s *Store) Append(ctx context.Context, namespace string, imp impulse.Enriched) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.records[namespace] {
		if r.ID == imp.ID {
			return fmt.Errorf("appending %s: %w", imp.ID, store.ErrDuplicateID)
		}
	}
	s.records[namespace] = append(s.records[namespace], imp.Record())
	return nil
}

func (s *Store) Close(ctx context.Context) error {
	return nil
}
