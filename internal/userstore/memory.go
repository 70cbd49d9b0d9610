package userstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/maheshdila/cv-gen-BE/internal/types"
)

// MemoryStore is a process-local Store for development and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	latest  map[string]Record
	history map[string][]Record
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		latest:  make(map[string]Record),
		history: make(map[string][]Record),
	}
}

func (s *MemoryStore) Put(_ context.Context, rec *Record) error {
	email, err := ValidateEmail(rec.Email)
	if err != nil {
		return err
	}
	stored := *rec
	stored.Email = email

	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest[email] = stored
	s.history[email] = append(s.history[email], stored)
	return nil
}

func (s *MemoryStore) Get(_ context.Context, email string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.latest[NormalizeEmail(email)]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (s *MemoryStore) Update(_ context.Context, email string, raw types.GenerateRequest, now time.Time) (*Record, error) {
	normalized, err := ValidateEmail(email)
	if err != nil {
		return nil, err
	}
	now = now.UTC()

	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.latest[normalized]
	if !ok {
		rec = Record{Email: normalized, CreatedAt: now}
	}
	rec.RawInput = raw
	rec.UpdatedAt = now
	s.latest[normalized] = rec
	return &rec, nil
}

func (s *MemoryStore) History(_ context.Context, email string, limit int) ([]Record, error) {
	s.mu.RLock()
	saved := s.history[NormalizeEmail(email)]
	records := make([]Record, 0, len(saved))
	for i := len(saved) - 1; i >= 0; i-- {
		records = append(records, saved[i])
	}
	s.mu.RUnlock()

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	if n := historyLimit(limit); len(records) > n {
		records = records[:n]
	}
	return records, nil
}

func (s *MemoryStore) Close() error {
	return nil
}
