package certification

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/wonny/quotecert/internal/contracts"
)

// MemoryStore keeps records in process memory (tests, CERT_STORE=memory)
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]contracts.CertificationRecord
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]contracts.CertificationRecord)}
}

var _ contracts.CertificationRepository = (*MemoryStore)(nil)

// Save stores a record; records are immutable so an existing id is rejected
func (s *MemoryStore) Save(_ context.Context, rec *contracts.CertificationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[rec.ID]; ok {
		return fmt.Errorf("certification %s already exists", rec.ID)
	}
	s.records[rec.ID] = *rec
	return nil
}

// Get returns a copy of the record
func (s *MemoryStore) Get(_ context.Context, id string) (*contracts.CertificationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return nil, fmt.Errorf("certification %s: %w", id, contracts.ErrNotFound)
	}
	return &rec, nil
}

// ListExpiring returns records with from <= ExpiresAt < to, soonest first
func (s *MemoryStore) ListExpiring(_ context.Context, from, to time.Time) ([]contracts.CertificationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]contracts.CertificationRecord, 0)
	for _, rec := range s.records {
		if !rec.ExpiresAt.Before(from) && rec.ExpiresAt.Before(to) {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ExpiresAt.Before(out[j].ExpiresAt)
	})
	return out, nil
}
