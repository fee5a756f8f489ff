package testutil

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/yungbote/workstation-backend/internal/domain/aggregates"
	"github.com/yungbote/workstation-backend/internal/domain/contracts"
)

// MemoryStore is an in-process contracts.Store for orchestrator tests.
// It keeps the same guarantees as the SQL store: per-contract versions and
// at most one active contract per office.
type MemoryStore struct {
	mu       sync.Mutex
	rows     map[uuid.UUID]contracts.Snapshot
	versions map[uuid.UUID]int
	seq      map[uuid.UUID]int
	next     int

	FailCommit error
	Commits    int
}

var _ contracts.Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		rows:     map[uuid.UUID]contracts.Snapshot{},
		versions: map[uuid.UUID]int{},
		seq:      map[uuid.UUID]int{},
	}
}

// Seed stores c directly, bypassing sessions.
func (s *MemoryStore) Seed(c *contracts.Contract) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.put(c.Snapshot())
}

func (s *MemoryStore) put(snap contracts.Snapshot) {
	if _, ok := s.seq[snap.ID]; !ok {
		s.next++
		s.seq[snap.ID] = s.next
	}
	s.rows[snap.ID] = snap
	s.versions[snap.ID]++
}

func (s *MemoryStore) GetByID(_ context.Context, id uuid.UUID) (*contracts.Contract, error) {
	c, _, err := s.load(id)
	return c, err
}

func (s *MemoryStore) load(id uuid.UUID) (*contracts.Contract, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.rows[id]
	if !ok {
		return nil, 0, aggregates.NewError(aggregates.CodeNotFound, "MemoryStore.GetByID", "contract not found: "+id.String(), nil)
	}
	return contracts.Rehydrate(snap), s.versions[id], nil
}

func (s *MemoryStore) GetActiveByOffice(_ context.Context, officeID uuid.UUID) (*contracts.Contract, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, snap := range s.rows {
		if snap.OfficeID == officeID && snap.Status == contracts.StatusActive {
			return contracts.Rehydrate(snap), nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) GetByParticipant(_ context.Context, userID uuid.UUID) ([]*contracts.Contract, error) {
	return s.filter(func(snap contracts.Snapshot) bool {
		return snap.OwnerID == userID || snap.RenterID == userID
	}), nil
}

func (s *MemoryStore) ListActive(_ context.Context) ([]*contracts.Contract, error) {
	return s.filter(func(snap contracts.Snapshot) bool {
		return snap.Status == contracts.StatusActive
	}), nil
}

// filter returns matches newest-first by insertion order.
func (s *MemoryStore) filter(keep func(contracts.Snapshot) bool) []*contracts.Contract {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []uuid.UUID
	for id, snap := range s.rows {
		if keep(snap) {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return s.seq[ids[i]] > s.seq[ids[j]] })
	out := make([]*contracts.Contract, 0, len(ids))
	for _, id := range ids {
		out = append(out, contracts.Rehydrate(s.rows[id]))
	}
	return out
}

func (s *MemoryStore) Begin(_ context.Context) (contracts.Repository, error) {
	return &memorySession{store: s, loaded: map[uuid.UUID]int{}, tracked: map[uuid.UUID]*contracts.Contract{}}, nil
}

type memorySession struct {
	store    *MemoryStore
	inserted []*contracts.Contract
	loaded   map[uuid.UUID]int
	tracked  map[uuid.UUID]*contracts.Contract
	done     bool
}

func (m *memorySession) GetByID(_ context.Context, id uuid.UUID) (*contracts.Contract, error) {
	if c, ok := m.tracked[id]; ok {
		return c, nil
	}
	c, version, err := m.store.load(id)
	if err != nil {
		return nil, err
	}
	m.tracked[id] = c
	m.loaded[id] = version
	return c, nil
}

func (m *memorySession) GetActiveByOffice(ctx context.Context, officeID uuid.UUID) (*contracts.Contract, error) {
	return m.store.GetActiveByOffice(ctx, officeID)
}

func (m *memorySession) GetByParticipant(ctx context.Context, userID uuid.UUID) ([]*contracts.Contract, error) {
	return m.store.GetByParticipant(ctx, userID)
}

func (m *memorySession) ListActive(ctx context.Context) ([]*contracts.Contract, error) {
	return m.store.ListActive(ctx)
}

func (m *memorySession) Insert(_ context.Context, c *contracts.Contract) error {
	m.inserted = append(m.inserted, c)
	return nil
}

func (m *memorySession) Commit(_ context.Context) error {
	const op = "MemoryStore.Commit"
	if m.done {
		return aggregates.NewError(aggregates.CodeInternal, op, "session already committed", nil)
	}
	s := m.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailCommit != nil {
		return s.FailCommit
	}

	var writes []contracts.Snapshot
	for _, c := range m.inserted {
		if _, exists := s.rows[c.ID()]; exists {
			return aggregates.NewError(aggregates.CodeConflict, op, "contract already exists", nil)
		}
		writes = append(writes, c.Snapshot())
	}
	for id, c := range m.tracked {
		if s.versions[id] != m.loaded[id] {
			return aggregates.NewError(aggregates.CodeConflict, op, "contract changed concurrently", nil)
		}
		writes = append(writes, c.Snapshot())
	}
	for _, w := range writes {
		if w.Status != contracts.StatusActive {
			continue
		}
		for id, other := range s.rows {
			if id != w.ID && other.OfficeID == w.OfficeID && other.Status == contracts.StatusActive {
				return aggregates.NewError(aggregates.CodeConflict, op, "office already has an active contract", nil)
			}
		}
	}
	for _, w := range writes {
		s.put(w)
	}
	s.Commits++
	m.done = true
	return nil
}
