package pendingroll

import (
	"context"
	"sync"
	"time"

	"github.com/KirkDiggler/dungeon-master/internal/errors"
	"github.com/KirkDiggler/dungeon-master/internal/pkg/clock"
)

// MemoryConfig holds the configuration for the in-process repository
type MemoryConfig struct {
	Clock clock.Clock
}

type memoryRepository struct {
	mu       sync.Mutex
	clock    clock.Clock
	sets     map[string]PendingRollSet
	requests map[string]time.Time
}

// NewMemoryRepository creates a process-local repository for deployments
// without Redis. State is lost on restart and not shared between replicas.
func NewMemoryRepository(cfg *MemoryConfig) Repository {
	c := clock.New()
	if cfg != nil && cfg.Clock != nil {
		c = cfg.Clock
	}
	return &memoryRepository{
		clock:    c,
		sets:     map[string]PendingRollSet{},
		requests: map[string]time.Time{},
	}
}

var _ Repository = (*memoryRepository)(nil)

func (m *memoryRepository) Create(_ context.Context, input CreateInput) (*CreateOutput, error) {
	if input.Set == nil {
		return nil, errors.InvalidArgument(errSetNil)
	}
	if input.Set.SessionID == "" {
		return nil, errors.InvalidArgument(errSessionIDEmpty)
	}

	ttl := input.TTL
	if ttl == 0 {
		ttl = DefaultTTL
	}

	now := m.clock.Now()
	set := cloneSet(*input.Set)
	set.CreatedAt = now
	set.ExpiresAt = now.Add(ttl)

	m.mu.Lock()
	m.sets[set.SessionID] = set
	m.mu.Unlock()

	out := cloneSet(set)
	return &CreateOutput{Set: &out}, nil
}

func (m *memoryRepository) Get(_ context.Context, input GetInput) (*GetOutput, error) {
	if input.SessionID == "" {
		return nil, errors.InvalidArgument(errSessionIDEmpty)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	set, ok := m.sets[input.SessionID]
	if !ok {
		return nil, errors.NotFoundf("no open roll set for session %s", input.SessionID)
	}
	if m.clock.Now().After(set.ExpiresAt) {
		delete(m.sets, input.SessionID)
		return nil, errors.NotFoundf("roll set for session %s has expired", input.SessionID)
	}

	out := cloneSet(set)
	return &GetOutput{Set: &out}, nil
}

func (m *memoryRepository) Update(_ context.Context, input UpdateInput) (*UpdateOutput, error) {
	if input.SessionID == "" {
		return nil, errors.InvalidArgument(errSessionIDEmpty)
	}
	if input.Fn == nil {
		return nil, errors.InvalidArgument(errUpdateFnNil)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.sets[input.SessionID]
	if !ok {
		return nil, errors.NotFoundf("no open roll set for session %s", input.SessionID)
	}
	if m.clock.Now().After(stored.ExpiresAt) {
		delete(m.sets, input.SessionID)
		return nil, errors.NotFoundf("roll set for session %s has expired", input.SessionID)
	}

	set := cloneSet(stored)
	changed, err := input.Fn(&set)
	if err != nil {
		return nil, err
	}
	if changed {
		m.sets[input.SessionID] = cloneSet(set)
	}

	return &UpdateOutput{Set: &set, Updated: changed}, nil
}

func (m *memoryRepository) Delete(_ context.Context, input DeleteInput) (*DeleteOutput, error) {
	if input.SessionID == "" {
		return nil, errors.InvalidArgument(errSessionIDEmpty)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	set, ok := m.sets[input.SessionID]
	delete(m.sets, input.SessionID)
	if !ok {
		return &DeleteOutput{}, nil
	}
	return &DeleteOutput{RollsDeleted: len(set.Rolls)}, nil
}

func (m *memoryRepository) ClaimRequest(_ context.Context, input ClaimRequestInput) (*ClaimRequestOutput, error) {
	if input.SessionID == "" {
		return nil, errors.InvalidArgument(errSessionIDEmpty)
	}
	if input.RequestID == "" {
		return nil, errors.InvalidArgument(errRequestIDEmpty)
	}

	ttl := input.TTL
	if ttl == 0 {
		ttl = DefaultTTL
	}

	key := input.SessionID + ":" + input.RequestID
	now := m.clock.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	for k, expires := range m.requests {
		if now.After(expires) {
			delete(m.requests, k)
		}
	}
	if _, seen := m.requests[key]; seen {
		return &ClaimRequestOutput{Claimed: false}, nil
	}
	m.requests[key] = now.Add(ttl)
	return &ClaimRequestOutput{Claimed: true}, nil
}

func (m *memoryRepository) ReleaseRequest(_ context.Context, input ReleaseRequestInput) error {
	if input.SessionID == "" {
		return errors.InvalidArgument(errSessionIDEmpty)
	}
	if input.RequestID == "" {
		return errors.InvalidArgument(errRequestIDEmpty)
	}

	m.mu.Lock()
	delete(m.requests, input.SessionID+":"+input.RequestID)
	m.mu.Unlock()
	return nil
}

func cloneSet(s PendingRollSet) PendingRollSet {
	s.Rolls = append([]PendingRoll(nil), s.Rolls...)
	return s
}
