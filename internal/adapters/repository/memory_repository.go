package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/comitanigiacomo/kanso-vitals/internal/core/domain"
)

var _ domain.SnapshotRepository = (*InMemorySnapshotRepository)(nil)

// InMemorySnapshotRepository keeps an encoded copy so callers never share
// pointers with the stored state.
type InMemorySnapshotRepository struct {
	data []byte

	mu sync.RWMutex
}

func NewInMemorySnapshotRepository() *InMemorySnapshotRepository {
	return &InMemorySnapshotRepository{}
}

func (r *InMemorySnapshotRepository) Load(ctx context.Context) (*domain.Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.data == nil {
		return nil, domain.ErrNoData
	}
	return decodeSnapshot(r.data)
}

func (r *InMemorySnapshotRepository) Save(ctx context.Context, snapshot *domain.Snapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.data = data
	return nil
}

func (r *InMemorySnapshotRepository) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.data = nil
	return nil
}

func decodeSnapshot(data []byte) (*domain.Snapshot, error) {
	var s domain.Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	if s.DailyData == nil {
		s.DailyData = make(domain.Dataset)
	}
	return &s, nil
}
