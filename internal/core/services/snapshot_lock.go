package services

import (
	"context"
	"errors"
	"sync"

	"github.com/comitanigiacomo/kanso-vitals/internal/core/domain"
	"github.com/comitanigiacomo/kanso-vitals/internal/core/metrics"
)

// SnapshotLock serializes read-modify-write cycles on the stored snapshot.
// TrackerService and SyncService must share one instance.
type SnapshotLock struct {
	repo domain.SnapshotRepository
	mu   sync.Mutex
}

func NewSnapshotLock(repo domain.SnapshotRepository) *SnapshotLock {
	return &SnapshotLock{repo: repo}
}

// Update loads the snapshot (starting from an empty one when nothing is stored),
// applies fn, refreshes the derived fields and saves the result.
func (l *SnapshotLock) Update(ctx context.Context, fn func(s *domain.Snapshot) error) (*domain.Snapshot, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	snapshot, err := l.repo.Load(ctx)
	if errors.Is(err, domain.ErrNoData) {
		snapshot = domain.NewSnapshot()
	} else if err != nil {
		return nil, err
	}

	if err := fn(snapshot); err != nil {
		return nil, err
	}
	refreshDerived(snapshot)

	if err := l.repo.Save(ctx, snapshot); err != nil {
		return nil, err
	}
	return snapshot, nil
}

// Replace stores s as is, after refreshing its derived fields.
func (l *SnapshotLock) Replace(ctx context.Context, s *domain.Snapshot) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	refreshDerived(s)
	return l.repo.Save(ctx, s)
}

func (l *SnapshotLock) Clear(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.repo.Clear(ctx)
}

func (l *SnapshotLock) Load(ctx context.Context) (*domain.Snapshot, error) {
	return l.repo.Load(ctx)
}

// refreshDerived recomputes the averages and widens the period to cover every stored day.
func refreshDerived(s *domain.Snapshot) {
	s.Averages = metrics.CalculateAverages(s.DailyData)

	dates := s.Dates()
	if len(dates) == 0 {
		return
	}
	if s.Period.Start == "" || dates[0] < s.Period.Start {
		s.Period.Start = dates[0]
	}
	if last := dates[len(dates)-1]; s.Period.End == "" || last > s.Period.End {
		s.Period.End = last
	}
}
