package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/comitanigiacomo/kanso-vitals/internal/core/domain"
)

type MockSnapshotRepository struct {
	mock.Mock
}

func (m *MockSnapshotRepository) Load(ctx context.Context) (*domain.Snapshot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Snapshot), args.Error(1)
}

func (m *MockSnapshotRepository) Save(ctx context.Context, snapshot *domain.Snapshot) error {
	return m.Called(ctx, snapshot).Error(0)
}

func (m *MockSnapshotRepository) Clear(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type MockActivityProvider struct {
	mock.Mock
}

func (m *MockActivityProvider) DailySummary(ctx context.Context, date time.Time) (*domain.DailySummary, error) {
	args := m.Called(ctx, date.Format(domain.DateLayout))
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DailySummary), args.Error(1)
}

func (m *MockActivityProvider) SleepSummary(ctx context.Context, date time.Time) (*domain.SleepSummary, error) {
	args := m.Called(ctx, date.Format(domain.DateLayout))
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SleepSummary), args.Error(1)
}

// fakeRepository stores an encoded copy, like the real adapters do.
type fakeRepository struct {
	data  []byte
	saves int
}

func (r *fakeRepository) Load(ctx context.Context) (*domain.Snapshot, error) {
	if r.data == nil {
		return nil, domain.ErrNoData
	}
	var s domain.Snapshot
	if err := json.Unmarshal(r.data, &s); err != nil {
		return nil, err
	}
	if s.DailyData == nil {
		s.DailyData = make(domain.Dataset)
	}
	return &s, nil
}

func (r *fakeRepository) Save(ctx context.Context, snapshot *domain.Snapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	r.data = data
	r.saves++
	return nil
}

func (r *fakeRepository) Clear(ctx context.Context) error {
	r.data = nil
	return nil
}

func (r *fakeRepository) seed(s *domain.Snapshot) {
	r.data, _ = json.Marshal(s)
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
