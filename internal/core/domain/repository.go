package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrProviderUnavailable = errors.New("activity provider unavailable")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrPasswordTooShort    = errors.New("password must be at least 8 characters long")
)

type SnapshotRepository interface {
	// Load returns the stored snapshot or ErrNoData when nothing was saved yet.
	Load(ctx context.Context) (*Snapshot, error)

	// Save replaces the stored snapshot as a whole.
	Save(ctx context.Context, snapshot *Snapshot) error

	// Clear removes every stored record.
	Clear(ctx context.Context) error
}

type DailySummary struct {
	TotalSteps          *int     `json:"totalSteps"`
	TotalKilocalories   *float64 `json:"totalKilocalories"`
	TotalDistanceMeters *float64 `json:"totalDistanceMeters"`
}

type SleepSummary struct {
	SleepTimeSeconds  *int `json:"sleepTimeSeconds"`
	DeepSleepSeconds  *int `json:"deepSleepSeconds"`
	LightSleepSeconds *int `json:"lightSleepSeconds"`
	RemSleepSeconds   *int `json:"remSleepSeconds"`
	AwakeSleepSeconds *int `json:"awakeSleepSeconds"`
}

type ActivityProvider interface {
	// DailySummary returns nil, nil when the provider has nothing for the day.
	DailySummary(ctx context.Context, date time.Time) (*DailySummary, error)

	SleepSummary(ctx context.Context, date time.Time) (*SleepSummary, error)
}
