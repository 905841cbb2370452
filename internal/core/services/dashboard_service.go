package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/comitanigiacomo/kanso-vitals/internal/core/charts"
	"github.com/comitanigiacomo/kanso-vitals/internal/core/domain"
	"github.com/comitanigiacomo/kanso-vitals/internal/core/metrics"
)

// heatmapWeeks is 53 calendar weeks, enough to show a full year.
const heatmapWeeks = metrics.Window371 / 7

type DashboardService struct {
	repo          domain.SnapshotRepository
	waterTargetML int
	loc           *time.Location
	now           func() time.Time
}

func NewDashboardService(repo domain.SnapshotRepository, waterTargetML int, loc *time.Location) *DashboardService {
	if loc == nil {
		loc = time.UTC
	}
	return &DashboardService{
		repo:          repo,
		waterTargetML: waterTargetML,
		loc:           loc,
		now:           time.Now,
	}
}

// DashboardOptions carries the raw query values; empty fields take defaults.
type DashboardOptions struct {
	Theme     string
	Baseline  string
	WeekStart string
	// Days sets the window of the daily charts ("30" or "30d").
	Days string
	// Date pins the last day of every window ("YYYY-MM-DD"); it wins over Today.
	Date  string
	Today time.Time
}

type resolvedOptions struct {
	theme     charts.Theme
	policy    metrics.BaselinePolicy
	weekStart time.Weekday
	days      int
	today     time.Time
}

type Dashboard struct {
	Theme      string          `json:"theme"`
	Period     domain.Period   `json:"period"`
	Averages   domain.Averages `json:"averages"`
	LastUpdate time.Time       `json:"last_update"`

	Steps          charts.Chart              `json:"steps"`
	Calories       charts.Chart              `json:"calories"`
	Sleep          charts.Chart              `json:"sleep"`
	Weight         charts.Chart              `json:"weight"`
	Water          charts.Chart              `json:"water"`
	SleepBreakdown charts.SleepBreakdownView `json:"sleep_breakdown"`
	Heatmap        charts.HeatmapView        `json:"heatmap"`
}

func (s *DashboardService) resolve(opts DashboardOptions) (resolvedOptions, error) {
	var (
		r   resolvedOptions
		err error
	)
	if r.theme, err = charts.ThemeByName(opts.Theme); err != nil {
		return r, err
	}
	if r.policy, err = metrics.ParseBaselinePolicy(opts.Baseline); err != nil {
		return r, err
	}
	if r.weekStart, err = metrics.ParseWeekday(opts.WeekStart); err != nil {
		return r, err
	}

	r.days = metrics.Window30
	if opts.Days != "" {
		if r.days, err = metrics.ParseWindow(opts.Days); err != nil {
			return r, err
		}
	}

	r.today = opts.Today
	if opts.Date != "" {
		if r.today, err = time.ParseInLocation(domain.DateLayout, strings.TrimSpace(opts.Date), s.loc); err != nil {
			return r, domain.ErrInvalidDate
		}
	}
	if r.today.IsZero() {
		r.today = s.now()
	}
	r.today = r.today.In(s.loc)
	return r, nil
}

// load treats a missing snapshot as an empty dataset.
func (s *DashboardService) load(ctx context.Context) (*domain.Snapshot, error) {
	snap, err := s.repo.Load(ctx)
	if errors.Is(err, domain.ErrNoData) {
		return domain.NewSnapshot(), nil
	}
	return snap, err
}

func (s *DashboardService) Build(ctx context.Context, opts DashboardOptions) (*Dashboard, error) {
	r, err := s.resolve(opts)
	if err != nil {
		return nil, err
	}
	snap, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	daily := metrics.NewAggregator(snap.DailyData, metrics.TrailingDays(r.days, r.today))
	quarter := metrics.NewAggregator(snap.DailyData, metrics.TrailingDays(metrics.Window90, r.today))

	return &Dashboard{
		Theme:          r.theme.Name,
		Period:         snap.Period,
		Averages:       snap.Averages,
		LastUpdate:     snap.LastUpdate,
		Steps:          charts.StepsChart(daily, r.theme),
		Calories:       charts.CaloriesChart(daily, r.theme),
		Sleep:          charts.SleepChart(daily, r.theme),
		Weight:         charts.WeightChart(quarter, r.theme),
		Water:          charts.WaterChart(daily, r.theme, s.waterTargetML),
		SleepBreakdown: charts.SleepBreakdown(daily.SleepPhaseAverages(), r.theme),
		Heatmap:        s.heatmap(snap, r),
	}, nil
}

func (s *DashboardService) Heatmap(ctx context.Context, opts DashboardOptions) (*charts.HeatmapView, error) {
	r, err := s.resolve(opts)
	if err != nil {
		return nil, err
	}
	snap, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	view := s.heatmap(snap, r)
	return &view, nil
}

func (s *DashboardService) SleepBreakdown(ctx context.Context, opts DashboardOptions) (*charts.SleepBreakdownView, error) {
	r, err := s.resolve(opts)
	if err != nil {
		return nil, err
	}
	snap, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	agg := metrics.NewAggregator(snap.DailyData, metrics.TrailingDays(r.days, r.today))
	view := charts.SleepBreakdown(agg.SleepPhaseAverages(), r.theme)
	return &view, nil
}

// heatmap ends the grid on the last day of the current week so that today
// always has a cell.
func (s *DashboardService) heatmap(snap *domain.Snapshot, r resolvedOptions) charts.HeatmapView {
	pad := (int(r.weekStart) + 6 - int(r.today.Weekday()) + 7) % 7
	end := r.today.AddDate(0, 0, pad)

	agg := metrics.NewAggregator(snap.DailyData, metrics.AlignedWeekWindow(r.weekStart, heatmapWeeks, end))
	baseline := agg.Baseline(r.policy, &snap.Averages)
	return charts.Heatmap(agg, r.policy, baseline, r.theme)
}
