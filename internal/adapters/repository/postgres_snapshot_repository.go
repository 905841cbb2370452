package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/comitanigiacomo/kanso-vitals/internal/core/domain"
)

var _ domain.SnapshotRepository = (*PostgresSnapshotRepository)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS daily_records (
	date       TEXT PRIMARY KEY,
	payload    JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS snapshot_meta (
	id           INT PRIMARY KEY,
	period_start TEXT NOT NULL,
	period_end   TEXT NOT NULL,
	averages     JSONB NOT NULL,
	last_update  TIMESTAMPTZ NOT NULL
);

ALTER TABLE snapshot_meta ADD COLUMN IF NOT EXISTS synced_through TEXT NOT NULL DEFAULT '';`

// metaRowID is the only row of snapshot_meta: there is one dataset per deployment.
const metaRowID = 1

type PostgresSnapshotRepository struct {
	db *sqlx.DB
}

func NewPostgresSnapshotRepository(db *sqlx.DB) *PostgresSnapshotRepository {
	return &PostgresSnapshotRepository{db: db}
}

type metaRow struct {
	PeriodStart   string    `db:"period_start"`
	PeriodEnd     string    `db:"period_end"`
	Averages      []byte    `db:"averages"`
	LastUpdate    time.Time `db:"last_update"`
	SyncedThrough string    `db:"synced_through"`
}

type recordRow struct {
	Date    string `db:"date"`
	Payload []byte `db:"payload"`
}

func (r *PostgresSnapshotRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

func (r *PostgresSnapshotRepository) Load(ctx context.Context) (*domain.Snapshot, error) {
	var meta metaRow
	err := r.db.GetContext(ctx, &meta,
		`SELECT period_start, period_end, averages, last_update, synced_through FROM snapshot_meta WHERE id = $1`, metaRowID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNoData
		}
		return nil, err
	}

	snapshot := domain.NewSnapshot()
	snapshot.Period = domain.Period{Start: meta.PeriodStart, End: meta.PeriodEnd}
	snapshot.LastUpdate = meta.LastUpdate.UTC()
	snapshot.SyncedThrough = meta.SyncedThrough
	if err := json.Unmarshal(meta.Averages, &snapshot.Averages); err != nil {
		return nil, fmt.Errorf("failed to unmarshal averages: %w", err)
	}

	rows := []recordRow{}
	if err := r.db.SelectContext(ctx, &rows, `SELECT date, payload FROM daily_records ORDER BY date`); err != nil {
		return nil, err
	}

	for _, row := range rows {
		var rec domain.DailyRecord
		if err := json.Unmarshal(row.Payload, &rec); err != nil {
			return nil, fmt.Errorf("failed to unmarshal record %s: %w", row.Date, err)
		}
		rec.Date = row.Date
		snapshot.DailyData[row.Date] = &rec
	}

	return snapshot, nil
}

// Save replaces the stored dataset inside one transaction.
func (r *PostgresSnapshotRepository) Save(ctx context.Context, snapshot *domain.Snapshot) error {
	averages, err := json.Marshal(snapshot.Averages)
	if err != nil {
		return fmt.Errorf("failed to marshal averages: %w", err)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM daily_records`); err != nil {
		return err
	}

	now := time.Now().UTC()
	for _, date := range snapshot.Dates() {
		payload, err := json.Marshal(snapshot.DailyData[date])
		if err != nil {
			return fmt.Errorf("failed to marshal record %s: %w", date, err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO daily_records (date, payload, updated_at) VALUES ($1, $2, $3)`,
			date, string(payload), now)
		if err != nil {
			return err
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO snapshot_meta (id, period_start, period_end, averages, last_update, synced_through)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			period_start   = EXCLUDED.period_start,
			period_end     = EXCLUDED.period_end,
			averages       = EXCLUDED.averages,
			last_update    = EXCLUDED.last_update,
			synced_through = EXCLUDED.synced_through`,
		metaRowID, snapshot.Period.Start, snapshot.Period.End, string(averages), snapshot.LastUpdate.UTC(), snapshot.SyncedThrough)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (r *PostgresSnapshotRepository) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `TRUNCATE TABLE daily_records, snapshot_meta`)
	return err
}
