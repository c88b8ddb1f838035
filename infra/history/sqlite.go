// Package history provides persistent KPI history stores.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/kilianp07/motofleet/core/fleet"
	corehistory "github.com/kilianp07/motofleet/core/history"
)

// SQLiteStore persists KPI records in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates the database and ensures schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	schema := `CREATE TABLE IF NOT EXISTS kpi_history (
        period TEXT PRIMARY KEY,
        run_id TEXT,
        updated_at INTEGER,
        weekly_revenue REAL,
        monthly_revenue REAL,
        occupancy REAL,
        kpi TEXT
    );`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// Save inserts or replaces the record of its period.
func (s *SQLiteStore) Save(ctx context.Context, r corehistory.Record) error {
	data, err := json.Marshal(r.KPI)
	if err != nil {
		return fmt.Errorf("encode kpi: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO kpi_history (period, run_id, updated_at, weekly_revenue, monthly_revenue, occupancy, kpi)
        VALUES (?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(period) DO UPDATE SET
            run_id = excluded.run_id,
            updated_at = excluded.updated_at,
            weekly_revenue = excluded.weekly_revenue,
            monthly_revenue = excluded.monthly_revenue,
            occupancy = excluded.occupancy,
            kpi = excluded.kpi`,
		r.Period.String(), r.RunID, r.UpdatedAt.UTC().Unix(),
		r.KPI.WeeklyRevenue, r.KPI.MonthlyRevenue, r.KPI.OccupancyRate, string(data))
	if err != nil {
		return fmt.Errorf("save kpi %s: %w", r.Period, err)
	}
	return nil
}

// Get returns the record of period p.
func (s *SQLiteStore) Get(ctx context.Context, p fleet.Period) (corehistory.Record, bool, error) {
	var (
		runID   string
		updated int64
		data    string
	)
	err := s.db.QueryRowContext(ctx, `SELECT run_id, updated_at, kpi FROM kpi_history WHERE period = ?`, p.String()).
		Scan(&runID, &updated, &data)
	if errors.Is(err, sql.ErrNoRows) {
		return corehistory.Record{}, false, nil
	}
	if err != nil {
		return corehistory.Record{}, false, fmt.Errorf("query kpi %s: %w", p, err)
	}
	rec := corehistory.Record{Period: p, RunID: runID, UpdatedAt: time.Unix(updated, 0).UTC()}
	if err := json.Unmarshal([]byte(data), &rec.KPI); err != nil {
		return corehistory.Record{}, false, fmt.Errorf("decode kpi %s: %w", p, err)
	}
	return rec, true, nil
}

// Periods lists the stored periods in ascending order.
func (s *SQLiteStore) Periods(ctx context.Context) ([]fleet.Period, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT period FROM kpi_history ORDER BY period`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var res []fleet.Period
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		p, err := fleet.ParsePeriod(raw)
		if err != nil {
			return nil, err
		}
		res = append(res, p)
	}
	return res, rows.Err()
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error { return s.db.Close() }
