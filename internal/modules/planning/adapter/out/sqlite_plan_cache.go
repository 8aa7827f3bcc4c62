package out

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"tempo/internal/modules/planning/domain"
	planningout "tempo/internal/modules/planning/port/out"
	apperrors "tempo/internal/platform/errors"

	_ "modernc.org/sqlite"
)

// SQLitePlanCache projects every successfully fetched day plan into a local
// database, keyed by date, so the schedule still renders offline.
type SQLitePlanCache struct {
	db *sql.DB
}

func NewSQLitePlanCache(dbPath string) (planningout.PlanCache, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	cache := &SQLitePlanCache{db: db}
	if err := cache.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return cache, nil
}

func (c *SQLitePlanCache) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS day_plans (
  plan_date TEXT PRIMARY KEY,
  payload TEXT NOT NULL,
  full_plan INTEGER NOT NULL,
  updated_at TEXT NOT NULL
);
`
	if _, err := c.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create day_plans table: %w", err)
	}
	return nil
}

func (c *SQLitePlanCache) SaveDay(ctx context.Context, plan domain.DayPlan) error {
	return c.upsert(ctx, plan, true)
}

// SaveSummaries records calendar days. A summary never downgrades a stored
// full plan for the same date; it only fills dates the cache has not seen
// in full.
func (c *SQLitePlanCache) SaveSummaries(ctx context.Context, days []domain.DaySummary) error {
	for _, day := range days {
		var isFull bool
		err := c.db.QueryRowContext(ctx, `SELECT full_plan FROM day_plans WHERE plan_date = ?`, day.Date).Scan(&isFull)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("check cached plan: %w", err)
		}
		if isFull {
			continue
		}
		plan := domain.DayPlan{Date: day.Date, Scheduled: day.Scheduled}
		if err := c.upsert(ctx, plan, false); err != nil {
			return err
		}
	}
	return nil
}

func (c *SQLitePlanCache) upsert(ctx context.Context, plan domain.DayPlan, full bool) error {
	payload, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("encode plan: %w", err)
	}
	const stmt = `
INSERT INTO day_plans (plan_date, payload, full_plan, updated_at)
VALUES (?, ?, ?, ?)
ON CONFLICT(plan_date) DO UPDATE SET
  payload=excluded.payload,
  full_plan=excluded.full_plan,
  updated_at=excluded.updated_at;
`
	fullFlag := 0
	if full {
		fullFlag = 1
	}
	if _, err := c.db.ExecContext(ctx, stmt, plan.Date, string(payload), fullFlag, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("upsert plan: %w", err)
	}
	return nil
}

func (c *SQLitePlanCache) LoadDay(ctx context.Context, date string) (domain.DayPlan, error) {
	var payload string
	err := c.db.QueryRowContext(ctx, `SELECT payload FROM day_plans WHERE plan_date = ?`, date).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.DayPlan{}, apperrors.ErrNotFound
	}
	if err != nil {
		return domain.DayPlan{}, fmt.Errorf("load cached plan: %w", err)
	}
	var plan domain.DayPlan
	if err := json.Unmarshal([]byte(payload), &plan); err != nil {
		return domain.DayPlan{}, fmt.Errorf("decode cached plan: %w", err)
	}
	return plan, nil
}

func (c *SQLitePlanCache) LoadRange(ctx context.Context, startDate, endDate string) ([]domain.DaySummary, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT payload FROM day_plans WHERE plan_date >= ? AND plan_date <= ? ORDER BY plan_date ASC`,
		startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("load cached range: %w", err)
	}
	defer rows.Close()

	var days []domain.DaySummary
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan cached plan: %w", err)
		}
		var plan domain.DayPlan
		if err := json.Unmarshal([]byte(payload), &plan); err != nil {
			return nil, fmt.Errorf("decode cached plan: %w", err)
		}
		days = append(days, domain.DaySummary{Date: plan.Date, Scheduled: plan.Scheduled})
	}
	return days, rows.Err()
}
