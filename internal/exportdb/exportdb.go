// Package exportdb writes food-log history into a user-owned PostgreSQL
// database over a pgx connection pool. Rows are upserted by their service id
// inside a single transaction, so re-running an export refreshes existing
// rows instead of duplicating them and a failed run leaves the table
// untouched.
package exportdb

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"mealtrack/cli/internal/backend"
)

// TableName is the table exports are written to.
const TableName = "mealtrack_food_logs"

const createTableSQL = `
CREATE TABLE IF NOT EXISTS ` + TableName + ` (
	id           BIGINT PRIMARY KEY,
	user_id      BIGINT NOT NULL,
	food_name    TEXT NOT NULL,
	meal_type    TEXT NOT NULL,
	calories     DOUBLE PRECISION NOT NULL,
	protein      DOUBLE PRECISION NOT NULL,
	carbs        DOUBLE PRECISION NOT NULL,
	fat          DOUBLE PRECISION NOT NULL,
	serving_size TEXT,
	servings     DOUBLE PRECISION NOT NULL,
	fiber        DOUBLE PRECISION,
	sugar        DOUBLE PRECISION,
	logged_at    TIMESTAMPTZ NOT NULL,
	exported_at  TIMESTAMPTZ NOT NULL DEFAULT now()
)`

const upsertSQL = `
INSERT INTO ` + TableName + `
	(id, user_id, food_name, meal_type, calories, protein, carbs, fat,
	 serving_size, servings, fiber, sugar, logged_at, exported_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, now())
ON CONFLICT (id) DO UPDATE SET
	user_id      = EXCLUDED.user_id,
	food_name    = EXCLUDED.food_name,
	meal_type    = EXCLUDED.meal_type,
	calories     = EXCLUDED.calories,
	protein      = EXCLUDED.protein,
	carbs        = EXCLUDED.carbs,
	fat          = EXCLUDED.fat,
	serving_size = EXCLUDED.serving_size,
	servings     = EXCLUDED.servings,
	fiber        = EXCLUDED.fiber,
	sugar        = EXCLUDED.sugar,
	logged_at    = EXCLUDED.logged_at,
	exported_at  = now()`

// db is the slice of pgxpool.Pool the writer uses. Tests substitute a
// recording implementation.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Writer writes food logs into the export table.
type Writer struct {
	db db
}

// New creates a Writer from an existing pgx pool.
func New(pool *pgxpool.Pool) *Writer {
	return &Writer{db: pool}
}

// EnsureSchema creates the export table when it does not exist yet.
func (w *Writer) EnsureSchema(ctx context.Context) error {
	if _, err := w.db.Exec(ctx, createTableSQL); err != nil {
		return fmt.Errorf("creating %s: %w", TableName, err)
	}
	return nil
}

// WriteLogs upserts the given entries in one transaction and reports how
// many rows were written. An error mid-batch rolls the whole export back.
func (w *Writer) WriteLogs(ctx context.Context, logs []backend.FoodLog) (int64, error) {
	if len(logs) == 0 {
		return 0, nil
	}

	tx, err := w.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var written int64
	for _, entry := range logs {
		ct, err := tx.Exec(ctx, upsertSQL, upsertArgs(entry)...)
		if err != nil {
			return 0, fmt.Errorf("writing log %d: %w", entry.ID, err)
		}
		written += ct.RowsAffected()
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit failed: %w", err)
	}
	return written, nil
}

// upsertArgs orders an entry's fields to match the upsert placeholders.
func upsertArgs(entry backend.FoodLog) []any {
	return []any{
		entry.ID,
		entry.UserID,
		entry.FoodName,
		entry.MealType,
		entry.Calories,
		entry.Protein,
		entry.Carbs,
		entry.Fat,
		entry.ServingSize,
		entry.Servings,
		entry.Fiber,
		entry.Sugar,
		entry.LoggedAt.Time,
	}
}
