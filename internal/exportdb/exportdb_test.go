package exportdb

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"mealtrack/cli/internal/backend"
)

type txCall struct {
	sql  string
	args []any
}

// recordingTx records the statements a write issues. Unstubbed pgx.Tx
// methods panic through the embedded nil interface, which is fine: the
// writer must not touch them.
type recordingTx struct {
	pgx.Tx
	calls     []txCall
	failAt    int // 1-based exec index to fail at; 0 disables
	commits   int
	rollbacks int
}

func (t *recordingTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	t.calls = append(t.calls, txCall{sql: sql, args: args})
	if t.failAt > 0 && len(t.calls) == t.failAt {
		return pgconn.CommandTag{}, errors.New("connection reset by peer")
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (t *recordingTx) Commit(ctx context.Context) error {
	t.commits++
	return nil
}

func (t *recordingTx) Rollback(ctx context.Context) error {
	t.rollbacks++
	return nil
}

type recordingDB struct {
	execs      []string
	beginCalls int
	tx         *recordingTx
}

func (d *recordingDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	d.execs = append(d.execs, sql)
	return pgconn.NewCommandTag("CREATE TABLE"), nil
}

func (d *recordingDB) Begin(ctx context.Context) (pgx.Tx, error) {
	d.beginCalls++
	return d.tx, nil
}

func sampleLogs(n int) []backend.FoodLog {
	logs := make([]backend.FoodLog, 0, n)
	for i := 1; i <= n; i++ {
		logs = append(logs, backend.FoodLog{
			ID:       i,
			UserID:   1,
			FoodName: "Oatmeal",
			MealType: "breakfast",
			Calories: 389,
			Servings: 1,
			LoggedAt: backend.APITime{Time: time.Date(2025, 6, i, 8, 0, 0, 0, time.UTC)},
		})
	}
	return logs
}

func TestEnsureSchemaCreatesExportTable(t *testing.T) {
	d := &recordingDB{}
	w := &Writer{db: d}

	if err := w.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("EnsureSchema() error = %v", err)
	}
	if len(d.execs) != 1 {
		t.Fatalf("EnsureSchema() issued %d statements, want 1", len(d.execs))
	}
	if !strings.Contains(d.execs[0], "CREATE TABLE IF NOT EXISTS "+TableName) {
		t.Errorf("EnsureSchema() statement = %q, want idempotent create of %s", d.execs[0], TableName)
	}
}

func TestWriteLogsUpsertsAllInOneTransaction(t *testing.T) {
	tx := &recordingTx{}
	d := &recordingDB{tx: tx}
	w := &Writer{db: d}

	written, err := w.WriteLogs(context.Background(), sampleLogs(3))
	if err != nil {
		t.Fatalf("WriteLogs() error = %v", err)
	}
	if written != 3 {
		t.Errorf("WriteLogs() = %d rows, want 3", written)
	}
	if d.beginCalls != 1 {
		t.Errorf("transactions started = %d, want 1", d.beginCalls)
	}
	if len(tx.calls) != 3 {
		t.Fatalf("statements in transaction = %d, want 3", len(tx.calls))
	}
	for i, call := range tx.calls {
		if call.sql != upsertSQL {
			t.Errorf("statement %d is not the upsert", i)
		}
	}
	if tx.commits != 1 {
		t.Errorf("commits = %d, want 1", tx.commits)
	}
}

func TestWriteLogsRollsBackMidBatchFailure(t *testing.T) {
	tx := &recordingTx{failAt: 2}
	d := &recordingDB{tx: tx}
	w := &Writer{db: d}

	written, err := w.WriteLogs(context.Background(), sampleLogs(3))
	if err == nil {
		t.Fatal("WriteLogs() error = nil, want mid-batch failure")
	}
	if written != 0 {
		t.Errorf("WriteLogs() = %d rows on failure, want 0", written)
	}
	if tx.commits != 0 {
		t.Errorf("commits = %d, want 0 after failure", tx.commits)
	}
	if tx.rollbacks == 0 {
		t.Error("transaction was not rolled back")
	}
	if len(tx.calls) != 2 {
		t.Errorf("statements issued = %d, want the batch to stop at the failure", len(tx.calls))
	}
}

func TestWriteLogsEmptyBatchSkipsTransaction(t *testing.T) {
	d := &recordingDB{}
	w := &Writer{db: d}

	written, err := w.WriteLogs(context.Background(), nil)
	if err != nil {
		t.Fatalf("WriteLogs() error = %v", err)
	}
	if written != 0 {
		t.Errorf("WriteLogs() = %d rows, want 0", written)
	}
	if d.beginCalls != 0 {
		t.Errorf("transactions started = %d, want 0 for an empty batch", d.beginCalls)
	}
}

func TestUpsertArgsMatchPlaceholders(t *testing.T) {
	serving := "1 cup"
	fiber := 3.5
	logged := time.Date(2025, 6, 1, 8, 30, 0, 0, time.UTC)

	entry := backend.FoodLog{
		ID:          7,
		UserID:      1,
		FoodName:    "Oatmeal",
		MealType:    "breakfast",
		Calories:    389,
		Protein:     16.9,
		Carbs:       66.3,
		Fat:         6.9,
		ServingSize: &serving,
		Servings:    1.5,
		Fiber:       &fiber,
		LoggedAt:    backend.APITime{Time: logged},
	}

	args := upsertArgs(entry)

	placeholders := strings.Count(upsertSQL, "$")
	if len(args) != placeholders {
		t.Fatalf("upsertArgs() returned %d values, statement has %d placeholders", len(args), placeholders)
	}
	if args[0] != 7 {
		t.Errorf("args[0] = %v, want the entry id", args[0])
	}
	if args[2] != "Oatmeal" {
		t.Errorf("args[2] = %v, want the food name", args[2])
	}
	if got, ok := args[len(args)-1].(time.Time); !ok || !got.Equal(logged) {
		t.Errorf("last arg = %v, want the logged_at time", args[len(args)-1])
	}
}

func TestExportTableCoversUpsertColumns(t *testing.T) {
	start := strings.Index(upsertSQL, "(")
	end := strings.Index(upsertSQL, ")")
	if start == -1 || end == -1 || end < start {
		t.Fatal("could not locate column list in upsert statement")
	}

	for _, col := range strings.Split(upsertSQL[start+1:end], ",") {
		col = strings.TrimSpace(col)
		if col == "" {
			continue
		}
		if !strings.Contains(createTableSQL, col) {
			t.Errorf("column %q missing from export table definition", col)
		}
	}
}
