package repository

import (
	"database/sql"
	"fmt"
	"reflect"
	"testing"
	"time"

	"partshub-backend/internal/domains/importlog/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRows feeds canned column values through the pgx.Rows interface.
// Assignment mirrors pgx: NULL into a non-pointer destination is an
// error, sql.Scanner destinations get the raw value.
type fakeRows struct {
	rows [][]any
	idx  int
}

func (r *fakeRows) Close()                                       {}
func (r *fakeRows) Err() error                                   { return nil }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) Values() ([]any, error)                       { return nil, nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

func (r *fakeRows) Next() bool {
	r.idx++
	return r.idx <= len(r.rows)
}

func (r *fakeRows) Scan(dest ...any) error {
	row := r.rows[r.idx-1]
	for i, d := range dest {
		if err := assignValue(d, row[i]); err != nil {
			return err
		}
	}
	return nil
}

func assignValue(dest, value any) error {
	if sc, ok := dest.(sql.Scanner); ok {
		return sc.Scan(value)
	}

	dv := reflect.ValueOf(dest).Elem()
	if value == nil {
		if dv.Kind() != reflect.Pointer && dv.Kind() != reflect.Slice {
			return fmt.Errorf("cannot scan NULL into %T", dest)
		}
		dv.SetZero()
		return nil
	}

	rv := reflect.ValueOf(value)
	if dv.Kind() == reflect.Pointer && rv.Type() == dv.Type().Elem() {
		p := reflect.New(rv.Type())
		p.Elem().Set(rv)
		dv.Set(p)
		return nil
	}
	dv.Set(rv)
	return nil
}

func logRow(status string, successful, failed any, errs, completedAt any) []any {
	return []any{
		"b7a9f0a4-8a6e-4f5d-9c1b-2e3d4f5a6b7c", // id, parsed by uuid's Scanner
		model.TargetProducts,
		model.TypeFull,
		3,
		successful,
		failed,
		errs,
		status,
		time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC),
		completedAt,
		nil, // imported_by
		"api",
	}
}

func TestScanLogsInProgressRowWithoutCounts(t *testing.T) {
	// A crashed batch leaves its row in_progress with no counts or errors
	// recorded; listing and the stale sweep must still read it.
	rows := &fakeRows{rows: [][]any{
		logRow(model.StatusInProgress, nil, nil, nil, nil),
	}}

	logs, err := scanLogs(rows)
	require.NoError(t, err)
	require.Len(t, logs, 1)

	l := logs[0]
	assert.Equal(t, model.StatusInProgress, l.Status)
	assert.Equal(t, 0, l.SuccessfulRecords)
	assert.Equal(t, 0, l.FailedRecords)
	assert.Empty(t, l.Errors)
	assert.Nil(t, l.CompletedAt)
}

func TestScanLogsCompletedRow(t *testing.T) {
	completed := time.Date(2026, 8, 30, 9, 5, 0, 0, time.UTC)
	rows := &fakeRows{rows: [][]any{
		logRow(model.StatusCompletedWithErrors, 2, 1, []byte(`{"record 1: sku: cannot be blank"}`), completed),
	}}

	logs, err := scanLogs(rows)
	require.NoError(t, err)
	require.Len(t, logs, 1)

	l := logs[0]
	assert.Equal(t, model.StatusCompletedWithErrors, l.Status)
	assert.Equal(t, 2, l.SuccessfulRecords)
	assert.Equal(t, 1, l.FailedRecords)
	require.Len(t, l.Errors, 1)
	assert.Contains(t, l.Errors[0], "record 1")
	require.NotNil(t, l.CompletedAt)
	assert.True(t, l.CompletedAt.Equal(completed))
}
