package report

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore is an in-memory DataStore recording what it was asked to run.
type fakeStore struct {
	cols []string
	rows []Row
	err  error

	gotQuery string
	gotArgs  []any
	calls    int
}

func (f *fakeStore) Query(ctx context.Context, query string, args []any) ([]string, []Row, error) {
	f.calls++
	f.gotQuery = query
	f.gotArgs = args
	if f.err != nil {
		return nil, nil, f.err
	}
	return f.cols, f.rows, nil
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func testEngine(store DataStore) *Engine {
	return NewEngine(NewBuiltinRegistry(), store, testLogger())
}

func sampleRows(n int) []Row {
	rows := make([]Row, n)
	for i := range rows {
		rows[i] = Row{"id": int64(i + 1), "last_name": fmt.Sprintf("student-%d", i+1)}
	}
	return rows
}

func TestExecuteReportMaterialized(t *testing.T) {
	store := &fakeStore{cols: []string{"id", "last_name"}, rows: sampleRows(3)}
	engine := testEngine(store)

	res, err := engine.ExecuteReport(context.Background(), Request{
		TemplateID: "student-roster",
		Params:     map[string]any{"gradeLevel": "9"},
		Role:       RoleAdmin,
		Mode:       ModeMaterialized,
	})
	require.NoError(t, err)

	assert.Equal(t, []Column{
		{Name: "id", Type: "number"},
		{Name: "last_name", Type: "string"},
	}, res.Columns)

	out, ok := res.Output.(Materialized)
	require.True(t, ok)
	assert.Len(t, out.Rows, 3)

	require.NotNil(t, res.Metadata.RowCount)
	assert.Equal(t, int64(3), *res.Metadata.RowCount)
	assert.Equal(t, "Student Roster", res.Metadata.TemplateName)
	assert.False(t, res.Metadata.ExecutedAt.IsZero())

	assert.Equal(t, []any{"9"}, store.gotArgs)
	assert.Contains(t, store.gotQuery, "grade_level = ?")
}

func TestExecuteReportNotFound(t *testing.T) {
	store := &fakeStore{}
	engine := testEngine(store)

	_, err := engine.ExecuteReport(context.Background(), Request{
		TemplateID: "no-such-report",
		Role:       RoleAdmin,
	})
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.Zero(t, store.calls)
}

func TestExecuteReportUnauthorized(t *testing.T) {
	store := &fakeStore{}
	engine := testEngine(store)

	_, err := engine.ExecuteReport(context.Background(), Request{
		TemplateID: "student-roster",
		Params:     map[string]any{"gradeLevel": "9"},
		Role:       "STUDENT",
	})
	assert.Equal(t, KindUnauthorized, KindOf(err))
	assert.Zero(t, store.calls)
}

// Authorization is decided before validation: a forbidden role sees only the
// permission refusal even when its parameters are also invalid.
func TestExecuteReportAuthorizationBeforeValidation(t *testing.T) {
	store := &fakeStore{}
	engine := testEngine(store)

	_, err := engine.ExecuteReport(context.Background(), Request{
		TemplateID: "attendance-summary",
		Params:     map[string]any{}, // missing required dates
		Role:       "STUDENT",
	})
	assert.Equal(t, KindUnauthorized, KindOf(err))
}

func TestExecuteReportInvalidParameters(t *testing.T) {
	store := &fakeStore{}
	engine := testEngine(store)

	_, err := engine.ExecuteReport(context.Background(), Request{
		TemplateID: "attendance-summary",
		Params: map[string]any{
			"startDate": "2024-09-01",
			"endDate":   "2024-08-01",
		},
		Role: RoleAdmin,
	})
	assert.Equal(t, KindInvalidParameters, KindOf(err))
	assert.Contains(t, ViolationsOf(err), "start date must be before or equal to end date")
	assert.Zero(t, store.calls, "query must never run on invalid parameters")
}

// Every violation comes back in one response, not just the first.
func TestExecuteReportAllViolationsReported(t *testing.T) {
	engine := testEngine(&fakeStore{})

	_, err := engine.ExecuteReport(context.Background(), Request{
		TemplateID: "attendance-summary",
		Params:     map[string]any{"gradeLevel": "ninth"},
		Role:       RoleAdmin,
	})
	violations := ViolationsOf(err)
	assert.Contains(t, violations, "parameter startDate is required")
	assert.Contains(t, violations, "parameter endDate is required")
	assert.Contains(t, violations, "parameter gradeLevel does not match the required pattern")
}

func TestExecuteReportExecutionFailure(t *testing.T) {
	store := &fakeStore{err: errors.New("connection reset")}
	engine := testEngine(store)

	_, err := engine.ExecuteReport(context.Background(), Request{
		TemplateID: "student-roster",
		Role:       RoleAdmin,
	})
	assert.Equal(t, KindExecutionFailure, KindOf(err))
	assert.ErrorContains(t, err, "report execution failed")
	assert.ErrorContains(t, err, "connection reset")
}

func TestExecuteReportEmptyResult(t *testing.T) {
	store := &fakeStore{cols: []string{"id"}, rows: nil}
	engine := testEngine(store)

	res, err := engine.ExecuteReport(context.Background(), Request{
		TemplateID: "student-roster",
		Role:       RoleAdmin,
		Mode:       ModeMaterialized,
	})
	require.NoError(t, err)

	assert.Empty(t, res.Columns)
	require.NotNil(t, res.Metadata.RowCount)
	assert.Equal(t, int64(0), *res.Metadata.RowCount)
}

// Materialized and streamed modes deliver the same rows in the same order.
func TestExecuteReportModeEquivalence(t *testing.T) {
	store := &fakeStore{cols: []string{"id", "last_name"}, rows: sampleRows(25)}
	engine := testEngine(store)

	req := Request{TemplateID: "student-roster", Role: RoleAdmin}

	req.Mode = ModeMaterialized
	matRes, err := engine.ExecuteReport(context.Background(), req)
	require.NoError(t, err)
	materialized := matRes.Output.(Materialized).Rows

	req.Mode = ModeStreamed
	streamRes, err := engine.ExecuteReport(context.Background(), req)
	require.NoError(t, err)
	streamed, ok := streamRes.Output.(Streamed)
	require.True(t, ok)
	assert.Nil(t, streamRes.Metadata.RowCount, "streamed mode does not advertise a row count")

	drained := streamed.Stream.Drain()
	assert.Equal(t, materialized, drained)
}

// Abandoning a stream mid-drain releases the producer without error.
func TestExecuteReportStreamAbandoned(t *testing.T) {
	store := &fakeStore{cols: []string{"id", "last_name"}, rows: sampleRows(50000)}
	engine := testEngine(store)

	res, err := engine.ExecuteReport(context.Background(), Request{
		TemplateID: "student-roster",
		Role:       RoleAdmin,
		Mode:       ModeStreamed,
	})
	require.NoError(t, err)

	stream := res.Output.(Streamed).Stream
	for i := 0; i < 10; i++ {
		_, ok := stream.Next()
		require.True(t, ok)
	}
	stream.Close()
	stream.Close() // idempotent

	// The producer winds down; at most one in-flight row remains.
	remaining := 0
	for {
		_, ok := stream.Next()
		if !ok {
			break
		}
		remaining++
		require.LessOrEqual(t, remaining, 1)
	}
}

// Declared defaults fill in absent optional parameters before assembly.
func TestExecuteReportAppliesDefaults(t *testing.T) {
	registry := NewRegistry()
	registry.Register(&Template{
		ID:   "with-default",
		Name: "With Default",
		QuerySkeleton: `SELECT * FROM students
WHERE 1=1
{{#status}}  AND status = ?{{/status}}`,
		Parameters: []Parameter{
			{Name: "status", Type: TypeString, Default: "active"},
		},
		AllowedRoles: []string{RoleAdmin},
	})

	store := &fakeStore{cols: []string{"id"}, rows: sampleRows(1)}
	engine := NewEngine(registry, store, testLogger())

	_, err := engine.ExecuteReport(context.Background(), Request{
		TemplateID: "with-default",
		Role:       RoleAdmin,
		Mode:       ModeMaterialized,
	})
	require.NoError(t, err)
	assert.Equal(t, []any{"active"}, store.gotArgs)
}

func TestExecuteReportDefaultsDoNotOverrideSupplied(t *testing.T) {
	registry := NewRegistry()
	registry.Register(&Template{
		ID:   "with-default",
		Name: "With Default",
		QuerySkeleton: `SELECT * FROM students
WHERE 1=1
{{#status}}  AND status = ?{{/status}}`,
		Parameters: []Parameter{
			{Name: "status", Type: TypeString, Default: "active"},
		},
		AllowedRoles: []string{RoleAdmin},
	})

	store := &fakeStore{cols: []string{"id"}, rows: sampleRows(1)}
	engine := NewEngine(registry, store, testLogger())

	_, err := engine.ExecuteReport(context.Background(), Request{
		TemplateID: "with-default",
		Params:     map[string]any{"status": "withdrawn"},
		Role:       RoleAdmin,
		Mode:       ModeMaterialized,
	})
	require.NoError(t, err)
	assert.Equal(t, []any{"withdrawn"}, store.gotArgs)
}
