package report

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStoreDB(t *testing.T) *sql.DB {
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`CREATE TABLE students (
		id INTEGER PRIMARY KEY,
		last_name TEXT,
		grade_level TEXT,
		created_at TEXT
	)`)
	require.NoError(t, err)

	for _, row := range [][]any{
		{1, "Adams", "9", "2024-08-15"},
		{2, "Baker", "10", "2024-08-16"},
		{3, "Cruz", "9", "2024-08-17"},
	} {
		_, err = db.Exec(`INSERT INTO students (id, last_name, grade_level, created_at) VALUES (?, ?, ?, ?)`, row...)
		require.NoError(t, err)
	}
	return db
}

func TestSQLStoreQuery(t *testing.T) {
	store := NewSQLStore(setupStoreDB(t), "sqlite")

	cols, rows, err := store.Query(context.Background(),
		"SELECT id, last_name, created_at FROM students WHERE grade_level = ? ORDER BY last_name", []any{"9"})
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "last_name", "created_at"}, cols)
	require.Len(t, rows, 2)
	assert.Equal(t, "Adams", rows[0]["last_name"])
	assert.Equal(t, "Cruz", rows[1]["last_name"])
}

func TestSQLStoreEmptyResult(t *testing.T) {
	store := NewSQLStore(setupStoreDB(t), "sqlite")

	cols, rows, err := store.Query(context.Background(),
		"SELECT id FROM students WHERE grade_level = ?", []any{"12"})
	require.NoError(t, err)
	assert.Equal(t, []string{"id"}, cols)
	assert.Empty(t, rows)
}

func TestSQLStoreRejectsWriteStatements(t *testing.T) {
	store := NewSQLStore(setupStoreDB(t), "sqlite")

	for _, query := range []string{
		"DELETE FROM students",
		"INSERT INTO students (id) VALUES (9)",
		"DROP TABLE students",
		"UPDATE students SET grade_level = '12'",
	} {
		_, _, err := store.Query(context.Background(), query, nil)
		assert.Error(t, err, query)
	}
}

// Column names sharing a prefix with a forbidden keyword must not trip the
// guard.
func TestSQLStoreGuardWordBoundaries(t *testing.T) {
	store := NewSQLStore(setupStoreDB(t), "sqlite")

	_, rows, err := store.Query(context.Background(),
		"SELECT created_at FROM students WHERE id = ?", []any{1})
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestSQLStoreRebindPostgres(t *testing.T) {
	store := NewSQLStore(nil, "postgres")
	assert.Equal(t,
		"SELECT * FROM t WHERE a = $1 AND b = $2",
		store.rebind("SELECT * FROM t WHERE a = ? AND b = ?"))

	sqlite := NewSQLStore(nil, "sqlite")
	assert.Equal(t, "SELECT ?", sqlite.rebind("SELECT ?"))
}
