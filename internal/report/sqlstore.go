package report

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// forbiddenStatements matches statement keywords the report store refuses to
// run. Word-bounded so column names like created_at do not trip it.
var forbiddenStatements = regexp.MustCompile(`(?i)\b(INSERT|UPDATE|DELETE|DROP|CREATE|ALTER|TRUNCATE|GRANT)\b`)

// SQLStore is the database/sql-backed DataStore. Skeletons are written with
// '?' placeholders; for postgres they are rewritten to $1..$n before
// submission. The store is read-only: anything but a query statement is
// rejected before it reaches the driver.
type SQLStore struct {
	db     *sql.DB
	driver string
}

// NewSQLStore wraps an open connection pool.
func NewSQLStore(db *sql.DB, driver string) *SQLStore {
	return &SQLStore{db: db, driver: driver}
}

// Query runs the parameterized query and scans every row into a map keyed
// by column name. Column order is returned alongside since Go maps do not
// keep it. []byte values are converted to string so drivers without type
// metadata (sqlite, postgres text columns) produce comparable results.
func (s *SQLStore) Query(ctx context.Context, query string, args []any) ([]string, []Row, error) {
	if err := guardReadOnly(query); err != nil {
		return nil, nil, err
	}

	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	results := make([]Row, 0)
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range ptrs {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		row := make(Row, len(cols))
		for i, col := range cols {
			if b, ok := vals[i].([]byte); ok {
				row[col] = string(b)
			} else {
				row[col] = vals[i]
			}
		}
		results = append(results, row)
	}
	return cols, results, rows.Err()
}

// rebind rewrites '?' placeholders to postgres-style $1..$n when needed.
// Placeholders only ever come from fragment text, never from values, so a
// plain scan is sufficient.
func (s *SQLStore) rebind(query string) string {
	if s.driver != "postgres" {
		return query
	}
	var out strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			out.WriteByte('$')
			out.WriteString(strconv.Itoa(n))
			continue
		}
		out.WriteRune(r)
	}
	return out.String()
}

// guardReadOnly rejects statements that modify data or schema.
func guardReadOnly(query string) error {
	if m := forbiddenStatements.FindString(query); m != "" {
		return fmt.Errorf("forbidden statement keyword %q in report query", strings.ToUpper(m))
	}
	return nil
}
