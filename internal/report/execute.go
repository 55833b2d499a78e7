package report

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// DataStore is the narrow interface to the relational store. Values are
// bound positionally; implementations must never interpolate them into the
// query text. cols preserves the result set's column order.
type DataStore interface {
	Query(ctx context.Context, query string, args []any) (cols []string, rows []Row, err error)
}

// executor submits assembled queries and shapes the outcome into the
// requested delivery mode.
type executor struct {
	store  DataStore
	logger *logrus.Logger
}

// run executes the query and wraps the rows per mode. A store failure is
// logged with context and surfaced as a single execution error; no partial
// result ever escapes.
func (e *executor) run(ctx context.Context, query string, args []any, mode OutputMode) ([]Column, Output, *int64, error) {
	cols, rows, err := e.store.Query(ctx, query, args)
	if err != nil {
		e.logger.WithError(err).WithFields(logrus.Fields{
			"query":      query,
			"bound_args": len(args),
		}).Error("report query failed")
		return nil, nil, nil, NewError(KindExecutionFailure, "report execution failed", err)
	}

	columns := inferColumns(cols, rows)

	if mode == ModeStreamed {
		return columns, Streamed{Stream: NewRowStream(rows)}, nil, nil
	}
	count := int64(len(rows))
	return columns, Materialized{Rows: rows}, &count, nil
}

// inferColumns tags each column with the runtime type of its first-row
// value. An empty result set yields an empty column list.
func inferColumns(cols []string, rows []Row) []Column {
	if len(rows) == 0 {
		return []Column{}
	}
	first := rows[0]
	out := make([]Column, 0, len(cols))
	for _, name := range cols {
		out = append(out, Column{Name: name, Type: typeTag(first[name])})
	}
	return out
}

func typeTag(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case int, int32, int64, float32, float64:
		return "number"
	case time.Time:
		return "date"
	case string:
		return "string"
	default:
		return fmt.Sprintf("%T", v)
	}
}
