// Package render holds the output formatters. Each one is a pure function
// over a report.Result; none of them know how the result was produced.
package render

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"campus_srv/internal/report"
)

// WriteCSV renders the result as RFC 4180 CSV: one header record, one record
// per row. encoding/csv handles quoting of values containing delimiters.
//
// The writer is flushed after every record, so when w is an HTTP response
// the consumer's read pace propagates back through the stream.
func WriteCSV(w io.Writer, res *report.Result) error {
	cw := csv.NewWriter(w)

	if len(res.Columns) > 0 {
		header := make([]string, len(res.Columns))
		for i, col := range res.Columns {
			header[i] = col.Name
		}
		if err := cw.Write(header); err != nil {
			return fmt.Errorf("failed to write csv header: %w", err)
		}
	}

	writeRow := func(row report.Row) error {
		record := make([]string, len(res.Columns))
		for i, col := range res.Columns {
			record[i] = formatCell(row[col.Name])
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write csv record: %w", err)
		}
		cw.Flush()
		return cw.Error()
	}

	switch out := res.Output.(type) {
	case report.Materialized:
		for _, row := range out.Rows {
			if err := writeRow(row); err != nil {
				return err
			}
		}
	case report.Streamed:
		defer out.Stream.Close()
		for {
			row, ok := out.Stream.Next()
			if !ok {
				break
			}
			if err := writeRow(row); err != nil {
				return err
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

// formatCell renders one value for textual output.
func formatCell(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case time.Time:
		return val.Format(time.RFC3339)
	case []byte:
		return string(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
