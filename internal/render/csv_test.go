package render

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"campus_srv/internal/report"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func csvResult(output report.Output) *report.Result {
	return &report.Result{
		Columns: []report.Column{
			{Name: "last_name", Type: "string"},
			{Name: "grade_level", Type: "string"},
		},
		Output: output,
		Metadata: report.Metadata{
			ExecutedAt:   time.Date(2024, 9, 1, 12, 0, 0, 0, time.UTC),
			TemplateName: "Student Roster",
		},
	}
}

func TestWriteCSVMaterialized(t *testing.T) {
	res := csvResult(report.Materialized{Rows: []report.Row{
		{"last_name": "Adams", "grade_level": "9"},
		{"last_name": "Baker", "grade_level": "10"},
	}})

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, res))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, []string{
		"last_name,grade_level",
		"Adams,9",
		"Baker,10",
	}, lines)
}

// Values containing the field delimiter are quoted.
func TestWriteCSVQuoting(t *testing.T) {
	res := csvResult(report.Materialized{Rows: []report.Row{
		{"last_name": `Smith, Jr.`, "grade_level": "11"},
	}})

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, res))
	assert.Contains(t, buf.String(), `"Smith, Jr.",11`)
}

func TestWriteCSVStreamed(t *testing.T) {
	rows := []report.Row{
		{"last_name": "Adams", "grade_level": "9"},
		{"last_name": "Baker", "grade_level": "10"},
	}

	var materialized bytes.Buffer
	require.NoError(t, WriteCSV(&materialized, csvResult(report.Materialized{Rows: rows})))

	stream := report.NewRowStream(rows)
	var streamed bytes.Buffer
	require.NoError(t, WriteCSV(&streamed, csvResult(report.Streamed{Stream: stream})))

	assert.Equal(t, materialized.String(), streamed.String())
}

func TestWriteCSVEmptyResult(t *testing.T) {
	res := &report.Result{
		Columns: []report.Column{},
		Output:  report.Materialized{Rows: nil},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, res))
	assert.Empty(t, buf.String())
}

func TestFormatCell(t *testing.T) {
	assert.Equal(t, "", formatCell(nil))
	assert.Equal(t, "x", formatCell("x"))
	assert.Equal(t, "42", formatCell(int64(42)))
	assert.Equal(t, "2024-09-01T00:00:00Z", formatCell(time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "bytes", formatCell([]byte("bytes")))
}
