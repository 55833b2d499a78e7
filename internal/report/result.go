package report

import "time"

// Row is one result record, keyed by column name. Column order lives in
// Result.Columns; the map itself is unordered.
type Row map[string]any

// Column describes one output column with a coarse type tag inferred from
// the first row's value.
type Column struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Metadata describes one execution. RowCount is nil for streamed results,
// where the total is unknown until the consumer drains the stream.
type Metadata struct {
	ExecutedAt   time.Time `json:"executed_at"`
	RowCount     *int64    `json:"row_count,omitempty"`
	TemplateName string    `json:"template_name"`
}

// Output is the sum of the two delivery shapes. Exactly one concrete type
// is ever produced per execution; the mutual exclusivity of rows vs. stream
// is enforced by the type, not by nullable fields.
type Output interface{ isOutput() }

// Materialized is the fully realized in-memory row set.
type Materialized struct {
	Rows []Row
}

// Streamed wraps a single-pass, forward-only row sequence.
type Streamed struct {
	Stream *RowStream
}

func (Materialized) isOutput() {}
func (Streamed) isOutput()     {}

// Result is the engine's output envelope.
type Result struct {
	Columns  []Column
	Output   Output
	Metadata Metadata
}

// OutputMode selects the delivery shape of a report execution.
type OutputMode string

const (
	ModeMaterialized OutputMode = "materialized"
	ModeStreamed     OutputMode = "streamed"
)
