package render

import (
	"bytes"
	"fmt"

	"campus_srv/internal/report"

	"github.com/jung-kurt/gofpdf"
)

// DefaultPDFRowLimit caps the tabular PDF body when no limit is configured.
const DefaultPDFRowLimit = 200

// WritePDF renders the result as a landscape A4 table. Only the first
// maxRows rows are printed; when the result is larger a truncation notice
// replaces the remainder.
func WritePDF(res *report.Result, maxRows int) (*bytes.Buffer, error) {
	if maxRows <= 0 {
		maxRows = DefaultPDFRowLimit
	}
	rows := materialize(res)

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 10, res.Metadata.TemplateName, "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(0, 6, fmt.Sprintf("Executed: %s", res.Metadata.ExecutedAt.Format("2006-01-02 15:04:05")), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	if len(res.Columns) == 0 {
		pdf.SetFont("Arial", "I", 10)
		pdf.CellFormat(0, 8, "No rows matched.", "", 1, "", false, 0, "")
		return pdfBuffer(pdf)
	}

	pageWidth, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	colWidth := (pageWidth - left - right) / float64(len(res.Columns))

	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(230, 230, 250)
	for _, col := range res.Columns {
		pdf.CellFormat(colWidth, 7, col.Name, "1", 0, "", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 8)
	for i, row := range rows {
		if i == maxRows {
			pdf.SetFont("Arial", "I", 8)
			pdf.CellFormat(0, 6, fmt.Sprintf("... %d additional rows omitted ...", len(rows)-maxRows), "", 1, "", false, 0, "")
			break
		}
		for _, col := range res.Columns {
			pdf.CellFormat(colWidth, 6, formatCell(row[col.Name]), "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}

	return pdfBuffer(pdf)
}

func pdfBuffer(pdf *gofpdf.Fpdf) (*bytes.Buffer, error) {
	var buffer bytes.Buffer
	if err := pdf.Output(&buffer); err != nil {
		return nil, fmt.Errorf("failed to write pdf file: %w", err)
	}
	return &buffer, nil
}
