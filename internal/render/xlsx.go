package render

import (
	"bytes"
	"fmt"

	"campus_srv/internal/report"

	"github.com/xuri/excelize/v2"
)

// WriteXLSX renders the result as a single-sheet workbook with a styled
// header row. Streamed output is drained first; XLSX is a buffered format.
func WriteXLSX(res *report.Result) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Report"
	f.SetSheetName("Sheet1", sheet)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
			Size: 12,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6E6FA"},
			Pattern: 1,
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		headerStyle = 0
	}

	for i, col := range res.Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, col.Name)
		if headerStyle != 0 {
			f.SetCellStyle(sheet, cell, cell, headerStyle)
		}
	}

	for rowIndex, row := range materialize(res) {
		for colIndex, col := range res.Columns {
			cell, _ := excelize.CoordinatesToCellName(colIndex+1, rowIndex+2)
			f.SetCellValue(sheet, cell, formatCell(row[col.Name]))
		}
	}

	if len(res.Columns) > 0 {
		last, _ := excelize.ColumnNumberToName(len(res.Columns))
		f.SetColWidth(sheet, "A", last, 24)
	}

	var buffer bytes.Buffer
	if err := f.Write(&buffer); err != nil {
		return nil, fmt.Errorf("failed to write xlsx file: %w", err)
	}
	return &buffer, nil
}

// materialize flattens either output shape into a slice.
func materialize(res *report.Result) []report.Row {
	switch out := res.Output.(type) {
	case report.Materialized:
		return out.Rows
	case report.Streamed:
		defer out.Stream.Close()
		return out.Stream.Drain()
	}
	return nil
}
