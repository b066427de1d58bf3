package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"epolice/internal/metrics"
)

const sheet = "Sheet1"

// Excel renders rows into a workbook and returns its bytes.
func Excel(opts Options, rows []Row) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	titleStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	if err != nil {
		return nil, err
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"4472C4"}},
	})
	if err != nil {
		return nil, err
	}

	headers := opts.headers()
	line := 1
	if opts.Meta.Title != "" {
		cell, _ := excelize.CoordinatesToCellName(1, line)
		if err := f.SetCellValue(sheet, cell, opts.Meta.Title); err != nil {
			return nil, err
		}
		_ = f.SetCellStyle(sheet, cell, cell, titleStyle)
		if len(headers) > 1 {
			end, _ := excelize.CoordinatesToCellName(len(headers), line)
			_ = f.MergeCell(sheet, cell, end)
		}
		line++
	}
	for _, ml := range opts.metaLines() {
		cell, _ := excelize.CoordinatesToCellName(1, line)
		if err := f.SetCellValue(sheet, cell, ml); err != nil {
			return nil, err
		}
		line++
	}
	line++ // blank spacer row before the table

	headerRow := line
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, headerRow)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}
	first, _ := excelize.CoordinatesToCellName(1, headerRow)
	last, _ := excelize.CoordinatesToCellName(len(headers), headerRow)
	_ = f.SetCellStyle(sheet, first, last, headerStyle)

	for ri, r := range rows {
		for ci, v := range opts.cells(ri, r) {
			cell, _ := excelize.CoordinatesToCellName(ci+1, headerRow+1+ri)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	// Widen columns roughly to the header text so exports open readable.
	for i, h := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		w := float64(len(h)) + 6
		if w < 12 {
			w = 12
		}
		_ = f.SetColWidth(sheet, col, col, w)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	metrics.ExportsTotal.WithLabelValues("excel").Inc()
	return buf.Bytes(), nil
}
