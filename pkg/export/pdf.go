package export

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"epolice/internal/metrics"
)

// PDF renders rows into a landscape A4 table: title, metadata block, filled
// header row, zebra-striped body and a page-numbered footer.
func PDF(opts Options, rows []Row) ([]byte, error) {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d of {nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	if opts.Meta.Title != "" {
		pdf.SetFont("Helvetica", "B", 14)
		pdf.CellFormat(0, 9, opts.Meta.Title, "", 1, "C", false, 0, "")
	}
	pdf.SetFont("Helvetica", "", 9)
	for _, ml := range opts.metaLines() {
		pdf.CellFormat(0, 5, ml, "", 1, "L", false, 0, "")
	}
	pdf.Ln(3)

	headers := opts.headers()
	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	colW := (pageW - left - right) / float64(len(headers))

	drawHeader := func() {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(68, 114, 196)
		pdf.SetTextColor(255, 255, 255)
		for _, h := range headers {
			pdf.CellFormat(colW, 8, h, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(0, 0, 0)
	}
	drawHeader()

	_, pageH := pdf.GetPageSize()
	for ri, r := range rows {
		if pdf.GetY() > pageH-25 {
			pdf.AddPage()
			drawHeader()
		}
		fill := ri%2 == 1
		pdf.SetFillColor(235, 240, 250)
		for _, v := range opts.cells(ri, r) {
			pdf.CellFormat(colW, 7, v, "1", 0, "L", fill, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	metrics.ExportsTotal.WithLabelValues("pdf").Inc()
	return buf.Bytes(), nil
}
