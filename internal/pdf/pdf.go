// Package pdf renders report tables as A4 landscape documents for the
// export endpoints.
package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
)

// Column describes one table column. Width is a relative weight; the
// renderer scales weights to fill the printable width.
type Column struct {
	Header string
	Width  float64
	Right  bool // right-align (numeric columns)
}

// Table is a complete report ready to render.
type Table struct {
	Title       string
	GeneratedAt time.Time
	Columns     []Column
	Rows        [][]string
	Footer      []string // optional totals row, same arity as Columns
}

const (
	marginMM     = 10.0
	headerFill   = 235
	rowHeightMM  = 7.0
	titleSizePt  = 14.0
	bodySizePt   = 9.0
	footerSizePt = 8.0
)

// Render produces the PDF bytes for the table.
func Render(t Table) ([]byte, error) {
	if len(t.Columns) == 0 {
		return nil, fmt.Errorf("pdf: table has no columns")
	}

	doc := fpdf.New("L", "mm", "A4", "")
	doc.SetMargins(marginMM, marginMM, marginMM)
	doc.SetAutoPageBreak(true, marginMM+rowHeightMM)

	// Core fonts are cp1252; translate so accented names survive.
	tr := doc.UnicodeTranslatorFromDescriptor("")

	widths := scaledWidths(doc, t.Columns)

	writeHeader := func() {
		doc.SetFont("Helvetica", "B", bodySizePt)
		doc.SetFillColor(headerFill, headerFill, headerFill)
		for i, col := range t.Columns {
			doc.CellFormat(widths[i], rowHeightMM, tr(col.Header), "1", 0, align(col, true), true, 0, "")
		}
		doc.Ln(-1)
		doc.SetFont("Helvetica", "", bodySizePt)
	}

	doc.SetHeaderFunc(func() {
		doc.SetFont("Helvetica", "B", titleSizePt)
		doc.CellFormat(0, 8, tr(t.Title), "", 1, "L", false, 0, "")
		if !t.GeneratedAt.IsZero() {
			doc.SetFont("Helvetica", "", footerSizePt)
			doc.CellFormat(0, 5, t.GeneratedAt.Format("02/01/2006 15:04"), "", 1, "L", false, 0, "")
		}
		doc.Ln(2)
		writeHeader()
	})
	doc.SetFooterFunc(func() {
		doc.SetY(-marginMM - 5)
		doc.SetFont("Helvetica", "I", footerSizePt)
		doc.CellFormat(0, 5, fmt.Sprintf("%d", doc.PageNo()), "", 0, "C", false, 0, "")
	})

	doc.AddPage()

	for _, row := range t.Rows {
		for i, col := range t.Columns {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			doc.CellFormat(widths[i], rowHeightMM, tr(cell), "1", 0, align(col, false), false, 0, "")
		}
		doc.Ln(-1)
	}

	if len(t.Footer) > 0 {
		doc.SetFont("Helvetica", "B", bodySizePt)
		for i, col := range t.Columns {
			cell := ""
			if i < len(t.Footer) {
				cell = t.Footer[i]
			}
			doc.CellFormat(widths[i], rowHeightMM, tr(cell), "1", 0, align(col, false), false, 0, "")
		}
		doc.Ln(-1)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: render %q: %w", t.Title, err)
	}
	return buf.Bytes(), nil
}

// scaledWidths converts relative column weights into millimeters across
// the printable width.
func scaledWidths(doc *fpdf.Fpdf, cols []Column) []float64 {
	pageW, _ := doc.GetPageSize()
	usable := pageW - 2*marginMM

	total := 0.0
	for _, c := range cols {
		w := c.Width
		if w <= 0 {
			w = 1
		}
		total += w
	}

	widths := make([]float64, len(cols))
	for i, c := range cols {
		w := c.Width
		if w <= 0 {
			w = 1
		}
		widths[i] = usable * w / total
	}
	return widths
}

func align(col Column, header bool) string {
	if col.Right && !header {
		return "R"
	}
	return "L"
}
