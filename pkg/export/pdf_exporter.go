package export

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/arnavshah/timetable-api-go/pkg/models"
)

// PDFExporter renders a week as a landscape table followed by its warnings.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render creates a PDF document with an optional title, the table body and
// one line per warning.
func (e *PDFExporter) Render(data Dataset, title string, warnings []models.Warning) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("pdf requires at least one header")
	}
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()

	if title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, strings.ToUpper(title), "", 1, "C", false, 0, "")
		pdf.Ln(5)
	}

	pdf.SetFont("Arial", "B", 10)
	colWidth := 277.0 / float64(len(data.Headers))
	for _, header := range data.Headers {
		pdf.CellFormat(colWidth, 8, header, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for i, row := range data.Rows {
		fill := false
		if i < len(data.Fills) {
			if r, g, b, ok := tint(data.Fills[i]); ok {
				pdf.SetFillColor(r, g, b)
				fill = true
			}
		}
		for _, header := range data.Headers {
			pdf.CellFormat(colWidth, 7, row[header], "1", 0, "", fill, 0, "")
		}
		pdf.Ln(-1)
	}

	if len(warnings) > 0 {
		pdf.Ln(5)
		pdf.SetFont("Arial", "B", 11)
		pdf.CellFormat(0, 8, "Warnings", "", 1, "", false, 0, "")
		pdf.SetFont("Arial", "", 9)
		for _, w := range warnings {
			pdf.MultiCell(0, 6, fmt.Sprintf("[%s] %s", w.Code, w.Message), "", "", false)
		}
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// tint parses and lightens "#rrggbb" so table text stays readable over it.
func tint(s string) (int, int, int, bool) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	lighten := func(c uint64) int { return int(c + (255-c)*2/3) }
	return lighten(v >> 16 & 0xff), lighten(v >> 8 & 0xff), lighten(v & 0xff), true
}
