package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"github.com/samber/lo"
)

// PDFExporter renders timetables into a PDF with one section per room.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render creates a PDF document. Rows are grouped by room in first-seen order and
// every room starts on a new page.
func (e *PDFExporter) Render(rows []TimetableRow, title string) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)

	rooms := lo.Uniq(lo.Map(rows, func(r TimetableRow, _ int) string { return r.Room }))
	byRoom := lo.GroupBy(rows, func(r TimetableRow) string { return r.Room })
	if len(rooms) == 0 {
		pdf.AddPage()
		writeTitle(pdf, title)
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(0, 8, "No lectures scheduled", "", 1, "C", false, 0, "")
	}

	headers := Headers[1:]
	colWidth := 277.0 / float64(len(headers))
	for _, room := range rooms {
		pdf.AddPage()
		writeTitle(pdf, title)
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(0, 8, fmt.Sprintf("Room %s", room), "", 1, "L", false, 0, "")

		pdf.SetFont("Arial", "B", 10)
		for _, header := range headers {
			pdf.CellFormat(colWidth, 8, header, "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)

		pdf.SetFont("Arial", "", 9)
		for _, row := range byRoom[room] {
			for _, value := range row.values()[1:] {
				pdf.CellFormat(colWidth, 7, value, "1", 0, "", false, 0, "")
			}
			pdf.Ln(-1)
		}
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func writeTitle(pdf *gofpdf.Fpdf, title string) {
	if title == "" {
		return
	}
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 10, strings.ToUpper(title), "", 1, "C", false, 0, "")
	pdf.Ln(3)
}
