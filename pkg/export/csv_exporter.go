package export

import (
	"fmt"

	"github.com/gocarina/gocsv"
)

// CSVExporter renders timetable rows into CSV bytes.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Render produces CSV encoded bytes with a header line even when rows is empty.
func (e *CSVExporter) Render(rows []TimetableRow) ([]byte, error) {
	if rows == nil {
		rows = []TimetableRow{}
	}
	out, err := gocsv.MarshalBytes(&rows)
	if err != nil {
		return nil, fmt.Errorf("render csv: %w", err)
	}
	return out, nil
}
