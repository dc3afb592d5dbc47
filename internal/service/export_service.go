package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/lecture-room-api/internal/models"
	appErrors "github.com/noah-isme/lecture-room-api/pkg/errors"
	"github.com/noah-isme/lecture-room-api/pkg/export"
)

// Supported export formats.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

type scheduleRowSource interface {
	ListAll(ctx context.Context) ([]models.LectureScheduleEntry, error)
}

type csvRenderer interface {
	Render(rows []export.TimetableRow) ([]byte, error)
}

type pdfRenderer interface {
	Render(rows []export.TimetableRow, title string) ([]byte, error)
}

// ExportResult is a rendered timetable ready to be streamed.
type ExportResult struct {
	Filename    string
	ContentType string
	Body        []byte
}

// ExportService renders the stored schedule as a downloadable timetable.
type ExportService struct {
	rows   scheduleRowSource
	csv    csvRenderer
	pdf    pdfRenderer
	logger *zap.Logger
	now    func() time.Time
}

// NewExportService constructs an ExportService.
func NewExportService(rows scheduleRowSource, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{rows: rows, csv: csv, pdf: pdf, logger: logger, now: time.Now}
}

// Export renders the schedule in the requested format; an empty format means CSV.
func (s *ExportService) Export(ctx context.Context, format string) (*ExportResult, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = ExportFormatCSV
	}
	if format != ExportFormatCSV && format != ExportFormatPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}

	entries, err := s.rows.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule")
	}
	rows := TimetableRows(entries)
	stamp := s.now().UTC().Format("20060102-150405")

	var result ExportResult
	switch format {
	case ExportFormatPDF:
		body, err := s.pdf.Render(rows, "Lecture room timetable")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render timetable")
		}
		result = ExportResult{Filename: "schedule-" + stamp + ".pdf", ContentType: "application/pdf", Body: body}
	default:
		body, err := s.csv.Render(rows)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render timetable")
		}
		result = ExportResult{Filename: "schedule-" + stamp + ".csv", ContentType: "text/csv", Body: body}
	}

	s.logger.Info("schedule exported", zap.String("format", format), zap.Int("rows", len(rows)))
	return &result, nil
}

// TimetableRows maps stored bookings to export rows, keeping their order.
func TimetableRows(entries []models.LectureScheduleEntry) []export.TimetableRow {
	rows := make([]export.TimetableRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, export.TimetableRow{
			Room:       e.RoomName,
			Day:        e.Day,
			Time:       e.Time,
			Department: e.Department,
			Level:      e.Level,
			Subject:    e.SubjectName,
			Group:      e.GroupName,
			Mode:       string(e.Mode),
		})
	}
	return rows
}
