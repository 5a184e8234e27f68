package service

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/frcteamops/pitcrew-api/internal/models"
	appErrors "github.com/frcteamops/pitcrew-api/pkg/errors"
	"github.com/frcteamops/pitcrew-api/pkg/export"
)

// ReportFormat selects the rendering of an exported report.
type ReportFormat string

const (
	ReportFormatCSV ReportFormat = "csv"
	ReportFormatPDF ReportFormat = "pdf"
)

type exportHoursProvider interface {
	AttendanceReport(ctx context.Context, season models.SeasonContext, opts ReportOptions) ([]models.MemberHoursReport, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportResult carries a rendered report and its media type.
type ExportResult struct {
	Payload     []byte
	ContentType string
	Filename    string
}

// ExportService renders the attendance report for download.
type ExportService struct {
	hours  exportHoursProvider
	csv    csvRenderer
	pdf    pdfRenderer
	logger *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(hours exportHoursProvider, csv csvRenderer, pdf pdfRenderer, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{hours: hours, csv: csv, pdf: pdf, logger: logger}
}

// AttendanceReport renders the per-member hours report in the requested
// format.
func (s *ExportService) AttendanceReport(ctx context.Context, season models.SeasonContext, opts ReportOptions, format ReportFormat) (*ExportResult, error) {
	reports, err := s.hours.AttendanceReport(ctx, season, opts)
	if err != nil {
		return nil, err
	}

	dataset := buildReportDataset(reports)
	switch format {
	case ReportFormatCSV:
		payload, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv report")
		}
		return &ExportResult{
			Payload:     payload,
			ContentType: "text/csv",
			Filename:    fmt.Sprintf("attendance-report-%s.csv", season.SeasonID),
		}, nil
	case ReportFormatPDF:
		payload, err := s.pdf.Render(dataset, "Attendance Report")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf report")
		}
		return &ExportResult{
			Payload:     payload,
			ContentType: "application/pdf",
			Filename:    fmt.Sprintf("attendance-report-%s.pdf", season.SeasonID),
		}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
}

func buildReportDataset(reports []models.MemberHoursReport) export.Dataset {
	headers := []string{"Member", "Required Hours", "Regular Hours", "Regular %", "Event Hours", "Event %"}
	rows := make([]map[string]string, 0, len(reports))
	for i := range reports {
		report := &reports[i]
		rows = append(rows, map[string]string{
			"Member":         report.FullName,
			"Required Hours": strconv.FormatFloat(report.ReqRegTime, 'f', 2, 64),
			"Regular Hours":  strconv.FormatFloat(report.RegTime, 'f', 2, 64),
			"Regular %":      strconv.Itoa(report.RegTimePercentage),
			"Event Hours":    strconv.FormatFloat(report.EventTime, 'f', 2, 64),
			"Event %":        strconv.Itoa(report.EventTimePercentage),
		})
	}
	return export.Dataset{Headers: headers, Rows: rows}
}
