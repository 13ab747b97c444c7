package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/collegetrack/collegetrack-api/internal/models"
	appErrors "github.com/collegetrack/collegetrack-api/pkg/errors"
	"github.com/collegetrack/collegetrack-api/pkg/export"
)

// ExportFormat enumerates supported export encodings.
type ExportFormat string

const (
	ExportCSV ExportFormat = "csv"
	ExportPDF ExportFormat = "pdf"
)

// ExportResult is a rendered export ready for download.
type ExportResult struct {
	FileName    string
	ContentType string
	Content     []byte
}

// ExportService renders a student's application list as a downloadable
// progress report. Rendering is synchronous; the dataset is one
// family's applications, never large enough to need a job queue.
type ExportService struct {
	dashboards *DashboardService
	csv        *export.CSVExporter
	pdf        *export.PDFExporter
	logger     *zap.Logger
	enabled    bool
	now        func() time.Time
}

// NewExportService constructs an ExportService.
func NewExportService(dashboards *DashboardService, logger *zap.Logger, enabled bool) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		dashboards: dashboards,
		csv:        export.NewCSVExporter(),
		pdf:        export.NewPDFExporter(),
		logger:     logger,
		enabled:    enabled,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// ApplicationsReport renders the acting student's applications in the
// requested format.
func (s *ExportService) ApplicationsReport(ctx context.Context, claims *models.JWTClaims, format ExportFormat) (*ExportResult, error) {
	if !s.enabled {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "exports are disabled")
	}
	if format != ExportCSV && format != ExportPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}

	dashboard, err := s.dashboards.StudentDashboard(ctx, claims)
	if err != nil {
		return nil, err
	}

	dataset := export.Dataset{
		Headers: []string{"University", "Track", "Status", "Deadline", "Progress", "Submitted", "Decision"},
		Summary: []string{
			fmt.Sprintf("Applications: %d", dashboard.Stats.TotalApplications),
			fmt.Sprintf("Submitted: %d", dashboard.Stats.Submitted),
			fmt.Sprintf("Decisions: %d (accepted %d, rejected %d, waitlisted %d)",
				dashboard.Stats.Decisions, dashboard.Stats.Acceptances,
				dashboard.Stats.Rejections, dashboard.Stats.Waitlisted),
		},
	}
	for _, app := range dashboard.Applications {
		submitted := ""
		if app.SubmittedDate != nil {
			submitted = app.SubmittedDate.Format("2006-01-02")
		}
		decision := ""
		if app.DecisionType != nil {
			decision = string(*app.DecisionType)
		}
		dataset.Rows = append(dataset.Rows, map[string]string{
			"University": app.UniversityName,
			"Track":      string(app.ApplicationType),
			"Status":     string(app.Status),
			"Deadline":   app.Deadline.Format("2006-01-02"),
			"Progress":   strconv.Itoa(app.Progress) + "%",
			"Submitted":  submitted,
			"Decision":   decision,
		})
	}

	stamp := s.now().Format("20060102")
	switch format {
	case ExportCSV:
		content, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv export")
		}
		return &ExportResult{
			FileName:    fmt.Sprintf("applications-%s.csv", stamp),
			ContentType: "text/csv",
			Content:     content,
		}, nil
	default:
		content, err := s.pdf.Render(dataset, "Application Progress Report")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf export")
		}
		return &ExportResult{
			FileName:    fmt.Sprintf("applications-%s.pdf", stamp),
			ContentType: "application/pdf",
			Content:     content,
		}, nil
	}
}
