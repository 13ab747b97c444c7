package service

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/collegetrack/collegetrack-api/internal/dto"
	"github.com/collegetrack/collegetrack-api/internal/models"
	appErrors "github.com/collegetrack/collegetrack-api/pkg/errors"
)

type dashboardApplicationRepository interface {
	ListByStudent(ctx context.Context, studentID string) ([]models.Application, error)
}

type dashboardUniversityRepository interface {
	FindByIDs(ctx context.Context, ids []string) ([]models.University, error)
}

type dashboardRequirementRepository interface {
	ListByApplicationIDs(ctx context.Context, applicationIDs []string) ([]models.ApplicationRequirement, error)
}

type dashboardStudentRepository interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
}

type dashboardNoteRepository interface {
	ListByStudent(ctx context.Context, parentID, studentID string, limit int) ([]models.ParentNote, error)
}

// DashboardConfig tunes dashboard aggregation windows.
type DashboardConfig struct {
	UpcomingWindow       time.Duration
	RecentActivityWindow time.Duration
	ParentNotesLimit     int
	RecentActivityLimit  int
}

// DashboardService composes dashboard payloads for students and
// parents. Every payload is built from three batched queries
// (applications, universities, requirements) regardless of how many
// applications the student tracks, and is recomputed on every read so
// progress and days-until-deadline never go stale.
type DashboardService struct {
	apps         dashboardApplicationRepository
	universities dashboardUniversityRepository
	requirements dashboardRequirementRepository
	students     dashboardStudentRepository
	notes        dashboardNoteRepository
	guard        *AccessGuard
	logger       *zap.Logger
	now          func() time.Time
	cfg          DashboardConfig
}

// DashboardServiceParams groups constructor dependencies.
type DashboardServiceParams struct {
	Applications dashboardApplicationRepository
	Universities dashboardUniversityRepository
	Requirements dashboardRequirementRepository
	Students     dashboardStudentRepository
	Notes        dashboardNoteRepository
	Guard        *AccessGuard
	Logger       *zap.Logger
	Config       DashboardConfig
}

// NewDashboardService constructs a DashboardService with sane defaults.
func NewDashboardService(params DashboardServiceParams) *DashboardService {
	cfg := params.Config
	if cfg.UpcomingWindow <= 0 {
		cfg.UpcomingWindow = 30 * 24 * time.Hour
	}
	if cfg.RecentActivityWindow <= 0 {
		cfg.RecentActivityWindow = 7 * 24 * time.Hour
	}
	if cfg.ParentNotesLimit <= 0 {
		cfg.ParentNotesLimit = 5
	}
	if cfg.RecentActivityLimit <= 0 {
		cfg.RecentActivityLimit = 10
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		apps:         params.Applications,
		universities: params.Universities,
		requirements: params.Requirements,
		students:     params.Students,
		notes:        params.Notes,
		guard:        params.Guard,
		logger:       logger,
		now:          func() time.Time { return time.Now().UTC() },
		cfg:          cfg,
	}
}

// StudentDashboard builds the acting student's own dashboard.
func (s *DashboardService) StudentDashboard(ctx context.Context, claims *models.JWTClaims) (*dto.StudentDashboardResponse, error) {
	student, err := s.guard.StudentForUser(ctx, claims)
	if err != nil {
		return nil, err
	}

	view, err := s.load(ctx, student.ID)
	if err != nil {
		return nil, err
	}

	return &dto.StudentDashboardResponse{
		Stats:             view.stats(),
		UpcomingDeadlines: view.upcomingDeadlines(s.now(), s.cfg.UpcomingWindow),
		Applications:      view.overviews(),
	}, nil
}

// ParentDashboard builds a parent's view of one linked student.
func (s *DashboardService) ParentDashboard(ctx context.Context, claims *models.JWTClaims, studentID string) (*dto.ParentDashboardResponse, error) {
	if err := s.guard.CanViewStudent(ctx, claims, studentID); err != nil {
		return nil, err
	}

	student, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch student")
	}

	view, err := s.load(ctx, studentID)
	if err != nil {
		return nil, err
	}

	notes, err := s.notes.ListByStudent(ctx, claims.UserID, studentID, s.cfg.ParentNotesLimit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list notes")
	}
	noteSummaries := make([]dto.ParentNoteSummary, 0, len(notes))
	for _, n := range notes {
		noteSummaries = append(noteSummaries, dto.ParentNoteSummary{
			ID:            n.ID,
			ApplicationID: n.ApplicationID,
			Note:          n.Note,
			CreatedAt:     n.CreatedAt,
		})
	}

	now := s.now()
	return &dto.ParentDashboardResponse{
		Student: dto.ParentStudentInfo{
			ID:             student.ID,
			Name:           student.Name,
			GraduationYear: student.GraduationYear,
			GPA:            student.GPA,
			SATScore:       student.SATScore,
			ACTScore:       student.ACTScore,
			IntendedMajors: student.IntendedMajors,
		},
		Stats:              view.stats(),
		FinancialEstimates: view.financialEstimates(),
		UpcomingDeadlines:  view.upcomingDeadlines(now, s.cfg.UpcomingWindow),
		RecentActivity:     view.recentActivity(now, s.cfg.RecentActivityWindow, s.cfg.RecentActivityLimit),
		ParentNotes:        noteSummaries,
		Applications:       view.overviews(),
	}, nil
}

// dashboardView holds the batched raw rows a dashboard derives from.
type dashboardView struct {
	apps         []models.Application
	universities map[string]models.University
	requirements map[string][]models.ApplicationRequirement
}

func (s *DashboardService) load(ctx context.Context, studentID string) (*dashboardView, error) {
	apps, err := s.apps.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list applications")
	}

	universityIDs := make([]string, 0, len(apps))
	seen := make(map[string]bool, len(apps))
	applicationIDs := make([]string, 0, len(apps))
	for _, app := range apps {
		applicationIDs = append(applicationIDs, app.ID)
		if !seen[app.UniversityID] {
			seen[app.UniversityID] = true
			universityIDs = append(universityIDs, app.UniversityID)
		}
	}

	universities, err := s.universities.FindByIDs(ctx, universityIDs)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch universities")
	}
	universityByID := make(map[string]models.University, len(universities))
	for _, u := range universities {
		universityByID[u.ID] = u
	}

	requirements, err := s.requirements.ListByApplicationIDs(ctx, applicationIDs)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch requirements")
	}
	requirementsByApp := make(map[string][]models.ApplicationRequirement)
	for _, r := range requirements {
		requirementsByApp[r.ApplicationID] = append(requirementsByApp[r.ApplicationID], r)
	}

	return &dashboardView{apps: apps, universities: universityByID, requirements: requirementsByApp}, nil
}

// stats counts applications by lifecycle stage. An application counts
// as submitted from the moment it leaves the student's hands, so
// under_review and decided stay in the submitted tally. Acceptance,
// rejection and waitlist tallies follow the recorded decision type
// alone, whatever stage the application sits in.
func (v *dashboardView) stats() dto.ApplicationStats {
	stats := dto.ApplicationStats{TotalApplications: len(v.apps)}
	for _, app := range v.apps {
		if !app.Status.Before(models.StatusSubmitted) {
			stats.Submitted++
		}
		if app.Status == models.StatusInProgress {
			stats.InProgress++
		}
		if app.Status == models.StatusDecided {
			stats.Decisions++
		}
		if app.DecisionType != nil {
			switch *app.DecisionType {
			case models.DecisionAccepted:
				stats.Acceptances++
			case models.DecisionRejected:
				stats.Rejections++
			case models.DecisionWaitlisted:
				stats.Waitlisted++
			}
		}
	}
	return stats
}

// upcomingDeadlines lists applications whose deadline falls inside
// [now, now+window], both ends inclusive. Only the submitted state is
// skipped; an application already under review or decided keeps its
// deadline visible. Days remaining round up, so a deadline 12 hours
// away still reads as one day.
func (v *dashboardView) upcomingDeadlines(now time.Time, window time.Duration) []dto.UpcomingDeadline {
	horizon := now.Add(window)
	deadlines := make([]dto.UpcomingDeadline, 0)
	for _, app := range v.apps {
		if app.Status == models.StatusSubmitted {
			continue
		}
		if app.Deadline.Before(now) || app.Deadline.After(horizon) {
			continue
		}
		days := int((app.Deadline.Sub(now) + 24*time.Hour - time.Nanosecond) / (24 * time.Hour))
		deadlines = append(deadlines, dto.UpcomingDeadline{
			ApplicationID:     app.ID,
			UniversityName:    v.universityName(app.UniversityID),
			ApplicationType:   app.ApplicationType,
			Deadline:          app.Deadline,
			Status:            app.Status,
			DaysUntilDeadline: days,
		})
	}
	sort.Slice(deadlines, func(i, j int) bool {
		return deadlines[i].Deadline.Before(deadlines[j].Deadline)
	})
	return deadlines
}

// recentActivity lists applications touched inside the recent window,
// newest first. The label prefers the submission event, then a received
// decision, then a plain update.
func (v *dashboardView) recentActivity(now time.Time, window time.Duration, limit int) []dto.RecentActivity {
	cutoff := now.Add(-window)
	activity := make([]dto.RecentActivity, 0)
	for _, app := range v.apps {
		if app.UpdatedAt.Before(cutoff) {
			continue
		}
		action := dto.ActivityUpdated
		switch {
		case app.SubmittedDate != nil && !app.SubmittedDate.Before(cutoff):
			action = dto.ActivitySubmitted
		case app.Status == models.StatusDecided && app.DecisionDate != nil && !app.DecisionDate.Before(cutoff):
			action = dto.ActivityDecisionReceived
		}
		activity = append(activity, dto.RecentActivity{
			ApplicationID:   app.ID,
			UniversityName:  v.universityName(app.UniversityID),
			ApplicationType: app.ApplicationType,
			Status:          app.Status,
			UpdatedAt:       app.UpdatedAt,
			Action:          action,
		})
	}
	sort.Slice(activity, func(i, j int) bool {
		return activity[i].UpdatedAt.After(activity[j].UpdatedAt)
	})
	if len(activity) > limit {
		activity = activity[:limit]
	}
	return activity
}

// financialEstimates sums application fees and bounds yearly tuition
// across the targeted universities. Unpublished figures count as zero.
// The lower bound takes in-state rates where published; the upper
// bound prefers out-of-state.
func (v *dashboardView) financialEstimates() dto.FinancialEstimates {
	est := dto.FinancialEstimates{}
	for _, app := range v.apps {
		university, ok := v.universities[app.UniversityID]
		if !ok {
			continue
		}
		est.TotalApplicationFees += amountOrZero(university.ApplicationFee)

		low := amountOrZero(university.TuitionInState)
		if low <= 0 {
			low = amountOrZero(university.TuitionOutState)
		}
		high := amountOrZero(university.TuitionOutState)
		if high <= 0 {
			high = amountOrZero(university.TuitionInState)
		}
		if low > 0 && (est.EstimatedTuitionRange.Min == 0 || low < est.EstimatedTuitionRange.Min) {
			est.EstimatedTuitionRange.Min = low
		}
		if high > est.EstimatedTuitionRange.Max {
			est.EstimatedTuitionRange.Max = high
		}
	}
	return est
}

func (v *dashboardView) overviews() []dto.ApplicationOverview {
	overviews := make([]dto.ApplicationOverview, 0, len(v.apps))
	for _, app := range v.apps {
		overviews = append(overviews, dto.ApplicationOverview{
			ApplicationID:   app.ID,
			UniversityName:  v.universityName(app.UniversityID),
			ApplicationType: app.ApplicationType,
			Status:          app.Status,
			Deadline:        app.Deadline,
			Progress:        models.Progress(v.requirements[app.ID]),
			SubmittedDate:   app.SubmittedDate,
			DecisionType:    app.DecisionType,
		})
	}
	return overviews
}

func amountOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func (v *dashboardView) universityName(id string) string {
	if u, ok := v.universities[id]; ok {
		return u.Name
	}
	return ""
}
