package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/bailakids/registration-api/internal/models"
	appErrors "github.com/bailakids/registration-api/pkg/errors"
)

type legacyStudentLister interface {
	ListWithSelectedDays(ctx context.Context, session models.Session) ([]models.Student, error)
}

type sectionMatcher interface {
	FirstByLocationDay(ctx context.Context, location models.Location, day models.Day, session models.Session) (*models.ClassSection, error)
}

type enrollmentEnsurer interface {
	EnsureActive(ctx context.Context, studentID, sectionID string) (bool, error)
}

// BackfillReport summarises one backfill run.
type BackfillReport struct {
	Session  models.Session `json:"session"`
	Students int            `json:"students"`
	Created  int            `json:"created"`
	Existing int            `json:"existing"`
	// Unmatched counts selected days with no active section at the student's studio.
	Unmatched int `json:"unmatched"`
}

// BackfillService moves day-based registrations onto sections.
type BackfillService struct {
	students    legacyStudentLister
	sections    sectionMatcher
	enrollments enrollmentEnsurer
	catalog     sectionsInvalidator
	logger      *zap.Logger
}

// NewBackfillService constructs a BackfillService.
func NewBackfillService(students legacyStudentLister, sections sectionMatcher, enrollments enrollmentEnsurer, catalog sectionsInvalidator, logger *zap.Logger) *BackfillService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BackfillService{students: students, sections: sections, enrollments: enrollments, catalog: catalog, logger: logger}
}

// Run creates an ACTIVE enrollment in the first matching section for every selected day. Reruns are no-ops.
func (s *BackfillService) Run(ctx context.Context, session models.Session) (*BackfillReport, error) {
	students, err := s.students.ListWithSelectedDays(ctx, session)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list legacy students")
	}

	report := &BackfillReport{Session: session, Students: len(students)}
	matched := map[string]*models.ClassSection{}
	for _, st := range students {
		for _, raw := range st.SelectedDays {
			day := models.Day(raw)
			section, err := s.match(ctx, matched, st.Location, day, session)
			if err != nil {
				return report, appErrors.Internal(err, "failed to match section")
			}
			if section == nil {
				report.Unmatched++
				s.logger.Warn("no section for legacy selection",
					zap.String("student_id", st.ID),
					zap.String("location", string(st.Location)),
					zap.String("day", raw),
				)
				continue
			}
			created, err := s.enrollments.EnsureActive(ctx, st.ID, section.ID)
			if err != nil {
				return report, appErrors.Internal(err, "failed to create enrollment")
			}
			if created {
				report.Created++
			} else {
				report.Existing++
			}
		}
	}

	if report.Created > 0 && s.catalog != nil {
		s.catalog.InvalidateSections(ctx)
	}
	s.logger.Info("enrollment backfill finished",
		zap.String("session", string(session)),
		zap.Int("students", report.Students),
		zap.Int("created", report.Created),
		zap.Int("existing", report.Existing),
		zap.Int("unmatched", report.Unmatched),
	)
	return report, nil
}

func (s *BackfillService) match(ctx context.Context, seen map[string]*models.ClassSection, loc models.Location, day models.Day, session models.Session) (*models.ClassSection, error) {
	key := string(loc) + "/" + string(day)
	if section, ok := seen[key]; ok {
		return section, nil
	}
	section, err := s.sections.FirstByLocationDay(ctx, loc, day, session)
	if err != nil {
		return nil, err
	}
	seen[key] = section
	return section, nil
}
