package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/bailakids/registration-api/internal/dto"
	"github.com/bailakids/registration-api/internal/models"
	"github.com/bailakids/registration-api/internal/repository"
	appErrors "github.com/bailakids/registration-api/pkg/errors"
)

type enrollmentRepository interface {
	ListBySection(ctx context.Context, sectionID string) ([]models.EnrollmentDetail, error)
	UpdateStatus(ctx context.Context, id string, status models.EnrollmentStatus) (*models.Enrollment, error)
}

type sectionFinder interface {
	FindByID(ctx context.Context, id string) (*models.ClassSection, error)
}

// EnrollmentService serves section rosters and status changes to administrators.
type EnrollmentService struct {
	repo      enrollmentRepository
	sections  sectionFinder
	catalog   sectionsInvalidator
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewEnrollmentService constructs an EnrollmentService.
func NewEnrollmentService(repo enrollmentRepository, sections sectionFinder, catalog sectionsInvalidator, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *EnrollmentService {
	if validate == nil {
		validate = dto.NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{repo: repo, sections: sections, catalog: catalog, metrics: metrics, validator: validate, logger: logger}
}

// Roster lists every enrollment of a section with the student contact fields.
func (s *EnrollmentService) Roster(ctx context.Context, sectionID string) ([]models.EnrollmentDetail, error) {
	if _, err := s.sections.FindByID(ctx, sectionID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "section not found")
		}
		return nil, appErrors.Internal(err, "failed to load section")
	}
	roster, err := s.repo.ListBySection(ctx, sectionID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list enrollments")
	}
	if roster == nil {
		roster = []models.EnrollmentDetail{}
	}
	return roster, nil
}

// UpdateStatus cancels, waitlists or promotes an enrollment.
func (s *EnrollmentService) UpdateStatus(ctx context.Context, id string, req dto.UpdateEnrollmentStatusRequest) (*models.Enrollment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid enrollment status")
	}
	status := models.EnrollmentStatus(req.Status)

	enrollment, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
		case errors.Is(err, repository.ErrSectionFull):
			return nil, appErrors.Clone(appErrors.ErrConflict, "section is full")
		case errors.Is(err, repository.ErrSectionUnavailable):
			return nil, appErrors.Clone(appErrors.ErrConflict, "section is inactive")
		}
		s.logger.Error("update enrollment status", zap.String("enrollment_id", id), zap.Error(err))
		return nil, appErrors.Internal(err, "failed to update enrollment")
	}

	if s.catalog != nil {
		s.catalog.InvalidateSections(ctx)
	}
	s.metrics.RecordEnrollment(string(enrollment.Status))
	s.logger.Info("enrollment status changed",
		zap.String("enrollment_id", id),
		zap.String("section_id", enrollment.SectionID),
		zap.String("status", string(enrollment.Status)),
	)
	return enrollment, nil
}
