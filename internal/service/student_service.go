package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/bailakids/registration-api/internal/dto"
	"github.com/bailakids/registration-api/internal/models"
	appErrors "github.com/bailakids/registration-api/pkg/errors"
)

type studentRepository interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error)
	FindByID(ctx context.Context, id string) (*models.Student, error)
	Update(ctx context.Context, id string, update models.StudentUpdate) (*models.Student, error)
}

// StudentService implements the admin student listing and editing.
type StudentService struct {
	repo      studentRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs a StudentService.
func NewStudentService(repo studentRepository, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = dto.NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, validator: validate, logger: logger}
}

// List returns a page of students.
func (s *StudentService) List(ctx context.Context, query dto.StudentListQuery) ([]models.Student, *models.Pagination, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student query")
	}
	filter := models.StudentFilter{
		Search:        strings.TrimSpace(query.Search),
		Location:      models.Location(query.Location),
		PaymentStatus: models.PaymentStatus(query.PaymentStatus),
		Session:       models.Session(query.Session),
		Page:          query.Page,
		PageSize:      query.PageSize,
		SortBy:        query.SortBy,
		SortOrder:     query.SortOrder,
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 50
	}

	students, total, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("list students", zap.Error(err))
		return nil, nil, appErrors.Internal(err, "failed to list students")
	}
	if students == nil {
		students = []models.Student{}
	}
	return students, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}, nil
}

// Get returns one student.
func (s *StudentService) Get(ctx context.Context, id string) (*models.Student, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Internal(err, "failed to get student")
	}
	return student, nil
}

// Update applies a partial edit from the admin table.
// Text fields are trimmed before validation, so a blank name is rejected
// instead of stored.
func (s *StudentService) Update(ctx context.Context, id string, req dto.UpdateStudentRequest) (*models.Student, error) {
	req.StudentName = trimmedPtr(req.StudentName)
	req.ParentName = trimmedPtr(req.ParentName)
	req.Phone = trimmedPtr(req.Phone)
	req.Email = trimmedPtr(req.Email)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student update")
	}

	update := models.StudentUpdate{
		StudentName:   req.StudentName,
		Age:           req.Age,
		ParentName:    req.ParentName,
		Phone:         req.Phone,
		Email:         req.Email,
		SelectedDays:  req.SelectedDays,
		PaymentMethod: req.PaymentMethod,
	}
	if req.Location != nil {
		loc := models.Location(*req.Location)
		update.Location = &loc
	}
	if req.Frequency != nil {
		freq := models.Frequency(*req.Frequency)
		update.Frequency = &freq
	}
	if req.PaymentStatus != nil {
		status := models.PaymentStatus(*req.PaymentStatus)
		update.PaymentStatus = &status
	}
	if req.StartDate != nil {
		start, err := ParseStartDate(*req.StartDate)
		if err != nil {
			return nil, appErrors.ErrInvalidStartDate
		}
		update.StartDate = &start
	}
	if update.Empty() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "no fields to update")
	}

	student, err := s.repo.Update(ctx, id, update)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		s.logger.Error("update student", zap.String("student_id", id), zap.Error(err))
		return nil, appErrors.Internal(err, "Failed to update student")
	}
	s.logger.Info("student updated", zap.String("student_id", id))
	return student, nil
}

func trimmedPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
