package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/bailakids/registration-api/internal/dto"
	"github.com/bailakids/registration-api/internal/models"
	appErrors "github.com/bailakids/registration-api/pkg/errors"
)

type waitlistRepository interface {
	Create(ctx context.Context, entry *models.WaitingListEntry) error
	List(ctx context.Context, location models.Location) ([]models.WaitingListEntry, error)
}

// WaitlistService records interest in sold-out days.
type WaitlistService struct {
	repo      waitlistRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewWaitlistService constructs a WaitlistService. The validator must carry the enum tags from dto.RegisterValidations.
func NewWaitlistService(repo waitlistRepository, validate *validator.Validate, logger *zap.Logger) *WaitlistService {
	if validate == nil {
		validate = dto.NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WaitlistService{repo: repo, validator: validate, logger: logger}
}

// Join stores a waiting list entry.
func (s *WaitlistService) Join(ctx context.Context, req dto.WaitlistRequest) (*models.WaitingListEntry, error) {
	req.StudentName = strings.TrimSpace(req.StudentName)
	req.ParentName = strings.TrimSpace(req.ParentName)
	req.Phone = strings.TrimSpace(req.Phone)
	req.Email = strings.TrimSpace(req.Email)
	req.Location = strings.TrimSpace(req.Location)
	req.RequestedDay = strings.TrimSpace(req.RequestedDay)

	if err := s.validator.Struct(req); err != nil {
		return nil, waitlistValidationError(err)
	}

	entry := &models.WaitingListEntry{
		StudentName:  req.StudentName,
		Age:          req.Age,
		ParentName:   req.ParentName,
		Phone:        req.Phone,
		Email:        req.Email,
		Location:     models.Location(req.Location),
		RequestedDay: models.Day(req.RequestedDay),
	}
	if req.Notes != nil {
		entry.Notes = optionalString(*req.Notes)
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		s.logger.Error("create waiting list entry", zap.Error(err))
		return nil, appErrors.Internal(err, "Server error")
	}
	s.logger.Info("waiting list entry stored", zap.String("location", req.Location), zap.String("day", req.RequestedDay))
	return entry, nil
}

// List returns entries for the admin view, optionally for one studio.
func (s *WaitlistService) List(ctx context.Context, location string) ([]models.WaitingListEntry, error) {
	loc := models.Location(strings.ToUpper(strings.TrimSpace(location)))
	if loc != "" && !loc.Valid() {
		return nil, appErrors.Invalid("location", "Invalid location")
	}
	entries, err := s.repo.List(ctx, loc)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list waiting list")
	}
	return entries, nil
}

func waitlistValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid waiting list request")
	}
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			return appErrors.Clone(appErrors.ErrMissingFields, "Missing fields")
		}
	}
	fe := verrs[0]
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, fmt.Sprintf("Invalid %s", lowerFirst(fe.Field())))
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
