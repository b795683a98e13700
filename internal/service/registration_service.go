package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bailakids/registration-api/internal/availability"
	"github.com/bailakids/registration-api/internal/dto"
	"github.com/bailakids/registration-api/internal/models"
	"github.com/bailakids/registration-api/internal/repository"
	appErrors "github.com/bailakids/registration-api/pkg/errors"
	"github.com/bailakids/registration-api/pkg/middleware/requestid"
)

// EventRegistrationCreated is emitted after a registration is stored.
const EventRegistrationCreated = "registration.created"

type registrationStore interface {
	CreateStudent(ctx context.Context, student *models.Student) error
	CreateWithEnrollments(ctx context.Context, student *models.Student, sectionIDs []string) ([]models.Enrollment, error)
}

type sectionsInvalidator interface {
	InvalidateSections(ctx context.Context)
}

type eventEmitter interface {
	Emit(ctx context.Context, eventType string, payload interface{}) error
}

// RegistrationService validates and stores registrations under either selection model.
type RegistrationService struct {
	store    registrationStore
	sections sectionLister
	settings settingsProvider
	catalog  sectionsInvalidator
	events   eventEmitter
	metrics  *MetricsService
	logger   *zap.Logger
	now      func() time.Time
}

// RegistrationDeps groups the collaborators of RegistrationService. Catalog, Events and Metrics are optional.
type RegistrationDeps struct {
	Store    registrationStore
	Sections sectionLister
	Settings settingsProvider
	Catalog  sectionsInvalidator
	Events   eventEmitter
	Metrics  *MetricsService
	Logger   *zap.Logger
}

// NewRegistrationService constructs a RegistrationService.
func NewRegistrationService(deps RegistrationDeps) *RegistrationService {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &RegistrationService{
		store:    deps.Store,
		sections: deps.Sections,
		settings: deps.Settings,
		catalog:  deps.Catalog,
		events:   deps.Events,
		metrics:  deps.Metrics,
		logger:   deps.Logger,
		now:      time.Now,
	}
}

// Register validates the payload, stores the student and, for section selections,
// allocates a seat or waitlist place in each section.
func (s *RegistrationService) Register(ctx context.Context, payload dto.RegistrationPayload) (*dto.RegistrationResult, error) {
	student, err := s.validateCommon(payload)
	if err != nil {
		return nil, err
	}

	session, err := s.settings.ActiveSession(ctx)
	if err != nil {
		return nil, err
	}
	student.Session = session

	var (
		result *dto.RegistrationResult
		model  string
	)
	switch sel := payload.Selection().(type) {
	case dto.SectionSelection:
		model = "section"
		result, err = s.registerSections(ctx, student, sel)
	case dto.LegacySelection:
		model = "legacy"
		result, err = s.registerLegacy(ctx, student, sel)
	}
	if err != nil {
		return nil, err
	}

	if s.catalog != nil {
		s.catalog.InvalidateSections(ctx)
	}
	s.metrics.RecordRegistration(model, result.Location)
	if s.events != nil {
		if err := s.events.Emit(ctx, EventRegistrationCreated, result); err != nil {
			s.logger.Warn("queue registration event", zap.String("student_id", result.StudentID),
				zap.String("request_id", requestid.FromContext(ctx)), zap.Error(err))
		}
	}
	s.logger.Info("registration stored",
		zap.String("student_id", result.StudentID),
		zap.String("model", model),
		zap.String("location", result.Location),
		zap.Int("enrollments", len(result.Enrollments)),
		zap.String("request_id", requestid.FromContext(ctx)),
	)
	return result, nil
}

func (s *RegistrationService) validateCommon(p dto.RegistrationPayload) (*models.Student, error) {
	studentName := strings.TrimSpace(p.StudentName)
	parentName := strings.TrimSpace(p.ParentName)
	phone := strings.TrimSpace(p.Phone)
	email := strings.TrimSpace(p.Email)
	if studentName == "" || parentName == "" || phone == "" || email == "" {
		return nil, appErrors.ErrMissingFields
	}
	if p.Age < 1 || p.Age > 17 {
		return nil, appErrors.ErrInvalidAge
	}
	if !p.LiabilityAccepted {
		return nil, appErrors.ErrLiabilityNotAccepted
	}

	now := s.now().UTC()
	student := &models.Student{
		ID:                uuid.NewString(),
		StudentName:       studentName,
		Age:               p.Age,
		ParentName:        parentName,
		Phone:             phone,
		Email:             email,
		PaymentStatus:     models.PaymentPending,
		LiabilityAccepted: true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if method := strings.TrimSpace(p.PaymentMethod); method != "" {
		if !models.PaymentMethod(method).Valid() {
			return nil, appErrors.Invalid("paymentMethod", "Invalid payment method")
		}
		student.PaymentMethod = &method
	}
	if sig := p.WaiverSignature; sig != nil {
		student.WaiverName = optionalString(sig.Name)
		student.WaiverAddress = optionalString(sig.Address)
	}
	return student, nil
}

func (s *RegistrationService) registerSections(ctx context.Context, student *models.Student, sel dto.SectionSelection) (*dto.RegistrationResult, error) {
	ids := sel.SectionIDs
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id == "" {
			return nil, appErrors.ErrInvalidSectionSelection
		}
		if _, dup := seen[id]; dup {
			return nil, appErrors.ErrDuplicateSection
		}
		seen[id] = struct{}{}
	}

	found, err := s.sections.List(ctx, models.SectionFilter{IDs: ids})
	if err != nil {
		s.logger.Error("resolve sections", zap.Strings("section_ids", ids), zap.Error(err))
		return nil, appErrors.Internal(err, "failed to load sections")
	}
	byID := make(map[string]models.ClassSection, len(found))
	for _, sec := range found {
		byID[sec.ID] = sec.ClassSection
	}
	chosen := make([]models.ClassSection, 0, len(ids))
	for _, id := range ids {
		sec, ok := byID[id]
		if !ok || !sec.IsActive || sec.Session != student.Session {
			return nil, appErrors.ErrInvalidSectionSelection
		}
		chosen = append(chosen, sec)
	}
	if len(chosen) > 2 {
		return nil, appErrors.ErrTooManySections
	}
	if len(chosen) == 2 {
		if err := availability.ValidatePair(chosen[0], chosen[1]); err != nil {
			return nil, appErrors.Clone(appErrors.ErrInvalidSectionSelection, "Invalid section selection: "+err.Error())
		}
	}

	student.Location = chosen[0].Location
	student.Frequency = models.FrequencyForCount(len(chosen))
	student.StartDate = chosen[0].StartDate
	for _, sec := range chosen {
		student.SelectedDays = append(student.SelectedDays, string(sec.Day))
		if sec.StartDate != nil && (student.StartDate == nil || sec.StartDate.Before(*student.StartDate)) {
			student.StartDate = sec.StartDate
		}
	}

	enrollments, err := s.store.CreateWithEnrollments(ctx, student, ids)
	if err != nil {
		if errors.Is(err, repository.ErrSectionUnavailable) {
			return nil, appErrors.ErrInvalidSectionSelection
		}
		s.logger.Error("store section registration", zap.String("request_id", requestid.FromContext(ctx)), zap.Error(err))
		return nil, appErrors.Internal(err, "failed to store registration")
	}

	result := resultFor(student)
	for _, e := range enrollments {
		s.metrics.RecordEnrollment(string(e.Status))
		result.Enrollments = append(result.Enrollments, dto.EnrollmentOutcome{SectionID: e.SectionID, Status: string(e.Status)})
	}
	return result, nil
}

func (s *RegistrationService) registerLegacy(ctx context.Context, student *models.Student, sel dto.LegacySelection) (*dto.RegistrationResult, error) {
	switch {
	case sel.Location == "":
		return nil, appErrors.Missing("location")
	case sel.Frequency == "":
		return nil, appErrors.Missing("frequency")
	case len(sel.SelectedDays) == 0:
		return nil, appErrors.Missing("selectedDays")
	case sel.StartDate == "":
		return nil, appErrors.Missing("startDate")
	}

	loc := models.Location(strings.ToUpper(sel.Location))
	if !loc.Valid() {
		return nil, appErrors.Invalid("location", "Invalid location")
	}
	freq := models.Frequency(strings.ToUpper(sel.Frequency))
	if !freq.Valid() {
		return nil, appErrors.Invalid("frequency", "Invalid frequency")
	}
	for _, day := range sel.SelectedDays {
		if !models.Day(day).Valid() {
			return nil, appErrors.Invalid("selectedDays", "Invalid selected day: "+day)
		}
	}
	start, err := ParseStartDate(sel.StartDate)
	if err != nil {
		return nil, appErrors.ErrInvalidStartDate
	}

	student.Location = loc
	student.Frequency = freq
	student.SelectedDays = append(student.SelectedDays, sel.SelectedDays...)
	student.StartDate = &start

	if err := s.store.CreateStudent(ctx, student); err != nil {
		s.logger.Error("store legacy registration", zap.String("request_id", requestid.FromContext(ctx)), zap.Error(err))
		return nil, appErrors.Internal(err, "failed to store registration")
	}
	return resultFor(student), nil
}

// ParseStartDate accepts a calendar date (2006-01-02) or an RFC 3339 timestamp.
func ParseStartDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

func resultFor(student *models.Student) *dto.RegistrationResult {
	return &dto.RegistrationResult{
		StudentID: student.ID,
		Location:  string(student.Location),
		Frequency: string(student.Frequency),
		Session:   string(student.Session),
	}
}

func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
