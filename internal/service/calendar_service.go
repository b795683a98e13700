package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/bailakids/registration-api/internal/availability"
	"github.com/bailakids/registration-api/internal/dto"
	"github.com/bailakids/registration-api/internal/models"
	appErrors "github.com/bailakids/registration-api/pkg/errors"
)

type calendarRepository interface {
	ListBetween(ctx context.Context, from, to time.Time) ([]models.CalendarEvent, error)
	Create(ctx context.Context, event *models.CalendarEvent) error
	Delete(ctx context.Context, id string) error
}

type studentStarts interface {
	ListStartingBetween(ctx context.Context, from, to time.Time) ([]models.Student, error)
}

// CalendarService builds the admin month view.
type CalendarService struct {
	events    calendarRepository
	students  studentStarts
	sections  sectionLister
	settings  settingsProvider
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCalendarService constructs a CalendarService.
func NewCalendarService(events calendarRepository, students studentStarts, sections sectionLister, settings settingsProvider, validate *validator.Validate, logger *zap.Logger) *CalendarService {
	if validate == nil {
		validate = dto.NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CalendarService{
		events:    events,
		students:  students,
		sections:  sections,
		settings:  settings,
		validator: validate,
		logger:    logger,
	}
}

// Month lists student start dates, class meetings of active sections and admin notes for a YYYY-MM month.
func (s *CalendarService) Month(ctx context.Context, month string) (*models.CalendarMonth, error) {
	first, err := time.Parse("2006-01", strings.TrimSpace(month))
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "month must be YYYY-MM")
	}
	next := first.AddDate(0, 1, 0)
	inMonth := func(t time.Time) bool { return !t.Before(first) && t.Before(next) }

	entries := []models.CalendarEntry{}

	students, err := s.students.ListStartingBetween(ctx, first, next)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load calendar")
	}
	for _, st := range students {
		if st.StartDate == nil {
			continue
		}
		entries = append(entries, models.CalendarEntry{
			Date:      st.StartDate.Format("2006-01-02"),
			Kind:      models.CalendarStudentStart,
			Title:     fmt.Sprintf("%s starts (%s)", st.StudentName, st.Location),
			StudentID: st.ID,
		})
	}

	session, err := s.settings.ActiveSession(ctx)
	if err != nil {
		return nil, err
	}
	sections, err := s.sections.List(ctx, models.SectionFilter{Session: session, ActiveOnly: true})
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load calendar")
	}
	for _, sec := range sections {
		if sec.StartDate == nil {
			continue
		}
		for _, meeting := range availability.MeetingDates(*sec.StartDate, availability.SessionWeeks) {
			if !inMonth(meeting) {
				continue
			}
			entries = append(entries, models.CalendarEntry{
				Date:      meeting.Format("2006-01-02"),
				Kind:      models.CalendarClassMeeting,
				Title:     sectionTitle(sec.ClassSection),
				SectionID: sec.ID,
			})
		}
	}

	events, err := s.events.ListBetween(ctx, first, next)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load calendar")
	}
	for _, ev := range events {
		entries = append(entries, models.CalendarEntry{
			Date:    ev.Date.Format("2006-01-02"),
			Kind:    models.CalendarNote,
			Title:   ev.Note,
			EventID: ev.ID,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Date < entries[j].Date })
	return &models.CalendarMonth{Month: first.Format("2006-01"), Entries: entries}, nil
}

// CreateEvent stores an administrator note.
func (s *CalendarService) CreateEvent(ctx context.Context, req dto.CreateCalendarEventRequest, actor *models.JWTClaims) (*models.CalendarEvent, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid calendar event")
	}
	date, _ := time.Parse("2006-01-02", req.Date)
	event := &models.CalendarEvent{Date: date, Note: strings.TrimSpace(req.Note)}
	if actor != nil && actor.Email != "" {
		email := actor.Email
		event.CreatedBy = &email
	}
	if err := s.events.Create(ctx, event); err != nil {
		return nil, appErrors.Internal(err, "failed to create calendar event")
	}
	s.logger.Info("calendar event created", zap.String("event_id", event.ID), zap.String("date", req.Date))
	return event, nil
}

// DeleteEvent removes an administrator note.
func (s *CalendarService) DeleteEvent(ctx context.Context, id string, actor *models.JWTClaims) error {
	if err := s.events.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "calendar event not found")
		}
		return appErrors.Internal(err, "failed to delete calendar event")
	}
	fields := []zap.Field{zap.String("event_id", id)}
	if actor != nil {
		fields = append(fields, zap.String("actor", actor.Email))
	}
	s.logger.Info("calendar event deleted", fields...)
	return nil
}

func sectionTitle(sec models.ClassSection) string {
	title := fmt.Sprintf("%s %s group %s", sec.Location, sec.Day, sec.Label)
	if sec.StartTime != nil {
		title += " " + *sec.StartTime
	}
	return title
}
