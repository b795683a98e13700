package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bailakids/registration-api/internal/dto"
	"github.com/bailakids/registration-api/internal/models"
	appErrors "github.com/bailakids/registration-api/pkg/errors"
)

type calendarRepoStub struct {
	events  []models.CalendarEvent
	created *models.CalendarEvent
	deleted []string
	err     error
}

func (s *calendarRepoStub) Delete(ctx context.Context, id string) error {
	if s.err != nil {
		return s.err
	}
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *calendarRepoStub) ListBetween(ctx context.Context, from, to time.Time) ([]models.CalendarEvent, error) {
	return s.events, s.err
}

func (s *calendarRepoStub) Create(ctx context.Context, event *models.CalendarEvent) error {
	if s.err != nil {
		return s.err
	}
	event.ID = "evt-1"
	s.created = event
	return nil
}

type startsStub struct {
	students []models.Student
}

func (s startsStub) ListStartingBetween(ctx context.Context, from, to time.Time) ([]models.Student, error) {
	return s.students, nil
}

func utcDate(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCalendarServiceMonth(t *testing.T) {
	start := utcDate(2025, 9, 2)
	sectionStart := utcDate(2025, 8, 25)
	sec := availableSection("sec-1", models.LocationSugarLand, models.Monday, "A", 10, 2, 24500)
	sec.StartDate = &sectionStart

	svc := NewCalendarService(
		&calendarRepoStub{events: []models.CalendarEvent{{ID: "evt-1", Date: utcDate(2025, 9, 1), Note: "Labor Day, no class"}}},
		startsStub{students: []models.Student{{ID: "stu-1", StudentName: "Ana", Location: models.LocationKaty, StartDate: &start}}},
		&fakeSectionRepo{sections: []models.SectionAvailability{sec}},
		&fakeSettings{session: models.SessionFall2025},
		nil, nil,
	)

	month, err := svc.Month(context.Background(), "2025-09")
	require.NoError(t, err)
	assert.Equal(t, "2025-09", month.Month)

	var classes, starts, notes int
	for _, e := range month.Entries {
		switch e.Kind {
		case models.CalendarClassMeeting:
			classes++
		case models.CalendarStudentStart:
			starts++
		case models.CalendarNote:
			notes++
		}
	}
	// Mondays in September 2025: 1, 8, 15, 22, 29.
	assert.Equal(t, 5, classes)
	assert.Equal(t, 1, starts)
	assert.Equal(t, 1, notes)
	assert.Equal(t, "2025-09-01", month.Entries[0].Date)
}

func TestCalendarServiceMonthRejectsBadMonth(t *testing.T) {
	svc := NewCalendarService(&calendarRepoStub{}, startsStub{}, &fakeSectionRepo{}, &fakeSettings{session: models.SessionFall2025}, nil, nil)
	_, err := svc.Month(context.Background(), "September")
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestCalendarServiceCreateEvent(t *testing.T) {
	repo := &calendarRepoStub{}
	svc := NewCalendarService(repo, startsStub{}, &fakeSectionRepo{}, &fakeSettings{}, nil, nil)

	event, err := svc.CreateEvent(context.Background(), dto.CreateCalendarEventRequest{Date: "2025-11-27", Note: " Thanksgiving "}, &models.JWTClaims{Email: "owner@bailakids.com"})
	require.NoError(t, err)
	assert.Equal(t, "evt-1", event.ID)
	assert.Equal(t, "Thanksgiving", event.Note)
	require.NotNil(t, event.CreatedBy)
	assert.Equal(t, "owner@bailakids.com", *event.CreatedBy)

	_, err = svc.CreateEvent(context.Background(), dto.CreateCalendarEventRequest{Date: "11/27/2025", Note: "x"}, nil)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestCalendarServiceDeleteEvent(t *testing.T) {
	repo := &calendarRepoStub{}
	svc := NewCalendarService(repo, startsStub{}, &fakeSectionRepo{}, &fakeSettings{}, nil, nil)

	require.NoError(t, svc.DeleteEvent(context.Background(), "evt-1", &models.JWTClaims{Email: "owner@bailakids.com"}))
	assert.Equal(t, []string{"evt-1"}, repo.deleted)

	repo.err = sql.ErrNoRows
	err := svc.DeleteEvent(context.Background(), "evt-404", nil)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)

	repo.err = errors.New("connection reset")
	err = svc.DeleteEvent(context.Background(), "evt-2", nil)
	assert.ErrorIs(t, err, appErrors.ErrInternal)
}
