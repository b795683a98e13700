package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bailakids/registration-api/internal/dto"
	"github.com/bailakids/registration-api/internal/models"
	appErrors "github.com/bailakids/registration-api/pkg/errors"
)

type waitlistRepoStub struct {
	entries []models.WaitingListEntry
	err     error
}

func (s *waitlistRepoStub) Create(ctx context.Context, entry *models.WaitingListEntry) error {
	if s.err != nil {
		return s.err
	}
	entry.ID = "wl-1"
	s.entries = append(s.entries, *entry)
	return nil
}

func (s *waitlistRepoStub) List(ctx context.Context, location models.Location) ([]models.WaitingListEntry, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []models.WaitingListEntry
	for _, e := range s.entries {
		if location == "" || e.Location == location {
			out = append(out, e)
		}
	}
	return out, nil
}

func waitlistRequest() dto.WaitlistRequest {
	notes := "  prefers afternoons "
	return dto.WaitlistRequest{
		StudentName:  "Ana Lopez",
		Age:          6,
		ParentName:   "Maria Lopez",
		Phone:        "281-555-0100",
		Email:        "maria@example.com",
		Location:     "KATY",
		RequestedDay: "Tuesday",
		Notes:        &notes,
	}
}

func TestWaitlistServiceJoin(t *testing.T) {
	repo := &waitlistRepoStub{}
	svc := NewWaitlistService(repo, nil, nil)

	entry, err := svc.Join(context.Background(), waitlistRequest())
	require.NoError(t, err)
	assert.Equal(t, "wl-1", entry.ID)
	require.NotNil(t, entry.Notes)
	assert.Equal(t, "prefers afternoons", *entry.Notes)

	entries, err := svc.List(context.Background(), "katy")
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWaitlistServiceJoinValidation(t *testing.T) {
	svc := NewWaitlistService(&waitlistRepoStub{}, nil, nil)

	req := waitlistRequest()
	req.Email = ""
	_, err := svc.Join(context.Background(), req)
	assert.True(t, errors.Is(err, appErrors.ErrMissingFields))
	assert.Equal(t, "Missing fields", appErrors.FromError(err).Message)

	req = waitlistRequest()
	req.RequestedDay = "Friday"
	_, err = svc.Join(context.Background(), req)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
	assert.Equal(t, "Invalid requestedDay", appErrors.FromError(err).Message)

	req = waitlistRequest()
	req.Age = 18
	_, err = svc.Join(context.Background(), req)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestWaitlistServiceJoinPersistenceFailure(t *testing.T) {
	svc := NewWaitlistService(&waitlistRepoStub{err: errors.New("db down")}, nil, nil)
	_, err := svc.Join(context.Background(), waitlistRequest())
	require.Error(t, err)
	assert.Equal(t, "Server error", appErrors.FromError(err).Message)

	_, err = svc.List(context.Background(), "MARS")
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}
