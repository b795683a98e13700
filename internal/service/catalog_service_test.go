package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bailakids/registration-api/internal/models"
	appErrors "github.com/bailakids/registration-api/pkg/errors"
)

func TestCatalogServiceSectionsUsesCache(t *testing.T) {
	repo := &fakeSectionRepo{sections: []models.SectionAvailability{
		availableSection("sec-mon-A", models.LocationSugarLand, models.Monday, "A", 22, 21, 23000),
	}}
	cache := NewCacheService(newMemoryCache(), "sections", time.Minute, nil, nil)
	svc := NewCatalogService(repo, &fakeDayCounter{}, &fakeSettings{session: models.SessionFall2025, open: true}, cache, nil)

	resp, err := svc.Sections(context.Background())
	require.NoError(t, err)
	assert.True(t, resp.RegistrationOpen)
	require.Len(t, resp.Sections, 1)
	assert.Equal(t, 1, resp.Sections[0].SeatsRemaining)
	assert.Equal(t, models.SectionFilter{Session: models.SessionFall2025, ActiveOnly: true}, repo.filters[0])

	_, err = svc.Sections(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, repo.calls, "second read is served from cache")

	svc.InvalidateSections(context.Background())
	_, err = svc.Sections(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, repo.calls)
}

// committingSectionRepo lets a registration land while the first listing is read.
type committingSectionRepo struct {
	*fakeSectionRepo
	commit func()
}

func (r *committingSectionRepo) List(ctx context.Context, filter models.SectionFilter) ([]models.SectionAvailability, error) {
	out, err := r.fakeSectionRepo.List(ctx, filter)
	if r.commit != nil {
		commit := r.commit
		r.commit = nil
		commit()
	}
	return out, err
}

func TestCatalogServiceSectionsNotStaleAfterConcurrentInvalidation(t *testing.T) {
	base := &fakeSectionRepo{sections: []models.SectionAvailability{
		availableSection("sec-mon-A", models.LocationSugarLand, models.Monday, "A", 22, 21, 23000),
	}}
	repo := &committingSectionRepo{fakeSectionRepo: base}
	cache := NewCacheService(newMemoryCache(), "sections", time.Minute, nil, nil)
	svc := NewCatalogService(repo, &fakeDayCounter{}, &fakeSettings{session: models.SessionFall2025, open: true}, cache, nil)
	repo.commit = func() {
		base.sections = []models.SectionAvailability{
			availableSection("sec-mon-A", models.LocationSugarLand, models.Monday, "A", 22, 22, 23000),
		}
		svc.InvalidateSections(context.Background())
	}

	resp, err := svc.Sections(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Sections[0].SeatsRemaining)

	resp, err = svc.Sections(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Sections[0].SeatsRemaining)
	assert.Equal(t, 2, base.calls)
}

func TestCatalogServiceSectionsWithoutCache(t *testing.T) {
	repo := &fakeSectionRepo{err: errors.New("connection reset")}
	svc := NewCatalogService(repo, &fakeDayCounter{}, &fakeSettings{session: models.SessionFall2025}, nil, nil)

	_, err := svc.Sections(context.Background())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInternal.Code, appErr.Code)
	assert.Equal(t, "Internal error", appErr.Message)
}

func TestCatalogServiceClassCounts(t *testing.T) {
	counter := &fakeDayCounter{rows: []models.DayCount{
		{Location: models.LocationKaty, Day: models.Tuesday, Count: 12},
		{Location: models.LocationKaty, Day: models.Monday, Count: 4},
		{Location: models.LocationSugarLand, Day: models.Thursday, Count: 22},
	}}
	svc := NewCatalogService(&fakeSectionRepo{}, counter, &fakeSettings{session: models.SessionSpring2026}, nil, nil)

	resp, err := svc.ClassCounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12, resp.Counts["KATY"]["Tuesday"])
	assert.Equal(t, 0, resp.Counts["KATY"]["Monday"], "non-class days are zeroed")
	assert.Equal(t, 0, resp.Counts["KATY"]["Wednesday"])
	assert.Equal(t, 22, resp.Counts["SUGARLAND"]["Thursday"])
	assert.Len(t, resp.Counts["SUGARLAND"], 4)

	counter.err = errors.New("timeout")
	_, err = svc.ClassCounts(context.Background())
	require.Error(t, err)
	assert.Equal(t, "Failed to compute class counts", appErrors.FromError(err).Message)
}
