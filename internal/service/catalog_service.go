package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/bailakids/registration-api/internal/availability"
	"github.com/bailakids/registration-api/internal/dto"
	"github.com/bailakids/registration-api/internal/models"
	appErrors "github.com/bailakids/registration-api/pkg/errors"
)

type sectionLister interface {
	List(ctx context.Context, filter models.SectionFilter) ([]models.SectionAvailability, error)
}

type dayCounter interface {
	CountByDay(ctx context.Context, session models.Session) ([]models.DayCount, error)
}

type settingsProvider interface {
	ActiveSession(ctx context.Context) (models.Session, error)
	RegistrationOpen(ctx context.Context) (bool, error)
}

// CatalogService reads class sections and legacy day counts for the active session.
type CatalogService struct {
	sections sectionLister
	students dayCounter
	settings settingsProvider
	cache    *CacheService
	logger   *zap.Logger
}

// NewCatalogService constructs a CatalogService. cache may be nil.
func NewCatalogService(sections sectionLister, students dayCounter, settings settingsProvider, cache *CacheService, logger *zap.Logger) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{
		sections: sections,
		students: students,
		settings: settings,
		cache:    cache,
		logger:   logger,
	}
}

// ListSections returns sections with their ACTIVE counts and seats remaining.
func (s *CatalogService) ListSections(ctx context.Context, filter models.SectionFilter) ([]models.SectionAvailability, error) {
	sections, err := s.sections.List(ctx, filter)
	if err != nil {
		s.logger.Error("list sections", zap.Error(err))
		return nil, appErrors.Internal(err, "Internal error")
	}
	return sections, nil
}

// Sections builds the public sections listing for the active session.
func (s *CatalogService) Sections(ctx context.Context) (*dto.SectionsResponse, error) {
	session, err := s.settings.ActiveSession(ctx)
	if err != nil {
		return nil, err
	}
	open, err := s.settings.RegistrationOpen(ctx)
	if err != nil {
		return nil, err
	}

	views, err := Cached(ctx, s.cache, s.cache.Key(string(session)), func(ctx context.Context) ([]dto.SectionView, error) {
		sections, err := s.ListSections(ctx, models.SectionFilter{Session: session, ActiveOnly: true})
		if err != nil {
			return nil, err
		}
		return SectionViews(sections), nil
	})
	if err != nil {
		return nil, err
	}

	return &dto.SectionsResponse{RegistrationOpen: open, Sections: views}, nil
}

// Counts returns students per studio weekday for a session, restricted to class days.
func (s *CatalogService) Counts(ctx context.Context, session models.Session) (availability.Counts, error) {
	rows, err := s.students.CountByDay(ctx, session)
	if err != nil {
		s.logger.Error("count students by day", zap.Error(err))
		return nil, appErrors.Internal(err, "Failed to compute class counts")
	}
	counts := make(availability.Counts, len(models.Locations))
	for _, loc := range models.Locations {
		counts[loc] = make(map[models.Day]int, len(models.Days))
		for _, day := range models.Days {
			counts[loc][day] = 0
		}
	}
	for _, row := range rows {
		if !row.Location.HasClassOn(row.Day) {
			continue
		}
		counts[row.Location][row.Day] += row.Count
	}
	return counts, nil
}

// ClassCounts builds the legacy class-counts response for the active session.
func (s *CatalogService) ClassCounts(ctx context.Context) (*dto.ClassCountsResponse, error) {
	session, err := s.settings.ActiveSession(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "Failed to compute class counts")
	}
	counts, err := s.Counts(ctx, session)
	if err != nil {
		return nil, err
	}
	out := make(map[string]map[string]int, len(counts))
	for loc, days := range counts {
		out[string(loc)] = make(map[string]int, len(days))
		for day, n := range days {
			out[string(loc)][string(day)] = n
		}
	}
	return &dto.ClassCountsResponse{Counts: out}, nil
}

// InvalidateSections drops every cached sections listing.
func (s *CatalogService) InvalidateSections(ctx context.Context) {
	if err := s.cache.Purge(ctx); err != nil {
		s.logger.Warn("invalidate sections cache", zap.Error(err))
	}
}

// SectionViews maps catalog rows onto the public listing shape.
func SectionViews(sections []models.SectionAvailability) []dto.SectionView {
	views := make([]dto.SectionView, 0, len(sections))
	for _, sec := range sections {
		views = append(views, dto.SectionView{
			ID:             sec.ID,
			Location:       string(sec.Location),
			Day:            string(sec.Day),
			Label:          sec.Label,
			StartDate:      sec.StartDate,
			StartTime:      sec.StartTime,
			EndTime:        sec.EndTime,
			PriceCents:     sec.PriceCents,
			Capacity:       sec.Capacity,
			ActiveCount:    sec.ActiveCount,
			SeatsRemaining: sec.SeatsRemaining,
		})
	}
	return views
}
