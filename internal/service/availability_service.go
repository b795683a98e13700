package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/bailakids/registration-api/internal/availability"
	"github.com/bailakids/registration-api/internal/dto"
	"github.com/bailakids/registration-api/internal/models"
)

type catalogReader interface {
	ListSections(ctx context.Context, filter models.SectionFilter) ([]models.SectionAvailability, error)
	Counts(ctx context.Context, session models.Session) (availability.Counts, error)
}

// AvailabilityService assembles the per-studio availability snapshot.
// A studio with at least one active section in the session is reported under
// the section model. Other studios fall back to legacy day counts.
type AvailabilityService struct {
	catalog  catalogReader
	settings settingsProvider
	logger   *zap.Logger
}

// NewAvailabilityService constructs an AvailabilityService.
func NewAvailabilityService(catalog catalogReader, settings settingsProvider, logger *zap.Logger) *AvailabilityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AvailabilityService{catalog: catalog, settings: settings, logger: logger}
}

// Snapshot returns availability for every studio in the active session.
func (s *AvailabilityService) Snapshot(ctx context.Context) (*dto.AvailabilityResponse, error) {
	session, err := s.settings.ActiveSession(ctx)
	if err != nil {
		return nil, err
	}
	open, err := s.settings.RegistrationOpen(ctx)
	if err != nil {
		return nil, err
	}
	sections, err := s.catalog.ListSections(ctx, models.SectionFilter{Session: session, ActiveOnly: true})
	if err != nil {
		return nil, err
	}
	counts, err := s.catalog.Counts(ctx, session)
	if err != nil {
		return nil, err
	}

	resp := &dto.AvailabilityResponse{Session: string(session), RegistrationOpen: open}
	for _, loc := range models.Locations {
		if availability.UsesSections(sections, loc) {
			resp.Locations = append(resp.Locations, sectionLocation(sections, loc))
		} else {
			resp.Locations = append(resp.Locations, legacyLocation(counts, loc))
		}
	}
	return resp, nil
}

func legacyLocation(counts availability.Counts, loc models.Location) dto.LocationAvailability {
	out := dto.LocationAvailability{
		Location:           string(loc),
		TwiceUnavailable:   availability.LegacyTwiceUnavailable(counts, loc),
		BothDaysPriceCents: availability.LegacyBothDaysCents,
		SoldOutMessage:     availability.LegacySoldOutMessage(counts, loc),
	}
	for _, day := range loc.ClassDays() {
		remaining := availability.LegacyRemaining(counts, loc, day)
		out.Days = append(out.Days, dto.DayAvailability{
			Day:        string(day),
			Enrolled:   counts.Get(loc, day),
			Remaining:  remaining,
			SoldOut:    remaining == 0,
			Message:    availability.LowSeatMessage(remaining),
			PriceCents: availability.LegacyDayPrice(loc, day),
			StartDate:  availability.LegacyStartDate(loc, models.OnceAWeek, day),
		})
	}
	return out
}

func sectionLocation(sections []models.SectionAvailability, loc models.Location) dto.LocationAvailability {
	out := dto.LocationAvailability{
		Location:           string(loc),
		TwiceUnavailable:   availability.SectionTwiceUnavailable(sections, loc),
		BothDaysPriceCents: availability.BundleGroupACents,
		SoldOutMessage:     availability.SectionSoldOutMessage(sections, loc),
	}
	var own []models.SectionAvailability
	for _, day := range loc.ClassDays() {
		onDay := availability.SectionsOn(sections, loc, day)
		own = append(own, onDay...)

		day := dto.DayAvailability{Day: string(day)}
		for i, sec := range onDay {
			day.Enrolled += sec.ActiveCount
			day.Remaining += sec.SeatsRemaining
			if i == 0 {
				day.PriceCents = sec.PriceCents
				if sec.StartDate != nil {
					day.StartDate = sec.StartDate.Format("2006-01-02")
				}
			}
		}
		day.SoldOut = day.Remaining == 0
		day.Message = availability.LowSeatMessage(day.Remaining)
		out.Days = append(out.Days, day)
	}
	out.Sections = SectionViews(own)
	for _, label := range availability.Labels(sections, loc) {
		out.Groups = append(out.Groups, dto.GroupAvailability{
			Label:            label,
			SoldOut:          availability.GroupSoldOut(sections, loc, label),
			BundlePriceCents: availability.BundlePrice(label),
		})
	}
	return out
}
