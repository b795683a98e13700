package availability

import (
	"errors"
	"time"

	"github.com/bailakids/registration-api/internal/models"
)

// Bundle prices for a same-label two-day selection. Group B starts later and is discounted.
const (
	BundleGroupACents = 45000
	BundleGroupBCents = 38000

	// LegacyBothDaysCents is the twice-weekly price under the day-count model.
	LegacyBothDaysCents = 45000

	// SessionWeeks is the number of weekly meetings in a session.
	SessionWeeks = 14
)

var legacyDayPrices = map[models.Location]map[models.Day]int{
	models.LocationKaty:      {models.Tuesday: 24500, models.Wednesday: 24500},
	models.LocationSugarLand: {models.Monday: 23000, models.Thursday: 24500},
}

var legacyStartDates = map[models.Location]map[models.Day]string{
	models.LocationKaty:      {models.Tuesday: "2025-08-26", models.Wednesday: "2025-08-27"},
	models.LocationSugarLand: {models.Monday: "2025-08-25", models.Thursday: "2025-08-28"},
}

// Errors returned when two sections cannot form a twice-weekly selection.
var (
	ErrPairLocation = errors.New("sections are at different locations")
	ErrPairLabel    = errors.New("sections belong to different groups")
	ErrPairSameDay  = errors.New("sections meet on the same day")
)

// LegacyDayPrice is the once-weekly price of a studio weekday in cents, zero when not offered.
func LegacyDayPrice(loc models.Location, day models.Day) int {
	return legacyDayPrices[loc][day]
}

// LegacyQuote prices a day-count registration.
func LegacyQuote(loc models.Location, freq models.Frequency, day models.Day) int {
	if freq == models.TwiceAWeek {
		return LegacyBothDaysCents
	}
	return LegacyDayPrice(loc, day)
}

// LegacyStartDate returns the first class date (YYYY-MM-DD) for a studio weekday.
// Twice-weekly registrations start on the studio's first class day.
func LegacyStartDate(loc models.Location, freq models.Frequency, day models.Day) string {
	if freq == models.TwiceAWeek {
		days := loc.ClassDays()
		if len(days) == 0 {
			return ""
		}
		day = days[0]
	}
	return legacyStartDates[loc][day]
}

// BundlePrice is the two-day price for a group label.
func BundlePrice(label string) int {
	if label == "B" {
		return BundleGroupBCents
	}
	return BundleGroupACents
}

// ValidatePair checks that two sections form a valid twice-weekly group.
func ValidatePair(a, b models.ClassSection) error {
	switch {
	case a.Location != b.Location:
		return ErrPairLocation
	case a.Day == b.Day:
		return ErrPairSameDay
	case a.Label != b.Label:
		return ErrPairLabel
	}
	return nil
}

// SectionQuote prices a section selection: one section costs its own price,
// a valid same-label pair costs the bundle price. Other shapes price at zero.
func SectionQuote(selected []models.ClassSection) int {
	switch len(selected) {
	case 1:
		return selected[0].PriceCents
	case 2:
		if ValidatePair(selected[0], selected[1]) != nil {
			return 0
		}
		return BundlePrice(selected[0].Label)
	}
	return 0
}

// MeetingDates lists weekly class dates starting at start.
func MeetingDates(start time.Time, weeks int) []time.Time {
	dates := make([]time.Time, 0, weeks)
	for i := 0; i < weeks; i++ {
		dates = append(dates, start.AddDate(0, 0, 7*i))
	}
	return dates
}

// SessionRange renders the first and last meeting as "Aug 25–Nov 24".
func SessionRange(start time.Time, weeks int) string {
	if start.IsZero() || weeks <= 0 {
		return ""
	}
	end := start.AddDate(0, 0, 7*(weeks-1))
	return start.Format("Jan 2") + "–" + end.Format("Jan 2")
}
