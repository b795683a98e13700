// Package availability derives sold-out, low-seat and pricing decisions from
// catalog data. Everything here is pure and safe for concurrent use.
package availability

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bailakids/registration-api/internal/models"
)

const (
	// LegacyCapacity is the per-day seat cap of the day-count model.
	LegacyCapacity = 22
	// LowSeatThreshold is the largest remaining count that triggers a warning.
	LowSeatThreshold = 5
)

// Counts maps a studio weekday to the number of students attending it.
type Counts map[models.Location]map[models.Day]int

// Get returns the count for a studio weekday, zero when absent.
func (c Counts) Get(loc models.Location, day models.Day) int {
	if c == nil || c[loc] == nil {
		return 0
	}
	return c[loc][day]
}

// LegacyRemaining is max(0, LegacyCapacity - count).
func LegacyRemaining(counts Counts, loc models.Location, day models.Day) int {
	return models.SeatsRemaining(LegacyCapacity, counts.Get(loc, day))
}

// LegacySoldOut reports whether no legacy seat remains on the day.
func LegacySoldOut(counts Counts, loc models.Location, day models.Day) bool {
	return LegacyRemaining(counts, loc, day) == 0
}

// LowSeatMessage warns when between one and LowSeatThreshold seats remain.
func LowSeatMessage(remaining int) string {
	if remaining <= 0 || remaining > LowSeatThreshold {
		return ""
	}
	noun := "spots"
	if remaining == 1 {
		noun = "spot"
	}
	return fmt.Sprintf("Hurry! only %d %s left!", remaining, noun)
}

// LegacyTwiceUnavailable blocks the twice-weekly option when any class day of the studio is sold out.
func LegacyTwiceUnavailable(counts Counts, loc models.Location) bool {
	for _, day := range loc.ClassDays() {
		if LegacySoldOut(counts, loc, day) {
			return true
		}
	}
	return false
}

// LegacySoldOutMessage names the sold-out class days of a studio.
func LegacySoldOutMessage(counts Counts, loc models.Location) string {
	var sold []models.Day
	for _, day := range loc.ClassDays() {
		if LegacySoldOut(counts, loc, day) {
			sold = append(sold, day)
		}
	}
	return soldOutMessage(loc, sold)
}

// SectionsOn returns the sections for a studio weekday ordered by label.
func SectionsOn(sections []models.SectionAvailability, loc models.Location, day models.Day) []models.SectionAvailability {
	var out []models.SectionAvailability
	for _, s := range sections {
		if s.Location == loc && s.Day == day {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}

// UsesSections reports whether a studio is managed with capacity-bound sections.
func UsesSections(sections []models.SectionAvailability, loc models.Location) bool {
	for _, s := range sections {
		if s.Location == loc {
			return true
		}
	}
	return false
}

// DayHasOpenSection reports whether at least one section on the day has a free seat.
func DayHasOpenSection(sections []models.SectionAvailability, loc models.Location, day models.Day) bool {
	for _, s := range SectionsOn(sections, loc, day) {
		if s.SeatsRemaining > 0 {
			return true
		}
	}
	return false
}

// SectionTwiceUnavailable blocks the twice-weekly option unless every class day has an open section.
func SectionTwiceUnavailable(sections []models.SectionAvailability, loc models.Location) bool {
	for _, day := range loc.ClassDays() {
		if !DayHasOpenSection(sections, loc, day) {
			return true
		}
	}
	return false
}

// SectionSoldOutMessage names class days with no open section.
func SectionSoldOutMessage(sections []models.SectionAvailability, loc models.Location) string {
	var sold []models.Day
	for _, day := range loc.ClassDays() {
		if !DayHasOpenSection(sections, loc, day) {
			sold = append(sold, day)
		}
	}
	return soldOutMessage(loc, sold)
}

// Group returns the same-label section for each class day of the studio. Missing days are nil.
func Group(sections []models.SectionAvailability, loc models.Location, label string) []*models.SectionAvailability {
	days := loc.ClassDays()
	group := make([]*models.SectionAvailability, len(days))
	for i, day := range days {
		for _, s := range SectionsOn(sections, loc, day) {
			if s.Label == label {
				s := s
				group[i] = &s
				break
			}
		}
	}
	return group
}

// GroupSoldOut reports whether either half of a label group is missing or full.
func GroupSoldOut(sections []models.SectionAvailability, loc models.Location, label string) bool {
	for _, s := range Group(sections, loc, label) {
		if s == nil || s.SeatsRemaining == 0 {
			return true
		}
	}
	return false
}

// Labels returns the distinct labels offered at a studio in order.
func Labels(sections []models.SectionAvailability, loc models.Location) []string {
	seen := map[string]struct{}{}
	var labels []string
	for _, s := range sections {
		if s.Location != loc {
			continue
		}
		if _, ok := seen[s.Label]; ok {
			continue
		}
		seen[s.Label] = struct{}{}
		labels = append(labels, s.Label)
	}
	sort.Strings(labels)
	return labels
}

// TwiceUnavailable applies the section rule to section-managed studios and the legacy rule otherwise.
func TwiceUnavailable(counts Counts, sections []models.SectionAvailability, loc models.Location) bool {
	if UsesSections(sections, loc) {
		return SectionTwiceUnavailable(sections, loc)
	}
	return LegacyTwiceUnavailable(counts, loc)
}

// SoldOutMessage picks the model the same way as TwiceUnavailable.
func SoldOutMessage(counts Counts, sections []models.SectionAvailability, loc models.Location) string {
	if UsesSections(sections, loc) {
		return SectionSoldOutMessage(sections, loc)
	}
	return LegacySoldOutMessage(counts, loc)
}

func soldOutMessage(loc models.Location, sold []models.Day) string {
	switch {
	case len(sold) == 0:
		return ""
	case len(sold) == len(loc.ClassDays()) && len(sold) == 2:
		return "Both days sold out"
	}
	names := make([]string, len(sold))
	for i, d := range sold {
		names[i] = string(d)
	}
	return strings.Join(names, " and ") + " sold out"
}
