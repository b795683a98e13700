package dto

import "time"

// SectionView is one entry of GET /api/sections.
type SectionView struct {
	ID             string     `json:"id"`
	Location       string     `json:"location"`
	Day            string     `json:"day"`
	Label          string     `json:"label"`
	StartDate      *time.Time `json:"startDate"`
	StartTime      *string    `json:"startTime"`
	EndTime        *string    `json:"endTime"`
	PriceCents     int        `json:"priceCents"`
	Capacity       int        `json:"capacity"`
	ActiveCount    int        `json:"activeCount"`
	SeatsRemaining int        `json:"seatsRemaining"`
}

// SectionsResponse is the body of GET /api/sections.
type SectionsResponse struct {
	RegistrationOpen bool          `json:"registrationOpen"`
	Sections         []SectionView `json:"sections"`
}

// ClassCountsResponse is the body of GET /api/class-counts: location -> day -> students.
type ClassCountsResponse struct {
	Counts map[string]map[string]int `json:"counts"`
}

// DayAvailability describes one studio weekday under the legacy day-count model.
type DayAvailability struct {
	Day        string `json:"day"`
	Enrolled   int    `json:"enrolled"`
	Remaining  int    `json:"remaining"`
	SoldOut    bool   `json:"soldOut"`
	Message    string `json:"message,omitempty"`
	PriceCents int    `json:"priceCents"`
	StartDate  string `json:"startDate,omitempty"`
}

// GroupAvailability describes a same-label two-day bundle.
type GroupAvailability struct {
	Label            string `json:"label"`
	SoldOut          bool   `json:"soldOut"`
	BundlePriceCents int    `json:"bundlePriceCents"`
}

// LocationAvailability is the per-studio snapshot of GET /api/availability.
type LocationAvailability struct {
	Location           string              `json:"location"`
	Days               []DayAvailability   `json:"days"`
	TwiceUnavailable   bool                `json:"twiceUnavailable"`
	BothDaysPriceCents int                 `json:"bothDaysPriceCents"`
	SoldOutMessage     string              `json:"soldOutMessage,omitempty"`
	Sections           []SectionView       `json:"sections,omitempty"`
	Groups             []GroupAvailability `json:"groups,omitempty"`
}

// AvailabilityResponse is the body of GET /api/availability.
type AvailabilityResponse struct {
	Session          string                 `json:"session"`
	RegistrationOpen bool                   `json:"registrationOpen"`
	Locations        []LocationAvailability `json:"locations"`
}
