package models

import "time"

// ClassSection is one offered class slot at a studio on a weekday.
type ClassSection struct {
	ID         string     `db:"id" json:"id"`
	Location   Location   `db:"location" json:"location"`
	Day        Day        `db:"day" json:"day"`
	Label      string     `db:"label" json:"label"`
	Session    Session    `db:"session" json:"session"`
	Capacity   int        `db:"capacity" json:"capacity"`
	PriceCents int        `db:"price_cents" json:"priceCents"`
	StartDate  *time.Time `db:"start_date" json:"startDate"`
	StartTime  *string    `db:"start_time" json:"startTime"`
	EndTime    *string    `db:"end_time" json:"endTime"`
	IsActive   bool       `db:"is_active" json:"isActive"`
	CreatedAt  time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time  `db:"updated_at" json:"updatedAt"`
}

// SectionAvailability is a section with its current ACTIVE enrollment count.
type SectionAvailability struct {
	ClassSection
	ActiveCount    int `db:"active_count" json:"activeCount"`
	SeatsRemaining int `db:"-" json:"seatsRemaining"`
}

// ComputeSeats fills SeatsRemaining from capacity and ActiveCount.
func (s *SectionAvailability) ComputeSeats() {
	s.SeatsRemaining = SeatsRemaining(s.Capacity, s.ActiveCount)
}

// HasSeat reports whether another ACTIVE enrollment fits.
func (s SectionAvailability) HasSeat() bool {
	return s.ActiveCount < s.Capacity
}

// SeatsRemaining is max(0, capacity - active).
func SeatsRemaining(capacity, active int) int {
	if remaining := capacity - active; remaining > 0 {
		return remaining
	}
	return 0
}

// SectionFilter narrows catalog reads.
type SectionFilter struct {
	Location   Location
	Session    Session
	ActiveOnly bool
	IDs        []string
}
