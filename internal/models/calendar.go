package models

import "time"

// CalendarEvent is an administrator note pinned to a date.
type CalendarEvent struct {
	ID        string    `db:"id" json:"id"`
	Date      time.Time `db:"event_date" json:"date"`
	Note      string    `db:"note" json:"note"`
	CreatedBy *string   `db:"created_by" json:"createdBy,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// CalendarEntryKind classifies calendar entries.
type CalendarEntryKind string

const (
	CalendarStudentStart CalendarEntryKind = "STUDENT_START"
	CalendarClassMeeting CalendarEntryKind = "CLASS"
	CalendarNote         CalendarEntryKind = "EVENT"
)

// CalendarEntry is one item on the admin month view.
type CalendarEntry struct {
	Date      string            `json:"date"`
	Kind      CalendarEntryKind `json:"kind"`
	Title     string            `json:"title"`
	StudentID string            `json:"studentId,omitempty"`
	SectionID string            `json:"sectionId,omitempty"`
	EventID   string            `json:"eventId,omitempty"`
}

// CalendarMonth groups entries for one month.
type CalendarMonth struct {
	Month   string          `json:"month"`
	Entries []CalendarEntry `json:"entries"`
}
