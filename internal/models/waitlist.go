package models

import "time"

// WaitingListEntry records interest in a full day with no open section.
type WaitingListEntry struct {
	ID           string    `db:"id" json:"id"`
	StudentName  string    `db:"student_name" json:"studentName"`
	Age          int       `db:"age" json:"age"`
	ParentName   string    `db:"parent_name" json:"parentName"`
	Phone        string    `db:"phone" json:"phone"`
	Email        string    `db:"email" json:"email"`
	Location     Location  `db:"location" json:"location"`
	RequestedDay Day       `db:"requested_day" json:"requestedDay"`
	Notes        *string   `db:"notes" json:"notes,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}
