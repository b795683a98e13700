package models

import "time"

// EnrollmentStatus is the state of a student's claim on a section.
type EnrollmentStatus string

const (
	EnrollmentActive     EnrollmentStatus = "ACTIVE"
	EnrollmentWaitlisted EnrollmentStatus = "WAITLISTED"
	EnrollmentCancelled  EnrollmentStatus = "CANCELLED"
)

// Valid reports whether s is known.
func (s EnrollmentStatus) Valid() bool {
	return s == EnrollmentActive || s == EnrollmentWaitlisted || s == EnrollmentCancelled
}

// Enrollment is unique per (student, section).
type Enrollment struct {
	ID        string           `db:"id" json:"id"`
	StudentID string           `db:"student_id" json:"studentId"`
	SectionID string           `db:"section_id" json:"sectionId"`
	Status    EnrollmentStatus `db:"status" json:"status"`
	CreatedAt time.Time        `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time        `db:"updated_at" json:"updatedAt"`
}

// EnrollmentDetail joins an enrollment with roster fields of its student.
type EnrollmentDetail struct {
	Enrollment
	StudentName   string        `db:"student_name" json:"studentName"`
	Age           int           `db:"age" json:"age"`
	ParentName    string        `db:"parent_name" json:"parentName"`
	Phone         string        `db:"phone" json:"phone"`
	Email         string        `db:"email" json:"email"`
	PaymentStatus PaymentStatus `db:"payment_status" json:"paymentStatus"`
}
