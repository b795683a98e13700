package models

import (
	"time"

	"github.com/lib/pq"
)

// Student is a registered child together with guardian contact details.
type Student struct {
	ID                string         `db:"id" json:"id"`
	StudentName       string         `db:"student_name" json:"studentName"`
	Age               int            `db:"age" json:"age"`
	ParentName        string         `db:"parent_name" json:"parentName"`
	Phone             string         `db:"phone" json:"phone"`
	Email             string         `db:"email" json:"email"`
	Location          Location       `db:"location" json:"location"`
	Frequency         Frequency      `db:"frequency" json:"frequency"`
	SelectedDays      pq.StringArray `db:"selected_days" json:"selectedDays"`
	StartDate         *time.Time     `db:"start_date" json:"startDate,omitempty"`
	PaymentStatus     PaymentStatus  `db:"payment_status" json:"paymentStatus"`
	PaymentMethod     *string        `db:"payment_method" json:"paymentMethod,omitempty"`
	LiabilityAccepted bool           `db:"liability_accepted" json:"liabilityAccepted"`
	WaiverName        *string        `db:"waiver_name" json:"waiverName,omitempty"`
	WaiverAddress     *string        `db:"waiver_address" json:"waiverAddress,omitempty"`
	Session           Session        `db:"session" json:"session"`
	CreatedAt         time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt         time.Time      `db:"updated_at" json:"updatedAt"`
}

// StudentFilter encapsulates allowed search parameters for listing students.
type StudentFilter struct {
	Search        string
	Location      Location
	PaymentStatus PaymentStatus
	Session       Session
	Page          int
	PageSize      int
	SortBy        string
	SortOrder     string
}

// StudentUpdate carries the fields an administrator may change. Nil fields are untouched.
type StudentUpdate struct {
	StudentName   *string
	Age           *int
	ParentName    *string
	Phone         *string
	Email         *string
	Location      *Location
	Frequency     *Frequency
	SelectedDays  []string
	StartDate     *time.Time
	PaymentStatus *PaymentStatus
	PaymentMethod *string
}

// Empty reports whether no field is set.
func (u StudentUpdate) Empty() bool {
	return u.StudentName == nil && u.Age == nil && u.ParentName == nil && u.Phone == nil &&
		u.Email == nil && u.Location == nil && u.Frequency == nil && u.SelectedDays == nil &&
		u.StartDate == nil && u.PaymentStatus == nil && u.PaymentMethod == nil
}

// DayCount is the number of students attending a studio on a weekday.
type DayCount struct {
	Location Location `db:"location"`
	Day      Day      `db:"day"`
	Count    int      `db:"count"`
}
