package models

import "time"

// Location is a studio where classes meet.
type Location string

const (
	LocationKaty      Location = "KATY"
	LocationSugarLand Location = "SUGARLAND"
)

// Locations lists every studio in display order.
var Locations = []Location{LocationKaty, LocationSugarLand}

// Valid reports whether l is a known studio.
func (l Location) Valid() bool {
	return l == LocationKaty || l == LocationSugarLand
}

// ClassDays returns the weekdays the studio offers classes on.
func (l Location) ClassDays() []Day {
	switch l {
	case LocationKaty:
		return []Day{Tuesday, Wednesday}
	case LocationSugarLand:
		return []Day{Monday, Thursday}
	}
	return nil
}

// HasClassOn reports whether d is one of the studio's class days.
func (l Location) HasClassOn(d Day) bool {
	for _, day := range l.ClassDays() {
		if day == d {
			return true
		}
	}
	return false
}

// Day is a class weekday.
type Day string

const (
	Monday    Day = "Monday"
	Tuesday   Day = "Tuesday"
	Wednesday Day = "Wednesday"
	Thursday  Day = "Thursday"
)

// Days lists the class weekdays in calendar order.
var Days = []Day{Monday, Tuesday, Wednesday, Thursday}

// Valid reports whether d is a class weekday.
func (d Day) Valid() bool {
	return d.Weekday() != time.Sunday
}

// Weekday maps d onto time.Weekday. Unknown days map to Sunday.
func (d Day) Weekday() time.Weekday {
	switch d {
	case Monday:
		return time.Monday
	case Tuesday:
		return time.Tuesday
	case Wednesday:
		return time.Wednesday
	case Thursday:
		return time.Thursday
	}
	return time.Sunday
}

// Frequency is how often a student attends per week.
type Frequency string

const (
	OnceAWeek  Frequency = "ONCE_A_WEEK"
	TwiceAWeek Frequency = "TWICE_A_WEEK"
)

// Valid reports whether f is known.
func (f Frequency) Valid() bool {
	return f == OnceAWeek || f == TwiceAWeek
}

// Days returns the number of class days f implies.
func (f Frequency) Days() int {
	if f == TwiceAWeek {
		return 2
	}
	return 1
}

// FrequencyForCount infers the frequency from a number of chosen sections.
func FrequencyForCount(n int) Frequency {
	if n >= 2 {
		return TwiceAWeek
	}
	return OnceAWeek
}

// PaymentMethod is how the family intends to pay.
type PaymentMethod string

const (
	PaymentCash  PaymentMethod = "Cash"
	PaymentZelle PaymentMethod = "Zelle"
	PaymentCheck PaymentMethod = "Check"
)

// Valid reports whether m is accepted.
func (m PaymentMethod) Valid() bool {
	return m == PaymentCash || m == PaymentZelle || m == PaymentCheck
}

// PaymentStatus tracks whether tuition has been received.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "PENDING"
	PaymentPaid    PaymentStatus = "PAID"
	PaymentFailed  PaymentStatus = "FAILED"
)

// Valid reports whether s is known.
func (s PaymentStatus) Valid() bool {
	return s == PaymentPending || s == PaymentPaid || s == PaymentFailed
}

// Session identifies a registration term.
type Session string

const (
	SessionFall2025   Session = "FALL_2025"
	SessionSpring2026 Session = "SPRING_2026"
)

// Sessions lists the known terms.
var Sessions = []Session{SessionFall2025, SessionSpring2026}

// ParseSession validates raw against the known sessions.
func ParseSession(raw string) (Session, bool) {
	for _, s := range Sessions {
		if string(s) == raw {
			return s, true
		}
	}
	return "", false
}
