package dto

import "strings"

// WaiverSignature is the typed signature captured with the liability waiver.
type WaiverSignature struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// RegistrationPayload is the body of POST /api/register. It carries either
// sectionIds or the legacy location/frequency/selectedDays/startDate fields.
type RegistrationPayload struct {
	StudentName       string           `json:"studentName"`
	Age               int              `json:"age"`
	ParentName        string           `json:"parentName"`
	Phone             string           `json:"phone"`
	Email             string           `json:"email"`
	PaymentMethod     string           `json:"paymentMethod,omitempty"`
	LiabilityAccepted bool             `json:"liabilityAccepted"`
	WaiverSignature   *WaiverSignature `json:"waiverSignature,omitempty"`

	SectionIDs []string `json:"sectionIds,omitempty"`

	Location     string   `json:"location,omitempty"`
	Frequency    string   `json:"frequency,omitempty"`
	SelectedDays []string `json:"selectedDays,omitempty"`
	StartDate    string   `json:"startDate,omitempty"`
}

// Selection is the part of a registration that picks classes.
// It is either a SectionSelection or a LegacySelection.
type Selection interface {
	selection()
}

// SectionSelection picks concrete class sections.
type SectionSelection struct {
	SectionIDs []string
}

// LegacySelection picks weekdays at a studio.
type LegacySelection struct {
	Location     string
	Frequency    string
	SelectedDays []string
	StartDate    string
}

func (SectionSelection) selection() {}
func (LegacySelection) selection()  {}

// Selection decides the payload shape from a single discriminant: a non-empty sectionIds list.
func (p RegistrationPayload) Selection() Selection {
	if len(p.SectionIDs) > 0 {
		ids := make([]string, len(p.SectionIDs))
		for i, id := range p.SectionIDs {
			ids[i] = strings.TrimSpace(id)
		}
		return SectionSelection{SectionIDs: ids}
	}
	return LegacySelection{
		Location:     strings.TrimSpace(p.Location),
		Frequency:    strings.TrimSpace(p.Frequency),
		SelectedDays: p.SelectedDays,
		StartDate:    strings.TrimSpace(p.StartDate),
	}
}

// RegistrationResult summarises a stored registration for logs, events and the CLI.
type RegistrationResult struct {
	StudentID   string              `json:"studentId"`
	Location    string              `json:"location"`
	Frequency   string              `json:"frequency"`
	Session     string              `json:"session"`
	Enrollments []EnrollmentOutcome `json:"enrollments,omitempty"`
}

// EnrollmentOutcome is the seat decision for one section.
type EnrollmentOutcome struct {
	SectionID string `json:"sectionId"`
	Status    string `json:"status"`
}
