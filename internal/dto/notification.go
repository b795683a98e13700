package dto

// ConfirmationRequest is the body of POST /api/send-confirmation.
type ConfirmationRequest struct {
	Email         string   `json:"email"`
	StudentName   string   `json:"studentName,omitempty"`
	ParentName    string   `json:"parentName,omitempty"`
	Phone         string   `json:"phone,omitempty"`
	Location      string   `json:"location,omitempty"`
	Frequency     string   `json:"frequency,omitempty"`
	SelectedDays  []string `json:"selectedDays,omitempty"`
	StartDate     string   `json:"startDate,omitempty"`
	PaymentMethod string   `json:"paymentMethod,omitempty"`
	SectionIDs    []string `json:"sectionIds,omitempty"`
}
