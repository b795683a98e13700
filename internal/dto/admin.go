package dto

// UpdateStudentRequest is the partial body of PUT /api/admin/students/{id}.
type UpdateStudentRequest struct {
	StudentName   *string  `json:"studentName" validate:"omitempty,min=1,max=120"`
	Age           *int     `json:"age" validate:"omitempty,min=1,max=17"`
	ParentName    *string  `json:"parentName" validate:"omitempty,min=1,max=120"`
	Phone         *string  `json:"phone" validate:"omitempty,min=7,max=32"`
	Email         *string  `json:"email" validate:"omitempty,email"`
	Location      *string  `json:"location" validate:"omitempty,location"`
	Frequency     *string  `json:"frequency" validate:"omitempty,frequency"`
	SelectedDays  []string `json:"selectedDays" validate:"omitempty,max=2,dive,classday"`
	StartDate     *string  `json:"startDate" validate:"omitempty"`
	PaymentStatus *string  `json:"paymentStatus" validate:"omitempty,paymentstatus"`
	PaymentMethod *string  `json:"paymentMethod" validate:"omitempty,paymentmethod"`
}

// StudentListQuery holds the admin listing query string.
type StudentListQuery struct {
	Search        string `form:"search"`
	Location      string `form:"location" validate:"omitempty,location"`
	PaymentStatus string `form:"paymentStatus" validate:"omitempty,paymentstatus"`
	Session       string `form:"session"`
	Page          int    `form:"page" validate:"omitempty,min=1"`
	PageSize      int    `form:"pageSize" validate:"omitempty,min=1,max=500"`
	SortBy        string `form:"sortBy" validate:"omitempty,oneof=studentName parentName startDate createdAt"`
	SortOrder     string `form:"sortOrder" validate:"omitempty,oneof=asc desc ASC DESC"`
}

// UpdateEnrollmentStatusRequest is the body of PUT /api/admin/enrollments/{id}/status.
type UpdateEnrollmentStatusRequest struct {
	Status string `json:"status" validate:"required,enrollmentstatus"`
}

// CreateCalendarEventRequest is the body of POST /api/admin/calendar/events.
type CreateCalendarEventRequest struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
	Note string `json:"note" validate:"required,max=500"`
}

// ConfigurationItem is a setting exposed to the admin API.
type ConfigurationItem struct {
	Key         string `json:"key"`
	Value       string `json:"value"`
	Type        string `json:"type"`
	Description string `json:"description"`
	// Previous is the replaced value, set only in update responses.
	Previous *string `json:"previous,omitempty"`
}

// UpdateConfigurationRequest is the body of PUT /api/admin/config/{key}.
type UpdateConfigurationRequest struct {
	Value string `json:"value" binding:"required" validate:"required"`
}
