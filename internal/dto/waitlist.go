package dto

// WaitlistRequest is the body of POST /api/waitlist.
type WaitlistRequest struct {
	StudentName  string  `json:"studentName" validate:"required,max=120"`
	Age          int     `json:"age" validate:"gte=0,lte=17"`
	ParentName   string  `json:"parentName" validate:"required,max=120"`
	Phone        string  `json:"phone" validate:"required,max=32"`
	Email        string  `json:"email" validate:"required,email"`
	Location     string  `json:"location" validate:"required,location"`
	RequestedDay string  `json:"requestedDay" validate:"required,classday"`
	Notes        *string `json:"notes,omitempty" validate:"omitempty,max=1000"`
}
