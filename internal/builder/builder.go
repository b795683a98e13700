// Package builder turns raw registration form input into a RegistrationPayload.
// It applies the same checks a parent sees in the browser, in the same order,
// and reports the first failure as a single readable message.
package builder

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/bailakids/registration-api/internal/availability"
	"github.com/bailakids/registration-api/internal/dto"
	"github.com/bailakids/registration-api/internal/models"
)

var (
	phonePattern = regexp.MustCompile(`^\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}$`)
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// Messages shown to the person filling the form.
const (
	MsgRequired        = "All fields are required."
	MsgAge             = "Please enter a valid student age between 1 and 17."
	MsgPhone           = "Please enter a valid 10-digit phone number."
	MsgEmail           = "Please enter a valid email address."
	MsgPaymentMethod   = "Please select a payment method."
	MsgLiability       = "You must accept the liability disclaimer to continue."
	MsgChooseOne       = "Please choose one section"
	MsgChooseTwo       = "Please choose two sections"
	MsgSectionMismatch = "Please choose the same group on both days"
	MsgSectionDays     = "Please choose one section per class day"
	MsgUnknownSection  = "The selected section is no longer available"
	MsgChooseDay       = "Please choose a class day"
	MsgLocation        = "Please choose a location"
	MsgFrequency       = "Please choose how often the student attends"
)

// FormError is a validation failure meant for display.
type FormError struct {
	Message string
}

func (e *FormError) Error() string { return e.Message }

func fail(msg string) error { return &FormError{Message: msg} }

// IsFormError reports whether err came from form validation.
func IsFormError(err error) bool {
	var fe *FormError
	return errors.As(err, &fe)
}

// RegistrationForm is the raw form state before normalisation.
type RegistrationForm struct {
	StudentName       string
	Age               string
	ParentName        string
	Phone             string
	Email             string
	PaymentMethod     string
	LiabilityAccepted bool

	Location  string
	Frequency string
	// Day is the chosen weekday for a once-weekly legacy registration.
	Day string
	// SectionIDs switches the form to the section model when not empty.
	SectionIDs []string

	// WaiverName and WaiverAddress are what the guardian typed when signing the
	// waiver. Both empty means no signature was captured.
	WaiverName    string
	WaiverAddress string
}

// BuildRegistration validates the form and produces the request body.
// sections is the current catalog and is only consulted for section-based forms.
func BuildRegistration(form RegistrationForm, sections []models.SectionAvailability) (dto.RegistrationPayload, error) {
	studentName := collapse(form.StudentName)
	parentName := collapse(form.ParentName)
	phone := strings.TrimSpace(form.Phone)
	email := strings.TrimSpace(form.Email)
	age := strings.TrimSpace(form.Age)

	if studentName == "" || parentName == "" || phone == "" || email == "" || age == "" {
		return dto.RegistrationPayload{}, fail(MsgRequired)
	}
	n, err := strconv.Atoi(age)
	if err != nil || n < 1 || n > 17 {
		return dto.RegistrationPayload{}, fail(MsgAge)
	}
	if !phonePattern.MatchString(phone) {
		return dto.RegistrationPayload{}, fail(MsgPhone)
	}
	if !emailPattern.MatchString(email) {
		return dto.RegistrationPayload{}, fail(MsgEmail)
	}
	method := models.PaymentMethod(strings.TrimSpace(form.PaymentMethod))
	if !method.Valid() {
		return dto.RegistrationPayload{}, fail(MsgPaymentMethod)
	}
	if !form.LiabilityAccepted {
		return dto.RegistrationPayload{}, fail(MsgLiability)
	}

	payload := dto.RegistrationPayload{
		StudentName:       studentName,
		Age:               n,
		ParentName:        parentName,
		Phone:             phone,
		Email:             email,
		PaymentMethod:     string(method),
		LiabilityAccepted: true,
		WaiverSignature:   waiverSignature(form),
	}

	freq, err := frequency(form)
	if err != nil {
		return dto.RegistrationPayload{}, err
	}

	if len(form.SectionIDs) > 0 {
		ids, err := sectionSelection(form.SectionIDs, freq, sections)
		if err != nil {
			return dto.RegistrationPayload{}, err
		}
		payload.SectionIDs = ids
		return payload, nil
	}

	loc := models.Location(strings.TrimSpace(form.Location))
	if !loc.Valid() {
		return dto.RegistrationPayload{}, fail(MsgLocation)
	}
	var days []models.Day
	if freq == models.TwiceAWeek {
		days = loc.ClassDays()
	} else {
		day := models.Day(strings.TrimSpace(form.Day))
		if !loc.HasClassOn(day) {
			return dto.RegistrationPayload{}, fail(MsgChooseDay)
		}
		days = []models.Day{day}
	}

	payload.Location = string(loc)
	payload.Frequency = string(freq)
	payload.SelectedDays = make([]string, len(days))
	for i, d := range days {
		payload.SelectedDays[i] = string(d)
	}
	payload.StartDate = availability.LegacyStartDate(loc, freq, days[0])
	return payload, nil
}

// frequency reads the chosen frequency. When none was given it follows the
// selection: two sections mean twice a week, one section or a single day once.
func frequency(form RegistrationForm) (models.Frequency, error) {
	raw := strings.TrimSpace(form.Frequency)
	if raw != "" {
		freq := models.Frequency(raw)
		if !freq.Valid() {
			return "", fail(MsgFrequency)
		}
		return freq, nil
	}
	switch {
	case len(form.SectionIDs) == 2:
		return models.TwiceAWeek, nil
	case len(form.SectionIDs) > 0, strings.TrimSpace(form.Day) != "":
		return models.OnceAWeek, nil
	}
	return "", fail(MsgFrequency)
}

func waiverSignature(form RegistrationForm) *dto.WaiverSignature {
	name := collapse(form.WaiverName)
	address := strings.TrimSpace(form.WaiverAddress)
	if name == "" && address == "" {
		return nil
	}
	return &dto.WaiverSignature{Name: name, Address: address}
}

func sectionSelection(raw []string, freq models.Frequency, sections []models.SectionAvailability) ([]string, error) {
	ids := make([]string, 0, len(raw))
	for _, id := range raw {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}

	switch {
	case freq == models.OnceAWeek && len(ids) != 1:
		return nil, fail(MsgChooseOne)
	case freq == models.TwiceAWeek && len(ids) != 2:
		return nil, fail(MsgChooseTwo)
	}

	byID := make(map[string]models.ClassSection, len(sections))
	for _, s := range sections {
		byID[s.ID] = s.ClassSection
	}
	chosen := make([]models.ClassSection, len(ids))
	for i, id := range ids {
		s, ok := byID[id]
		if !ok {
			return nil, fail(MsgUnknownSection)
		}
		chosen[i] = s
	}

	if len(chosen) == 2 {
		switch err := availability.ValidatePair(chosen[0], chosen[1]); {
		case errors.Is(err, availability.ErrPairLabel):
			return nil, fail(MsgSectionMismatch)
		case err != nil:
			return nil, fail(MsgSectionDays)
		}
	}
	return ids, nil
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
