package dto

import (
	"github.com/go-playground/validator/v10"

	"github.com/bailakids/registration-api/internal/models"
)

// NewValidator returns a validator with the registration enum tags registered:
// location, classday, frequency, paymentmethod, paymentstatus and enrollmentstatus.
func NewValidator() *validator.Validate {
	v := validator.New()
	RegisterValidations(v)
	return v
}

// RegisterValidations adds the enum tags to an existing validator.
func RegisterValidations(v *validator.Validate) {
	enum := func(valid func(string) bool) validator.Func {
		return func(fl validator.FieldLevel) bool {
			return valid(fl.Field().String())
		}
	}
	_ = v.RegisterValidation("location", enum(func(s string) bool { return models.Location(s).Valid() }))
	_ = v.RegisterValidation("classday", enum(func(s string) bool { return models.Day(s).Valid() }))
	_ = v.RegisterValidation("frequency", enum(func(s string) bool { return models.Frequency(s).Valid() }))
	_ = v.RegisterValidation("paymentmethod", enum(func(s string) bool { return models.PaymentMethod(s).Valid() }))
	_ = v.RegisterValidation("paymentstatus", enum(func(s string) bool { return models.PaymentStatus(s).Valid() }))
	_ = v.RegisterValidation("enrollmentstatus", enum(func(s string) bool { return models.EnrollmentStatus(s).Valid() }))
}
