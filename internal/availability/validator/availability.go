package validator

import (
	"errors"
	bookingsvalidator "slotly/internal/bookings/validator"
	"slotly/pkg/model"

	"github.com/go-playground/validator/v10"
)

type AvailabilityValidator struct {
	validate *validator.Validate
}

func NewAvailabilityValidator() *AvailabilityValidator {
	return &AvailabilityValidator{
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Validate reports field errors in the same shape the booking validator does.
func (v *AvailabilityValidator) Validate(block *model.AvailabilityBlock) error {
	if err := v.validate.Struct(block); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return bookingsvalidator.TranslateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}
