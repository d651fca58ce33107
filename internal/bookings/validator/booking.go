package validator

import (
	"time"

	"assetshare/pkg/logger"
	"assetshare/pkg/model"
	"assetshare/pkg/validation"
)

const dateLayout = "2006-01-02"

type BookingValidator struct {
	validate *validation.Validator
	logger   *logger.Logger
	now      func() time.Time
}

func NewBookingValidator(v *validation.Validator, log *logger.Logger) *BookingValidator {
	return &BookingValidator{validate: v, logger: log, now: time.Now}
}

// WithClock replaces the clock used for the past-date rule.
func (v *BookingValidator) WithClock(now func() time.Time) *BookingValidator {
	v.now = now
	return v
}

func (v *BookingValidator) Validate(booking *model.BookingCreate) error {
	if err := v.validate.Struct(booking); err != nil {
		return err
	}

	start, _ := time.Parse(dateLayout, booking.Dates.Start)
	end, _ := time.Parse(dateLayout, booking.Dates.End)

	if end.Before(start) {
		return validation.ValidationErrors{
			validation.ValidationError{
				Field:   "dates.end",
				Message: "end date must not be before start date",
			},
		}
	}

	today := v.now().Format(dateLayout)
	if booking.Dates.Start < today {
		return validation.ValidationErrors{
			validation.ValidationError{
				Field:   "dates.start",
				Message: "start date cannot be in the past",
			},
		}
	}

	return nil
}

func (v *BookingValidator) ValidatePayment(payment *model.PaymentCreate) error {
	return v.validate.Struct(payment)
}

func (v *BookingValidator) ValidateFeedback(feedback *model.FeedbackCreate) error {
	return v.validate.Struct(feedback)
}
