// Package validation wraps go-playground/validator with English messages,
// json field names and the custom tags used by the dashboard forms.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	apperrors "assetshare/pkg/errors"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/shopspring/decimal"
)

const (
	TagDecimalAmount = "decimal_amount"
	TagWeekdays      = "weekdays"
)

// Weekdays are the day keys accepted in an asset's availability.days.
var Weekdays = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	messages := make([]string, 0, len(v))
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

// Details maps each field to its first message, the shape used in error
// response details.
func (v ValidationErrors) Details() map[string]any {
	details := make(map[string]any, len(v))
	for _, err := range v {
		if _, ok := details[err.Field]; !ok {
			details[err.Field] = err.Message
		}
	}
	return details
}

type Validator struct {
	validate *validator.Validate
	trans    ut.Translator
}

func New() (*Validator, error) {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonName)

	english := en.New()
	trans, _ := ut.New(english, english).GetTranslator("en")
	if err := entranslations.RegisterDefaultTranslations(v, trans); err != nil {
		return nil, fmt.Errorf("register translations: %w", err)
	}

	custom := []struct {
		tag     string
		fn      validator.Func
		message string
	}{
		{TagDecimalAmount, validateDecimalAmount, "{0} must be a positive amount"},
		{TagWeekdays, validateWeekdays, "{0} days must be among Mon, Tue, Wed, Thu, Fri, Sat, Sun"},
	}
	for _, c := range custom {
		if err := v.RegisterValidation(c.tag, c.fn); err != nil {
			return nil, fmt.Errorf("register %q: %w", c.tag, err)
		}
		if err := v.RegisterTranslation(c.tag, trans, registerMessage(c.tag, c.message), translateField); err != nil {
			return nil, fmt.Errorf("register %q translation: %w", c.tag, err)
		}
	}

	// e164 is reworded with a local example number.
	if err := v.RegisterTranslation("e164", trans, registerMessage("e164", "{0} must be in E.164 format (e.g., +2348031234567)"), translateField); err != nil {
		return nil, fmt.Errorf("register e164 translation: %w", err)
	}

	return &Validator{validate: v, trans: trans}, nil
}

// MustNew is New for package-level wiring; it panics on a registration bug.
func MustNew() *Validator {
	v, err := New()
	if err != nil {
		panic(err)
	}
	return v
}

// Struct validates s and returns ValidationErrors for rule violations.
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		return v.translate(validationErrs)
	}
	return err
}

func (v *Validator) translate(errs validator.ValidationErrors) ValidationErrors {
	out := make(ValidationErrors, 0, len(errs))
	for _, err := range errs {
		out = append(out, ValidationError{
			Field:   fieldPath(err.Namespace()),
			Message: err.Translate(v.trans),
		})
	}
	return out
}

// fieldPath drops the struct name from a namespace: "BookingCreate.dates.start"
// becomes "dates.start".
func fieldPath(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		return rest
	}
	return namespace
}

func jsonName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return fld.Name
	}
	return name
}

func registerMessage(tag, message string) validator.RegisterTranslationsFunc {
	return func(ut ut.Translator) error {
		return ut.Add(tag, message, true)
	}
}

func translateField(ut ut.Translator, fe validator.FieldError) string {
	t, err := ut.T(fe.Tag(), fe.Field())
	if err != nil {
		return fe.Error()
	}
	return t
}

func validateDecimalAmount(fl validator.FieldLevel) bool {
	if fl.Field().Kind() != reflect.String {
		return false
	}
	d, err := decimal.NewFromString(strings.TrimSpace(fl.Field().String()))
	if err != nil {
		return false
	}
	return d.IsPositive()
}

// validateWeekdays accepts an availability map whose optional "days" entry
// lists known weekday keys.
func validateWeekdays(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.Map {
		return false
	}
	availability, ok := field.Interface().(map[string]any)
	if !ok {
		return false
	}
	raw, ok := availability["days"]
	if !ok {
		return true
	}
	days, ok := raw.([]any)
	if !ok {
		if typed, isStrings := raw.([]string); isStrings {
			for _, d := range typed {
				days = append(days, d)
			}
		} else {
			return false
		}
	}
	for _, d := range days {
		s, ok := d.(string)
		if !ok || !IsWeekday(s) {
			return false
		}
	}
	return true
}

func IsWeekday(day string) bool {
	for _, w := range Weekdays {
		if w == day {
			return true
		}
	}
	return false
}

// ToAppError turns a Struct result into the VALIDATION error sent to the
// dashboard. Other errors become internal errors.
func ToAppError(err error) error {
	if err == nil {
		return nil
	}
	var verrs ValidationErrors
	if errors.As(err, &verrs) {
		return apperrors.Validation("Please correct the highlighted fields", verrs.Details()).WithCause(err)
	}
	return apperrors.Internal("Failed to validate input", err)
}
