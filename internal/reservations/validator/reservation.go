package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"courtbook/pkg/calendar"
	"courtbook/pkg/logger"
	"courtbook/pkg/model"

	"github.com/go-playground/validator/v10"
)

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

type ReservationValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewReservationValidator(log *logger.Logger) *ReservationValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonFieldName)

	for tag, fn := range map[string]validator.Func{
		"time_of_day": validateTimeOfDay,
		"civil_date":  validateCivilDate,
		"unit":        validateUnit,
	} {
		if err := v.RegisterValidation(tag, fn); err != nil {
			log.Fatal("Failed to register validator", "tag", tag, "error", err)
		}
	}

	return &ReservationValidator{
		validate: v,
		logger:   log,
	}
}

func jsonFieldName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return field.Name
	}
	return name
}

func validateTimeOfDay(fl validator.FieldLevel) bool {
	_, err := calendar.ParseTimeOfDay(fl.Field().String())
	return err == nil
}

func validateCivilDate(fl validator.FieldLevel) bool {
	_, err := calendar.ParseDate(fl.Field().String())
	return err == nil
}

func validateUnit(fl validator.FieldLevel) bool {
	_, err := model.ParseUnit(fl.Field().String())
	return err == nil
}

// Validate checks a booking request. A request names either an explicit
// window or a slot index, never both.
func (v *ReservationValidator) Validate(req *model.BookingRequest) error {
	if err := v.structErrors(req); err != nil {
		return err
	}

	hasWindow := req.StartTime != "" || req.EndTime != ""
	hasSlot := req.SlotIndex != nil

	var errs ValidationErrors
	switch {
	case hasWindow && hasSlot:
		errs = append(errs, ValidationError{Field: "slot_index", Message: "slot_index cannot be combined with start_time/end_time"})
	case !hasWindow && !hasSlot:
		errs = append(errs, ValidationError{Field: "start_time", Message: "either start_time/end_time or slot_index is required"})
	case hasWindow && (req.StartTime == "" || req.EndTime == ""):
		errs = append(errs, ValidationError{Field: "end_time", Message: "start_time and end_time must be given together"})
	}
	if req.SlotCount != 0 && !hasSlot {
		errs = append(errs, ValidationError{Field: "slot_count", Message: "slot_count requires slot_index"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (v *ReservationValidator) ValidateCancel(req *model.CancelRequest) error {
	return v.structErrors(req)
}

// ValidateCourt checks catalog data before it is scheduled against.
func (v *ReservationValidator) ValidateCourt(court *model.Court) error {
	return v.structErrors(court)
}

func (v *ReservationValidator) structErrors(s any) error {
	if err := v.validate.Struct(s); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func (v *ReservationValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "gt", "gte", "lte":
			message = fmt.Sprintf("%s is out of range", err.Field())
		case "time_of_day":
			message = fmt.Sprintf("%s must be a time of day as HH:MM", err.Field())
		case "civil_date":
			message = fmt.Sprintf("%s must be a date as YYYY-MM-DD", err.Field())
		case "unit":
			message = fmt.Sprintf("%s must be empty, \"any\" or a section number", err.Field())
		case "timezone":
			message = fmt.Sprintf("%s must be an IANA time zone", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
