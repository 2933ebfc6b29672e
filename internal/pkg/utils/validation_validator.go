package utils

import (
	"reflect"

	"teleconsult-service/internal/app/models"
	"teleconsult-service/internal/pkg/constvars"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("severity", validateSeverity)
	validate.RegisterValidation("consultation_type", validateConsultationType)
	validate.RegisterValidation("hour_of_day", validateHourOfDay)
	validate.RegisterValidation("shift_type", validateShiftType)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

func validateSeverity(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case constvars.SeverityMild, constvars.SeverityModerate, constvars.SeveritySevere:
		return true
	}
	return false
}

func validateConsultationType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case constvars.ConsultationTypeChat, constvars.ConsultationTypeAudio, constvars.ConsultationTypeVideo:
		return true
	}
	return false
}

// validateHourOfDay accepts ints and *int in [0, 23]. A nil pointer is left
// to the required tag.
func validateHourOfDay(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() == reflect.Ptr {
		if field.IsNil() {
			return true
		}
		field = field.Elem()
	}
	switch field.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		hour := field.Int()
		return hour >= 0 && hour <= 23
	}
	return false
}

func validateShiftType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case models.ShiftTypeMorning, models.ShiftTypeAfternoon, models.ShiftTypeEvening, models.ShiftTypeNight, models.ShiftTypeCustom:
		return true
	}
	return false
}
