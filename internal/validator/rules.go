package validator

import (
	"log"
	"regexp"

	"masterhub_backend/internal/i18n"
	"masterhub_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	mustRegister("locale", validateLocale)
	mustRegister("job_status", validateJobStatus)
	mustRegister("price_type", validatePriceType)
	mustRegister("user_role", validateUserRole)
	mustRegister("slug", validateSlug)
}

// Пустые значения пропускаем, для этого есть 'required'

func validateLocale(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == "" || i18n.IsSupported(value)
}

func validateJobStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == "" || models.JobStatus(value).IsValid()
}

func validatePriceType(fl validator.FieldLevel) bool {
	switch models.PriceType(fl.Field().String()) {
	case "", models.PriceTypeFixed, models.PriceTypeHourly:
		return true
	}
	return false
}

func validateUserRole(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == "" || models.UserRole(value).IsValid()
}

func validateSlug(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == "" || slugPattern.MatchString(value)
}
