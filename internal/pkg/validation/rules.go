package validation

import (
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
)

// Validation rule patterns
var (
	// Vietnamese mobile and landline numbers, local or +84 form
	PhonePattern = `^(0|\+84)\d{9,10}$`

	// Time of day
	ClockPattern = `^([01]\d|2[0-3]):[0-5]\d$`

	DateLayout = "2006-01-02"

	PasswordMinLength = 8
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	Phone *regexp.Regexp
	Clock *regexp.Regexp
}{
	Phone: regexp.MustCompile(PhonePattern),
	Clock: regexp.MustCompile(ClockPattern),
}

// registerRules adds the custom tags used by request DTOs
func registerRules(v *validator.Validate) {
	_ = v.RegisterValidation("vnphone", func(fl validator.FieldLevel) bool {
		return CompiledPatterns.Phone.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		return CompiledPatterns.Clock.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("pastdate", func(fl validator.FieldLevel) bool {
		d, err := time.ParseInLocation(DateLayout, fl.Field().String(), time.Local)
		if err != nil {
			return false
		}
		return !d.After(time.Now())
	})
}
