package validation

import (
	"regexp"

	validation "github.com/jellydator/validation"
)

var specialChars = regexp.MustCompile(`[!@#$%^&*(),.?":{}|<>]`)

// HasSpecialChar checks if a string contains at least one special character
func HasSpecialChar(s string) bool {
	return specialChars.MatchString(s)
}

// Password requires a special character; length is checked separately.
var Password = validation.NewStringRuleWithError(
	HasSpecialChar,
	validation.NewError("validation_password_special", "password must contain a special character"),
)
