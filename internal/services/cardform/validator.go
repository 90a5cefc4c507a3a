package cardform

import (
	"strings"
	"unicode/utf8"
)

// DefaultMinExpiryYear is the earliest four digit expiry year accepted when
// no floor is configured.
const DefaultMinExpiryYear = 2024

const (
	minCardDigits  = 13
	minCvcDigits   = 3
	minHolderRunes = 2
)

// Validator holds the configurable part of field validation. The zero value
// uses DefaultMinExpiryYear.
type Validator struct {
	MinExpiryYear int
}

// NewValidator returns a Validator with the given expiry year floor.
func NewValidator(minExpiryYear int) Validator {
	return Validator{MinExpiryYear: minExpiryYear}
}

// IsValidCardNumber strips grouping spaces and requires at least 13 digits
// passing the Luhn checksum.
func IsValidCardNumber(display string) bool {
	number := StripSpaces(display)
	if len(number) < minCardDigits || !allDigits(number) {
		return false
	}
	return luhnValid(number)
}

// IsValidExpiry requires the exact MM/YY shape, a calendar month and a year
// not earlier than the configured floor. There is no upper bound.
func (v Validator) IsValidExpiry(display string) bool {
	if len(display) != 5 || display[2] != '/' {
		return false
	}
	if !allDigits(display[:2]) || !allDigits(display[3:]) {
		return false
	}
	month, year, err := ParseExpiry(display)
	if err != nil {
		return false
	}
	if month < 1 || month > 12 {
		return false
	}
	return year >= v.minYear()
}

// IsValidCvc accepts three or four digits.
func IsValidCvc(display string) bool {
	return len(display) >= minCvcDigits && len(display) <= maxCvcDigits && allDigits(display)
}

// IsValidHolderName requires at least two characters once trimmed.
func IsValidHolderName(display string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(display)) >= minHolderRunes
}

// Valid reports whether a field value passes its validator.
func (v Validator) Valid(f Field, value string) bool {
	switch f {
	case FieldCardNumber:
		return IsValidCardNumber(value)
	case FieldExpiry:
		return v.IsValidExpiry(value)
	case FieldCvc:
		return IsValidCvc(value)
	case FieldHolderName:
		return IsValidHolderName(value)
	default:
		return false
	}
}

func (v Validator) minYear() int {
	if v.MinExpiryYear == 0 {
		return DefaultMinExpiryYear
	}
	return v.MinExpiryYear
}

// luhnValid doubles every second digit from the right, folds results above
// nine and checks the sum is a multiple of ten.
func luhnValid(number string) bool {
	var sum int
	double := false
	for i := len(number) - 1; i >= 0; i-- {
		digit := int(number[i] - '0')
		if double {
			digit *= 2
			if digit > 9 {
				digit -= 9
			}
		}
		sum += digit
		double = !double
	}
	return sum%10 == 0
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return true
}
