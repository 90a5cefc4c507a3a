package cardform

import (
	"errors"
	"strconv"
	"strings"
)

const (
	maxCardDigits   = 16
	maxExpiryDigits = 4
	maxCvcDigits    = 4
	cardGroupSize   = 4
)

// ErrMalformedExpiry is returned by ParseExpiry for anything but MM/YY.
var ErrMalformedExpiry = errors.New("expiry must be MM/YY")

// FormatCardNumber keeps the digits of raw, truncates them to 16 and groups
// them in blocks of four separated by a single space.
func FormatCardNumber(raw string) string {
	digits := digitsOnly(raw, maxCardDigits)

	var b strings.Builder
	b.Grow(len(digits) + len(digits)/cardGroupSize)
	for i := 0; i < len(digits); i++ {
		if i > 0 && i%cardGroupSize == 0 {
			b.WriteByte(' ')
		}
		b.WriteByte(digits[i])
	}
	return b.String()
}

// FormatExpiry keeps the digits of raw, truncates them to four and inserts a
// slash after the month once the year has started.
func FormatExpiry(raw string) string {
	digits := digitsOnly(raw, maxExpiryDigits)
	if len(digits) <= 2 {
		return digits
	}
	return digits[:2] + "/" + digits[2:]
}

// ParseExpiry splits an MM/YY display value into a calendar month and a
// four digit year.
func ParseExpiry(display string) (month, year int, err error) {
	mm, yy, ok := strings.Cut(display, "/")
	if !ok || len(mm) != 2 || len(yy) != 2 {
		return 0, 0, ErrMalformedExpiry
	}
	month, err = strconv.Atoi(mm)
	if err != nil {
		return 0, 0, ErrMalformedExpiry
	}
	y, err := strconv.Atoi(yy)
	if err != nil {
		return 0, 0, ErrMalformedExpiry
	}
	return month, 2000 + y, nil
}

// StripSpaces removes the grouping spaces of a formatted card number.
func StripSpaces(display string) string {
	return strings.ReplaceAll(display, " ", "")
}

func sanitizeCvc(raw string) string {
	return digitsOnly(raw, maxCvcDigits)
}

func digitsOnly(s string, limit int) string {
	out := make([]byte, 0, limit)
	for i := 0; i < len(s) && len(out) < limit; i++ {
		if isDigit(s[i]) {
			out = append(out, s[i])
		}
	}
	return string(out)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
