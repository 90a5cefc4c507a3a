package cardform

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidCardNumber(t *testing.T) {
	tests := []struct {
		name   string
		number string
		want   bool
	}{
		{"visa formatted", "4242 4242 4242 4242", true},
		{"visa raw", "4242424242424242", true},
		{"mastercard", "5555 5555 5555 4444", true},
		{"amex fifteen digits", "378282246310005", true},
		{"diners fourteen digits", "36227206271667", true},
		{"thirteen digits", "4222222222222", true},
		{"fails luhn", "1234567890123456", false},
		{"too short", "4242 4242 42", false},
		{"empty", "", false},
		{"letters", "4242 4242 4242 424a", false},
		{"dashes not stripped", "4242-4242-4242-4242", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidCardNumber(tt.number))
		})
	}
}

func TestIsValidCardNumber_GeneratedLuhnSequences(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for length := 13; length <= 19; length++ {
		for i := 0; i < 25; i++ {
			number := luhnNumber(rng, length)
			assert.True(t, IsValidCardNumber(number), "expected %q to be valid", number)
		}
	}
}

func TestIsValidCardNumber_SingleDigitSubstitution(t *testing.T) {
	rng := rand.New(rand.NewSource(11))

	for i := 0; i < 20; i++ {
		number := luhnNumber(rng, 13+rng.Intn(7))
		for pos := 0; pos < len(number); pos++ {
			for d := byte('0'); d <= '9'; d++ {
				if d == number[pos] {
					continue
				}
				altered := []byte(number)
				altered[pos] = d
				assert.False(t, IsValidCardNumber(string(altered)),
					"substitution at %d in %q went undetected", pos, number)
			}
		}
	}
}

func TestValidator_IsValidExpiry(t *testing.T) {
	v := NewValidator(2024)

	tests := []struct {
		expiry string
		want   bool
	}{
		{"01/24", true},
		{"12/30", true},
		{"01/99", true}, // no upper bound
		{"12/23", false},
		{"13/25", false},
		{"00/25", false},
		{"1/25", false},
		{"01-25", false},
		{"0125", false},
		{"01/2025", false},
		{"ab/cd", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.expiry, func(t *testing.T) {
			assert.Equal(t, tt.want, v.IsValidExpiry(tt.expiry))
		})
	}
}

func TestValidator_ConfigurableExpiryFloor(t *testing.T) {
	assert.True(t, Validator{}.IsValidExpiry("01/24"), "zero value uses the default floor")
	assert.False(t, Validator{}.IsValidExpiry("12/23"))

	v := NewValidator(2027)
	assert.False(t, v.IsValidExpiry("12/26"))
	assert.True(t, v.IsValidExpiry("01/27"))
}

func TestIsValidCvc(t *testing.T) {
	assert.True(t, IsValidCvc("123"))
	assert.True(t, IsValidCvc("1234"))
	assert.False(t, IsValidCvc("12"))
	assert.False(t, IsValidCvc("12345"))
	assert.False(t, IsValidCvc("12a"))
	assert.False(t, IsValidCvc(""))
}

func TestIsValidHolderName(t *testing.T) {
	assert.True(t, IsValidHolderName("Jane Doe"))
	assert.True(t, IsValidHolderName("Al"))
	assert.True(t, IsValidHolderName("  Lü  "))
	assert.False(t, IsValidHolderName("J"))
	assert.False(t, IsValidHolderName("   J   "))
	assert.False(t, IsValidHolderName(""))
}

func TestValidator_Valid(t *testing.T) {
	v := NewValidator(2024)
	assert.True(t, v.Valid(FieldCardNumber, "4242 4242 4242 4242"))
	assert.True(t, v.Valid(FieldExpiry, "12/30"))
	assert.True(t, v.Valid(FieldCvc, "123"))
	assert.True(t, v.Valid(FieldHolderName, "Jane Doe"))
	assert.False(t, v.Valid(Field(99), "anything"))
}

// luhnNumber returns a random digit string of the given length whose last
// digit is the Luhn check digit.
func luhnNumber(rng *rand.Rand, length int) string {
	digits := make([]byte, length)
	for i := 0; i < length-1; i++ {
		digits[i] = byte('0' + rng.Intn(10))
	}

	sum := 0
	for i := 0; i < length-1; i++ {
		d := int(digits[length-2-i] - '0')
		if i%2 == 0 {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
	}
	digits[length-1] = byte('0' + (10-sum%10)%10)
	return string(digits)
}
