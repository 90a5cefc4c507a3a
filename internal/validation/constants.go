package validation

const (
	// Password requirements
	MinPasswordLength = 8
	MaxPasswordLength = 72

	// String lengths
	MinNameLength     = 2
	MaxNameLength     = 100
	MaxEmailLength    = 255
	MaxFieldRawLength = 64
)
