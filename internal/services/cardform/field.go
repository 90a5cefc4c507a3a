package cardform

import (
	"errors"
	"fmt"
)

// Field names one of the four inputs of the card form.
type Field int

const (
	FieldCardNumber Field = iota
	FieldExpiry
	FieldCvc
	FieldHolderName
)

var ErrUnknownField = errors.New("unknown card field")

var fieldNames = map[Field]string{
	FieldCardNumber: "number",
	FieldExpiry:     "expiry",
	FieldCvc:        "cvc",
	FieldHolderName: "name",
}

func (f Field) String() string {
	if name, ok := fieldNames[f]; ok {
		return name
	}
	return fmt.Sprintf("field(%d)", int(f))
}

// ParseField maps the wire name of a field back to its Field.
func ParseField(name string) (Field, error) {
	for f, n := range fieldNames {
		if n == name {
			return f, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownField, name)
}

// Touch is a one-way latch recording whether a field has lost focus at least
// once. There is no transition back to Untouched.
type Touch uint8

const (
	Untouched Touch = iota
	Touched
)

// Latch moves the field to Touched and reports whether this call did it.
func (t *Touch) Latch() bool {
	if *t == Touched {
		return false
	}
	*t = Touched
	return true
}

func (t Touch) IsTouched() bool { return t == Touched }

// input is the mutable per-field record owned by a Form.
type input struct {
	value    string
	touch    Touch
	valid    bool
	errorKey string
}

// refresh recomputes validity and the visible error for the current value.
// An error is shown only for a touched, non-empty, invalid value.
func (in *input) refresh(valid bool, errorKey string) {
	in.valid = valid
	if in.touch.IsTouched() && in.value != "" && !valid {
		in.errorKey = errorKey
		return
	}
	in.errorKey = ""
}
