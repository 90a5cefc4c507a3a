// Package validation holds the request DTOs of the HTTP API and their rules.
package validation

import (
	"errors"
	"strings"

	"cardpay/internal/services/messages"

	validation "github.com/jellydator/validation"
	"github.com/jellydator/validation/is"
)

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *RegisterRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

func (r *RegisterRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name,
			validation.Required.Error("name is required"),
			validation.RuneLength(MinNameLength, MaxNameLength),
		),
		validation.Field(&r.Email,
			validation.Required.Error("email is required"),
			validation.Length(3, MaxEmailLength),
			is.EmailFormat,
		),
		validation.Field(&r.Password,
			validation.Required.Error("password is required"),
			validation.Length(MinPasswordLength, MaxPasswordLength),
			Password,
		),
	)
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Email, validation.Required, is.EmailFormat),
		validation.Field(&r.Password, validation.Required),
	)
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (r *RefreshRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.RefreshToken, validation.Required),
	)
}

// PreferencesRequest is a partial update; nil fields are left unchanged.
type PreferencesRequest struct {
	Locale            *string `json:"locale"`
	CvcVisibleDefault *bool   `json:"cvc_visible_default"`
}

func (r *PreferencesRequest) Validate() error {
	supported := make([]interface{}, 0, len(messages.Supported()))
	for _, l := range messages.Supported() {
		supported = append(supported, l)
	}
	return validation.ValidateStruct(r,
		validation.Field(&r.Locale,
			validation.NilOrNotEmpty,
			validation.In(supported...).Error("unsupported locale"),
		),
	)
}

// FieldValueRequest carries raw keyboard input for one card field.
type FieldValueRequest struct {
	Value string `json:"value"`
}

func (r *FieldValueRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Value, validation.RuneLength(0, MaxFieldRawLength)),
	)
}

// FieldErrors flattens a validation error into field name to message. A
// non-validation error is reported under "_".
func FieldErrors(err error) map[string]string {
	if err == nil {
		return nil
	}
	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		return map[string]string{"_": err.Error()}
	}
	out := make(map[string]string, len(verrs))
	for field, ferr := range verrs {
		out[field] = ferr.Error()
	}
	return out
}
