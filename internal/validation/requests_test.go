package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestRegisterRequest(t *testing.T) {
	tests := []struct {
		name    string
		req     RegisterRequest
		invalid []string
	}{
		{"valid", RegisterRequest{Name: "Ada", Email: "ada@example.com", Password: "l0velace!"}, nil},
		{"missing everything", RegisterRequest{}, []string{"name", "email", "password"}},
		{"bad email", RegisterRequest{Name: "Ada", Email: "ada", Password: "l0velace!"}, []string{"email"}},
		{"short name", RegisterRequest{Name: "A", Email: "ada@example.com", Password: "l0velace!"}, []string{"name"}},
		{"weak password", RegisterRequest{Name: "Ada", Email: "ada@example.com", Password: "password1"}, []string{"password"}},
		{"short password", RegisterRequest{Name: "Ada", Email: "ada@example.com", Password: "a!"}, []string{"password"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.invalid == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			fields := FieldErrors(err)
			assert.Len(t, fields, len(tt.invalid))
			for _, f := range tt.invalid {
				assert.Contains(t, fields, f)
			}
		})
	}
}

func TestRegisterRequest_Normalize(t *testing.T) {
	r := RegisterRequest{Name: "  Ada ", Email: " Ada@Example.COM "}
	r.Normalize()
	assert.Equal(t, "Ada", r.Name)
	assert.Equal(t, "ada@example.com", r.Email)
}

func TestPreferencesRequest(t *testing.T) {
	assert.NoError(t, (&PreferencesRequest{}).Validate())
	assert.NoError(t, (&PreferencesRequest{Locale: strPtr("es")}).Validate())

	err := (&PreferencesRequest{Locale: strPtr("klingon")}).Validate()
	require.Error(t, err)
	assert.Equal(t, "unsupported locale", FieldErrors(err)["locale"])

	assert.Error(t, (&PreferencesRequest{Locale: strPtr("")}).Validate())
}

func TestFieldValueRequest(t *testing.T) {
	assert.NoError(t, (&FieldValueRequest{Value: "4242 4242"}).Validate())
	assert.NoError(t, (&FieldValueRequest{}).Validate())

	long := make([]byte, MaxFieldRawLength+1)
	for i := range long {
		long[i] = '4'
	}
	assert.Error(t, (&FieldValueRequest{Value: string(long)}).Validate())
}

func TestFieldErrors_NonValidationError(t *testing.T) {
	assert.Nil(t, FieldErrors(nil))
	assert.Equal(t, map[string]string{"_": "boom"}, FieldErrors(errors.New("boom")))
}
