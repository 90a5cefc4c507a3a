package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"cardpay/internal/logger"
	"cardpay/internal/models"
	"cardpay/internal/repositories"
	"cardpay/internal/services/cardform"
	"cardpay/internal/services/messages"
	"cardpay/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRunFormat(t *testing.T) {
	tests := []struct {
		field, raw, want string
	}{
		{"number", "4242-4242-4242-4242", "4242 4242 4242 4242"},
		{"expiry", "1230", "12/30"},
		{"expiry", "123", "12/3"},
		{"cvc", "12a34", "1234"},
		{"name", " Jane ", " Jane "},
	}
	for _, tt := range tests {
		t.Run(tt.field+"/"+tt.raw, func(t *testing.T) {
			var out bytes.Buffer
			require.NoError(t, runFormat(&out, tt.field, tt.raw))
			assert.Equal(t, tt.want+"\n", out.String())
		})
	}

	assert.ErrorIs(t, runFormat(&bytes.Buffer{}, "pin", "1234"), cardform.ErrUnknownField)
}

func TestValidateCard(t *testing.T) {
	good := validateCard(cardInput{Number: "4242424242424242", Expiry: "12/30", Cvc: "123", Name: "Jane Doe"}, 2024, messages.Default())
	assert.True(t, good.Valid)
	assert.Equal(t, cardform.BrandVisa, good.Brand)
	for _, f := range good.Fields {
		assert.Empty(t, f.Error, f.Field)
	}

	bad := validateCard(cardInput{Number: "4242424242424241", Expiry: "1223", Cvc: "1", Name: "J"}, 2024, messages.ForLocale("es"))
	assert.False(t, bad.Valid)
	require.Len(t, bad.Fields, 4)
	assert.Equal(t, messages.ForLocale("es").String(messages.KeyCardNumberInvalid), bad.Fields[0].Error)
	assert.False(t, bad.Fields[1].Valid, "12/23 is below the 2024 floor")
	assert.False(t, bad.Fields[2].Valid)
	assert.False(t, bad.Fields[3].Valid)
}

func TestValidateCard_EmptyFieldHasNoErrorText(t *testing.T) {
	report := validateCard(cardInput{Number: "4242424242424242", Cvc: "123", Name: "Jane Doe"}, 2024, messages.Default())
	assert.False(t, report.Valid)

	expiry := report.Fields[1]
	assert.Equal(t, "expiry", expiry.Field)
	assert.False(t, expiry.Valid)
	assert.Empty(t, expiry.Error)

	var text bytes.Buffer
	require.NoError(t, writeReport(&text, report, "text"))
	assert.Contains(t, text.String(), "missing")
}

func TestWriteReport(t *testing.T) {
	report := validateCard(cardInput{Number: "5555555555554444", Expiry: "0130", Cvc: "123", Name: "Al"}, 2024, messages.Default())

	var js bytes.Buffer
	require.NoError(t, writeReport(&js, report, "json"))
	var decoded cardReport
	require.NoError(t, json.Unmarshal(js.Bytes(), &decoded))
	assert.Equal(t, report, decoded)

	var text bytes.Buffer
	require.NoError(t, writeReport(&text, report, "text"))
	assert.Contains(t, text.String(), "mastercard")
	assert.Contains(t, text.String(), `"5555 5555 5555 4444"`)

	assert.Error(t, writeReport(&bytes.Buffer{}, report, "yaml"))
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *models.User) error {
	return m.Called(user).Error(0)
}

func (m *MockUserRepository) GetByID(id uint) (*models.User, error) {
	args := m.Called(id)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *MockUserRepository) RecordLogin(userID uint) error {
	return m.Called(userID).Error(0)
}

func (m *MockUserRepository) RecordFailedLogin(userID uint) error {
	return m.Called(userID).Error(0)
}

func (m *MockUserRepository) IncrementTokenVersion(userID uint) error {
	return m.Called(userID).Error(0)
}

func TestSeedAdmin(t *testing.T) {
	log := logger.Discard().WithField("test", t.Name())

	t.Run("creates admin", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("GetByEmail", "root@example.com").Return(nil, repositories.ErrUserNotFound)
		repo.On("Create", mock.MatchedBy(func(u *models.User) bool {
			return u.Role == models.RoleAdmin &&
				u.Email == "root@example.com" &&
				utils.CheckPassword(u.Password, "s3cret!pass")
		})).Return(nil)

		created, err := seedAdmin(repo, log, "Root", " Root@Example.com ", "s3cret!pass")
		require.NoError(t, err)
		assert.True(t, created)
		repo.AssertExpectations(t)
	})

	t.Run("existing user is left alone", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("GetByEmail", "root@example.com").Return(&models.User{Email: "root@example.com"}, nil)

		created, err := seedAdmin(repo, log, "Root", "root@example.com", "s3cret!pass")
		require.NoError(t, err)
		assert.False(t, created)
		repo.AssertNotCalled(t, "Create", mock.Anything)
	})

	t.Run("weak password", func(t *testing.T) {
		repo := new(MockUserRepository)
		_, err := seedAdmin(repo, log, "Root", "root@example.com", "short")
		assert.Error(t, err)
		repo.AssertNotCalled(t, "GetByEmail", mock.Anything)
	})
}
