package utils

import (
	"testing"
	"time"

	"cardpay/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClaims() *models.UserClaims {
	return &models.UserClaims{
		UserID:       42,
		Email:        "ada@example.com",
		Role:         models.RoleUser,
		Permissions:  models.GetDefaultPermissions(models.RoleUser),
		TokenVersion: 3,
	}
}

func TestNewJWTManager_RequiresSecret(t *testing.T) {
	_, err := NewJWTManager("", time.Minute, time.Hour)
	assert.ErrorIs(t, err, ErrJWTSecretMissing)
}

func TestJWTManager_RoundTrip(t *testing.T) {
	m, err := NewJWTManager("s3cret", time.Minute, time.Hour)
	require.NoError(t, err)

	access, refresh, err := m.GenerateTokens(testClaims())
	require.NoError(t, err)
	assert.NotEqual(t, access, refresh)

	claims, err := m.ParseToken(access, models.TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, 3, claims.TokenVersion)
	assert.True(t, claims.HasPermission(models.PermissionCardWrite))
	assert.Equal(t, "42", claims.Subject)

	rc, err := m.ParseToken(refresh, models.TokenTypeRefresh)
	require.NoError(t, err)
	assert.Empty(t, rc.Permissions)
}

func TestJWTManager_Rejects(t *testing.T) {
	m, err := NewJWTManager("s3cret", time.Minute, time.Hour)
	require.NoError(t, err)
	access, refresh, err := m.GenerateTokens(testClaims())
	require.NoError(t, err)

	t.Run("wrong type", func(t *testing.T) {
		_, err := m.ParseToken(refresh, models.TokenTypeAccess)
		assert.ErrorIs(t, err, ErrWrongTokenType)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other, err := NewJWTManager("other", time.Minute, time.Hour)
		require.NoError(t, err)
		_, err = other.ParseToken(access, models.TokenTypeAccess)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		m.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
		defer func() { m.now = time.Now }()
		_, err := m.ParseToken(access, models.TokenTypeAccess)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := m.ParseToken("not.a.jwt", models.TokenTypeAccess)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse!")
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "correct horse!"))
	assert.False(t, CheckPassword(hash, "wrong"))
}
