package middleware

import (
	"net/http/httptest"
	"testing"

	"cardpay/internal/logger"
	"cardpay/internal/models"
	"cardpay/internal/services/auth"
	"cardpay/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(name, email, password string) (*models.User, error) {
	args := m.Called(name, email, password)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *MockAuthService) Login(email, password string) (*models.User, string, string, error) {
	args := m.Called(email, password)
	u, _ := args.Get(0).(*models.User)
	return u, args.String(1), args.String(2), args.Error(3)
}

func (m *MockAuthService) RefreshTokens(refreshToken string) (string, string, error) {
	args := m.Called(refreshToken)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockAuthService) Logout(userID uint) error {
	return m.Called(userID).Error(0)
}

func (m *MockAuthService) ValidateAccessToken(token string) (*models.UserClaims, error) {
	args := m.Called(token)
	c, _ := args.Get(0).(*models.UserClaims)
	return c, args.Error(1)
}

func newTestApp(svc auth.Service, permission string) *fiber.App {
	app := fiber.New()
	mw := NewAuthMiddleware(svc, logger.Discard().WithField("test", true))
	app.Get("/me", mw.Handler, HasPermission(permission), func(c *fiber.Ctx) error {
		claims, err := utils.GetUserClaims(c)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"user_id": claims.UserID})
	})
	return app
}

func TestAuthMiddleware(t *testing.T) {
	user := &models.UserClaims{UserID: 4, Role: models.RoleUser, Permissions: models.GetDefaultPermissions(models.RoleUser)}

	tests := []struct {
		name       string
		header     string
		cookie     string
		setup      func(*MockAuthService)
		permission string
		wantStatus int
	}{
		{
			name:       "valid bearer token",
			header:     "Bearer good",
			setup:      func(m *MockAuthService) { m.On("ValidateAccessToken", "good").Return(user, nil) },
			permission: models.PermissionCardRead,
			wantStatus: fiber.StatusOK,
		},
		{
			name:       "valid cookie",
			cookie:     "good",
			setup:      func(m *MockAuthService) { m.On("ValidateAccessToken", "good").Return(user, nil) },
			permission: models.PermissionCardRead,
			wantStatus: fiber.StatusOK,
		},
		{
			name:       "missing header",
			setup:      func(*MockAuthService) {},
			wantStatus: fiber.StatusUnauthorized,
		},
		{
			name:       "not a bearer token",
			header:     "Basic abc",
			setup:      func(*MockAuthService) {},
			wantStatus: fiber.StatusUnauthorized,
		},
		{
			name:       "revoked token",
			header:     "Bearer old",
			setup:      func(m *MockAuthService) { m.On("ValidateAccessToken", "old").Return(nil, auth.ErrSessionExpired) },
			wantStatus: fiber.StatusUnauthorized,
		},
		{
			name:       "disabled account",
			header:     "Bearer good",
			setup:      func(m *MockAuthService) { m.On("ValidateAccessToken", "good").Return(nil, auth.ErrAccountDisabled) },
			wantStatus: fiber.StatusForbidden,
		},
		{
			name:       "missing permission",
			header:     "Bearer good",
			setup:      func(m *MockAuthService) { m.On("ValidateAccessToken", "good").Return(user, nil) },
			permission: models.PermissionReadAdmin,
			wantStatus: fiber.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockAuthService)
			tt.setup(svc)
			app := newTestApp(svc, tt.permission)

			req := httptest.NewRequest("GET", "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				req.Header.Set("Cookie", "access_token="+tt.cookie)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			svc.AssertExpectations(t)
		})
	}
}
