package routes

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"cardpay/internal/handlers"
	"cardpay/internal/logger"
	"cardpay/internal/metrics"
	"cardpay/internal/models"
	"cardpay/internal/services/auth"
	"cardpay/internal/services/card"
	"cardpay/internal/services/cardform"
	"cardpay/internal/services/preferences"
	"cardpay/internal/services/session"
	"cardpay/internal/services/tokenizer"
	"cardpay/internal/utils"
	"cardpay/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubAuth accepts exactly one access token.
type stubAuth struct {
	auth.Service
	token  string
	claims *models.UserClaims
}

func (s stubAuth) ValidateAccessToken(token string) (*models.UserClaims, error) {
	if token != s.token {
		return nil, utils.ErrInvalidToken
	}
	return s.claims, nil
}

type stubCards struct{ card.Service }

func (stubCards) List(uint) ([]*models.CreditCard, error) { return nil, nil }

type stubPrefs struct{ preferences.Service }

func (stubPrefs) Get(context.Context, uint) (models.Preferences, error) {
	return models.DefaultPreferences(), nil
}

func (stubPrefs) Update(context.Context, uint, validation.PreferencesRequest) (models.Preferences, error) {
	return models.DefaultPreferences(), nil
}

func newApp(t *testing.T, role string) *fiber.App {
	t.Helper()
	log := logger.Discard()
	reg := session.NewRegistry(session.Config{Form: cardform.Config{MinExpiryYear: 2024}}, session.Deps{
		Tokenizer: tokenizer.NewTestTokenizer(),
		Logger:    logger.Component(log, "sessions"),
	})
	t.Cleanup(reg.Shutdown)

	m := metrics.New()
	app := fiber.New()
	app.Use(m.Middleware())
	SetupRoutes(app, Deps{
		Version: "test",
		Auth: stubAuth{token: "good", claims: &models.UserClaims{
			UserID:      1,
			Role:        role,
			Permissions: models.GetDefaultPermissions(role),
		}},
		Cards:        stubCards{},
		Preferences:  stubPrefs{},
		Sessions:     reg,
		Metrics:      m,
		AccessTTL:    time.Minute,
		RefreshTTL:   time.Hour,
		HealthChecks: map[string]handlers.HealthCheck{},
		Log:          log,
	})
	return app
}

func do(t *testing.T, app *fiber.App, method, path, token string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestSetupRoutes(t *testing.T) {
	app := newApp(t, models.RoleUser)

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		want   int
	}{
		{"health is public", "GET", "/health", "", fiber.StatusOK},
		{"metrics is public", "GET", "/metrics", "", fiber.StatusOK},
		{"register needs no token", "POST", "/api/register", "", fiber.StatusBadRequest},
		{"cards need a token", "GET", "/api/cards", "", fiber.StatusUnauthorized},
		{"bad token", "GET", "/api/cards", "bad", fiber.StatusUnauthorized},
		{"cards", "GET", "/api/cards", "good", fiber.StatusOK},
		{"preferences", "GET", "/api/preferences", "good", fiber.StatusOK},
		{"open session", "POST", "/api/card-sessions", "good", fiber.StatusCreated},
		{"unknown session", "GET", "/api/card-sessions/00000000-0000-0000-0000-000000000000", "good", fiber.StatusNotFound},
		{"admin only", "GET", "/api/admin/stats", "good", fiber.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := do(t, app, tt.method, tt.path, tt.token)
			assert.Equal(t, tt.want, status, body)
		})
	}
}

func TestSetupRoutes_AdminAndMetrics(t *testing.T) {
	app := newApp(t, models.RoleAdmin)

	status, body := do(t, app, "POST", "/api/card-sessions", "good")
	require.Equal(t, fiber.StatusCreated, status, body)

	status, body = do(t, app, "GET", "/api/admin/stats", "good")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, `"open_sessions":1`)

	_, body = do(t, app, "GET", "/metrics", "")
	assert.True(t, strings.Contains(body, "cardpay_http_requests_total"), body)
}
