package utils

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"cardpay/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const tokenIssuer = "cardpay-api"

var (
	ErrJWTSecretMissing = errors.New("JWT_SECRET not configured")
	ErrInvalidToken     = errors.New("invalid token")
	ErrWrongTokenType   = errors.New("wrong token type")
)

// JWTManager issues and verifies HS256 access and refresh tokens.
type JWTManager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewJWTManager(secret string, accessTTL, refreshTTL time.Duration) (*JWTManager, error) {
	if secret == "" {
		return nil, ErrJWTSecretMissing
	}
	return &JWTManager{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}, nil
}

// GenerateTokens generates an access token and a refresh token for the given user claims.
func (m *JWTManager) GenerateTokens(claims *models.UserClaims) (accessToken string, refreshToken string, err error) {
	accessToken, err = m.sign(claims, models.TokenTypeAccess, m.accessTTL)
	if err != nil {
		return "", "", err
	}
	refreshToken, err = m.sign(claims, models.TokenTypeRefresh, m.refreshTTL)
	if err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}

func (m *JWTManager) sign(claims *models.UserClaims, tokenType string, ttl time.Duration) (string, error) {
	now := m.now()
	c := models.UserClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
			Subject:   strconv.FormatUint(uint64(claims.UserID), 10),
		},
		UserID:       claims.UserID,
		Email:        claims.Email,
		Role:         claims.Role,
		TokenVersion: claims.TokenVersion,
		TokenType:    tokenType,
	}
	// Permissions only travel in access tokens.
	if tokenType == models.TokenTypeAccess {
		c.Permissions = claims.Permissions
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", tokenType, err)
	}
	return signed, nil
}

// ParseToken validates tokenStr and checks it is of the expected type.
func (m *JWTManager) ParseToken(tokenStr, tokenType string) (*models.UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &models.UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*models.UserClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != tokenType {
		return nil, ErrWrongTokenType
	}
	return claims, nil
}
