package auth

import (
	"errors"
	"fmt"

	"cardpay/internal/models"
	"cardpay/internal/repositories"
	"cardpay/internal/utils"

	"github.com/sirupsen/logrus"
)

var (
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrAccountDisabled     = errors.New("account disabled")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrSessionExpired      = errors.New("session expired")
)

// dummyHash is compared against when the email is unknown so that a missing
// account costs the same bcrypt work as a wrong password.
var dummyHash, _ = utils.HashPassword("not-a-real-password")

// TokenIssuer signs and verifies JWTs.
type TokenIssuer interface {
	GenerateTokens(claims *models.UserClaims) (accessToken, refreshToken string, err error)
	ParseToken(tokenStr, tokenType string) (*models.UserClaims, error)
}

type Service interface {
	Register(name, email, password string) (*models.User, error)
	Login(email, password string) (*models.User, string, string, error)
	RefreshTokens(refreshToken string) (string, string, error)
	Logout(userID uint) error
	// ValidateAccessToken verifies an access token against the user's
	// current token version and status.
	ValidateAccessToken(token string) (*models.UserClaims, error)
}

type service struct {
	userRepo repositories.UserRepository
	tokens   TokenIssuer
	log      *logrus.Entry
}

func NewService(userRepo repositories.UserRepository, tokens TokenIssuer, log *logrus.Entry) Service {
	return &service{
		userRepo: userRepo,
		tokens:   tokens,
		log:      log,
	}
}

func (s *service) Register(name, email, password string) (*models.User, error) {
	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        email,
		Password:     hash,
		Name:         name,
		Role:         models.RoleUser,
		Status:       models.UserStatusActive,
		TokenVersion: 1,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	s.log.WithField("user_id", user.ID).Info("user registered")
	return user, nil
}

func (s *service) Login(email, password string) (*models.User, string, string, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			utils.CheckPassword(dummyHash, password)
			s.log.Info("login failed: unknown email")
			return nil, "", "", ErrInvalidCredentials
		}
		return nil, "", "", err
	}

	if !utils.CheckPassword(user.Password, password) {
		s.log.WithField("user_id", user.ID).Info("login failed: incorrect password")
		if err := s.userRepo.RecordFailedLogin(user.ID); err != nil {
			s.log.WithError(err).Warn("failed to record failed login")
		}
		return nil, "", "", ErrInvalidCredentials
	}

	if user.Status != models.UserStatusActive {
		return nil, "", "", ErrAccountDisabled
	}

	accessToken, refreshToken, err := s.tokens.GenerateTokens(claimsFor(user))
	if err != nil {
		return nil, "", "", fmt.Errorf("error generating tokens: %w", err)
	}

	if err := s.userRepo.RecordLogin(user.ID); err != nil {
		s.log.WithError(err).Warn("failed to record login")
	}
	return user, accessToken, refreshToken, nil
}

func (s *service) RefreshTokens(refreshToken string) (string, string, error) {
	claims, err := s.tokens.ParseToken(refreshToken, models.TokenTypeRefresh)
	if err != nil {
		return "", "", ErrInvalidRefreshToken
	}

	user, err := s.currentUser(claims)
	if err != nil {
		return "", "", err
	}

	return s.tokens.GenerateTokens(claimsFor(user))
}

func (s *service) Logout(userID uint) error {
	return s.userRepo.IncrementTokenVersion(userID)
}

func (s *service) ValidateAccessToken(token string) (*models.UserClaims, error) {
	claims, err := s.tokens.ParseToken(token, models.TokenTypeAccess)
	if err != nil {
		return nil, err
	}
	if _, err := s.currentUser(claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// currentUser loads the user behind claims and checks the token has not been
// revoked by a version bump.
func (s *service) currentUser(claims *models.UserClaims) (*models.User, error) {
	user, err := s.userRepo.GetByID(claims.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrSessionExpired
		}
		return nil, err
	}
	if user.TokenVersion != claims.TokenVersion {
		s.log.WithFields(logrus.Fields{
			"user_id":       user.ID,
			"token_version": claims.TokenVersion,
			"current":       user.TokenVersion,
		}).Debug("token version mismatch")
		return nil, ErrSessionExpired
	}
	if user.Status != models.UserStatusActive {
		return nil, ErrAccountDisabled
	}
	return user, nil
}

func claimsFor(user *models.User) *models.UserClaims {
	return &models.UserClaims{
		UserID:       user.ID,
		Email:        user.Email,
		Role:         user.Role,
		TokenVersion: user.TokenVersion,
		Permissions:  models.GetDefaultPermissions(user.Role),
	}
}
