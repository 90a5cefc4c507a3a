package repositories

import (
	"errors"

	"cardpay/internal/models"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrEmailTaken        = errors.New("email already taken")
	ErrDatabaseOperation = errors.New("database operation failed")
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	// Create creates a new user in the database
	Create(user *models.User) error

	// GetByID retrieves a user by their ID
	GetByID(id uint) (*models.User, error)

	// GetByEmail retrieves a user by their email address
	GetByEmail(email string) (*models.User, error)

	// RecordLogin stamps a successful login and clears failed attempts
	RecordLogin(userID uint) error

	// RecordFailedLogin counts a failed password check
	RecordFailedLogin(userID uint) error

	// IncrementTokenVersion increments the user's token version
	IncrementTokenVersion(userID uint) error
}
