package repositories

import (
	"errors"

	"cardpay/internal/models"
)

var (
	ErrCardNotFound      = errors.New("credit card not found")
	ErrCardAlreadyLinked = errors.New("card token already linked")
)

type CreditCardRepository interface {
	// Core operations
	Create(card *models.CreditCard) error
	GetByIDAndUserID(cardID, userID uint) (*models.CreditCard, error)
	DeleteForUser(cardID, userID uint) error

	// Query operations
	GetByUserID(userID uint) ([]*models.CreditCard, error)
	CountByUserID(userID uint) (int64, error)
}
