package repositories

import (
	"errors"
	"fmt"

	"cardpay/internal/models"

	"gorm.io/gorm"
)

type creditCardRepository struct {
	db *gorm.DB
}

func NewCreditCardRepository(db *gorm.DB) CreditCardRepository {
	return &creditCardRepository{
		db: db,
	}
}

func (r *creditCardRepository) Create(card *models.CreditCard) error {
	if err := r.db.Create(card).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrCardAlreadyLinked
		}
		return fmt.Errorf("failed to create card: %w", err)
	}
	return nil
}

func (r *creditCardRepository) GetByIDAndUserID(cardID, userID uint) (*models.CreditCard, error) {
	var card models.CreditCard
	err := r.db.Where("id = ? AND user_id = ?", cardID, userID).First(&card).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCardNotFound
		}
		return nil, fmt.Errorf("failed to get card: %w", err)
	}
	return &card, nil
}

// DeleteForUser removes a card only if it belongs to userID.
func (r *creditCardRepository) DeleteForUser(cardID, userID uint) error {
	result := r.db.Where("user_id = ?", userID).Delete(&models.CreditCard{}, cardID)
	if result.Error != nil {
		return fmt.Errorf("failed to delete card: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrCardNotFound
	}
	return nil
}

func (r *creditCardRepository) GetByUserID(userID uint) ([]*models.CreditCard, error) {
	var cards []*models.CreditCard
	if err := r.db.Where("user_id = ?", userID).Order("created_at desc").Find(&cards).Error; err != nil {
		return nil, fmt.Errorf("failed to get user cards: %w", err)
	}
	return cards, nil
}

func (r *creditCardRepository) CountByUserID(userID uint) (int64, error) {
	var n int64
	if err := r.db.Model(&models.CreditCard{}).Where("user_id = ?", userID).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count user cards: %w", err)
	}
	return n, nil
}
