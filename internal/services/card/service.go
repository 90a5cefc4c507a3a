// Package card keeps the cards a user has linked through a successful card
// session. Only the tokenizer token and display details are stored.
package card

import (
	"errors"
	"fmt"

	"cardpay/internal/models"
	"cardpay/internal/repositories"
	"cardpay/internal/services/cardform"

	"github.com/sirupsen/logrus"
)

var (
	ErrCardNotFound = errors.New("card not found")
	ErrNotLinkable  = errors.New("submission has no token to link")
)

type Service interface {
	// Link stores the token of a succeeded submission for userID. The first
	// linked card becomes the default.
	Link(userID uint, sub cardform.Submission) (*models.CreditCard, error)
	List(userID uint) ([]*models.CreditCard, error)
	Delete(userID, cardID uint) error
}

type service struct {
	repo repositories.CreditCardRepository
	log  *logrus.Entry
}

func NewService(repo repositories.CreditCardRepository, log *logrus.Entry) Service {
	return &service{
		repo: repo,
		log:  log,
	}
}

func (s *service) Link(userID uint, sub cardform.Submission) (*models.CreditCard, error) {
	if sub.Status != cardform.StatusSucceeded || sub.Token == "" {
		return nil, ErrNotLinkable
	}

	count, err := s.repo.CountByUserID(userID)
	if err != nil {
		return nil, err
	}

	card := &models.CreditCard{
		UserID:      userID,
		Token:       sub.Token,
		Brand:       sub.Brand,
		LastFour:    sub.Last4,
		ExpiryMonth: sub.ExpMonth,
		ExpiryYear:  sub.ExpYear,
		IsDefault:   count == 0,
		Status:      models.CardStatusActive,
	}
	if err := s.repo.Create(card); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"user_id": userID,
		"card_id": card.ID,
		"brand":   card.Brand,
		"last4":   card.LastFour,
	}).Info("card linked")
	return card, nil
}

func (s *service) List(userID uint) ([]*models.CreditCard, error) {
	return s.repo.GetByUserID(userID)
}

func (s *service) Delete(userID, cardID uint) error {
	if err := s.repo.DeleteForUser(cardID, userID); err != nil {
		if errors.Is(err, repositories.ErrCardNotFound) {
			return ErrCardNotFound
		}
		return fmt.Errorf("failed to delete card: %w", err)
	}
	return nil
}
