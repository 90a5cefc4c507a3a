package models

import "time"

// CreditCard is a card linked to a user through a tokenizer token. The card
// number and CVC are never stored.
type CreditCard struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	UserID      uint      `gorm:"not null;index" json:"-"`
	Token       string    `gorm:"not null;uniqueIndex" json:"-"`
	Brand       string    `gorm:"not null" json:"brand"`
	LastFour    string    `gorm:"not null" json:"last_four"`
	ExpiryMonth int       `gorm:"not null" json:"expiry_month"`
	ExpiryYear  int       `gorm:"not null" json:"expiry_year"`
	IsDefault   bool      `gorm:"default:false" json:"is_default"`
	Status      string    `gorm:"not null" json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

const CardStatusActive = "active"
