// Package tokenizer exchanges raw card data for an opaque payment token.
package tokenizer

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Card is the raw card data handed to a Tokenizer. It must never be stored.
type Card struct {
	Number     string
	ExpMonth   int
	ExpYear    int
	CVC        string
	HolderName string
}

// LastFour returns the last four digits of the card number.
func (c Card) LastFour() string {
	if len(c.Number) < 4 {
		return c.Number
	}
	return c.Number[len(c.Number)-4:]
}

// Token is the processor's single-use reference to a card.
type Token struct {
	ID    string
	Brand string
	Last4 string
}

// Tokenizer handles credit card tokenization. Implementations are called
// once per submission and perform no retries.
type Tokenizer interface {
	Tokenize(ctx context.Context, card Card) (*Token, error)
}

// Error is a processor failure normalized to the processor's error code.
type Error struct {
	Code        string
	DeclineCode string
	Message     string
	Err         error
}

func (e *Error) Error() string {
	if e.Code == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Processor error codes used by both tokenizers.
const (
	CodeCardDeclined    = "card_declined"
	CodeExpiredCard     = "expired_card"
	CodeIncorrectCVC    = "incorrect_cvc"
	CodeInvalidCVC      = "invalid_cvc"
	CodeIncorrectNumber = "incorrect_number"
	CodeInvalidNumber   = "invalid_number"
	CodeInvalidExpMonth = "invalid_expiry_month"
	CodeInvalidExpYear  = "invalid_expiry_year"
	CodeProcessingError = "processing_error"
)

// Mode selects the tokenizer implementation.
const (
	ModeStripe = "stripe"
	ModeTest   = "test"
)

// New returns the Stripe tokenizer when mode is "stripe" and a secret key is
// configured, and the offline test tokenizer otherwise.
func New(mode, secretKey string, log *logrus.Entry) Tokenizer {
	if mode == ModeStripe && secretKey != "" {
		return NewStripeTokenizer(secretKey, log)
	}
	log.WithField("mode", mode).Info("using offline test tokenizer")
	return NewTestTokenizer()
}
