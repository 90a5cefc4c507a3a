package tokenizer

import (
	"context"
	"fmt"
	"sync/atomic"
)

type testCard struct {
	token    string
	cardType string
}

type testFailure struct {
	code    string
	decline string
	message string
}

// TestTokenizer answers with the processor's published test tokens and never
// leaves the process. It is used in development and when no secret key is set.
type TestTokenizer struct {
	cards    map[string]testCard
	failures map[string]testFailure
	issued   atomic.Uint64
}

func NewTestTokenizer() *TestTokenizer {
	return &TestTokenizer{
		cards: map[string]testCard{
			"4242424242424242": {"tok_visa", "Visa"},
			"4000056655665556": {"tok_visa_debit", "Visa Debit"},
			"5555555555554444": {"tok_mastercard", "Mastercard"},
			"2223003122003222": {"tok_mastercard_2", "Mastercard"},
			"378282246310005":  {"tok_amex", "American Express"},
			"6011111111111117": {"tok_discover", "Discover"},
			"3056930009020004": {"tok_diners", "Diners Club"},
			"36227206271667":   {"tok_diners", "Diners Club"},
		},
		failures: map[string]testFailure{
			"4000000000000002": {CodeCardDeclined, "generic_decline", "Your card was declined."},
			"4000000000009995": {CodeCardDeclined, "insufficient_funds", "Your card has insufficient funds."},
			"4000000000000069": {CodeExpiredCard, "", "Your card has expired."},
			"4000000000000127": {CodeIncorrectCVC, "", "Your card's security code is incorrect."},
			"4000000000000119": {CodeProcessingError, "", "An error occurred while processing your card."},
			"4242424242424241": {CodeIncorrectNumber, "", "Your card number is incorrect."},
		},
	}
}

func (t *TestTokenizer) Tokenize(ctx context.Context, card Card) (*Token, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if f, ok := t.failures[card.Number]; ok {
		return nil, &Error{Code: f.code, DeclineCode: f.decline, Message: f.message}
	}

	tc, ok := t.cards[card.Number]
	if !ok {
		return nil, &Error{
			Code:        CodeCardDeclined,
			DeclineCode: "test_mode_live_card",
			Message:     "Your card was declined. Only test cards are accepted in test mode.",
		}
	}

	n := t.issued.Add(1)
	return &Token{
		ID:    fmt.Sprintf("%s_%d", tc.token, n),
		Brand: tc.cardType,
		Last4: card.LastFour(),
	}, nil
}
