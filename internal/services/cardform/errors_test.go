package cardform

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"cardpay/internal/services/messages"
	"cardpay/internal/services/tokenizer"

	"github.com/stretchr/testify/assert"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Reason
	}{
		{"nil", nil, ""},
		{"local validation", ErrInvalidData, ReasonInvalidData},
		{"wrapped local validation", fmt.Errorf("submit: %w", ErrInvalidData), ReasonInvalidData},
		{"timeout", context.DeadlineExceeded, ReasonProcessing},
		{"declined code", &tokenizer.Error{Code: tokenizer.CodeCardDeclined}, ReasonDeclined},
		{"incorrect number code", &tokenizer.Error{Code: tokenizer.CodeIncorrectNumber}, ReasonInvalidNumber},
		{"invalid number code", &tokenizer.Error{Code: tokenizer.CodeInvalidNumber}, ReasonInvalidNumber},
		{"expired code", &tokenizer.Error{Code: tokenizer.CodeExpiredCard}, ReasonExpired},
		{"bad expiry year code", &tokenizer.Error{Code: tokenizer.CodeInvalidExpYear}, ReasonExpired},
		{"cvc code", &tokenizer.Error{Code: tokenizer.CodeIncorrectCVC}, ReasonInvalidCvc},
		{"processing code", &tokenizer.Error{Code: tokenizer.CodeProcessingError}, ReasonProcessing},
		{
			"code wins over message",
			&tokenizer.Error{Code: tokenizer.CodeExpiredCard, Message: "Your card was declined"},
			ReasonExpired,
		},
		{
			"unknown code falls back to message",
			&tokenizer.Error{Code: "something_new", Message: "Your card was declined."},
			ReasonDeclined,
		},
		{"message declined", errors.New("Card Declined by issuer"), ReasonDeclined},
		{"message expired", errors.New("the card has expired"), ReasonExpired},
		{"message security code", errors.New("Your card's security code is incorrect."), ReasonInvalidCvc},
		{"message cvc", errors.New("invalid CVC"), ReasonInvalidCvc},
		{"message number", errors.New("Your card number is incorrect."), ReasonInvalidNumber},
		{"unrecognised", errors.New("connection reset by peer"), ReasonGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyError(tt.err))
		})
	}
}

func TestReason_MessageKey(t *testing.T) {
	assert.Equal(t, messages.KeyPaymentDeclined, ReasonDeclined.MessageKey())
	assert.Equal(t, messages.KeyPaymentInvalidData, ReasonInvalidData.MessageKey())
	assert.Equal(t, messages.KeyPaymentGeneric, Reason("bogus").MessageKey())
}
