package cardform

import (
	"context"
	"errors"
	"strings"

	"cardpay/internal/services/messages"
	"cardpay/internal/services/tokenizer"
)

var (
	ErrProcessing  = errors.New("a submission is already in progress")
	ErrInvalidData = errors.New("invalid card data")
)

// Reason is the user-facing category of a failed submission.
type Reason string

const (
	ReasonInvalidData   Reason = "invalid_data"
	ReasonDeclined      Reason = "declined"
	ReasonInvalidNumber Reason = "invalid_number"
	ReasonExpired       Reason = "expired"
	ReasonInvalidCvc    Reason = "invalid_cvc"
	ReasonProcessing    Reason = "processing_error"
	ReasonGeneric       Reason = "payment_error"
)

var reasonKeys = map[Reason]string{
	ReasonInvalidData:   messages.KeyPaymentInvalidData,
	ReasonDeclined:      messages.KeyPaymentDeclined,
	ReasonInvalidNumber: messages.KeyPaymentInvalidNumber,
	ReasonExpired:       messages.KeyPaymentExpired,
	ReasonInvalidCvc:    messages.KeyPaymentInvalidCvc,
	ReasonProcessing:    messages.KeyPaymentProcessing,
	ReasonGeneric:       messages.KeyPaymentGeneric,
}

// MessageKey is the messages key describing r.
func (r Reason) MessageKey() string {
	if key, ok := reasonKeys[r]; ok {
		return key
	}
	return messages.KeyPaymentGeneric
}

// Structured processor codes take precedence over message matching.
var codeReasons = map[string]Reason{
	tokenizer.CodeCardDeclined:    ReasonDeclined,
	tokenizer.CodeIncorrectNumber: ReasonInvalidNumber,
	tokenizer.CodeInvalidNumber:   ReasonInvalidNumber,
	tokenizer.CodeExpiredCard:     ReasonExpired,
	tokenizer.CodeInvalidExpMonth: ReasonExpired,
	tokenizer.CodeInvalidExpYear:  ReasonExpired,
	tokenizer.CodeIncorrectCVC:    ReasonInvalidCvc,
	tokenizer.CodeInvalidCVC:      ReasonInvalidCvc,
	tokenizer.CodeProcessingError: ReasonProcessing,
}

// Checked in order against the lower-cased error text.
var messageReasons = []struct {
	fragment string
	reason   Reason
}{
	{"declined", ReasonDeclined},
	{"expired", ReasonExpired},
	{"security code", ReasonInvalidCvc},
	{"cvc", ReasonInvalidCvc},
	{"card number", ReasonInvalidNumber},
	{"invalid number", ReasonInvalidNumber},
}

// ClassifyError maps a tokenizer failure to a Reason. Unrecognised failures
// fall back to ReasonGeneric.
func ClassifyError(err error) Reason {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrInvalidData) {
		return ReasonInvalidData
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ReasonProcessing
	}

	var tokErr *tokenizer.Error
	if errors.As(err, &tokErr) {
		if r, ok := codeReasons[tokErr.Code]; ok {
			return r
		}
	}

	text := strings.ToLower(err.Error())
	for _, m := range messageReasons {
		if strings.Contains(text, m.fragment) {
			return m.reason
		}
	}
	return ReasonGeneric
}
