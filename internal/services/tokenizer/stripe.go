package tokenizer

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/token"
)

// StripeTokenizer creates card tokens through the Stripe API.
type StripeTokenizer struct {
	client token.Client
	log    *logrus.Entry
}

func NewStripeTokenizer(secretKey string, log *logrus.Entry) *StripeTokenizer {
	return &StripeTokenizer{
		client: token.Client{B: stripe.GetBackend(stripe.APIBackend), Key: secretKey},
		log:    log.WithField("tokenizer", "stripe"),
	}
}

func (t *StripeTokenizer) Tokenize(ctx context.Context, card Card) (*Token, error) {
	params := &stripe.TokenParams{
		Card: &stripe.CardParams{
			Number:   stripe.String(card.Number),
			ExpMonth: stripe.String(strconv.Itoa(card.ExpMonth)),
			ExpYear:  stripe.String(strconv.Itoa(card.ExpYear)),
			CVC:      stripe.String(card.CVC),
			Name:     stripe.String(card.HolderName),
		},
	}
	params.Context = ctx

	stripeToken, err := t.client.New(params)
	if err != nil {
		t.log.WithField("last4", card.LastFour()).WithError(err).Warn("stripe tokenization failed")
		return nil, normalizeStripeError(err)
	}

	result := &Token{ID: stripeToken.ID, Last4: card.LastFour()}
	if stripeToken.Card != nil {
		result.Brand = string(stripeToken.Card.Brand)
		if stripeToken.Card.Last4 != "" {
			result.Last4 = stripeToken.Card.Last4
		}
	}
	return result, nil
}

func normalizeStripeError(err error) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		return &Error{
			Code:        string(stripeErr.Code),
			DeclineCode: string(stripeErr.DeclineCode),
			Message:     stripeErr.Msg,
			Err:         err,
		}
	}
	return fmt.Errorf("stripe tokenization failed: %w", err)
}
