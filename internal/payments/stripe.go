package payments

import (
	"context"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
)

// StripeProcessor implements CardProcessor against the Stripe API.
type StripeProcessor struct {
	api *client.API
}

// NewStripeProcessor returns nil when no secret key is configured; callers
// treat a nil processor as a disabled card-payment path.
func NewStripeProcessor(secretKey string) *StripeProcessor {
	if secretKey == "" {
		return nil
	}
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeProcessor{api: api}
}

func (p *StripeProcessor) CreateIntent(ctx context.Context, amountMinor int64, currency string, metadata map[string]string) (Intent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountMinor),
		Currency: stripe.String(currency),
	}
	params.Context = ctx
	for key, value := range metadata {
		params.AddMetadata(key, value)
	}

	intent, err := p.api.PaymentIntents.New(params)
	if err != nil {
		return Intent{}, err
	}
	return intentFromStripe(intent), nil
}

func (p *StripeProcessor) RetrieveIntent(ctx context.Context, id string) (Intent, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	intent, err := p.api.PaymentIntents.Get(id, params)
	if err != nil {
		return Intent{}, err
	}
	return intentFromStripe(intent), nil
}

func intentFromStripe(intent *stripe.PaymentIntent) Intent {
	return Intent{
		ID:           intent.ID,
		ClientSecret: intent.ClientSecret,
		Status:       string(intent.Status),
		Succeeded:    intent.Status == stripe.PaymentIntentStatusSucceeded,
	}
}
