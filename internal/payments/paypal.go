package payments

import (
	"context"

	"github.com/plutov/paypal/v4"
)

// PayPalVerifier implements WalletVerifier against the PayPal Orders API.
type PayPalVerifier struct {
	client *paypal.Client
}

// NewPayPalVerifier returns nil when credentials are missing, disabling the
// PayPal path the same way a missing Stripe key disables card payments.
func NewPayPalVerifier(clientID, secret string, live bool) (*PayPalVerifier, error) {
	if clientID == "" || secret == "" {
		return nil, nil
	}

	base := paypal.APIBaseSandBox
	if live {
		base = paypal.APIBaseLive
	}

	client, err := paypal.NewClient(clientID, secret, base)
	if err != nil {
		return nil, err
	}
	return &PayPalVerifier{client: client}, nil
}

func (v *PayPalVerifier) VerifyOrder(ctx context.Context, orderID string) (bool, error) {
	if _, err := v.client.GetAccessToken(ctx); err != nil {
		return false, err
	}

	order, err := v.client.GetOrder(ctx, orderID)
	if err != nil {
		return false, err
	}
	return order.Status == "COMPLETED", nil
}
