// Package payments wraps the external payment processors behind small
// interfaces so the order workflow can be exercised without network calls.
package payments

import "context"

// Intent mirrors the processor-side record of an in-progress charge.
type Intent struct {
	ID           string
	ClientSecret string
	Status       string
	Succeeded    bool
}

// Terminal reports whether the intent can no longer succeed. Transient
// statuses (processing, requires_action) may still settle at the processor
// and must not be written off.
func (i Intent) Terminal() bool {
	return i.Status == "canceled"
}

// CardProcessor is the two-phase card payment flow: create an intent sized in
// minor units, then re-verify its status server-side before trusting it.
type CardProcessor interface {
	CreateIntent(ctx context.Context, amountMinor int64, currency string, metadata map[string]string) (Intent, error)
	RetrieveIntent(ctx context.Context, id string) (Intent, error)
}

// WalletVerifier checks a wallet-side order (PayPal) server-side. An order is
// only trusted once the processor itself reports it completed.
type WalletVerifier interface {
	VerifyOrder(ctx context.Context, orderID string) (bool, error)
}
