package payments

import "testing"

func TestIntentTerminal(t *testing.T) {
	if !(Intent{Status: "canceled"}).Terminal() {
		t.Fatal("expected canceled intent to be terminal")
	}

	for _, status := range []string{"processing", "requires_action", "requires_payment_method", "succeeded"} {
		if (Intent{Status: status}).Terminal() {
			t.Fatalf("expected %q not to be terminal", status)
		}
	}
}
