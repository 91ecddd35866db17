package handlers

import "testing"

func TestIsValidOrderStatus(t *testing.T) {
	for _, status := range orderStatuses {
		if !isValidOrderStatus(status) {
			t.Fatalf("expected %q to be a valid status", status)
		}
	}

	for _, status := range []string{"", "pending", "order placed", "Returned"} {
		if isValidOrderStatus(status) {
			t.Fatalf("expected %q to be rejected", status)
		}
	}
}

func TestCanCancelOrderBeforeShipping(t *testing.T) {
	for _, status := range []string{StatusOrderPlaced, StatusProcessing, StatusOutForDelivery} {
		if !canCancelOrder(status) {
			t.Fatalf("expected %q to be cancellable", status)
		}
	}
}

func TestCannotCancelShippedOrDelivered(t *testing.T) {
	for _, status := range []string{StatusShipped, StatusDelivered} {
		if canCancelOrder(status) {
			t.Fatalf("expected %q to block cancellation", status)
		}
	}
}
