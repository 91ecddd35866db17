package handlers

// Order status lifecycle. Creation always starts at StatusOrderPlaced; admin
// updates overwrite the field with any member of the enum (last write wins),
// and user cancellation is gated by canCancelOrder.
const (
	StatusOrderPlaced    = "Order Placed"
	StatusProcessing     = "Processing"
	StatusShipped        = "Shipped"
	StatusOutForDelivery = "Out for Delivery"
	StatusDelivered      = "Delivered"
	StatusCancelled      = "Cancelled"
)

const (
	PaymentTypeCOD    = "COD"
	PaymentTypeStripe = "Stripe"
	PaymentTypePayPal = "PayPal"
)

var orderStatuses = []string{
	StatusOrderPlaced,
	StatusProcessing,
	StatusShipped,
	StatusOutForDelivery,
	StatusDelivered,
	StatusCancelled,
}

func isValidOrderStatus(status string) bool {
	for _, s := range orderStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// canCancelOrder rejects cancellation once the order is on its way to the
// customer: Shipped and Delivered are final for the buyer.
func canCancelOrder(status string) bool {
	return status != StatusShipped && status != StatusDelivered
}
