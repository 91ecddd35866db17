package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	PaymentSessionPending   = "pending"
	PaymentSessionConfirmed = "confirmed"
	PaymentSessionFailed    = "failed"
)

// PaymentSession records a card payment in flight. It is written before the
// client secret is handed out, so a crash between external confirmation and
// local order creation leaves a pending record the reconciliation sweep can
// settle instead of a silently lost order.
type PaymentSession struct {
	ID              string             `bson:"_id" json:"id"`
	UserID          primitive.ObjectID `bson:"userId" json:"userId"`
	PaymentIntentID string             `bson:"paymentIntentId" json:"paymentIntentId"`
	Items           []OrderItem        `bson:"items" json:"items"`
	AddressID       primitive.ObjectID `bson:"addressId" json:"addressId"`
	Amount          float64            `bson:"amount" json:"amount"`
	Status          string             `bson:"status" json:"status"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}
