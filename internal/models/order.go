package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderItem references a catalog book and a quantity. Unit prices are not
// stored per line; reads resolve them against the current catalog.
type OrderItem struct {
	Product  primitive.ObjectID `bson:"product" json:"product"`
	Quantity int                `bson:"quantity" json:"quantity"`
}

// Order defines the persisted order document. Amount is a snapshot computed
// once at creation; later catalog price changes do not affect it.
type Order struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID          primitive.ObjectID `bson:"userId" json:"userId"`
	Items           []OrderItem        `bson:"items" json:"items"`
	Amount          float64            `bson:"amount" json:"amount"`
	AddressID       primitive.ObjectID `bson:"addressId" json:"addressId"`
	Status          string             `bson:"status" json:"status"`
	PaymentType     string             `bson:"paymentType" json:"paymentType"`
	IsPaid          bool               `bson:"isPaid" json:"isPaid"`
	PaymentIntentID string             `bson:"paymentIntentId,omitempty" json:"paymentIntentId,omitempty"`
	TrackingNumber  string             `bson:"trackingNumber,omitempty" json:"trackingNumber,omitempty"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}
