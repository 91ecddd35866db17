package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Address is a normalized delivery address owned by one user. Orders reference
// it by id; there is no update endpoint, so a referenced address stays stable.
type Address struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	FirstName string             `bson:"firstName" json:"firstName"`
	LastName  string             `bson:"lastName" json:"lastName"`
	Phone     string             `bson:"phone" json:"phone"`
	Email     string             `bson:"email" json:"email"`
	Street    string             `bson:"street" json:"street"`
	City      string             `bson:"city" json:"city"`
	State     string             `bson:"state" json:"state"`
	Zipcode   string             `bson:"zipcode" json:"zipcode"`
	Country   string             `bson:"country" json:"country"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
