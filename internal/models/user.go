package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EmailNotifications holds per-user opt-in flags for outgoing mail.
type EmailNotifications struct {
	OrderUpdates bool `bson:"orderUpdates" json:"orderUpdates"`
	NewArrivals  bool `bson:"newArrivals" json:"newArrivals"`
	Promotions   bool `bson:"promotions" json:"promotions"`
}

// User represents the application user account. CartItems maps a book id hex
// to a quantity; it is the server-side copy of the optimistic client cart.
type User struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name               string             `bson:"name" json:"name"`
	Email              string             `bson:"email" json:"email"`
	PasswordHash       string             `bson:"passwordHash" json:"-"`
	Phone              string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Address            string             `bson:"address,omitempty" json:"address,omitempty"`
	ProfileImage       string             `bson:"profileImage,omitempty" json:"profileImage,omitempty"`
	EmailNotifications EmailNotifications `bson:"emailNotifications" json:"emailNotifications"`
	CartItems          map[string]int     `bson:"cartItems" json:"cartItems"`
	CreatedAt          time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time          `bson:"updatedAt" json:"updatedAt"`
}
