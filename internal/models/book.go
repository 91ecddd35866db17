package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Book struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Author      string             `bson:"author" json:"author"`
	Price       float64            `bson:"price" json:"price"`
	OfferPrice  float64            `bson:"offerPrice" json:"offerPrice"`
	Rating      float64            `bson:"rating" json:"rating"`
	ReviewCount int                `bson:"reviewCount" json:"reviewCount"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Category    string             `bson:"category" json:"category"`
	Image       string             `bson:"image,omitempty" json:"image,omitempty"`
	InStock     bool               `bson:"inStock" json:"inStock"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}
