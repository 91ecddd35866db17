package handlers

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"bookstore-backend/internal/models"
)

type bookNotFoundError struct {
	BookID primitive.ObjectID
}

func (e bookNotFoundError) Error() string {
	return "book not found"
}

// chargedPrice is the customer-facing unit price. Every payment path charges
// the offer price; the list price is display-only.
func chargedPrice(book models.Book) float64 {
	return book.OfferPrice
}

// computeOrderAmount sums chargedPrice × quantity across the items. Every item
// must resolve against the supplied catalog snapshot; a single miss fails the
// whole computation so no partial order can be priced.
func computeOrderAmount(items []models.OrderItem, books map[primitive.ObjectID]models.Book) (float64, error) {
	var amount float64
	for _, item := range items {
		book, ok := books[item.Product]
		if !ok {
			return 0, bookNotFoundError{BookID: item.Product}
		}
		amount += chargedPrice(book) * float64(item.Quantity)
	}
	return amount, nil
}

// resolveOrderBooks fetches every referenced book. Read-only against the
// catalog; the caller prices against the returned snapshot.
func resolveOrderBooks(ctx context.Context, db *mongo.Database, items []models.OrderItem) (map[primitive.ObjectID]models.Book, error) {
	lookupCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	books := make(map[primitive.ObjectID]models.Book, len(items))
	for _, item := range items {
		if _, ok := books[item.Product]; ok {
			continue
		}

		var book models.Book
		err := db.Collection("books").FindOne(lookupCtx, bson.M{"_id": item.Product}).Decode(&book)
		if err == mongo.ErrNoDocuments {
			return nil, bookNotFoundError{BookID: item.Product}
		}
		if err != nil {
			return nil, err
		}
		books[book.ID] = book
	}
	return books, nil
}
