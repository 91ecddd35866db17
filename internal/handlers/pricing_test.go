package handlers

import (
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"bookstore-backend/internal/models"
)

func testBook(offerPrice, price float64) models.Book {
	return models.Book{
		ID:         primitive.NewObjectID(),
		Title:      "Test Book",
		Author:     "Test Author",
		Price:      price,
		OfferPrice: offerPrice,
		InStock:    true,
	}
}

func TestComputeOrderAmountSumsOfferPrice(t *testing.T) {
	bookA := testBook(20, 25)
	bookB := testBook(9.5, 12)
	books := map[primitive.ObjectID]models.Book{
		bookA.ID: bookA,
		bookB.ID: bookB,
	}

	items := []models.OrderItem{
		{Product: bookA.ID, Quantity: 2},
		{Product: bookB.ID, Quantity: 3},
	}

	amount, err := computeOrderAmount(items, books)
	if err != nil {
		t.Fatalf("computeOrderAmount returned error: %v", err)
	}
	if amount != 20*2+9.5*3 {
		t.Fatalf("expected amount 68.5, got %v", amount)
	}
}

func TestComputeOrderAmountCODScenario(t *testing.T) {
	// A book listed and offered at 20, quantity 2, must price to 40.
	book := testBook(20, 20)
	books := map[primitive.ObjectID]models.Book{book.ID: book}

	amount, err := computeOrderAmount([]models.OrderItem{{Product: book.ID, Quantity: 2}}, books)
	if err != nil {
		t.Fatalf("computeOrderAmount returned error: %v", err)
	}
	if amount != 40 {
		t.Fatalf("expected amount 40, got %v", amount)
	}
}

func TestComputeOrderAmountFailsOnUnresolvedBook(t *testing.T) {
	book := testBook(15, 18)
	books := map[primitive.ObjectID]models.Book{book.ID: book}

	missing := primitive.NewObjectID()
	items := []models.OrderItem{
		{Product: book.ID, Quantity: 1},
		{Product: missing, Quantity: 2},
	}

	_, err := computeOrderAmount(items, books)
	if err == nil {
		t.Fatal("expected error for unresolved book id")
	}

	var notFound bookNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected bookNotFoundError, got %T", err)
	}
	if notFound.BookID != missing {
		t.Fatalf("expected missing id %s, got %s", missing.Hex(), notFound.BookID.Hex())
	}
}

func TestChargedPriceIsOfferPriceOnEveryPath(t *testing.T) {
	book := testBook(12, 30)
	if got := chargedPrice(book); got != 12 {
		t.Fatalf("expected offer price 12, got %v", got)
	}
}

func TestParseOrderItems(t *testing.T) {
	validID := primitive.NewObjectID().Hex()

	if _, err := parseOrderItems(nil); err == nil {
		t.Fatal("expected error for empty item list")
	}
	if _, err := parseOrderItems([]orderItemRequest{{Product: "not-an-id", Quantity: 1}}); err == nil {
		t.Fatal("expected error for malformed product id")
	}
	if _, err := parseOrderItems([]orderItemRequest{{Product: validID, Quantity: 0}}); err == nil {
		t.Fatal("expected error for zero quantity")
	}
	if _, err := parseOrderItems([]orderItemRequest{{Product: validID, Quantity: -2}}); err == nil {
		t.Fatal("expected error for negative quantity")
	}

	items, err := parseOrderItems([]orderItemRequest{{Product: validID, Quantity: 3}})
	if err != nil {
		t.Fatalf("parseOrderItems returned error: %v", err)
	}
	if len(items) != 1 || items[0].Quantity != 3 || items[0].Product.Hex() != validID {
		t.Fatalf("unexpected parsed items: %+v", items)
	}
}
