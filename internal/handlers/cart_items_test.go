package handlers

import "testing"

func TestApplyCartAdd(t *testing.T) {
	cart := applyCartAdd(nil, "book-1", 0)
	if cart["book-1"] != 1 {
		t.Fatalf("expected default quantity 1, got %d", cart["book-1"])
	}

	cart = applyCartAdd(cart, "book-1", 2)
	if cart["book-1"] != 3 {
		t.Fatalf("expected quantity 3 after increment, got %d", cart["book-1"])
	}

	cart = applyCartAdd(cart, "book-2", 5)
	if cart["book-2"] != 5 {
		t.Fatalf("expected new entry with quantity 5, got %d", cart["book-2"])
	}
}

func TestApplyCartRemoveDeletesAtZero(t *testing.T) {
	cart := map[string]int{"book-1": 2}

	cart = applyCartRemove(cart, "book-1")
	if cart["book-1"] != 1 {
		t.Fatalf("expected quantity 1, got %d", cart["book-1"])
	}

	cart = applyCartRemove(cart, "book-1")
	if _, ok := cart["book-1"]; ok {
		t.Fatal("expected entry to be deleted when quantity reaches zero")
	}

	// Removing past zero stays a no-op; no negative entry may appear.
	cart = applyCartRemove(cart, "book-1")
	if qty, ok := cart["book-1"]; ok {
		t.Fatalf("expected no entry, got quantity %d", qty)
	}
}

func TestApplyCartRemoveUnknownEntry(t *testing.T) {
	cart := applyCartRemove(map[string]int{"book-1": 1}, "book-2")
	if cart["book-1"] != 1 {
		t.Fatalf("expected untouched entry, got %d", cart["book-1"])
	}
	if _, ok := cart["book-2"]; ok {
		t.Fatal("expected unknown entry to stay absent")
	}
}

func TestApplyCartUpdate(t *testing.T) {
	cart := applyCartUpdate(nil, "book-1", 4)
	if cart["book-1"] != 4 {
		t.Fatalf("expected quantity 4, got %d", cart["book-1"])
	}

	cart = applyCartUpdate(cart, "book-1", 0)
	if _, ok := cart["book-1"]; ok {
		t.Fatal("expected entry deleted for quantity 0")
	}

	cart = applyCartUpdate(cart, "book-1", -3)
	if _, ok := cart["book-1"]; ok {
		t.Fatal("expected entry deleted for negative quantity")
	}

	for _, qty := range cart {
		if qty <= 0 {
			t.Fatalf("cart holds non-positive quantity %d", qty)
		}
	}
}
