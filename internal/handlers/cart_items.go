package handlers

// Cart mutation rules, shared by the cart endpoints. A cart is a bookId→qty
// map on the user document; no entry may ever hold a quantity ≤ 0.

func applyCartAdd(cart map[string]int, bookID string, quantity int) map[string]int {
	if cart == nil {
		cart = make(map[string]int)
	}
	if quantity <= 0 {
		quantity = 1
	}
	cart[bookID] += quantity
	return cart
}

func applyCartRemove(cart map[string]int, bookID string) map[string]int {
	if cart == nil {
		return make(map[string]int)
	}
	if current, ok := cart[bookID]; ok {
		if current-1 <= 0 {
			delete(cart, bookID)
		} else {
			cart[bookID] = current - 1
		}
	}
	return cart
}

func applyCartUpdate(cart map[string]int, bookID string, quantity int) map[string]int {
	if cart == nil {
		cart = make(map[string]int)
	}
	if quantity <= 0 {
		delete(cart, bookID)
		return cart
	}
	cart[bookID] = quantity
	return cart
}
