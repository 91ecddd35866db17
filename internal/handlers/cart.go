package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"bookstore-backend/internal/models"
)

type cartAddRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity"`
}

type cartRemoveRequest struct {
	ProductID string `json:"productId" binding:"required"`
}

type cartUpdateRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity"`
}

// loadUserCart is the read half of the cart read-modify-write. The client is
// the optimistic copy; the server copy here is authoritative on refetch.
func loadUserCart(ctx context.Context, db *mongo.Database, userID primitive.ObjectID) (map[string]int, error) {
	var user models.User
	if err := db.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		return nil, err
	}
	if user.CartItems == nil {
		return make(map[string]int), nil
	}
	return user.CartItems, nil
}

func saveUserCart(ctx context.Context, db *mongo.Database, userID primitive.ObjectID, cart map[string]int) error {
	_, err := db.Collection("users").UpdateByID(ctx, userID, bson.M{
		"$set": bson.M{"cartItems": cart, "updatedAt": time.Now()},
	})
	return err
}

func AddToCart(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /cart/add"
		defer handlePanic(c, route)

		userID, ok := userIDFromContext(c)
		if !ok {
			return
		}

		var req cartAddRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cart, err := loadUserCart(ctx, db, userID)
		if err != nil {
			respondWithError(c, http.StatusNotFound, route, "User not found")
			return
		}

		cart = applyCartAdd(cart, strings.TrimSpace(req.ProductID), req.Quantity)

		if err := saveUserCart(ctx, db, userID, cart); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Internal server error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Added to cart"})
	}
}

func RemoveFromCart(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /cart/remove"
		defer handlePanic(c, route)

		userID, ok := userIDFromContext(c)
		if !ok {
			return
		}

		var req cartRemoveRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cart, err := loadUserCart(ctx, db, userID)
		if err != nil {
			respondWithError(c, http.StatusNotFound, route, "User not found")
			return
		}

		cart = applyCartRemove(cart, strings.TrimSpace(req.ProductID))

		if err := saveUserCart(ctx, db, userID, cart); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Internal server error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Removed from cart"})
	}
}

func UpdateCart(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /cart/update"
		defer handlePanic(c, route)

		userID, ok := userIDFromContext(c)
		if !ok {
			return
		}

		var req cartUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cart, err := loadUserCart(ctx, db, userID)
		if err != nil {
			respondWithError(c, http.StatusNotFound, route, "User not found")
			return
		}

		cart = applyCartUpdate(cart, strings.TrimSpace(req.ProductID), req.Quantity)

		if err := saveUserCart(ctx, db, userID, cart); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Internal server error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Cart updated"})
	}
}

// GetCart returns the server cart with each entry resolved against the
// catalog; books deleted since the entry was added are skipped.
func GetCart(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /cart/get"
		defer handlePanic(c, route)

		userID, ok := userIDFromContext(c)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cart, err := loadUserCart(ctx, db, userID)
		if err != nil {
			respondWithError(c, http.StatusNotFound, route, "User not found")
			return
		}

		bookIDs := make([]primitive.ObjectID, 0, len(cart))
		for idHex := range cart {
			bookID, err := primitive.ObjectIDFromHex(idHex)
			if err != nil {
				log.Println("[CART] [ERROR] skipping malformed cart entry:", idHex)
				continue
			}
			bookIDs = append(bookIDs, bookID)
		}

		cartItems := make([]gin.H, 0, len(bookIDs))
		if len(bookIDs) > 0 {
			cursor, err := db.Collection("books").Find(ctx, bson.M{"_id": bson.M{"$in": bookIDs}})
			if err != nil {
				respondWithError(c, http.StatusInternalServerError, route, "Internal server error")
				return
			}

			var books []models.Book
			if err := cursor.All(ctx, &books); err != nil {
				respondWithError(c, http.StatusInternalServerError, route, "Internal server error")
				return
			}

			for _, book := range books {
				cartItems = append(cartItems, gin.H{
					"book":     book,
					"quantity": cart[book.ID.Hex()],
				})
			}
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "cartItems": cartItems})
	}
}
