package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"bookstore-backend/internal/models"
)

type addressRequest struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Phone     string `json:"phone" binding:"required"`
	Email     string `json:"email" binding:"required"`
	Street    string `json:"street" binding:"required"`
	City      string `json:"city" binding:"required"`
	State     string `json:"state" binding:"required"`
	Zipcode   string `json:"zipcode" binding:"required"`
	Country   string `json:"country" binding:"required"`
}

// AddAddress creates a delivery address for the caller. Addresses have no
// update endpoint; one referenced by an order stays as it was at checkout.
func AddAddress(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /address/add"
		defer handlePanic(c, route)

		userID, ok := userIDFromContext(c)
		if !ok {
			return
		}

		var req addressRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		address := models.Address{
			UserID:    userID,
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Phone:     req.Phone,
			Email:     req.Email,
			Street:    req.Street,
			City:      req.City,
			State:     req.State,
			Zipcode:   req.Zipcode,
			Country:   req.Country,
			CreatedAt: time.Now(),
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("addresses").InsertOne(ctx, address)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Failed to add address")
			return
		}
		if id, idOK := res.InsertedID.(primitive.ObjectID); idOK {
			address.ID = id
		}

		log.Println("[ADDRESS] [INFO] address created:", address.ID.Hex())
		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"message": "Address added successfully",
			"address": address,
		})
	}
}

func GetAddresses(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /address/get"
		defer handlePanic(c, route)

		userID, ok := userIDFromContext(c)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("addresses").Find(ctx, bson.M{"userId": userID})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Failed to fetch addresses")
			return
		}

		addresses := make([]models.Address, 0)
		if err := cursor.All(ctx, &addresses); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Failed to fetch addresses")
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "addresses": addresses})
	}
}
