package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"bookstore-backend/internal/mail"
	"bookstore-backend/internal/models"
)

type subscribeRequest struct {
	Email string `json:"email" binding:"required,email"`
}

func SubscribeNewsletter(db *mongo.Database, mailer *mail.Mailer) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /newsletter/subscribe"
		defer handlePanic(c, route)

		var req subscribeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "Email is required")
			return
		}

		email := strings.ToLower(strings.TrimSpace(req.Email))

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		err := db.Collection("newsletter").FindOne(ctx, bson.M{"email": email}).Err()
		if err == nil {
			respondWithError(c, http.StatusBadRequest, route, "Email is already subscribed")
			return
		}
		if err != mongo.ErrNoDocuments {
			respondWithError(c, http.StatusInternalServerError, route, "Internal server error")
			return
		}

		subscriber := models.Subscriber{
			Email:        email,
			SubscribedAt: time.Now(),
		}
		if _, err := db.Collection("newsletter").InsertOne(ctx, subscriber); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Internal server error")
			return
		}

		// Welcome mail is best effort; the subscription is already recorded.
		if err := mailer.SendNewsletterWelcome(email); err != nil {
			log.Println("[NEWSLETTER] [ERROR] welcome mail failed:", err)
		}

		log.Println("[NEWSLETTER] [INFO] subscribed:", email)
		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"message": "Subscribed to newsletter successfully",
		})
	}
}
