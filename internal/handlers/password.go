package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"bookstore-backend/internal/mail"
	"bookstore-backend/internal/models"
	"bookstore-backend/internal/otp"
)

type sendResetOTPRequest struct {
	Email string `json:"email" binding:"required"`
}

type resetPasswordRequest struct {
	Email       string `json:"email" binding:"required"`
	OTP         string `json:"otp" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=6"`
}

func SendResetOTP(db *mongo.Database, store *otp.Store, mailer *mail.Mailer) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /password/send-reset-otp"
		defer handlePanic(c, route)

		var req sendResetOTPRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "Email is required")
			return
		}

		email := strings.ToLower(strings.TrimSpace(req.Email))

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var user models.User
		err := db.Collection("users").FindOne(ctx, bson.M{"email": email}).Decode(&user)
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusNotFound, route, "User not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Internal server error")
			return
		}

		code, err := store.Generate(ctx, email)
		if err != nil {
			log.Println("[PASSWORD] [ERROR] otp generation failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "Failed to send OTP")
			return
		}

		if err := mailer.SendPasswordResetOTP(email, user.Name, code); err != nil {
			log.Println("[PASSWORD] [ERROR] otp mail failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "Failed to send OTP")
			return
		}

		log.Println("[PASSWORD] [INFO] reset OTP sent to:", email)
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Password reset OTP sent to your email",
		})
	}
}

func ResetPassword(db *mongo.Database, store *otp.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /password/reset"
		defer handlePanic(c, route)

		var req resetPasswordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "Email, OTP, and new password are required")
			return
		}

		email := strings.ToLower(strings.TrimSpace(req.Email))

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if err := store.Verify(ctx, email, strings.TrimSpace(req.OTP)); err != nil {
			if errors.Is(err, otp.ErrNotFound) {
				respondWithError(c, http.StatusBadRequest, route, "OTP not found or expired")
				return
			}
			respondWithError(c, http.StatusBadRequest, route, "Invalid OTP")
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Failed to reset password")
			return
		}

		result, err := db.Collection("users").UpdateOne(ctx, bson.M{"email": email}, bson.M{
			"$set": bson.M{"passwordHash": string(hash), "updatedAt": time.Now()},
		})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Failed to reset password")
			return
		}
		if result.MatchedCount == 0 {
			respondWithError(c, http.StatusNotFound, route, "User not found")
			return
		}

		log.Println("[PASSWORD] [INFO] password reset for:", email)
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Password reset successfully"})
	}
}
