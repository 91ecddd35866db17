package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"bookstore-backend/internal/models"
)

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type updateProfileRequest struct {
	Name               *string                    `json:"name"`
	Phone              *string                    `json:"phone"`
	Address            *string                    `json:"address"`
	ProfileImage       *string                    `json:"profileImage"`
	EmailNotifications *models.EmailNotifications `json:"emailNotifications"`
}

func signUserToken(userID primitive.ObjectID, secret string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"userId": userID.Hex(),
		"exp":    time.Now().Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func Register(db *mongo.Database, jwtSecret string, accessTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /user/register"
		defer handlePanic(c, route)

		var req registerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		email := strings.ToLower(strings.TrimSpace(req.Email))

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		err := db.Collection("users").FindOne(ctx, bson.M{"email": email}).Err()
		if err == nil {
			respondWithError(c, http.StatusBadRequest, route, "User already exists")
			return
		}
		if err != mongo.ErrNoDocuments {
			respondWithError(c, http.StatusInternalServerError, route, "Internal server error")
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Internal server error")
			return
		}

		now := time.Now()
		user := models.User{
			Name:         strings.TrimSpace(req.Name),
			Email:        email,
			PasswordHash: string(hash),
			Phone:        strings.TrimSpace(req.Phone),
			EmailNotifications: models.EmailNotifications{
				OrderUpdates: true,
				NewArrivals:  true,
				Promotions:   false,
			},
			CartItems: make(map[string]int),
			CreatedAt: now,
			UpdatedAt: now,
		}

		res, err := db.Collection("users").InsertOne(ctx, user)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Internal server error")
			return
		}
		userID, _ := res.InsertedID.(primitive.ObjectID)

		token, err := signUserToken(userID, jwtSecret, accessTTL)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Internal server error")
			return
		}

		log.Println("[AUTH] [INFO] user registered:", email)
		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"message": "User registered successfully",
			"token":   token,
			"user": gin.H{
				"id":    userID.Hex(),
				"name":  user.Name,
				"email": user.Email,
			},
		})
	}
}

func Login(db *mongo.Database, jwtSecret string, accessTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /user/login"
		defer handlePanic(c, route)

		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		email := strings.ToLower(strings.TrimSpace(req.Email))

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var user models.User
		err := db.Collection("users").FindOne(ctx, bson.M{"email": email}).Decode(&user)
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusUnauthorized, route, "Invalid credentials")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Internal server error")
			return
		}

		if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
			respondWithError(c, http.StatusUnauthorized, route, "Invalid credentials")
			return
		}

		token, err := signUserToken(user.ID, jwtSecret, accessTTL)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Internal server error")
			return
		}

		log.Println("[AUTH] [INFO] user logged in:", email)
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Logged in successfully",
			"token":   token,
			"user": gin.H{
				"id":    user.ID.Hex(),
				"name":  user.Name,
				"email": user.Email,
			},
		})
	}
}

func GetProfile(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /user/profile"
		defer handlePanic(c, route)

		userID, ok := userIDFromContext(c)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var user models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
			respondWithError(c, http.StatusNotFound, route, "User not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
	}
}

func UpdateProfile(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /user/profile"
		defer handlePanic(c, route)

		userID, ok := userIDFromContext(c)
		if !ok {
			return
		}

		var req updateProfileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid request body")
			return
		}

		update := bson.M{"updatedAt": time.Now()}
		if req.Name != nil {
			update["name"] = strings.TrimSpace(*req.Name)
		}
		if req.Phone != nil {
			update["phone"] = strings.TrimSpace(*req.Phone)
		}
		if req.Address != nil {
			update["address"] = strings.TrimSpace(*req.Address)
		}
		if req.ProfileImage != nil {
			update["profileImage"] = strings.TrimSpace(*req.ProfileImage)
		}
		if req.EmailNotifications != nil {
			update["emailNotifications"] = *req.EmailNotifications
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		result, err := db.Collection("users").UpdateByID(ctx, userID, bson.M{"$set": update})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Internal server error")
			return
		}
		if result.MatchedCount == 0 {
			respondWithError(c, http.StatusNotFound, route, "User not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Profile updated successfully"})
	}
}
