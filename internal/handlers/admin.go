package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"bookstore-backend/internal/models"
)

type adminLoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AdminLogin checks credentials against the env-configured admin account and
// issues a role-scoped token.
func AdminLogin(jwtSecret, adminEmail, adminPassword string, accessTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /admin/login"
		defer handlePanic(c, route)

		var req adminLoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "Please fill all the fields")
			return
		}

		if adminEmail == "" || req.Email != adminEmail || req.Password != adminPassword {
			respondWithError(c, http.StatusUnauthorized, route, "Invalid credentials")
			return
		}

		claims := jwt.MapClaims{
			"email": adminEmail,
			"role":  "admin",
			"exp":   time.Now().Add(accessTTL).Unix(),
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(jwtSecret))
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Internal server error")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Admin logged in successfully",
			"token":   token,
		})
	}
}

func AdminIsAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

type adminUpdateUserRequest struct {
	Name               *string                    `json:"name"`
	Email              *string                    `json:"email"`
	Phone              *string                    `json:"phone"`
	Address            *string                    `json:"address"`
	EmailNotifications *models.EmailNotifications `json:"emailNotifications"`
}

// GetAllUsers lists every account for the admin dashboard. Password hashes
// never serialize (json:"-" on the model).
func GetAllUsers(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/users"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
		cursor, err := db.Collection("users").Find(ctx, bson.M{}, opts)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Failed to fetch users")
			return
		}

		users := make([]models.User, 0)
		if err := cursor.All(ctx, &users); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Failed to fetch users")
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "users": users})
	}
}

func AdminUpdateUser(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /admin/users"
		defer handlePanic(c, route)

		userID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid user id")
			return
		}

		var req adminUpdateUserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid request body")
			return
		}

		update := bson.M{"updatedAt": time.Now()}
		if req.Name != nil {
			update["name"] = strings.TrimSpace(*req.Name)
		}
		if req.Email != nil {
			update["email"] = strings.ToLower(strings.TrimSpace(*req.Email))
		}
		if req.Phone != nil {
			update["phone"] = strings.TrimSpace(*req.Phone)
		}
		if req.Address != nil {
			update["address"] = strings.TrimSpace(*req.Address)
		}
		if req.EmailNotifications != nil {
			update["emailNotifications"] = *req.EmailNotifications
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var user models.User
		err = db.Collection("users").FindOneAndUpdate(
			ctx,
			bson.M{"_id": userID},
			bson.M{"$set": update},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&user)
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusNotFound, route, "User not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Internal server error")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "User updated successfully",
			"user":    user,
		})
	}
}
