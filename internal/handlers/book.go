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
	"go.mongodb.org/mongo-driver/mongo/options"

	"bookstore-backend/internal/models"
)

type addBookRequest struct {
	Title       string  `json:"title" binding:"required"`
	Author      string  `json:"author" binding:"required"`
	Price       float64 `json:"price" binding:"required"`
	OfferPrice  float64 `json:"offerPrice" binding:"required"`
	Rating      float64 `json:"rating"`
	ReviewCount int     `json:"reviewCount"`
	Description string  `json:"description"`
	Category    string  `json:"category" binding:"required"`
	Image       string  `json:"image"`
	InStock     *bool   `json:"inStock"`
}

type updateBookRequest struct {
	Title       *string  `json:"title"`
	Author      *string  `json:"author"`
	Price       *float64 `json:"price"`
	OfferPrice  *float64 `json:"offerPrice"`
	Rating      *float64 `json:"rating"`
	ReviewCount *int     `json:"reviewCount"`
	Description *string  `json:"description"`
	Category    *string  `json:"category"`
	Image       *string  `json:"image"`
	InStock     *bool    `json:"inStock"`
}

/* =========================
   PUBLIC CATALOG
========================= */

func GetBooks(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /book/get-books"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		filter := bson.M{}
		if category := strings.TrimSpace(c.Query("category")); category != "" {
			filter["category"] = category
		}

		opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
		cursor, err := db.Collection("books").Find(ctx, filter, opts)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Internal server error")
			return
		}

		books := make([]models.Book, 0)
		if err := cursor.All(ctx, &books); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Internal server error")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Books fetched successfully",
			"books":   books,
		})
	}
}

func GetBook(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /book/get"
		defer handlePanic(c, route)

		bookID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid book id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var book models.Book
		err = db.Collection("books").FindOne(ctx, bson.M{"_id": bookID}).Decode(&book)
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusNotFound, route, "Book not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Internal server error")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Book fetched successfully",
			"book":    book,
		})
	}
}

/* =========================
   ADMIN CRUD
========================= */

func AddBook(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /book/add"
		defer handlePanic(c, route)

		var req addBookRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "All fields are required")
			return
		}

		inStock := true
		if req.InStock != nil {
			inStock = *req.InStock
		}

		book := models.Book{
			Title:       strings.TrimSpace(req.Title),
			Author:      strings.TrimSpace(req.Author),
			Price:       req.Price,
			OfferPrice:  req.OfferPrice,
			Rating:      req.Rating,
			ReviewCount: req.ReviewCount,
			Description: strings.TrimSpace(req.Description),
			Category:    strings.TrimSpace(req.Category),
			Image:       strings.TrimSpace(req.Image),
			InStock:     inStock,
			CreatedAt:   time.Now(),
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("books").InsertOne(ctx, book)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Internal server error")
			return
		}
		if id, ok := res.InsertedID.(primitive.ObjectID); ok {
			book.ID = id
		}

		log.Println("[BOOK] [INFO] book added:", book.ID.Hex())
		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"message": "Book added successfully",
			"book":    book,
		})
	}
}

func UpdateBook(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /book/update"
		defer handlePanic(c, route)

		bookID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid book id")
			return
		}

		var req updateBookRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid request body")
			return
		}

		update := bson.M{}
		if req.Title != nil {
			update["title"] = strings.TrimSpace(*req.Title)
		}
		if req.Author != nil {
			update["author"] = strings.TrimSpace(*req.Author)
		}
		if req.Price != nil {
			update["price"] = *req.Price
		}
		if req.OfferPrice != nil {
			update["offerPrice"] = *req.OfferPrice
		}
		if req.Rating != nil {
			update["rating"] = *req.Rating
		}
		if req.ReviewCount != nil {
			update["reviewCount"] = *req.ReviewCount
		}
		if req.Description != nil {
			update["description"] = strings.TrimSpace(*req.Description)
		}
		if req.Category != nil {
			update["category"] = strings.TrimSpace(*req.Category)
		}
		if req.Image != nil {
			update["image"] = strings.TrimSpace(*req.Image)
		}
		if req.InStock != nil {
			update["inStock"] = *req.InStock
		}

		if len(update) == 0 {
			respondWithError(c, http.StatusBadRequest, route, "no fields to update")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var book models.Book
		err = db.Collection("books").FindOneAndUpdate(
			ctx,
			bson.M{"_id": bookID},
			bson.M{"$set": update},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&book)
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusNotFound, route, "Book not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Internal server error")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Book updated successfully",
			"book":    book,
		})
	}
}

func DeleteBook(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /book/delete"
		defer handlePanic(c, route)

		bookID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid book id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		result, err := db.Collection("books").DeleteOne(ctx, bson.M{"_id": bookID})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Internal server error")
			return
		}
		if result.DeletedCount == 0 {
			respondWithError(c, http.StatusNotFound, route, "Book not found")
			return
		}

		log.Println("[BOOK] [INFO] book deleted:", bookID.Hex())
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Book deleted successfully"})
	}
}
