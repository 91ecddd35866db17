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
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"bookstore-backend/internal/models"
)

/* =========================
   REQUEST DTOs
========================= */

type orderItemRequest struct {
	Product  string `json:"product" binding:"required"`
	Quantity int    `json:"quantity" binding:"required"`
}

type placeOrderRequest struct {
	Items   []orderItemRequest `json:"items" binding:"required"`
	Address string             `json:"address" binding:"required"`
}

type updateOrderStatusRequest struct {
	Status         string `json:"status" binding:"required"`
	TrackingNumber string `json:"trackingNumber"`
}

func parseOrderItems(reqItems []orderItemRequest) ([]models.OrderItem, error) {
	if len(reqItems) == 0 {
		return nil, errors.New("at least one item is required")
	}

	items := make([]models.OrderItem, 0, len(reqItems))
	for _, item := range reqItems {
		bookID, err := primitive.ObjectIDFromHex(strings.TrimSpace(item.Product))
		if err != nil {
			return nil, errors.New("invalid product id")
		}
		if item.Quantity <= 0 {
			return nil, errors.New("quantity must be greater than zero")
		}
		items = append(items, models.OrderItem{Product: bookID, Quantity: item.Quantity})
	}
	return items, nil
}

type addressNotFoundError struct {
	AddressID primitive.ObjectID
}

func (e addressNotFoundError) Error() string {
	return "address not found"
}

// resolveAddressID verifies the address exists and belongs to the caller.
func resolveAddressID(ctx context.Context, db *mongo.Database, userID primitive.ObjectID, raw string) (primitive.ObjectID, error) {
	addressID, err := primitive.ObjectIDFromHex(strings.TrimSpace(raw))
	if err != nil {
		return primitive.NilObjectID, errors.New("invalid address id")
	}

	lookupCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = db.Collection("addresses").FindOne(lookupCtx, bson.M{
		"_id":    addressID,
		"userId": userID,
	}).Err()
	if err == mongo.ErrNoDocuments {
		return primitive.NilObjectID, addressNotFoundError{AddressID: addressID}
	}
	if err != nil {
		return primitive.NilObjectID, err
	}
	return addressID, nil
}

/* =========================
   PLACE ORDER (COD)
========================= */

func PlaceOrderCOD(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /order/place-cod"
		defer handlePanic(c, route)

		if err := ensureDBConnection(c.Request.Context(), db); err != nil {
			respondWithError(c, http.StatusServiceUnavailable, route, "database unavailable")
			return
		}

		userID, ok := userIDFromContext(c)
		if !ok {
			return
		}

		var req placeOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "Address and items are required")
			return
		}

		items, err := parseOrderItems(req.Items)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		addressID, err := resolveAddressID(c.Request.Context(), db, userID, req.Address)
		if err != nil {
			var notFound addressNotFoundError
			if errors.As(err, &notFound) {
				respondWithError(c, http.StatusNotFound, route, "Address not found")
				return
			}
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		books, err := resolveOrderBooks(c.Request.Context(), db, items)
		if err != nil {
			var notFound bookNotFoundError
			if errors.As(err, &notFound) {
				respondWithError(c, http.StatusNotFound, route, "Book not found")
				return
			}
			respondWithError(c, http.StatusInternalServerError, route, "Internal server error")
			return
		}

		amount, err := computeOrderAmount(items, books)
		if err != nil {
			respondWithError(c, http.StatusNotFound, route, "Book not found")
			return
		}

		now := time.Now()
		order := models.Order{
			UserID:      userID,
			Items:       items,
			Amount:      amount,
			AddressID:   addressID,
			Status:      StatusOrderPlaced,
			PaymentType: PaymentTypeCOD,
			IsPaid:      false,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("orders").InsertOne(ctx, order)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Internal server error")
			return
		}

		orderID, _ := res.InsertedID.(primitive.ObjectID)
		log.Println("[ORDER] [INFO] COD order created for user:", userID.Hex())

		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"message": "Order placed successfully",
			"orderId": orderID.Hex(),
			"amount":  amount,
		})
	}
}

/* =========================
   LIST ORDERS
========================= */

// orderBookSummary is the subset of book fields attached to order line items
// on reads. Prices come from the current catalog, not the order document.
type orderBookSummary struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Author     string  `json:"author"`
	Price      float64 `json:"price"`
	OfferPrice float64 `json:"offerPrice"`
	Image      string  `json:"image,omitempty"`
	Category   string  `json:"category"`
}

type orderItemResponse struct {
	Product  *orderBookSummary `json:"product"`
	Quantity int               `json:"quantity"`
}

type orderResponse struct {
	ID              string              `json:"id"`
	UserID          string              `json:"userId"`
	User            gin.H               `json:"user,omitempty"`
	Items           []orderItemResponse `json:"items"`
	Amount          float64             `json:"amount"`
	AddressID       string              `json:"addressId"`
	Status          string              `json:"status"`
	PaymentType     string              `json:"paymentType"`
	IsPaid          bool                `json:"isPaid"`
	TrackingNumber  string              `json:"trackingNumber,omitempty"`
	PaymentIntentID string              `json:"paymentIntentId,omitempty"`
	CreatedAt       time.Time           `json:"createdAt"`
	UpdatedAt       time.Time           `json:"updatedAt"`
}

func buildOrderResponses(ctx context.Context, db *mongo.Database, orders []models.Order, includeUser bool) ([]orderResponse, error) {
	bookIDs := make([]primitive.ObjectID, 0)
	seenBooks := make(map[primitive.ObjectID]bool)
	userIDs := make([]primitive.ObjectID, 0)
	seenUsers := make(map[primitive.ObjectID]bool)

	for _, order := range orders {
		for _, item := range order.Items {
			if !seenBooks[item.Product] {
				seenBooks[item.Product] = true
				bookIDs = append(bookIDs, item.Product)
			}
		}
		if includeUser && !seenUsers[order.UserID] {
			seenUsers[order.UserID] = true
			userIDs = append(userIDs, order.UserID)
		}
	}

	booksByID := make(map[primitive.ObjectID]models.Book, len(bookIDs))
	if len(bookIDs) > 0 {
		cursor, err := db.Collection("books").Find(ctx, bson.M{"_id": bson.M{"$in": bookIDs}})
		if err != nil {
			return nil, err
		}
		var books []models.Book
		if err := cursor.All(ctx, &books); err != nil {
			return nil, err
		}
		for _, book := range books {
			booksByID[book.ID] = book
		}
	}

	usersByID := make(map[primitive.ObjectID]models.User, len(userIDs))
	if len(userIDs) > 0 {
		cursor, err := db.Collection("users").Find(ctx, bson.M{"_id": bson.M{"$in": userIDs}})
		if err != nil {
			return nil, err
		}
		var users []models.User
		if err := cursor.All(ctx, &users); err != nil {
			return nil, err
		}
		for _, user := range users {
			usersByID[user.ID] = user
		}
	}

	responses := make([]orderResponse, 0, len(orders))
	for _, order := range orders {
		items := make([]orderItemResponse, 0, len(order.Items))
		for _, item := range order.Items {
			entry := orderItemResponse{Quantity: item.Quantity}
			if book, ok := booksByID[item.Product]; ok {
				entry.Product = &orderBookSummary{
					ID:         book.ID.Hex(),
					Title:      book.Title,
					Author:     book.Author,
					Price:      book.Price,
					OfferPrice: book.OfferPrice,
					Image:      book.Image,
					Category:   book.Category,
				}
			}
			items = append(items, entry)
		}

		resp := orderResponse{
			ID:              order.ID.Hex(),
			UserID:          order.UserID.Hex(),
			Items:           items,
			Amount:          order.Amount,
			AddressID:       order.AddressID.Hex(),
			Status:          order.Status,
			PaymentType:     order.PaymentType,
			IsPaid:          order.IsPaid,
			TrackingNumber:  order.TrackingNumber,
			PaymentIntentID: order.PaymentIntentID,
			CreatedAt:       order.CreatedAt,
			UpdatedAt:       order.UpdatedAt,
		}
		if includeUser {
			if user, ok := usersByID[order.UserID]; ok {
				resp.User = gin.H{"name": user.Name, "email": user.Email}
			}
		}
		responses = append(responses, resp)
	}
	return responses, nil
}

func GetUserOrders(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /order/user-orders"
		defer handlePanic(c, route)

		userID, ok := userIDFromContext(c)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
		cursor, err := db.Collection("orders").Find(ctx, bson.M{"userId": userID}, opts)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Internal server error")
			return
		}

		var orders []models.Order
		if err := cursor.All(ctx, &orders); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Internal server error")
			return
		}

		responses, err := buildOrderResponses(ctx, db, orders, false)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Internal server error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "orders": responses})
	}
}

func GetAllOrders(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /order/all-orders"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
		cursor, err := db.Collection("orders").Find(ctx, bson.M{}, opts)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Internal server error")
			return
		}

		var orders []models.Order
		if err := cursor.All(ctx, &orders); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Internal server error")
			return
		}

		responses, err := buildOrderResponses(ctx, db, orders, true)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Internal server error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "orders": responses})
	}
}

/* =========================
   STATUS TRANSITIONS
========================= */

// UpdateOrderStatus overwrites the status with any member of the enum. There
// is no transition guard and no history: last write wins.
func UpdateOrderStatus(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /order/update-status"
		defer handlePanic(c, route)

		orderID, err := primitive.ObjectIDFromHex(c.Param("orderId"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid order id")
			return
		}

		var req updateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "Status is required")
			return
		}

		if !isValidOrderStatus(req.Status) {
			respondWithError(c, http.StatusBadRequest, route, "Invalid order status")
			return
		}

		update := bson.M{"status": req.Status, "updatedAt": time.Now()}
		if trimmed := strings.TrimSpace(req.TrackingNumber); trimmed != "" {
			update["trackingNumber"] = trimmed
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var order models.Order
		err = db.Collection("orders").FindOneAndUpdate(
			ctx,
			bson.M{"_id": orderID},
			bson.M{"$set": update},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&order)
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusNotFound, route, "Order not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Internal server error")
			return
		}

		log.Println("[ORDER] [INFO] status updated:", orderID.Hex(), "->", req.Status)
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Order status updated successfully",
			"order":   order,
		})
	}
}

// CancelOrder lets the owner cancel an order that has not shipped yet.
func CancelOrder(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /order/cancel"
		defer handlePanic(c, route)

		userID, ok := userIDFromContext(c)
		if !ok {
			return
		}

		orderID, err := primitive.ObjectIDFromHex(c.Param("orderId"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid order id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var order models.Order
		err = db.Collection("orders").FindOne(ctx, bson.M{
			"_id":    orderID,
			"userId": userID,
		}).Decode(&order)
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusNotFound, route, "Order not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Internal server error")
			return
		}

		if !canCancelOrder(order.Status) {
			respondWithError(c, http.StatusBadRequest, route, "Order cannot be cancelled after shipping")
			return
		}

		_, err = db.Collection("orders").UpdateByID(ctx, orderID, bson.M{
			"$set": bson.M{"status": StatusCancelled, "updatedAt": time.Now()},
		})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Internal server error")
			return
		}

		log.Println("[ORDER] [INFO] order cancelled:", orderID.Hex())
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Order cancelled successfully"})
	}
}
