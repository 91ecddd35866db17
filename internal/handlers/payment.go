package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"bookstore-backend/internal/models"
	"bookstore-backend/internal/payments"
)

const paymentCurrency = "usd"

type confirmPaymentRequest struct {
	PaymentIntentID string             `json:"paymentIntentId" binding:"required"`
	Items           []orderItemRequest `json:"items" binding:"required"`
	Address         string             `json:"address" binding:"required"`
}

type paypalOrderRequest struct {
	PayPalOrderID string             `json:"paypalOrderId" binding:"required"`
	Items         []orderItemRequest `json:"items" binding:"required"`
	Address       string             `json:"address" binding:"required"`
}

// priceCheckout runs the shared validation half of every payment path: parse
// the items, verify address ownership, resolve the catalog and price the cart.
func priceCheckout(c *gin.Context, db *mongo.Database, route string, userID primitive.ObjectID, reqItems []orderItemRequest, address string) ([]models.OrderItem, primitive.ObjectID, float64, bool) {
	items, err := parseOrderItems(reqItems)
	if err != nil {
		respondWithError(c, http.StatusBadRequest, route, err.Error())
		return nil, primitive.NilObjectID, 0, false
	}

	addressID, err := resolveAddressID(c.Request.Context(), db, userID, address)
	if err != nil {
		var notFound addressNotFoundError
		if errors.As(err, &notFound) {
			respondWithError(c, http.StatusNotFound, route, "Address not found")
			return nil, primitive.NilObjectID, 0, false
		}
		respondWithError(c, http.StatusBadRequest, route, err.Error())
		return nil, primitive.NilObjectID, 0, false
	}

	books, err := resolveOrderBooks(c.Request.Context(), db, items)
	if err != nil {
		var notFound bookNotFoundError
		if errors.As(err, &notFound) {
			respondWithError(c, http.StatusNotFound, route, "Book not found")
			return nil, primitive.NilObjectID, 0, false
		}
		respondWithError(c, http.StatusInternalServerError, route, "Internal server error")
		return nil, primitive.NilObjectID, 0, false
	}

	amount, err := computeOrderAmount(items, books)
	if err != nil {
		respondWithError(c, http.StatusNotFound, route, "Book not found")
		return nil, primitive.NilObjectID, 0, false
	}

	return items, addressID, amount, true
}

/* =========================
   STRIPE
========================= */

func CreatePaymentIntent(db *mongo.Database, processor payments.CardProcessor) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /payment/create-payment-intent"
		defer handlePanic(c, route)

		if processor == nil {
			respondWithError(c, http.StatusInternalServerError, route, "Stripe not configured")
			return
		}

		userID, ok := userIDFromContext(c)
		if !ok {
			return
		}

		var req placeOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "Items are required")
			return
		}

		items, addressID, amount, ok := priceCheckout(c, db, route, userID, req.Items, req.Address)
		if !ok {
			return
		}

		intent, err := processor.CreateIntent(c.Request.Context(), payments.ToMinorUnits(amount), paymentCurrency, map[string]string{
			"userId": userID.Hex(),
		})
		if err != nil {
			log.Println("[PAYMENT] [ERROR] intent creation failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "Payment processing failed")
			return
		}

		// The pending session is persisted before the secret is handed out so
		// a crash mid-flow leaves a record the reconciliation sweep can settle.
		now := time.Now()
		session := models.PaymentSession{
			ID:              uuid.NewString(),
			UserID:          userID,
			PaymentIntentID: intent.ID,
			Items:           items,
			AddressID:       addressID,
			Amount:          amount,
			Status:          models.PaymentSessionPending,
			CreatedAt:       now,
			UpdatedAt:       now,
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if _, err := db.Collection("payment_sessions").InsertOne(ctx, session); err != nil {
			log.Println("[PAYMENT] [ERROR] session insert failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "Payment processing failed")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":      true,
			"clientSecret": intent.ClientSecret,
			"amount":       amount,
		})
	}
}

func ConfirmPayment(db *mongo.Database, processor payments.CardProcessor) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /payment/confirm-payment"
		defer handlePanic(c, route)

		if processor == nil {
			respondWithError(c, http.StatusInternalServerError, route, "Stripe not configured")
			return
		}

		userID, ok := userIDFromContext(c)
		if !ok {
			return
		}

		var req confirmPaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		intentID := strings.TrimSpace(req.PaymentIntentID)
		intent, err := processor.RetrieveIntent(c.Request.Context(), intentID)
		if err != nil {
			log.Println("[PAYMENT] [ERROR] intent retrieval failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "Payment processing failed")
			return
		}

		if !intent.Succeeded {
			// Only a terminal intent ends the session. A transient status
			// stays pending so the reconciliation sweep can still settle it
			// if the payment later succeeds and the buyer never retries.
			if intent.Terminal() {
				markPaymentSession(c.Request.Context(), db, intentID, models.PaymentSessionFailed)
			}
			respondWithError(c, http.StatusBadRequest, route, "Payment not completed")
			return
		}

		items, addressID, amount, ok := priceCheckout(c, db, route, userID, req.Items, req.Address)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		order, err := createPaidOrderOnce(ctx, db, models.Order{
			UserID:          userID,
			Items:           items,
			Amount:          amount,
			AddressID:       addressID,
			Status:          StatusOrderPlaced,
			PaymentType:     PaymentTypeStripe,
			IsPaid:          true,
			PaymentIntentID: intentID,
		})
		if err != nil {
			log.Println("[PAYMENT] [ERROR] order creation failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "Order creation failed")
			return
		}

		markPaymentSession(ctx, db, intentID, models.PaymentSessionConfirmed)

		log.Println("[PAYMENT] [INFO] card order created:", order.ID.Hex())
		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"message": "Order placed successfully",
			"order":   order,
		})
	}
}

// createPaidOrderOnce creates the order unless one already exists for the
// payment intent, so confirm and reconciliation cannot double-charge a cart.
func createPaidOrderOnce(ctx context.Context, db *mongo.Database, order models.Order) (models.Order, error) {
	if order.PaymentIntentID != "" {
		var existing models.Order
		err := db.Collection("orders").FindOne(ctx, bson.M{"paymentIntentId": order.PaymentIntentID}).Decode(&existing)
		if err == nil {
			return existing, nil
		}
		if err != mongo.ErrNoDocuments {
			return models.Order{}, err
		}
	}

	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now

	res, err := db.Collection("orders").InsertOne(ctx, order)
	if err != nil {
		return models.Order{}, err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		order.ID = id
	}
	return order, nil
}

func markPaymentSession(ctx context.Context, db *mongo.Database, intentID, status string) {
	updateCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := db.Collection("payment_sessions").UpdateOne(
		updateCtx,
		bson.M{"paymentIntentId": intentID},
		bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now()}},
	)
	if err != nil {
		log.Println("[PAYMENT] [ERROR] session update failed:", err)
	}
}

/* =========================
   PAYPAL
========================= */

func CreatePayPalOrder(db *mongo.Database, verifier payments.WalletVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /payment/paypal-order"
		defer handlePanic(c, route)

		if verifier == nil {
			respondWithError(c, http.StatusInternalServerError, route, "PayPal not configured")
			return
		}

		userID, ok := userIDFromContext(c)
		if !ok {
			return
		}

		var req paypalOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		completed, err := verifier.VerifyOrder(c.Request.Context(), strings.TrimSpace(req.PayPalOrderID))
		if err != nil {
			log.Println("[PAYMENT] [ERROR] paypal verification failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "Payment processing failed")
			return
		}
		if !completed {
			respondWithError(c, http.StatusBadRequest, route, "Payment not completed")
			return
		}

		items, addressID, amount, ok := priceCheckout(c, db, route, userID, req.Items, req.Address)
		if !ok {
			return
		}

		now := time.Now()
		order := models.Order{
			UserID:      userID,
			Items:       items,
			Amount:      amount,
			AddressID:   addressID,
			Status:      StatusOrderPlaced,
			PaymentType: PaymentTypePayPal,
			IsPaid:      true,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("orders").InsertOne(ctx, order)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "PayPal order creation failed")
			return
		}
		if id, idOK := res.InsertedID.(primitive.ObjectID); idOK {
			order.ID = id
		}

		log.Println("[PAYMENT] [INFO] paypal order created:", order.ID.Hex())
		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"message": "PayPal order created successfully",
			"order":   order,
		})
	}
}

/* =========================
   RECONCILIATION
========================= */

// ReconcilePaymentSessions settles pending sessions older than the grace
// period: a succeeded intent gets its missing order created, a terminal
// intent marks the session failed, anything still in flight is left alone.
func ReconcilePaymentSessions(ctx context.Context, db *mongo.Database, processor payments.CardProcessor) {
	if processor == nil {
		return
	}

	sweepCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	cutoff := time.Now().Add(-15 * time.Minute)
	cursor, err := db.Collection("payment_sessions").Find(sweepCtx, bson.M{
		"status":    models.PaymentSessionPending,
		"createdAt": bson.M{"$lt": cutoff},
	})
	if err != nil {
		log.Println("[PAYMENT] [ERROR] reconcile query failed:", err)
		return
	}

	var sessions []models.PaymentSession
	if err := cursor.All(sweepCtx, &sessions); err != nil {
		log.Println("[PAYMENT] [ERROR] reconcile decode failed:", err)
		return
	}

	for _, session := range sessions {
		intent, err := processor.RetrieveIntent(sweepCtx, session.PaymentIntentID)
		if err != nil {
			log.Println("[PAYMENT] [ERROR] reconcile intent lookup failed:", err)
			continue
		}

		switch {
		case intent.Succeeded:
			_, err := createPaidOrderOnce(sweepCtx, db, models.Order{
				UserID:          session.UserID,
				Items:           session.Items,
				Amount:          session.Amount,
				AddressID:       session.AddressID,
				Status:          StatusOrderPlaced,
				PaymentType:     PaymentTypeStripe,
				IsPaid:          true,
				PaymentIntentID: session.PaymentIntentID,
			})
			if err != nil {
				log.Println("[PAYMENT] [ERROR] reconcile order creation failed:", err)
				continue
			}
			markPaymentSession(sweepCtx, db, session.PaymentIntentID, models.PaymentSessionConfirmed)
			log.Println("[PAYMENT] [INFO] reconciled session:", session.ID)
		case intent.Terminal():
			markPaymentSession(sweepCtx, db, session.PaymentIntentID, models.PaymentSessionFailed)
		}
	}
}
