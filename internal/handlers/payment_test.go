package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"bookstore-backend/internal/payments"
)

// fakeCardProcessor serves a canned intent, standing in for Stripe.
type fakeCardProcessor struct {
	intent payments.Intent
	err    error
}

func (f fakeCardProcessor) CreateIntent(ctx context.Context, amountMinor int64, currency string, metadata map[string]string) (payments.Intent, error) {
	return f.intent, f.err
}

func (f fakeCardProcessor) RetrieveIntent(ctx context.Context, id string) (payments.Intent, error) {
	return f.intent, f.err
}

// The misconfiguration and intent-verification checks run before any database
// work, so these handlers are exercisable with a nil database: a handler that
// touched Mongo on these paths would panic and come back as a 500.

func performJSON(t *testing.T, handler gin.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	handler(c)
	return recorder
}

// performAuthedJSON runs the handler as an authenticated user, the way the
// UserAuth middleware would.
func performAuthedJSON(t *testing.T, handler gin.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set("userId", primitive.NewObjectID())

	handler(c)
	return recorder
}

func TestCreatePaymentIntentWithoutProcessor(t *testing.T) {
	recorder := performJSON(t, CreatePaymentIntent(nil, nil), `{"items":[],"address":"x"}`)

	if recorder.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", recorder.Code)
	}
	if !strings.Contains(recorder.Body.String(), "Stripe not configured") {
		t.Fatalf("expected fixed misconfiguration message, got %s", recorder.Body.String())
	}
}

func TestConfirmPaymentWithoutProcessor(t *testing.T) {
	recorder := performJSON(t, ConfirmPayment(nil, nil), `{"paymentIntentId":"pi_1","items":[],"address":"x"}`)

	if recorder.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", recorder.Code)
	}
	if !strings.Contains(recorder.Body.String(), "Stripe not configured") {
		t.Fatalf("expected fixed misconfiguration message, got %s", recorder.Body.String())
	}
}

func TestConfirmPaymentRefusesUnsucceededIntent(t *testing.T) {
	for _, status := range []string{"processing", "requires_action", "requires_payment_method"} {
		processor := fakeCardProcessor{intent: payments.Intent{ID: "pi_1", Status: status}}

		recorder := performAuthedJSON(t, ConfirmPayment(nil, processor),
			`{"paymentIntentId":"pi_1","items":[{"product":"x","quantity":1}],"address":"x"}`)

		if recorder.Code != http.StatusBadRequest {
			t.Fatalf("status %q: expected 400, got %d", status, recorder.Code)
		}
		if !strings.Contains(recorder.Body.String(), "Payment not completed") {
			t.Fatalf("status %q: expected refusal message, got %s", status, recorder.Body.String())
		}
	}
}

func TestConfirmPaymentKeepsTransientSessionPending(t *testing.T) {
	// A nil database makes any session write panic into a 500; a clean 400
	// for an in-flight intent proves the pending session was left untouched
	// for the reconciliation sweep.
	processor := fakeCardProcessor{intent: payments.Intent{ID: "pi_1", Status: "processing"}}

	recorder := performAuthedJSON(t, ConfirmPayment(nil, processor),
		`{"paymentIntentId":"pi_1","items":[{"product":"x","quantity":1}],"address":"x"}`)

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 with no session write, got %d", recorder.Code)
	}
}

func TestPayPalOrderWithoutVerifier(t *testing.T) {
	recorder := performJSON(t, CreatePayPalOrder(nil, nil), `{"paypalOrderId":"1","items":[],"address":"x"}`)

	if recorder.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", recorder.Code)
	}
	if !strings.Contains(recorder.Body.String(), "PayPal not configured") {
		t.Fatalf("expected fixed misconfiguration message, got %s", recorder.Body.String())
	}
}
