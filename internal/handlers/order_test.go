package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func performStatusUpdate(t *testing.T, orderID, body string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Params = gin.Params{{Key: "orderId", Value: orderID}}
	c.Request = httptest.NewRequest(http.MethodPut, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	// Validation runs before any database access, so a nil handle suffices.
	UpdateOrderStatus(nil)(c)
	return recorder
}

func TestUpdateOrderStatusRejectsMalformedID(t *testing.T) {
	recorder := performStatusUpdate(t, "nope", `{"status":"Shipped"}`)
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", recorder.Code)
	}
}

func TestUpdateOrderStatusRequiresStatus(t *testing.T) {
	recorder := performStatusUpdate(t, primitive.NewObjectID().Hex(), `{}`)
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", recorder.Code)
	}
	if !strings.Contains(recorder.Body.String(), "Status is required") {
		t.Fatalf("expected missing-status message, got %s", recorder.Body.String())
	}
}

func TestUpdateOrderStatusRejectsUnknownStatus(t *testing.T) {
	recorder := performStatusUpdate(t, primitive.NewObjectID().Hex(), `{"status":"Returned"}`)
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", recorder.Code)
	}
	if !strings.Contains(recorder.Body.String(), "Invalid order status") {
		t.Fatalf("expected invalid-status message, got %s", recorder.Body.String())
	}
}
