package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestAdminLoginRejectsWrongCredentials(t *testing.T) {
	handler := AdminLogin("secret", "admin@bookstore.local", "correct", 0)

	recorder := performJSON(t, handler, `{"email":"admin@bookstore.local","password":"wrong"}`)
	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", recorder.Code)
	}
}

func TestAdminLoginRejectsUnconfiguredAccount(t *testing.T) {
	handler := AdminLogin("secret", "", "", 0)

	recorder := performJSON(t, handler, `{"email":"","password":""}`)
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing fields, got %d", recorder.Code)
	}

	// An empty configured account must never authenticate, even with an
	// "empty" credential match on the password side.
	recorder = performJSON(t, handler, `{"email":"x","password":"x"}`)
	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", recorder.Code)
	}
}

func TestAdminUpdateUserRejectsMalformedID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Params = gin.Params{{Key: "id", Value: "not-an-object-id"}}
	c.Request = httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"name":"x"}`))
	c.Request.Header.Set("Content-Type", "application/json")

	AdminUpdateUser(nil)(c)

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", recorder.Code)
	}
}
