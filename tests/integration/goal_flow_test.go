package integration

import (
	"fmt"
	"net/http"
	"testing"
)

func TestGoalFundingFlow(t *testing.T) {
	app := setupApp(t)
	token, _ := app.registerUser(t, "saver@example.com", "password123")

	rec := app.request("POST", "/api/v1/goals",
		`{"title":"New laptop","target_amount":5000,"deadline":"2026-06-01T00:00:00Z"}`, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create goal failed: %d %s", rec.Code, rec.Body.String())
	}
	goal := parseJSON(t, rec)["goal"].(map[string]interface{})
	goalID := goal["id"].(float64)
	if goal["reached"] != false {
		t.Error("fresh goal must not be reached")
	}

	// Fund close to the target.
	rec = app.request("PATCH", fmt.Sprintf("/api/v1/goals/%.0f/funds", goalID),
		`{"amount":4800}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("add funds failed: %d %s", rec.Code, rec.Body.String())
	}
	goal = parseJSON(t, rec)["goal"].(map[string]interface{})
	if goal["current_amount"].(float64) != 4800 || goal["reached"] != false {
		t.Errorf("expected 4800 unreached, got %v", goal)
	}

	// Crossing the target flips the flag.
	rec = app.request("PATCH", fmt.Sprintf("/api/v1/goals/%.0f/funds", goalID),
		`{"amount":300}`, token)
	goal = parseJSON(t, rec)["goal"].(map[string]interface{})
	if goal["current_amount"].(float64) != 5100 {
		t.Errorf("expected 5100, got %v", goal["current_amount"])
	}
	if goal["reached"] != true {
		t.Error("expected goal reached at 5100 of 5000")
	}

	// Negative contributions are rejected and change nothing.
	rec = app.request("PATCH", fmt.Sprintf("/api/v1/goals/%.0f/funds", goalID),
		`{"amount":-100}`, token)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for negative amount, got %d", rec.Code)
	}

	rec = app.request("GET", fmt.Sprintf("/api/v1/goals/%.0f", goalID), "", token)
	goal = parseJSON(t, rec)["goal"].(map[string]interface{})
	if goal["current_amount"].(float64) != 5100 {
		t.Errorf("rejected contribution must not change the goal, got %v", goal["current_amount"])
	}

	// Raising the target above the saved amount unmarks the goal.
	rec = app.request("PUT", fmt.Sprintf("/api/v1/goals/%.0f", goalID),
		`{"target_amount":10000}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("update goal failed: %d %s", rec.Code, rec.Body.String())
	}
	rec = app.request("GET", fmt.Sprintf("/api/v1/goals/%.0f", goalID), "", token)
	goal = parseJSON(t, rec)["goal"].(map[string]interface{})
	if goal["reached"] != false {
		t.Error("expected goal unreached after the target moved up")
	}
}

func TestAuthFlow(t *testing.T) {
	app := setupApp(t)

	// Protected routes reject missing tokens.
	rec := app.request("GET", "/api/v1/goals", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}

	token, _ := app.registerUser(t, "auth@example.com", "password123")

	// The registration token works immediately.
	rec = app.request("GET", "/api/v1/profile", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("profile with fresh token failed: %d", rec.Code)
	}

	// Login returns a usable token too.
	rec = app.request("POST", "/api/v1/auth/login",
		`{"email":"auth@example.com","password":"password123"}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	loginToken := parseJSON(t, rec)["token"].(string)
	rec = app.request("GET", "/api/v1/profile", "", loginToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("profile with login token failed: %d", rec.Code)
	}

	// Wrong password is rejected without detail.
	rec = app.request("POST", "/api/v1/auth/login",
		`{"email":"auth@example.com","password":"wrong-password"}`, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong password, got %d", rec.Code)
	}

	// Users cannot see each other's data.
	otherToken, _ := app.registerUser(t, "other@example.com", "password123")
	app.request("POST", "/api/v1/goals", `{"title":"Mine","target_amount":1000}`, token)
	rec = app.request("GET", "/api/v1/goals", "", otherToken)
	if items := parseJSON(t, rec)["data"].([]interface{}); len(items) != 0 {
		t.Fatalf("expected no cross-user goals, got %d", len(items))
	}
}
