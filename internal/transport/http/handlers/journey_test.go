package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"ems/internal/app/server"
	"ems/internal/platform/config"
)

func testConfig(dbURL string) config.Config {
	return config.Config{
		Addr:            ":0",
		DatabaseURL:     dbURL,
		JWTSecret:       "test-secret",
		TokenTTL:        24 * time.Hour,
		Environment:     "test",
		SeedHRUsername:  "hr_user",
		SeedHRPassword:  "hr123",
		RunMigrations:   true,
		RunSeed:         true,
		MigrationsDir:   "../../../../migrations",
		AllowedOrigin:   "http://localhost:5173",
		ShutdownTimeout: 5 * time.Second,
	}
}

func doJSON(t *testing.T, client *http.Client, method, url, token string, body any) (int, map[string]any) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()

	decoded := map[string]any{}
	if resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
			t.Fatalf("decode %s %s response: %v", method, url, err)
		}
	}
	return resp.StatusCode, decoded
}

func login(t *testing.T, client *http.Client, baseURL, username, password string) string {
	t.Helper()
	status, body := doJSON(t, client, http.MethodPost, baseURL+"/api/login", "", map[string]string{
		"username": username,
		"password": password,
	})
	if status != http.StatusOK {
		t.Fatalf("login %s: status %d body %v", username, status, body)
	}
	token, _ := body["token"].(string)
	if token == "" {
		t.Fatalf("login %s: no token in %v", username, body)
	}
	return token
}

func TestEmployeeLifecycleJourney(t *testing.T) {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	cfg := testConfig(dbURL)
	app, err := server.New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("start app: %v", err)
	}
	defer app.Close()

	ts := httptest.NewServer(app.Router)
	defer ts.Close()
	client := ts.Client()

	hrToken := login(t, client, ts.URL, cfg.SeedHRUsername, cfg.SeedHRPassword)

	stamp := time.Now().UnixNano()
	managerEmail := fmt.Sprintf("mgr-%d@example.com", stamp)
	employeeEmail := fmt.Sprintf("emp-%d@example.com", stamp)

	status, body := doJSON(t, client, http.MethodPost, ts.URL+"/api/managers", hrToken, map[string]any{
		"name":       "Journey Manager",
		"title":      "Engineering Manager",
		"email":      managerEmail,
		"phone":      "555-0100",
		"department": "Engineering",
		"hireDate":   "2023-01-15",
	})
	if status != http.StatusOK {
		t.Fatalf("create manager: status %d body %v", status, body)
	}
	managerID := int64(body["manager"].(map[string]any)["id"].(float64))

	status, body = doJSON(t, client, http.MethodPost, ts.URL+"/api/employees", hrToken, map[string]any{
		"name":       "Journey Employee",
		"email":      employeeEmail,
		"position":   "Engineer",
		"department": "Engineering",
		"startDate":  "2025-02-01",
		"manager":    managerID,
	})
	if status != http.StatusOK {
		t.Fatalf("create employee: status %d body %v", status, body)
	}
	employeeID := int64(body["employee"].(map[string]any)["id"].(float64))

	// Duplicate email must be rejected across the directory.
	status, _ = doJSON(t, client, http.MethodPost, ts.URL+"/api/managers", hrToken, map[string]any{
		"name":       "Duplicate",
		"title":      "Manager",
		"email":      employeeEmail,
		"phone":      "555-0101",
		"department": "Engineering",
		"hireDate":   "2023-01-15",
	})
	if status != http.StatusConflict {
		t.Fatalf("duplicate email: expected 409, got %d", status)
	}

	empToken := login(t, client, ts.URL, employeeEmail, "employee123")

	status, body = doJSON(t, client, http.MethodPost, ts.URL+"/api/time-tracking/clock", empToken, map[string]string{"action": "in"})
	if status != http.StatusOK {
		t.Fatalf("clock in: status %d body %v", status, body)
	}

	status, body = doJSON(t, client, http.MethodPost, ts.URL+"/api/time-tracking/clock", empToken, map[string]string{"action": "in"})
	if status != http.StatusBadRequest || body["message"] != "Already clocked in" {
		t.Fatalf("double clock in: status %d body %v", status, body)
	}

	status, body = doJSON(t, client, http.MethodPost, ts.URL+"/api/time-tracking/clock", empToken, map[string]string{"action": "out"})
	if status != http.StatusOK {
		t.Fatalf("clock out: status %d body %v", status, body)
	}

	status, body = doJSON(t, client, http.MethodGet, ts.URL+"/api/performance-metrics", empToken, nil)
	if status != http.StatusOK {
		t.Fatalf("metrics: status %d body %v", status, body)
	}
	metrics := body["metrics"].(map[string]any)
	if metrics["tasks_completed"].(float64) != 0 {
		t.Fatalf("fresh metrics should be zero, got %v", metrics)
	}

	mgrToken := login(t, client, ts.URL, managerEmail, "manager123")

	status, body = doJSON(t, client, http.MethodPost, ts.URL+"/api/manager/employee-tasks", mgrToken, map[string]any{
		"title":      "Finish onboarding",
		"dueDate":    time.Now().AddDate(0, 0, 7).Format("2006-01-02"),
		"priority":   "High",
		"assignedTo": employeeID,
	})
	if status != http.StatusCreated {
		t.Fatalf("assign task: status %d body %v", status, body)
	}
	taskID := int64(body["task"].(map[string]any)["id"].(float64))

	status, body = doJSON(t, client, http.MethodPut,
		fmt.Sprintf("%s/api/employee-tasks/%d/status", ts.URL, taskID), empToken,
		map[string]string{"status": "Completed"})
	if status != http.StatusOK {
		t.Fatalf("complete task: status %d body %v", status, body)
	}

	status, body = doJSON(t, client, http.MethodGet, ts.URL+"/api/performance-metrics", empToken, nil)
	if status != http.StatusOK {
		t.Fatalf("metrics after completion: status %d body %v", status, body)
	}
	metrics = body["metrics"].(map[string]any)
	if metrics["tasks_completed"].(float64) != 1 {
		t.Fatalf("expected tasks_completed 1, got %v", metrics["tasks_completed"])
	}

	status, body = doJSON(t, client, http.MethodGet, ts.URL+"/api/stats", "", nil)
	if status != http.StatusOK {
		t.Fatalf("stats: status %d body %v", status, body)
	}
	if body["totalEmployees"].(float64) < 1 {
		t.Fatalf("stats should count the new employee: %v", body)
	}
}
