package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/vantungdz/payment/internal/auth"
	"github.com/vantungdz/payment/internal/models"
	"github.com/vantungdz/payment/internal/storage/sqlite"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	jwt := auth.NewJWTManager("test-secret", time.Hour)
	srv := New(store, auth.NewPasswordAuthenticator(store), jwt)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

type testEnvelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// call issues a JSON request and decodes the envelope. wantStatus is
// asserted before anything else so failures name the endpoint.
func call(t *testing.T, method, url, token string, body any, wantStatus int) testEnvelope {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("Failed to encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("Failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		t.Fatalf("%s %s: status = %d, want %d", method, url, resp.StatusCode, wantStatus)
	}

	var env testEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("Failed to decode envelope: %v", err)
	}
	return env
}

// registerUser registers an account and returns its token.
func registerUser(t *testing.T, baseURL, username, phone string, role models.Role) string {
	t.Helper()
	env := call(t, http.MethodPost, baseURL+"/auth/register", "", map[string]any{
		"username": username,
		"password": "password123",
		"phone":    phone,
		"fullName": "Test " + username,
		"role":     role,
	}, http.StatusCreated)

	var resp authResponse
	if err := json.Unmarshal(env.Data, &resp); err != nil {
		t.Fatalf("Failed to decode auth response: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("Expected a token")
	}
	return resp.Token
}

func TestAuthFlow(t *testing.T) {
	ts := newTestServer(t)

	token := registerUser(t, ts.URL, "admin", "0900000001", models.RoleAdmin)

	t.Run("DuplicateUsername", func(t *testing.T) {
		call(t, http.MethodPost, ts.URL+"/auth/register", "", map[string]any{
			"username": "admin",
			"password": "password123",
			"phone":    "0900000099",
		}, http.StatusConflict)
	})

	t.Run("DuplicatePhone", func(t *testing.T) {
		call(t, http.MethodPost, ts.URL+"/auth/register", "", map[string]any{
			"username": "other",
			"password": "password123",
			"phone":    "0900000001",
		}, http.StatusConflict)
	})

	t.Run("WeakPassword", func(t *testing.T) {
		call(t, http.MethodPost, ts.URL+"/auth/register", "", map[string]any{
			"username": "weak",
			"password": "short",
			"phone":    "0900000098",
		}, http.StatusBadRequest)
	})

	t.Run("Login", func(t *testing.T) {
		env := call(t, http.MethodPost, ts.URL+"/auth/login", "", map[string]any{
			"username": "admin",
			"password": "password123",
		}, http.StatusOK)
		var resp authResponse
		if err := json.Unmarshal(env.Data, &resp); err != nil {
			t.Fatalf("Failed to decode auth response: %v", err)
		}
		if resp.User.Username != "admin" {
			t.Errorf("Username = %q, want admin", resp.User.Username)
		}
		if resp.User.PasswordHash != "" {
			t.Error("Password hash must never leave the server")
		}
	})

	t.Run("LoginWrongPassword", func(t *testing.T) {
		env := call(t, http.MethodPost, ts.URL+"/auth/login", "", map[string]any{
			"username": "admin",
			"password": "wrongpassword",
		}, http.StatusUnauthorized)
		if env.Success {
			t.Error("Expected success=false")
		}
	})

	t.Run("Me", func(t *testing.T) {
		env := call(t, http.MethodGet, ts.URL+"/auth/me", token, nil, http.StatusOK)
		var data struct {
			User models.User `json:"user"`
		}
		if err := json.Unmarshal(env.Data, &data); err != nil {
			t.Fatalf("Failed to decode: %v", err)
		}
		if data.User.Role != models.RoleAdmin {
			t.Errorf("Role = %q, want admin", data.User.Role)
		}
	})

	t.Run("MeWithoutToken", func(t *testing.T) {
		call(t, http.MethodGet, ts.URL+"/auth/me", "", nil, http.StatusUnauthorized)
	})

	t.Run("Logout", func(t *testing.T) {
		call(t, http.MethodPost, ts.URL+"/auth/logout", token, nil, http.StatusOK)
	})
}

func TestPaymentFlow(t *testing.T) {
	ts := newTestServer(t)

	adminToken := registerUser(t, ts.URL, "admin", "0900000001", models.RoleAdmin)
	userToken := registerUser(t, ts.URL, "minh", "0912345678", models.RoleUser)

	draft := map[string]any{
		"title":       "Tiền nhà tháng 8",
		"description": "Ăn tối nhóm",
		"totalAmount": 6000001,
		"participants": []map[string]any{
			{"name": "Minh", "phone": "0912345678", "amount": 2000000},
			{"name": "Lan", "phone": "0987654321", "amount": 2000000},
			{"name": "Huy", "phone": "0901112223", "amount": 2000000},
		},
	}

	var created models.PaymentRequest
	env := call(t, http.MethodPost, ts.URL+"/payments", adminToken, draft, http.StatusCreated)
	if err := json.Unmarshal(env.Data, &created); err != nil {
		t.Fatalf("Failed to decode created request: %v", err)
	}

	t.Run("CreateRoundTrip", func(t *testing.T) {
		if created.ID == "" {
			t.Error("Expected a generated ID")
		}
		if created.Status != models.StatusDraft {
			t.Errorf("Status = %q, want draft", created.Status)
		}
		if created.CreatedBy.Username != "admin" || created.CreatedBy.Phone != "0900000001" {
			t.Errorf("CreatedBy = %+v", created.CreatedBy)
		}
		if len(created.Participants) != 3 {
			t.Fatalf("Participants = %d, want 3", len(created.Participants))
		}
		// Participant order, names, phones and amounts survive as sent.
		wantNames := []string{"Minh", "Lan", "Huy"}
		for i, p := range created.Participants {
			if p.Name != wantNames[i] {
				t.Errorf("Participants[%d].Name = %q, want %q", i, p.Name, wantNames[i])
			}
			if p.Amount != 2000000 {
				t.Errorf("Participants[%d].Amount = %d, want 2000000", i, p.Amount)
			}
			if p.Status != models.ParticipantPending {
				t.Errorf("Participants[%d].Status = %q, want pending", i, p.Status)
			}
			if p.ID == "" {
				t.Errorf("Participants[%d] has no ID", i)
			}
		}
	})

	t.Run("CreateRequiresAdmin", func(t *testing.T) {
		call(t, http.MethodPost, ts.URL+"/payments", userToken, draft, http.StatusForbidden)
	})

	t.Run("CreateEmptyParticipants", func(t *testing.T) {
		env := call(t, http.MethodPost, ts.URL+"/payments", adminToken, map[string]any{
			"title":        "Empty",
			"totalAmount":  1000,
			"participants": []map[string]any{},
		}, http.StatusBadRequest)
		if env.Message != "participants must not be empty" {
			t.Errorf("Message = %q", env.Message)
		}
	})

	t.Run("CreateNonPositiveAmount", func(t *testing.T) {
		call(t, http.MethodPost, ts.URL+"/payments", adminToken, map[string]any{
			"title":       "Bad",
			"totalAmount": 1000,
			"participants": []map[string]any{
				{"name": "Minh", "phone": "0912345678", "amount": 0},
			},
		}, http.StatusBadRequest)
	})

	t.Run("PayBeforeSend", func(t *testing.T) {
		// A draft can still record payments; completion only derives
		// once the request has been sent.
		payURL := fmt.Sprintf("%s/payments/%s/pay/%s", ts.URL, created.ID, created.Participants[0].ID)
		env := call(t, http.MethodPost, payURL, adminToken, nil, http.StatusOK)
		var updated models.PaymentRequest
		if err := json.Unmarshal(env.Data, &updated); err != nil {
			t.Fatalf("Failed to decode: %v", err)
		}
		if updated.Participants[0].Status != models.ParticipantPaid {
			t.Error("Participant should be paid")
		}
		if updated.Status != models.StatusDraft {
			t.Errorf("Status = %q, want draft", updated.Status)
		}
	})

	t.Run("Send", func(t *testing.T) {
		env := call(t, http.MethodPost, fmt.Sprintf("%s/payments/%s/send", ts.URL, created.ID), adminToken, nil, http.StatusOK)
		var updated models.PaymentRequest
		if err := json.Unmarshal(env.Data, &updated); err != nil {
			t.Fatalf("Failed to decode: %v", err)
		}
		if updated.Status != models.StatusSent {
			t.Errorf("Status = %q, want sent", updated.Status)
		}
	})

	t.Run("SendTwice", func(t *testing.T) {
		call(t, http.MethodPost, fmt.Sprintf("%s/payments/%s/send", ts.URL, created.ID), adminToken, nil, http.StatusConflict)
	})

	t.Run("SendRequiresAdmin", func(t *testing.T) {
		call(t, http.MethodPost, fmt.Sprintf("%s/payments/%s/send", ts.URL, created.ID), userToken, nil, http.StatusForbidden)
	})

	t.Run("SendUnknownRequest", func(t *testing.T) {
		call(t, http.MethodPost, ts.URL+"/payments/nope/send", adminToken, nil, http.StatusNotFound)
	})

	t.Run("SelfPayByPhone", func(t *testing.T) {
		// minh's phone matches the first participant, but that one is
		// already paid; trying Lan's share must be forbidden.
		call(t, http.MethodPost, fmt.Sprintf("%s/payments/%s/pay/%s", ts.URL, created.ID, created.Participants[1].ID), userToken, nil, http.StatusForbidden)
	})

	t.Run("PayAlreadyPaid", func(t *testing.T) {
		call(t, http.MethodPost, fmt.Sprintf("%s/payments/%s/pay/%s", ts.URL, created.ID, created.Participants[0].ID), adminToken, nil, http.StatusConflict)
	})

	t.Run("PayUnknownParticipant", func(t *testing.T) {
		call(t, http.MethodPost, fmt.Sprintf("%s/payments/%s/pay/nope", ts.URL, created.ID), adminToken, nil, http.StatusNotFound)
	})

	t.Run("CompletionDerived", func(t *testing.T) {
		call(t, http.MethodPost, fmt.Sprintf("%s/payments/%s/pay/%s", ts.URL, created.ID, created.Participants[1].ID), adminToken, nil, http.StatusOK)
		env := call(t, http.MethodPost, fmt.Sprintf("%s/payments/%s/pay/%s", ts.URL, created.ID, created.Participants[2].ID), adminToken, nil, http.StatusOK)
		var updated models.PaymentRequest
		if err := json.Unmarshal(env.Data, &updated); err != nil {
			t.Fatalf("Failed to decode: %v", err)
		}
		if updated.Status != models.StatusCompleted {
			t.Errorf("Status = %q, want completed", updated.Status)
		}
	})

	t.Run("List", func(t *testing.T) {
		env := call(t, http.MethodGet, ts.URL+"/payments", userToken, nil, http.StatusOK)
		var data struct {
			PaymentRequests []models.PaymentRequest `json:"paymentRequests"`
		}
		if err := json.Unmarshal(env.Data, &data); err != nil {
			t.Fatalf("Failed to decode: %v", err)
		}
		if len(data.PaymentRequests) != 1 {
			t.Fatalf("Requests = %d, want 1", len(data.PaymentRequests))
		}
	})

	t.Run("Stats", func(t *testing.T) {
		env := call(t, http.MethodGet, ts.URL+"/payments/stats/dashboard", adminToken, nil, http.StatusOK)
		var stats struct {
			TotalRequests     int   `json:"totalRequests"`
			CompletedRequests int   `json:"completedRequests"`
			TotalAmount       int64 `json:"totalAmount"`
			PaidAmount        int64 `json:"paidAmount"`
		}
		if err := json.Unmarshal(env.Data, &stats); err != nil {
			t.Fatalf("Failed to decode: %v", err)
		}
		if stats.TotalRequests != 1 || stats.CompletedRequests != 1 {
			t.Errorf("Requests = %d/%d, want 1/1", stats.CompletedRequests, stats.TotalRequests)
		}
		if stats.PaidAmount != 6000000 {
			t.Errorf("PaidAmount = %d, want 6000000", stats.PaidAmount)
		}
	})

	t.Run("ListUsers", func(t *testing.T) {
		env := call(t, http.MethodGet, ts.URL+"/users", adminToken, nil, http.StatusOK)
		var data struct {
			Users []models.User `json:"users"`
		}
		if err := json.Unmarshal(env.Data, &data); err != nil {
			t.Fatalf("Failed to decode: %v", err)
		}
		if len(data.Users) != 2 {
			t.Errorf("Users = %d, want 2", len(data.Users))
		}
	})
}

func TestPayAllThenSend(t *testing.T) {
	// All shares settled while still a draft: sending must land the
	// request directly on completed.
	ts := newTestServer(t)
	adminToken := registerUser(t, ts.URL, "admin", "0900000001", models.RoleAdmin)

	env := call(t, http.MethodPost, ts.URL+"/payments", adminToken, map[string]any{
		"title":       "Cà phê",
		"totalAmount": 100000,
		"participants": []map[string]any{
			{"name": "Minh", "phone": "0912345678", "amount": 50000},
			{"name": "Lan", "phone": "0987654321", "amount": 50000},
		},
	}, http.StatusCreated)
	var req models.PaymentRequest
	if err := json.Unmarshal(env.Data, &req); err != nil {
		t.Fatalf("Failed to decode: %v", err)
	}

	for _, p := range req.Participants {
		call(t, http.MethodPost, fmt.Sprintf("%s/payments/%s/pay/%s", ts.URL, req.ID, p.ID), adminToken, nil, http.StatusOK)
	}

	env = call(t, http.MethodPost, fmt.Sprintf("%s/payments/%s/send", ts.URL, req.ID), adminToken, nil, http.StatusOK)
	var sent models.PaymentRequest
	if err := json.Unmarshal(env.Data, &sent); err != nil {
		t.Fatalf("Failed to decode: %v", err)
	}
	if sent.Status != models.StatusCompleted {
		t.Errorf("Status = %q, want completed", sent.Status)
	}
}
