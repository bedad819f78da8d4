// Package api is the thin REST client for the payment backend. It owns
// the wire envelope and the error taxonomy; everything above it works
// with domain models only.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/vantungdz/payment/internal/models"
)

// DefaultTimeout aborts any call still in flight after this long and
// surfaces it as a NetworkError. No operation is cancellable once
// dispatched other than through this transport timeout.
const DefaultTimeout = 10 * time.Second

// Config carries the explicit client configuration. There is no implicit
// global base URL; every Client is constructed from one of these.
type Config struct {
	// BaseURL is the backend root, e.g. "http://192.168.1.20:3000/api".
	BaseURL string

	// Timeout bounds each request. Zero means DefaultTimeout.
	Timeout time.Duration
}

// Session holds the bearer token for authenticated calls. A missing token
// is tolerated: the request goes out unauthenticated and the backend
// decides. Pass the same Session to every component that talks to the
// backend on behalf of one signed-in user.
type Session struct {
	mu    sync.Mutex
	token string
}

// SetToken stores the bearer token obtained from login or register.
func (s *Session) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

// Token returns the current bearer token, empty when signed out.
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Clear discards the token. JWTs are stateless, so this is the client
// half of logout.
func (s *Session) Clear() {
	s.SetToken("")
}

// Client talks to the payment backend over REST/JSON.
type Client struct {
	baseURL string
	http    *http.Client
	session *Session
}

// New creates a client from an explicit config and session.
func New(cfg Config, session *Session) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	if session == nil {
		session = &Session{}
	}
	return &Client{
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: timeout},
		session: session,
	}
}

// Session returns the session this client authenticates with.
func (c *Client) Session() *Session {
	return c.session
}

// envelope is the normalized wire shape of every backend response.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// do performs one request and decodes the envelope's data into out.
// Transport failures become NetworkError; non-2xx statuses and
// success=false envelopes become BackendError with the body message when
// one exists.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	slog.Debug("API request", "method", method, "path", path)

	resp, err := c.http.Do(req)
	if err != nil {
		slog.Warn("API transport failure", "method", method, "path", path, "error", err)
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Err: err}
	}

	var env envelope
	// A malformed body on an error status still yields a usable error.
	if err := json.Unmarshal(raw, &env); err != nil && resp.StatusCode < 300 {
		return &BackendError{Status: resp.StatusCode, Message: "malformed response body"}
	}

	if resp.StatusCode >= 300 || !env.Success {
		msg := env.Message
		if msg == "" {
			msg = fmt.Sprintf("HTTP %d", resp.StatusCode)
		}
		slog.Warn("API error response", "method", method, "path", path, "status", resp.StatusCode, "message", msg)
		return &BackendError{Status: resp.StatusCode, Message: msg}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("failed to decode response data: %w", err)
		}
	}
	return nil
}

// AuthResult is the payload of a successful login or registration.
type AuthResult struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// RegisterParams is the payload for creating an account.
type RegisterParams struct {
	Username string      `json:"username"`
	Password string      `json:"password"`
	Email    string      `json:"email"`
	Phone    string      `json:"phone"`
	FullName string      `json:"fullName"`
	Role     models.Role `json:"role"`
}

// Login authenticates and returns the token and user. The caller decides
// whether to store the token in the session.
func (c *Client) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	if username == "" || password == "" {
		return nil, &ValidationError{Reason: "username and password are required"}
	}
	var result AuthResult
	body := map[string]string{"username": username, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Register creates an account and returns the token and user.
func (c *Client) Register(ctx context.Context, params RegisterParams) (*AuthResult, error) {
	if params.Username == "" || params.Password == "" || params.Phone == "" {
		return nil, &ValidationError{Reason: "username, password and phone are required"}
	}
	var result AuthResult
	if err := c.do(ctx, http.MethodPost, "/auth/register", params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Me returns the authenticated user's profile.
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var data struct {
		User models.User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &data); err != nil {
		return nil, err
	}
	return &data.User, nil
}

// Logout tells the backend the session is over and clears the token.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.do(ctx, http.MethodPost, "/auth/logout", nil, nil); err != nil {
		return err
	}
	c.session.Clear()
	return nil
}

// ListUsers returns the user directory.
func (c *Client) ListUsers(ctx context.Context) ([]models.User, error) {
	var data struct {
		Users []models.User `json:"users"`
	}
	if err := c.do(ctx, http.MethodGet, "/users", nil, &data); err != nil {
		return nil, err
	}
	return data.Users, nil
}

// ListPaymentRequests returns every payment request visible to the caller.
func (c *Client) ListPaymentRequests(ctx context.Context) ([]models.PaymentRequest, error) {
	var data struct {
		PaymentRequests []models.PaymentRequest `json:"paymentRequests"`
	}
	if err := c.do(ctx, http.MethodGet, "/payments", nil, &data); err != nil {
		return nil, err
	}
	return data.PaymentRequests, nil
}

// CreatePaymentRequest creates a request in one atomic call carrying the
// full participant list.
func (c *Client) CreatePaymentRequest(ctx context.Context, draft models.PaymentRequestDraft) (*models.PaymentRequest, error) {
	var req models.PaymentRequest
	if err := c.do(ctx, http.MethodPost, "/payments", draft, &req); err != nil {
		return nil, err
	}
	return &req, nil
}

// SendPaymentRequest transitions a draft request to sent.
func (c *Client) SendPaymentRequest(ctx context.Context, requestID string) (*models.PaymentRequest, error) {
	var req models.PaymentRequest
	if err := c.do(ctx, http.MethodPost, "/payments/"+requestID+"/send", nil, &req); err != nil {
		return nil, err
	}
	return &req, nil
}

// PayParticipant marks one participant's share as paid.
func (c *Client) PayParticipant(ctx context.Context, requestID, participantID string) (*models.PaymentRequest, error) {
	var req models.PaymentRequest
	if err := c.do(ctx, http.MethodPost, "/payments/"+requestID+"/pay/"+participantID, nil, &req); err != nil {
		return nil, err
	}
	return &req, nil
}

// DashboardStats is the aggregate view for the admin dashboard.
type DashboardStats struct {
	TotalRequests     int   `json:"totalRequests"`
	CompletedRequests int   `json:"completedRequests"`
	TotalAmount       int64 `json:"totalAmount"`
	PaidAmount        int64 `json:"paidAmount"`
	PendingAmount     int64 `json:"pendingAmount"`
}

// GetDashboardStats returns payment aggregates across all requests.
func (c *Client) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	var stats DashboardStats
	if err := c.do(ctx, http.MethodGet, "/payments/stats/dashboard", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
