// Package server implements the REST backend for the payment app: the
// /auth, /users and /payments endpoints, wrapped in the standard
// {success, message, data} envelope.
package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/vantungdz/payment/internal/auth"
	"github.com/vantungdz/payment/internal/middleware"
	"github.com/vantungdz/payment/internal/storage"
)

// Server wires the storage and auth layers to the HTTP routes.
type Server struct {
	store         storage.Store
	authenticator *auth.PasswordAuthenticator
	jwt           *auth.JWTManager
}

// New creates a server backed by the given store and auth components.
func New(store storage.Store, authenticator *auth.PasswordAuthenticator, jwt *auth.JWTManager) *Server {
	return &Server{
		store:         store,
		authenticator: authenticator,
		jwt:           jwt,
	}
}

// Handler returns the route mux. Cross-cutting middleware (logging,
// metrics, CORS, h2c) is layered on by the caller.
func (s *Server) Handler() http.Handler {
	authed := middleware.RequireAuth(s.jwt, respondError)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", s.handleLogin)
	mux.HandleFunc("POST /auth/register", s.handleRegister)
	mux.Handle("GET /auth/me", authed(http.HandlerFunc(s.handleMe)))
	mux.Handle("POST /auth/logout", authed(http.HandlerFunc(s.handleLogout)))
	mux.Handle("GET /users", authed(http.HandlerFunc(s.handleListUsers)))
	mux.Handle("GET /payments", authed(http.HandlerFunc(s.handleListPayments)))
	mux.Handle("POST /payments", authed(http.HandlerFunc(s.handleCreatePayment)))
	mux.Handle("POST /payments/{id}/send", authed(http.HandlerFunc(s.handleSendPayment)))
	mux.Handle("POST /payments/{id}/pay/{participantID}", authed(http.HandlerFunc(s.handlePayParticipant)))
	mux.Handle("GET /payments/stats/dashboard", authed(http.HandlerFunc(s.handleStats)))
	return mux
}

// envelope is the wire shape of every response.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func respond(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(envelope{Success: true, Data: data}); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(envelope{Success: false, Message: message}); err != nil {
		slog.Error("Failed to encode error response", "error", err)
	}
}

// decode reads a JSON request body into dst.
func decode(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}
