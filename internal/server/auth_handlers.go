package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/vantungdz/payment/internal/auth"
	"github.com/vantungdz/payment/internal/middleware"
	"github.com/vantungdz/payment/internal/models"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type registerRequest struct {
	Username string      `json:"username"`
	Password string      `json:"password"`
	Email    string      `json:"email"`
	Phone    string      `json:"phone"`
	FullName string      `json:"fullName"`
	Role     models.Role `json:"role"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Username == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	user, err := s.authenticator.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		slog.Warn("Login failed", "username", req.Username, "error", err)
		respondError(w, http.StatusUnauthorized, auth.ErrInvalidCredentials.Error())
		return
	}

	token, err := s.jwt.Generate(user)
	if err != nil {
		slog.Error("Failed to generate token", "user_id", user.ID, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to create session")
		return
	}

	slog.Info("User logged in", "user_id", user.ID, "username", user.Username)
	respond(w, http.StatusOK, authResponse{Token: token, User: user})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Username == "" || req.Password == "" || req.Phone == "" {
		respondError(w, http.StatusBadRequest, "username, password and phone are required")
		return
	}
	if req.Role != "" && req.Role != models.RoleAdmin && req.Role != models.RoleUser {
		respondError(w, http.StatusBadRequest, "role must be admin or user")
		return
	}

	user := &models.User{
		Username: req.Username,
		FullName: req.FullName,
		Phone:    req.Phone,
		Email:    req.Email,
		Role:     req.Role,
	}
	user, err := s.authenticator.Register(r.Context(), user, req.Password)
	if err != nil {
		slog.Warn("Registration failed", "username", req.Username, "error", err)
		switch {
		case errors.Is(err, auth.ErrWeakPassword):
			respondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, auth.ErrUsernameExists), errors.Is(err, auth.ErrPhoneExists):
			respondError(w, http.StatusConflict, err.Error())
		default:
			respondError(w, http.StatusInternalServerError, "failed to create account")
		}
		return
	}

	token, err := s.jwt.Generate(user)
	if err != nil {
		slog.Error("Failed to generate token", "user_id", user.ID, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to create session")
		return
	}

	slog.Info("User registered", "user_id", user.ID, "username", user.Username, "role", user.Role)
	respond(w, http.StatusCreated, authResponse{Token: token, User: user})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user, err := s.store.GetUserByID(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		slog.Error("Failed to load user", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to load user")
		return
	}
	if user == nil {
		respondError(w, http.StatusNotFound, "user not found")
		return
	}
	respond(w, http.StatusOK, map[string]*models.User{"user": user})
}

// handleLogout is a no-op: JWTs are stateless, so the client discards the
// token. The endpoint exists so clients have a definite sign-out call.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	slog.Info("User logged out", "user_id", middleware.GetUserID(r.Context()))
	respond(w, http.StatusOK, nil)
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.store.ListUsers(r.Context())
	if err != nil {
		slog.Error("Failed to list users", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to list users")
		return
	}
	if users == nil {
		users = []models.User{}
	}
	respond(w, http.StatusOK, map[string][]models.User{"users": users})
}
