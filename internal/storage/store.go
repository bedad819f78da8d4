// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/vantungdz/payment/internal/models"
)

// ErrNotFound is returned when a looked-up record does not exist.
// Callers distinguish it from infrastructure failures with errors.Is.
var ErrNotFound = errors.New("not found")

// Store defines the interface for user and payment-request persistence.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL,
// etc.) without changing the HTTP layer.
type Store interface {
	// CreateUser persists a new user.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByID retrieves a user by ID. Returns (nil, nil) when absent.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// GetUserByUsername retrieves a user by login name. Returns
	// (nil, nil) when absent.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	// GetUserByPhone retrieves a user by phone number. Returns
	// (nil, nil) when absent.
	GetUserByPhone(ctx context.Context, phone string) (*models.User, error)

	// ListUsers returns the whole user directory.
	ListUsers(ctx context.Context) ([]models.User, error)

	// CreatePaymentRequest persists a new request with its full
	// participant list in one transaction. IDs and CreatedAt are
	// populated by the store when unset.
	CreatePaymentRequest(ctx context.Context, req *models.PaymentRequest) error

	// GetPaymentRequest retrieves a request by ID, participants in
	// their original order. A missing request wraps ErrNotFound.
	GetPaymentRequest(ctx context.Context, id string) (*models.PaymentRequest, error)

	// ListPaymentRequests returns all requests, newest first.
	ListPaymentRequests(ctx context.Context) ([]models.PaymentRequest, error)

	// UpdateStatuses persists the request status and every participant
	// status after a lifecycle transition. A missing request wraps
	// ErrNotFound.
	UpdateStatuses(ctx context.Context, req *models.PaymentRequest) error

	// Close releases any resources held by the store.
	Close() error
}
