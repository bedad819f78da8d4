// Package store keeps the client-side view of payment requests: one
// in-memory snapshot synced from the backend, per-user derived views, and
// the creation flows the admin dashboard funnels through.
//
// The store holds exactly one snapshot, replaced wholesale on each
// successful refresh. A failed call leaves the prior last-known-good
// state untouched; there is no automatic retry and no cache beyond the
// snapshot itself.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/vantungdz/payment/internal/api"
	"github.com/vantungdz/payment/internal/models"
)

var (
	// ErrActionInFlight rejects a re-entrant submission of a logical
	// action that has not resolved yet (e.g. a double-tap on "send all").
	ErrActionInFlight = errors.New("action already in flight")

	// ErrSelfReportDisabled is returned by MarkPaid when the store is
	// configured for instruction-only payments: the transfer happens
	// out of band in the payment app and is never confirmed back to the
	// server.
	ErrSelfReportDisabled = errors.New("self-reported payment confirmation is disabled")
)

// Backend is the slice of the API client the store depends on.
type Backend interface {
	ListPaymentRequests(ctx context.Context) ([]models.PaymentRequest, error)
	CreatePaymentRequest(ctx context.Context, draft models.PaymentRequestDraft) (*models.PaymentRequest, error)
	SendPaymentRequest(ctx context.Context, requestID string) (*models.PaymentRequest, error)
	PayParticipant(ctx context.Context, requestID, participantID string) (*models.PaymentRequest, error)
}

// Config selects between the two payment code paths the product never
// settled on: confirm-to-server vs purely advisory payment.
type Config struct {
	// SelfReportPayments enables MarkPaid to call the backend's
	// pay endpoint. When false the user's payment stays a manual,
	// out-of-band action and only the admin can mark shares paid.
	SelfReportPayments bool
}

// Store is the client-side payment-request cache.
type Store struct {
	backend Backend
	cfg     Config

	mu       sync.Mutex
	snapshot []models.PaymentRequest
	inflight map[string]string // logical action -> opaque token
}

// New creates a store backed by the given API client.
func New(backend Backend, cfg Config) *Store {
	return &Store{
		backend:  backend,
		cfg:      cfg,
		inflight: make(map[string]string),
	}
}

// begin acquires the in-flight token for a logical action. It fails with
// ErrActionInFlight when the same action is already pending, which is the
// only re-entrancy protection at this layer.
func (s *Store) begin(action string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inflight[action]; busy {
		return "", fmt.Errorf("%w: %s", ErrActionInFlight, action)
	}
	token := uuid.New().String()
	s.inflight[action] = token
	return token, nil
}

// end releases the in-flight token for an action.
func (s *Store) end(action, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inflight[action] == token {
		delete(s.inflight, action)
	}
}

// Refresh fetches all payment requests and replaces the snapshot. On any
// failure the previous snapshot survives.
func (s *Store) Refresh(ctx context.Context) error {
	token, err := s.begin("refresh")
	if err != nil {
		return err
	}
	defer s.end("refresh", token)

	requests, err := s.backend.ListPaymentRequests(ctx)
	if err != nil {
		slog.Warn("refresh failed, keeping previous snapshot", "error", err)
		return err
	}

	s.mu.Lock()
	s.snapshot = requests
	s.mu.Unlock()
	slog.Debug("snapshot replaced", "requests", len(requests))
	return nil
}

// Requests returns a copy of the current snapshot.
func (s *Store) Requests() []models.PaymentRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.PaymentRequest, len(s.snapshot))
	copy(out, s.snapshot)
	return out
}

// validateDraft applies the creation-side input rules: at least one
// participant and strictly positive amounts. Phone format is upstream
// form validation and is not re-checked here.
func validateDraft(draft models.PaymentRequestDraft) error {
	if len(draft.Participants) == 0 {
		return &api.ValidationError{Reason: "participants must not be empty"}
	}
	for _, p := range draft.Participants {
		if p.Amount <= 0 {
			return &api.ValidationError{Reason: fmt.Sprintf("amount for %s must be positive", p.Name)}
		}
	}
	return nil
}

// Create validates the draft, creates the request in one atomic call, and
// immediately sends it. Single and bulk creation both come through here:
// bulk is not a batch primitive, just N participants in one request.
func (s *Store) Create(ctx context.Context, draft models.PaymentRequestDraft) (*models.PaymentRequest, error) {
	if err := validateDraft(draft); err != nil {
		return nil, err
	}

	token, err := s.begin("create")
	if err != nil {
		return nil, err
	}
	defer s.end("create", token)

	created, err := s.backend.CreatePaymentRequest(ctx, draft)
	if err != nil {
		return nil, err
	}
	slog.Info("payment request created", "request_id", created.ID, "participants", len(created.Participants))

	sent, err := s.backend.SendPaymentRequest(ctx, created.ID)
	if err != nil {
		// The request exists as a draft on the server; surface the
		// failure so the admin can retry the send from the list.
		slog.Warn("created but not sent", "request_id", created.ID, "error", err)
		return created, err
	}

	s.mu.Lock()
	s.snapshot = append(s.snapshot, *sent)
	s.mu.Unlock()
	return sent, nil
}

// MarkPaid confirms a participant's payment to the server, when the store
// is configured to do so, and folds the updated request back into the
// snapshot.
func (s *Store) MarkPaid(ctx context.Context, requestID, participantID string) (*models.PaymentRequest, error) {
	if !s.cfg.SelfReportPayments {
		return nil, ErrSelfReportDisabled
	}

	action := "pay:" + requestID
	token, err := s.begin(action)
	if err != nil {
		return nil, err
	}
	defer s.end(action, token)

	updated, err := s.backend.PayParticipant(ctx, requestID, participantID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	for i := range s.snapshot {
		if s.snapshot[i].ID == updated.ID {
			s.snapshot[i] = *updated
			break
		}
	}
	s.mu.Unlock()
	return updated, nil
}

// UserView is the per-user partition of the snapshot.
type UserView struct {
	// Pending holds requests where the user's share is unpaid.
	Pending []models.PaymentRequest

	// Paid holds requests where the user's share has been paid.
	Paid []models.PaymentRequest

	// TotalPending sums the user's amounts over the pending partition.
	TotalPending int64
}

// UserView derives the pending/paid partition for a phone number from the
// current snapshot.
func (s *Store) UserView(phone string) UserView {
	return DeriveUserView(s.Requests(), phone)
}

// DeriveUserView partitions requests by the status of the participant
// matching userPhone. A request with no matching participant is excluded
// entirely; that is an absence, not an error.
func DeriveUserView(requests []models.PaymentRequest, userPhone string) UserView {
	var view UserView
	for _, r := range requests {
		p := r.ParticipantByPhone(userPhone)
		if p == nil {
			continue
		}
		if p.Status == models.ParticipantPaid {
			view.Paid = append(view.Paid, r)
		} else {
			view.Pending = append(view.Pending, r)
			view.TotalPending += p.Amount
		}
	}
	return view
}
