package server

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/vantungdz/payment/internal/calculator"
	"github.com/vantungdz/payment/internal/lifecycle"
	"github.com/vantungdz/payment/internal/middleware"
	"github.com/vantungdz/payment/internal/models"
	"github.com/vantungdz/payment/internal/storage"
)

// respondRequestLookup maps a GetPaymentRequest failure: a missing
// record is the caller's 404, anything else is a storage failure.
func respondRequestLookup(w http.ResponseWriter, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		respondError(w, http.StatusNotFound, "payment request not found")
		return
	}
	slog.Error("Failed to load payment request", "error", err)
	respondError(w, http.StatusInternalServerError, "failed to load payment request")
}

func (s *Server) handleListPayments(w http.ResponseWriter, r *http.Request) {
	requests, err := s.store.ListPaymentRequests(r.Context())
	if err != nil {
		slog.Error("Failed to list payment requests", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to list payment requests")
		return
	}
	if requests == nil {
		requests = []models.PaymentRequest{}
	}
	respond(w, http.StatusOK, map[string][]models.PaymentRequest{"paymentRequests": requests})
}

func (s *Server) handleCreatePayment(w http.ResponseWriter, r *http.Request) {
	if middleware.GetRole(r.Context()) != models.RoleAdmin {
		respondError(w, http.StatusForbidden, "only admins can create payment requests")
		return
	}

	var draft models.PaymentRequestDraft
	if err := decode(r, &draft); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(draft.Participants) == 0 {
		respondError(w, http.StatusBadRequest, "participants must not be empty")
		return
	}
	for _, p := range draft.Participants {
		if p.Amount <= 0 {
			respondError(w, http.StatusBadRequest, fmt.Sprintf("amount for %s must be positive", p.Name))
			return
		}
	}

	creator, err := s.store.GetUserByID(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil || creator == nil {
		slog.Error("Failed to load creator", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to load creator")
		return
	}

	req := &models.PaymentRequest{
		Title:       draft.Title,
		Description: draft.Description,
		TotalAmount: draft.TotalAmount,
		CreatedBy:   models.CreatedBy{Username: creator.Username, Phone: creator.Phone},
		Status:      models.StatusDraft,
	}
	for _, p := range draft.Participants {
		req.Participants = append(req.Participants, models.Participant{
			Name:   p.Name,
			Phone:  p.Phone,
			Amount: p.Amount,
			Status: models.ParticipantPending,
		})
	}

	if err := s.store.CreatePaymentRequest(r.Context(), req); err != nil {
		slog.Error("Failed to create payment request", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to create payment request")
		return
	}

	slog.Info("Payment request created",
		"request_id", req.ID,
		"created_by", creator.Username,
		"participants", len(req.Participants),
		"total", req.TotalAmount,
	)
	respond(w, http.StatusCreated, req)
}

func (s *Server) handleSendPayment(w http.ResponseWriter, r *http.Request) {
	if middleware.GetRole(r.Context()) != models.RoleAdmin {
		respondError(w, http.StatusForbidden, "only admins can send payment requests")
		return
	}

	req, err := s.store.GetPaymentRequest(r.Context(), r.PathValue("id"))
	if err != nil {
		respondRequestLookup(w, err)
		return
	}

	if err := lifecycle.MarkSent(req); err != nil {
		respondError(w, http.StatusConflict, err.Error())
		return
	}
	if err := s.store.UpdateStatuses(r.Context(), req); err != nil {
		slog.Error("Failed to persist send", "request_id", req.ID, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to update payment request")
		return
	}

	slog.Info("Payment request sent", "request_id", req.ID)
	respond(w, http.StatusOK, req)
}

func (s *Server) handlePayParticipant(w http.ResponseWriter, r *http.Request) {
	req, err := s.store.GetPaymentRequest(r.Context(), r.PathValue("id"))
	if err != nil {
		respondRequestLookup(w, err)
		return
	}

	participantID := r.PathValue("participantID")

	// Admins can mark anyone paid; a user may only self-report their
	// own share, matched by phone.
	if middleware.GetRole(r.Context()) != models.RoleAdmin {
		caller, err := s.store.GetUserByID(r.Context(), middleware.GetUserID(r.Context()))
		if err != nil || caller == nil {
			respondError(w, http.StatusInternalServerError, "failed to load user")
			return
		}
		allowed := false
		for _, p := range req.Participants {
			if p.ID == participantID && p.Phone == caller.Phone {
				allowed = true
				break
			}
		}
		if !allowed {
			respondError(w, http.StatusForbidden, "you can only mark your own share as paid")
			return
		}
	}

	if err := lifecycle.MarkParticipantPaid(req, participantID); err != nil {
		switch {
		case errors.Is(err, lifecycle.ErrParticipantNotFound):
			respondError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, lifecycle.ErrAlreadyPaid):
			respondError(w, http.StatusConflict, err.Error())
		default:
			respondError(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	if err := s.store.UpdateStatuses(r.Context(), req); err != nil {
		slog.Error("Failed to persist payment", "request_id", req.ID, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to update payment request")
		return
	}

	slog.Info("Participant paid",
		"request_id", req.ID,
		"participant_id", participantID,
		"request_status", req.Status,
	)
	respond(w, http.StatusOK, req)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	requests, err := s.store.ListPaymentRequests(r.Context())
	if err != nil {
		slog.Error("Failed to list payment requests", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to compute stats")
		return
	}
	respond(w, http.StatusOK, calculator.ComputeStats(requests))
}
