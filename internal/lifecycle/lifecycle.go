// Package lifecycle enforces the payment-request state machine.
//
// Request states move draft -> sent -> completed; participant states move
// pending -> paid. Both are one-way and completed is terminal. The backend
// owns every transition here. Clients never mutate status locally: they
// display whatever the server reports, including "draft" for a request
// that was created but not yet sent.
package lifecycle

import (
	"errors"
	"fmt"

	"github.com/vantungdz/payment/internal/models"
)

var (
	// ErrInvalidTransition is returned for any move the state machine
	// does not allow, including transitions out of completed.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrAlreadyPaid is returned when marking a participant paid twice.
	// There is no unpay operation.
	ErrAlreadyPaid = errors.New("participant already paid")

	// ErrParticipantNotFound is returned when the participant ID is not
	// part of the request.
	ErrParticipantNotFound = errors.New("participant not found")
)

// requestTransitions lists the allowed request-status moves.
var requestTransitions = map[models.RequestStatus]models.RequestStatus{
	models.StatusDraft: models.StatusSent,
	models.StatusSent:  models.StatusCompleted,
}

// CanTransition reports whether a request may move from one status to
// another.
func CanTransition(from, to models.RequestStatus) bool {
	return requestTransitions[from] == to
}

// MarkSent transitions a draft request to sent. Payments may land while
// the request is still a draft, so completion is derived here too: a
// request whose every share was settled before sending goes straight to
// completed.
func MarkSent(r *models.PaymentRequest) error {
	if !CanTransition(r.Status, models.StatusSent) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, r.Status, models.StatusSent)
	}
	r.Status = models.StatusSent
	if r.AllPaid() {
		r.Status = models.StatusCompleted
	}
	return nil
}

// MarkParticipantPaid transitions one participant from pending to paid,
// then derives the request status: once every participant has paid, the
// request becomes completed. The derivation lives server-side only; the
// completed label reaches clients as a read-only projection.
func MarkParticipantPaid(r *models.PaymentRequest, participantID string) error {
	var p *models.Participant
	for i := range r.Participants {
		if r.Participants[i].ID == participantID {
			p = &r.Participants[i]
			break
		}
	}
	if p == nil {
		return fmt.Errorf("%w: %s", ErrParticipantNotFound, participantID)
	}
	if p.Status == models.ParticipantPaid {
		return ErrAlreadyPaid
	}

	p.Status = models.ParticipantPaid
	if r.AllPaid() && r.Status == models.StatusSent {
		r.Status = models.StatusCompleted
	}
	return nil
}
