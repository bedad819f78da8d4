package lifecycle

import (
	"errors"
	"testing"

	"github.com/vantungdz/payment/internal/models"
)

func twoPersonRequest() *models.PaymentRequest {
	return &models.PaymentRequest{
		ID:     "req-1",
		Status: models.StatusDraft,
		Participants: []models.Participant{
			{ID: "p1", Name: "A", Phone: "1", Amount: 100, Status: models.ParticipantPending},
			{ID: "p2", Name: "B", Phone: "2", Amount: 200, Status: models.ParticipantPending},
		},
	}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to models.RequestStatus
		want     bool
	}{
		{models.StatusDraft, models.StatusSent, true},
		{models.StatusSent, models.StatusCompleted, true},
		{models.StatusDraft, models.StatusCompleted, false},
		{models.StatusSent, models.StatusDraft, false},
		{models.StatusCompleted, models.StatusSent, false},
		{models.StatusCompleted, models.StatusDraft, false},
	}

	for _, tt := range tests {
		if got := CanTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestMarkSent(t *testing.T) {
	r := twoPersonRequest()
	if err := MarkSent(r); err != nil {
		t.Fatalf("MarkSent failed: %v", err)
	}
	if r.Status != models.StatusSent {
		t.Errorf("status = %s, want sent", r.Status)
	}

	// Sending twice is not allowed.
	if err := MarkSent(r); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("second MarkSent error = %v, want ErrInvalidTransition", err)
	}
}

func TestMarkParticipantPaid(t *testing.T) {
	r := twoPersonRequest()
	if err := MarkSent(r); err != nil {
		t.Fatalf("MarkSent failed: %v", err)
	}

	if err := MarkParticipantPaid(r, "p1"); err != nil {
		t.Fatalf("MarkParticipantPaid failed: %v", err)
	}
	if r.Participants[0].Status != models.ParticipantPaid {
		t.Error("p1 should be paid")
	}
	if r.Status != models.StatusSent {
		t.Errorf("status = %s, want sent while p2 is pending", r.Status)
	}

	// Paying the last participant completes the request.
	if err := MarkParticipantPaid(r, "p2"); err != nil {
		t.Fatalf("MarkParticipantPaid failed: %v", err)
	}
	if r.Status != models.StatusCompleted {
		t.Errorf("status = %s, want completed once all paid", r.Status)
	}
}

func TestPayAllThenSendCompletes(t *testing.T) {
	// Shares can be settled while the request is still a draft. Sending
	// afterwards must still reach completed; there is no later pay call
	// left to derive it from.
	r := twoPersonRequest()
	if err := MarkParticipantPaid(r, "p1"); err != nil {
		t.Fatalf("MarkParticipantPaid failed: %v", err)
	}
	if err := MarkParticipantPaid(r, "p2"); err != nil {
		t.Fatalf("MarkParticipantPaid failed: %v", err)
	}
	if r.Status != models.StatusDraft {
		t.Fatalf("status = %s, want draft until sent", r.Status)
	}

	if err := MarkSent(r); err != nil {
		t.Fatalf("MarkSent failed: %v", err)
	}
	if r.Status != models.StatusCompleted {
		t.Errorf("status = %s, want completed when sent with all shares paid", r.Status)
	}
}

func TestMarkParticipantPaidErrors(t *testing.T) {
	r := twoPersonRequest()
	MarkSent(r)

	if err := MarkParticipantPaid(r, "missing"); !errors.Is(err, ErrParticipantNotFound) {
		t.Errorf("error = %v, want ErrParticipantNotFound", err)
	}

	if err := MarkParticipantPaid(r, "p1"); err != nil {
		t.Fatalf("MarkParticipantPaid failed: %v", err)
	}
	// No unpay, and no double pay.
	if err := MarkParticipantPaid(r, "p1"); !errors.Is(err, ErrAlreadyPaid) {
		t.Errorf("error = %v, want ErrAlreadyPaid", err)
	}
}

func TestCompletedIsTerminal(t *testing.T) {
	r := twoPersonRequest()
	MarkSent(r)
	MarkParticipantPaid(r, "p1")
	MarkParticipantPaid(r, "p2")

	if r.Status != models.StatusCompleted {
		t.Fatalf("status = %s, want completed", r.Status)
	}
	if err := MarkSent(r); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("MarkSent on completed = %v, want ErrInvalidTransition", err)
	}
}

func TestEmptyRequestNeverCompletes(t *testing.T) {
	r := &models.PaymentRequest{ID: "req-empty", Status: models.StatusSent}
	if r.AllPaid() {
		t.Error("request with no participants must not count as all paid")
	}
}
