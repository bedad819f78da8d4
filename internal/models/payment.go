package models

// RequestStatus is the lifecycle state of a whole payment request.
// The backend owns all transitions; clients render the value verbatim.
type RequestStatus string

const (
	// StatusDraft means the request exists but has not been sent out.
	StatusDraft RequestStatus = "draft"
	// StatusSent means participants have been asked to pay.
	StatusSent RequestStatus = "sent"
	// StatusCompleted means every participant has paid. Terminal.
	StatusCompleted RequestStatus = "completed"
)

// ParticipantStatus is the payment state of one participant.
type ParticipantStatus string

const (
	ParticipantPending ParticipantStatus = "pending"
	ParticipantPaid    ParticipantStatus = "paid"
)

// Participant is one person's share inside a payment request. It is a
// snapshot of the user's name and phone at creation time, not a reference
// into the user directory. Identity within a request is the phone number.
type Participant struct {
	// ID is the unique identifier for the participant entry (UUID format).
	ID string `json:"id"`

	// Name is the participant's full name as captured at creation.
	Name string `json:"name"`

	// Phone is the join key against the user directory.
	Phone string `json:"phone"`

	// Amount is this person's share in whole currency units.
	Amount int64 `json:"amount"`

	// Status is "pending" until the share is marked paid. One-way.
	Status ParticipantStatus `json:"status"`
}

// CreatedBy identifies the admin who created a request. The phone doubles
// as the payment recipient for the external payment app handoff.
type CreatedBy struct {
	Username string `json:"username"`
	Phone    string `json:"phone"`
}

// PaymentRequest is a bill split into per-person shares. Participant order
// is preserved exactly as submitted.
type PaymentRequest struct {
	// ID is the unique identifier for the request (UUID format).
	ID string `json:"id"`

	// Title is the short label shown to participants and reused as the
	// transfer message prefix.
	Title string `json:"title"`

	// Description is the longer free-form note.
	Description string `json:"description"`

	// TotalAmount is the advisory bill total in whole currency units.
	// It need not equal the sum of participant amounts.
	TotalAmount int64 `json:"totalAmount"`

	// Participants is the ordered list of shares.
	Participants []Participant `json:"participants"`

	// CreatedBy is the admin who created the request.
	CreatedBy CreatedBy `json:"createdBy"`

	// Status is the server-owned lifecycle state.
	Status RequestStatus `json:"status"`

	// CreatedAt is the Unix timestamp when the request was created.
	CreatedAt int64 `json:"createdAt"`
}

// ParticipantDraft is one share in a creation payload.
type ParticipantDraft struct {
	Name   string `json:"name"`
	Phone  string `json:"phone"`
	Amount int64  `json:"amount"`
}

// PaymentRequestDraft is the payload for creating a payment request. A
// request is created in one atomic call carrying its full participant
// list; it is never partially built server-side.
type PaymentRequestDraft struct {
	Title        string             `json:"title"`
	Description  string             `json:"description"`
	TotalAmount  int64              `json:"totalAmount"`
	Participants []ParticipantDraft `json:"participants"`
}

// ParticipantByPhone returns the participant matching the given phone
// number, or nil when the phone is not part of the request.
func (r *PaymentRequest) ParticipantByPhone(phone string) *Participant {
	for i := range r.Participants {
		if r.Participants[i].Phone == phone {
			return &r.Participants[i]
		}
	}
	return nil
}

// AllPaid reports whether every participant has paid. A request with no
// participants is never considered paid.
func (r *PaymentRequest) AllPaid() bool {
	if len(r.Participants) == 0 {
		return false
	}
	for i := range r.Participants {
		if r.Participants[i].Status != ParticipantPaid {
			return false
		}
	}
	return true
}
