package store

import (
	"github.com/vantungdz/payment/internal/api"
	"github.com/vantungdz/payment/internal/calculator"
	"github.com/vantungdz/payment/internal/models"
)

const defaultTitle = "Yêu cầu thanh toán"

// SingleDraft builds a one-participant request for a direct send to one
// user.
func SingleDraft(user models.User, amount int64, description string) models.PaymentRequestDraft {
	title := description
	if title == "" {
		title = defaultTitle
	}
	return models.PaymentRequestDraft{
		Title:       title,
		Description: title,
		TotalAmount: amount,
		Participants: []models.ParticipantDraft{
			{Name: user.FullName, Phone: user.Phone, Amount: amount},
		},
	}
}

// BulkDraft assembles a request from the admin's split selection: every
// selected user with a positive amount becomes a participant, in the
// order of the users directory listing. When includeSelf is set the admin
// is appended as a computed participant with the equal-split share of
// the entered total. TotalAmount is the sum of participant amounts.
func BulkDraft(sel calculator.Selection, users []models.User, admin models.User, includeSelf bool, totalAmount int64, description string) (models.PaymentRequestDraft, error) {
	var participants []models.ParticipantDraft
	for _, u := range users {
		c, ok := sel[u.ID]
		if !ok || !c.Selected || c.Amount <= 0 {
			continue
		}
		participants = append(participants, models.ParticipantDraft{
			Name:   u.FullName,
			Phone:  u.Phone,
			Amount: c.Amount,
		})
	}

	if includeSelf && len(participants) > 0 {
		split, err := calculator.EqualSplit(totalAmount, len(sel.SelectedIDs()), true)
		if err != nil {
			return models.PaymentRequestDraft{}, err
		}
		participants = append(participants, models.ParticipantDraft{
			Name:   admin.FullName,
			Phone:  admin.Phone,
			Amount: split.PerPerson,
		})
	}

	if len(participants) == 0 {
		return models.PaymentRequestDraft{}, &api.ValidationError{Reason: "no valid participants selected"}
	}

	var sum int64
	for _, p := range participants {
		sum += p.Amount
	}

	title := description
	if title == "" {
		title = defaultTitle
	}
	return models.PaymentRequestDraft{
		Title:        title,
		Description:  title,
		TotalAmount:  sum,
		Participants: participants,
	}, nil
}
