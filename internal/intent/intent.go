// Package intent assembles the human-readable payment instruction handed
// to an external payment app. No money moves through this system: the
// intent is the whole settlement mechanism, executed manually by the
// payer in MoMo.
package intent

import (
	"errors"
	"fmt"

	"github.com/vantungdz/payment/internal/models"
	"github.com/vantungdz/payment/internal/money"
)

// ErrNoParticipant is returned when the user has no share in the request.
var ErrNoParticipant = errors.New("no matching participant in request")

const (
	// appLink opens the MoMo app when installed.
	appLink = "momo://app"
	// webLinkBase is the fallback transfer page, keyed by recipient phone.
	webLinkBase = "https://nhantien.momo.vn/"
)

// Intent is the immutable instruction for one payment: who to pay, how
// much, and what transfer message to attach. It carries no behavior
// beyond rendering links and clipboard text.
type Intent struct {
	RecipientPhone string
	RecipientName  string
	AmountText     string
	Message        string
}

// Build produces the payment intent for the given user's share of a
// request. The recipient is the request creator; the transfer message is
// "{title} - {username}" so the admin can match incoming transfers.
func Build(req *models.PaymentRequest, user *models.User) (Intent, error) {
	p := req.ParticipantByPhone(user.Phone)
	if p == nil {
		return Intent{}, fmt.Errorf("%w: request %s, phone %s", ErrNoParticipant, req.ID, user.Phone)
	}

	name := req.CreatedBy.Username
	if name == "" {
		name = "Admin"
	}

	return Intent{
		RecipientPhone: req.CreatedBy.Phone,
		RecipientName:  name,
		AmountText:     money.FormatCurrency(p.Amount),
		Message:        fmt.Sprintf("%s - %s", req.Title, user.Username),
	}, nil
}

// DeepLink returns the custom URL scheme tried first for the handoff.
func (i Intent) DeepLink() string {
	return appLink
}

// WebLink returns the browser fallback used when the app link fails.
func (i Intent) WebLink() string {
	return webLinkBase + i.RecipientPhone
}

// ClipboardText returns the full instruction block offered for copying.
func (i Intent) ClipboardText() string {
	return fmt.Sprintf("Thanh toán MoMo\nSố điện thoại: %s\nSố tiền: %s\nNội dung: %s",
		i.RecipientPhone, i.AmountText, i.Message)
}
