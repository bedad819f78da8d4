package intent

import (
	"errors"
	"strings"
	"testing"

	"github.com/vantungdz/payment/internal/models"
)

func sampleRequest() *models.PaymentRequest {
	return &models.PaymentRequest{
		ID:    "req-1",
		Title: "Tiền phòng tháng 12",
		CreatedBy: models.CreatedBy{
			Username: "admin",
			Phone:    "0901234567",
		},
		Participants: []models.Participant{
			{ID: "p1", Name: "Nguyen Van A", Phone: "0912345678", Amount: 2_000_000, Status: models.ParticipantPending},
		},
	}
}

func TestBuild(t *testing.T) {
	user := &models.User{Username: "nguyenvana", Phone: "0912345678"}

	got, err := Build(sampleRequest(), user)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if got.RecipientPhone != "0901234567" {
		t.Errorf("RecipientPhone = %q, want creator's phone", got.RecipientPhone)
	}
	if got.RecipientName != "admin" {
		t.Errorf("RecipientName = %q, want \"admin\"", got.RecipientName)
	}
	if got.AmountText != "2.000.000 ₫" {
		t.Errorf("AmountText = %q, want \"2.000.000 ₫\"", got.AmountText)
	}
	if got.Message != "Tiền phòng tháng 12 - nguyenvana" {
		t.Errorf("Message = %q, want title - username", got.Message)
	}
}

func TestBuildNoParticipant(t *testing.T) {
	user := &models.User{Username: "outsider", Phone: "0999999999"}
	_, err := Build(sampleRequest(), user)
	if !errors.Is(err, ErrNoParticipant) {
		t.Errorf("error = %v, want ErrNoParticipant", err)
	}
}

func TestBuildMissingCreatorName(t *testing.T) {
	req := sampleRequest()
	req.CreatedBy.Username = ""
	user := &models.User{Username: "nguyenvana", Phone: "0912345678"}

	got, err := Build(req, user)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if got.RecipientName != "Admin" {
		t.Errorf("RecipientName = %q, want fallback \"Admin\"", got.RecipientName)
	}
}

func TestLinks(t *testing.T) {
	i := Intent{RecipientPhone: "0901234567"}

	if i.DeepLink() != "momo://app" {
		t.Errorf("DeepLink = %q", i.DeepLink())
	}
	if i.WebLink() != "https://nhantien.momo.vn/0901234567" {
		t.Errorf("WebLink = %q", i.WebLink())
	}
}

func TestClipboardText(t *testing.T) {
	i := Intent{
		RecipientPhone: "0901234567",
		AmountText:     "2.000.000 ₫",
		Message:        "Tiền phòng tháng 12 - nguyenvana",
	}

	text := i.ClipboardText()
	for _, want := range []string{"0901234567", "2.000.000 ₫", "Tiền phòng tháng 12 - nguyenvana"} {
		if !strings.Contains(text, want) {
			t.Errorf("ClipboardText missing %q:\n%s", want, text)
		}
	}
	if len(strings.Split(text, "\n")) != 4 {
		t.Errorf("ClipboardText should have 4 lines:\n%s", text)
	}
}
