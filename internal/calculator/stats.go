package calculator

import "github.com/vantungdz/payment/internal/models"

// DashboardStats aggregates payment requests for the admin dashboard.
// Amounts sum the participant shares, not the advisory totals, since
// shares are what is actually owed.
type DashboardStats struct {
	TotalRequests     int   `json:"totalRequests"`
	CompletedRequests int   `json:"completedRequests"`
	TotalAmount       int64 `json:"totalAmount"`
	PaidAmount        int64 `json:"paidAmount"`
	PendingAmount     int64 `json:"pendingAmount"`
}

// ComputeStats walks all requests and tallies counts and amounts by
// payment state.
func ComputeStats(requests []models.PaymentRequest) DashboardStats {
	var stats DashboardStats
	stats.TotalRequests = len(requests)

	for _, r := range requests {
		if r.Status == models.StatusCompleted {
			stats.CompletedRequests++
		}
		for _, p := range r.Participants {
			stats.TotalAmount += p.Amount
			if p.Status == models.ParticipantPaid {
				stats.PaidAmount += p.Amount
			} else {
				stats.PendingAmount += p.Amount
			}
		}
	}

	return stats
}
