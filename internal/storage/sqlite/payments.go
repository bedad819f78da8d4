package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vantungdz/payment/internal/models"
	"github.com/vantungdz/payment/internal/storage"
)

// CreatePaymentRequest persists a request and its full participant list
// in one transaction. A request is never partially built: either the
// whole thing commits or nothing does.
func (s *SQLiteStore) CreatePaymentRequest(ctx context.Context, req *models.PaymentRequest) error {
	if req.ID == "" {
		req.ID = uuid.New().String()
	}
	if req.CreatedAt == 0 {
		req.CreatedAt = time.Now().Unix()
	}
	if req.Status == "" {
		req.Status = models.StatusDraft
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO payment_requests (id, title, description, total_amount, created_by_username, created_by_phone, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		req.ID, req.Title, req.Description, req.TotalAmount,
		req.CreatedBy.Username, req.CreatedBy.Phone, req.Status, req.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert payment request: %w", err)
	}

	for i := range req.Participants {
		p := &req.Participants[i]
		if p.ID == "" {
			p.ID = uuid.New().String()
		}
		if p.Status == "" {
			p.Status = models.ParticipantPending
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO participants (id, request_id, position, name, phone, amount, status)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			p.ID, req.ID, i, p.Name, p.Phone, p.Amount, p.Status,
		)
		if err != nil {
			return fmt.Errorf("failed to insert participant: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetPaymentRequest retrieves a request by ID, including its
// participants in creation order.
func (s *SQLiteStore) GetPaymentRequest(ctx context.Context, id string) (*models.PaymentRequest, error) {
	req := &models.PaymentRequest{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, title, description, total_amount, created_by_username, created_by_phone, status, created_at
		 FROM payment_requests WHERE id = ?`,
		id,
	).Scan(&req.ID, &req.Title, &req.Description, &req.TotalAmount,
		&req.CreatedBy.Username, &req.CreatedBy.Phone, &req.Status, &req.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("payment request %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get payment request: %w", err)
	}

	if err := s.loadParticipants(ctx, req); err != nil {
		return nil, err
	}

	return req, nil
}

// ListPaymentRequests returns all requests, newest first, each with its
// participants in creation order.
func (s *SQLiteStore) ListPaymentRequests(ctx context.Context) ([]models.PaymentRequest, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, description, total_amount, created_by_username, created_by_phone, status, created_at
		 FROM payment_requests ORDER BY created_at DESC, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list payment requests: %w", err)
	}
	defer rows.Close()

	var requests []models.PaymentRequest
	for rows.Next() {
		var req models.PaymentRequest
		if err := rows.Scan(&req.ID, &req.Title, &req.Description, &req.TotalAmount,
			&req.CreatedBy.Username, &req.CreatedBy.Phone, &req.Status, &req.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan payment request: %w", err)
		}
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payment requests: %w", err)
	}

	for i := range requests {
		if err := s.loadParticipants(ctx, &requests[i]); err != nil {
			return nil, err
		}
	}

	return requests, nil
}

// UpdateStatuses persists the request status and all participant
// statuses after a lifecycle transition.
func (s *SQLiteStore) UpdateStatuses(ctx context.Context, req *models.PaymentRequest) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"UPDATE payment_requests SET status = ? WHERE id = ?",
		req.Status, req.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update request status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("payment request %s: %w", req.ID, storage.ErrNotFound)
	}

	for i := range req.Participants {
		p := &req.Participants[i]
		_, err = tx.ExecContext(ctx,
			"UPDATE participants SET status = ? WHERE id = ? AND request_id = ?",
			p.Status, p.ID, req.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to update participant status: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (s *SQLiteStore) loadParticipants(ctx context.Context, req *models.PaymentRequest) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, phone, amount, status
		 FROM participants WHERE request_id = ? ORDER BY position`,
		req.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get participants: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p models.Participant
		if err := rows.Scan(&p.ID, &p.Name, &p.Phone, &p.Amount, &p.Status); err != nil {
			return fmt.Errorf("failed to scan participant: %w", err)
		}
		req.Participants = append(req.Participants, p)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate participants: %w", err)
	}

	return nil
}
