// Package requests handles appointment requests submitted anonymously
// through the public site and triaged by clinic staff.
package requests

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/odontoflow/clinic-api/internal/apperror"
	"github.com/odontoflow/clinic-api/internal/database"
	"github.com/odontoflow/clinic-api/pkg/logging"
)

// Triage statuses.
const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

// ValidStatus reports whether s is one of the triage statuses.
func ValidStatus(s string) bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}

// Request is one public appointment request.
type Request struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Phone         string    `json:"phone"`
	Email         *string   `json:"email,omitempty"`
	PreferredDate time.Time `json:"preferredDate"`
	Reason        *string   `json:"reason,omitempty"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// CreateInput carries the fields accepted from the public form.
type CreateInput struct {
	Name          string  `json:"name"`
	Phone         string  `json:"phone"`
	Email         *string `json:"email"`
	PreferredDate string  `json:"preferredDate"`
	Reason        *string `json:"reason"`
}

// UpdateStatusInput carries the triage decision.
type UpdateStatusInput struct {
	Status string `json:"status"`
}

// Store persists appointment requests.
type Store struct {
	pool database.Pool
}

func NewStore(pool database.Pool) *Store {
	if pool == nil {
		panic("requests: pgx pool required")
	}
	return &Store{pool: pool}
}

const requestColumns = `id, name, phone, email, preferred_date, reason, status, created_at, updated_at`

func scanRequest(row pgx.Row, q *Request) error {
	return row.Scan(&q.ID, &q.Name, &q.Phone, &q.Email, &q.PreferredDate, &q.Reason, &q.Status, &q.CreatedAt, &q.UpdatedAt)
}

// Insert creates a request and returns the stored row.
func (s *Store) Insert(ctx context.Context, q Request) (*Request, error) {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO appointment_requests (id, name, phone, email, preferred_date, reason, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		q.ID, q.Name, q.Phone, q.Email, q.PreferredDate, q.Reason, q.Status)
	if err != nil {
		return nil, fmt.Errorf("requests: insert: %w", err)
	}
	return s.GetByID(ctx, q.ID)
}

// List returns all requests, newest first.
func (s *Store) List(ctx context.Context) ([]Request, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+requestColumns+` FROM appointment_requests ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("requests: list: %w", err)
	}
	defer rows.Close()

	out := []Request{}
	for rows.Next() {
		var q Request
		if err := scanRequest(rows, &q); err != nil {
			return nil, fmt.Errorf("requests: scan: %w", err)
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

// GetByID returns one request, or nil when absent.
func (s *Store) GetByID(ctx context.Context, id uuid.UUID) (*Request, error) {
	var q Request
	err := scanRequest(s.pool.QueryRow(ctx, `
		SELECT `+requestColumns+` FROM appointment_requests WHERE id = $1`, id), &q)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("requests: load: %w", err)
	}
	return &q, nil
}

// UpdateStatus stores the triage decision.
func (s *Store) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*Request, error) {
	_, err := s.pool.Exec(ctx, `
		UPDATE appointment_requests SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return nil, fmt.Errorf("requests: update status: %w", err)
	}
	return s.GetByID(ctx, id)
}

// Delete removes a request.
func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM appointment_requests WHERE id = $1`, id); err != nil {
		return fmt.Errorf("requests: delete: %w", err)
	}
	return nil
}

// Service validates public submissions and staff triage.
type Service struct {
	store  *Store
	logger *logging.Logger
}

func NewService(store *Store, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{store: store, logger: logger}
}

// Create accepts an anonymous submission. New requests always start PENDING.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Request, error) {
	if len(strings.TrimSpace(in.Name)) < 3 {
		return nil, apperror.New(apperror.Validation, "nome deve ter pelo menos 3 caracteres")
	}
	if strings.TrimSpace(in.Phone) == "" {
		return nil, apperror.New(apperror.Validation, "telefone é obrigatório")
	}
	preferred, err := parseDate(in.PreferredDate)
	if err != nil {
		return nil, err
	}

	created, err := s.store.Insert(ctx, Request{
		ID:            uuid.New(),
		Name:          in.Name,
		Phone:         in.Phone,
		Email:         in.Email,
		PreferredDate: preferred,
		Reason:        in.Reason,
		Status:        StatusPending,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("appointment request received", "request_id", created.ID)
	return created, nil
}

// GetAll returns all requests, newest first.
func (s *Service) GetAll(ctx context.Context) ([]Request, error) {
	return s.store.List(ctx)
}

// Get returns one request.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Request, error) {
	q, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, apperror.New(apperror.NotFound, "solicitação não encontrada")
	}
	return q, nil
}

// UpdateStatus records the triage decision for a request.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*Request, error) {
	if !ValidStatus(status) {
		return nil, apperror.Validationf("status de solicitação inválido: %s", status)
	}
	current, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, apperror.New(apperror.NotFound, "solicitação não encontrada")
	}
	return s.store.UpdateStatus(ctx, id, status)
}

// Delete removes a request.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	current, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if current == nil {
		return apperror.New(apperror.NotFound, "solicitação não encontrada")
	}
	return s.store.Delete(ctx, id)
}

func parseDate(raw string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, apperror.Validationf("data inválida: %s", raw)
}
