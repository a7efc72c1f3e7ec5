package transactions

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/odontoflow/clinic-api/internal/access"
	"github.com/odontoflow/clinic-api/internal/apperror"
	"github.com/odontoflow/clinic-api/pkg/logging"
)

// Service applies validation and ownership rules to the ledger.
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

// GetAll lists ledger entries. Dentists only see entries they created,
// regardless of the filters they pass.
func (s *Service) GetAll(ctx context.Context, caller access.Context, f Filters) ([]Transaction, error) {
	if caller.ScopesToOwnRows() {
		f.CreatedBy = &caller.UserID
	}
	return s.store.List(ctx, f)
}

// Get returns one ledger entry.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	t, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, apperror.New(apperror.NotFound, "transação não encontrada")
	}
	return t, nil
}

// Create records a ledger entry owned by the caller.
func (s *Service) Create(ctx context.Context, caller access.Context, in CreateInput) (*Transaction, error) {
	if !ValidType(in.Type) {
		return nil, apperror.Validationf("tipo de transação inválido: %s", in.Type)
	}
	if strings.TrimSpace(in.Category) == "" {
		return nil, apperror.New(apperror.Validation, "categoria é obrigatória")
	}
	if in.Amount <= 0 {
		return nil, apperror.New(apperror.Validation, "valor deve ser maior que zero")
	}
	status := in.Status
	if status == "" {
		status = StatusPending
	}
	if !ValidStatus(status) {
		return nil, apperror.Validationf("status de transação inválido: %s", status)
	}
	date := time.Now().UTC()
	if in.Date != nil {
		parsed, err := parseDate(*in.Date)
		if err != nil {
			return nil, err
		}
		date = parsed
	}

	created, err := s.store.Insert(ctx, Transaction{
		ID:            uuid.New(),
		Type:          in.Type,
		Category:      in.Category,
		Amount:        in.Amount,
		Description:   in.Description,
		Date:          date,
		Status:        status,
		PatientID:     in.PatientID,
		AppointmentID: in.AppointmentID,
		CreatedByID:   caller.UserID,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("transaction created",
		"transaction_id", created.ID,
		"type", created.Type,
		"amount", created.Amount,
		"created_by", caller.UserID,
	)
	return created, nil
}

// Update applies a partial update. Dentists may only touch their own entries.
func (s *Service) Update(ctx context.Context, caller access.Context, id uuid.UUID, in UpdateInput) (*Transaction, error) {
	current, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, apperror.New(apperror.NotFound, "transação não encontrada")
	}
	if err := caller.CanMutateTransaction(current.CreatedByID); err != nil {
		return nil, err
	}

	if in.Type != nil {
		if !ValidType(*in.Type) {
			return nil, apperror.Validationf("tipo de transação inválido: %s", *in.Type)
		}
		current.Type = *in.Type
	}
	if in.Category != nil {
		if strings.TrimSpace(*in.Category) == "" {
			return nil, apperror.New(apperror.Validation, "categoria é obrigatória")
		}
		current.Category = *in.Category
	}
	if in.Amount != nil {
		if *in.Amount <= 0 {
			return nil, apperror.New(apperror.Validation, "valor deve ser maior que zero")
		}
		current.Amount = *in.Amount
	}
	if in.Description != nil {
		current.Description = *in.Description
	}
	if in.Date != nil {
		parsed, err := parseDate(*in.Date)
		if err != nil {
			return nil, err
		}
		current.Date = parsed
	}
	if in.Status != nil {
		if !ValidStatus(*in.Status) {
			return nil, apperror.Validationf("status de transação inválido: %s", *in.Status)
		}
		current.Status = *in.Status
	}
	if in.PatientID != nil {
		current.PatientID = in.PatientID
	}
	if in.AppointmentID != nil {
		current.AppointmentID = in.AppointmentID
	}

	return s.store.Update(ctx, *current)
}

// Delete removes a ledger entry. Dentists may only delete their own entries.
func (s *Service) Delete(ctx context.Context, caller access.Context, id uuid.UUID) error {
	current, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if current == nil {
		return apperror.New(apperror.NotFound, "transação não encontrada")
	}
	if err := caller.CanMutateTransaction(current.CreatedByID); err != nil {
		return err
	}
	return s.store.Delete(ctx, id)
}

// GetFinancialSummary aggregates the ledger over a date range, scoped to the
// caller's own entries for dentists.
func (s *Service) GetFinancialSummary(ctx context.Context, caller access.Context, start, end *time.Time) (*Summary, error) {
	var createdBy *uuid.UUID
	if caller.ScopesToOwnRows() {
		createdBy = &caller.UserID
	}
	return s.store.Summarize(ctx, start, end, createdBy)
}

func parseDate(raw string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, apperror.Validationf("data inválida: %s", raw)
}
