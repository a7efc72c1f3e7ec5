package odontogram

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/odontoflow/clinic-api/internal/access"
	"github.com/odontoflow/clinic-api/internal/apperror"
	"github.com/odontoflow/clinic-api/internal/observability/metrics"
	"github.com/odontoflow/clinic-api/pkg/logging"
)

var tracer = otel.Tracer("clinic.internal.odontogram")

// Service implements the chart update flow: status change, optional billing
// and the audit trail, committed as one unit.
type Service struct {
	store   *Store
	metrics *metrics.ClinicMetrics
	logger  *logging.Logger
}

func NewService(store *Store, m *metrics.ClinicMetrics, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{store: store, metrics: m, logger: logger}
}

// GetPatientOdontogram returns the patient's chart ordered by tooth number.
func (s *Service) GetPatientOdontogram(ctx context.Context, patientID uuid.UUID) ([]Tooth, error) {
	return s.store.ListByPatient(ctx, patientID)
}

// UpdateTooth records a status change for one tooth. Inside a single
// transaction it captures the prior status, bills the procedure as a
// PENDING INCOME ledger entry when procedureId and a positive amount are
// supplied, appends the audit row referencing that entry, and upserts the
// chart. A failure at any step rolls everything back.
func (s *Service) UpdateTooth(ctx context.Context, caller access.Context, patientID uuid.UUID, in UpdateToothInput) (_ *Tooth, err error) {
	ctx, span := tracer.Start(ctx, "odontogram.update_tooth")
	defer func() {
		if err != nil {
			span.RecordError(err)
		}
		span.End()
	}()
	span.SetAttributes(
		attribute.String("clinic.patient_id", patientID.String()),
		attribute.Int("clinic.tooth_number", in.Number),
		attribute.String("clinic.tooth_status", in.Status),
	)

	if err := caller.CanUpdateOdontogram(); err != nil {
		return nil, err
	}
	if !ValidNumber(in.Number) {
		return nil, apperror.Validationf("número de dente inválido: %d", in.Number)
	}
	if !ValidStatus(in.Status) {
		return nil, apperror.Validationf("status de dente inválido: %s", in.Status)
	}
	if in.Amount != nil && *in.Amount < 0 {
		return nil, apperror.New(apperror.Validation, "valor deve ser maior ou igual a zero")
	}

	tx, err := s.store.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("odontogram: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	previousStatus, err := s.store.GetStatus(ctx, tx, patientID, in.Number)
	if err != nil {
		return nil, err
	}

	var transactionID *uuid.UUID
	billed := in.ProcedureID != nil && in.Amount != nil && *in.Amount > 0
	if billed {
		// A stale procedure id from a cached price list is not fatal;
		// the ledger entry falls back to a generic description.
		name, err := s.store.GetProcedureName(ctx, tx, *in.ProcedureID)
		if err != nil {
			return nil, err
		}
		description := "Procedimento"
		if name != nil {
			description = *name
		}
		description = fmt.Sprintf("%s - Dente %d", description, in.Number)

		id, err := s.store.InsertLedgerEntry(ctx, tx, patientID, caller.UserID, *in.Amount, description)
		if err != nil {
			return nil, err
		}
		transactionID = &id
	}

	if err := s.store.InsertHistory(ctx, tx, patientID, in.Number, previousStatus, in.Status, in.Notes, in.ProcedureID, in.Amount, caller.UserID, transactionID); err != nil {
		return nil, err
	}

	if err := s.store.UpsertTooth(ctx, tx, patientID, in.Number, in.Status, in.Notes, in.ProcedureID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("odontogram: commit tx: %w", err)
	}

	s.metrics.ObserveToothUpdate(in.Status, billed)
	s.logger.Info("tooth updated",
		"patient_id", patientID,
		"tooth", in.Number,
		"status", in.Status,
		"billed", billed,
	)

	return s.store.GetTooth(ctx, patientID, in.Number)
}

// GetToothHistory returns the audit rows for one tooth, newest first.
func (s *Service) GetToothHistory(ctx context.Context, patientID uuid.UUID, number int) ([]HistoryEntry, error) {
	if !ValidNumber(number) {
		return nil, apperror.Validationf("número de dente inválido: %d", number)
	}
	return s.store.ListHistory(ctx, patientID, number)
}
