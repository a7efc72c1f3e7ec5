package appointments

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/odontoflow/clinic-api/internal/access"
	"github.com/odontoflow/clinic-api/internal/apperror"
)

// Service implements the booking rules: exact-timestamp conflicts and
// dentist ownership of status updates.
type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*Appointment, error) {
	if in.PatientID == uuid.Nil || in.DentistID == uuid.Nil {
		return nil, apperror.New(apperror.Validation, "paciente e dentista são obrigatórios")
	}
	date, err := time.Parse(time.RFC3339, in.Date)
	if err != nil {
		return nil, apperror.New(apperror.Validation, "data inválida")
	}

	conflict, err := s.store.HasConflict(ctx, in.DentistID, date)
	if err != nil {
		return nil, err
	}
	if conflict {
		return nil, apperror.New(apperror.Conflict, "dentista não está disponível neste horário")
	}

	return s.store.Insert(ctx, uuid.New(), in.PatientID, in.DentistID, date, in.Notes)
}

// FindAll lists appointments visible to the caller: dentists see only
// their own, other roles see everything.
func (s *Service) FindAll(ctx context.Context, caller access.Context) ([]Appointment, error) {
	if caller.ScopesToOwnRows() {
		return s.store.List(ctx, &caller.UserID)
	}
	return s.store.List(ctx, nil)
}

// FindByDentist lists one dentist's appointments regardless of caller.
func (s *Service) FindByDentist(ctx context.Context, dentistID uuid.UUID) ([]Appointment, error) {
	return s.store.List(ctx, &dentistID)
}

// UpdateStatus sets the appointment status. Dentists may only touch their
// own appointments; no transition rules are enforced beyond that.
func (s *Service) UpdateStatus(ctx context.Context, caller access.Context, id uuid.UUID, status string) (*Appointment, error) {
	if !ValidStatus(status) {
		return nil, apperror.New(apperror.Validation, "status inválido")
	}

	dentistID, err := s.store.GetDentistID(ctx, id)
	if err != nil {
		return nil, err
	}
	if dentistID == uuid.Nil {
		return nil, apperror.New(apperror.NotFound, "agendamento não encontrado")
	}
	if err := caller.CanUpdateAppointment(dentistID); err != nil {
		return nil, err
	}

	return s.store.UpdateStatus(ctx, id, status)
}
