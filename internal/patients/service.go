package patients

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/odontoflow/clinic-api/internal/apperror"
	"github.com/odontoflow/clinic-api/internal/database"
)

// Service wraps patient CRUD with cpf uniqueness and date parsing.
type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*Patient, error) {
	if len(in.Name) < 3 {
		return nil, apperror.New(apperror.Validation, "nome deve ter no mínimo 3 caracteres")
	}
	if len(in.CPF) != 11 {
		return nil, apperror.New(apperror.Validation, "cpf deve ter 11 dígitos")
	}
	if in.Phone == "" {
		return nil, apperror.New(apperror.Validation, "telefone é obrigatório")
	}
	birthDate, err := parseDate(in.BirthDate)
	if err != nil {
		return nil, apperror.New(apperror.Validation, "data de nascimento inválida")
	}

	existing, err := s.store.GetByCPF(ctx, in.CPF)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.New(apperror.Conflict, "paciente já existe")
	}

	p := &Patient{
		ID:        uuid.New(),
		Name:      in.Name,
		CPF:       in.CPF,
		Phone:     in.Phone,
		Email:     in.Email,
		Address:   in.Address,
		BirthDate: birthDate,
	}
	if err := s.store.Insert(ctx, p); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, apperror.New(apperror.Conflict, "paciente já existe")
		}
		return nil, err
	}
	return p, nil
}

func (s *Service) List(ctx context.Context) ([]Patient, error) {
	return s.store.List(ctx)
}

// Get returns a patient joined with its appointments and medical records.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Detail, error) {
	p, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperror.New(apperror.NotFound, "paciente não encontrado")
	}
	appointments, err := s.store.ListAppointments(ctx, id)
	if err != nil {
		return nil, err
	}
	records, err := s.store.ListRecords(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Detail{Patient: *p, Appointments: appointments, MedicalRecords: records}, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*Patient, error) {
	p, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperror.New(apperror.NotFound, "paciente não encontrado")
	}

	if in.Name != nil {
		if len(*in.Name) < 3 {
			return nil, apperror.New(apperror.Validation, "nome deve ter no mínimo 3 caracteres")
		}
		p.Name = *in.Name
	}
	if in.Phone != nil {
		p.Phone = *in.Phone
	}
	if in.Email != nil {
		p.Email = in.Email
	}
	if in.Address != nil {
		p.Address = in.Address
	}
	if in.BirthDate != nil {
		birthDate, err := parseDate(*in.BirthDate)
		if err != nil {
			return nil, apperror.New(apperror.Validation, "data de nascimento inválida")
		}
		p.BirthDate = birthDate
	}

	if err := s.store.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// parseDate accepts the two formats the UI sends: full RFC 3339 timestamps
// and bare yyyy-mm-dd dates.
func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}
