package users

import (
	"context"
	"net/mail"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/odontoflow/clinic-api/internal/apperror"
	"github.com/odontoflow/clinic-api/internal/database"
)

// Service wraps user CRUD with the validation and deletion guards the
// controllers rely on.
type Service struct {
	store      *Store
	bcryptCost int
}

func NewService(store *Store, bcryptCost int) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{store: store, bcryptCost: bcryptCost}
}

func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.store.List(ctx)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*User, error) {
	u, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperror.New(apperror.NotFound, "usuário não encontrado")
	}
	return u, nil
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*User, error) {
	if err := validateCreate(in); err != nil {
		return nil, err
	}

	existing, err := s.store.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.New(apperror.Conflict, "email já está em uso")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, err
	}

	u := &User{
		ID:           uuid.New(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         in.Role,
	}
	if err := s.store.Insert(ctx, u); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, apperror.New(apperror.Conflict, "email já está em uso")
		}
		return nil, err
	}
	return u, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*User, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Email != nil && *in.Email != u.Email {
		if _, err := mail.ParseAddress(*in.Email); err != nil {
			return nil, apperror.New(apperror.Validation, "email inválido")
		}
		existing, err := s.store.GetByEmail(ctx, *in.Email)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != id {
			return nil, apperror.New(apperror.Conflict, "email já está em uso")
		}
		u.Email = *in.Email
	}
	if in.Name != nil {
		if len(*in.Name) < 3 {
			return nil, apperror.New(apperror.Validation, "nome deve ter no mínimo 3 caracteres")
		}
		u.Name = *in.Name
	}
	if in.Role != nil {
		if !in.Role.Valid() {
			return nil, apperror.New(apperror.Validation, "perfil inválido")
		}
		u.Role = *in.Role
	}
	if in.Password != nil {
		if len(*in.Password) < 6 {
			return nil, apperror.New(apperror.Validation, "senha deve ter no mínimo 6 caracteres")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), s.bcryptCost)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = string(hash)
	}

	if err := s.store.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Delete removes a user unless appointments or medical records still
// reference it.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	appointments, records, err := s.store.CountOwned(ctx, id)
	if err != nil {
		return err
	}
	if appointments > 0 || records > 0 {
		return apperror.New(apperror.Conflict, "não é possível deletar usuário com agendamentos ou prontuários associados")
	}
	return s.store.Delete(ctx, id)
}

func validateCreate(in CreateInput) error {
	if len(in.Name) < 3 {
		return apperror.New(apperror.Validation, "nome deve ter no mínimo 3 caracteres")
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return apperror.New(apperror.Validation, "email inválido")
	}
	if len(in.Password) < 6 {
		return apperror.New(apperror.Validation, "senha deve ter no mínimo 6 caracteres")
	}
	if !in.Role.Valid() {
		return apperror.New(apperror.Validation, "perfil inválido")
	}
	return nil
}
