// Package procedures manages the clinic's price list.
package procedures

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/odontoflow/clinic-api/internal/apperror"
	"github.com/odontoflow/clinic-api/internal/database"
)

// Procedure is one billable item of the price list.
type Procedure struct {
	ID        uuid.UUID `json:"id"`
	Category  string    `json:"category"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreateInput carries the fields accepted when creating a procedure.
type CreateInput struct {
	Category string  `json:"category"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
}

// UpdateInput carries the optional fields of a partial update.
type UpdateInput struct {
	Category *string  `json:"category"`
	Name     *string  `json:"name"`
	Price    *float64 `json:"price"`
}

// Store persists procedures in Postgres.
type Store struct {
	pool database.Pool
}

func NewStore(pool database.Pool) *Store {
	if pool == nil {
		panic("procedures: pgx pool required")
	}
	return &Store{pool: pool}
}

const procedureColumns = `id, category, name, price, created_at, updated_at`

func scanProcedure(row pgx.Row, p *Procedure) error {
	return row.Scan(&p.ID, &p.Category, &p.Name, &p.Price, &p.CreatedAt, &p.UpdatedAt)
}

func (s *Store) Insert(ctx context.Context, p *Procedure) error {
	err := scanProcedure(s.pool.QueryRow(ctx, `
		INSERT INTO procedures (id, category, name, price)
		VALUES ($1, $2, $3, $4)
		RETURNING `+procedureColumns,
		p.ID, p.Category, p.Name, p.Price), p)
	if err != nil {
		return fmt.Errorf("procedures: insert: %w", err)
	}
	return nil
}

// GetByID returns the procedure with the given id, or nil when absent.
func (s *Store) GetByID(ctx context.Context, id uuid.UUID) (*Procedure, error) {
	var p Procedure
	err := scanProcedure(s.pool.QueryRow(ctx, `
		SELECT `+procedureColumns+` FROM procedures WHERE id = $1`, id), &p)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("procedures: load by id: %w", err)
	}
	return &p, nil
}

func (s *Store) List(ctx context.Context) ([]Procedure, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+procedureColumns+` FROM procedures ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("procedures: list: %w", err)
	}
	defer rows.Close()

	out := []Procedure{}
	for rows.Next() {
		var p Procedure
		if err := scanProcedure(rows, &p); err != nil {
			return nil, fmt.Errorf("procedures: scan: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) Update(ctx context.Context, p *Procedure) error {
	err := scanProcedure(s.pool.QueryRow(ctx, `
		UPDATE procedures
		SET category = $2, name = $3, price = $4, updated_at = now()
		WHERE id = $1
		RETURNING `+procedureColumns,
		p.ID, p.Category, p.Name, p.Price), p)
	if err != nil {
		return fmt.Errorf("procedures: update: %w", err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM procedures WHERE id = $1`, id); err != nil {
		return fmt.Errorf("procedures: delete: %w", err)
	}
	return nil
}

// Service validates price-list mutations.
type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

func (s *Service) FindAll(ctx context.Context) ([]Procedure, error) {
	return s.store.List(ctx)
}

func (s *Service) FindByID(ctx context.Context, id uuid.UUID) (*Procedure, error) {
	p, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperror.New(apperror.NotFound, "procedimento não encontrado")
	}
	return p, nil
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*Procedure, error) {
	if in.Category == "" {
		return nil, apperror.New(apperror.Validation, "categoria é obrigatória")
	}
	if in.Name == "" {
		return nil, apperror.New(apperror.Validation, "nome é obrigatório")
	}
	if in.Price < 0 {
		return nil, apperror.New(apperror.Validation, "preço deve ser maior ou igual a zero")
	}
	p := &Procedure{ID: uuid.New(), Category: in.Category, Name: in.Name, Price: in.Price}
	if err := s.store.Insert(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*Procedure, error) {
	p, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Category != nil {
		if *in.Category == "" {
			return nil, apperror.New(apperror.Validation, "categoria é obrigatória")
		}
		p.Category = *in.Category
	}
	if in.Name != nil {
		if *in.Name == "" {
			return nil, apperror.New(apperror.Validation, "nome é obrigatório")
		}
		p.Name = *in.Name
	}
	if in.Price != nil {
		if *in.Price < 0 {
			return nil, apperror.New(apperror.Validation, "preço deve ser maior ou igual a zero")
		}
		p.Price = *in.Price
	}
	if err := s.store.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.FindByID(ctx, id); err != nil {
		return err
	}
	return s.store.Delete(ctx, id)
}
