package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/odontoflow/clinic-api/internal/database"
)

// Store persists users in Postgres.
type Store struct {
	pool database.Pool
}

func NewStore(pool database.Pool) *Store {
	if pool == nil {
		panic("users: pgx pool required")
	}
	return &Store{pool: pool}
}

const userColumns = `id, name, email, password_hash, role, created_at, updated_at`

func scanUser(row pgx.Row, u *User) error {
	return row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt)
}

// Insert persists a new user. Email uniqueness is enforced by the schema.
func (s *Store) Insert(ctx context.Context, u *User) error {
	err := scanUser(s.pool.QueryRow(ctx, `
		INSERT INTO users (id, name, email, password_hash, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+userColumns,
		u.ID, u.Name, u.Email, u.PasswordHash, u.Role), u)
	if err != nil {
		return fmt.Errorf("users: insert: %w", err)
	}
	return nil
}

// GetByEmail returns the user with the given email, or nil when absent.
func (s *Store) GetByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := scanUser(s.pool.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users WHERE email = $1`, email), &u)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("users: load by email: %w", err)
	}
	return &u, nil
}

// GetByID returns the user with the given id, or nil when absent.
func (s *Store) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	var u User
	err := scanUser(s.pool.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users WHERE id = $1`, id), &u)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("users: load by id: %w", err)
	}
	return &u, nil
}

// List returns all users ordered by name.
func (s *Store) List(ctx context.Context) ([]User, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+userColumns+` FROM users ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("users: list: %w", err)
	}
	defer rows.Close()

	out := []User{}
	for rows.Next() {
		var u User
		if err := scanUser(rows, &u); err != nil {
			return nil, fmt.Errorf("users: scan: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// Update overwrites the mutable fields of a user.
func (s *Store) Update(ctx context.Context, u *User) error {
	err := scanUser(s.pool.QueryRow(ctx, `
		UPDATE users
		SET name = $2, email = $3, password_hash = $4, role = $5, updated_at = now()
		WHERE id = $1
		RETURNING `+userColumns,
		u.ID, u.Name, u.Email, u.PasswordHash, u.Role), u)
	if err != nil {
		return fmt.Errorf("users: update: %w", err)
	}
	return nil
}

// Delete removes a user row.
func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id); err != nil {
		return fmt.Errorf("users: delete: %w", err)
	}
	return nil
}

// CountOwned returns how many appointments and medical records reference the
// user as dentist. Deletion is blocked while either count is non-zero.
func (s *Store) CountOwned(ctx context.Context, id uuid.UUID) (appointments, records int64, err error) {
	err = s.pool.QueryRow(ctx, `
		SELECT
			(SELECT count(*) FROM appointments WHERE dentist_id = $1),
			(SELECT count(*) FROM medical_records WHERE dentist_id = $1)`,
		id).Scan(&appointments, &records)
	if err != nil {
		return 0, 0, fmt.Errorf("users: count owned: %w", err)
	}
	return appointments, records, nil
}
