package appointments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/odontoflow/clinic-api/internal/database"
)

// Store persists appointments in Postgres.
type Store struct {
	pool database.Pool
}

func NewStore(pool database.Pool) *Store {
	if pool == nil {
		panic("appointments: pgx pool required")
	}
	return &Store{pool: pool}
}

const appointmentJoin = `
	SELECT a.id, a.patient_id, a.dentist_id, a.date, a.status, a.notes,
	       p.name, u.name, a.created_at, a.updated_at
	FROM appointments a
	JOIN patients p ON p.id = a.patient_id
	JOIN users u ON u.id = a.dentist_id`

func scanAppointment(row pgx.Row, a *Appointment) error {
	return row.Scan(&a.ID, &a.PatientID, &a.DentistID, &a.Date, &a.Status, &a.Notes,
		&a.PatientName, &a.DentistName, &a.CreatedAt, &a.UpdatedAt)
}

// HasConflict reports whether the dentist already holds a non-canceled
// appointment at the exact timestamp.
func (s *Store) HasConflict(ctx context.Context, dentistID uuid.UUID, date time.Time) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM appointments
			WHERE dentist_id = $1 AND date = $2 AND status <> 'CANCELED'
		)`, dentistID, date).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("appointments: conflict check: %w", err)
	}
	return exists, nil
}

// Insert persists a new appointment and returns it joined with names.
func (s *Store) Insert(ctx context.Context, id, patientID, dentistID uuid.UUID, date time.Time, notes *string) (*Appointment, error) {
	var appointmentID uuid.UUID
	err := s.pool.QueryRow(ctx, `
		INSERT INTO appointments (id, patient_id, dentist_id, date, notes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		id, patientID, dentistID, date, notes).Scan(&appointmentID)
	if err != nil {
		return nil, fmt.Errorf("appointments: insert: %w", err)
	}
	return s.GetByID(ctx, appointmentID)
}

// GetByID returns an appointment joined with names, or nil when absent.
func (s *Store) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	var a Appointment
	err := scanAppointment(s.pool.QueryRow(ctx, appointmentJoin+` WHERE a.id = $1`, id), &a)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("appointments: load by id: %w", err)
	}
	return &a, nil
}

// List returns appointments ordered by date. When dentistID is set, only
// that dentist's appointments are returned.
func (s *Store) List(ctx context.Context, dentistID *uuid.UUID) ([]Appointment, error) {
	query := appointmentJoin
	args := []any{}
	if dentistID != nil {
		query += ` WHERE a.dentist_id = $1`
		args = append(args, *dentistID)
	}
	query += ` ORDER BY a.date ASC`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("appointments: list: %w", err)
	}
	defer rows.Close()

	out := []Appointment{}
	for rows.Next() {
		var a Appointment
		if err := scanAppointment(rows, &a); err != nil {
			return nil, fmt.Errorf("appointments: scan: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// GetDentistID returns the dentist holding the appointment, or uuid.Nil
// when the appointment does not exist.
func (s *Store) GetDentistID(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	var dentistID uuid.UUID
	err := s.pool.QueryRow(ctx, `
		SELECT dentist_id FROM appointments WHERE id = $1`, id).Scan(&dentistID)
	if errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, nil
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("appointments: load dentist: %w", err)
	}
	return dentistID, nil
}

// UpdateStatus overwrites an appointment's status.
func (s *Store) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*Appointment, error) {
	if _, err := s.pool.Exec(ctx, `
		UPDATE appointments SET status = $2, updated_at = now() WHERE id = $1`,
		id, status); err != nil {
		return nil, fmt.Errorf("appointments: update status: %w", err)
	}
	return s.GetByID(ctx, id)
}
