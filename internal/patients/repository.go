package patients

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/odontoflow/clinic-api/internal/database"
)

// Store persists patients in Postgres.
type Store struct {
	pool database.Pool
}

func NewStore(pool database.Pool) *Store {
	if pool == nil {
		panic("patients: pgx pool required")
	}
	return &Store{pool: pool}
}

const patientColumns = `id, name, cpf, phone, email, address, birth_date, created_at, updated_at`

func scanPatient(row pgx.Row, p *Patient) error {
	return row.Scan(&p.ID, &p.Name, &p.CPF, &p.Phone, &p.Email, &p.Address, &p.BirthDate, &p.CreatedAt, &p.UpdatedAt)
}

// Insert persists a new patient. CPF uniqueness is enforced by the schema.
func (s *Store) Insert(ctx context.Context, p *Patient) error {
	err := scanPatient(s.pool.QueryRow(ctx, `
		INSERT INTO patients (id, name, cpf, phone, email, address, birth_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+patientColumns,
		p.ID, p.Name, p.CPF, p.Phone, p.Email, p.Address, p.BirthDate), p)
	if err != nil {
		return fmt.Errorf("patients: insert: %w", err)
	}
	return nil
}

// GetByCPF returns the patient with the given cpf, or nil when absent.
func (s *Store) GetByCPF(ctx context.Context, cpf string) (*Patient, error) {
	var p Patient
	err := scanPatient(s.pool.QueryRow(ctx, `
		SELECT `+patientColumns+` FROM patients WHERE cpf = $1`, cpf), &p)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("patients: load by cpf: %w", err)
	}
	return &p, nil
}

// GetByID returns the patient with the given id, or nil when absent.
func (s *Store) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	var p Patient
	err := scanPatient(s.pool.QueryRow(ctx, `
		SELECT `+patientColumns+` FROM patients WHERE id = $1`, id), &p)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("patients: load by id: %w", err)
	}
	return &p, nil
}

// List returns all patients ordered by name.
func (s *Store) List(ctx context.Context) ([]Patient, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+patientColumns+` FROM patients ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("patients: list: %w", err)
	}
	defer rows.Close()

	out := []Patient{}
	for rows.Next() {
		var p Patient
		if err := scanPatient(rows, &p); err != nil {
			return nil, fmt.Errorf("patients: scan: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Update overwrites the mutable fields of a patient.
func (s *Store) Update(ctx context.Context, p *Patient) error {
	err := scanPatient(s.pool.QueryRow(ctx, `
		UPDATE patients
		SET name = $2, phone = $3, email = $4, address = $5, birth_date = $6, updated_at = now()
		WHERE id = $1
		RETURNING `+patientColumns,
		p.ID, p.Name, p.Phone, p.Email, p.Address, p.BirthDate), p)
	if err != nil {
		return fmt.Errorf("patients: update: %w", err)
	}
	return nil
}

// ListAppointments returns summaries of the patient's appointments.
func (s *Store) ListAppointments(ctx context.Context, patientID uuid.UUID) ([]AppointmentSummary, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, date, status FROM appointments
		WHERE patient_id = $1 ORDER BY date ASC`, patientID)
	if err != nil {
		return nil, fmt.Errorf("patients: list appointments: %w", err)
	}
	defer rows.Close()

	out := []AppointmentSummary{}
	for rows.Next() {
		var a AppointmentSummary
		if err := rows.Scan(&a.ID, &a.Date, &a.Status); err != nil {
			return nil, fmt.Errorf("patients: scan appointment: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// ListRecords returns summaries of the patient's medical records.
func (s *Store) ListRecords(ctx context.Context, patientID uuid.UUID) ([]RecordSummary, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, date, description FROM medical_records
		WHERE patient_id = $1 ORDER BY date DESC`, patientID)
	if err != nil {
		return nil, fmt.Errorf("patients: list records: %w", err)
	}
	defer rows.Close()

	out := []RecordSummary{}
	for rows.Next() {
		var rec RecordSummary
		if err := rows.Scan(&rec.ID, &rec.Date, &rec.Description); err != nil {
			return nil, fmt.Errorf("patients: scan record: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
