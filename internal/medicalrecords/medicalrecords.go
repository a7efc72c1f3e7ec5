// Package medicalrecords stores the append-only clinical notes per patient.
// Records are never updated or deleted.
package medicalrecords

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/odontoflow/clinic-api/internal/apperror"
	"github.com/odontoflow/clinic-api/internal/database"
)

// Record is one clinical note joined with display names.
type Record struct {
	ID          uuid.UUID `json:"id"`
	PatientID   uuid.UUID `json:"patientId"`
	DentistID   uuid.UUID `json:"dentistId"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	PatientName string    `json:"patientName"`
	DentistName string    `json:"dentistName"`
}

// CreateInput carries the fields accepted when appending a record.
type CreateInput struct {
	PatientID   uuid.UUID `json:"patientId"`
	DentistID   uuid.UUID `json:"dentistId"`
	Description string    `json:"description"`
}

// Store persists medical records in Postgres.
type Store struct {
	pool database.Pool
}

func NewStore(pool database.Pool) *Store {
	if pool == nil {
		panic("medicalrecords: pgx pool required")
	}
	return &Store{pool: pool}
}

const recordJoin = `
	SELECT m.id, m.patient_id, m.dentist_id, m.description, m.date, p.name, u.name
	FROM medical_records m
	JOIN patients p ON p.id = m.patient_id
	JOIN users u ON u.id = m.dentist_id`

func scanRecord(row pgx.Row, rec *Record) error {
	return row.Scan(&rec.ID, &rec.PatientID, &rec.DentistID, &rec.Description,
		&rec.Date, &rec.PatientName, &rec.DentistName)
}

// Insert appends a record and returns it joined with names.
func (s *Store) Insert(ctx context.Context, id, patientID, dentistID uuid.UUID, description string) (*Record, error) {
	var recordID uuid.UUID
	err := s.pool.QueryRow(ctx, `
		INSERT INTO medical_records (id, patient_id, dentist_id, description)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		id, patientID, dentistID, description).Scan(&recordID)
	if err != nil {
		return nil, fmt.Errorf("medicalrecords: insert: %w", err)
	}

	var rec Record
	if err := scanRecord(s.pool.QueryRow(ctx, recordJoin+` WHERE m.id = $1`, recordID), &rec); err != nil {
		return nil, fmt.Errorf("medicalrecords: load: %w", err)
	}
	return &rec, nil
}

// List returns records newest first. When patientID is set, only that
// patient's records are returned.
func (s *Store) List(ctx context.Context, patientID *uuid.UUID) ([]Record, error) {
	query := recordJoin
	args := []any{}
	if patientID != nil {
		query += ` WHERE m.patient_id = $1`
		args = append(args, *patientID)
	}
	query += ` ORDER BY m.date DESC`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("medicalrecords: list: %w", err)
	}
	defer rows.Close()

	out := []Record{}
	for rows.Next() {
		var rec Record
		if err := scanRecord(rows, &rec); err != nil {
			return nil, fmt.Errorf("medicalrecords: scan: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Service validates record creation.
type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*Record, error) {
	if in.PatientID == uuid.Nil || in.DentistID == uuid.Nil {
		return nil, apperror.New(apperror.Validation, "paciente e dentista são obrigatórios")
	}
	if len(in.Description) < 10 {
		return nil, apperror.New(apperror.Validation, "descrição deve ter no mínimo 10 caracteres")
	}
	return s.store.Insert(ctx, uuid.New(), in.PatientID, in.DentistID, in.Description)
}

func (s *Service) FindAll(ctx context.Context) ([]Record, error) {
	return s.store.List(ctx, nil)
}

func (s *Service) FindByPatient(ctx context.Context, patientID uuid.UUID) ([]Record, error) {
	return s.store.List(ctx, &patientID)
}
