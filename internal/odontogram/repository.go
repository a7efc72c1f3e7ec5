package odontogram

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/odontoflow/clinic-api/internal/database"
)

// Store persists the tooth chart, its audit history and the ledger entries
// billed from it. Mutating methods take a Querier so the service can run
// them inside one transaction.
type Store struct {
	pool database.Pool
}

func NewStore(pool database.Pool) *Store {
	if pool == nil {
		panic("odontogram: pgx pool required")
	}
	return &Store{pool: pool}
}

// Begin opens a transaction on the underlying pool.
func (s *Store) Begin(ctx context.Context) (pgx.Tx, error) {
	return s.pool.Begin(ctx)
}

const toothJoin = `
	SELECT t.id, t.patient_id, t.number, t.status, t.notes, t.last_procedure_id,
	       pr.id, pr.category, pr.name, pr.price,
	       t.created_at, t.updated_at
	FROM teeth t
	LEFT JOIN procedures pr ON pr.id = t.last_procedure_id`

func scanTooth(row pgx.Row, t *Tooth) error {
	var procID *uuid.UUID
	var procCategory, procName *string
	var procPrice *float64
	if err := row.Scan(&t.ID, &t.PatientID, &t.Number, &t.Status, &t.Notes, &t.LastProcedureID,
		&procID, &procCategory, &procName, &procPrice,
		&t.CreatedAt, &t.UpdatedAt); err != nil {
		return err
	}
	if procID != nil {
		t.LastProcedure = &ProcedureRef{ID: *procID, Category: *procCategory, Name: *procName, Price: *procPrice}
	}
	return nil
}

// ListByPatient returns the patient's chart ordered by tooth number.
func (s *Store) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]Tooth, error) {
	rows, err := s.pool.Query(ctx, toothJoin+`
		WHERE t.patient_id = $1 ORDER BY t.number ASC`, patientID)
	if err != nil {
		return nil, fmt.Errorf("odontogram: list teeth: %w", err)
	}
	defer rows.Close()

	out := []Tooth{}
	for rows.Next() {
		var t Tooth
		if err := scanTooth(rows, &t); err != nil {
			return nil, fmt.Errorf("odontogram: scan tooth: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// GetTooth returns one chart entry with its last procedure, or nil.
func (s *Store) GetTooth(ctx context.Context, patientID uuid.UUID, number int) (*Tooth, error) {
	var t Tooth
	err := scanTooth(s.pool.QueryRow(ctx, toothJoin+`
		WHERE t.patient_id = $1 AND t.number = $2`, patientID, number), &t)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("odontogram: load tooth: %w", err)
	}
	return &t, nil
}

// GetStatus returns the current status of a tooth, or nil when the tooth
// has never been charted. Runs on q so it participates in the caller's
// transaction.
func (s *Store) GetStatus(ctx context.Context, q database.Querier, patientID uuid.UUID, number int) (*string, error) {
	var status string
	err := q.QueryRow(ctx, `
		SELECT status FROM teeth WHERE patient_id = $1 AND number = $2`,
		patientID, number).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("odontogram: load status: %w", err)
	}
	return &status, nil
}

// GetProcedureName returns the procedure's display name, or nil when the
// procedure does not exist.
func (s *Store) GetProcedureName(ctx context.Context, q database.Querier, id uuid.UUID) (*string, error) {
	var name string
	err := q.QueryRow(ctx, `SELECT name FROM procedures WHERE id = $1`, id).Scan(&name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("odontogram: load procedure: %w", err)
	}
	return &name, nil
}

// InsertLedgerEntry creates the PENDING INCOME transaction billed for a
// charted procedure and returns its id.
func (s *Store) InsertLedgerEntry(ctx context.Context, q database.Querier, patientID, dentistID uuid.UUID, amount float64, description string) (uuid.UUID, error) {
	id := uuid.New()
	_, err := q.Exec(ctx, `
		INSERT INTO transactions (id, type, category, amount, description, status, patient_id, created_by)
		VALUES ($1, 'INCOME', 'PROCEDURE', $2, $3, 'PENDING', $4, $5)`,
		id, amount, description, patientID, dentistID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("odontogram: insert ledger entry: %w", err)
	}
	return id, nil
}

// InsertHistory appends the audit row for a chart update.
func (s *Store) InsertHistory(ctx context.Context, q database.Querier, patientID uuid.UUID, number int, previousStatus *string, newStatus string, notes *string, procedureID *uuid.UUID, amount *float64, dentistID uuid.UUID, transactionID *uuid.UUID) error {
	_, err := q.Exec(ctx, `
		INSERT INTO tooth_history (id, patient_id, tooth_number, previous_status, new_status, notes, procedure_id, amount, dentist_id, transaction_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		uuid.New(), patientID, number, previousStatus, newStatus, notes, procedureID, amount, dentistID, transactionID)
	if err != nil {
		return fmt.Errorf("odontogram: insert history: %w", err)
	}
	return nil
}

// UpsertTooth creates the chart entry or overwrites its status, notes and
// last-procedure reference.
func (s *Store) UpsertTooth(ctx context.Context, q database.Querier, patientID uuid.UUID, number int, status string, notes *string, procedureID *uuid.UUID) error {
	_, err := q.Exec(ctx, `
		INSERT INTO teeth (id, patient_id, number, status, notes, last_procedure_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (patient_id, number) DO UPDATE SET
		    status = EXCLUDED.status,
		    notes = EXCLUDED.notes,
		    last_procedure_id = EXCLUDED.last_procedure_id,
		    updated_at = now()`,
		uuid.New(), patientID, number, status, notes, procedureID)
	if err != nil {
		return fmt.Errorf("odontogram: upsert tooth: %w", err)
	}
	return nil
}

// ListHistory returns the audit rows for a tooth newest first, joined with
// procedure, dentist and ledger entry.
func (s *Store) ListHistory(ctx context.Context, patientID uuid.UUID, number int) ([]HistoryEntry, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT h.id, h.patient_id, h.tooth_number, h.previous_status, h.new_status, h.notes, h.amount,
		       pr.id, pr.category, pr.name, pr.price,
		       u.id, u.name,
		       tr.id, tr.amount, tr.description, tr.status,
		       h.created_at
		FROM tooth_history h
		JOIN users u ON u.id = h.dentist_id
		LEFT JOIN procedures pr ON pr.id = h.procedure_id
		LEFT JOIN transactions tr ON tr.id = h.transaction_id
		WHERE h.patient_id = $1 AND h.tooth_number = $2
		ORDER BY h.created_at DESC`, patientID, number)
	if err != nil {
		return nil, fmt.Errorf("odontogram: list history: %w", err)
	}
	defer rows.Close()

	out := []HistoryEntry{}
	for rows.Next() {
		var e HistoryEntry
		var procID *uuid.UUID
		var procCategory, procName *string
		var procPrice *float64
		var trID *uuid.UUID
		var trAmount *float64
		var trDescription, trStatus *string
		if err := rows.Scan(&e.ID, &e.PatientID, &e.ToothNumber, &e.PreviousStatus, &e.NewStatus, &e.Notes, &e.Amount,
			&procID, &procCategory, &procName, &procPrice,
			&e.Dentist.ID, &e.Dentist.Name,
			&trID, &trAmount, &trDescription, &trStatus,
			&e.CreatedAt); err != nil {
			return nil, fmt.Errorf("odontogram: scan history: %w", err)
		}
		if procID != nil {
			e.Procedure = &ProcedureRef{ID: *procID, Category: *procCategory, Name: *procName, Price: *procPrice}
		}
		if trID != nil {
			e.Transaction = &TransactionRef{ID: *trID, Amount: *trAmount, Description: *trDescription, Status: *trStatus}
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
