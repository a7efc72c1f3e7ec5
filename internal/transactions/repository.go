package transactions

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/odontoflow/clinic-api/internal/database"
)

// Store persists ledger entries.
type Store struct {
	pool database.Pool
}

func NewStore(pool database.Pool) *Store {
	if pool == nil {
		panic("transactions: pgx pool required")
	}
	return &Store{pool: pool}
}

const transactionJoin = `
	SELECT t.id, t.type, t.category, t.amount, t.description, t.date, t.status,
	       t.patient_id, t.appointment_id, t.created_by,
	       p.name, u.name,
	       t.created_at, t.updated_at
	FROM transactions t
	JOIN users u ON u.id = t.created_by
	LEFT JOIN patients p ON p.id = t.patient_id`

func scanTransaction(row pgx.Row, t *Transaction) error {
	return row.Scan(&t.ID, &t.Type, &t.Category, &t.Amount, &t.Description, &t.Date, &t.Status,
		&t.PatientID, &t.AppointmentID, &t.CreatedByID,
		&t.PatientName, &t.CreatedByName,
		&t.CreatedAt, &t.UpdatedAt)
}

// List returns ledger entries matching the filters, newest first.
func (s *Store) List(ctx context.Context, f Filters) ([]Transaction, error) {
	var where []string
	var args []any
	add := func(clause string, value any) {
		args = append(args, value)
		where = append(where, fmt.Sprintf(clause, len(args)))
	}
	if f.Type != "" {
		add("t.type = $%d", f.Type)
	}
	if f.Category != "" {
		add("t.category = $%d", f.Category)
	}
	if f.Status != "" {
		add("t.status = $%d", f.Status)
	}
	if f.PatientID != nil {
		add("t.patient_id = $%d", *f.PatientID)
	}
	if f.StartDate != nil {
		add("t.date >= $%d", *f.StartDate)
	}
	if f.EndDate != nil {
		add("t.date <= $%d", *f.EndDate)
	}
	if f.CreatedBy != nil {
		add("t.created_by = $%d", *f.CreatedBy)
	}

	query := transactionJoin
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY t.date DESC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("transactions: list: %w", err)
	}
	defer rows.Close()

	out := []Transaction{}
	for rows.Next() {
		var t Transaction
		if err := scanTransaction(rows, &t); err != nil {
			return nil, fmt.Errorf("transactions: scan: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// GetByID returns one ledger entry, or nil when absent.
func (s *Store) GetByID(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	var t Transaction
	err := scanTransaction(s.pool.QueryRow(ctx, transactionJoin+` WHERE t.id = $1`, id), &t)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("transactions: load: %w", err)
	}
	return &t, nil
}

// Insert creates a ledger entry and returns it joined with display names.
func (s *Store) Insert(ctx context.Context, t Transaction) (*Transaction, error) {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO transactions (id, type, category, amount, description, date, status, patient_id, appointment_id, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		t.ID, t.Type, t.Category, t.Amount, t.Description, t.Date, t.Status, t.PatientID, t.AppointmentID, t.CreatedByID)
	if err != nil {
		return nil, fmt.Errorf("transactions: insert: %w", err)
	}
	return s.GetByID(ctx, t.ID)
}

// Update overwrites the mutable columns of a ledger entry.
func (s *Store) Update(ctx context.Context, t Transaction) (*Transaction, error) {
	_, err := s.pool.Exec(ctx, `
		UPDATE transactions
		SET type = $2, category = $3, amount = $4, description = $5, date = $6,
		    status = $7, patient_id = $8, appointment_id = $9, updated_at = now()
		WHERE id = $1`,
		t.ID, t.Type, t.Category, t.Amount, t.Description, t.Date, t.Status, t.PatientID, t.AppointmentID)
	if err != nil {
		return nil, fmt.Errorf("transactions: update: %w", err)
	}
	return s.GetByID(ctx, t.ID)
}

// Delete removes a ledger entry.
func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM transactions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("transactions: delete: %w", err)
	}
	return nil
}

// Summarize aggregates the ledger over an optional date range, optionally
// restricted to entries created by one user.
func (s *Store) Summarize(ctx context.Context, start, end *time.Time, createdBy *uuid.UUID) (*Summary, error) {
	var where []string
	var args []any
	add := func(clause string, value any) {
		args = append(args, value)
		where = append(where, fmt.Sprintf(clause, len(args)))
	}
	if start != nil {
		add("date >= $%d", *start)
	}
	if end != nil {
		add("date <= $%d", *end)
	}
	if createdBy != nil {
		add("created_by = $%d", *createdBy)
	}

	query := `
		SELECT COALESCE(SUM(amount) FILTER (WHERE status = 'PAID' AND type = 'INCOME'), 0),
		       COALESCE(SUM(amount) FILTER (WHERE status = 'PAID' AND type = 'EXPENSE'), 0),
		       COALESCE(SUM(amount) FILTER (WHERE status = 'PENDING' AND type = 'INCOME'), 0),
		       COUNT(*) FILTER (WHERE status = 'PAID')
		FROM transactions`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}

	var sum Summary
	err := s.pool.QueryRow(ctx, query, args...).Scan(&sum.Income, &sum.Expenses, &sum.PendingIncome, &sum.TotalTransactions)
	if err != nil {
		return nil, fmt.Errorf("transactions: summarize: %w", err)
	}
	sum.Balance = sum.Income - sum.Expenses
	return &sum, nil
}
