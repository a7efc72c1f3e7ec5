package transactions

import (
	"time"

	"github.com/google/uuid"
)

// Ledger entry types.
const (
	TypeIncome  = "INCOME"
	TypeExpense = "EXPENSE"
)

// Ledger entry statuses.
const (
	StatusPending  = "PENDING"
	StatusPaid     = "PAID"
	StatusCanceled = "CANCELED"
)

// ValidType reports whether t is INCOME or EXPENSE.
func ValidType(t string) bool {
	return t == TypeIncome || t == TypeExpense
}

// ValidStatus reports whether s is one of the ledger statuses.
func ValidStatus(s string) bool {
	return s == StatusPending || s == StatusPaid || s == StatusCanceled
}

// Transaction is one ledger entry joined with display names.
type Transaction struct {
	ID            uuid.UUID  `json:"id"`
	Type          string     `json:"type"`
	Category      string     `json:"category"`
	Amount        float64    `json:"amount"`
	Description   string     `json:"description"`
	Date          time.Time  `json:"date"`
	Status        string     `json:"status"`
	PatientID     *uuid.UUID `json:"patientId,omitempty"`
	AppointmentID *uuid.UUID `json:"appointmentId,omitempty"`
	CreatedByID   uuid.UUID  `json:"createdById"`
	PatientName   *string    `json:"patientName,omitempty"`
	CreatedByName string     `json:"createdByName"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// Filters narrows ledger listings and summaries.
type Filters struct {
	Type      string
	Category  string
	Status    string
	PatientID *uuid.UUID
	StartDate *time.Time
	EndDate   *time.Time
	// CreatedBy is forced by the service for dentist callers.
	CreatedBy *uuid.UUID
}

// CreateInput carries the fields accepted when creating a ledger entry.
type CreateInput struct {
	Type          string     `json:"type"`
	Category      string     `json:"category"`
	Amount        float64    `json:"amount"`
	Description   string     `json:"description"`
	Date          *string    `json:"date"`
	Status        string     `json:"status"`
	PatientID     *uuid.UUID `json:"patientId"`
	AppointmentID *uuid.UUID `json:"appointmentId"`
}

// UpdateInput carries the optional fields of a partial update.
type UpdateInput struct {
	Type          *string    `json:"type"`
	Category      *string    `json:"category"`
	Amount        *float64   `json:"amount"`
	Description   *string    `json:"description"`
	Date          *string    `json:"date"`
	Status        *string    `json:"status"`
	PatientID     *uuid.UUID `json:"patientId"`
	AppointmentID *uuid.UUID `json:"appointmentId"`
}

// Summary aggregates the ledger over a date range. Income, expenses,
// balance and totalTransactions cover PAID entries only; pendingIncome
// covers PENDING INCOME.
type Summary struct {
	Income            float64 `json:"income"`
	Expenses          float64 `json:"expenses"`
	Balance           float64 `json:"balance"`
	PendingIncome     float64 `json:"pendingIncome"`
	TotalTransactions int64   `json:"totalTransactions"`
}
