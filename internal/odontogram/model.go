package odontogram

import (
	"time"

	"github.com/google/uuid"
)

// Tooth statuses tracked on the chart.
const (
	StatusHealthy   = "HEALTHY"
	StatusCavity    = "CAVITY"
	StatusRestored  = "RESTORED"
	StatusMissing   = "MISSING"
	StatusCanal     = "CANAL"
	StatusProthesis = "PROTHESIS"
)

// ValidStatus reports whether s is one of the known tooth statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusHealthy, StatusCavity, StatusRestored, StatusMissing, StatusCanal, StatusProthesis:
		return true
	}
	return false
}

// ValidNumber reports whether n is a permanent-dentition code: two digits,
// quadrant 1-4 and position 1-8 (11-18, 21-28, 31-38, 41-48).
func ValidNumber(n int) bool {
	quadrant, position := n/10, n%10
	return quadrant >= 1 && quadrant <= 4 && position >= 1 && position <= 8
}

// ProcedureRef is the price-list slice attached to teeth and history rows.
type ProcedureRef struct {
	ID       uuid.UUID `json:"id"`
	Category string    `json:"category"`
	Name     string    `json:"name"`
	Price    float64   `json:"price"`
}

// DentistRef identifies the dentist who recorded a change.
type DentistRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// TransactionRef is the ledger slice attached to history rows.
type TransactionRef struct {
	ID          uuid.UUID `json:"id"`
	Amount      float64   `json:"amount"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
}

// Tooth is one chart entry, at most one per patient and tooth number.
type Tooth struct {
	ID              uuid.UUID     `json:"id"`
	PatientID       uuid.UUID     `json:"patientId"`
	Number          int           `json:"number"`
	Status          string        `json:"status"`
	Notes           *string       `json:"notes,omitempty"`
	LastProcedureID *uuid.UUID    `json:"lastProcedureId,omitempty"`
	LastProcedure   *ProcedureRef `json:"lastProcedure,omitempty"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt"`
}

// HistoryEntry is one immutable audit row of a tooth's status changes.
type HistoryEntry struct {
	ID             uuid.UUID       `json:"id"`
	PatientID      uuid.UUID       `json:"patientId"`
	ToothNumber    int             `json:"toothNumber"`
	PreviousStatus *string         `json:"previousStatus,omitempty"`
	NewStatus      string          `json:"newStatus"`
	Notes          *string         `json:"notes,omitempty"`
	Amount         *float64        `json:"amount,omitempty"`
	Procedure      *ProcedureRef   `json:"procedure,omitempty"`
	Dentist        DentistRef      `json:"dentist"`
	Transaction    *TransactionRef `json:"transaction,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// UpdateToothInput carries a chart update request.
type UpdateToothInput struct {
	Number      int        `json:"number"`
	Status      string     `json:"status"`
	Notes       *string    `json:"notes"`
	ProcedureID *uuid.UUID `json:"procedureId"`
	Amount      *float64   `json:"amount"`
}
