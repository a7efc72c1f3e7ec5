package appointments

import (
	"time"

	"github.com/google/uuid"
)

// Appointment statuses. Any status may follow any status; the schedule flow
// is driven by the reception desk, not a state machine.
const (
	StatusAwaitingReception = "AWAITING_RECEPTION"
	StatusScheduled         = "SCHEDULED"
	StatusInProgress        = "IN_PROGRESS"
	StatusConfirmed         = "CONFIRMED"
	StatusCompleted         = "COMPLETED"
	StatusCanceled          = "CANCELED"
	StatusNoShow            = "NO_SHOW"
)

// ValidStatus reports whether s is one of the known appointment statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusAwaitingReception, StatusScheduled, StatusInProgress,
		StatusConfirmed, StatusCompleted, StatusCanceled, StatusNoShow:
		return true
	}
	return false
}

// Appointment is a scheduled visit joined with display names.
type Appointment struct {
	ID          uuid.UUID `json:"id"`
	PatientID   uuid.UUID `json:"patientId"`
	DentistID   uuid.UUID `json:"dentistId"`
	Date        time.Time `json:"date"`
	Status      string    `json:"status"`
	Notes       *string   `json:"notes,omitempty"`
	PatientName string    `json:"patientName"`
	DentistName string    `json:"dentistName"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CreateInput carries the fields accepted when booking an appointment.
type CreateInput struct {
	PatientID uuid.UUID `json:"patientId"`
	DentistID uuid.UUID `json:"dentistId"`
	Date      string    `json:"date"`
	Notes     *string   `json:"notes"`
}
