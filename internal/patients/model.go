package patients

import (
	"time"

	"github.com/google/uuid"
)

// Patient is a clinic patient record.
type Patient struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CPF       string    `json:"cpf"`
	Phone     string    `json:"phone"`
	Email     *string   `json:"email,omitempty"`
	Address   *string   `json:"address,omitempty"`
	BirthDate time.Time `json:"birthDate"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AppointmentSummary is the slice of an appointment shown on the patient
// detail view.
type AppointmentSummary struct {
	ID     uuid.UUID `json:"id"`
	Date   time.Time `json:"date"`
	Status string    `json:"status"`
}

// RecordSummary is the slice of a medical record shown on the patient
// detail view.
type RecordSummary struct {
	ID          uuid.UUID `json:"id"`
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
}

// Detail is a patient joined with its appointments and medical records.
type Detail struct {
	Patient
	Appointments   []AppointmentSummary `json:"appointments"`
	MedicalRecords []RecordSummary      `json:"medicalRecords"`
}

// CreateInput carries the fields accepted when registering a patient.
type CreateInput struct {
	Name      string  `json:"name"`
	CPF       string  `json:"cpf"`
	Phone     string  `json:"phone"`
	Email     *string `json:"email"`
	Address   *string `json:"address"`
	BirthDate string  `json:"birthDate"`
}

// UpdateInput carries the optional fields of a partial update.
type UpdateInput struct {
	Name      *string `json:"name"`
	Phone     *string `json:"phone"`
	Email     *string `json:"email"`
	Address   *string `json:"address"`
	BirthDate *string `json:"birthDate"`
}
