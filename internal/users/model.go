package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/odontoflow/clinic-api/internal/access"
)

// User is a staff member: admin, dentist or secretary.
type User struct {
	ID           uuid.UUID   `json:"id"`
	Name         string      `json:"name"`
	Email        string      `json:"email"`
	PasswordHash string      `json:"-"`
	Role         access.Role `json:"role"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// CreateInput carries the fields accepted when creating a user.
type CreateInput struct {
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     access.Role `json:"role"`
}

// UpdateInput carries the optional fields of a partial update.
type UpdateInput struct {
	Name     *string      `json:"name"`
	Email    *string      `json:"email"`
	Password *string      `json:"password"`
	Role     *access.Role `json:"role"`
}
