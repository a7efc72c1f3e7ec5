// Package access centralizes the role and ownership rules that used to be
// scattered across services as inline role comparisons.
package access

import (
	"github.com/google/uuid"

	"github.com/odontoflow/clinic-api/internal/apperror"
)

// Role gates both route access and data visibility.
type Role string

const (
	RoleAdmin     Role = "ADMIN"
	RoleDentist   Role = "DENTIST"
	RoleSecretary Role = "SECRETARY"
)

// Valid reports whether r is one of the three staff roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleDentist, RoleSecretary:
		return true
	}
	return false
}

// Context identifies the authenticated caller for policy decisions.
type Context struct {
	UserID uuid.UUID
	Role   Role
}

// ScopesToOwnRows reports whether listings must be restricted to rows the
// caller created or is assigned to. Dentists see only their own data;
// admins and secretaries see everything.
func (c Context) ScopesToOwnRows() bool {
	return c.Role == RoleDentist
}

// CanMutateTransaction checks whether the caller may update or delete a
// ledger entry created by createdBy.
func (c Context) CanMutateTransaction(createdBy uuid.UUID) error {
	if c.Role == RoleDentist && createdBy != c.UserID {
		return apperror.New(apperror.Authorization, "você só pode alterar suas próprias transações")
	}
	return nil
}

// CanUpdateAppointment checks whether the caller may change the status of an
// appointment held by dentistID.
func (c Context) CanUpdateAppointment(dentistID uuid.UUID) error {
	if c.Role == RoleDentist && dentistID != c.UserID {
		return apperror.New(apperror.Authorization, "você só pode atualizar seus próprios agendamentos")
	}
	return nil
}

// CanUpdateOdontogram checks whether the caller may record tooth changes.
// Only dentists chart teeth; the route gate enforces the same rule.
func (c Context) CanUpdateOdontogram() error {
	if c.Role != RoleDentist {
		return apperror.New(apperror.Authorization, "apenas dentistas podem atualizar o odontograma")
	}
	return nil
}
