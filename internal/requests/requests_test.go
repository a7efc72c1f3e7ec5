package requests

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v3"

	"github.com/odontoflow/clinic-api/internal/apperror"
)

func newMockService(t *testing.T) (*Service, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	t.Cleanup(mock.Close)
	return NewService(&Store{pool: mock}, nil), mock
}

func requestRow(id uuid.UUID, status string) *pgxmock.Rows {
	now := time.Now()
	return pgxmock.NewRows([]string{"id", "name", "phone", "email", "preferred_date", "reason", "status", "created_at", "updated_at"}).
		AddRow(id, "Carlos Lima", "11988887777", (*string)(nil), now, (*string)(nil), status, now, now)
}

func TestCreateValidation(t *testing.T) {
	svc, _ := newMockService(t)
	ctx := context.Background()

	cases := []struct {
		name string
		in   CreateInput
	}{
		{"short name", CreateInput{Name: "Ca", Phone: "11988887777", PreferredDate: "2026-04-01"}},
		{"missing phone", CreateInput{Name: "Carlos Lima", PreferredDate: "2026-04-01"}},
		{"bad date", CreateInput{Name: "Carlos Lima", Phone: "11988887777", PreferredDate: "01/04/2026"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tc.in)
			if apperror.KindOf(err) != apperror.Validation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestCreateStartsPending(t *testing.T) {
	svc, mock := newMockService(t)
	id := uuid.New()

	mock.ExpectExec("INSERT INTO appointment_requests").
		WithArgs(pgxmock.AnyArg(), "Carlos Lima", "11988887777", (*string)(nil), pgxmock.AnyArg(), (*string)(nil), StatusPending).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectQuery("SELECT id, name, phone").
		WithArgs(pgxmock.AnyArg()).
		WillReturnRows(requestRow(id, StatusPending))

	created, err := svc.Create(context.Background(), CreateInput{
		Name: "Carlos Lima", Phone: "11988887777", PreferredDate: "2026-04-01",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Status != StatusPending {
		t.Fatalf("status = %q, want PENDING", created.Status)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpdateStatusRejectsUnknown(t *testing.T) {
	svc, _ := newMockService(t)
	_, err := svc.UpdateStatus(context.Background(), uuid.New(), "MAYBE")
	if apperror.KindOf(err) != apperror.Validation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateStatusNotFound(t *testing.T) {
	svc, mock := newMockService(t)
	id := uuid.New()

	mock.ExpectQuery("SELECT id, name, phone").
		WithArgs(id).
		WillReturnError(pgx.ErrNoRows)

	_, err := svc.UpdateStatus(context.Background(), id, StatusApproved)
	if apperror.KindOf(err) != apperror.NotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateStatusApproves(t *testing.T) {
	svc, mock := newMockService(t)
	id := uuid.New()

	mock.ExpectQuery("SELECT id, name, phone").
		WithArgs(id).
		WillReturnRows(requestRow(id, StatusPending))
	mock.ExpectExec("UPDATE appointment_requests").
		WithArgs(id, StatusApproved).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectQuery("SELECT id, name, phone").
		WithArgs(id).
		WillReturnRows(requestRow(id, StatusApproved))

	updated, err := svc.UpdateStatus(context.Background(), id, StatusApproved)
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if updated.Status != StatusApproved {
		t.Fatalf("status = %q, want APPROVED", updated.Status)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
