package transactions

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v3"

	"github.com/odontoflow/clinic-api/internal/access"
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

func transactionRow(id, createdBy uuid.UUID, txType string, amount float64, status string) *pgxmock.Rows {
	now := time.Now()
	return pgxmock.NewRows([]string{"id", "type", "category", "amount", "description", "date", "status",
		"patient_id", "appointment_id", "created_by", "patient_name", "created_by_name", "created_at", "updated_at"}).
		AddRow(id, txType, "PROCEDURE", amount, "Limpeza", now, status,
			(*uuid.UUID)(nil), (*uuid.UUID)(nil), createdBy, (*string)(nil), "Dr. Carlos", now, now)
}

func TestCreateValidation(t *testing.T) {
	svc, _ := newMockService(t)
	caller := access.Context{UserID: uuid.New(), Role: access.RoleAdmin}
	ctx := context.Background()

	cases := []struct {
		name string
		in   CreateInput
	}{
		{"bad type", CreateInput{Type: "TRANSFER", Category: "OTHER", Amount: 10}},
		{"missing category", CreateInput{Type: TypeIncome, Amount: 10}},
		{"zero amount", CreateInput{Type: TypeIncome, Category: "OTHER", Amount: 0}},
		{"negative amount", CreateInput{Type: TypeExpense, Category: "OTHER", Amount: -5}},
		{"bad status", CreateInput{Type: TypeIncome, Category: "OTHER", Amount: 10, Status: "REFUNDED"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, caller, tc.in)
			if apperror.KindOf(err) != apperror.Validation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestCreateDefaultsToPending(t *testing.T) {
	svc, mock := newMockService(t)
	caller := access.Context{UserID: uuid.New(), Role: access.RoleSecretary}
	id := uuid.New()

	mock.ExpectExec("INSERT INTO transactions").
		WithArgs(pgxmock.AnyArg(), TypeIncome, "PROCEDURE", 150.0, "Limpeza", pgxmock.AnyArg(),
			StatusPending, (*uuid.UUID)(nil), (*uuid.UUID)(nil), caller.UserID).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectQuery("SELECT t.id").
		WithArgs(pgxmock.AnyArg()).
		WillReturnRows(transactionRow(id, caller.UserID, TypeIncome, 150.0, StatusPending))

	created, err := svc.Create(context.Background(), caller, CreateInput{
		Type: TypeIncome, Category: "PROCEDURE", Amount: 150.0, Description: "Limpeza",
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

func TestGetAllScopesDentists(t *testing.T) {
	svc, mock := newMockService(t)
	dentistID := uuid.New()

	mock.ExpectQuery("SELECT t.id").
		WithArgs(dentistID).
		WillReturnRows(transactionRow(uuid.New(), dentistID, TypeIncome, 100, StatusPaid))

	list, err := svc.GetAll(context.Background(), access.Context{UserID: dentistID, Role: access.RoleDentist}, Filters{})
	if err != nil {
		t.Fatalf("get all: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("len = %d, want 1", len(list))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpdateGuardsOwnership(t *testing.T) {
	svc, mock := newMockService(t)
	id := uuid.New()
	owner := uuid.New()
	newAmount := 200.0

	mock.ExpectQuery("SELECT t.id").
		WithArgs(id).
		WillReturnRows(transactionRow(id, owner, TypeIncome, 100, StatusPending))

	_, err := svc.Update(context.Background(),
		access.Context{UserID: uuid.New(), Role: access.RoleDentist}, id, UpdateInput{Amount: &newAmount})
	if apperror.KindOf(err) != apperror.Authorization {
		t.Fatalf("expected authorization error, got %v", err)
	}
}

func TestDeleteNotFound(t *testing.T) {
	svc, mock := newMockService(t)
	id := uuid.New()

	mock.ExpectQuery("SELECT t.id").
		WithArgs(id).
		WillReturnError(pgx.ErrNoRows)

	err := svc.Delete(context.Background(), access.Context{UserID: uuid.New(), Role: access.RoleAdmin}, id)
	if apperror.KindOf(err) != apperror.NotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestFinancialSummary(t *testing.T) {
	svc, mock := newMockService(t)
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)

	// The count column must skip PENDING and CANCELED rows.
	mock.ExpectQuery(`COUNT\(\*\) FILTER \(WHERE status = 'PAID'\)`).
		WithArgs(start, end).
		WillReturnRows(pgxmock.NewRows([]string{"income", "expenses", "pending", "paid_count"}).
			AddRow(1500.0, 400.0, 250.0, int64(12)))

	sum, err := svc.GetFinancialSummary(context.Background(),
		access.Context{UserID: uuid.New(), Role: access.RoleAdmin}, &start, &end)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if sum.Balance != 1100.0 {
		t.Fatalf("balance = %v, want 1100", sum.Balance)
	}
	if sum.PendingIncome != 250.0 {
		t.Fatalf("pendingIncome = %v, want 250", sum.PendingIncome)
	}
	if sum.TotalTransactions != 12 {
		t.Fatalf("totalTransactions = %d, want 12", sum.TotalTransactions)
	}
}

func TestFinancialSummaryScopesDentists(t *testing.T) {
	svc, mock := newMockService(t)
	dentistID := uuid.New()

	mock.ExpectQuery("SELECT COALESCE").
		WithArgs(dentistID).
		WillReturnRows(pgxmock.NewRows([]string{"income", "expenses", "pending", "total"}).
			AddRow(300.0, 0.0, 50.0, int64(4)))

	sum, err := svc.GetFinancialSummary(context.Background(),
		access.Context{UserID: dentistID, Role: access.RoleDentist}, nil, nil)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if sum.Income != 300.0 {
		t.Fatalf("income = %v, want 300", sum.Income)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
