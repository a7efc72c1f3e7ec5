package users

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"golang.org/x/crypto/bcrypt"

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
	return NewService(&Store{pool: mock}, bcrypt.MinCost), mock
}

func userRow(id uuid.UUID, name, email, hash string, role access.Role) *pgxmock.Rows {
	now := time.Now()
	return pgxmock.NewRows([]string{"id", "name", "email", "password_hash", "role", "created_at", "updated_at"}).
		AddRow(id, name, email, hash, role, now, now)
}

func TestCreateValidation(t *testing.T) {
	svc, _ := newMockService(t)
	ctx := context.Background()

	cases := []struct {
		name string
		in   CreateInput
	}{
		{"short name", CreateInput{Name: "Jo", Email: "jo@clinic.com", Password: "secret1", Role: access.RoleAdmin}},
		{"bad email", CreateInput{Name: "João", Email: "not-an-email", Password: "secret1", Role: access.RoleAdmin}},
		{"short password", CreateInput{Name: "João", Email: "jo@clinic.com", Password: "123", Role: access.RoleAdmin}},
		{"bad role", CreateInput{Name: "João", Email: "jo@clinic.com", Password: "secret1", Role: "PATIENT"}},
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

func TestCreateRejectsDuplicateEmail(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectQuery("SELECT id, name, email").
		WithArgs("ana@clinic.com").
		WillReturnRows(userRow(uuid.New(), "Ana", "ana@clinic.com", "x", access.RoleDentist))

	_, err := svc.Create(context.Background(), CreateInput{
		Name: "Ana Souza", Email: "ana@clinic.com", Password: "secret1", Role: access.RoleDentist,
	})
	if apperror.KindOf(err) != apperror.Conflict {
		t.Fatalf("expected conflict, got %v", err)
	}
	if err.Error() != "email já está em uso" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestCreateHashesPassword(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectQuery("SELECT id, name, email").
		WithArgs("ana@clinic.com").
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery("INSERT INTO users").
		WithArgs(pgxmock.AnyArg(), "Ana Souza", "ana@clinic.com", pgxmock.AnyArg(), access.RoleDentist).
		WillReturnRows(userRow(uuid.New(), "Ana Souza", "ana@clinic.com", "stored-hash", access.RoleDentist))

	u, err := svc.Create(context.Background(), CreateInput{
		Name: "Ana Souza", Email: "ana@clinic.com", Password: "secret1", Role: access.RoleDentist,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if u.PasswordHash == "secret1" {
		t.Fatal("password stored in plain text")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDeleteBlockedByOwnedRecords(t *testing.T) {
	svc, mock := newMockService(t)
	id := uuid.New()

	mock.ExpectQuery("SELECT id, name, email").
		WithArgs(id).
		WillReturnRows(userRow(id, "Ana", "ana@clinic.com", "x", access.RoleDentist))
	mock.ExpectQuery("SELECT").
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows([]string{"appointments", "records"}).AddRow(int64(3), int64(0)))

	err := svc.Delete(context.Background(), id)
	if apperror.KindOf(err) != apperror.Conflict {
		t.Fatalf("expected conflict, got %v", err)
	}
	if err.Error() != "não é possível deletar usuário com agendamentos ou prontuários associados" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestDeleteRemovesUnreferencedUser(t *testing.T) {
	svc, mock := newMockService(t)
	id := uuid.New()

	mock.ExpectQuery("SELECT id, name, email").
		WithArgs(id).
		WillReturnRows(userRow(id, "Ana", "ana@clinic.com", "x", access.RoleSecretary))
	mock.ExpectQuery("SELECT").
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows([]string{"appointments", "records"}).AddRow(int64(0), int64(0)))
	mock.ExpectExec("DELETE FROM users").
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	if err := svc.Delete(context.Background(), id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGetNotFound(t *testing.T) {
	svc, mock := newMockService(t)
	id := uuid.New()

	mock.ExpectQuery("SELECT id, name, email").
		WithArgs(id).
		WillReturnError(pgx.ErrNoRows)

	_, err := svc.Get(context.Background(), id)
	if apperror.KindOf(err) != apperror.NotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
