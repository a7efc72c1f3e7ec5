package auth

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
	"github.com/odontoflow/clinic-api/internal/users"
)

func newLoginService(t *testing.T) (*Service, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	t.Cleanup(mock.Close)
	store := users.NewStore(mock)
	return NewService(users.NewService(store, bcrypt.MinCost), store, NewTokens("test-secret", time.Hour)), mock
}

func loginRow(t *testing.T, id uuid.UUID, email, password string, role access.Role) *pgxmock.Rows {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	now := time.Now()
	return pgxmock.NewRows([]string{"id", "name", "email", "password_hash", "role", "created_at", "updated_at"}).
		AddRow(id, "Ana", email, string(hash), role, now, now)
}

func TestLoginIssuesToken(t *testing.T) {
	svc, mock := newLoginService(t)
	userID := uuid.New()

	mock.ExpectQuery("SELECT id, name, email").
		WithArgs("ana@clinic.com").
		WillReturnRows(loginRow(t, userID, "ana@clinic.com", "secret1", access.RoleDentist))

	result, err := svc.Login(context.Background(), LoginInput{Email: "ana@clinic.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if result.User.ID != userID {
		t.Fatalf("user id mismatch")
	}

	caller, err := svc.tokens.Verify(result.Token)
	if err != nil {
		t.Fatalf("verify issued token: %v", err)
	}
	if caller.UserID != userID || caller.Role != access.RoleDentist {
		t.Fatalf("token carries wrong identity: %+v", caller)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc, mock := newLoginService(t)

	mock.ExpectQuery("SELECT id, name, email").
		WithArgs("ana@clinic.com").
		WillReturnRows(loginRow(t, uuid.New(), "ana@clinic.com", "secret1", access.RoleDentist))

	_, err := svc.Login(context.Background(), LoginInput{Email: "ana@clinic.com", Password: "wrong"})
	if apperror.KindOf(err) != apperror.Authentication {
		t.Fatalf("expected authentication error, got %v", err)
	}
	if err.Error() != "credenciais inválidas" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestLoginUnknownEmailSameMessage(t *testing.T) {
	svc, mock := newLoginService(t)

	mock.ExpectQuery("SELECT id, name, email").
		WithArgs("ghost@clinic.com").
		WillReturnError(pgx.ErrNoRows)

	_, err := svc.Login(context.Background(), LoginInput{Email: "ghost@clinic.com", Password: "whatever"})
	if apperror.KindOf(err) != apperror.Authentication {
		t.Fatalf("expected authentication error, got %v", err)
	}
	if err.Error() != "credenciais inválidas" {
		t.Fatalf("unknown email must not be distinguishable: %q", err.Error())
	}
}

func TestLoginRequiresCredentials(t *testing.T) {
	svc, _ := newLoginService(t)
	_, err := svc.Login(context.Background(), LoginInput{Email: "", Password: ""})
	if apperror.KindOf(err) != apperror.Validation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
