package patients

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
	return NewService(&Store{pool: mock}), mock
}

func patientRow(id uuid.UUID, name, cpf string) *pgxmock.Rows {
	now := time.Now()
	birth := time.Date(1990, 5, 20, 0, 0, 0, 0, time.UTC)
	return pgxmock.NewRows([]string{"id", "name", "cpf", "phone", "email", "address", "birth_date", "created_at", "updated_at"}).
		AddRow(id, name, cpf, "11999990000", (*string)(nil), (*string)(nil), birth, now, now)
}

func TestCreateValidation(t *testing.T) {
	svc, _ := newMockService(t)
	ctx := context.Background()

	cases := []struct {
		name string
		in   CreateInput
	}{
		{"short name", CreateInput{Name: "Jo", CPF: "12345678901", Phone: "11999990000", BirthDate: "1990-05-20"}},
		{"short cpf", CreateInput{Name: "Maria Silva", CPF: "123", Phone: "11999990000", BirthDate: "1990-05-20"}},
		{"missing phone", CreateInput{Name: "Maria Silva", CPF: "12345678901", BirthDate: "1990-05-20"}},
		{"bad birth date", CreateInput{Name: "Maria Silva", CPF: "12345678901", Phone: "11999990000", BirthDate: "20/05/1990"}},
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

func TestCreateRejectsDuplicateCPF(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectQuery("SELECT id, name, cpf").
		WithArgs("12345678901").
		WillReturnRows(patientRow(uuid.New(), "Maria Silva", "12345678901"))

	_, err := svc.Create(context.Background(), CreateInput{
		Name: "Maria Silva", CPF: "12345678901", Phone: "11999990000", BirthDate: "1990-05-20",
	})
	if apperror.KindOf(err) != apperror.Conflict {
		t.Fatalf("expected conflict, got %v", err)
	}
	if err.Error() != "paciente já existe" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestCreateAcceptsBothDateFormats(t *testing.T) {
	for _, birth := range []string{"1990-05-20", "1990-05-20T00:00:00Z"} {
		svc, mock := newMockService(t)

		mock.ExpectQuery("SELECT id, name, cpf").
			WithArgs("12345678901").
			WillReturnError(pgx.ErrNoRows)
		mock.ExpectQuery("INSERT INTO patients").
			WithArgs(pgxmock.AnyArg(), "Maria Silva", "12345678901", "11999990000",
				(*string)(nil), (*string)(nil), pgxmock.AnyArg()).
			WillReturnRows(patientRow(uuid.New(), "Maria Silva", "12345678901"))

		if _, err := svc.Create(context.Background(), CreateInput{
			Name: "Maria Silva", CPF: "12345678901", Phone: "11999990000", BirthDate: birth,
		}); err != nil {
			t.Fatalf("create with birth date %q: %v", birth, err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("unmet expectations: %v", err)
		}
	}
}

func TestGetReturnsDetail(t *testing.T) {
	svc, mock := newMockService(t)
	id := uuid.New()
	now := time.Now()

	mock.ExpectQuery("SELECT id, name, cpf").
		WithArgs(id).
		WillReturnRows(patientRow(id, "Maria Silva", "12345678901"))
	mock.ExpectQuery("SELECT id, date, status FROM appointments").
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows([]string{"id", "date", "status"}).AddRow(uuid.New(), now, "SCHEDULED"))
	mock.ExpectQuery("SELECT id, date, description FROM medical_records").
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows([]string{"id", "date", "description"}))

	detail, err := svc.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if detail.Patient.ID != id {
		t.Fatalf("patient id mismatch")
	}
	if len(detail.Appointments) != 1 {
		t.Fatalf("appointments = %d, want 1", len(detail.Appointments))
	}
	if len(detail.MedicalRecords) != 0 {
		t.Fatalf("records = %d, want 0", len(detail.MedicalRecords))
	}
}

func TestGetNotFound(t *testing.T) {
	svc, mock := newMockService(t)
	id := uuid.New()

	mock.ExpectQuery("SELECT id, name, cpf").
		WithArgs(id).
		WillReturnError(pgx.ErrNoRows)

	_, err := svc.Get(context.Background(), id)
	if apperror.KindOf(err) != apperror.NotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateRejectsShortName(t *testing.T) {
	svc, mock := newMockService(t)
	id := uuid.New()
	short := "Jo"

	mock.ExpectQuery("SELECT id, name, cpf").
		WithArgs(id).
		WillReturnRows(patientRow(id, "Maria Silva", "12345678901"))

	_, err := svc.Update(context.Background(), id, UpdateInput{Name: &short})
	if apperror.KindOf(err) != apperror.Validation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
