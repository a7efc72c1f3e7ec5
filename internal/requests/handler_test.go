package requests

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) (chi.Router, pgxmock.PgxPoolIface) {
	t.Helper()
	svc, mock := newMockService(t)
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Post("/public/appointment-request", h.Create)
	r.Get("/public/appointment-requests", h.List)
	r.Put("/public/appointment-requests/{id}", h.UpdateStatus)
	return r, mock
}

func TestCreateEndpoint(t *testing.T) {
	r, mock := newTestRouter(t)
	id := uuid.New()

	mock.ExpectExec("INSERT INTO appointment_requests").
		WithArgs(pgxmock.AnyArg(), "Carlos Lima", "11988887777", (*string)(nil), pgxmock.AnyArg(), (*string)(nil), StatusPending).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectQuery("SELECT id, name, phone").
		WithArgs(pgxmock.AnyArg()).
		WillReturnRows(requestRow(id, StatusPending))

	body := `{"name":"Carlos Lima","phone":"11988887777","preferredDate":"2026-04-01"}`
	req := httptest.NewRequest(http.MethodPost, "/public/appointment-request", strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"PENDING"`)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateEndpointRejectsBadBody(t *testing.T) {
	r, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/public/appointment-request", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "error")
}

func TestCreateEndpointRejectsShortName(t *testing.T) {
	r, _ := newTestRouter(t)

	body := `{"name":"Ca","phone":"11988887777","preferredDate":"2026-04-01"}`
	req := httptest.NewRequest(http.MethodPost, "/public/appointment-request", strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "nome deve ter pelo menos 3 caracteres")
}

func TestUpdateStatusEndpointRejectsBadID(t *testing.T) {
	r, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPut, "/public/appointment-requests/not-a-uuid", strings.NewReader(`{"status":"APPROVED"}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}
