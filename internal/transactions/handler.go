package transactions

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/odontoflow/clinic-api/internal/apperror"
	"github.com/odontoflow/clinic-api/internal/http/middleware"
)

// Handler exposes the ledger over HTTP.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// GET /transactions
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		apperror.WriteJSON(w, apperror.New(apperror.Authentication, "token não fornecido"))
		return
	}
	f := Filters{
		Type:     r.URL.Query().Get("type"),
		Category: r.URL.Query().Get("category"),
		Status:   r.URL.Query().Get("status"),
	}
	if raw := r.URL.Query().Get("patientId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			apperror.WriteJSON(w, apperror.New(apperror.Validation, "id de paciente inválido"))
			return
		}
		f.PatientID = &id
	}
	var err error
	if f.StartDate, err = parseQueryDate(r, "startDate"); err != nil {
		apperror.WriteJSON(w, err)
		return
	}
	if f.EndDate, err = parseQueryDate(r, "endDate"); err != nil {
		apperror.WriteJSON(w, err)
		return
	}

	list, err := h.service.GetAll(r.Context(), caller, f)
	if err != nil {
		apperror.WriteJSON(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// GET /transactions/summary
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		apperror.WriteJSON(w, apperror.New(apperror.Authentication, "token não fornecido"))
		return
	}
	start, err := parseQueryDate(r, "startDate")
	if err != nil {
		apperror.WriteJSON(w, err)
		return
	}
	end, err := parseQueryDate(r, "endDate")
	if err != nil {
		apperror.WriteJSON(w, err)
		return
	}
	sum, err := h.service.GetFinancialSummary(r.Context(), caller, start, end)
	if err != nil {
		apperror.WriteJSON(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

// GET /transactions/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		apperror.WriteJSON(w, apperror.New(apperror.Validation, "id inválido"))
		return
	}
	t, err := h.service.Get(r.Context(), id)
	if err != nil {
		apperror.WriteJSON(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// POST /transactions
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		apperror.WriteJSON(w, apperror.New(apperror.Authentication, "token não fornecido"))
		return
	}
	var in CreateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		apperror.WriteJSON(w, apperror.New(apperror.Validation, "corpo da requisição inválido"))
		return
	}
	t, err := h.service.Create(r.Context(), caller, in)
	if err != nil {
		apperror.WriteJSON(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

// PUT /transactions/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		apperror.WriteJSON(w, apperror.New(apperror.Authentication, "token não fornecido"))
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		apperror.WriteJSON(w, apperror.New(apperror.Validation, "id inválido"))
		return
	}
	var in UpdateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		apperror.WriteJSON(w, apperror.New(apperror.Validation, "corpo da requisição inválido"))
		return
	}
	t, err := h.service.Update(r.Context(), caller, id, in)
	if err != nil {
		apperror.WriteJSON(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// DELETE /transactions/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		apperror.WriteJSON(w, apperror.New(apperror.Authentication, "token não fornecido"))
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		apperror.WriteJSON(w, apperror.New(apperror.Validation, "id inválido"))
		return
	}
	if err := h.service.Delete(r.Context(), caller, id); err != nil {
		apperror.WriteJSON(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func parseQueryDate(r *http.Request, key string) (*time.Time, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, apperror.Validationf("data inválida: %s", raw)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
