package appointments

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/odontoflow/clinic-api/internal/apperror"
	"github.com/odontoflow/clinic-api/internal/http/middleware"
)

// Handler exposes appointment booking over HTTP.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// POST /appointments
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in CreateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		apperror.WriteJSON(w, apperror.New(apperror.Validation, "corpo da requisição inválido"))
		return
	}
	a, err := h.service.Create(r.Context(), in)
	if err != nil {
		apperror.WriteJSON(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

// GET /appointments
func (h *Handler) FindAll(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		apperror.WriteJSON(w, apperror.New(apperror.Authentication, "token não fornecido"))
		return
	}
	list, err := h.service.FindAll(r.Context(), caller)
	if err != nil {
		apperror.WriteJSON(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// GET /appointments/dentist/{dentistId}
func (h *Handler) FindByDentist(w http.ResponseWriter, r *http.Request) {
	dentistID, err := uuid.Parse(chi.URLParam(r, "dentistId"))
	if err != nil {
		apperror.WriteJSON(w, apperror.New(apperror.Validation, "id inválido"))
		return
	}
	list, err := h.service.FindByDentist(r.Context(), dentistID)
	if err != nil {
		apperror.WriteJSON(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// PATCH /appointments/{id}/status
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
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
	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		apperror.WriteJSON(w, apperror.New(apperror.Validation, "corpo da requisição inválido"))
		return
	}
	a, err := h.service.UpdateStatus(r.Context(), caller, id, body.Status)
	if err != nil {
		apperror.WriteJSON(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
