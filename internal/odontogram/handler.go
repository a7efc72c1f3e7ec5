package odontogram

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/odontoflow/clinic-api/internal/apperror"
	"github.com/odontoflow/clinic-api/internal/http/middleware"
)

// Handler exposes the tooth chart over HTTP.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// GET /odontogram/{patientId}
func (h *Handler) GetPatientOdontogram(w http.ResponseWriter, r *http.Request) {
	patientID, err := uuid.Parse(chi.URLParam(r, "patientId"))
	if err != nil {
		apperror.WriteJSON(w, apperror.New(apperror.Validation, "id inválido"))
		return
	}
	teeth, err := h.service.GetPatientOdontogram(r.Context(), patientID)
	if err != nil {
		apperror.WriteJSON(w, err)
		return
	}
	writeJSON(w, http.StatusOK, teeth)
}

// PUT /odontogram/{patientId}/tooth
func (h *Handler) UpdateTooth(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		apperror.WriteJSON(w, apperror.New(apperror.Authentication, "token não fornecido"))
		return
	}
	patientID, err := uuid.Parse(chi.URLParam(r, "patientId"))
	if err != nil {
		apperror.WriteJSON(w, apperror.New(apperror.Validation, "id inválido"))
		return
	}
	var in UpdateToothInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		apperror.WriteJSON(w, apperror.New(apperror.Validation, "corpo da requisição inválido"))
		return
	}
	tooth, err := h.service.UpdateTooth(r.Context(), caller, patientID, in)
	if err != nil {
		apperror.WriteJSON(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tooth)
}

// GET /odontogram/{patientId}/tooth/{toothNumber}/history
func (h *Handler) GetToothHistory(w http.ResponseWriter, r *http.Request) {
	patientID, err := uuid.Parse(chi.URLParam(r, "patientId"))
	if err != nil {
		apperror.WriteJSON(w, apperror.New(apperror.Validation, "id inválido"))
		return
	}
	number, err := strconv.Atoi(chi.URLParam(r, "toothNumber"))
	if err != nil {
		apperror.WriteJSON(w, apperror.New(apperror.Validation, "número de dente inválido"))
		return
	}
	history, err := h.service.GetToothHistory(r.Context(), patientID, number)
	if err != nil {
		apperror.WriteJSON(w, err)
		return
	}
	writeJSON(w, http.StatusOK, history)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
