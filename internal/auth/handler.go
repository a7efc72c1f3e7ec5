package auth

import (
	"encoding/json"
	"net/http"

	"github.com/odontoflow/clinic-api/internal/apperror"
	"github.com/odontoflow/clinic-api/internal/users"
)

// Handler exposes login and registration.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// POST /auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var in LoginInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		apperror.WriteJSON(w, apperror.New(apperror.Validation, "corpo da requisição inválido"))
		return
	}
	result, err := h.service.Login(r.Context(), in)
	if err != nil {
		apperror.WriteJSON(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// POST /auth/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var in users.CreateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		apperror.WriteJSON(w, apperror.New(apperror.Validation, "corpo da requisição inválido"))
		return
	}
	u, err := h.service.Register(r.Context(), in)
	if err != nil {
		apperror.WriteJSON(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
