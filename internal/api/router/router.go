package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/odontoflow/clinic-api/internal/access"
	"github.com/odontoflow/clinic-api/internal/appointments"
	"github.com/odontoflow/clinic-api/internal/auth"
	httpmiddleware "github.com/odontoflow/clinic-api/internal/http/middleware"
	"github.com/odontoflow/clinic-api/internal/medicalrecords"
	"github.com/odontoflow/clinic-api/internal/observability/metrics"
	"github.com/odontoflow/clinic-api/internal/odontogram"
	"github.com/odontoflow/clinic-api/internal/patients"
	"github.com/odontoflow/clinic-api/internal/procedures"
	"github.com/odontoflow/clinic-api/internal/requests"
	"github.com/odontoflow/clinic-api/internal/transactions"
	"github.com/odontoflow/clinic-api/internal/users"
	"github.com/odontoflow/clinic-api/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger *logging.Logger
	Tokens *auth.Tokens

	AuthHandler         *auth.Handler
	UsersHandler        *users.Handler
	PatientsHandler     *patients.Handler
	AppointmentsHandler *appointments.Handler
	RecordsHandler      *medicalrecords.Handler
	ProceduresHandler   *procedures.Handler
	OdontogramHandler   *odontogram.Handler
	TransactionsHandler *transactions.Handler
	RequestsHandler     *requests.Handler

	// PublicLimiter throttles the anonymous appointment-request endpoint.
	PublicLimiter httpmiddleware.Limiter

	Metrics            *metrics.ClinicMetrics
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}
	if cfg.Metrics != nil {
		r.Use(httpmiddleware.Metrics(cfg.Metrics))
	}

	// Public endpoints
	r.Group(func(public chi.Router) {
		public.Get("/health", healthCheck)
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
		public.Post("/auth/login", cfg.AuthHandler.Login)
		public.Post("/auth/register", cfg.AuthHandler.Register)
		if cfg.PublicLimiter != nil {
			public.With(httpmiddleware.RateLimit(cfg.PublicLimiter)).
				Post("/public/appointment-request", cfg.RequestsHandler.Create)
		} else {
			public.Post("/public/appointment-request", cfg.RequestsHandler.Create)
		}
	})

	// Authenticated endpoints
	r.Group(func(private chi.Router) {
		private.Use(httpmiddleware.BearerAuth(cfg.Tokens))

		private.Route("/users", func(r chi.Router) {
			// Listing stays open to every authenticated role; the booking
			// form needs the dentist list.
			r.Get("/", cfg.UsersHandler.List)
			r.Group(func(admin chi.Router) {
				admin.Use(httpmiddleware.RequireRole(access.RoleAdmin))
				admin.Post("/", cfg.UsersHandler.Create)
				admin.Get("/{id}", cfg.UsersHandler.Get)
				admin.Put("/{id}", cfg.UsersHandler.Update)
				admin.Delete("/{id}", cfg.UsersHandler.Delete)
			})
		})

		private.Route("/patients", func(r chi.Router) {
			r.Get("/", cfg.PatientsHandler.List)
			r.Post("/", cfg.PatientsHandler.Create)
			r.Get("/{id}", cfg.PatientsHandler.Get)
			r.Put("/{id}", cfg.PatientsHandler.Update)
		})

		private.Route("/appointments", func(r chi.Router) {
			r.Get("/", cfg.AppointmentsHandler.FindAll)
			r.Post("/", cfg.AppointmentsHandler.Create)
			r.Get("/dentist/{dentistId}", cfg.AppointmentsHandler.FindByDentist)
			r.Patch("/{id}/status", cfg.AppointmentsHandler.UpdateStatus)
		})

		private.Route("/medical-records", func(r chi.Router) {
			r.Get("/", cfg.RecordsHandler.FindAll)
			r.With(httpmiddleware.RequireRole(access.RoleDentist)).
				Post("/", cfg.RecordsHandler.Create)
			r.Get("/patient/{patientId}", cfg.RecordsHandler.FindByPatient)
		})

		private.Route("/procedures", func(r chi.Router) {
			r.Get("/", cfg.ProceduresHandler.List)
			r.Get("/{id}", cfg.ProceduresHandler.Get)
			r.Group(func(admin chi.Router) {
				admin.Use(httpmiddleware.RequireRole(access.RoleAdmin))
				admin.Post("/", cfg.ProceduresHandler.Create)
				admin.Put("/{id}", cfg.ProceduresHandler.Update)
				admin.Delete("/{id}", cfg.ProceduresHandler.Delete)
			})
		})

		private.Route("/odontogram", func(r chi.Router) {
			r.Get("/{patientId}", cfg.OdontogramHandler.GetPatientOdontogram)
			r.With(httpmiddleware.RequireRole(access.RoleDentist)).
				Put("/{patientId}/tooth", cfg.OdontogramHandler.UpdateTooth)
			r.Get("/{patientId}/tooth/{toothNumber}/history", cfg.OdontogramHandler.GetToothHistory)
		})

		private.Route("/transactions", func(r chi.Router) {
			r.Get("/", cfg.TransactionsHandler.List)
			r.Post("/", cfg.TransactionsHandler.Create)
			r.Get("/summary", cfg.TransactionsHandler.Summary)
			r.Get("/{id}", cfg.TransactionsHandler.Get)
			r.Put("/{id}", cfg.TransactionsHandler.Update)
			r.Delete("/{id}", cfg.TransactionsHandler.Delete)
		})

		private.Route("/public/appointment-requests", func(r chi.Router) {
			r.Get("/", cfg.RequestsHandler.List)
			r.Get("/{id}", cfg.RequestsHandler.Get)
			r.Put("/{id}", cfg.RequestsHandler.UpdateStatus)
			r.Delete("/{id}", cfg.RequestsHandler.Delete)
		})
	})

	return r
}

func healthCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
