package server

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/MATTHEWOGISI/OHMS-NEW/internal/cache"
	"github.com/MATTHEWOGISI/OHMS-NEW/internal/config"
	"github.com/MATTHEWOGISI/OHMS-NEW/internal/handlers"
	"github.com/MATTHEWOGISI/OHMS-NEW/internal/httpx"
	"github.com/MATTHEWOGISI/OHMS-NEW/internal/middleware"
	"github.com/MATTHEWOGISI/OHMS-NEW/internal/services"
)

// crudHandler is the uniform four-operation contract every resource exposes.
type crudHandler interface {
	List(http.ResponseWriter, *http.Request)
	Get(http.ResponseWriter, *http.Request)
	Create(http.ResponseWriter, *http.Request)
	Update(http.ResponseWriter, *http.Request)
	Delete(http.ResponseWriter, *http.Request)
}

func mountCRUD(api *mux.Router, resource string, h crudHandler) {
	api.HandleFunc("/"+resource, h.List).Methods(http.MethodGet)
	api.HandleFunc("/"+resource, h.Create).Methods(http.MethodPost)
	api.HandleFunc("/"+resource+"/{id:[0-9]+}", h.Get).Methods(http.MethodGet)
	api.HandleFunc("/"+resource+"/{id:[0-9]+}", h.Update).Methods(http.MethodPut)
	api.HandleFunc("/"+resource+"/{id:[0-9]+}", h.Delete).Methods(http.MethodDelete)
}

// New constructs the root http.Handler with all routes and middlewares applied.
func New(db *gorm.DB, cfg *config.Config, log zerolog.Logger, c *cache.Cache) http.Handler {
	r := mux.NewRouter()

	// --- Health endpoints ---
	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if err := db.Exec("SELECT 1").Error; err != nil {
			httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	api := r.PathPrefix("/api").Subrouter()

	mountCRUD(api, "patients", handlers.NewPatientHandler(db))
	mountCRUD(api, "doctors", handlers.NewDoctorHandler(db))
	mountCRUD(api, "appointments", handlers.NewAppointmentHandler(db))
	mountCRUD(api, "medicines", handlers.NewMedicineHandler(db))
	mountCRUD(api, "prescriptions", handlers.NewPrescriptionHandler(db))
	mountCRUD(api, "labtests", handlers.NewLabTestHandler(db))

	billing := services.NewBillingService(db, cfg.Billing.Strict)
	ih := handlers.NewInvoiceHandler(billing)
	mountCRUD(api, "invoices", ih)
	api.HandleFunc("/invoices/{id:[0-9]+}/payments", ih.AddPayment).Methods(http.MethodPost)
	api.HandleFunc("/invoices/{id:[0-9]+}/pdf", ih.PDF).Methods(http.MethodGet)

	dh := handlers.NewDashboardHandler(services.NewStatsService(db, c))
	api.HandleFunc("/dashboard/stats", dh.Stats).Methods(http.MethodGet)

	var handler http.Handler = r
	handler = middleware.Metrics(handler)
	handler = middleware.Logging(log)(handler)
	handler = middleware.NewCORS(cfg.Server.CorsAllowedOrigins)(handler)
	handler = middleware.Recover(log)(handler)
	return handler
}
