package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"outreach/internal/config"
	"outreach/internal/metrics"
	"outreach/internal/service"
)

const requestIDHeader = "X-Request-ID"

// NewRouter wires every endpoint of the contact API
func NewRouter(svc *service.ContactService, cfg *config.Config, log *logrus.Entry) http.Handler {
	h := NewContactHandler(svc, log.WithField("component", "handlers"))

	router := mux.NewRouter()
	router.Use(requestLogger(log.WithField("component", "http")))

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/contacts", metrics.Instrument("contacts.list", h.List)).Methods(http.MethodGet)
	api.HandleFunc("/contacts", metrics.Instrument("contacts.create", h.Create)).Methods(http.MethodPost)
	api.HandleFunc("/contacts/bulk", metrics.Instrument("contacts.bulk", h.Bulk)).Methods(http.MethodPost)
	api.HandleFunc("/contacts/{id:[0-9]+}", metrics.Instrument("contacts.get", h.Get)).Methods(http.MethodGet)
	api.HandleFunc("/contacts/{id:[0-9]+}", metrics.Instrument("contacts.update", h.Update)).Methods(http.MethodPatch)
	api.HandleFunc("/contacts/{id:[0-9]+}", metrics.Instrument("contacts.delete", h.Delete)).Methods(http.MethodDelete)
	api.HandleFunc("/companies/cleanup-orphaned", metrics.Instrument("companies.cleanup", h.CleanupOrphanedCompanies)).Methods(http.MethodPost)
	api.HandleFunc("/demo/whatsapp-invite", metrics.Instrument("demo.invite", h.WhatsAppInvite)).Methods(http.MethodPost)

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	if cfg.MetricsEnabled {
		router.Handle(cfg.MetricsPath, promhttp.Handler()).Methods(http.MethodGet)
	}

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete},
		AllowedHeaders: []string{"Content-Type", requestIDHeader},
	})
	return c.Handler(router)
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func requestLogger(log *logrus.Entry) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			requestID := r.Header.Get(requestIDHeader)
			if requestID == "" {
				requestID = uuid.New().String()
			}
			w.Header().Set(requestIDHeader, requestID)

			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)

			log.WithFields(logrus.Fields{
				"request_id": requestID,
				"method":     r.Method,
				"path":       r.URL.Path,
				"status":     sw.status,
				"duration":   time.Since(start).String(),
			}).Info("request")
		})
	}
}
