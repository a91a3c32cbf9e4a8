// Package server assembles the HTTP stack: router, middleware chain and the
// controllers contributed by each registered module.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/NYTimes/gziphandler"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	coreservices "github.com/tourhub-uz/tourhub/modules/core/services"
	"github.com/tourhub-uz/tourhub/pkg/api"
	"github.com/tourhub-uz/tourhub/pkg/application"
	"github.com/tourhub-uz/tourhub/pkg/composables"
	"github.com/tourhub-uz/tourhub/pkg/configuration"
	"github.com/tourhub-uz/tourhub/pkg/metrics"
	"github.com/tourhub-uz/tourhub/pkg/middleware"
)

const (
	readTimeout     = 15 * time.Second
	writeTimeout    = 30 * time.Second
	shutdownTimeout = 10 * time.Second
)

type Server struct {
	http   *http.Server
	logger *logrus.Logger
}

// New builds the router from the application's controllers. The /health probe
// and the Prometheus scrape endpoint sit outside the authenticated subtree.
func New(app application.Application) *Server {
	conf := configuration.Use()
	logger := app.Logger()

	root := mux.NewRouter()
	root.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		api.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)
	metrics.NewPrometheusController("/metrics").Register(root)

	authSvc := app.Service(coreservices.AuthContextService{}).(*coreservices.AuthContextService)
	apiRouter := root.PathPrefix("/api/v1").Subrouter()
	apiRouter.Use(
		middleware.RequestLogger(logger),
		middleware.WithPool(app.DB()),
		middleware.Authenticate(func(r *http.Request, subject string) (composables.AuthContext, error) {
			return authSvc.Resolve(r.Context(), subject)
		}),
		middleware.WithTransaction(),
	)
	for _, c := range app.Controllers() {
		c.Register(apiRouter)
	}

	handler := cors.New(cors.Options{
		AllowedOrigins:   conf.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}).Handler(root)
	handler = gziphandler.GzipHandler(handler)

	return &Server{
		http: &http.Server{
			Addr:         conf.Address(),
			Handler:      handler,
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
		},
		logger: logger,
	}
}

func (s *Server) Start() error {
	s.logger.WithField("addr", s.http.Addr).Info("http server listening")
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	return s.http.Shutdown(ctx)
}
