package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chichamlab/chicham/internal/cache"
	"github.com/chichamlab/chicham/internal/service"
	"github.com/chichamlab/chicham/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
)

// Server is the HTTP face of the service: thin JSON glue over the service
// layer. Identity arrives via headers from the external identity provider;
// all authorization happens below, in the services.
type Server struct {
	port   string
	router chi.Router
}

// NewServer wires the services into a router.
func NewServer(port string, st store.Store, kv cache.KV) *Server {
	translations := service.NewTranslationService(st)
	feedback := service.NewFeedbackService(st)
	words := service.NewWordService(st)
	stats := service.NewStatsService(st, kv)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowedHeaders: []string{"Content-Type", headerUserID, headerUserRole},
	}).Handler)

	r.Route("/api/v1", func(r chi.Router) {
		mountTranslations(r, translations, feedback)
		mountWords(r, words)
		mountStats(r, stats)
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return &Server{port: port, router: r}
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until SIGINT/SIGTERM, then drains for up to 10 seconds.
func (s *Server) Start() error {
	srv := &http.Server{
		Addr:    ":" + s.port,
		Handler: s.router,
	}

	errCh := make(chan error, 1)
	go func() {
		logrus.Infof("http server listening on :%s", s.port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-stop:
	}

	logrus.Info("shutting down http server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
