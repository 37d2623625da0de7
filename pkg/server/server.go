package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/fiscal-tools/cfdi-atlas/pkg/handlers/fiscal"
	cfdimiddleware "github.com/fiscal-tools/cfdi-atlas/pkg/server/middleware"
)

type WebAPI struct {
	router *chi.Mux
	logger *zerolog.Logger
	server *http.Server

	shutdownTimeout time.Duration
}

type Dependencies struct {
	Store fiscal.Store
}

type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	Dependencies    Dependencies
}

func NewWebAPI(logger zerolog.Logger, config Config) *WebAPI {
	handler := fiscal.NewHandler(config.Dependencies.Store)

	router := chi.NewRouter()
	router.Use(cfdimiddleware.Logger(&logger))
	router.Use(middleware.Recoverer)

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/datasets/{kind}", func(r chi.Router) {
			r.Post("/archive", handler.UploadArchive)
			r.Get("/periods", handler.ListPeriods)
			r.Get("/records", handler.GetRecords)
			r.Patch("/flags", handler.UpdateFlags)
			r.Get("/duplicates", handler.ListDuplicates)
			r.Post("/duplicates/remove", handler.RemoveDuplicates)
			r.Post("/duplicates/drop", handler.DropDuplicates)
		})
		r.Get("/export/csv", handler.ExportCSV)
		r.Get("/export/xlsx", handler.ExportWorkbook)
		r.Get("/checkpoint", handler.DownloadCheckpoint)
		r.Post("/checkpoint", handler.UploadCheckpoint)
	})

	timeout := config.ShutdownTimeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &WebAPI{
		router: router,
		logger: &logger,
		server: &http.Server{
			Addr:    config.Addr,
			Handler: router,
		},
		shutdownTimeout: timeout,
	}
}

// Router exposes the configured mux, mainly for tests.
func (w *WebAPI) Router() http.Handler {
	return w.router
}

func (w *WebAPI) Start() error {
	serverErrors := make(chan error, 1)
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	go func() {
		w.logger.Info().Str("addr", w.server.Addr).Msg("starting server")
		serverErrors <- w.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-shutdown:
		w.logger.Info().Msg("shutdown initiated")

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), w.shutdownTimeout)
		defer cancel()

		err := w.server.Shutdown(ctx)
		if err != nil {
			w.logger.Error().Err(err).Msg("graceful shutdown failed")
			err = w.server.Close()
		}

		if err != nil {
			return err
		}
	}

	return nil
}
