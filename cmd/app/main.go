package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"

	"lesson-booking/internal/cache"
	"lesson-booking/internal/calendar"
	"lesson-booking/internal/clock"
	"lesson-booking/internal/config"
	bookCreate "lesson-booking/internal/http-server/handlers/book/create"
	bookingsGet "lesson-booking/internal/http-server/handlers/bookings/get"
	contactCreate "lesson-booking/internal/http-server/handlers/contacts/create"
	contactsGet "lesson-booking/internal/http-server/handlers/contacts/get"
	slotsGet "lesson-booking/internal/http-server/handlers/slots/get"
	svc "lesson-booking/internal/service"
	"lesson-booking/internal/storage/postgres"
	slogpretty "lesson-booking/pkg/handlers/slogPretty"
	"lesson-booking/pkg/middleware/mwLogger"
	"lesson-booking/pkg/sl"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Content-Type", "application/json; charset=utf-8")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func main() {

	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)

	log.Info("Starting API", slog.String("env", cfg.Env))
	log.Debug("Debug messages are enabled")

	storage, err := postgres.New(cfg.StoragePath)
	if err != nil {
		log.Error("Failed to init storage", sl.Err(err))
		os.Exit(1)
	}

	slotCache, err := cache.NewRedisCache(cfg.RedisAddr)
	if err != nil {
		log.Error("Failed to init redis cache", sl.Err(err))
		os.Exit(1)
	}

	provider, err := calendar.NewGoogleCalendar(context.Background(), cfg.CredentialsFile, cfg.CalendarID)
	if err != nil {
		log.Error("Failed to init calendar provider", sl.Err(err))
		os.Exit(1)
	}

	service := svc.NewService(provider, storage, slotCache, clock.System(), cfg.Calendar, cfg.BusinessHours, log)

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(mwLogger.New(log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.URLFormat)
	router.Use(CORS)

	// Booking
	router.Post("/api/book", bookCreate.New(log, service))

	// Availability
	router.Get("/api/slots", slotsGet.New(log, service))

	// Admin listings
	router.Get("/api/bookings", bookingsGet.New(log, service))
	router.Get("/api/contacts", contactsGet.New(log, service))

	// Contact form
	router.Post("/api/contact", contactCreate.New(log, service))

	serv := &http.Server{
		Addr:         cfg.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	serverErrCh := make(chan error, 1)

	go func() {
		log.Info("Starting HTTP server", slog.String("addr", cfg.Address))
		if err := serv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- err
		} else {
			serverErrCh <- nil
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("Received shutdown signal", slog.String("signal", sig.String()))
	case err := <-serverErrCh:
		if err != nil {
			log.Error("HTTP server stopped unexpectedly", sl.Err(err))
		} else {
			log.Info("HTTP server stopped gracefully")
		}
	}

	shutdownTimeout := cfg.HTTPServer.ShutdownTimeout

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	log.Info("Shutting down HTTP server", slog.String("timeout", shutdownTimeout.String()))

	if err := serv.Shutdown(ctx); err != nil {
		log.Error("Server shutdown failed", sl.Err(err))
	} else {
		log.Info("Server shutdown complete")
	}

	if storage != nil {
		if err := storage.Close(); err != nil {
			log.Error("Failed to close storage", sl.Err(err))
		} else {
			log.Info("Storage closed")
		}
	}

	if slotCache != nil {
		if err := slotCache.Close(); err != nil {
			log.Error("Failed to close cache", sl.Err(err))
		} else {
			log.Info("Cache closed")
		}
	}

	log.Info("Shutdown finished, server stopped")

}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger
	switch env {
	case envLocal:
		log = setupPrettySlog()
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	}

	return log
}

func setupPrettySlog() *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: slog.LevelDebug,
		},
	}

	handler := opts.NewPrettyHandler(os.Stdout)

	return slog.New(handler)
}
