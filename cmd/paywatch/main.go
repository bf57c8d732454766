package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"paywatch/internal/config"
	"paywatch/internal/handler"
	"paywatch/internal/service"
	"paywatch/internal/session"
	"paywatch/internal/worker"
)

func main() {
	cfg := config.New()

	creds := session.NewStore(cfg.TokenFile)
	if creds.Expired() {
		slog.Warn("stored session token is expired, log in again")
	}

	// Services
	client := service.NewPaymentClient(cfg.PaymentServiceAddress, creds)
	historySvc := service.NewHistoryService(client)

	// Router
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/api/register", handler.RegisterHandler(client))
	r.Post("/api/login", handler.LoginHandler(client))
	r.Post("/api/logout", handler.LogoutHandler(client))
	r.Get("/api/profile", handler.ProfileHandler(client))

	r.Get("/api/history", handler.HistoryHandler(historySvc))
	r.Post("/api/history/refresh", handler.RefreshHandler(historySvc))

	r.Post("/api/payments", handler.CreatePaymentHandler(client))
	r.Post("/api/payments/qris", handler.QrisPaymentHandler(client))
	r.Post("/api/payments/{orderID}/recheck", handler.RecheckHandler(historySvc))
	r.Get("/api/payments/{orderID}/pay", handler.PayNowHandler(historySvc))

	srv := &http.Server{
		Addr:         cfg.RunAddress,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())

	if cfg.RefreshInterval > 0 {
		refreshWorker := worker.NewRefreshWorker(historySvc, client, cfg.RefreshInterval)
		go refreshWorker.Start(ctx)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	slog.Info("starting dashboard", "addr", cfg.RunAddress, "service", cfg.PaymentServiceAddress)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
		}
	}()

	<-quit
	slog.Info("shutting down...")

	cancel() // stop worker
	ctxShut, cancelShut := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShut()

	if err := srv.Shutdown(ctxShut); err != nil {
		slog.Error("server shutdown failed", "error", err)
	}

	slog.Info("dashboard stopped")
}
