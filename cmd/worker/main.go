package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/reimondavendano/betapresko-sub001/internal/config"
	"github.com/reimondavendano/betapresko-sub001/internal/repository/postgres"
	"github.com/reimondavendano/betapresko-sub001/internal/worker"
	"github.com/reimondavendano/betapresko-sub001/pkg/logger"
	"github.com/reimondavendano/betapresko-sub001/pkg/metrics"
)

func main() {
	log := logger.NewLogger(nil)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err, "failed to load config")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal(err, "failed to connect to database")
	}
	defer db.Close()

	base := postgres.NewBaseRepository(db)
	deviceRepo := postgres.NewDeviceRepository(&base)
	notificationRepo := postgres.NewNotificationRepository(&base)

	m := metrics.New("presko_worker")
	reminder := worker.NewDueReminderWorker(deviceRepo, notificationRepo, cfg.Worker.ScanInterval, m, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go reminder.Start(ctx)

	// Health and metrics endpoint for the worker process.
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Worker.HealthPort),
		Handler: mux,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err, "health server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down worker")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(err, "health server shutdown failed")
	}
	log.Info("worker stopped")
}
