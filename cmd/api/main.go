package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/time/rate"

	"github.com/reimondavendano/betapresko-sub001/internal/config"
	"github.com/reimondavendano/betapresko-sub001/internal/handler"
	appointmenthandler "github.com/reimondavendano/betapresko-sub001/internal/handler/appointment"
	calendarhandler "github.com/reimondavendano/betapresko-sub001/internal/handler/calendar"
	notificationhandler "github.com/reimondavendano/betapresko-sub001/internal/handler/notification"
	"github.com/reimondavendano/betapresko-sub001/internal/middleware"
	"github.com/reimondavendano/betapresko-sub001/internal/repository/postgres"
	"github.com/reimondavendano/betapresko-sub001/internal/router"
	"github.com/reimondavendano/betapresko-sub001/internal/service/appointment"
	"github.com/reimondavendano/betapresko-sub001/internal/service/notification"
	"github.com/reimondavendano/betapresko-sub001/internal/service/pricing"
	"github.com/reimondavendano/betapresko-sub001/internal/service/schedule"
	"github.com/reimondavendano/betapresko-sub001/internal/service/settlement"
	"github.com/reimondavendano/betapresko-sub001/pkg/logger"
	"github.com/reimondavendano/betapresko-sub001/pkg/messaging/redis"
	"github.com/reimondavendano/betapresko-sub001/pkg/metrics"
	"github.com/reimondavendano/betapresko-sub001/pkg/push"
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

	broker, err := redis.NewRedisBroker(redis.Config{
		URL:          cfg.Redis.URL,
		MaxRetries:   cfg.Redis.MaxRetries,
		RetryBackoff: cfg.Redis.RetryBackoff,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	}, &log.ZL)
	if err != nil {
		log.Fatal(err, "failed to connect to Redis")
	}
	defer broker.Close()

	base := postgres.NewBaseRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(&base)
	deviceRepo := postgres.NewDeviceRepository(&base)
	clientRepo := postgres.NewClientRepository(&base)
	notificationRepo := postgres.NewNotificationRepository(&base)
	rateRepo := postgres.NewRateSettingsRepository(&base)
	blockedRepo := postgres.NewBlockedDateRepository(&base)

	m := metrics.New("presko")
	dispatcher := push.NewDispatcher(broker, &log.ZL)

	pricingSvc := pricing.NewService(rateRepo, clientRepo, deviceRepo, log)
	appointmentSvc := appointment.NewService(appointmentRepo, pricingSvc, m, log)
	settlementSvc := settlement.NewService(appointmentRepo, deviceRepo, clientRepo, notificationRepo, pricingSvc, dispatcher, m, log)
	scheduleSvc := schedule.NewService(appointmentRepo, blockedRepo, log)
	notificationSvc := notification.NewService(notificationRepo, log)

	r := router.NewRouter(
		handler.NewHandler(),
		router.Config{
			RateLimit: rate.Limit(cfg.RateLimit.RequestsPerSecond),
			RateBurst: cfg.RateLimit.Burst,
			CORS:      middleware.DefaultCORSConfig(),
		},
		appointmenthandler.NewHandler(appointmentSvc, settlementSvc),
		calendarhandler.NewHandler(scheduleSvc),
		notificationhandler.NewHandler(notificationSvc),
	)
	r.Setup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	go func() {
		log.Info("starting server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err, "server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal(err, "forced shutdown")
	}
	log.Info("server stopped")
}
