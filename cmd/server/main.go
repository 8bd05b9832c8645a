package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"craftconnect-be/internal/catalog"
	"craftconnect-be/internal/config"
	"craftconnect-be/internal/db"
	"craftconnect-be/internal/events"
	"craftconnect-be/internal/logger"
	"craftconnect-be/internal/order"
	"craftconnect-be/internal/orderview"
	"craftconnect-be/internal/payment"
	"craftconnect-be/internal/rest"
	"craftconnect-be/internal/user"
	"craftconnect-be/internal/verification"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg := config.LoadConfig()

	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database := db.InitDB(cfg)
	defer database.Close()

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer rdb.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var publisher events.Publisher = events.NopPublisher{}
	var producer *events.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer = events.NewProducer(cfg.KafkaBrokers, cfg.OrderEventsTopic, 256)
		producer.Start(ctx)
		publisher = producer
	} else {
		logger.L().Warn("KAFKA_BROKERS not set, order events disabled")
	}

	catalogRepo := catalog.NewRepository(database)
	catalogSvc := catalog.NewService(catalogRepo)

	orderRepo := order.NewRepository(database)
	orderSvc := order.NewService(orderRepo, catalogRepo, payment.SimulatedAuthorizer{}, publisher)

	viewRepo := orderview.NewRepository(database)
	viewSvc := orderview.NewService(viewRepo)

	userRepo := user.NewRepository(database)
	userSvc := user.NewService(userRepo)

	otpSvc := verification.NewService(verification.NewRedisStore(rdb), verification.UnimplementedSender{})

	router := rest.NewRouter(rest.Services{
		Catalog:      catalogSvc,
		Orders:       orderSvc,
		OrderViews:   viewSvc,
		Users:        userSvc,
		Verification: otpSvc,
	}, []byte(cfg.JWTSecret))

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: router,
	}

	go func() {
		logger.L().Info("server listening", zap.String("port", cfg.AppPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.L().Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.L().Error("graceful shutdown failed", zap.Error(err))
	}
	if producer != nil {
		producer.Close()
		producer.WaitClosed()
	}
}
