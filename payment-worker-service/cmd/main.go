package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"staynest/payment-worker-service/internal/app/payment-worker/config"
	"staynest/payment-worker-service/internal/app/payment-worker/entity"
	"staynest/payment-worker-service/internal/app/payment-worker/handler"
	"staynest/payment-worker-service/internal/app/payment-worker/processor"
	"staynest/payment-worker-service/internal/app/payment-worker/repository"
	"staynest/payment-worker-service/internal/app/payment-worker/service"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func main() {
	log.Println("Starting Payment Worker Service...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	// Подключаемся к БД Marketplace Service: читаем бронирования, пишем платежи
	db, err := connectDB(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Successfully connected to PostgreSQL (marketplace_service)")

	// Репозитории
	reservationRepo := repository.NewReservationRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	log.Println("Repositories initialized")

	// Генератор платежей
	paymentGenerator := service.NewPaymentGenerator(
		reservationRepo,
		paymentRepo,
		entity.PaymentMethod(cfg.Payment.DefaultMethod),
	)
	log.Println("Payment generator initialized")

	// Kafka consumer: платежи по событиям RESERVATION_CONFIRMED
	kafkaConsumer := processor.NewKafkaConsumer(
		cfg.Kafka.Brokers,
		cfg.Kafka.Topic,
		cfg.Kafka.GroupID,
		cfg.Kafka.MinBytes,
		cfg.Kafka.MaxBytes,
		paymentGenerator,
	)

	kafkaConsumer.Start(ctx)
	defer kafkaConsumer.Stop()
	log.Printf("Kafka consumer started (topic: %s, group: %s)", cfg.Kafka.Topic, cfg.Kafka.GroupID)

	// Cron: периодический батч по подтвержденным и завершенным бронированиям
	cronScheduler := processor.NewCronScheduler(paymentGenerator)

	if err := cronScheduler.Start(ctx, cfg.CronSchedule.GeneratePayments); err != nil {
		log.Fatalf("Failed to start cron scheduler: %v", err)
	}
	defer cronScheduler.Stop()
	log.Printf("Cron scheduler started (schedule: %s)", cfg.CronSchedule.GeneratePayments)

	// HTTP: healthcheck, метрики и ручной запуск генерации
	healthHandler := handler.NewHealthCheckHandler(db, paymentGenerator)

	mux := http.NewServeMux()
	healthHandler.RegisterRoutes(mux)
	mux.Handle("/metrics", promhttp.Handler())

	httpServer := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: mux,
	}

	go func() {
		log.Printf("Starting HTTP server on :%s...", cfg.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("HTTP server error: %v", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	log.Println("Payment Worker Service is running")
	log.Println("Waiting for RESERVATION_CONFIRMED events from Kafka...")
	log.Printf("Payments will be generated according to schedule: %s", cfg.CronSchedule.GeneratePayments)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down Payment Worker Service...")
	log.Println("Payment Worker Service stopped gracefully")
}

// connectDB устанавливает соединение с PostgreSQL используя GORM
func connectDB(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	}

	// Retry logic для устойчивости при запуске в Docker
	var db *gorm.DB
	var err error

	for i := 0; i < 10; i++ {
		db, err = gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
		if err == nil {
			sqlDB, sqlErr := db.DB()
			if sqlErr != nil {
				err = sqlErr
			} else {
				if pingErr := sqlDB.Ping(); pingErr != nil {
					err = pingErr
				} else {
					sqlDB.SetMaxOpenConns(10)
					sqlDB.SetMaxIdleConns(5)
					sqlDB.SetConnMaxLifetime(5 * time.Minute)
					sqlDB.SetConnMaxIdleTime(1 * time.Minute)
					return db, nil
				}
			}
		}
		log.Printf("Failed to connect to database (attempt %d/10): %v", i+1, err)
		time.Sleep(3 * time.Second)
	}

	return nil, fmt.Errorf("failed to connect after 10 attempts: %w", err)
}
