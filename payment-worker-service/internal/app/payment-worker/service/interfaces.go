package service

import (
	"context"

	"staynest/payment-worker-service/internal/app/payment-worker/entity"

	"github.com/google/uuid"
)

// PaymentGeneratorInterface определяет интерфейс генератора платежей
// Используется cron-планировщиком, Kafka consumer и ручным HTTP-триггером
type PaymentGeneratorInterface interface {
	// Generate прогоняет батч по бронированиям в заданных статусах
	Generate(ctx context.Context, opts entity.GenerateOptions) (*entity.GenerateReport, error)

	// GenerateForReservation создает платеж по одному бронированию
	GenerateForReservation(ctx context.Context, reservationID uuid.UUID) error

	// ProcessReservationEvent обрабатывает событие бронирования из Kafka
	ProcessReservationEvent(ctx context.Context, event *entity.ReservationEvent) error
}
