package repository

import (
	"context"
	"errors"

	"staynest/payment-worker-service/internal/app/payment-worker/entity"

	"github.com/google/uuid"
)

var (
	ErrReservationNotFound = errors.New("reservation not found")
	ErrPaymentNotFound     = errors.New("payment not found")
)

// ReservationRepository интерфейс для чтения бронирований из PostgreSQL
type ReservationRepository interface {
	// GetByID получает бронирование по ID
	GetByID(ctx context.Context, reservationID uuid.UUID) (*entity.Reservation, error)

	// ListByStatuses получает бронирования в заданных статусах
	ListByStatuses(ctx context.Context, statuses []entity.ReservationStatus) ([]entity.Reservation, error)
}

// PaymentRepository интерфейс для работы с платежами в PostgreSQL
type PaymentRepository interface {
	// GetByReservationID получает платеж по ID бронирования
	GetByReservationID(ctx context.Context, reservationID uuid.UUID) (*entity.Payment, error)

	// CreateIfAbsent создает платеж, если по бронированию его еще нет
	// Возвращает true, если платеж был создан, false - если уже существовал
	// Проверка и вставка выполняются в одной транзакции
	CreateIfAbsent(ctx context.Context, payment *entity.Payment) (bool, error)

	// Replace удаляет существующий платеж бронирования (если есть) и создает новый
	// Удаление и вставка выполняются в одной транзакции
	Replace(ctx context.Context, payment *entity.Payment) error
}
