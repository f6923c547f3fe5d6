package repository

import (
	"context"
	"errors"
	"fmt"

	"staynest/payment-worker-service/internal/app/payment-worker/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// paymentRepository реализует PaymentRepository для работы с PostgreSQL через GORM
type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository создает новый репозиторий платежей
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

// GetByReservationID получает платеж по ID бронирования
func (r *paymentRepository) GetByReservationID(ctx context.Context, reservationID uuid.UUID) (*entity.Payment, error) {
	var payment entity.Payment

	result := r.db.WithContext(ctx).Where("reservation_id = ?", reservationID).First(&payment)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: reservation %s", ErrPaymentNotFound, reservationID)
		}
		return nil, fmt.Errorf("failed to get payment: %w", result.Error)
	}

	return &payment, nil
}

// CreateIfAbsent создает платеж, если по бронированию его еще нет
// Решение принимается внутри транзакции, чтобы параллельные прогоны
// не создали два платежа по одному бронированию
func (r *paymentRepository) CreateIfAbsent(ctx context.Context, payment *entity.Payment) (bool, error) {
	created := false

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&entity.Payment{}).
			Where("reservation_id = ?", payment.ReservationID).
			Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check existing payment: %w", err)
		}

		if count > 0 {
			return nil
		}

		if err := tx.Create(payment).Error; err != nil {
			return fmt.Errorf("failed to create payment: %w", err)
		}

		created = true
		return nil
	})

	if err != nil {
		return false, err
	}

	return created, nil
}

// Replace удаляет существующий платеж бронирования (если есть) и создает новый
func (r *paymentRepository) Replace(ctx context.Context, payment *entity.Payment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("reservation_id = ?", payment.ReservationID).
			Delete(&entity.Payment{}).Error; err != nil {
			return fmt.Errorf("failed to delete existing payment: %w", err)
		}

		if err := tx.Create(payment).Error; err != nil {
			return fmt.Errorf("failed to create replacement payment: %w", err)
		}

		return nil
	})
}
