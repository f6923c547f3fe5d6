package repository

import (
	"context"
	"errors"
	"fmt"

	"staynest/payment-worker-service/internal/app/payment-worker/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// reservationRepository реализует ReservationRepository для работы с PostgreSQL через GORM
type reservationRepository struct {
	db *gorm.DB
}

// NewReservationRepository создает новый репозиторий бронирований
func NewReservationRepository(db *gorm.DB) ReservationRepository {
	return &reservationRepository{db: db}
}

// GetByID получает бронирование по ID
func (r *reservationRepository) GetByID(ctx context.Context, reservationID uuid.UUID) (*entity.Reservation, error) {
	var reservation entity.Reservation

	result := r.db.WithContext(ctx).Where("id = ?", reservationID).First(&reservation)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrReservationNotFound, reservationID)
		}
		return nil, fmt.Errorf("failed to get reservation: %w", result.Error)
	}

	return &reservation, nil
}

// ListByStatuses получает бронирования в заданных статусах
// Порядок детерминирован по created_at для стабильных прогонов батча
func (r *reservationRepository) ListByStatuses(ctx context.Context, statuses []entity.ReservationStatus) ([]entity.Reservation, error) {
	var reservations []entity.Reservation

	result := r.db.WithContext(ctx).
		Where("status IN ?", statuses).
		Order("created_at ASC").
		Find(&reservations)

	if result.Error != nil {
		return nil, fmt.Errorf("failed to list reservations by statuses: %w", result.Error)
	}

	return reservations, nil
}
