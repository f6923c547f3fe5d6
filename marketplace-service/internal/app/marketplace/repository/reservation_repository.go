package repository

import (
	"context"
	"errors"
	"fmt"

	"staynest/marketplace-service/internal/app/marketplace/entity"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type reservationRepository struct {
	db *pgxpool.Pool
}

// NewReservationRepository создает новый репозиторий бронирований
func NewReservationRepository(db *pgxpool.Pool) ReservationRepository {
	return &reservationRepository{db: db}
}

// Create создает новое бронирование в PostgreSQL
func (r *reservationRepository) Create(ctx context.Context, reservation *entity.Reservation) error {
	query := `
		INSERT INTO reservations
			(id, reservationable_type, reservationable_id, guest_id, check_in, check_out,
			 guests, total_price, currency, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.Exec(ctx, query,
		reservation.ID,
		reservation.ReservationableType,
		reservation.ReservationableID,
		reservation.GuestID,
		reservation.CheckIn,
		reservation.CheckOut,
		reservation.Guests,
		reservation.TotalPrice,
		reservation.Currency,
		reservation.Status,
		reservation.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create reservation: %w", err)
	}

	return nil
}

// GetByID получает бронирование по ID
func (r *reservationRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Reservation, error) {
	query := `
		SELECT id, reservationable_type, reservationable_id, guest_id, check_in, check_out,
		       guests, total_price, currency, status, created_at
		FROM reservations WHERE id = $1
	`

	var reservation entity.Reservation
	err := r.db.QueryRow(ctx, query, id).Scan(
		&reservation.ID,
		&reservation.ReservationableType,
		&reservation.ReservationableID,
		&reservation.GuestID,
		&reservation.CheckIn,
		&reservation.CheckOut,
		&reservation.Guests,
		&reservation.TotalPrice,
		&reservation.Currency,
		&reservation.Status,
		&reservation.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrReservationNotFound
		}
		return nil, fmt.Errorf("failed to get reservation by id: %w", err)
	}

	return &reservation, nil
}

// UpdateStatus меняет статус бронирования
// Допустимость перехода проверяется в service layer
func (r *reservationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.ReservationStatus) error {
	query := `UPDATE reservations SET status = $1 WHERE id = $2`

	tag, err := r.db.Exec(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update reservation status: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrReservationNotFound
	}

	return nil
}

// ListByGuest получает все бронирования гостя, новые первыми
func (r *reservationRepository) ListByGuest(ctx context.Context, guestID uuid.UUID) ([]entity.Reservation, error) {
	query := `
		SELECT id, reservationable_type, reservationable_id, guest_id, check_in, check_out,
		       guests, total_price, currency, status, created_at
		FROM reservations WHERE guest_id = $1 ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, guestID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations by guest: %w", err)
	}
	defer rows.Close()

	return scanReservations(rows)
}

// ListIDsByHost возвращает ID всех бронирований, чей объект принадлежит хосту
// Полиморфная связь разворачивается через UNION по таблицам объектов
func (r *reservationRepository) ListIDsByHost(ctx context.Context, hostID uuid.UUID) ([]uuid.UUID, error) {
	query := `
		SELECT res.id
		FROM reservations res
		JOIN listings l ON res.reservationable_type = 'listing' AND res.reservationable_id = l.id
		WHERE l.host_id = $1
		UNION ALL
		SELECT res.id
		FROM reservations res
		JOIN experiences e ON res.reservationable_type = 'experience' AND res.reservationable_id = e.id
		WHERE e.host_id = $1
	`

	rows, err := r.db.Query(ctx, query, hostID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reservation ids by host: %w", err)
	}
	defer rows.Close()

	return scanReservationIDs(rows)
}

// ListIDsByReservationable возвращает ID бронирований конкретного объекта
func (r *reservationRepository) ListIDsByReservationable(ctx context.Context, typ entity.ReservationableType, id uuid.UUID) ([]uuid.UUID, error) {
	query := `
		SELECT id FROM reservations
		WHERE reservationable_type = $1 AND reservationable_id = $2
	`

	rows, err := r.db.Query(ctx, query, typ, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list reservation ids by reservationable: %w", err)
	}
	defer rows.Close()

	return scanReservationIDs(rows)
}

func scanReservations(rows pgx.Rows) ([]entity.Reservation, error) {
	var reservations []entity.Reservation
	for rows.Next() {
		var reservation entity.Reservation
		if err := rows.Scan(
			&reservation.ID,
			&reservation.ReservationableType,
			&reservation.ReservationableID,
			&reservation.GuestID,
			&reservation.CheckIn,
			&reservation.CheckOut,
			&reservation.Guests,
			&reservation.TotalPrice,
			&reservation.Currency,
			&reservation.Status,
			&reservation.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan reservation: %w", err)
		}
		reservations = append(reservations, reservation)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reservations: %w", err)
	}

	return reservations, nil
}

func scanReservationIDs(rows pgx.Rows) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan reservation id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reservation ids: %w", err)
	}

	return ids, nil
}
