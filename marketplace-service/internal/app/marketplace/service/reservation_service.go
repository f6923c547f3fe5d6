package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"staynest/marketplace-service/internal/app/marketplace/entity"
	"staynest/marketplace-service/internal/app/marketplace/infrastructure"
	"staynest/marketplace-service/internal/app/marketplace/repository"
	"staynest/pkg/logger"
	"staynest/pkg/metrics"

	"github.com/google/uuid"
)

const reservationDateLayout = "2006-01-02"

// ReservationService обрабатывает бизнес-логику бронирований
// Координирует репозитории объектов, бронирований и Kafka
type ReservationService struct {
	reservationRepo repository.ReservationRepository
	listingRepo     repository.ListingRepository
	experienceRepo  repository.ExperienceRepository
	kafkaProducer   infrastructure.MessagePublisher
}

// NewReservationService создает новый сервис бронирований с внедрением зависимостей
func NewReservationService(
	reservationRepo repository.ReservationRepository,
	listingRepo repository.ListingRepository,
	experienceRepo repository.ExperienceRepository,
	kafkaProducer infrastructure.MessagePublisher,
) *ReservationService {
	return &ReservationService{
		reservationRepo: reservationRepo,
		listingRepo:     listingRepo,
		experienceRepo:  experienceRepo,
		kafkaProducer:   kafkaProducer,
	}
}

// CreateReservation создает новое бронирование в статусе pending
// 1. Проверяет что объект существует и опубликован
// 2. Считает итоговую стоимость: ночи * цена за ночь или гости * цена за гостя
// 3. Сохраняет бронирование
// 4. Отправляет событие RESERVATION_CREATED в Kafka
func (s *ReservationService) CreateReservation(ctx context.Context, guestID uuid.UUID, req *entity.CreateReservationRequest) (*entity.Reservation, error) {
	checkIn, err := time.Parse(reservationDateLayout, req.CheckIn)
	if err != nil {
		return nil, fmt.Errorf("invalid check-in date: %w", err)
	}

	checkOut, err := time.Parse(reservationDateLayout, req.CheckOut)
	if err != nil {
		return nil, fmt.Errorf("invalid check-out date: %w", err)
	}

	if !checkOut.After(checkIn) {
		return nil, ErrInvalidDateRange
	}

	totalPrice, currency, err := s.calculatePrice(ctx, req, checkIn, checkOut)
	if err != nil {
		return nil, err
	}

	reservation := &entity.Reservation{
		ID:                  uuid.New(),
		ReservationableType: req.ReservationableType,
		ReservationableID:   req.ReservationableID,
		GuestID:             guestID,
		CheckIn:             checkIn,
		CheckOut:            checkOut,
		Guests:              req.Guests,
		TotalPrice:          totalPrice,
		Currency:            currency,
		Status:              entity.ReservationStatusPending,
		CreatedAt:           time.Now(),
	}

	if err := s.reservationRepo.Create(ctx, reservation); err != nil {
		return nil, fmt.Errorf("failed to create reservation: %w", err)
	}

	metrics.ReservationsCreated.WithLabelValues(string(req.ReservationableType)).Inc()

	s.publishReservationEvent(ctx, reservation, entity.EventTypeReservationCreated)

	return reservation, nil
}

// calculatePrice считает итоговую стоимость по типу объекта
// Для жилья: количество ночей * цена за ночь
// Для впечатления: количество гостей * цена за гостя
func (s *ReservationService) calculatePrice(ctx context.Context, req *entity.CreateReservationRequest, checkIn, checkOut time.Time) (int64, string, error) {
	switch req.ReservationableType {
	case entity.ReservationableListing:
		listing, err := s.listingRepo.GetByID(ctx, req.ReservationableID)
		if err != nil {
			if errors.Is(err, repository.ErrListingNotFound) {
				return 0, "", ErrListingNotFound
			}
			return 0, "", fmt.Errorf("failed to get listing: %w", err)
		}

		if listing.Status != entity.ListingStatusPublished {
			return 0, "", ErrNotBookable
		}

		nights := int64(checkOut.Sub(checkIn).Hours() / 24)
		return nights * listing.PricePerNight, listing.Currency, nil

	case entity.ReservationableExperience:
		experience, err := s.experienceRepo.GetByID(ctx, req.ReservationableID)
		if err != nil {
			if errors.Is(err, repository.ErrExperienceNotFound) {
				return 0, "", ErrExperienceNotFound
			}
			return 0, "", fmt.Errorf("failed to get experience: %w", err)
		}

		if experience.Status != entity.ListingStatusPublished {
			return 0, "", ErrNotBookable
		}

		return int64(req.Guests) * experience.PricePerGuest, experience.Currency, nil

	default:
		return 0, "", fmt.Errorf("%w: %s", ErrUnknownReservationableType, req.ReservationableType)
	}
}

// GetReservation получает бронирование по ID
func (s *ReservationService) GetReservation(ctx context.Context, id uuid.UUID) (*entity.Reservation, error) {
	reservation, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, fmt.Errorf("failed to get reservation: %w", err)
	}

	return reservation, nil
}

// GetGuestReservations получает все бронирования гостя
func (s *ReservationService) GetGuestReservations(ctx context.Context, guestID uuid.UUID) ([]entity.Reservation, error) {
	reservations, err := s.reservationRepo.ListByGuest(ctx, guestID)
	if err != nil {
		return nil, fmt.Errorf("failed to get guest reservations: %w", err)
	}

	return reservations, nil
}

// UpdateStatus переводит бронирование в новый статус
// Переходы проверяются по закрытому набору: pending -> confirmed|cancelled,
// confirmed -> completed|cancelled
// При подтверждении публикуется RESERVATION_CONFIRMED для payment-worker
func (s *ReservationService) UpdateStatus(ctx context.Context, id uuid.UUID, next entity.ReservationStatus) (*entity.Reservation, error) {
	reservation, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, fmt.Errorf("failed to get reservation: %w", err)
	}

	if !reservation.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, reservation.Status, next)
	}

	if err := s.reservationRepo.UpdateStatus(ctx, id, next); err != nil {
		return nil, fmt.Errorf("failed to update reservation status: %w", err)
	}

	reservation.Status = next
	metrics.ReservationStatusChanges.WithLabelValues(string(next)).Inc()

	switch next {
	case entity.ReservationStatusConfirmed:
		s.publishReservationEvent(ctx, reservation, entity.EventTypeReservationConfirmed)
	case entity.ReservationStatusCancelled:
		s.publishReservationEvent(ctx, reservation, entity.EventTypeReservationCancelled)
	}

	return reservation, nil
}

// publishReservationEvent отправляет событие бронирования в Kafka
// Ошибки Kafka не фатальны для операции, бронирование уже сохранено
func (s *ReservationService) publishReservationEvent(ctx context.Context, reservation *entity.Reservation, eventType string) {
	event := entity.ReservationEvent{
		EventType:           eventType,
		ReservationID:       reservation.ID,
		GuestID:             reservation.GuestID,
		ReservationableType: reservation.ReservationableType,
		ReservationableID:   reservation.ReservationableID,
		TotalPrice:          reservation.TotalPrice,
		Currency:            reservation.Currency,
		Status:              reservation.Status,
		Timestamp:           time.Now(),
	}

	eventData, err := json.Marshal(event)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to marshal reservation event")
		return
	}

	if err := s.kafkaProducer.PublishMessage(ctx, reservation.ID.String(), eventData); err != nil {
		logger.Warn().
			Err(err).
			Str("reservation_id", reservation.ID.String()).
			Str("event_type", eventType).
			Msg("Failed to publish reservation event")
	}
}
