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

// ReviewAggregator - часть агрегатора рейтинга, нужная жизненному циклу отзывов
type ReviewAggregator interface {
	OnReviewCreated(ctx context.Context, review *entity.Review) error
	OnReviewDeleted(ctx context.Context, review *entity.Review) error
}

// ReviewService обрабатывает бизнес-логику отзывов
// Координирует репозитории, агрегатор рейтинга и Kafka
type ReviewService struct {
	reviewRepo      repository.ReviewRepository
	reservationRepo repository.ReservationRepository
	aggregator      ReviewAggregator
	kafkaProducer   infrastructure.MessagePublisher
}

// NewReviewService создает новый сервис отзывов с внедрением зависимостей
func NewReviewService(
	reviewRepo repository.ReviewRepository,
	reservationRepo repository.ReservationRepository,
	aggregator ReviewAggregator,
	kafkaProducer infrastructure.MessagePublisher,
) *ReviewService {
	return &ReviewService{
		reviewRepo:      reviewRepo,
		reservationRepo: reservationRepo,
		aggregator:      aggregator,
		kafkaProducer:   kafkaProducer,
	}
}

// CreateReview создает новый отзыв
// 1. Проверяет что бронирование существует, завершено и принадлежит автору
// 2. Считает overall_rating как среднее шести оценок
// 3. Сохраняет отзыв (дубликат по (бронирование, автор) отбивается индексом)
// 4. Синхронно пересчитывает агрегаты профиля хоста
// 5. Отправляет событие REVIEW_CREATED в Kafka
func (s *ReviewService) CreateReview(ctx context.Context, reviewerID uuid.UUID, req *entity.CreateReviewRequest) (*entity.Review, error) {
	reservation, err := s.reservationRepo.GetByID(ctx, req.ReservationID)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, fmt.Errorf("failed to get reservation: %w", err)
	}

	// Отзыв может оставить только гость этого бронирования
	if reservation.GuestID != reviewerID {
		return nil, ErrUnauthorized
	}

	// Отзыв только о завершенном проживании
	if reservation.Status != entity.ReservationStatusCompleted {
		return nil, ErrReservationNotReviewable
	}

	ratings := req.SubRatings()
	review := &entity.Review{
		ReservationID: req.ReservationID.String(),
		ReviewerID:    reviewerID.String(),
		Ratings:       ratings,
		OverallRating: ratings.Overall(),
		Comment:       req.Comment,
	}

	if err := s.reviewRepo.Create(ctx, review); err != nil {
		if errors.Is(err, repository.ErrReviewExists) {
			return nil, ErrReviewExists
		}
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	// Агрегация синхронная: ошибка здесь - нарушение целостности ссылок,
	// она поднимается вызывающему, а не глотается
	if err := s.aggregator.OnReviewCreated(ctx, review); err != nil {
		return nil, fmt.Errorf("failed to aggregate rating after review create: %w", err)
	}

	metrics.ReviewsCreated.Inc()

	event := entity.ReviewEvent{
		EventType:     entity.EventTypeReviewCreated,
		ReviewID:      review.ID.Hex(),
		ReservationID: review.ReservationID,
		ReviewerID:    review.ReviewerID,
		OverallRating: review.OverallRating,
		Timestamp:     time.Now(),
	}

	if err := s.publishReviewEvent(ctx, event); err != nil {
		// Отзыв уже создан и агрегат пересчитан, проблемы с Kafka не критичны
		logger.Warn().Err(err).Str("review_id", event.ReviewID).Msg("Failed to publish review created event")
	}

	return review, nil
}

// GetReview получает отзыв по ID
func (s *ReviewService) GetReview(ctx context.Context, reviewID string) (*entity.Review, error) {
	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to get review: %w", err)
	}

	return review, nil
}

// DeleteReview удаляет отзыв с проверкой прав доступа
// После удаления синхронно пересчитывает агрегаты профиля хоста
func (s *ReviewService) DeleteReview(ctx context.Context, reviewID string, reviewerID uuid.UUID) error {
	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return ErrReviewNotFound
		}
		return fmt.Errorf("failed to get review: %w", err)
	}

	if review.ReviewerID != reviewerID.String() {
		return ErrUnauthorized
	}

	if err := s.reviewRepo.Delete(ctx, reviewID); err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}

	if err := s.aggregator.OnReviewDeleted(ctx, review); err != nil {
		return fmt.Errorf("failed to aggregate rating after review delete: %w", err)
	}

	metrics.ReviewsDeleted.Inc()

	event := entity.ReviewEvent{
		EventType:     entity.EventTypeReviewDeleted,
		ReviewID:      reviewID,
		ReservationID: review.ReservationID,
		ReviewerID:    review.ReviewerID,
		OverallRating: review.OverallRating,
		Timestamp:     time.Now(),
	}

	if err := s.publishReviewEvent(ctx, event); err != nil {
		logger.Warn().Err(err).Str("review_id", reviewID).Msg("Failed to publish review deleted event")
	}

	return nil
}

// GetReviewsByReservationable получает отзывы об объекте (жилье или впечатлении)
// Отзывы привязаны к бронированиям, поэтому сначала выбираются их ID
func (s *ReviewService) GetReviewsByReservationable(ctx context.Context, typ entity.ReservationableType, id uuid.UUID) ([]entity.Review, error) {
	reservationIDs, err := s.reservationRepo.ListIDsByReservationable(ctx, typ, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}

	reviews, err := s.reviewRepo.ListByReservationIDs(ctx, reservationIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get reviews: %w", err)
	}

	return reviews, nil
}

// GetReviewerReviews получает все отзывы автора
func (s *ReviewService) GetReviewerReviews(ctx context.Context, reviewerID uuid.UUID) ([]entity.Review, error) {
	reviews, err := s.reviewRepo.ListByReviewer(ctx, reviewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get reviewer reviews: %w", err)
	}

	return reviews, nil
}

// publishReviewEvent отправляет событие об отзыве в Kafka
func (s *ReviewService) publishReviewEvent(ctx context.Context, event entity.ReviewEvent) error {
	eventData, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal review event: %w", err)
	}

	// Ключ = ReviewID для партиционирования
	if err := s.kafkaProducer.PublishMessage(ctx, event.ReviewID, eventData); err != nil {
		return fmt.Errorf("failed to publish to kafka: %w", err)
	}

	return nil
}
