package service

import (
	"context"
	"errors"
	"fmt"

	"staynest/marketplace-service/internal/app/marketplace/entity"
	"staynest/marketplace-service/internal/app/marketplace/repository"
	"staynest/pkg/logger"
	"staynest/pkg/metrics"

	"github.com/google/uuid"
)

// RatingAggregator поддерживает reviews_count и rating профиля хоста
// консистентными с множеством отзывов о его бронированиях
//
// Рейтинг всегда пересчитывается как истинное среднее по живому набору отзывов,
// а не выводится инкрементально из старого значения: агрегат самовосстанавливается
// от любого накопленного дрейфа
type RatingAggregator struct {
	reservationRepo repository.ReservationRepository
	reviewRepo      repository.ReviewRepository
	profileRepo     repository.ProfileRepository
	hostResolver    *HostResolver
	profileCache    repository.ProfileCache
}

// NewRatingAggregator создает агрегатор рейтинга с внедрением зависимостей
func NewRatingAggregator(
	reservationRepo repository.ReservationRepository,
	reviewRepo repository.ReviewRepository,
	profileRepo repository.ProfileRepository,
	hostResolver *HostResolver,
	profileCache repository.ProfileCache,
) *RatingAggregator {
	return &RatingAggregator{
		reservationRepo: reservationRepo,
		reviewRepo:      reviewRepo,
		profileRepo:     profileRepo,
		hostResolver:    hostResolver,
		profileCache:    profileCache,
	}
}

// OnReviewCreated вызывается синхронно сразу после сохранения отзыва
// Инкрементирует reviews_count и пересчитывает rating по текущему состоянию
func (a *RatingAggregator) OnReviewCreated(ctx context.Context, review *entity.Review) error {
	if err := a.recompute(ctx, review, +1); err != nil {
		return err
	}

	metrics.RatingRecomputes.WithLabelValues("review_created").Inc()
	return nil
}

// OnReviewDeleted вызывается синхронно сразу после удаления отзыва
// Декрементирует reviews_count и пересчитывает rating по оставшимся отзывам
// Если отзывов не осталось, rating становится ровно 0
func (a *RatingAggregator) OnReviewDeleted(ctx context.Context, review *entity.Review) error {
	if err := a.recompute(ctx, review, -1); err != nil {
		return err
	}

	metrics.RatingRecomputes.WithLabelValues("review_deleted").Inc()
	return nil
}

// recompute разворачивает цепочку review -> reservation -> reservationable -> host,
// считает истинное среднее overall_rating по всем отзывам хоста
// и атомарно записывает агрегаты в профиль
func (a *RatingAggregator) recompute(ctx context.Context, review *entity.Review, delta int) error {
	hostID, err := a.resolveHost(ctx, review)
	if err != nil {
		return err
	}

	// Все бронирования хоста - область действия его отзывов
	reservationIDs, err := a.reservationRepo.ListIDsByHost(ctx, hostID)
	if err != nil {
		return fmt.Errorf("failed to list host reservations: %w", err)
	}

	count, avg, err := a.reviewRepo.AggregateOverall(ctx, reservationIDs)
	if err != nil {
		return fmt.Errorf("failed to aggregate host reviews: %w", err)
	}

	rating := float64(0)
	if count > 0 {
		rating = entity.RoundRating(avg)
	}

	profile, err := a.profileRepo.ApplyReviewDelta(ctx, hostID, delta, rating)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return fmt.Errorf("%w: host %s has no profile", ErrHostUnresolved, hostID)
		}
		return fmt.Errorf("failed to update profile aggregates: %w", err)
	}

	a.invalidateCache(ctx, hostID)

	logger.Info().
		Str("host_id", hostID.String()).
		Int("reviews_count", profile.ReviewsCount).
		Float64("rating", profile.Rating).
		Msg("Host rating recomputed")

	return nil
}

// resolveHost резолвит хоста по отзыву
// Любое звено, которое не резолвится, означает нарушение целостности ссылок
func (a *RatingAggregator) resolveHost(ctx context.Context, review *entity.Review) (uuid.UUID, error) {
	reservationID, err := uuid.Parse(review.ReservationID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid reservation id %q", ErrHostUnresolved, review.ReservationID)
	}

	reservation, err := a.reservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return uuid.Nil, fmt.Errorf("%w: reservation %s not found", ErrHostUnresolved, reservationID)
		}
		return uuid.Nil, fmt.Errorf("failed to get reservation: %w", err)
	}

	return a.hostResolver.ResolveHost(ctx, reservation.ReservationableType, reservation.ReservationableID)
}

// invalidateCache сбрасывает кеш профиля, ошибки кеша не фатальны
func (a *RatingAggregator) invalidateCache(ctx context.Context, hostID uuid.UUID) {
	if a.profileCache == nil {
		return
	}

	if err := a.profileCache.Invalidate(ctx, hostID); err != nil {
		logger.Warn().
			Err(err).
			Str("host_id", hostID.String()).
			Msg("Failed to invalidate profile cache")
	}
}
