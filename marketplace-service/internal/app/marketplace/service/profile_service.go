package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"staynest/marketplace-service/internal/app/marketplace/entity"
	"staynest/marketplace-service/internal/app/marketplace/repository"
	"staynest/pkg/logger"

	"github.com/google/uuid"
)

// ProfileService обрабатывает бизнес-логику профилей пользователей
// Чтение идет через Redis-кеш (read-through), запись инвалидирует кеш
type ProfileService struct {
	profileRepo  repository.ProfileRepository
	profileCache repository.ProfileCache
}

// NewProfileService создает новый сервис профилей с внедрением зависимостей
func NewProfileService(profileRepo repository.ProfileRepository, profileCache repository.ProfileCache) *ProfileService {
	return &ProfileService{
		profileRepo:  profileRepo,
		profileCache: profileCache,
	}
}

// UpsertProfile создает или обновляет профиль пользователя
// Агрегаты (reviews_count, rating) при upsert не трогаются
func (s *ProfileService) UpsertProfile(ctx context.Context, userID uuid.UUID, req *entity.UpsertProfileRequest) (*entity.Profile, error) {
	profile := &entity.Profile{
		UserID:      userID,
		DisplayName: req.DisplayName,
		Bio:         req.Bio,
		UpdatedAt:   time.Now(),
	}

	if err := s.profileRepo.Upsert(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to upsert profile: %w", err)
	}

	s.invalidateCache(ctx, userID)

	// Перечитываем из БД: upsert мог сохранить существующие агрегаты
	stored, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile after upsert: %w", err)
	}

	return stored, nil
}

// GetProfile получает профиль по ID пользователя
// Сначала проверяется кеш, при промахе идем в PostgreSQL и кладем в кеш
func (s *ProfileService) GetProfile(ctx context.Context, userID uuid.UUID) (*entity.Profile, error) {
	if s.profileCache != nil {
		cached, err := s.profileCache.Get(ctx, userID)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, repository.ErrCacheMiss) {
			// Ошибка кеша не фатальна, продолжаем с БД
			logger.Warn().Err(err).Str("user_id", userID.String()).Msg("Profile cache read failed")
		}
	}

	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	if s.profileCache != nil {
		if err := s.profileCache.Set(ctx, profile); err != nil {
			logger.Warn().Err(err).Str("user_id", userID.String()).Msg("Profile cache write failed")
		}
	}

	return profile, nil
}

// invalidateCache сбрасывает кеш профиля, ошибки кеша не фатальны
func (s *ProfileService) invalidateCache(ctx context.Context, userID uuid.UUID) {
	if s.profileCache == nil {
		return
	}

	if err := s.profileCache.Invalidate(ctx, userID); err != nil {
		logger.Warn().Err(err).Str("user_id", userID.String()).Msg("Failed to invalidate profile cache")
	}
}
