package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"staynest/marketplace-service/internal/app/marketplace/entity"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type profileRepository struct {
	db *pgxpool.Pool
}

// NewProfileRepository создает новый репозиторий профилей
func NewProfileRepository(db *pgxpool.Pool) ProfileRepository {
	return &profileRepository{db: db}
}

// Upsert создает профиль или обновляет display_name и bio существующего
// Агрегаты reviews_count и rating при апдейте не трогаются
func (r *profileRepository) Upsert(ctx context.Context, profile *entity.Profile) error {
	query := `
		INSERT INTO profiles (user_id, display_name, bio, reviews_count, rating, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id) DO UPDATE
		SET display_name = EXCLUDED.display_name,
		    bio = EXCLUDED.bio,
		    updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.Exec(ctx, query,
		profile.UserID,
		profile.DisplayName,
		profile.Bio,
		profile.ReviewsCount,
		profile.Rating,
		profile.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}

	return nil
}

// GetByUserID получает профиль по ID пользователя
func (r *profileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*entity.Profile, error) {
	query := `
		SELECT user_id, display_name, bio, reviews_count, rating, updated_at
		FROM profiles WHERE user_id = $1
	`

	var profile entity.Profile
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&profile.UserID,
		&profile.DisplayName,
		&profile.Bio,
		&profile.ReviewsCount,
		&profile.Rating,
		&profile.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	return &profile, nil
}

// ApplyReviewDelta атомарно сдвигает reviews_count и записывает пересчитанный рейтинг
// Строка профиля блокируется FOR UPDATE, чтобы конкурентные агрегации
// по одному хосту не теряли инкременты
func (r *profileRepository) ApplyReviewDelta(ctx context.Context, userID uuid.UUID, delta int, rating float64) (*entity.Profile, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var profile entity.Profile

	lockQuery := `
		SELECT user_id, display_name, bio, reviews_count, rating, updated_at
		FROM profiles WHERE user_id = $1 FOR UPDATE
	`
	err = tx.QueryRow(ctx, lockQuery, userID).Scan(
		&profile.UserID,
		&profile.DisplayName,
		&profile.Bio,
		&profile.ReviewsCount,
		&profile.Rating,
		&profile.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to lock profile: %w", err)
	}

	newCount := profile.ReviewsCount + delta
	if newCount < 0 {
		newCount = 0
	}

	now := time.Now()
	updateQuery := `
		UPDATE profiles SET reviews_count = $1, rating = $2, updated_at = $3
		WHERE user_id = $4
	`
	if _, err := tx.Exec(ctx, updateQuery, newCount, rating, now, userID); err != nil {
		return nil, fmt.Errorf("failed to update profile aggregates: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit profile update: %w", err)
	}

	profile.ReviewsCount = newCount
	profile.Rating = rating
	profile.UpdatedAt = now

	return &profile, nil
}
