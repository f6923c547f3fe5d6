package repository

import (
	"context"
	"errors"
	"fmt"

	"staynest/marketplace-service/internal/app/marketplace/entity"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type favoriteRepository struct {
	db *pgxpool.Pool
}

// NewFavoriteRepository создает новый репозиторий избранного
func NewFavoriteRepository(db *pgxpool.Pool) FavoriteRepository {
	return &favoriteRepository{db: db}
}

// Add добавляет объект в избранное
// Дубликаты отсекаются UNIQUE constraint (user_id, favoritable_type, favoritable_id)
func (r *favoriteRepository) Add(ctx context.Context, favorite *entity.Favorite) error {
	query := `
		INSERT INTO favorites (id, user_id, favoritable_type, favoritable_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.Exec(ctx, query,
		favorite.ID,
		favorite.UserID,
		favorite.FavoritableType,
		favorite.FavoritableID,
		favorite.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return ErrFavoriteExists
		}
		return fmt.Errorf("failed to add favorite: %w", err)
	}

	return nil
}

// Remove убирает объект из избранного пользователя
func (r *favoriteRepository) Remove(ctx context.Context, userID uuid.UUID, typ entity.FavoritableType, favoritableID uuid.UUID) error {
	query := `
		DELETE FROM favorites
		WHERE user_id = $1 AND favoritable_type = $2 AND favoritable_id = $3
	`

	tag, err := r.db.Exec(ctx, query, userID, typ, favoritableID)
	if err != nil {
		return fmt.Errorf("failed to remove favorite: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrFavoriteNotFound
	}

	return nil
}

// ListByUser получает все избранное пользователя, новое первым
func (r *favoriteRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]entity.Favorite, error) {
	query := `
		SELECT id, user_id, favoritable_type, favoritable_id, created_at
		FROM favorites WHERE user_id = $1 ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	defer rows.Close()

	var favorites []entity.Favorite
	for rows.Next() {
		var favorite entity.Favorite
		if err := rows.Scan(
			&favorite.ID,
			&favorite.UserID,
			&favorite.FavoritableType,
			&favorite.FavoritableID,
			&favorite.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan favorite: %w", err)
		}
		favorites = append(favorites, favorite)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating favorites: %w", err)
	}

	return favorites, nil
}
