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

type experienceRepository struct {
	db *pgxpool.Pool
}

// NewExperienceRepository создает новый репозиторий впечатлений
func NewExperienceRepository(db *pgxpool.Pool) ExperienceRepository {
	return &experienceRepository{db: db}
}

// Create создает новое впечатление в PostgreSQL
func (r *experienceRepository) Create(ctx context.Context, experience *entity.Experience) error {
	query := `
		INSERT INTO experiences (id, host_id, title, description, price_per_guest, currency, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		experience.ID,
		experience.HostID,
		experience.Title,
		experience.Description,
		experience.PricePerGuest,
		experience.Currency,
		experience.Status,
		experience.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create experience: %w", err)
	}

	return nil
}

// GetByID получает впечатление по ID
func (r *experienceRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Experience, error) {
	query := `
		SELECT id, host_id, title, description, price_per_guest, currency, status, created_at
		FROM experiences WHERE id = $1
	`

	var experience entity.Experience
	err := r.db.QueryRow(ctx, query, id).Scan(
		&experience.ID,
		&experience.HostID,
		&experience.Title,
		&experience.Description,
		&experience.PricePerGuest,
		&experience.Currency,
		&experience.Status,
		&experience.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrExperienceNotFound
		}
		return nil, fmt.Errorf("failed to get experience by id: %w", err)
	}

	return &experience, nil
}

// ListByHost получает все впечатления хоста, новые первыми
func (r *experienceRepository) ListByHost(ctx context.Context, hostID uuid.UUID) ([]entity.Experience, error) {
	query := `
		SELECT id, host_id, title, description, price_per_guest, currency, status, created_at
		FROM experiences WHERE host_id = $1 ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, hostID)
	if err != nil {
		return nil, fmt.Errorf("failed to list experiences by host: %w", err)
	}
	defer rows.Close()

	var experiences []entity.Experience
	for rows.Next() {
		var experience entity.Experience
		if err := rows.Scan(
			&experience.ID,
			&experience.HostID,
			&experience.Title,
			&experience.Description,
			&experience.PricePerGuest,
			&experience.Currency,
			&experience.Status,
			&experience.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan experience: %w", err)
		}
		experiences = append(experiences, experience)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating experiences: %w", err)
	}

	return experiences, nil
}

// UpdateStatus меняет статус впечатления
func (r *experienceRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.ListingStatus) error {
	query := `UPDATE experiences SET status = $1 WHERE id = $2`

	tag, err := r.db.Exec(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update experience status: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrExperienceNotFound
	}

	return nil
}
