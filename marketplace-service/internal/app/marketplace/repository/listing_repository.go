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

type listingRepository struct {
	db *pgxpool.Pool // Пул соединений с PostgreSQL
}

// NewListingRepository создает новый репозиторий объявлений
func NewListingRepository(db *pgxpool.Pool) ListingRepository {
	return &listingRepository{db: db}
}

// Create создает новое объявление в PostgreSQL
func (r *listingRepository) Create(ctx context.Context, listing *entity.Listing) error {
	query := `
		INSERT INTO listings (id, host_id, title, description, price_per_night, currency, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		listing.ID,
		listing.HostID,
		listing.Title,
		listing.Description,
		listing.PricePerNight,
		listing.Currency,
		listing.Status,
		listing.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create listing: %w", err)
	}

	return nil
}

// GetByID получает объявление по ID
func (r *listingRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Listing, error) {
	query := `
		SELECT id, host_id, title, description, price_per_night, currency, status, created_at
		FROM listings WHERE id = $1
	`

	var listing entity.Listing
	err := r.db.QueryRow(ctx, query, id).Scan(
		&listing.ID,
		&listing.HostID,
		&listing.Title,
		&listing.Description,
		&listing.PricePerNight,
		&listing.Currency,
		&listing.Status,
		&listing.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrListingNotFound
		}
		return nil, fmt.Errorf("failed to get listing by id: %w", err)
	}

	return &listing, nil
}

// ListByHost получает все объявления хоста, новые первыми
func (r *listingRepository) ListByHost(ctx context.Context, hostID uuid.UUID) ([]entity.Listing, error) {
	query := `
		SELECT id, host_id, title, description, price_per_night, currency, status, created_at
		FROM listings WHERE host_id = $1 ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, hostID)
	if err != nil {
		return nil, fmt.Errorf("failed to list listings by host: %w", err)
	}
	defer rows.Close()

	var listings []entity.Listing
	for rows.Next() {
		var listing entity.Listing
		if err := rows.Scan(
			&listing.ID,
			&listing.HostID,
			&listing.Title,
			&listing.Description,
			&listing.PricePerNight,
			&listing.Currency,
			&listing.Status,
			&listing.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan listing: %w", err)
		}
		listings = append(listings, listing)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating listings: %w", err)
	}

	return listings, nil
}

// UpdateStatus меняет статус объявления
func (r *listingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.ListingStatus) error {
	query := `UPDATE listings SET status = $1 WHERE id = $2`

	tag, err := r.db.Exec(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update listing status: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrListingNotFound
	}

	return nil
}
