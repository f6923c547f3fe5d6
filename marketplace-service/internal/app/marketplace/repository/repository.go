package repository

import (
	"context"
	"errors"

	"staynest/marketplace-service/internal/app/marketplace/entity"

	"github.com/google/uuid"
)

var (
	// Стандартные ошибки репозиториев для обработки в service layer
	ErrListingNotFound     = errors.New("listing not found")
	ErrExperienceNotFound  = errors.New("experience not found")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrProfileNotFound     = errors.New("profile not found")
	ErrReviewNotFound      = errors.New("review not found")
	ErrReviewExists        = errors.New("review already exists for this reservation and reviewer")
	ErrFavoriteExists      = errors.New("favorite already exists")
	ErrFavoriteNotFound    = errors.New("favorite not found")
	ErrCacheMiss           = errors.New("cache miss")
)

// ListingRepository определяет методы для работы с объявлениями в PostgreSQL
type ListingRepository interface {
	Create(ctx context.Context, listing *entity.Listing) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Listing, error)
	ListByHost(ctx context.Context, hostID uuid.UUID) ([]entity.Listing, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.ListingStatus) error
}

// ExperienceRepository определяет методы для работы с впечатлениями в PostgreSQL
type ExperienceRepository interface {
	Create(ctx context.Context, experience *entity.Experience) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Experience, error)
	ListByHost(ctx context.Context, hostID uuid.UUID) ([]entity.Experience, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.ListingStatus) error
}

// ReservationRepository определяет методы для работы с бронированиями в PostgreSQL
type ReservationRepository interface {
	Create(ctx context.Context, reservation *entity.Reservation) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Reservation, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.ReservationStatus) error
	ListByGuest(ctx context.Context, guestID uuid.UUID) ([]entity.Reservation, error)
	// ListIDsByHost возвращает ID всех бронирований, чей объект принадлежит хосту
	// Используется агрегатором рейтинга для выборки отзывов хоста
	ListIDsByHost(ctx context.Context, hostID uuid.UUID) ([]uuid.UUID, error)
	// ListIDsByReservationable возвращает ID бронирований конкретного объекта
	ListIDsByReservationable(ctx context.Context, typ entity.ReservationableType, id uuid.UUID) ([]uuid.UUID, error)
}

// ProfileRepository определяет методы для работы с профилями в PostgreSQL
type ProfileRepository interface {
	Upsert(ctx context.Context, profile *entity.Profile) error
	GetByUserID(ctx context.Context, userID uuid.UUID) (*entity.Profile, error)
	// ApplyReviewDelta атомарно сдвигает reviews_count на delta и записывает новый рейтинг
	// Строка профиля блокируется (FOR UPDATE) на время транзакции
	ApplyReviewDelta(ctx context.Context, userID uuid.UUID, delta int, rating float64) (*entity.Profile, error)
}

// FavoriteRepository определяет методы для работы с избранным в PostgreSQL
type FavoriteRepository interface {
	Add(ctx context.Context, favorite *entity.Favorite) error
	Remove(ctx context.Context, userID uuid.UUID, typ entity.FavoritableType, favoritableID uuid.UUID) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]entity.Favorite, error)
}

// ReviewRepository определяет методы для работы с отзывами в MongoDB
type ReviewRepository interface {
	Create(ctx context.Context, review *entity.Review) error
	GetByID(ctx context.Context, id string) (*entity.Review, error)
	Delete(ctx context.Context, id string) error
	ListByReservationIDs(ctx context.Context, reservationIDs []uuid.UUID) ([]entity.Review, error)
	ListByReviewer(ctx context.Context, reviewerID uuid.UUID) ([]entity.Review, error)
	// AggregateOverall возвращает количество отзывов и среднее overall_rating
	// по множеству бронирований; (0, 0) если отзывов нет
	AggregateOverall(ctx context.Context, reservationIDs []uuid.UUID) (int64, float64, error)
}

// ProfileCache определяет кеш профилей поверх Redis
// Кеш вторичен: промах или ошибка кеша не влияют на корректность
type ProfileCache interface {
	Get(ctx context.Context, userID uuid.UUID) (*entity.Profile, error)
	Set(ctx context.Context, profile *entity.Profile) error
	Invalidate(ctx context.Context, userID uuid.UUID) error
}
