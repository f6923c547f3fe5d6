package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"staynest/marketplace-service/internal/app/marketplace/entity"
	"staynest/marketplace-service/internal/app/marketplace/repository"

	"github.com/google/uuid"
)

// CatalogService обрабатывает бизнес-логику каталога: объявления, впечатления, избранное
type CatalogService struct {
	listingRepo    repository.ListingRepository
	experienceRepo repository.ExperienceRepository
	favoriteRepo   repository.FavoriteRepository
}

// NewCatalogService создает новый сервис каталога с внедрением зависимостей
func NewCatalogService(
	listingRepo repository.ListingRepository,
	experienceRepo repository.ExperienceRepository,
	favoriteRepo repository.FavoriteRepository,
) *CatalogService {
	return &CatalogService{
		listingRepo:    listingRepo,
		experienceRepo: experienceRepo,
		favoriteRepo:   favoriteRepo,
	}
}

// CreateListing создает новое объявление в статусе draft
func (s *CatalogService) CreateListing(ctx context.Context, hostID uuid.UUID, req *entity.CreateListingRequest) (*entity.Listing, error) {
	listing := &entity.Listing{
		ID:            uuid.New(),
		HostID:        hostID,
		Title:         req.Title,
		Description:   req.Description,
		PricePerNight: req.PricePerNight,
		Currency:      req.Currency,
		Status:        entity.ListingStatusDraft,
		CreatedAt:     time.Now(),
	}

	if err := s.listingRepo.Create(ctx, listing); err != nil {
		return nil, fmt.Errorf("failed to create listing: %w", err)
	}

	return listing, nil
}

// GetListing получает объявление по ID
func (s *CatalogService) GetListing(ctx context.Context, id uuid.UUID) (*entity.Listing, error) {
	listing, err := s.listingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}

	return listing, nil
}

// GetHostListings получает все объявления хоста
func (s *CatalogService) GetHostListings(ctx context.Context, hostID uuid.UUID) ([]entity.Listing, error) {
	listings, err := s.listingRepo.ListByHost(ctx, hostID)
	if err != nil {
		return nil, fmt.Errorf("failed to get host listings: %w", err)
	}

	return listings, nil
}

// UpdateListingStatus меняет статус объявления с проверкой владельца
func (s *CatalogService) UpdateListingStatus(ctx context.Context, id, hostID uuid.UUID, status entity.ListingStatus) (*entity.Listing, error) {
	listing, err := s.listingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}

	if listing.HostID != hostID {
		return nil, ErrUnauthorized
	}

	if err := s.listingRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, fmt.Errorf("failed to update listing status: %w", err)
	}

	listing.Status = status
	return listing, nil
}

// CreateExperience создает новое впечатление в статусе draft
func (s *CatalogService) CreateExperience(ctx context.Context, hostID uuid.UUID, req *entity.CreateExperienceRequest) (*entity.Experience, error) {
	experience := &entity.Experience{
		ID:            uuid.New(),
		HostID:        hostID,
		Title:         req.Title,
		Description:   req.Description,
		PricePerGuest: req.PricePerGuest,
		Currency:      req.Currency,
		Status:        entity.ListingStatusDraft,
		CreatedAt:     time.Now(),
	}

	if err := s.experienceRepo.Create(ctx, experience); err != nil {
		return nil, fmt.Errorf("failed to create experience: %w", err)
	}

	return experience, nil
}

// GetExperience получает впечатление по ID
func (s *CatalogService) GetExperience(ctx context.Context, id uuid.UUID) (*entity.Experience, error) {
	experience, err := s.experienceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrExperienceNotFound) {
			return nil, ErrExperienceNotFound
		}
		return nil, fmt.Errorf("failed to get experience: %w", err)
	}

	return experience, nil
}

// GetHostExperiences получает все впечатления хоста
func (s *CatalogService) GetHostExperiences(ctx context.Context, hostID uuid.UUID) ([]entity.Experience, error) {
	experiences, err := s.experienceRepo.ListByHost(ctx, hostID)
	if err != nil {
		return nil, fmt.Errorf("failed to get host experiences: %w", err)
	}

	return experiences, nil
}

// UpdateExperienceStatus меняет статус впечатления с проверкой владельца
func (s *CatalogService) UpdateExperienceStatus(ctx context.Context, id, hostID uuid.UUID, status entity.ListingStatus) (*entity.Experience, error) {
	experience, err := s.experienceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrExperienceNotFound) {
			return nil, ErrExperienceNotFound
		}
		return nil, fmt.Errorf("failed to get experience: %w", err)
	}

	if experience.HostID != hostID {
		return nil, ErrUnauthorized
	}

	if err := s.experienceRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, fmt.Errorf("failed to update experience status: %w", err)
	}

	experience.Status = status
	return experience, nil
}

// AddFavorite добавляет объект в избранное пользователя
// Перед добавлением проверяется, что объект существует
func (s *CatalogService) AddFavorite(ctx context.Context, userID uuid.UUID, req *entity.AddFavoriteRequest) (*entity.Favorite, error) {
	if err := s.checkFavoritableExists(ctx, req.FavoritableType, req.FavoritableID); err != nil {
		return nil, err
	}

	favorite := &entity.Favorite{
		ID:              uuid.New(),
		UserID:          userID,
		FavoritableType: req.FavoritableType,
		FavoritableID:   req.FavoritableID,
		CreatedAt:       time.Now(),
	}

	if err := s.favoriteRepo.Add(ctx, favorite); err != nil {
		if errors.Is(err, repository.ErrFavoriteExists) {
			return nil, ErrFavoriteExists
		}
		return nil, fmt.Errorf("failed to add favorite: %w", err)
	}

	return favorite, nil
}

// RemoveFavorite убирает объект из избранного пользователя
func (s *CatalogService) RemoveFavorite(ctx context.Context, userID uuid.UUID, typ entity.FavoritableType, favoritableID uuid.UUID) error {
	if err := s.favoriteRepo.Remove(ctx, userID, typ, favoritableID); err != nil {
		if errors.Is(err, repository.ErrFavoriteNotFound) {
			return ErrFavoriteNotFound
		}
		return fmt.Errorf("failed to remove favorite: %w", err)
	}

	return nil
}

// GetUserFavorites получает избранное пользователя
func (s *CatalogService) GetUserFavorites(ctx context.Context, userID uuid.UUID) ([]entity.Favorite, error) {
	favorites, err := s.favoriteRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user favorites: %w", err)
	}

	return favorites, nil
}

// checkFavoritableExists проверяет существование объекта избранного по его типу
func (s *CatalogService) checkFavoritableExists(ctx context.Context, typ entity.FavoritableType, id uuid.UUID) error {
	switch typ {
	case entity.FavoritableListing:
		if _, err := s.listingRepo.GetByID(ctx, id); err != nil {
			if errors.Is(err, repository.ErrListingNotFound) {
				return ErrListingNotFound
			}
			return fmt.Errorf("failed to get listing: %w", err)
		}
	case entity.FavoritableExperience:
		if _, err := s.experienceRepo.GetByID(ctx, id); err != nil {
			if errors.Is(err, repository.ErrExperienceNotFound) {
				return ErrExperienceNotFound
			}
			return fmt.Errorf("failed to get experience: %w", err)
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnknownReservationableType, typ)
	}

	return nil
}
