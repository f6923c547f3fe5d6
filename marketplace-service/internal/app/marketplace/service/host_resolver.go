package service

import (
	"context"
	"errors"
	"fmt"

	"staynest/marketplace-service/internal/app/marketplace/entity"
	"staynest/marketplace-service/internal/app/marketplace/repository"

	"github.com/google/uuid"
)

// HostLookup возвращает ID хоста-владельца объекта бронирования
type HostLookup func(ctx context.Context, id uuid.UUID) (uuid.UUID, error)

// HostResolver разворачивает полиморфную связь reservationable -> host
// Диспетчеризация по явному тегу типа через таблицу lookup-функций
type HostResolver struct {
	lookups map[entity.ReservationableType]HostLookup
}

// NewHostResolver создает резолвер хостов по репозиториям объектов
func NewHostResolver(
	listingRepo repository.ListingRepository,
	experienceRepo repository.ExperienceRepository,
) *HostResolver {
	return &HostResolver{
		lookups: map[entity.ReservationableType]HostLookup{
			entity.ReservationableListing: func(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
				listing, err := listingRepo.GetByID(ctx, id)
				if err != nil {
					return uuid.Nil, err
				}
				return listing.HostID, nil
			},
			entity.ReservationableExperience: func(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
				experience, err := experienceRepo.GetByID(ctx, id)
				if err != nil {
					return uuid.Nil, err
				}
				return experience.HostID, nil
			},
		},
	}
}

// ResolveHost возвращает ID хоста для объекта бронирования
// Неизвестный тип или висящая ссылка - ошибка, не тихий пропуск
func (r *HostResolver) ResolveHost(ctx context.Context, typ entity.ReservationableType, id uuid.UUID) (uuid.UUID, error) {
	lookup, ok := r.lookups[typ]
	if !ok {
		return uuid.Nil, fmt.Errorf("%w: %s", ErrUnknownReservationableType, typ)
	}

	hostID, err := lookup(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrListingNotFound) || errors.Is(err, repository.ErrExperienceNotFound) {
			return uuid.Nil, fmt.Errorf("%w: %s %s: %v", ErrHostUnresolved, typ, id, err)
		}
		return uuid.Nil, fmt.Errorf("failed to look up host for %s %s: %w", typ, id, err)
	}

	return hostID, nil
}
