package entity

import (
	"time"

	"github.com/google/uuid"
)

// ListingStatus представляет статусы объявления о жилье
type ListingStatus string

const (
	ListingStatusDraft     ListingStatus = "draft"     // Черновик, не виден гостям
	ListingStatusPublished ListingStatus = "published" // Опубликовано, доступно для бронирования
	ListingStatusSuspended ListingStatus = "suspended" // Снято с публикации
)

// Listing представляет объявление о сдаче жилья
type Listing struct {
	ID            uuid.UUID     `json:"id"`
	HostID        uuid.UUID     `json:"host_id"` // ID хоста-владельца
	Title         string        `json:"title"`
	Description   string        `json:"description"`
	PricePerNight int64         `json:"price_per_night"` // Цена за ночь в минорных единицах валюты
	Currency      string        `json:"currency"`
	Status        ListingStatus `json:"status"`
	CreatedAt     time.Time     `json:"created_at"`
}

// Experience представляет впечатление (экскурсия, мастер-класс и т.п.)
type Experience struct {
	ID            uuid.UUID     `json:"id"`
	HostID        uuid.UUID     `json:"host_id"`
	Title         string        `json:"title"`
	Description   string        `json:"description"`
	PricePerGuest int64         `json:"price_per_guest"` // Цена за гостя в минорных единицах валюты
	Currency      string        `json:"currency"`
	Status        ListingStatus `json:"status"`
	CreatedAt     time.Time     `json:"created_at"`
}

// ReservationableType - тип объекта бронирования (полиморфная связь)
// Хранится явным тегом вместо runtime-резолва типов
type ReservationableType string

const (
	ReservationableListing    ReservationableType = "listing"
	ReservationableExperience ReservationableType = "experience"
)

// IsValid проверяет принадлежность к закрытому набору типов
func (t ReservationableType) IsValid() bool {
	return t == ReservationableListing || t == ReservationableExperience
}

// ReservationStatus представляет статусы бронирования
type ReservationStatus string

const (
	ReservationStatusPending   ReservationStatus = "pending"   // Ожидает подтверждения хостом
	ReservationStatusConfirmed ReservationStatus = "confirmed" // Подтверждено
	ReservationStatusCompleted ReservationStatus = "completed" // Проживание завершено
	ReservationStatusCancelled ReservationStatus = "cancelled" // Отменено
)

// CanTransitionTo проверяет допустимость перехода статуса
// Набор переходов закрытый: pending -> confirmed|cancelled, confirmed -> completed|cancelled
func (s ReservationStatus) CanTransitionTo(next ReservationStatus) bool {
	switch s {
	case ReservationStatusPending:
		return next == ReservationStatusConfirmed || next == ReservationStatusCancelled
	case ReservationStatusConfirmed:
		return next == ReservationStatusCompleted || next == ReservationStatusCancelled
	default:
		return false
	}
}

// Reservation представляет бронирование жилья или впечатления
type Reservation struct {
	ID                  uuid.UUID           `json:"id"`
	ReservationableType ReservationableType `json:"reservationable_type"`
	ReservationableID   uuid.UUID           `json:"reservationable_id"`
	GuestID             uuid.UUID           `json:"guest_id"`
	CheckIn             time.Time           `json:"check_in"`
	CheckOut            time.Time           `json:"check_out"`
	Guests              int                 `json:"guests"`
	TotalPrice          int64               `json:"total_price"` // Итоговая стоимость в минорных единицах
	Currency            string              `json:"currency"`
	Status              ReservationStatus   `json:"status"`
	CreatedAt           time.Time           `json:"created_at"`
}

// Profile представляет профиль пользователя с денормализованными агрегатами
// ReviewsCount и Rating - кеш над отзывами, источник правды - сами отзывы
type Profile struct {
	UserID       uuid.UUID `json:"user_id"`
	DisplayName  string    `json:"display_name"`
	Bio          string    `json:"bio"`
	ReviewsCount int       `json:"reviews_count"`
	Rating       float64   `json:"rating"` // Средний overall_rating по отзывам, 2 знака, 0 если отзывов нет
	UpdatedAt    time.Time `json:"updated_at"`
}

// FavoritableType - тип объекта в избранном (полиморфная связь)
type FavoritableType string

const (
	FavoritableListing    FavoritableType = "listing"
	FavoritableExperience FavoritableType = "experience"
)

// IsValid проверяет принадлежность к закрытому набору типов
func (t FavoritableType) IsValid() bool {
	return t == FavoritableListing || t == FavoritableExperience
}

// Favorite представляет объект в избранном пользователя
type Favorite struct {
	ID              uuid.UUID       `json:"id"`
	UserID          uuid.UUID       `json:"user_id"`
	FavoritableType FavoritableType `json:"favoritable_type"`
	FavoritableID   uuid.UUID       `json:"favoritable_id"`
	CreatedAt       time.Time       `json:"created_at"`
}
