package entity

import "github.com/google/uuid"

// CreateListingRequest - запрос на создание объявления
type CreateListingRequest struct {
	Title         string `json:"title" validate:"required,min=3,max=255"`
	Description   string `json:"description" validate:"max=5000"`
	PricePerNight int64  `json:"price_per_night" validate:"required,gt=0"`
	Currency      string `json:"currency" validate:"required,len=3"`
}

// CreateExperienceRequest - запрос на создание впечатления
type CreateExperienceRequest struct {
	Title         string `json:"title" validate:"required,min=3,max=255"`
	Description   string `json:"description" validate:"max=5000"`
	PricePerGuest int64  `json:"price_per_guest" validate:"required,gt=0"`
	Currency      string `json:"currency" validate:"required,len=3"`
}

// UpdateListingStatusRequest - запрос на смену статуса объявления
type UpdateListingStatusRequest struct {
	Status ListingStatus `json:"status" validate:"required,oneof=draft published suspended"`
}

// CreateReservationRequest - запрос на создание бронирования
type CreateReservationRequest struct {
	ReservationableType ReservationableType `json:"reservationable_type" validate:"required,oneof=listing experience"`
	ReservationableID   uuid.UUID           `json:"reservationable_id" validate:"required"`
	CheckIn             string              `json:"check_in" validate:"required,datetime=2006-01-02"`
	CheckOut            string              `json:"check_out" validate:"required,datetime=2006-01-02"`
	Guests              int                 `json:"guests" validate:"required,min=1,max=16"`
}

// UpdateReservationStatusRequest - запрос на смену статуса бронирования
type UpdateReservationStatusRequest struct {
	Status ReservationStatus `json:"status" validate:"required,oneof=confirmed completed cancelled"`
}

// CreateReviewRequest - запрос на создание отзыва
// Шесть оценок обязательны, каждая от 1 до 5
type CreateReviewRequest struct {
	ReservationID uuid.UUID `json:"reservation_id" validate:"required"`
	Cleanliness   int       `json:"cleanliness" validate:"required,min=1,max=5"`
	Accuracy      int       `json:"accuracy" validate:"required,min=1,max=5"`
	Checkin       int       `json:"checkin" validate:"required,min=1,max=5"`
	Communication int       `json:"communication" validate:"required,min=1,max=5"`
	Location      int       `json:"location" validate:"required,min=1,max=5"`
	Value         int       `json:"value" validate:"required,min=1,max=5"`
	Comment       string    `json:"comment" validate:"max=1000"`
}

// SubRatings собирает структуру оценок из запроса
func (r *CreateReviewRequest) SubRatings() SubRatings {
	return SubRatings{
		Cleanliness:   r.Cleanliness,
		Accuracy:      r.Accuracy,
		Checkin:       r.Checkin,
		Communication: r.Communication,
		Location:      r.Location,
		Value:         r.Value,
	}
}

// AddFavoriteRequest - запрос на добавление в избранное
type AddFavoriteRequest struct {
	FavoritableType FavoritableType `json:"favoritable_type" validate:"required,oneof=listing experience"`
	FavoritableID   uuid.UUID       `json:"favoritable_id" validate:"required"`
}

// UpsertProfileRequest - запрос на создание/обновление профиля
type UpsertProfileRequest struct {
	DisplayName string `json:"display_name" validate:"required,min=1,max=100"`
	Bio         string `json:"bio" validate:"max=2000"`
}

// ErrorResponse - стандартный ответ об ошибке
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// SuccessResponse - стандартный ответ об успехе
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ReviewListResponse - ответ со списком отзывов
type ReviewListResponse struct {
	Reviews []Review `json:"reviews"`
	Total   int      `json:"total"`
}
