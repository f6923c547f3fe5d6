package service

import "errors"

var (
	// Ошибки бизнес-логики для обработки в handlers
	ErrListingNotFound     = errors.New("listing not found")
	ErrExperienceNotFound  = errors.New("experience not found")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrReviewNotFound      = errors.New("review not found")
	ErrProfileNotFound     = errors.New("profile not found")
	ErrFavoriteNotFound    = errors.New("favorite not found")

	ErrUnauthorized             = errors.New("unauthorized access")
	ErrReviewExists             = errors.New("review already exists for this reservation")
	ErrReservationNotReviewable = errors.New("reservation is not completed and cannot be reviewed")
	ErrNotBookable              = errors.New("object is not published and cannot be booked")
	ErrInvalidStatusTransition  = errors.New("invalid reservation status transition")
	ErrInvalidDateRange         = errors.New("check-out must be after check-in")
	ErrFavoriteExists           = errors.New("object is already in favorites")

	// Ошибки целостности ссылок: отзыв не резолвится до профиля хоста
	// Сигнализируют о нарушении референциальной целостности выше по стеку
	ErrUnknownReservationableType = errors.New("unknown reservationable type")
	ErrHostUnresolved             = errors.New("failed to resolve host for reservation")
)
