package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeReviewCreated = "REVIEW_CREATED"
	EventTypeReviewDeleted = "REVIEW_DELETED"

	EventTypeReservationCreated   = "RESERVATION_CREATED"
	EventTypeReservationConfirmed = "RESERVATION_CONFIRMED"
	EventTypeReservationCancelled = "RESERVATION_CANCELLED"
)

// ReviewEvent - событие жизненного цикла отзыва для Kafka
type ReviewEvent struct {
	EventType     string    `json:"event_type"` // REVIEW_CREATED, REVIEW_DELETED
	ReviewID      string    `json:"review_id"`
	ReservationID string    `json:"reservation_id"`
	ReviewerID    string    `json:"reviewer_id"`
	HostID        string    `json:"host_id"`
	OverallRating float64   `json:"overall_rating"`
	Timestamp     time.Time `json:"timestamp"`
}

// ReservationEvent - событие изменения бронирования для Kafka
// RESERVATION_CONFIRMED обрабатывается payment-worker-service
type ReservationEvent struct {
	EventType           string              `json:"event_type"`
	ReservationID       uuid.UUID           `json:"reservation_id"`
	GuestID             uuid.UUID           `json:"guest_id"`
	ReservationableType ReservationableType `json:"reservationable_type"`
	ReservationableID   uuid.UUID           `json:"reservationable_id"`
	TotalPrice          int64               `json:"total_price"`
	Currency            string              `json:"currency"`
	Status              ReservationStatus   `json:"status"`
	Timestamp           time.Time           `json:"timestamp"`
}
