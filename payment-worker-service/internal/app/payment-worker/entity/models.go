package entity

import (
	"time"

	"github.com/google/uuid"
)

type Reservation struct {
	ID                  uuid.UUID         `json:"id" gorm:"type:uuid;primaryKey"`
	ReservationableType string            `json:"reservationable_type" gorm:"type:varchar(50);not null"`
	ReservationableID   uuid.UUID         `json:"reservationable_id" gorm:"type:uuid;not null"`
	GuestID             uuid.UUID         `json:"guest_id" gorm:"type:uuid;not null"`
	CheckIn             time.Time         `json:"check_in" gorm:"not null"`
	CheckOut            time.Time         `json:"check_out" gorm:"not null"`
	Guests              int               `json:"guests" gorm:"not null"`
	TotalPrice          int64             `json:"total_price" gorm:"not null"` // Минорные единицы валюты
	Currency            string            `json:"currency" gorm:"type:varchar(10);not null"`
	Status              ReservationStatus `json:"status" gorm:"type:varchar(50);not null;default:'pending'"`
	CreatedAt           time.Time         `json:"created_at" gorm:"autoCreateTime"`
}

func (Reservation) TableName() string {
	return "reservations"
}

type ReservationStatus string

const (
	ReservationStatusPending   ReservationStatus = "pending"
	ReservationStatusConfirmed ReservationStatus = "confirmed"
	ReservationStatusCompleted ReservationStatus = "completed"
	ReservationStatusCancelled ReservationStatus = "cancelled"
)

// PaymentMethod - способ оплаты
type PaymentMethod string

const (
	PaymentMethodCard         PaymentMethod = "card"
	PaymentMethodPaypal       PaymentMethod = "paypal"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodCash         PaymentMethod = "cash"
)

func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCard, PaymentMethodPaypal, PaymentMethodBankTransfer, PaymentMethodCash:
		return true
	default:
		return false
	}
}

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRefunded PaymentStatus = "refunded"
	PaymentStatusFailed   PaymentStatus = "failed"
)

// Payment - платеж по бронированию
// На одно бронирование приходится не больше одного платежа (уникальный индекс)
type Payment struct {
	ID            uuid.UUID     `json:"id" gorm:"type:uuid;primaryKey"`
	ReservationID uuid.UUID     `json:"reservation_id" gorm:"type:uuid;not null;uniqueIndex"`
	Amount        int64         `json:"amount" gorm:"not null"` // Минорные единицы валюты
	Currency      string        `json:"currency" gorm:"type:varchar(10);not null"`
	Method        PaymentMethod `json:"method" gorm:"type:varchar(50);not null"`
	Status        PaymentStatus `json:"status" gorm:"type:varchar(50);not null;default:'pending'"`
	CreatedAt     time.Time     `json:"created_at" gorm:"autoCreateTime"`
}

func (Payment) TableName() string {
	return "payments"
}

// ReservationEvent - событие жизненного цикла бронирования из Kafka
type ReservationEvent struct {
	EventType           string            `json:"event_type"` // RESERVATION_CREATED, RESERVATION_CONFIRMED, RESERVATION_CANCELLED
	ReservationID       uuid.UUID         `json:"reservation_id"`
	GuestID             uuid.UUID         `json:"guest_id"`
	ReservationableType string            `json:"reservationable_type"`
	ReservationableID   uuid.UUID         `json:"reservationable_id"`
	TotalPrice          int64             `json:"total_price"`
	Currency            string            `json:"currency"`
	Status              ReservationStatus `json:"status"`
	Timestamp           time.Time         `json:"timestamp"`
}

const (
	EventTypeReservationCreated   = "RESERVATION_CREATED"
	EventTypeReservationConfirmed = "RESERVATION_CONFIRMED"
	EventTypeReservationCancelled = "RESERVATION_CANCELLED"
)

// GenerateOptions - параметры батч-генерации платежей
type GenerateOptions struct {
	Statuses []ReservationStatus // Какие статусы бронирований попадают в выборку
	Method   PaymentMethod       // Способ оплаты создаваемых платежей
	Force    bool                // true - пересоздать существующие платежи с новыми ID
}

// GenerateReport - итог прогона генерации платежей
type GenerateReport struct {
	Processed int `json:"processed"` // Сколько платежей создано или пересоздано
	Skipped   int `json:"skipped"`   // Сколько бронирований пропущено (платеж уже был)
}
