package entity

import (
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SubRatings - шесть оценок отзыва, каждая целое число от 1 до 5
type SubRatings struct {
	Cleanliness   int `json:"cleanliness" bson:"cleanliness"`
	Accuracy      int `json:"accuracy" bson:"accuracy"`
	Checkin       int `json:"checkin" bson:"checkin"`
	Communication int `json:"communication" bson:"communication"`
	Location      int `json:"location" bson:"location"`
	Value         int `json:"value" bson:"value"`
}

// Overall возвращает среднее арифметическое шести оценок,
// округленное до 2 знаков
func (r SubRatings) Overall() float64 {
	sum := r.Cleanliness + r.Accuracy + r.Checkin + r.Communication + r.Location + r.Value
	return RoundRating(float64(sum) / 6)
}

// Review представляет отзыв гостя о завершенном бронировании
// Не более одного отзыва на пару (бронирование, автор)
type Review struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ReservationID string             `json:"reservation_id" bson:"reservation_id"` // UUID бронирования из PostgreSQL
	ReviewerID    string             `json:"reviewer_id" bson:"reviewer_id"`       // UUID гостя-автора
	Ratings       SubRatings         `json:"ratings" bson:"ratings"`
	OverallRating float64            `json:"overall_rating" bson:"overall_rating"` // Среднее шести оценок, хранится при создании
	Comment       string             `json:"comment" bson:"comment"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at" bson:"updated_at"`
}

// RoundRating округляет рейтинг до 2 знаков после запятой
// Единая точность для overall_rating и агрегата профиля
func RoundRating(v float64) float64 {
	return math.Round(v*100) / 100
}
