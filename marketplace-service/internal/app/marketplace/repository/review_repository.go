package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"staynest/marketplace-service/internal/app/marketplace/entity"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type reviewRepository struct {
	collection *mongo.Collection
}

// NewReviewRepository создает новый репозиторий отзывов
// Создает уникальный составной индекс (reservation_id, reviewer_id):
// не более одного отзыва на пару (бронирование, автор)
func NewReviewRepository(db *mongo.Database) ReviewRepository {
	collection := db.Collection("reviews")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	uniqueIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "reservation_id", Value: 1},
			{Key: "reviewer_id", Value: 1},
		},
		Options: options.Index().
			SetName("reservation_reviewer_unique_idx").
			SetUnique(true),
	}

	if _, err := collection.Indexes().CreateOne(ctx, uniqueIndex); err != nil {
		// Не прерываем работу - индекс может уже существовать
		fmt.Printf("Warning: failed to create unique index on (reservation_id, reviewer_id): %v\n", err)
	}

	reviewerIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "reviewer_id", Value: 1},
		},
		Options: options.Index().SetName("reviewer_id_idx"),
	}

	if _, err := collection.Indexes().CreateOne(ctx, reviewerIndex); err != nil {
		fmt.Printf("Warning: failed to create index on reviewer_id: %v\n", err)
	}

	return &reviewRepository{collection: collection}
}

// Create создает новый отзыв в MongoDB
// Дубликат по (reservation_id, reviewer_id) отбивается уникальным индексом
func (r *reviewRepository) Create(ctx context.Context, review *entity.Review) error {
	review.CreatedAt = time.Now()
	review.UpdatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, review)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrReviewExists
		}
		return fmt.Errorf("failed to create review: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		review.ID = oid
	}

	return nil
}

// GetByID получает отзыв по ID
func (r *reviewRepository) GetByID(ctx context.Context, id string) (*entity.Review, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid review ID: %w", err)
	}

	var review entity.Review
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&review)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to get review: %w", err)
	}

	return &review, nil
}

// Delete удаляет отзыв из MongoDB
func (r *reviewRepository) Delete(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid review ID: %w", err)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}

	if result.DeletedCount == 0 {
		return ErrReviewNotFound
	}

	return nil
}

// ListByReservationIDs получает отзывы по множеству бронирований, новые первыми
func (r *reviewRepository) ListByReservationIDs(ctx context.Context, reservationIDs []uuid.UUID) ([]entity.Review, error) {
	if len(reservationIDs) == 0 {
		return nil, nil
	}

	filter := bson.M{"reservation_id": bson.M{"$in": uuidsToStrings(reservationIDs)}}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find reviews: %w", err)
	}
	defer cursor.Close(ctx)

	var reviews []entity.Review
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, fmt.Errorf("failed to decode reviews: %w", err)
	}

	return reviews, nil
}

// ListByReviewer получает все отзывы автора, новые первыми
func (r *reviewRepository) ListByReviewer(ctx context.Context, reviewerID uuid.UUID) ([]entity.Review, error) {
	filter := bson.M{"reviewer_id": reviewerID.String()}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find reviews: %w", err)
	}
	defer cursor.Close(ctx)

	var reviews []entity.Review
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, fmt.Errorf("failed to decode reviews: %w", err)
	}

	return reviews, nil
}

// AggregateOverall считает количество отзывов и среднее overall_rating
// по множеству бронирований через aggregation pipeline
// Возвращает (0, 0), если отзывов нет: истинное среднее по живому набору
func (r *reviewRepository) AggregateOverall(ctx context.Context, reservationIDs []uuid.UUID) (int64, float64, error) {
	if len(reservationIDs) == 0 {
		return 0, 0, nil
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"reservation_id": bson.M{"$in": uuidsToStrings(reservationIDs)},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"count": bson.M{"$sum": 1},
			"avg":   bson.M{"$avg": "$overall_rating"},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to aggregate reviews: %w", err)
	}
	defer cursor.Close(ctx)

	var result struct {
		Count int64   `bson:"count"`
		Avg   float64 `bson:"avg"`
	}

	if cursor.Next(ctx) {
		if err := cursor.Decode(&result); err != nil {
			return 0, 0, fmt.Errorf("failed to decode aggregation result: %w", err)
		}
	}

	if err := cursor.Err(); err != nil {
		return 0, 0, fmt.Errorf("error iterating aggregation result: %w", err)
	}

	return result.Count, result.Avg, nil
}

func uuidsToStrings(ids []uuid.UUID) []string {
	strs := make([]string, len(ids))
	for i, id := range ids {
		strs[i] = id.String()
	}
	return strs
}
