package service

import (
	"context"
	"errors"
	"testing"

	"staynest/marketplace-service/internal/app/marketplace/entity"
	"staynest/marketplace-service/internal/app/marketplace/repository"
	"staynest/marketplace-service/internal/app/marketplace/repository/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MockReviewAggregator мок для ReviewAggregator
type MockReviewAggregator struct {
	mock.Mock
}

func (m *MockReviewAggregator) OnReviewCreated(ctx context.Context, review *entity.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *MockReviewAggregator) OnReviewDeleted(ctx context.Context, review *entity.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func newReviewServiceFixture() (*ReviewService, *mocks.MockReviewRepository, *mocks.MockReservationRepository, *MockReviewAggregator, *mocks.MockMessagePublisher) {
	reviewRepo := new(mocks.MockReviewRepository)
	reservationRepo := new(mocks.MockReservationRepository)
	aggregator := new(MockReviewAggregator)
	kafkaProducer := &mocks.MockMessagePublisher{Messages: make([][]byte, 0)}
	svc := NewReviewService(reviewRepo, reservationRepo, aggregator, kafkaProducer)
	return svc, reviewRepo, reservationRepo, aggregator, kafkaProducer
}

func completedReservation(reservationID, guestID uuid.UUID) *entity.Reservation {
	return &entity.Reservation{
		ID:      reservationID,
		GuestID: guestID,
		Status:  entity.ReservationStatusCompleted,
	}
}

func TestCreateReview_Success(t *testing.T) {
	svc, reviewRepo, reservationRepo, aggregator, kafkaProducer := newReviewServiceFixture()

	ctx := context.Background()
	reservationID := uuid.New()
	reviewerID := uuid.New()
	req := &entity.CreateReviewRequest{
		ReservationID: reservationID,
		Cleanliness:   5, Accuracy: 4, Checkin: 5,
		Communication: 4, Location: 5, Value: 4,
		Comment: "Great stay!",
	}

	reservationRepo.On("GetByID", ctx, reservationID).Return(completedReservation(reservationID, reviewerID), nil)
	reviewRepo.On("Create", ctx, mock.AnythingOfType("*entity.Review")).Return(nil).Run(func(args mock.Arguments) {
		review := args.Get(1).(*entity.Review)
		review.ID = primitive.NewObjectID()
	})
	aggregator.On("OnReviewCreated", ctx, mock.AnythingOfType("*entity.Review")).Return(nil)
	kafkaProducer.On("PublishMessage", ctx, mock.Anything, mock.Anything).Return(nil)

	result, err := svc.CreateReview(ctx, reviewerID, req)

	assert.NoError(t, err)
	assert.NotNil(t, result)
	// (5+4+5+4+5+4)/6 = 4.5
	assert.Equal(t, 4.5, result.OverallRating)
	assert.Equal(t, reviewerID.String(), result.ReviewerID)
	aggregator.AssertExpectations(t)
}

func TestCreateReview_OverallRatingRounding(t *testing.T) {
	svc, reviewRepo, reservationRepo, aggregator, kafkaProducer := newReviewServiceFixture()

	ctx := context.Background()
	reservationID := uuid.New()
	reviewerID := uuid.New()
	req := &entity.CreateReviewRequest{
		ReservationID: reservationID,
		Cleanliness:   3, Accuracy: 4, Checkin: 5,
		Communication: 2, Location: 3, Value: 4,
	}

	reservationRepo.On("GetByID", ctx, reservationID).Return(completedReservation(reservationID, reviewerID), nil)
	reviewRepo.On("Create", ctx, mock.Anything).Return(nil)
	aggregator.On("OnReviewCreated", ctx, mock.Anything).Return(nil)
	kafkaProducer.On("PublishMessage", ctx, mock.Anything, mock.Anything).Return(nil)

	result, err := svc.CreateReview(ctx, reviewerID, req)

	assert.NoError(t, err)
	// (3+4+5+2+3+4)/6 = 21/6 = 3.5
	assert.Equal(t, 3.5, result.OverallRating)
}

func TestCreateReview_NotGuest(t *testing.T) {
	svc, _, reservationRepo, _, _ := newReviewServiceFixture()

	ctx := context.Background()
	reservationID := uuid.New()
	req := &entity.CreateReviewRequest{
		ReservationID: reservationID,
		Cleanliness:   5, Accuracy: 5, Checkin: 5,
		Communication: 5, Location: 5, Value: 5,
	}

	reservationRepo.On("GetByID", ctx, reservationID).Return(completedReservation(reservationID, uuid.New()), nil)

	result, err := svc.CreateReview(ctx, uuid.New(), req)

	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Nil(t, result)
}

func TestCreateReview_ReservationNotCompleted(t *testing.T) {
	svc, _, reservationRepo, _, _ := newReviewServiceFixture()

	ctx := context.Background()
	reservationID := uuid.New()
	reviewerID := uuid.New()
	req := &entity.CreateReviewRequest{
		ReservationID: reservationID,
		Cleanliness:   5, Accuracy: 5, Checkin: 5,
		Communication: 5, Location: 5, Value: 5,
	}

	reservationRepo.On("GetByID", ctx, reservationID).Return(&entity.Reservation{
		ID:      reservationID,
		GuestID: reviewerID,
		Status:  entity.ReservationStatusConfirmed,
	}, nil)

	result, err := svc.CreateReview(ctx, reviewerID, req)

	assert.ErrorIs(t, err, ErrReservationNotReviewable)
	assert.Nil(t, result)
}

func TestCreateReview_Duplicate(t *testing.T) {
	svc, reviewRepo, reservationRepo, _, _ := newReviewServiceFixture()

	ctx := context.Background()
	reservationID := uuid.New()
	reviewerID := uuid.New()
	req := &entity.CreateReviewRequest{
		ReservationID: reservationID,
		Cleanliness:   5, Accuracy: 5, Checkin: 5,
		Communication: 5, Location: 5, Value: 5,
	}

	reservationRepo.On("GetByID", ctx, reservationID).Return(completedReservation(reservationID, reviewerID), nil)
	reviewRepo.On("Create", ctx, mock.Anything).Return(repository.ErrReviewExists)

	result, err := svc.CreateReview(ctx, reviewerID, req)

	assert.ErrorIs(t, err, ErrReviewExists)
	assert.Nil(t, result)
}

func TestCreateReview_AggregationErrorIsFatal(t *testing.T) {
	svc, reviewRepo, reservationRepo, aggregator, _ := newReviewServiceFixture()

	ctx := context.Background()
	reservationID := uuid.New()
	reviewerID := uuid.New()
	req := &entity.CreateReviewRequest{
		ReservationID: reservationID,
		Cleanliness:   5, Accuracy: 5, Checkin: 5,
		Communication: 5, Location: 5, Value: 5,
	}

	reservationRepo.On("GetByID", ctx, reservationID).Return(completedReservation(reservationID, reviewerID), nil)
	reviewRepo.On("Create", ctx, mock.Anything).Return(nil)
	aggregator.On("OnReviewCreated", ctx, mock.Anything).Return(errors.New("profile update failed"))

	result, err := svc.CreateReview(ctx, reviewerID, req)

	assert.Error(t, err)
	assert.Nil(t, result)
}

func TestCreateReview_KafkaErrorIgnored(t *testing.T) {
	svc, reviewRepo, reservationRepo, aggregator, kafkaProducer := newReviewServiceFixture()

	ctx := context.Background()
	reservationID := uuid.New()
	reviewerID := uuid.New()
	req := &entity.CreateReviewRequest{
		ReservationID: reservationID,
		Cleanliness:   4, Accuracy: 4, Checkin: 4,
		Communication: 4, Location: 4, Value: 4,
	}

	reservationRepo.On("GetByID", ctx, reservationID).Return(completedReservation(reservationID, reviewerID), nil)
	reviewRepo.On("Create", ctx, mock.Anything).Return(nil)
	aggregator.On("OnReviewCreated", ctx, mock.Anything).Return(nil)
	kafkaProducer.On("PublishMessage", ctx, mock.Anything, mock.Anything).Return(errors.New("kafka error"))

	result, err := svc.CreateReview(ctx, reviewerID, req)

	assert.NoError(t, err)
	assert.NotNil(t, result)
}

func TestDeleteReview_Success(t *testing.T) {
	svc, reviewRepo, _, aggregator, kafkaProducer := newReviewServiceFixture()

	ctx := context.Background()
	reviewerID := uuid.New()
	reviewID := primitive.NewObjectID()
	review := &entity.Review{
		ID:            reviewID,
		ReservationID: uuid.New().String(),
		ReviewerID:    reviewerID.String(),
		OverallRating: 4.5,
	}

	reviewRepo.On("GetByID", ctx, reviewID.Hex()).Return(review, nil)
	reviewRepo.On("Delete", ctx, reviewID.Hex()).Return(nil)
	aggregator.On("OnReviewDeleted", ctx, review).Return(nil)
	kafkaProducer.On("PublishMessage", ctx, mock.Anything, mock.Anything).Return(nil)

	err := svc.DeleteReview(ctx, reviewID.Hex(), reviewerID)

	assert.NoError(t, err)
	aggregator.AssertExpectations(t)
}

func TestDeleteReview_NotOwner(t *testing.T) {
	svc, reviewRepo, _, aggregator, _ := newReviewServiceFixture()

	ctx := context.Background()
	reviewID := primitive.NewObjectID()
	review := &entity.Review{
		ID:         reviewID,
		ReviewerID: uuid.New().String(),
	}

	reviewRepo.On("GetByID", ctx, reviewID.Hex()).Return(review, nil)

	err := svc.DeleteReview(ctx, reviewID.Hex(), uuid.New())

	assert.ErrorIs(t, err, ErrUnauthorized)
	aggregator.AssertNotCalled(t, "OnReviewDeleted", mock.Anything, mock.Anything)
}

func TestGetReviewsByReservationable_Success(t *testing.T) {
	svc, reviewRepo, reservationRepo, _, _ := newReviewServiceFixture()

	ctx := context.Background()
	listingID := uuid.New()
	reservationIDs := []uuid.UUID{uuid.New(), uuid.New()}
	reviews := []entity.Review{
		{ID: primitive.NewObjectID(), OverallRating: 4.5},
		{ID: primitive.NewObjectID(), OverallRating: 3.5},
	}

	reservationRepo.On("ListIDsByReservationable", ctx, entity.ReservationableListing, listingID).Return(reservationIDs, nil)
	reviewRepo.On("ListByReservationIDs", ctx, reservationIDs).Return(reviews, nil)

	result, err := svc.GetReviewsByReservationable(ctx, entity.ReservationableListing, listingID)

	assert.NoError(t, err)
	assert.Len(t, result, 2)
}
