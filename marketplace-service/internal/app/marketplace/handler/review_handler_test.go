package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"staynest/marketplace-service/internal/app/marketplace/entity"
	"staynest/marketplace-service/internal/app/marketplace/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MockReviewService struct {
	mock.Mock
}

func (m *MockReviewService) CreateReview(ctx context.Context, reviewerID uuid.UUID, req *entity.CreateReviewRequest) (*entity.Review, error) {
	args := m.Called(ctx, reviewerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Review), args.Error(1)
}

func (m *MockReviewService) GetReview(ctx context.Context, reviewID string) (*entity.Review, error) {
	args := m.Called(ctx, reviewID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Review), args.Error(1)
}

func (m *MockReviewService) DeleteReview(ctx context.Context, reviewID string, reviewerID uuid.UUID) error {
	args := m.Called(ctx, reviewID, reviewerID)
	return args.Error(0)
}

func (m *MockReviewService) GetReviewsByReservationable(ctx context.Context, typ entity.ReservationableType, id uuid.UUID) ([]entity.Review, error) {
	args := m.Called(ctx, typ, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Review), args.Error(1)
}

func (m *MockReviewService) GetReviewerReviews(ctx context.Context, reviewerID uuid.UUID) ([]entity.Review, error) {
	args := m.Called(ctx, reviewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Review), args.Error(1)
}

// setUserID подставляет user_id в контекст, минуя JWT middleware
func setUserID(userID uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID.String())
		c.Next()
	}
}

func setupReviewRouter(mockService *MockReviewService, userID uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	h := NewReviewHandler(mockService)
	reviews := router.Group("/reviews")
	reviews.GET("/object/:type/:id", h.GetReviewsByReservationable)
	reviews.Use(setUserID(userID))
	reviews.POST("", h.CreateReview)
	reviews.DELETE("/:review_id", h.DeleteReview)

	return router
}

func validCreateReviewBody(reservationID uuid.UUID) []byte {
	body, _ := json.Marshal(entity.CreateReviewRequest{
		ReservationID: reservationID,
		Cleanliness:   5, Accuracy: 4, Checkin: 5,
		Communication: 4, Location: 5, Value: 4,
		Comment: "Lovely place",
	})
	return body
}

func TestCreateReviewHandler_Success(t *testing.T) {
	userID := uuid.New()
	reservationID := uuid.New()

	review := &entity.Review{
		ID:            primitive.NewObjectID(),
		ReservationID: reservationID.String(),
		ReviewerID:    userID.String(),
		OverallRating: 4.5,
	}

	mockService := new(MockReviewService)
	mockService.On("CreateReview", mock.Anything, userID, mock.AnythingOfType("*entity.CreateReviewRequest")).Return(review, nil)

	router := setupReviewRouter(mockService, userID)

	req, _ := http.NewRequest(http.MethodPost, "/reviews", bytes.NewBuffer(validCreateReviewBody(reservationID)))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var result entity.Review
	err := json.Unmarshal(w.Body.Bytes(), &result)
	assert.NoError(t, err)
	assert.Equal(t, 4.5, result.OverallRating)
}

func TestCreateReviewHandler_ValidationError(t *testing.T) {
	userID := uuid.New()
	mockService := new(MockReviewService)
	router := setupReviewRouter(mockService, userID)

	// Оценка 6 выходит за пределы 1..5
	body, _ := json.Marshal(entity.CreateReviewRequest{
		ReservationID: uuid.New(),
		Cleanliness:   6, Accuracy: 4, Checkin: 5,
		Communication: 4, Location: 5, Value: 4,
	})

	req, _ := http.NewRequest(http.MethodPost, "/reviews", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "CreateReview", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateReviewHandler_Duplicate(t *testing.T) {
	userID := uuid.New()
	reservationID := uuid.New()

	mockService := new(MockReviewService)
	mockService.On("CreateReview", mock.Anything, userID, mock.Anything).Return(nil, service.ErrReviewExists)

	router := setupReviewRouter(mockService, userID)

	req, _ := http.NewRequest(http.MethodPost, "/reviews", bytes.NewBuffer(validCreateReviewBody(reservationID)))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCreateReviewHandler_NotReviewable(t *testing.T) {
	userID := uuid.New()

	mockService := new(MockReviewService)
	mockService.On("CreateReview", mock.Anything, userID, mock.Anything).Return(nil, service.ErrReservationNotReviewable)

	router := setupReviewRouter(mockService, userID)

	req, _ := http.NewRequest(http.MethodPost, "/reviews", bytes.NewBuffer(validCreateReviewBody(uuid.New())))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestDeleteReviewHandler_Forbidden(t *testing.T) {
	userID := uuid.New()
	reviewID := primitive.NewObjectID().Hex()

	mockService := new(MockReviewService)
	mockService.On("DeleteReview", mock.Anything, reviewID, userID).Return(service.ErrUnauthorized)

	router := setupReviewRouter(mockService, userID)

	req, _ := http.NewRequest(http.MethodDelete, "/reviews/"+reviewID, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestGetReviewsByReservationableHandler_Success(t *testing.T) {
	listingID := uuid.New()
	reviews := []entity.Review{
		{ID: primitive.NewObjectID(), OverallRating: 4.5},
		{ID: primitive.NewObjectID(), OverallRating: 3.5},
	}

	mockService := new(MockReviewService)
	mockService.On("GetReviewsByReservationable", mock.Anything, entity.ReservationableListing, listingID).Return(reviews, nil)

	router := setupReviewRouter(mockService, uuid.New())

	req, _ := http.NewRequest(http.MethodGet, "/reviews/object/listing/"+listingID.String(), nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var result entity.ReviewListResponse
	err := json.Unmarshal(w.Body.Bytes(), &result)
	assert.NoError(t, err)
	assert.Equal(t, 2, result.Total)
}

func TestGetReviewsByReservationableHandler_InvalidType(t *testing.T) {
	mockService := new(MockReviewService)
	router := setupReviewRouter(mockService, uuid.New())

	req, _ := http.NewRequest(http.MethodGet, "/reviews/object/car/"+uuid.New().String(), nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "GetReviewsByReservationable", mock.Anything, mock.Anything, mock.Anything)
}
