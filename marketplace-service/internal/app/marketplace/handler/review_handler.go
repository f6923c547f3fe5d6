package handler

import (
	"context"
	"errors"
	"net/http"

	"staynest/marketplace-service/internal/app/marketplace/entity"
	"staynest/marketplace-service/internal/app/marketplace/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type ReviewServiceInterface interface {
	CreateReview(ctx context.Context, reviewerID uuid.UUID, req *entity.CreateReviewRequest) (*entity.Review, error)
	GetReview(ctx context.Context, reviewID string) (*entity.Review, error)
	DeleteReview(ctx context.Context, reviewID string, reviewerID uuid.UUID) error
	GetReviewsByReservationable(ctx context.Context, typ entity.ReservationableType, id uuid.UUID) ([]entity.Review, error)
	GetReviewerReviews(ctx context.Context, reviewerID uuid.UUID) ([]entity.Review, error)
}

type ReviewHandler struct {
	reviewService ReviewServiceInterface
	validator     *validator.Validate
}

func NewReviewHandler(reviewService ReviewServiceInterface) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
		validator:     validator.New(),
	}
}

func (h *ReviewHandler) CreateReview(c *gin.Context) {
	reviewerID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req entity.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": formatValidationError(err)})
		return
	}

	review, err := h.reviewService.CreateReview(c.Request.Context(), reviewerID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrReservationNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Reservation not found"})
		case errors.Is(err, service.ErrUnauthorized):
			c.JSON(http.StatusForbidden, gin.H{"error": "Only the reservation guest can leave a review"})
		case errors.Is(err, service.ErrReservationNotReviewable):
			c.JSON(http.StatusConflict, gin.H{"error": "Reservation is not completed"})
		case errors.Is(err, service.ErrReviewExists):
			c.JSON(http.StatusConflict, gin.H{"error": "Review already exists for this reservation"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create review"})
		}
		return
	}

	c.JSON(http.StatusCreated, review)
}

func (h *ReviewHandler) GetReview(c *gin.Context) {
	reviewID := c.Param("review_id")
	if reviewID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Review ID is required"})
		return
	}

	review, err := h.reviewService.GetReview(c.Request.Context(), reviewID)
	if err != nil {
		if errors.Is(err, service.ErrReviewNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get review"})
		return
	}

	c.JSON(http.StatusOK, review)
}

func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	reviewerID, ok := currentUserID(c)
	if !ok {
		return
	}

	reviewID := c.Param("review_id")
	if reviewID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Review ID is required"})
		return
	}

	if err := h.reviewService.DeleteReview(c.Request.Context(), reviewID, reviewerID); err != nil {
		switch {
		case errors.Is(err, service.ErrReviewNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
		case errors.Is(err, service.ErrUnauthorized):
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete review"})
		}
		return
	}

	c.JSON(http.StatusOK, entity.SuccessResponse{
		Message: "Review deleted successfully",
	})
}

// GetReviewsByReservationable возвращает отзывы об объекте каталога
// Тип объекта приходит в path: /reviews/listing/:id или /reviews/experience/:id
func (h *ReviewHandler) GetReviewsByReservationable(c *gin.Context) {
	typ := entity.ReservationableType(c.Param("type"))
	if !typ.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reservationable type"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid object ID"})
		return
	}

	reviews, err := h.reviewService.GetReviewsByReservationable(c.Request.Context(), typ, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get reviews"})
		return
	}

	response := entity.ReviewListResponse{
		Reviews: reviews,
		Total:   len(reviews),
	}

	c.JSON(http.StatusOK, response)
}

func (h *ReviewHandler) GetMyReviews(c *gin.Context) {
	reviewerID, ok := currentUserID(c)
	if !ok {
		return
	}

	reviews, err := h.reviewService.GetReviewerReviews(c.Request.Context(), reviewerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get reviews"})
		return
	}

	response := entity.ReviewListResponse{
		Reviews: reviews,
		Total:   len(reviews),
	}

	c.JSON(http.StatusOK, response)
}

func formatValidationError(err error) string {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fieldError := range validationErrors {
			return fieldError.Field() + " is " + fieldError.Tag()
		}
	}
	return "Validation failed"
}
