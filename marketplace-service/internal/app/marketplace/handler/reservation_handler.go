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

type ReservationServiceInterface interface {
	CreateReservation(ctx context.Context, guestID uuid.UUID, req *entity.CreateReservationRequest) (*entity.Reservation, error)
	GetReservation(ctx context.Context, id uuid.UUID) (*entity.Reservation, error)
	GetGuestReservations(ctx context.Context, guestID uuid.UUID) ([]entity.Reservation, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, next entity.ReservationStatus) (*entity.Reservation, error)
}

type ReservationHandler struct {
	reservationService ReservationServiceInterface
	validator          *validator.Validate
}

func NewReservationHandler(reservationService ReservationServiceInterface) *ReservationHandler {
	return &ReservationHandler{
		reservationService: reservationService,
		validator:          validator.New(),
	}
}

func (h *ReservationHandler) CreateReservation(c *gin.Context) {
	guestID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req entity.CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": formatValidationError(err)})
		return
	}

	reservation, err := h.reservationService.CreateReservation(c.Request.Context(), guestID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrListingNotFound), errors.Is(err, service.ErrExperienceNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Object not found"})
		case errors.Is(err, service.ErrNotBookable):
			c.JSON(http.StatusConflict, gin.H{"error": "Object is not available for booking"})
		case errors.Is(err, service.ErrInvalidDateRange):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Check-out must be after check-in"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create reservation"})
		}
		return
	}

	c.JSON(http.StatusCreated, reservation)
}

func (h *ReservationHandler) GetReservation(c *gin.Context) {
	id, err := uuid.Parse(c.Param("reservation_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reservation ID"})
		return
	}

	reservation, err := h.reservationService.GetReservation(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrReservationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Reservation not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get reservation"})
		return
	}

	c.JSON(http.StatusOK, reservation)
}

func (h *ReservationHandler) GetMyReservations(c *gin.Context) {
	guestID, ok := currentUserID(c)
	if !ok {
		return
	}

	reservations, err := h.reservationService.GetGuestReservations(c.Request.Context(), guestID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get reservations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reservations": reservations,
		"total":        len(reservations),
	})
}

func (h *ReservationHandler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("reservation_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reservation ID"})
		return
	}

	var req entity.UpdateReservationStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": formatValidationError(err)})
		return
	}

	reservation, err := h.reservationService.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrReservationNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Reservation not found"})
		case errors.Is(err, service.ErrInvalidStatusTransition):
			c.JSON(http.StatusConflict, gin.H{"error": "Invalid status transition"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update reservation status"})
		}
		return
	}

	c.JSON(http.StatusOK, reservation)
}
