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

type CatalogServiceInterface interface {
	CreateListing(ctx context.Context, hostID uuid.UUID, req *entity.CreateListingRequest) (*entity.Listing, error)
	GetListing(ctx context.Context, id uuid.UUID) (*entity.Listing, error)
	GetHostListings(ctx context.Context, hostID uuid.UUID) ([]entity.Listing, error)
	UpdateListingStatus(ctx context.Context, id, hostID uuid.UUID, status entity.ListingStatus) (*entity.Listing, error)
	CreateExperience(ctx context.Context, hostID uuid.UUID, req *entity.CreateExperienceRequest) (*entity.Experience, error)
	GetExperience(ctx context.Context, id uuid.UUID) (*entity.Experience, error)
	GetHostExperiences(ctx context.Context, hostID uuid.UUID) ([]entity.Experience, error)
	UpdateExperienceStatus(ctx context.Context, id, hostID uuid.UUID, status entity.ListingStatus) (*entity.Experience, error)
	AddFavorite(ctx context.Context, userID uuid.UUID, req *entity.AddFavoriteRequest) (*entity.Favorite, error)
	RemoveFavorite(ctx context.Context, userID uuid.UUID, typ entity.FavoritableType, favoritableID uuid.UUID) error
	GetUserFavorites(ctx context.Context, userID uuid.UUID) ([]entity.Favorite, error)
}

type CatalogHandler struct {
	catalogService CatalogServiceInterface
	validator      *validator.Validate
}

func NewCatalogHandler(catalogService CatalogServiceInterface) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		validator:      validator.New(),
	}
}

func (h *CatalogHandler) CreateListing(c *gin.Context) {
	hostID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req entity.CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": formatValidationError(err)})
		return
	}

	listing, err := h.catalogService.CreateListing(c.Request.Context(), hostID, &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create listing"})
		return
	}

	c.JSON(http.StatusCreated, listing)
}

func (h *CatalogHandler) GetListing(c *gin.Context) {
	id, err := uuid.Parse(c.Param("listing_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid listing ID"})
		return
	}

	listing, err := h.catalogService.GetListing(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrListingNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get listing"})
		return
	}

	c.JSON(http.StatusOK, listing)
}

func (h *CatalogHandler) GetMyListings(c *gin.Context) {
	hostID, ok := currentUserID(c)
	if !ok {
		return
	}

	listings, err := h.catalogService.GetHostListings(c.Request.Context(), hostID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get listings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"listings": listings,
		"total":    len(listings),
	})
}

func (h *CatalogHandler) UpdateListingStatus(c *gin.Context) {
	hostID, ok := currentUserID(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("listing_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid listing ID"})
		return
	}

	var req entity.UpdateListingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": formatValidationError(err)})
		return
	}

	listing, err := h.catalogService.UpdateListingStatus(c.Request.Context(), id, hostID, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrListingNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
		case errors.Is(err, service.ErrUnauthorized):
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update listing status"})
		}
		return
	}

	c.JSON(http.StatusOK, listing)
}

func (h *CatalogHandler) CreateExperience(c *gin.Context) {
	hostID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req entity.CreateExperienceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": formatValidationError(err)})
		return
	}

	experience, err := h.catalogService.CreateExperience(c.Request.Context(), hostID, &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create experience"})
		return
	}

	c.JSON(http.StatusCreated, experience)
}

func (h *CatalogHandler) GetExperience(c *gin.Context) {
	id, err := uuid.Parse(c.Param("experience_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid experience ID"})
		return
	}

	experience, err := h.catalogService.GetExperience(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrExperienceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Experience not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get experience"})
		return
	}

	c.JSON(http.StatusOK, experience)
}

func (h *CatalogHandler) GetMyExperiences(c *gin.Context) {
	hostID, ok := currentUserID(c)
	if !ok {
		return
	}

	experiences, err := h.catalogService.GetHostExperiences(c.Request.Context(), hostID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get experiences"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"experiences": experiences,
		"total":       len(experiences),
	})
}

func (h *CatalogHandler) UpdateExperienceStatus(c *gin.Context) {
	hostID, ok := currentUserID(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("experience_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid experience ID"})
		return
	}

	var req entity.UpdateListingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": formatValidationError(err)})
		return
	}

	experience, err := h.catalogService.UpdateExperienceStatus(c.Request.Context(), id, hostID, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrExperienceNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Experience not found"})
		case errors.Is(err, service.ErrUnauthorized):
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update experience status"})
		}
		return
	}

	c.JSON(http.StatusOK, experience)
}

func (h *CatalogHandler) AddFavorite(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req entity.AddFavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": formatValidationError(err)})
		return
	}

	favorite, err := h.catalogService.AddFavorite(c.Request.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrListingNotFound), errors.Is(err, service.ErrExperienceNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Object not found"})
		case errors.Is(err, service.ErrFavoriteExists):
			c.JSON(http.StatusConflict, gin.H{"error": "Object is already in favorites"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add favorite"})
		}
		return
	}

	c.JSON(http.StatusCreated, favorite)
}

func (h *CatalogHandler) RemoveFavorite(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	typ := entity.FavoritableType(c.Param("type"))
	if !typ.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid favoritable type"})
		return
	}

	favoritableID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid object ID"})
		return
	}

	if err := h.catalogService.RemoveFavorite(c.Request.Context(), userID, typ, favoritableID); err != nil {
		if errors.Is(err, service.ErrFavoriteNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Favorite not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove favorite"})
		return
	}

	c.JSON(http.StatusOK, entity.SuccessResponse{
		Message: "Favorite removed successfully",
	})
}

func (h *CatalogHandler) GetMyFavorites(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	favorites, err := h.catalogService.GetUserFavorites(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get favorites"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"favorites": favorites,
		"total":     len(favorites),
	})
}
