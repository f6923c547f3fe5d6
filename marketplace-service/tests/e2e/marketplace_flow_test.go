//go:build e2e

package e2e

import (
	"bytes"
	"encoding/json"
	"net/http"
	"os"
	"testing"
	"time"

	"staynest/marketplace-service/internal/app/marketplace/entity"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// E2E тесты против запущенного marketplace-service
// BaseURL и секрет переопределяются через окружение

var (
	BaseURL   = getEnv("E2E_BASE_URL", "http://localhost:8084")
	JWTSecret = getEnv("JWT_SECRET", "your-secret-key-change-this-in-production")
)

// mintToken выпускает JWT для тестового пользователя
// Секрет должен совпадать с секретом запущенного сервиса
func mintToken(t *testing.T, userID uuid.UUID) string {
	claims := jwt.MapClaims{
		"user_id": userID.String(),
		"email":   "e2e@example.com",
		"exp":     time.Now().Add(time.Hour).Unix(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(JWTSecret))
	require.NoError(t, err)

	return token
}

func authHeaders(token string) http.Header {
	headers := make(http.Header)
	headers.Set("Content-Type", "application/json")
	headers.Set("Authorization", "Bearer "+token)
	return headers
}

func doJSON(t *testing.T, client *http.Client, method, url string, token string, payload interface{}) *http.Response {
	var body *bytes.Buffer
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewBuffer(data)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err)
	req.Header = authHeaders(token)

	resp, err := client.Do(req)
	require.NoError(t, err)

	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func TestFullMarketplaceFlow(t *testing.T) {
	client := &http.Client{Timeout: 10 * time.Second}

	hostID := uuid.New()
	guestID := uuid.New()
	hostToken := mintToken(t, hostID)
	guestToken := mintToken(t, guestID)

	// 1. Хост заводит профиль
	resp := doJSON(t, client, http.MethodPut, BaseURL+"/profiles/me", hostToken, entity.UpsertProfileRequest{
		DisplayName: "E2E Host",
		Bio:         "Testing host",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// 2. Хост создает объявление и публикует его
	resp = doJSON(t, client, http.MethodPost, BaseURL+"/listings", hostToken, entity.CreateListingRequest{
		Title:         "E2E seaside apartment",
		Description:   "Two rooms by the sea",
		PricePerNight: 10000,
		Currency:      "EUR",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var listing entity.Listing
	decodeBody(t, resp, &listing)
	assert.Equal(t, entity.ListingStatusDraft, listing.Status)

	resp = doJSON(t, client, http.MethodPatch, BaseURL+"/listings/"+listing.ID.String()+"/status", hostToken, entity.UpdateListingStatusRequest{
		Status: entity.ListingStatusPublished,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// 3. Гость бронирует: 3 ночи * 10000
	resp = doJSON(t, client, http.MethodPost, BaseURL+"/reservations", guestToken, entity.CreateReservationRequest{
		ReservationableType: entity.ReservationableListing,
		ReservationableID:   listing.ID,
		CheckIn:             "2026-10-01",
		CheckOut:            "2026-10-04",
		Guests:              2,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var reservation entity.Reservation
	decodeBody(t, resp, &reservation)
	assert.Equal(t, int64(30000), reservation.TotalPrice)
	assert.Equal(t, entity.ReservationStatusPending, reservation.Status)

	// 4. pending -> confirmed -> completed
	for _, status := range []entity.ReservationStatus{entity.ReservationStatusConfirmed, entity.ReservationStatusCompleted} {
		resp = doJSON(t, client, http.MethodPatch, BaseURL+"/reservations/"+reservation.ID.String()+"/status", guestToken, entity.UpdateReservationStatusRequest{
			Status: status,
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()
	}

	// 5. Гость оставляет отзыв: overall (5+4+5+4+5+4)/6 = 4.5
	resp = doJSON(t, client, http.MethodPost, BaseURL+"/reviews", guestToken, entity.CreateReviewRequest{
		ReservationID: reservation.ID,
		Cleanliness:   5, Accuracy: 4, Checkin: 5,
		Communication: 4, Location: 5, Value: 4,
		Comment: "Great stay",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var review entity.Review
	decodeBody(t, resp, &review)
	assert.Equal(t, 4.5, review.OverallRating)

	// 6. Рейтинг хоста пересчитан
	resp = doJSON(t, client, http.MethodGet, BaseURL+"/profiles/"+hostID.String(), "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var profile entity.Profile
	decodeBody(t, resp, &profile)
	assert.Equal(t, 1, profile.ReviewsCount)
	assert.Equal(t, 4.5, profile.Rating)

	// 7. Отзыв виден в списке по объекту
	resp = doJSON(t, client, http.MethodGet, BaseURL+"/reviews/object/listing/"+listing.ID.String(), "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var reviewList entity.ReviewListResponse
	decodeBody(t, resp, &reviewList)
	assert.Equal(t, 1, reviewList.Total)

	// 8. Удаление отзыва обнуляет рейтинг
	resp = doJSON(t, client, http.MethodDelete, BaseURL+"/reviews/"+review.ID.Hex(), guestToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, client, http.MethodGet, BaseURL+"/profiles/"+hostID.String(), "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	decodeBody(t, resp, &profile)
	assert.Equal(t, 0, profile.ReviewsCount)
	assert.Equal(t, 0.0, profile.Rating)
}

func TestReservationOnDraftListingRejected(t *testing.T) {
	client := &http.Client{Timeout: 10 * time.Second}

	hostID := uuid.New()
	guestID := uuid.New()
	hostToken := mintToken(t, hostID)
	guestToken := mintToken(t, guestID)

	resp := doJSON(t, client, http.MethodPost, BaseURL+"/listings", hostToken, entity.CreateListingRequest{
		Title:         "E2E draft listing",
		PricePerNight: 5000,
		Currency:      "EUR",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var listing entity.Listing
	decodeBody(t, resp, &listing)

	// Черновик нельзя бронировать
	resp = doJSON(t, client, http.MethodPost, BaseURL+"/reservations", guestToken, entity.CreateReservationRequest{
		ReservationableType: entity.ReservationableListing,
		ReservationableID:   listing.ID,
		CheckIn:             "2026-10-01",
		CheckOut:            "2026-10-03",
		Guests:              1,
	})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestUnauthorizedRequestRejected(t *testing.T) {
	client := &http.Client{Timeout: 10 * time.Second}

	req, _ := http.NewRequest(http.MethodPost, BaseURL+"/listings", bytes.NewBufferString("{}"))
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
