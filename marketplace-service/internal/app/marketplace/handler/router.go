package handler

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"staynest/pkg/logger"
	"staynest/pkg/metrics"
)

// SetupRoutes настраивает все маршруты приложения с использованием Gin
func SetupRoutes(
	catalogHandler *CatalogHandler,
	reservationHandler *ReservationHandler,
	reviewHandler *ReviewHandler,
	profileHandler *ProfileHandler,
	authMiddleware *AuthMiddleware,
) *gin.Engine {
	router := gin.New()

	// Recovery middleware для обработки panic
	router.Use(gin.Recovery())

	// JSON logging middleware для HTTP-запросов (ELK Stack)
	router.Use(logger.GinLoggerMiddleware())

	// Prometheus metrics middleware
	router.Use(metrics.GinPrometheusMiddleware("marketplace-service"))

	// CORS настройки
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"https://*", "http://*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposeHeaders:    []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "marketplace-service",
		})
	})

	// Prometheus metrics endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Каталог: объявления и впечатления
	listings := router.Group("/listings")
	{
		// Публичное чтение
		listings.GET("/:listing_id", catalogHandler.GetListing)

		protected := listings.Group("")
		protected.Use(authMiddleware.Authenticate())
		{
			protected.POST("", catalogHandler.CreateListing)
			protected.GET("/my", catalogHandler.GetMyListings)
			protected.PATCH("/:listing_id/status", catalogHandler.UpdateListingStatus)
		}
	}

	experiences := router.Group("/experiences")
	{
		experiences.GET("/:experience_id", catalogHandler.GetExperience)

		protected := experiences.Group("")
		protected.Use(authMiddleware.Authenticate())
		{
			protected.POST("", catalogHandler.CreateExperience)
			protected.GET("/my", catalogHandler.GetMyExperiences)
			protected.PATCH("/:experience_id/status", catalogHandler.UpdateExperienceStatus)
		}
	}

	// Бронирования
	reservations := router.Group("/reservations")
	reservations.Use(authMiddleware.Authenticate())
	{
		reservations.POST("", reservationHandler.CreateReservation)
		reservations.GET("/my", reservationHandler.GetMyReservations)
		reservations.GET("/:reservation_id", reservationHandler.GetReservation)
		reservations.PATCH("/:reservation_id/status", reservationHandler.UpdateStatus)
	}

	// Отзывы
	reviews := router.Group("/reviews")
	{
		// Публичное чтение отзывов об объекте
		reviews.GET("/object/:type/:id", reviewHandler.GetReviewsByReservationable)
		reviews.GET("/:review_id", reviewHandler.GetReview)

		protected := reviews.Group("")
		protected.Use(authMiddleware.Authenticate())
		{
			protected.POST("", reviewHandler.CreateReview)
			protected.GET("/my/list", reviewHandler.GetMyReviews)
			protected.DELETE("/:review_id", reviewHandler.DeleteReview)
		}
	}

	// Профили
	profiles := router.Group("/profiles")
	{
		profiles.GET("/:user_id", profileHandler.GetProfile)

		protected := profiles.Group("")
		protected.Use(authMiddleware.Authenticate())
		{
			protected.PUT("/me", profileHandler.UpsertMyProfile)
		}
	}

	// Избранное
	favorites := router.Group("/favorites")
	favorites.Use(authMiddleware.Authenticate())
	{
		favorites.POST("", catalogHandler.AddFavorite)
		favorites.GET("", catalogHandler.GetMyFavorites)
		favorites.DELETE("/:type/:id", catalogHandler.RemoveFavorite)
	}

	return router
}
