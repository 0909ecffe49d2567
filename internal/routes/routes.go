package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"homecare-app-server/internal/booking"
	"homecare-app-server/internal/config"
	"homecare-app-server/internal/handlers"
	"homecare-app-server/internal/middleware"
	"homecare-app-server/internal/models"
	"homecare-app-server/internal/repository"
	"homecare-app-server/internal/utils"
)

// SetupRoutes configures the application routes. limiter guards the public
// register and login endpoints.
func SetupRoutes(router *gin.Engine, db *gorm.DB, cfg *config.Config, limiter *middleware.RateLimiter, logger zerolog.Logger) {
	store := repository.New(db)
	engine := booking.NewEngine(store, utils.Validator(), logger)

	authHandler := handlers.NewAuthHandler(store, cfg, logger)
	adminHandler := handlers.NewAdminHandler(store, logger)
	availabilityHandler := handlers.NewAvailabilityHandler(engine, logger)
	appointmentHandler := handlers.NewAppointmentHandler(engine, logger)

	staff := middleware.RoleAuthMiddleware(models.RolePersonnel, models.RoleAdmin)
	anyRole := middleware.RoleAuthMiddleware(models.RolePersonnel, models.RolePatient, models.RoleAdmin)

	public := router.Group("/api")
	{
		authRoutes := public.Group("/auth")
		{
			authRoutes.POST("/register", middleware.RateLimit(limiter), authHandler.Register)
			authRoutes.POST("/login", middleware.RateLimit(limiter), authHandler.Login)
			authRoutes.POST("/refresh-token", authHandler.RefreshToken)
		}
	}

	private := router.Group("/api")
	private.Use(middleware.AuthMiddleware(cfg))
	{
		authRoutesPrivate := private.Group("/auth")
		{
			authRoutesPrivate.POST("/logout", authHandler.Logout)
			authRoutesPrivate.GET("/profile", authHandler.GetProfile)
			authRoutesPrivate.PUT("/profile", authHandler.UpdateProfile)
		}

		availabilityRoutes := private.Group("/availability")
		{
			availabilityRoutes.GET("/list", availabilityHandler.ListAvailability)
			availabilityRoutes.GET("/:id", availabilityHandler.GetAvailability)
			availabilityRoutes.POST("/create", staff, availabilityHandler.CreateAvailability)
			availabilityRoutes.PUT("/update/:id", staff, availabilityHandler.UpdateAvailability)
			availabilityRoutes.DELETE("/delete/:id", staff, availabilityHandler.DeleteAvailability)
		}

		appointmentRoutes := private.Group("/appointments")
		appointmentRoutes.Use(anyRole)
		{
			appointmentRoutes.GET("/list", appointmentHandler.ListAppointments)
			appointmentRoutes.GET("/:id", appointmentHandler.GetAppointmentByID)
			appointmentRoutes.POST("/create", appointmentHandler.CreateAppointment)
			appointmentRoutes.PUT("/update/:id", appointmentHandler.UpdateAppointment)
			appointmentRoutes.DELETE("/delete/:id", appointmentHandler.DeleteAppointment)
		}

		adminRoutes := private.Group("/admin")
		adminRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
		{
			adminRoutes.GET("/patients", adminHandler.GetPatients)
			adminRoutes.GET("/personnel", adminHandler.GetPersonnel)
		}
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP"})
	})
}
