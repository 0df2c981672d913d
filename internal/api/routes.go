package api

import (
	"net/http"

	"zsports/sports-history/internal/service"

	"github.com/gin-gonic/gin"
)

// Services are the dependencies of the HTTP API. SyncService may be nil
// when no intervals.icu credentials are configured.
type Services struct {
	AllowedOrigins []string

	Auth     service.AuthService
	Publish  service.PublishService
	Training service.TrainingService
	Sync     service.SyncService
}

func SetupRoutes(router *gin.Engine, services Services) {
	authHandler := NewAuthHandler(services.Auth)
	plotHandler := NewPlotHandler(services.Publish)
	trainingHandler := NewTrainingHandler(services.Training, services.Sync)

	authMiddleware := AuthMiddleware(services.Auth)

	router.Use(RequestLogger(), Cors(services.AllowedOrigins))

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/login", authHandler.Login)
			authGroup.GET("/session", authMiddleware, authHandler.Session)
		}

		apiV1.GET("/plots", plotHandler.ListPublished)
		apiV1.GET("/plots/:name", plotHandler.GetPlot)
		apiV1.GET("/plots/:name/url", plotHandler.GetDownloadURL)
		apiV1.GET("/trainings", trainingHandler.ListTrainings)
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware, RoleMiddleware(service.RoleAdmin))
	{
		protected.POST("/plots/:name/publish", plotHandler.Publish)
		protected.DELETE("/plots/:name", plotHandler.Unpublish)
		protected.POST("/sync/:kind", trainingHandler.Sync)
	}
}
