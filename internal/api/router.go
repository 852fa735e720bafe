package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"energy-dataset/internal/api/handlers"
	"energy-dataset/internal/api/middleware"
	"energy-dataset/internal/api/models"
)

// NewRouter wires the middleware and routes of the read-only API.
func NewRouter(source handlers.DataSource, logger *logrus.Logger) *gin.Engine {
	router := gin.New()

	router.Use(middleware.CORS())
	router.Use(middleware.Logger(logger))
	router.Use(middleware.ErrorHandler(logger))

	collections := handlers.NewCollectionHandler(source)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/collections", collections.ListCollections)
		v1.GET("/collections/:name", collections.GetCollection)
		v1.GET("/collections/:name/intervals", collections.QueryRange)
		v1.GET("/collections/:name/intervals/:unix", collections.GetInterval)
		v1.GET("/collections/:name/years/:year", collections.GetYear)
		v1.GET("/collections/:name/validation", collections.Validate)
		v1.GET("/collections/:name/stats", collections.Stats)
		v1.POST("/reload", collections.Reload)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "NOT_FOUND", Message: "Not found"},
		})
	})
	return router
}
