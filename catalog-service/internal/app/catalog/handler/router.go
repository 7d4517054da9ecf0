package handler

import (
	"net/http"

	"umsshop/pkg/logger"
	"umsshop/pkg/metrics"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRoutes настраивает все маршруты Catalog Service с использованием Gin
// Чтение каталога публичное, изменения только для manager и admin
func SetupRoutes(catalogHandler *CatalogHandler, authMiddleware *AuthMiddleware) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(logger.GinLoggerMiddleware())
	router.Use(metrics.GinPrometheusMiddleware("catalog-service"))

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"https://*", "http://*"},
		AllowWildcard:    true,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "catalog-service",
		})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/category-lookup/:id", catalogHandler.LookupCategory)

	categories := router.Group("/categories")
	{
		categories.GET("/:level", catalogHandler.ListCategories)
		categories.GET("/:level/:id", catalogHandler.GetCategory)

		admin := categories.Group("")
		admin.Use(authMiddleware.Authenticate(), authMiddleware.RequireRole("manager", "admin"))
		{
			admin.POST("", catalogHandler.CreateCategory)
			admin.PATCH("/:level/:id", catalogHandler.UpdateCategory)
			admin.DELETE("/:level/:id", catalogHandler.DeleteCategory)
		}
	}

	return router
}
