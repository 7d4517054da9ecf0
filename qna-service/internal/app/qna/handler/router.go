package handler

import (
	"net/http"

	"umsshop/pkg/logger"
	"umsshop/pkg/metrics"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRoutes чтение вопросов публичное, запись требует токен
func SetupRoutes(questionHandler *QuestionHandler, authMiddleware *AuthMiddleware) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(logger.GinLoggerMiddleware())
	router.Use(metrics.GinPrometheusMiddleware("qna-service"))

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"https://*", "http://*"},
		AllowWildcard:    true,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "qna-service",
		})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/products/:productId/questions", questionHandler.ListByProduct)
	router.GET("/questions/:id", questionHandler.Get)

	authorized := router.Group("")
	authorized.Use(authMiddleware.Authenticate())
	{
		authorized.POST("/questions", questionHandler.Ask)
		authorized.GET("/my-questions", questionHandler.ListMine)

		admin := authorized.Group("/questions")
		admin.Use(authMiddleware.RequireRole(adminRoles...))
		{
			admin.PUT("/:id/answer", questionHandler.Answer)
			admin.DELETE("/:id", questionHandler.Delete)
		}
	}

	return router
}
