package handler

import (
	"net/http"

	"umsshop/pkg/logger"
	"umsshop/pkg/metrics"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRoutes настраивает все маршруты Orders Service с использованием Gin
func SetupRoutes(orderHandler *OrderHandler, authMiddleware *AuthMiddleware) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(logger.GinLoggerMiddleware())
	router.Use(metrics.GinPrometheusMiddleware("orders-service"))

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
			"service": "orders-service",
		})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authorized := router.Group("")
	authorized.Use(authMiddleware.Authenticate())
	{
		authorized.GET("/my-orders", orderHandler.ListMyOrders)

		orders := authorized.Group("/orders")
		{
			orders.POST("", orderHandler.CreateOrder)
			orders.GET("/:id", orderHandler.GetOrder)
			orders.POST("/:id/payment", orderHandler.RecordPayment)
			orders.POST("/:id/messages", orderHandler.AddMessage)

			admin := orders.Group("")
			admin.Use(authMiddleware.RequireRole(adminRoles...))
			{
				admin.GET("", orderHandler.ListOrders)
				admin.PUT("/:id/delivery", orderHandler.UpdateDelivery)
				admin.PUT("/:id/packing", orderHandler.UpdatePacking)
				admin.DELETE("/:id", orderHandler.DeleteOrder)
			}
		}
	}

	return router
}
