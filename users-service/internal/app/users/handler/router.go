package handler

import (
	"net/http"

	"umsshop/pkg/logger"
	"umsshop/pkg/metrics"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers все обработчики Users Service
type Handlers struct {
	Users         *UserHandler
	Notifications *NotificationHandler
	Managers      *ManagerHandler
	History       *HistoryHandler
}

// SetupRoutes настраивает маршруты Users Service
func SetupRoutes(h Handlers, authMiddleware *AuthMiddleware) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(logger.GinLoggerMiddleware())
	router.Use(metrics.GinPrometheusMiddleware("users-service"))

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
			"service": "users-service",
		})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	me := router.Group("/me")
	me.Use(authMiddleware.Authenticate(), authMiddleware.RequireCustomer())
	{
		me.GET("", h.Users.GetMe)
		me.GET("/notification-settings", h.Users.GetSettings)
		me.PUT("/notification-settings", h.Users.UpdateSettings)
		me.PUT("/fcm-token", h.Users.RegisterFCMToken)
		me.GET("/notifications", h.Notifications.List)
		me.PUT("/notifications", h.Notifications.MarkAllRead)
		me.PUT("/notifications/:index", h.Notifications.MarkRead)
	}

	admin := router.Group("/admin")
	admin.Use(authMiddleware.Authenticate(), authMiddleware.RequireRole(backOfficeRoles...))
	{
		admin.GET("/users", h.Users.ListUsers)
		admin.GET("/users/:seq", h.Users.GetUser)
		admin.PUT("/users/:seq/approval", h.Users.UpdateApproval)
		admin.GET("/history", h.History.List)

		managers := admin.Group("/managers")
		managers.Use(authMiddleware.RequireRole(adminRoles...))
		{
			managers.GET("", h.Managers.List)
			managers.POST("", h.Managers.Create)
			managers.PUT("/:id/role", h.Managers.UpdateRole)
			managers.DELETE("/:id", h.Managers.Delete)
		}
	}

	return router
}
