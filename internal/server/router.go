package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yungbote/pluginhost-backend/internal/handlers"
	"github.com/yungbote/pluginhost-backend/internal/middleware"
)

// RoutePrefix is the fixed mount point of the plugin lifecycle surface.
const RoutePrefix = "/api/plugins/openai-connector"

type RouterConfig struct {
	AllowedOrigins []string
	AuthMiddleware *middleware.AuthMiddleware
	PluginHandler  *handlers.PluginHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// Public
	router.GET("/healthcheck", handlers.HealthCheck)

	// Protected
	plugin := router.Group(RoutePrefix)
	plugin.Use(cfg.AuthMiddleware.RequireAuth())
	plugin.POST("/install", cfg.PluginHandler.Install)
	plugin.DELETE("/uninstall", cfg.PluginHandler.Uninstall)
	plugin.GET("/status", cfg.PluginHandler.Status)

	return router
}
