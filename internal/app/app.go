package app

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yungbote/pluginhost-backend/internal/catalog"
	"github.com/yungbote/pluginhost-backend/internal/db"
	"github.com/yungbote/pluginhost-backend/internal/handlers"
	"github.com/yungbote/pluginhost-backend/internal/middleware"
	"github.com/yungbote/pluginhost-backend/internal/platform/logger"
	"github.com/yungbote/pluginhost-backend/internal/pluginfs"
	"github.com/yungbote/pluginhost-backend/internal/repos"
	"github.com/yungbote/pluginhost-backend/internal/server"
	"github.com/yungbote/pluginhost-backend/internal/services"
)

type App struct {
	Log    *logger.Logger
	DB     *gorm.DB
	Router *gin.Engine
	Cfg    Config
}

func New() (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	cfg := LoadConfig()

	pg, err := db.NewPostgresService(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init postgres: %w", err)
	}
	if err := pg.AutoMigrateAll(); err != nil {
		log.Sync()
		return nil, fmt.Errorf("postgres automigrate: %w", err)
	}
	theDB := pg.DB()

	pluginRepo := repos.NewPluginRepo(theDB, log)
	moduleRepo := repos.NewPluginModuleRepo(theDB, log)
	definitionRepo := repos.NewSettingsDefinitionRepo(theDB, log)
	instanceRepo := repos.NewSettingsInstanceRepo(theDB, log)

	store := pluginfs.NewDiskStore(cfg.PluginsBaseDir, log)
	lifecycle := services.NewLifecycleService(
		theDB,
		log,
		catalog.OpenAIConnector(),
		store,
		pluginRepo,
		moduleRepo,
		definitionRepo,
		instanceRepo,
	)

	pluginHandler := handlers.NewPluginHandler(log, lifecycle)
	authMiddleware := middleware.NewAuthMiddleware(log, cfg.JWTSecretKey)

	router := server.NewRouter(server.RouterConfig{
		AllowedOrigins: cfg.AllowedOrigins,
		AuthMiddleware: authMiddleware,
		PluginHandler:  pluginHandler,
	})

	return &App{
		Log:    log,
		DB:     theDB,
		Router: router,
		Cfg:    cfg,
	}, nil
}

func (a *App) Run() error {
	if a == nil || a.Router == nil {
		return fmt.Errorf("app not initialized")
	}
	return a.Router.Run(":" + a.Cfg.Port)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
