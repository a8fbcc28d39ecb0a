package app

import (
	"strings"

	"github.com/yungbote/pluginhost-backend/internal/platform/envutil"
)

type Config struct {
	Port           string
	JWTSecretKey   string
	PluginsBaseDir string
	AllowedOrigins []string
}

func LoadConfig() Config {
	origins := strings.Split(envutil.String("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5174"), ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}
	return Config{
		Port:           envutil.String("PORT", "8080"),
		JWTSecretKey:   envutil.String("JWT_SECRET_KEY", "defaultsecret"),
		PluginsBaseDir: envutil.String("PLUGINS_BASE_DIR", "plugins"),
		AllowedOrigins: origins,
	}
}
