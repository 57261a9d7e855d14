// pkg/config/server.go
package config

// ServerConfig controla el HTTP server que sirve la API móvil de pelamares y
// el back-office del staff.
type ServerConfig struct {
	Port        int
	Environment string
	LogLevel    string
	BaseURL     string
	// CORSOrigins admite los dos frontends: la app móvil (dev en :3000) y el
	// SPA de back-office (dev en :5173).
	CORSOrigins []string
}

func loadServerConfig() ServerConfig {
	return ServerConfig{
		Port:        getEnvInt("SERVER_PORT", 8080),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		BaseURL:     getEnv("BASE_URL", "http://localhost:8080"),
		CORSOrigins: getEnvStringSlice("CORS_ORIGINS", []string{"http://localhost:3000", "http://localhost:5173"}),
	}
}
