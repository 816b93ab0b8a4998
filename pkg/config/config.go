package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config configuración del servidor cargada desde variables de entorno
type Config struct {
	Addr string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTAdminSecret string
	JWTTeamSecret  string
	AdminTokenTTL  time.Duration
	TeamTokenTTL   time.Duration
}

// Load carga la configuración; un archivo .env es opcional
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	adminTTL, err := time.ParseDuration(getEnv("JWT_EXP_ADMIN", "15m"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXP_ADMIN: %w", err)
	}

	teamTTL, err := time.ParseDuration(getEnv("JWT_EXP_TEAM", "4h"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXP_TEAM: %w", err)
	}

	cfg := &Config{
		Addr:           getEnv("ADDR", ":8080"),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		RedisDB:        redisDB,
		JWTAdminSecret: getEnv("JWT_ADMIN_SECRET", ""),
		JWTTeamSecret:  getEnv("JWT_TEAM_SECRET", ""),
		AdminTokenTTL:  adminTTL,
		TeamTokenTTL:   teamTTL,
	}

	if cfg.JWTAdminSecret == "" {
		return nil, fmt.Errorf("JWT_ADMIN_SECRET is required")
	}
	if cfg.JWTTeamSecret == "" {
		return nil, fmt.Errorf("JWT_TEAM_SECRET is required")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
