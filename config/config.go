package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"
)

// Config armazena todas as configurações do backend SeaConnector.
type Config struct {
	// Geral
	Port        string
	Environment string
	LogLevel    string

	// Banco de Dados (PostgreSQL)
	DatabaseURL    string
	DBTimeout      time.Duration
	DBMaxOpenConns int

	// Cache (Redis). RedisAddr vazio desliga o Redis.
	RedisAddr string
	CacheTTL  time.Duration

	// Segurança (JWT)
	JWTSecret   string
	TokenExpiry time.Duration

	// Servidor HTTP
	RequestTimeout    time.Duration
	CORSAllowedOrigin string
	StaticDir         string

	// Rate Limiting dos endpoints de autenticação
	RateLimitMaxRequests int
	RateLimitPeriod      time.Duration
}

// LoadConfig carrega as configurações a partir das variáveis de ambiente.
// Retorna erro se alguma variável obrigatória estiver ausente ou inválida.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:        getEnv("PORT", "10000"),
		Environment: getEnv("ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		DBTimeout:      getDurationEnv("DB_TIMEOUT_SEC", 5) * time.Second,
		DBMaxOpenConns: getIntEnv("DB_MAX_OPEN_CONNS", 25),

		RedisAddr: getEnv("REDIS_ADDR", ""),
		CacheTTL:  getDurationEnv("CACHE_TTL_MIN", 5) * time.Minute,

		TokenExpiry: getDurationEnv("JWT_EXPIRY_HOURS", 24) * time.Hour,

		RequestTimeout:    getDurationEnv("REQUEST_TIMEOUT_SEC", 15) * time.Second,
		CORSAllowedOrigin: getEnv("CORS_ALLOWED_ORIGIN", "*"),
		StaticDir:         getEnv("STATIC_DIR", "public"),

		RateLimitMaxRequests: getIntEnv("RATE_LIMIT_MAX_REQUESTS", 20),
		RateLimitPeriod:      getDurationEnv("RATE_LIMIT_PERIOD_MIN", 1) * time.Minute,
	}

	var err error
	if cfg.DatabaseURL, err = requireEnv("DATABASE_URL"); err != nil {
		return nil, err
	}
	if cfg.JWTSecret, err = requireEnv("JWT_SECRET"); err != nil {
		return nil, err
	}

	// Tokens sem expiração não são aceitos.
	if cfg.TokenExpiry <= 0 {
		return nil, fmt.Errorf("JWT_EXPIRY_HOURS deve ser maior que zero")
	}
	if cfg.RateLimitMaxRequests <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_MAX_REQUESTS deve ser maior que zero")
	}
	if cfg.RateLimitPeriod <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_PERIOD_MIN deve ser maior que zero")
	}

	return cfg, nil
}

// LoadDatabaseURL lê apenas a DSN do banco. Usado por ferramentas (migrate)
// que não precisam do segredo JWT.
func LoadDatabaseURL() (string, error) {
	return requireEnv("DATABASE_URL")
}

// Funções Helpers (Auxiliares)

// getEnv lê a variável de ambiente ou retorna um valor padrão.
func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// requireEnv lê uma variável obrigatória; vazia conta como ausente.
func requireEnv(key string) (string, error) {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value, nil
	}
	return "", fmt.Errorf("a variável de ambiente %s deve ser definida", key)
}

// getDurationEnv lê uma variável de ambiente numérica e retorna-a como time.Duration.
func getDurationEnv(key string, defaultValue int) time.Duration {
	return time.Duration(getIntEnv(key, defaultValue))
}

// getIntEnv lê uma variável de ambiente numérica e retorna-a como int.
func getIntEnv(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("⚠️ Aviso: Valor de %s ('%s') não é um número inteiro válido. Usando padrão (%d).", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}
