package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config armazena todas as configurações do aplicativo estoque.
type Config struct {
	// Geral
	Port        string
	Environment string
	LogLevel    string

	// Banco de Dados (PostgreSQL)
	DatabaseURL string
	DBTimeout   time.Duration
	AutoMigrate bool

	// Cache (Redis). RedisAddr vazio usa cache em memória.
	RedisAddr      string
	CacheTimeout   time.Duration
	ReportCacheTTL time.Duration

	// Mensagens flash (cookie assinado)
	FlashSecretKey string
	FlashTTL       time.Duration

	// Rate Limiting
	RateLimitMaxRequests int
	RateLimitPeriod      time.Duration
}

// IsProduction informa se cookies devem ser marcados como Secure.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// LoadConfig carrega as configurações a partir das variáveis de ambiente.
// O .env (se existir) já foi aplicado ao ambiente pelo godotenv no main.
func LoadConfig() *Config {
	cfg := &Config{
		// 1. Geral
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		// 2. Banco de Dados (PostgreSQL)
		DatabaseURL: DatabaseURL(),
		DBTimeout:   getDurationEnv("DB_TIMEOUT_SEC", 5) * time.Second,
		AutoMigrate: getBoolEnv("AUTO_MIGRATE", false),

		// 3. Cache (Redis)
		RedisAddr:      getEnv("REDIS_ADDR", ""),
		CacheTimeout:   getDurationEnv("CACHE_TIMEOUT_SEC", 2) * time.Second,
		ReportCacheTTL: getDurationEnv("REPORT_CACHE_TTL_SEC", 60) * time.Second,

		// 4. Flash
		FlashSecretKey: mustGetEnv("FLASH_SECRET_KEY"),
		FlashTTL:       getDurationEnv("FLASH_TTL_SEC", 300) * time.Second,

		// 5. Rate Limiting
		RateLimitMaxRequests: getIntEnv("RATE_LIMIT_MAX_REQUESTS", 300),
		RateLimitPeriod:      getDurationEnv("RATE_LIMIT_PERIOD_MIN", 1) * time.Minute,
	}

	return cfg
}

// DatabaseURL lê só a conexão com o banco; usado pelo cmd/migrate, que não precisa do resto.
func DatabaseURL() string {
	return mustGetEnv("DATABASE_URL")
}

// Funções Helpers (Auxiliares)

// getEnv lê a variável de ambiente ou retorna um valor padrão.
func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// mustGetEnv lê a variável de ambiente, fatal se não estiver presente.
func mustGetEnv(key string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	log.Fatalf("Erro de Configuração: a variável de ambiente %s deve ser definida.", key)
	return ""
}

// getDurationEnv lê uma variável de ambiente numérica e retorna-a como time.Duration (sem unidade).
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
		log.Printf("Aviso: valor de %s ('%s') não é um número inteiro válido. Usando padrão (%d).", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}

// getBoolEnv lê uma variável de ambiente booleana (true/false/1/0).
func getBoolEnv(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Aviso: valor de %s ('%s') não é booleano. Usando padrão (%t).", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}
