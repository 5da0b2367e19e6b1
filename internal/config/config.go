package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds all validated environment variables for the service.
type Config struct {
	Port     string
	LogLevel string

	DatabaseURL string
	DBPoolSize  int

	RedisURL string

	JWTSecret   string
	JWTIssuer   string
	JWTAudience string
	JWTTTL      time.Duration

	AdminSecret string

	IdempotencyTTLDefault time.Duration
	IdempotencyTTLMax     time.Duration

	HousekeepingPurgeInterval time.Duration
	OutboxDrainCron           string
}

// Envs is the process-wide validated config, populated once by LoadAndValidate.
var Envs Config

// LoadAndValidate ensures all required ENV keys are present and parses the
// optional ones with sane fleet-ops defaults.
func LoadAndValidate() {
	Envs = Config{
		Port:        getOpt("PORT", "8000"),
		LogLevel:    getOpt("LOG_LEVEL", "info"),
		DatabaseURL: getReq("DATABASE_URL"),
		DBPoolSize:  getOptInt("DB_POOL_SIZE", 10),
		RedisURL:    getReq("REDIS_URL"),
		JWTSecret:   getReqMinLen("JWT_SECRET", 64),
		JWTIssuer:   getOpt("JWT_ISSUER", "fleetledger"),
		JWTAudience: getOpt("JWT_AUDIENCE", "fleetledger-api"),
		JWTTTL:      getOptDuration("JWT_TTL", 30*24*time.Hour),
		AdminSecret: getReq("ADMIN_SECRET"),

		IdempotencyTTLDefault: getOptDuration("IDEMPOTENCY_TTL_DEFAULT", time.Hour),
		IdempotencyTTLMax:     getOptDuration("IDEMPOTENCY_TTL_MAX", 24*time.Hour),

		HousekeepingPurgeInterval: getOptDuration("HOUSEKEEPING_PURGE_INTERVAL", 5*time.Minute),
		OutboxDrainCron:           getOpt("OUTBOX_DRAIN_CRON", "*/1 * * * *"),
	}
}

func getReq(key string) string {
	val := os.Getenv(key)
	if val == "" {
		log.Fatalf("FATAL: environment variable %s is required but missing", key)
	}
	return val
}

func getReqMinLen(key string, minLen int) string {
	val := getReq(key)
	if len(val) < minLen {
		log.Fatalf("FATAL: environment variable %s must be at least %d characters", key, minLen)
	}
	return val
}

func getOpt(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getOptInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		log.Fatalf("FATAL: environment variable %s must be an integer: %v", key, err)
	}
	return n
}

func getOptDuration(key string, fallback time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		log.Fatalf("FATAL: environment variable %s must be a duration: %v", key, err)
	}
	return d
}
