// Package config loads runtime configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the settings for both pipeline binaries. Each binary uses
// the subset it needs.
type Config struct {
	// Warehouse
	PostgresDSN string

	// Batch import
	RawFilesDir string
	MaxWorkers  int

	// Stream analysis
	ClickhouseDSN string
	RedisAddr     string
	KafkaBrokers  []string
	KafkaTopic    string
	KafkaGroupID  string

	// Ambient
	MetricsAddr string
	LogLevel    string
}

// Load reads configuration from the environment. A missing .env file is
// not an error; container deployments inject variables directly.
func Load() *Config {
	_ = godotenv.Load()

	postgresDSN := fmt.Sprintf("postgres://%s:%s@%s:%s/%s",
		getEnv("DB_USER", "postgres"),
		getEnv("DB_PASSWORD", "postgres"),
		getEnv("DB_HOST", "localhost"),
		getEnv("DB_PORT", "5432"),
		getEnv("DB_NAME", "fx_cortex"),
	)

	clickhouseDSN := fmt.Sprintf("clickhouse://%s:%s@%s:%s/%s",
		getEnv("CLICKHOUSE_USER", "default"),
		getEnv("CLICKHOUSE_PASSWORD", ""),
		getEnv("CLICKHOUSE_HOST", "clickhouse"),
		getEnv("CLICKHOUSE_TCP_PORT", "9000"),
		getEnv("CLICKHOUSE_DB", "analysis_results"),
	)

	return &Config{
		PostgresDSN: postgresDSN,

		RawFilesDir: getEnv("RAW_FILES_PATH", "data/raw_files"),
		MaxWorkers:  getEnvAsInt("ETL_MAX_WORKERS", 8),

		ClickhouseDSN: clickhouseDSN,
		RedisAddr:     getEnv("REDIS_HOST", "redis") + ":" + getEnv("REDIS_PORT", "6379"),
		KafkaBrokers:  []string{getEnv("KAFKA_BROKER", "kafka:9092")},
		KafkaTopic:    getEnv("TRADES_TOPIC", "fx-cortex.raw_data.trades"),
		KafkaGroupID:  getEnv("KAFKA_GROUP_ID", "full-data-processor-group-v1"),

		MetricsAddr: getEnv("METRICS_ADDR", ""),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
