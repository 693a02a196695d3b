package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Env        string
	ServerPort int
	APIPrefix  string
	LogLevel   string
	CORSOrigin string
	Database   DatabaseConfig
	Seed       SeedConfig
	Storage    StorageConfig
	Events     EventsConfig
}

type DatabaseConfig struct {
	// URL takes precedence over the discrete fields when set.
	URL              string
	Host             string
	Port             int
	User             string
	Password         string
	DBName           string
	UseSSL           bool
	MigrationsSource string
	MigrateOnStart   bool
}

// SeedConfig holds the credentials used by the seed-user command.
type SeedConfig struct {
	Username string
	Password string
	Email    string
	FullName string
}

type StorageConfig struct {
	// Backend is one of "none", "minio" or "gcs".
	Backend string
	Minio   MinioConfig
	GCS     GCSConfig
}

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type GCSConfig struct {
	Bucket          string
	ProjectID       string
	CredentialsFile string
}

type EventsConfig struct {
	// Backend is one of "none", "rabbitmq" or "pubsub".
	Backend  string
	Channel  string
	RabbitMQ RabbitMQConfig
	PubSub   PubSubConfig
}

type RabbitMQConfig struct {
	URL             string
	QueueDurable    bool
	QueueAutoDelete bool
	PrefetchCount   int
}

type PubSubConfig struct {
	ProjectID          string
	CredentialsFile    string
	SubscriptionSuffix string
}

func LoadConfig() Config {
	env := getEnv("ENV", "production")
	if env == "dev" {
		godotenv.Load()
	}

	databaseURL := getEnv("DATABASE_URL", "")
	dbConfig := DatabaseConfig{
		URL:              databaseURL,
		Host:             getEnv("DB_HOST", "localhost"),
		Port:             getEnvInt("DB_PORT", 5432),
		User:             getEnv("DB_USER", "promag"),
		Password:         getEnv("DB_PASSWORD", "password"),
		DBName:           getEnv("DB_NAME", "promag"),
		UseSSL:           getEnvBool("DB_USE_SSL", databaseURL != ""),
		MigrationsSource: getEnv("MIGRATIONS_SOURCE", ""),
		MigrateOnStart:   getEnvBool("DB_MIGRATE_ON_START", true),
	}

	seed := SeedConfig{
		Username: getEnv("SEED_ADMIN_USERNAME", "admin"),
		Password: getEnv("SEED_ADMIN_PASSWORD", "Admin123!"),
		Email:    getEnv("SEED_ADMIN_EMAIL", "admin@mg3.local"),
		FullName: getEnv("SEED_ADMIN_FULL_NAME", "MG3 Admin"),
	}

	storage := StorageConfig{
		Backend: strings.ToLower(getEnv("STORAGE_BACKEND", "none")),
		Minio: MinioConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", "promag"),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		GCS: GCSConfig{
			Bucket:          getEnv("GCS_BUCKET", ""),
			ProjectID:       getEnv("GCS_PROJECT_ID", ""),
			CredentialsFile: getEnv("GCS_CREDENTIALS_FILE", ""),
		},
	}

	events := EventsConfig{
		Backend: strings.ToLower(getEnv("EVENTS_BACKEND", "none")),
		Channel: getEnv("EVENTS_CHANNEL", "promag.changes"),
		RabbitMQ: RabbitMQConfig{
			URL:             getEnv("RABBITMQ_URL", ""),
			QueueDurable:    getEnvBool("RABBITMQ_QUEUE_DURABLE", true),
			QueueAutoDelete: getEnvBool("RABBITMQ_QUEUE_AUTO_DELETE", false),
			PrefetchCount:   getEnvInt("RABBITMQ_PREFETCH", 10),
		},
		PubSub: PubSubConfig{
			ProjectID:          getEnv("PUBSUB_PROJECT_ID", ""),
			CredentialsFile:    getEnv("PUBSUB_CREDENTIALS_FILE", ""),
			SubscriptionSuffix: getEnv("PUBSUB_SUBSCRIPTION_SUFFIX", "-sub"),
		},
	}

	return Config{
		Env:        env,
		ServerPort: getEnvInt("SERVER_PORT", getEnvInt("PORT", 4000)),
		APIPrefix:  getEnv("API_PREFIX", "/api"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		CORSOrigin: getEnv("CORS_ORIGIN", "*"),
		Database:   dbConfig,
		Seed:       seed,
		Storage:    storage,
		Events:     events,
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if valueStr, exists := os.LookupEnv(key); exists {
		var value int
		fmt.Sscanf(valueStr, "%d", &value)
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	switch strings.ToLower(strings.TrimSpace(valueStr)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
