package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	httpapi "github.com/raisehub/admin-manager/internal/api/http"
	"github.com/raisehub/admin-manager/internal/bucket"
	"github.com/raisehub/admin-manager/internal/cache"
	"github.com/raisehub/admin-manager/internal/mail"
	"github.com/raisehub/admin-manager/internal/service"
	"github.com/raisehub/admin-manager/internal/storefactory"
	"github.com/raisehub/admin-manager/log"
)

// Config represents the global configuration for the service.
type Config struct {
	// Store carries database_type plus the postgres and mongo sections at
	// the top level of the config file.
	Store  storefactory.Config `mapstructure:",squash"`
	Logger log.Config          `mapstructure:"logger"`
	HTTP   httpapi.Config      `mapstructure:"http"`
	Auth   service.AuthConfig  `mapstructure:"auth"`
	Bucket bucket.Config       `mapstructure:"bucket"`
	Mailer mail.Config         `mapstructure:"mailer"`
	Cache  cache.Config        `mapstructure:"cache"`
}

// LoadConfig loads the configuration from a TOML file and/or environment
// variables. Environment variables take precedence over file values.
func LoadConfig(cfgFile string) (*Config, error) {
	viper.SetConfigType("toml")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "__", "-", "__"))

	bindEnvVars()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file: %v", err)
			}
		}
	} else {
		viper.SetConfigName("config")
		viper.AddConfigPath("./config")
		viper.AddConfigPath("$HOME/config/admin-manager")
		viper.AddConfigPath("/etc/admin-manager")
		// The file is optional when env vars carry the full configuration.
		_ = viper.ReadInConfig()
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config into struct: %v", err)
	}

	// Assemble the postgres DSN from individual vars when no DSN is given.
	if config.Store.Postgres.DSN == "" {
		host := os.Getenv("POSTGRES_HOST")
		if host != "" {
			port := os.Getenv("POSTGRES_PORT")
			if port == "" {
				port = "5432"
			}
			user := os.Getenv("POSTGRES_USER")
			password := os.Getenv("POSTGRES_PASSWORD")
			database := os.Getenv("POSTGRES_DATABASE")
			sslmode := os.Getenv("POSTGRES_SSLMODE")
			if sslmode == "" {
				sslmode = "require"
			}
			if user != "" && database != "" {
				config.Store.Postgres.DSN = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
					user, password, host, port, database, sslmode)
			}
		}
	}

	return &config, nil
}

// bindEnvVars binds flat environment variable names to nested config keys.
func bindEnvVars() {
	viper.BindEnv("database_type", "DATABASE_TYPE")

	// Postgres
	viper.BindEnv("postgres.dsn", "POSTGRES_DSN")
	viper.BindEnv("postgres.automigrate", "POSTGRES_AUTOMIGRATE")
	viper.BindEnv("postgres.max_open_connections", "POSTGRES_MAX_OPEN_CONNECTIONS")
	viper.BindEnv("postgres.max_idle_connections", "POSTGRES_MAX_IDLE_CONNECTIONS")

	// Mongo
	viper.BindEnv("mongo.uri", "MONGO_URI")
	viper.BindEnv("mongo.database", "MONGO_DATABASE")

	// Logger
	viper.BindEnv("logger.level", "LOG_LEVEL")
	viper.BindEnv("logger.add_source", "LOG_ADD_SOURCE")

	// HTTP
	viper.BindEnv("http.port", "HTTP_PORT")
	viper.BindEnv("http.address", "HTTP_ADDRESS")
	viper.BindEnv("http.allowed_origins", "HTTP_ALLOWED_ORIGINS")

	// Auth
	viper.BindEnv("auth.jwt_secret", "AUTH_JWT_SECRET")
	viper.BindEnv("auth.master_password", "AUTH_MASTER_PASSWORD")
	viper.BindEnv("auth.password_hasher_salt_size", "AUTH_PASSWORD_HASHER_SALT_SIZE")
	viper.BindEnv("auth.password_hasher_iterations", "AUTH_PASSWORD_HASHER_ITERATIONS")
	viper.BindEnv("auth.jwt_ttl", "AUTH_JWT_TTL")

	// Bucket
	viper.BindEnv("bucket.s3_access_key", "BUCKET_S3_ACCESS_KEY")
	viper.BindEnv("bucket.s3_secret_access_key", "BUCKET_S3_SECRET_ACCESS_KEY")
	viper.BindEnv("bucket.s3_endpoint", "BUCKET_S3_ENDPOINT")
	viper.BindEnv("bucket.s3_bucket_name", "BUCKET_S3_BUCKET_NAME")
	viper.BindEnv("bucket.s3_bucket_location", "BUCKET_S3_BUCKET_LOCATION")
	viper.BindEnv("bucket.base_folder", "BUCKET_BASE_FOLDER")

	// Mailer
	viper.BindEnv("mailer.sendgrid_api_key", "MAILER_SENDGRID_API_KEY")
	viper.BindEnv("mailer.from_email", "MAILER_FROM_EMAIL")
	viper.BindEnv("mailer.from_email_name", "MAILER_FROM_EMAIL_NAME")
	viper.BindEnv("mailer.reply_to", "MAILER_REPLY_TO")
	viper.BindEnv("mailer.worker_interval", "MAILER_WORKER_INTERVAL")

	// Cache
	viper.BindEnv("cache.ttl", "CACHE_TTL")
	viper.BindEnv("cache.max_entries", "CACHE_MAX_ENTRIES")
}
