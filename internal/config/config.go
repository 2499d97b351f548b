package config

import (
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the configuration settings for the pump finder service.
//
// Fields:
// - Env: The current environment (e.g., local, development, production).
// - HTTPPort: The port of the public API.
// - HealthPort: The port of the monitoring server (healthz, metrics).
// - ShutdownTimeout: How long in-flight requests may take after a shutdown signal.
// - Source: Where the pump dataset is loaded from (file, postgres).
// - DataPath: The JSON dataset used by the file source.
// - Geocoder: Optional address lookup provider.
// - Database: Configuration settings for the PostgreSQL database.
type Config struct {
	Env             string         `yaml:"env"`              // Env is the current environment: local, development, production.
	HTTPPort        int            `yaml:"http.port"`        // HTTPPort is the public API port.
	HealthPort      int            `yaml:"health.port"`      // HealthPort is the monitoring server port.
	ShutdownTimeout time.Duration  `yaml:"shutdown_timeout"` // ShutdownTimeout bounds graceful shutdown.
	Source          string         `yaml:"source"`           // Source selects the dataset loader.
	DataPath        string         `yaml:"data_path"`        // DataPath is the JSON dataset path.
	Geocoder        GeocoderConfig `yaml:"geocoder"`         // Geocoder configures address lookups.
	Database        PostgresConfig `yaml:"postgres"`         // Database holds the postgres database configuration.
}

// GeocoderConfig holds the settings of the optional address geocoder.
type GeocoderConfig struct {
	Type      string `yaml:"type"`    // Type is google, nominatim or empty to disable lookups.
	APIKey    string `yaml:"api_key"` // APIKey is required by Google.
	RateLimit int    `yaml:"rate"`    // RateLimit is the number of requests per second.
	Region    string `yaml:"region"`  // Region biases Google results towards a ccTLD.
}

// PostgresConfig struct holds the configuration details for connecting to a PostgreSQL database.
type PostgresConfig struct {
	Host     string `yaml:"host"`                        // Host is the database server address.
	Port     string `yaml:"port"     env-default:"5432"` // Port is the database server port.
	User     string `yaml:"user"`                        // User is the database user.
	Password string `yaml:"password"`                    // Password is the database user's password.
	Name     string `yaml:"db_name"`                     // Name is the name of the database.
}

// MustLoad loads the configuration from the environment (and an optional .env file).
// It panics when a numeric or duration setting cannot be parsed.
func MustLoad() *Config {
	_ = godotenv.Load()

	env := viper.New()
	env.AutomaticEnv()
	env.SetDefault("PUMPS_ENV", "production")
	env.SetDefault("PUMPS_HTTP_PORT", "8000")
	env.SetDefault("PUMPS_HEALTH_PORT", "8080")
	env.SetDefault("PUMPS_SHUTDOWN_TIMEOUT", "10s")
	env.SetDefault("PUMPS_SOURCE", "file")
	env.SetDefault("PUMPS_DATA_PATH", "data/pumps.json")
	env.SetDefault("PUMPS_GEOCODER_RATE", "1")
	env.SetDefault("DB_PORT", "5432")

	httpPort, err := strconv.Atoi(env.GetString("PUMPS_HTTP_PORT"))
	if err != nil {
		panic("failed to parse port for API server from configuration")
	}

	healthPort, err := strconv.Atoi(env.GetString("PUMPS_HEALTH_PORT"))
	if err != nil {
		panic("failed to parse port for monitoring server from configuration")
	}

	shutdownTimeout, err := time.ParseDuration(env.GetString("PUMPS_SHUTDOWN_TIMEOUT"))
	if err != nil {
		panic("failed to parse shutdown timeout from configuration")
	}

	geocoderRate, err := strconv.Atoi(env.GetString("PUMPS_GEOCODER_RATE"))
	if err != nil {
		panic("failed to parse geocoder rate from configuration, must be an integer types")
	}

	return &Config{
		Env:             env.GetString("PUMPS_ENV"),
		HTTPPort:        httpPort,
		HealthPort:      healthPort,
		ShutdownTimeout: shutdownTimeout,
		Source:          env.GetString("PUMPS_SOURCE"),
		DataPath:        env.GetString("PUMPS_DATA_PATH"),
		Geocoder: GeocoderConfig{
			Type:      env.GetString("PUMPS_GEOCODER_TYPE"),
			APIKey:    env.GetString("PUMPS_GEOCODER_KEY"),
			RateLimit: geocoderRate,
			Region:    env.GetString("PUMPS_GEOCODER_REGION"),
		},
		Database: PostgresConfig{
			Host:     env.GetString("DB_HOST"),
			Port:     env.GetString("DB_PORT"),
			User:     env.GetString("DB_USERNAME"),
			Password: env.GetString("DB_PASSWORD"),
			Name:     env.GetString("DB_NAME"),
		},
	}
}
