package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server   ServerConfig
	Worker   WorkerConfig
	Disaster DisasterConfig
	Housing  HousingConfig
	Logging  LoggingConfig
}

type ServerConfig struct {
	Host            string
	Port            int
	RateLimitRPS    int
	ShutdownTimeout time.Duration
}

type WorkerConfig struct {
	Count int
}

type DisasterConfig struct {
	DataPath          string
	DeadlyPath        string
	SeverityPath      string
	KeyColumn         string
	ReloadOnRequest   bool
	CityFilterDefault string
	TopLocations      int

	// ExportFilename names CSV downloads; XLSX downloads swap the extension.
	ExportFilename string
}

type HousingConfig struct {
	DataPath       string
	ExportFilename string
	ScatterColumns []string
	ZScoreRows     int
}

type LoggingConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "localhost"),
			Port:            getEnvInt("SERVER_PORT", 8080),
			RateLimitRPS:    getEnvInt("RATE_LIMIT_RPS", 20),
			ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Worker: WorkerConfig{
			Count: getEnvInt("LOAD_WORKERS", 3),
		},
		Disaster: DisasterConfig{
			DataPath:          getEnv("DISASTER_DATA_PATH", "./data/saudi_disasters.csv"),
			DeadlyPath:        getEnv("DEADLY_PREDICTIONS_PATH", ""),
			SeverityPath:      getEnv("SEVERITY_PREDICTIONS_PATH", ""),
			KeyColumn:         getEnv("PREDICTION_KEY_COLUMN", ""),
			ReloadOnRequest:   getEnvBool("RELOAD_ON_REQUEST", false),
			CityFilterDefault: getEnv("CITY_FILTER_DEFAULT", "all"),
			TopLocations:      getEnvInt("TOP_LOCATIONS", 10),
			ExportFilename:    getEnv("EXPORT_FILENAME", "filtered_disasters.csv"),
		},
		Housing: HousingConfig{
			DataPath:       getEnv("HOUSING_DATA_PATH", "./data/cleaned_housing_data.csv"),
			ExportFilename: getEnv("HOUSING_EXPORT_FILENAME", "housing_summary.csv"),
			ScatterColumns: getEnvList("HOUSING_SCATTER_COLUMNS", []string{"price", "sqft_living", "bathrooms", "sqft_above", "view"}),
			ZScoreRows:     getEnvInt("HOUSING_ZSCORE_ROWS", 50),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.RateLimitRPS < 1 {
		return fmt.Errorf("rate limit must be at least 1 request per second")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown timeout must be positive")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}
	if c.Logging.Format != "json" && c.Logging.Format != "text" {
		return fmt.Errorf("invalid log format: %s", c.Logging.Format)
	}

	if c.Worker.Count < 1 {
		return fmt.Errorf("load workers must be at least 1")
	}

	if c.Disaster.CityFilterDefault != "all" && c.Disaster.CityFilterDefault != "none" {
		return fmt.Errorf("invalid city filter default: %s", c.Disaster.CityFilterDefault)
	}
	if c.Disaster.TopLocations < 0 {
		return fmt.Errorf("top locations must not be negative")
	}

	if c.Housing.ZScoreRows < 1 {
		return fmt.Errorf("housing z-score rows must be at least 1")
	}

	return nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}

// getEnvList splits a comma-separated value, dropping blank entries.
func getEnvList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(val, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
