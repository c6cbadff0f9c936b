// Package config provides configuration management for the Puckline application.
package config

import (
	"fmt"
)

// Config represents the complete application configuration.
type Config struct {
	App       AppConfig       `mapstructure:"app" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database" validate:"required"`
	NHLAPI    NHLAPIConfig    `mapstructure:"nhl_api" validate:"required"`
	OddsAPI   OddsAPIConfig   `mapstructure:"odds_api" validate:"required"`
	Analysis  AnalysisConfig  `mapstructure:"analysis" validate:"required"`
	Ingestion IngestionConfig `mapstructure:"ingestion" validate:"required"`
	Metrics   MetricsConfig   `mapstructure:"metrics" validate:"required"`
}

// AppConfig represents application-level configuration.
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents the corpus database connection configuration.
type DatabaseConfig struct {
	Host               string `mapstructure:"host" validate:"required"`
	Port               int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name               string `mapstructure:"name" validate:"required"`
	User               string `mapstructure:"user" validate:"required"`
	Password           string `mapstructure:"password" validate:"required"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"required,gt=0"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"required,gt=0"`
}

// NHLAPIConfig represents the NHL stats API configuration.
type NHLAPIConfig struct {
	BaseURL           string  `mapstructure:"base_url" validate:"required,url"`
	TimeoutSeconds    int     `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	RetryAttempts     int     `mapstructure:"retry_attempts" validate:"gte=0"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second" validate:"required,gt=0"`
}

// OddsAPIConfig represents the odds provider configuration.
type OddsAPIConfig struct {
	BaseURL           string   `mapstructure:"base_url" validate:"required,url"`
	APIKey            string   `mapstructure:"api_key"`
	SportKey          string   `mapstructure:"sport_key" validate:"required"`
	Regions           []string `mapstructure:"regions" validate:"required,min=1"`
	Markets           []string `mapstructure:"markets" validate:"required,min=1,markets"`
	TimeoutSeconds    int      `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	RetryAttempts     int      `mapstructure:"retry_attempts" validate:"gte=0"`
	RequestsPerSecond float64  `mapstructure:"requests_per_second" validate:"required,gt=0"`
	CacheTTLSeconds   int      `mapstructure:"cache_ttl_seconds" validate:"required,gt=0"`
}

// AnalysisConfig represents forecasting and bet qualification configuration.
type AnalysisConfig struct {
	Stake              float64 `mapstructure:"stake" validate:"required,gt=0"`
	Conservative       bool    `mapstructure:"conservative"`
	MinEdge            float64 `mapstructure:"min_edge" validate:"required,gt=0,lt=1"`
	MaxEdge            float64 `mapstructure:"max_edge" validate:"required,gt=0,lt=1"`
	MinConfidence      float64 `mapstructure:"min_confidence" validate:"required,gte=0,lte=1"`
	ModelWeight        float64 `mapstructure:"model_weight" validate:"required,gt=0,lte=1"`
	MinSimilarity      float64 `mapstructure:"min_similarity" validate:"required,gt=0,lt=1"`
	MaxNeighbors       int     `mapstructure:"max_neighbors" validate:"required,gt=0"`
	MinNeighbors       int     `mapstructure:"min_neighbors" validate:"required,gt=0"`
	MaxRecommendations int     `mapstructure:"max_recommendations" validate:"gte=0"`
	Workers            int     `mapstructure:"workers" validate:"gte=0"`
	SnapshotPath       string  `mapstructure:"snapshot_path" validate:"required"`
	Bankroll           float64 `mapstructure:"bankroll" validate:"gte=0"`
	KellyFraction      float64 `mapstructure:"kelly_fraction" validate:"gte=0,lte=1"`
}

// IngestionConfig represents historical data ingestion configuration.
type IngestionConfig struct {
	LookbackDays int `mapstructure:"lookback_days" validate:"required,gt=0"`
	FormGames    int `mapstructure:"form_games" validate:"required,gt=0"`
	BatchSize    int `mapstructure:"batch_size" validate:"omitempty,gt=0"`
}

// MetricsConfig represents metrics and monitoring configuration.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// IsDevelopment checks if the application is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode.
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// IsProduction checks if the application is running in production mode.
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string.
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}
