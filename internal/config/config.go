// Package config provides configuration management for the application.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Evolution  EvolutionConfig  `mapstructure:"evolution"`
	GHL        GHLConfig        `mapstructure:"ghl"`
	Auth       AuthConfig       `mapstructure:"auth"`
	Reconciler ReconcilerConfig `mapstructure:"reconciler"`
	Middleware MiddlewareConfig `mapstructure:"middleware"`
}

type ServerConfig struct {
	Port         string `mapstructure:"port"`
	ReadTimeout  int    `mapstructure:"read_timeout"`
	WriteTimeout int    `mapstructure:"write_timeout"`
	// PublicBaseURL is the externally reachable base of this service, used
	// when registering webhook endpoints with the gateway.
	PublicBaseURL string `mapstructure:"public_base_url"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// EvolutionConfig configures the WhatsApp gateway client.
type EvolutionConfig struct {
	BaseURL        string               `mapstructure:"base_url"`
	Timeout        int                  `mapstructure:"timeout"`
	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuit_breaker"`
}

// GHLConfig configures the CRM client and the OAuth application this bridge
// is installed as.
type GHLConfig struct {
	BaseURL                string               `mapstructure:"base_url"`
	ClientID               string               `mapstructure:"client_id"`
	ClientSecret           string               `mapstructure:"client_secret"`
	ConversationProviderID string               `mapstructure:"conversation_provider_id"`
	DefaultAgentID         string               `mapstructure:"default_agent_id"`
	Timeout                int                  `mapstructure:"timeout"`
	TokenRefreshWindow     int                  `mapstructure:"token_refresh_window"`
	CircuitBreaker         CircuitBreakerConfig `mapstructure:"circuit_breaker"`
}

// AuthConfig holds the shared secret used to decrypt CRM context tokens on
// the admin API.
type AuthConfig struct {
	SharedSecret string `mapstructure:"shared_secret"`
}

type CircuitBreakerConfig struct {
	MaxRequests      uint32  `mapstructure:"max_requests"`
	Interval         int     `mapstructure:"interval"`
	Timeout          int     `mapstructure:"timeout"`
	FailureRatio     float64 `mapstructure:"failure_ratio"`
	ConsecutiveFails uint32  `mapstructure:"consecutive_fails"`
}

// ReconcilerConfig controls the optional background reconciliation sweep.
// The on-list poller runs regardless.
type ReconcilerConfig struct {
	Enabled         bool `mapstructure:"enabled"`
	IntervalMinutes int  `mapstructure:"interval_minutes"`
}

type MiddlewareConfig struct {
	RateLimit      int      `mapstructure:"rate_limit"`
	RateLimitBurst int      `mapstructure:"rate_limit_burst"`
	EnableCORS     bool     `mapstructure:"enable_cors"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

func LoadConfig(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.read_timeout", 10)
	viper.SetDefault("server.write_timeout", 10)
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("evolution.timeout", 20)
	viper.SetDefault("evolution.circuit_breaker.max_requests", 3)
	viper.SetDefault("evolution.circuit_breaker.interval", 60)
	viper.SetDefault("evolution.circuit_breaker.timeout", 60)
	viper.SetDefault("evolution.circuit_breaker.failure_ratio", 0.6)
	viper.SetDefault("evolution.circuit_breaker.consecutive_fails", 5)
	viper.SetDefault("ghl.base_url", "https://services.leadconnectorhq.com")
	viper.SetDefault("ghl.timeout", 20)
	viper.SetDefault("ghl.token_refresh_window", 300)
	viper.SetDefault("ghl.circuit_breaker.max_requests", 3)
	viper.SetDefault("ghl.circuit_breaker.interval", 60)
	viper.SetDefault("ghl.circuit_breaker.timeout", 60)
	viper.SetDefault("ghl.circuit_breaker.failure_ratio", 0.6)
	viper.SetDefault("ghl.circuit_breaker.consecutive_fails", 5)
	viper.SetDefault("reconciler.enabled", false)
	viper.SetDefault("reconciler.interval_minutes", 10)
	viper.SetDefault("middleware.rate_limit", 100)
	viper.SetDefault("middleware.rate_limit_burst", 1000)
	viper.SetDefault("middleware.enable_cors", true)
	viper.SetDefault("middleware.allowed_origins", []string{"*"})

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	viper.AutomaticEnv()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

// GetDSN returns PostgreSQL connection string.
func (d *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}
