package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Server     ServerConfig     `mapstructure:"server"`
	Redis      RedisConfig      `mapstructure:"redis"`
	CORS       CORSConfig       `mapstructure:"cors"`
	RateLimit  RateLimitConfig  `mapstructure:"ratelimit"`
	Logger     LoggerConfig     `mapstructure:"logger"`
	Scan       ScanConfig       `mapstructure:"scan"`
	ML         MLConfig         `mapstructure:"ml"`
	Reputation ReputationConfig `mapstructure:"reputation"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	Version     string `mapstructure:"version"`
	Debug       bool   `mapstructure:"debug"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	HTTPPort        int           `mapstructure:"http_port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type RedisConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

type RateLimitConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	RequestsPerMinute int  `mapstructure:"requests_per_minute"`
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	TimeFormat string `mapstructure:"time_format"`
}

// ScanConfig holds the static rule tables and fusion policy for URL scanning.
// All thresholds default to the reference values; changing them changes
// scan verdicts and needs sign-off.
type ScanConfig struct {
	SuspiciousThreshold int `mapstructure:"suspicious_threshold"`
	UnsafeThreshold     int `mapstructure:"unsafe_threshold"`
	HeuristicPrimary    int `mapstructure:"heuristic_primary_threshold"`

	MLPrimaryProbability float64 `mapstructure:"ml_primary_probability"`
	SimilarityThreshold  float64 `mapstructure:"similarity_threshold"`

	HeuristicWeight  float64 `mapstructure:"heuristic_weight"`
	MLWeight         float64 `mapstructure:"ml_weight"`
	ReputationWeight float64 `mapstructure:"reputation_weight"`

	ProtectedDomains   []string `mapstructure:"protected_domains"`
	SuspiciousKeywords []string `mapstructure:"suspicious_keywords"`
	SuspiciousTLDs     []string `mapstructure:"suspicious_tlds"`

	CollaboratorTimeout time.Duration `mapstructure:"collaborator_timeout"`
}

type MLConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	ModelPath string `mapstructure:"model_path"`
}

type ReputationConfig struct {
	Enabled   bool     `mapstructure:"enabled"`
	Blocklist []string `mapstructure:"blocklist"`
}

// DefaultProtectedDomains is the curated set of brand domains the similarity
// matcher defends. Order matters: the first domain over the similarity
// threshold wins, so keep high-value brands early.
func DefaultProtectedDomains() []string {
	return []string{
		"google.com", "facebook.com", "amazon.com", "paypal.com",
		"microsoft.com", "apple.com", "netflix.com", "instagram.com",
		"twitter.com", "linkedin.com", "ebay.com", "walmart.com",
		"chase.com", "bankofamerica.com", "wellsfargo.com",
		"github.com", "dropbox.com", "yahoo.com", "outlook.com",
	}
}

// DefaultSuspiciousKeywords are tokens often found in phishing URLs.
func DefaultSuspiciousKeywords() []string {
	return []string{
		"verify", "account", "update", "secure", "banking",
		"signin", "login", "confirm", "suspend", "unlock",
		"validate", "restore", "recover", "alert", "urgent",
		"limited", "unusual", "activity", "security-check",
	}
}

// DefaultSuspiciousTLDs are TLDs disproportionately used in phishing.
func DefaultSuspiciousTLDs() []string {
	return []string{
		".tk", ".ml", ".ga", ".cf", ".gq", ".pw", ".cc",
		".top", ".xyz", ".club", ".work", ".click",
	}
}

// Load reads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/phishshield")
	}

	// Environment variables
	v.SetEnvPrefix("PHISHSHIELD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Bind nested env vars explicitly (viper doesn't auto-bind nested struct fields)
	v.BindEnv("redis.enabled", "PHISHSHIELD_REDIS_ENABLED")
	v.BindEnv("redis.host", "PHISHSHIELD_REDIS_HOST")
	v.BindEnv("redis.port", "PHISHSHIELD_REDIS_PORT")
	v.BindEnv("redis.password", "PHISHSHIELD_REDIS_PASSWORD")
	v.BindEnv("ml.model_path", "PHISHSHIELD_ML_MODEL_PATH")
	v.BindEnv("app.environment", "PHISHSHIELD_APP_ENVIRONMENT")
	v.BindEnv("server.http_port", "PHISHSHIELD_SERVER_HTTP_PORT")

	setDefaults(v)

	// The server runs from defaults alone; a config file is optional unless
	// an explicit path was given.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// LoadDefault loads configuration with default path
func LoadDefault() (*Config, error) {
	return Load("")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "phishshield")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.version", "1.0.0")

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.http_port", 8000)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.key_prefix", "phishshield:")

	// The browser extension calls the API directly, so CORS stays open by default
	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{"Accept", "Authorization", "Content-Type"})
	v.SetDefault("cors.allow_credentials", true)
	v.SetDefault("cors.max_age", 300)

	v.SetDefault("ratelimit.enabled", false)
	v.SetDefault("ratelimit.requests_per_minute", 120)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.time_format", time.RFC3339)

	v.SetDefault("scan.suspicious_threshold", 40)
	v.SetDefault("scan.unsafe_threshold", 50)
	v.SetDefault("scan.heuristic_primary_threshold", 60)
	v.SetDefault("scan.ml_primary_probability", 0.7)
	v.SetDefault("scan.similarity_threshold", 0.8)
	v.SetDefault("scan.heuristic_weight", 0.4)
	v.SetDefault("scan.ml_weight", 0.4)
	v.SetDefault("scan.reputation_weight", 0.2)
	v.SetDefault("scan.protected_domains", DefaultProtectedDomains())
	v.SetDefault("scan.suspicious_keywords", DefaultSuspiciousKeywords())
	v.SetDefault("scan.suspicious_tlds", DefaultSuspiciousTLDs())
	v.SetDefault("scan.collaborator_timeout", 2*time.Second)

	v.SetDefault("ml.enabled", true)
	v.SetDefault("ml.model_path", "models/phish_model.json")

	v.SetDefault("reputation.enabled", true)
	v.SetDefault("reputation.blocklist", []string{})
}
