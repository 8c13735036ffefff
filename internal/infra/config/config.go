package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Auth       AuthConfig       `yaml:"auth"`
	Forecast   ForecastConfig   `yaml:"forecast"`
	Prediction PredictionConfig `yaml:"prediction"`
	Storage    StorageConfig    `yaml:"storage"`
	LLM        LLMConfig        `yaml:"llm"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address      string          `yaml:"address"`
	ReadTimeout  time.Duration   `yaml:"readTimeout"`
	WriteTimeout time.Duration   `yaml:"writeTimeout"`
	RateLimit    RateLimitConfig `yaml:"rateLimit"`
	Retry        RetryConfig     `yaml:"retry"`
	CORS         CORSConfig      `yaml:"cors"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// RetryConfig configures best-effort retries for idempotent requests.
type RetryConfig struct {
	Enabled     bool          `yaml:"enabled"`
	MaxAttempts int           `yaml:"maxAttempts"`
	BaseBackoff time.Duration `yaml:"baseBackoff"`
	Exclude     []string      `yaml:"exclude"`
}

// CORSConfig lists the browser origins allowed to call the API. "*" allows any.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowedOrigins"`
}

// AuthConfig controls token signing.
type AuthConfig struct {
	Secret          string        `yaml:"secret"`
	Issuer          string        `yaml:"issuer"`
	TokenTTL        time.Duration `yaml:"tokenTtl"`
	RefreshTokenTTL time.Duration `yaml:"refreshTokenTtl"`
}

// ForecastConfig drives the pollen calendar.
type ForecastConfig struct {
	Timezone         string            `yaml:"timezone"`
	SeasonYear       int               `yaml:"seasonYear"`
	UpcomingLimit    int               `yaml:"upcomingLimit"`
	CacheTTL         time.Duration     `yaml:"cacheTtl"`
	FetchConcurrency int               `yaml:"fetchConcurrency"`
	FetchTimeout     time.Duration     `yaml:"fetchTimeout"`
	CalibratedPlants []string          `yaml:"calibratedPlants"`
	Palette          map[string]string `yaml:"palette"`
	Plants           []PlantConfig     `yaml:"plants"`
}

// PlantConfig describes one tracked plant. Start and End are DD/MM (any year) or DD/MM/YYYY.
type PlantConfig struct {
	Name         string `yaml:"name"`
	Label        string `yaml:"label"`
	Start        string `yaml:"start"`
	End          string `yaml:"end"`
	DefaultLevel int    `yaml:"defaultLevel"`
}

// PredictionConfig points at the shift and intensity model services.
type PredictionConfig struct {
	ShiftURL     string        `yaml:"shiftUrl"`
	IntensityURL string        `yaml:"intensityUrl"`
	Timeout      time.Duration `yaml:"timeout"`
	Timezone     string        `yaml:"timezone"`
	WeatherData  [][]float64   `yaml:"weatherData"`
}

// StorageConfig groups the optional persistent backends. Anything left disabled falls back to memory.
type StorageConfig struct {
	Postgres PostgresConfig `yaml:"postgres"`
	Valkey   ValkeyConfig   `yaml:"valkey"`
	Archive  ArchiveConfig  `yaml:"archive"`
}

// PostgresConfig contains DSN and pooling settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// ValkeyConfig contains connection information for the forecast cache.
type ValkeyConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
	Prefix  string `yaml:"prefix"`
}

// ArchiveConfig points at the S3-compatible bucket for raw forecast snapshots.
type ArchiveConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
}

// LLMConfig contains ChatGPT/OpenAI settings. Advice stays static while APIKey is empty.
type LLMConfig struct {
	APIKey      string        `yaml:"apiKey"`
	BaseURL     string        `yaml:"baseUrl"`
	Model       string        `yaml:"model"`
	Temperature float32       `yaml:"temperature"`
	Prompt      string        `yaml:"prompt"`
	Timeout     time.Duration `yaml:"timeout"`
}

// Load reads configuration from a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	setString("HTTP_ADDRESS", &cfg.HTTP.Address)
	setBool("HTTP_RATE_LIMIT_ENABLED", &cfg.HTTP.RateLimit.Enabled)
	setInt("HTTP_RATE_LIMIT_RPM", &cfg.HTTP.RateLimit.RequestsPerMinute)
	setInt("HTTP_RATE_LIMIT_BURST", &cfg.HTTP.RateLimit.Burst)
	setBool("HTTP_RETRY_ENABLED", &cfg.HTTP.Retry.Enabled)
	setInt("HTTP_RETRY_MAX_ATTEMPTS", &cfg.HTTP.Retry.MaxAttempts)
	setDuration("HTTP_RETRY_BASE_BACKOFF", &cfg.HTTP.Retry.BaseBackoff)
	if v := os.Getenv("HTTP_CORS_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.CORS.AllowedOrigins = splitList(v)
	}

	setString("AUTH_SECRET", &cfg.Auth.Secret)
	setDuration("AUTH_TOKEN_TTL", &cfg.Auth.TokenTTL)
	setDuration("AUTH_REFRESH_TOKEN_TTL", &cfg.Auth.RefreshTokenTTL)

	setString("FORECAST_TIMEZONE", &cfg.Forecast.Timezone)
	setInt("FORECAST_SEASON_YEAR", &cfg.Forecast.SeasonYear)
	setInt("FORECAST_UPCOMING_LIMIT", &cfg.Forecast.UpcomingLimit)
	setDuration("FORECAST_CACHE_TTL", &cfg.Forecast.CacheTTL)
	setInt("FORECAST_FETCH_CONCURRENCY", &cfg.Forecast.FetchConcurrency)
	setDuration("FORECAST_FETCH_TIMEOUT", &cfg.Forecast.FetchTimeout)
	if v := os.Getenv("FORECAST_CALIBRATED_PLANTS"); v != "" {
		cfg.Forecast.CalibratedPlants = splitList(v)
	}

	setString("PREDICTION_SHIFT_URL", &cfg.Prediction.ShiftURL)
	setString("PREDICTION_INTENSITY_URL", &cfg.Prediction.IntensityURL)
	setDuration("PREDICTION_TIMEOUT", &cfg.Prediction.Timeout)
	setString("PREDICTION_TIMEZONE", &cfg.Prediction.Timezone)

	setString("POSTGRES_DSN", &cfg.Storage.Postgres.DSN)
	if v := os.Getenv("POSTGRES_MAX_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Storage.Postgres.MaxConns = int32(parsed)
		}
	}
	if v := os.Getenv("POSTGRES_MIN_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Storage.Postgres.MinConns = int32(parsed)
		}
	}
	setBool("VALKEY_ENABLED", &cfg.Storage.Valkey.Enabled)
	setString("VALKEY_ADDR", &cfg.Storage.Valkey.Addr)
	setBool("ARCHIVE_ENABLED", &cfg.Storage.Archive.Enabled)
	setString("ARCHIVE_ENDPOINT", &cfg.Storage.Archive.Endpoint)
	setString("ARCHIVE_ACCESS_KEY", &cfg.Storage.Archive.AccessKey)
	setString("ARCHIVE_SECRET_KEY", &cfg.Storage.Archive.SecretKey)
	setString("ARCHIVE_BUCKET", &cfg.Storage.Archive.Bucket)
	setString("ARCHIVE_REGION", &cfg.Storage.Archive.Region)

	setString("LLM_API_KEY", &cfg.LLM.APIKey)
	setString("LLM_BASE_URL", &cfg.LLM.BaseURL)
	setString("LLM_MODEL", &cfg.LLM.Model)
	if v := os.Getenv("LLM_TEMPERATURE"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 32); err == nil {
			cfg.LLM.Temperature = float32(parsed)
		}
	}
}

func setString(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(key string, dst *int) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			*dst = parsed
		}
	}
}

func setBool(key string, dst *bool) {
	if v := os.Getenv(key); v != "" {
		*dst = v == "1" || strings.EqualFold(v, "true")
	}
}

func setDuration(key string, dst *time.Duration) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			*dst = parsed
		}
	}
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:      ":8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 60 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 60,
				Burst:             20,
			},
			Retry: RetryConfig{
				Enabled:     true,
				MaxAttempts: 2,
				BaseBackoff: 200 * time.Millisecond,
				Exclude: []string{
					"/api/v1/auth/register",
				},
			},
			CORS: CORSConfig{
				AllowedOrigins: []string{"http://localhost:8081", "http://localhost:19006"},
			},
		},
		Auth: AuthConfig{
			Issuer:          "pollen-calendar",
			TokenTTL:        time.Hour,
			RefreshTokenTTL: 30 * 24 * time.Hour,
		},
		Forecast: ForecastConfig{
			Timezone:         "Europe/Kyiv",
			UpcomingLimit:    3,
			CacheTTL:         6 * time.Hour,
			FetchConcurrency: 4,
			FetchTimeout:     45 * time.Second,
			CalibratedPlants: []string{"ragweed"},
			Plants:           defaultPlants(),
		},
		Prediction: PredictionConfig{
			ShiftURL:     "https://allergyprediction.onrender.com/predict",
			IntensityURL: "https://intensityprediction.onrender.com/predict",
			Timeout:      20 * time.Second,
			Timezone:     "Africa/Cairo",
			WeatherData:  [][]float64{{7, 30, 60, 30, 0}, {8, 30, 60, 30, 0}},
		},
		Storage: StorageConfig{
			Postgres: PostgresConfig{MaxConns: 4},
			Valkey:   ValkeyConfig{Prefix: "pollen"},
		},
		LLM: LLMConfig{
			Model:       "gpt-4o-mini",
			Temperature: 0.3,
			Timeout:     20 * time.Second,
		},
	}
}

func defaultPlants() []PlantConfig {
	return []PlantConfig{
		{Name: "alder", Label: "Alder", Start: "01/02", End: "15/04", DefaultLevel: 3},
		{Name: "birch", Label: "Birch", Start: "01/04", End: "15/05", DefaultLevel: 2},
		{Name: "poplar", Label: "Poplar", Start: "01/04", End: "15/05", DefaultLevel: 3},
		{Name: "timothy", Label: "Timothy grass", Start: "15/05", End: "31/07", DefaultLevel: 3},
		{Name: "nettle", Label: "Nettle", Start: "01/06", End: "30/09", DefaultLevel: 1},
		{Name: "goosefoot", Label: "Goosefoot", Start: "15/06", End: "30/09", DefaultLevel: 0},
		{Name: "mugwort", Label: "Mugwort", Start: "15/07", End: "30/09", DefaultLevel: 4},
		{Name: "ragweed", Label: "Ragweed", Start: "01/08", End: "15/10", DefaultLevel: 5},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	if c.HTTP.Retry.Enabled {
		if c.HTTP.Retry.MaxAttempts <= 0 {
			return errors.New("http.retry.maxAttempts must be positive")
		}
		if c.HTTP.Retry.BaseBackoff <= 0 {
			return errors.New("http.retry.baseBackoff must be positive")
		}
	}
	if strings.TrimSpace(c.Auth.Secret) == "" {
		return errors.New("auth.secret cannot be empty")
	}
	if c.Auth.TokenTTL <= 0 || c.Auth.RefreshTokenTTL <= 0 {
		return errors.New("auth token ttls must be positive")
	}
	if _, err := time.LoadLocation(c.Forecast.Timezone); err != nil {
		return fmt.Errorf("forecast.timezone: %w", err)
	}
	if c.Forecast.SeasonYear < 0 {
		return errors.New("forecast.seasonYear cannot be negative")
	}
	if c.Forecast.UpcomingLimit <= 0 {
		return errors.New("forecast.upcomingLimit must be positive")
	}
	if c.Forecast.CacheTTL < 0 {
		return errors.New("forecast.cacheTtl cannot be negative")
	}
	if c.Forecast.FetchConcurrency <= 0 {
		return errors.New("forecast.fetchConcurrency must be positive")
	}
	if c.Forecast.FetchTimeout <= 0 {
		return errors.New("forecast.fetchTimeout must be positive")
	}
	if len(c.Forecast.Plants) == 0 {
		return errors.New("forecast.plants cannot be empty")
	}
	known := make(map[string]struct{}, len(c.Forecast.Plants))
	for _, p := range c.Forecast.Plants {
		known[strings.ToLower(strings.TrimSpace(p.Name))] = struct{}{}
	}
	for _, name := range c.Forecast.CalibratedPlants {
		if _, ok := known[strings.ToLower(strings.TrimSpace(name))]; !ok {
			return fmt.Errorf("forecast.calibratedPlants: unknown plant %q", name)
		}
	}
	if strings.TrimSpace(c.Prediction.IntensityURL) == "" {
		return errors.New("prediction.intensityUrl cannot be empty")
	}
	if _, err := time.LoadLocation(c.Prediction.Timezone); err != nil {
		return fmt.Errorf("prediction.timezone: %w", err)
	}
	if c.Storage.Valkey.Enabled && strings.TrimSpace(c.Storage.Valkey.Addr) == "" {
		return errors.New("storage.valkey.addr cannot be empty when valkey is enabled")
	}
	if c.Storage.Archive.Enabled {
		if strings.TrimSpace(c.Storage.Archive.Endpoint) == "" || strings.TrimSpace(c.Storage.Archive.Bucket) == "" {
			return errors.New("storage.archive endpoint and bucket are required when the archive is enabled")
		}
	}
	return nil
}
