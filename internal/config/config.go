package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Places  PlacesConfig  `yaml:"places" mapstructure:"places"`
	Geocode GeocodeConfig `yaml:"geocode" mapstructure:"geocode"`
	Hunter  HunterConfig  `yaml:"hunter" mapstructure:"hunter"`
	Query   QueryConfig   `yaml:"query" mapstructure:"query"`
	Scrape  ScrapeConfig  `yaml:"scrape" mapstructure:"scrape"`
	Store   StoreConfig   `yaml:"store" mapstructure:"store"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// PlacesConfig holds places API credentials and search tuning.
type PlacesConfig struct {
	Key          string `yaml:"key" mapstructure:"key"`
	BaseURL      string `yaml:"base_url" mapstructure:"base_url"`
	RadiusMeters int    `yaml:"radius_meters" mapstructure:"radius_meters"`
	MaxResults   int    `yaml:"max_results" mapstructure:"max_results"`
}

// GeocodeConfig holds geocoding API settings. The key defaults to the places
// key since both endpoints usually share one credential.
type GeocodeConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// HunterConfig holds verified-contact-lookup API settings.
type HunterConfig struct {
	Key          string  `yaml:"key" mapstructure:"key"`
	BaseURL      string  `yaml:"base_url" mapstructure:"base_url"`
	Limit        int     `yaml:"limit" mapstructure:"limit"`
	RequestsPerS float64 `yaml:"requests_per_s" mapstructure:"requests_per_s"`
}

// QueryConfig configures search query expansion and classification.
type QueryConfig struct {
	FacetsFile string `yaml:"facets_file" mapstructure:"facets_file"`
	MatchMode  string `yaml:"match_mode" mapstructure:"match_mode"` // "substring" or "word"
}

// ScrapeConfig configures the email scraping fallback.
type ScrapeConfig struct {
	TimeoutSecs int `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	Path        string `yaml:"path" mapstructure:"path"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// ServerConfig configures the UI backend server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("LEADGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults. Credential keys get empty defaults so AutomaticEnv can fill
	// them through Unmarshal.
	v.SetDefault("places.key", "")
	v.SetDefault("geocode.key", "")
	v.SetDefault("hunter.key", "")
	v.SetDefault("store.database_url", "")
	v.SetDefault("query.facets_file", "")
	v.SetDefault("places.base_url", "https://maps.googleapis.com/maps/api")
	v.SetDefault("places.radius_meters", 40000)
	v.SetDefault("places.max_results", 20)
	v.SetDefault("geocode.base_url", "https://maps.googleapis.com/maps/api/geocode/json")
	v.SetDefault("hunter.base_url", "https://api.hunter.io/v2")
	v.SetDefault("hunter.limit", 3)
	v.SetDefault("hunter.requests_per_s", 0.66)
	v.SetDefault("query.match_mode", "substring")
	v.SetDefault("scrape.timeout_secs", 10)
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.path", "leads.db")
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	if cfg.Geocode.Key == "" {
		cfg.Geocode.Key = cfg.Places.Key
	}

	return &cfg, nil
}

// ValidateSearch checks that the credentials a search run needs are present.
// It runs before any network call so a missing key fails fast with its name.
func (c *Config) ValidateSearch(withEmails bool) error {
	if c.Places.Key == "" {
		return eris.New("config: places.key is missing (set LEADGEN_PLACES_KEY or places.key in config.yaml)")
	}
	if withEmails && c.Hunter.Key == "" {
		return eris.New("config: hunter.key is missing (set LEADGEN_HUNTER_KEY or hunter.key in config.yaml)")
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
