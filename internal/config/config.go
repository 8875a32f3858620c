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
	Store      StoreConfig      `yaml:"store" mapstructure:"store"`
	Yelp       YelpConfig       `yaml:"yelp" mapstructure:"yelp"`
	Places     PlacesConfig     `yaml:"places" mapstructure:"places"`
	Hunter     HunterConfig     `yaml:"hunter" mapstructure:"hunter"`
	Scrape     ScrapeConfig     `yaml:"scrape" mapstructure:"scrape"`
	Discovery  DiscoveryConfig  `yaml:"discovery" mapstructure:"discovery"`
	Batch      BatchConfig      `yaml:"batch" mapstructure:"batch"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Notion     NotionConfig     `yaml:"notion" mapstructure:"notion"`
	Salesforce SalesforceConfig `yaml:"salesforce" mapstructure:"salesforce"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	SQLitePath  string `yaml:"sqlite_path" mapstructure:"sqlite_path"`
}

// YelpConfig holds Yelp Fusion API settings.
type YelpConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// PlacesConfig holds Google Places API settings.
type PlacesConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// HunterConfig holds hunter.io API settings.
type HunterConfig struct {
	Key     string  `yaml:"key" mapstructure:"key"`
	BaseURL string  `yaml:"base_url" mapstructure:"base_url"`
	RPS     float64 `yaml:"rps" mapstructure:"rps"`
}

// ScrapeConfig configures the domain scrape adapter.
type ScrapeConfig struct {
	TimeoutSecs int `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	PageDelayMs int `yaml:"page_delay_ms" mapstructure:"page_delay_ms"`
	MaxPages    int `yaml:"max_pages" mapstructure:"max_pages"`
}

// DiscoveryConfig configures pipeline behavior.
type DiscoveryConfig struct {
	FallbackPatterns bool     `yaml:"fallback_patterns" mapstructure:"fallback_patterns"`
	SearchLimit      int      `yaml:"search_limit" mapstructure:"search_limit"`
	PatternsFile     string   `yaml:"patterns_file" mapstructure:"patterns_file"`
	TitleFilters     []string `yaml:"title_filters" mapstructure:"title_filters"`
}

// BatchConfig configures batch discovery.
type BatchConfig struct {
	MaxConcurrent int `yaml:"max_concurrent" mapstructure:"max_concurrent"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// NotionConfig holds Notion export settings.
type NotionConfig struct {
	Token      string `yaml:"token" mapstructure:"token"`
	ContactsDB string `yaml:"contacts_db" mapstructure:"contacts_db"`
}

// SalesforceConfig holds Salesforce JWT auth settings.
type SalesforceConfig struct {
	ClientID string `yaml:"client_id" mapstructure:"client_id"`
	Username string `yaml:"username" mapstructure:"username"`
	KeyPath  string `yaml:"key_path" mapstructure:"key_path"`
	LoginURL string `yaml:"login_url" mapstructure:"login_url"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment. An explicit path
// must exist; with an empty path, config.yaml is searched in the working
// directory and missing is fine.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Config file
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	// Environment
	v.SetEnvPrefix("PROSPECT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.sqlite_path", "prospect.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("batch.max_concurrent", 5)
	v.SetDefault("yelp.base_url", "https://api.yelp.com/v3")
	v.SetDefault("places.base_url", "https://maps.googleapis.com/maps/api/place")
	v.SetDefault("hunter.base_url", "https://api.hunter.io/v2")
	v.SetDefault("hunter.rps", 2)
	v.SetDefault("scrape.timeout_secs", 8)
	v.SetDefault("scrape.page_delay_ms", 500)
	v.SetDefault("scrape.max_pages", 4)
	v.SetDefault("discovery.fallback_patterns", true)
	v.SetDefault("discovery.search_limit", 10)
	v.SetDefault("salesforce.login_url", "https://login.salesforce.com")

	// Secrets come from the environment; register the keys so AutomaticEnv
	// resolves them during Unmarshal.
	for _, key := range []string{
		"store.database_url",
		"yelp.key",
		"places.key",
		"hunter.key",
		"notion.token",
		"notion.contacts_db",
		"salesforce.client_id",
		"salesforce.username",
		"salesforce.key_path",
	} {
		v.SetDefault(key, "")
	}

	if err := v.ReadInConfig(); err != nil {
		// A missing file is only tolerable for the default search path.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
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
