package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all service configuration.
type Config struct {
	Environment EnvironmentConfig
	Logger      LoggerConfig

	Portal     PortalConfig
	Session    SessionConfig
	Classifier ClassifierConfig
	Charges    ChargesConfig
	Finalize   FinalizeConfig
	Bulk       BulkConfig
	Status     StatusConfig

	DryRun bool
}

type EnvironmentConfig struct {
	Name string
}

type LoggerConfig struct {
	Level        string
	Mode         string
	Encoding     string
	ColorEnabled bool
}

// PortalConfig points the engine at the ticketing portal.
type PortalConfig struct {
	BaseURL       string
	TaskFeedURL   string
	PageTimeout   time.Duration
	NavsPerMinute int // navigation rate limit across the whole session
	CacheTTL      time.Duration
	CacheSize     int
}

// SessionConfig controls login and state persistence.
type SessionConfig struct {
	EnvPath   string // .env file holding portal credentials
	StatePath string // state.json cookie snapshot
}

// ClassifierConfig carries the keyword sets the job-type classifier matches
// against. Values are data so category precedence and thresholds are defined
// once and updated without touching logic.
type ClassifierConfig struct {
	FreeKeywords     []string
	BillableKeywords []string
	Threshold        int // fuzzy score must be strictly greater to win
}

// ChargeType is one configured billable line-item type.
type ChargeType struct {
	Label     string   `mapstructure:"label"`
	Keywords  []string `mapstructure:"keywords"`
	UnitPrice float64  `mapstructure:"unit_price"`
	Unit      string   `mapstructure:"unit"` // "ft" marks footage-quantity types
}

// ChargesConfig carries the charge-detection table.
type ChargesConfig struct {
	NoChargeKeywords []string
	Threshold        int // fuzzy score at or above which a keyword matches
	Types            []ChargeType
}

// FinalizeConfig is the retry policy and diagnostics for completion writes.
type FinalizeConfig struct {
	MaxAttempts   int
	Backoff       time.Duration
	DiagnosticDir string // empty disables failure artifacts
}

// BulkConfig controls the bulk-verification worker pool.
type BulkConfig struct {
	Workers int
}

// StatusConfig gates the operator HTTP endpoint.
type StatusConfig struct {
	Enabled bool
	Port    int
	Mode    string
}

// Load loads configuration using Viper. An explicit path wins; otherwise
// config.yaml is searched in ./config, ., /etc/app/
func Load(path ...string) (*Config, error) {
	if len(path) > 0 && path[0] != "" {
		viper.SetConfigFile(path[0])
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath("./config")
		viper.AddConfigPath(".")
		viper.AddConfigPath("/etc/app/")
	}

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}

	cfg.Environment.Name = viper.GetString("environment.name")
	cfg.Logger.Level = viper.GetString("logger.level")
	cfg.Logger.Mode = viper.GetString("logger.mode")
	cfg.Logger.Encoding = viper.GetString("logger.encoding")
	cfg.Logger.ColorEnabled = viper.GetBool("logger.color_enabled")

	cfg.Portal.BaseURL = viper.GetString("portal.base_url")
	cfg.Portal.TaskFeedURL = viper.GetString("portal.task_feed_url")
	cfg.Portal.PageTimeout = viper.GetDuration("portal.page_timeout")
	cfg.Portal.NavsPerMinute = viper.GetInt("portal.navs_per_minute")
	cfg.Portal.CacheTTL = viper.GetDuration("portal.cache_ttl")
	cfg.Portal.CacheSize = viper.GetInt("portal.cache_size")
	if cfg.Portal.BaseURL == "" {
		return nil, fmt.Errorf("portal.base_url is required")
	}
	if cfg.Portal.TaskFeedURL == "" {
		return nil, fmt.Errorf("portal.task_feed_url is required")
	}

	cfg.Session.EnvPath = viper.GetString("session.env_path")
	cfg.Session.StatePath = viper.GetString("session.state_path")

	cfg.Classifier.FreeKeywords = viper.GetStringSlice("classifier.free_keywords")
	cfg.Classifier.BillableKeywords = viper.GetStringSlice("classifier.billable_keywords")
	cfg.Classifier.Threshold = viper.GetInt("classifier.threshold")

	cfg.Charges.NoChargeKeywords = viper.GetStringSlice("charges.no_charge_keywords")
	cfg.Charges.Threshold = viper.GetInt("charges.threshold")
	if err := viper.UnmarshalKey("charges.types", &cfg.Charges.Types); err != nil {
		return nil, fmt.Errorf("invalid charges.types: %w", err)
	}
	if len(cfg.Charges.Types) == 0 {
		cfg.Charges.Types = defaultChargeTypes()
	}

	cfg.Finalize.MaxAttempts = viper.GetInt("finalize.max_attempts")
	cfg.Finalize.Backoff = viper.GetDuration("finalize.backoff")
	cfg.Finalize.DiagnosticDir = viper.GetString("finalize.diagnostic_dir")

	cfg.Bulk.Workers = viper.GetInt("bulk.workers")

	cfg.Status.Enabled = viper.GetBool("status.enabled")
	cfg.Status.Port = viper.GetInt("status.port")
	cfg.Status.Mode = viper.GetString("status.mode")

	cfg.DryRun = viper.GetBool("dry_run")

	return cfg, nil
}

func setDefaults() {
	viper.SetDefault("environment.name", "development")
	viper.SetDefault("logger.level", "debug")
	viper.SetDefault("logger.mode", "debug")
	viper.SetDefault("logger.encoding", "console")
	viper.SetDefault("logger.color_enabled", true)

	viper.SetDefault("portal.page_timeout", "30s")
	viper.SetDefault("portal.navs_per_minute", 60)
	viper.SetDefault("portal.cache_ttl", "10m")
	viper.SetDefault("portal.cache_size", 64)

	viper.SetDefault("session.env_path", ".env")
	viper.SetDefault("session.state_path", "state.json")

	// Canonical keyword sets: the most complete revision observed; earlier
	// variants are superseded.
	viper.SetDefault("classifier.free_keywords", []string{
		"WiFi Survey", "NID/IW/CopperTest", "equipment check", "swap router",
		"ONT Swap", "STB to ONN Conversion", "Jack/FXS/Phone Check", "Blank",
		"Go-Live", "Install", "rouge ont", "onn swap", "ont dying", "stb swap",
		"Tie down", "onn",
	})
	viper.SetDefault("classifier.billable_keywords", []string{
		"ONT Move", "ONT in Disco", "Fiber Cut", "Broken Fiber", "Fiber Move",
	})
	viper.SetDefault("classifier.threshold", 90)

	viper.SetDefault("charges.no_charge_keywords", []string{
		"no charge", "courtesy dispatch", "free of charge", "no bill",
	})
	viper.SetDefault("charges.threshold", 90)

	viper.SetDefault("finalize.max_attempts", 2)
	viper.SetDefault("finalize.backoff", "1s")
	viper.SetDefault("finalize.diagnostic_dir", "Outputs")

	viper.SetDefault("bulk.workers", 4)

	viper.SetDefault("status.enabled", false)
	viper.SetDefault("status.port", 8080)
	viper.SetDefault("status.mode", "release")

	viper.SetDefault("dry_run", false)
}

// defaultChargeTypes is the built-in charge table used when the config file
// does not override charges.types.
func defaultChargeTypes() []ChargeType {
	return []ChargeType{
		{
			Label:     "Fiber",
			Keywords:  []string{"ran fiber", "fiber run", "new fiber", "replaced fiber"},
			UnitPrice: 0.85,
			Unit:      "ft",
		},
		{
			Label:     "Labor Hour",
			Keywords:  []string{"extra labor", "additional labor", "labor hour"},
			UnitPrice: 85.00,
		},
		{
			Label:     "Trip Charge",
			Keywords:  []string{"trip charge", "additional trip", "second trip"},
			UnitPrice: 50.00,
		},
	}
}
