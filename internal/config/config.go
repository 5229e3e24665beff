package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

type Config struct {
	HTTPAddr string `toml:"http_addr"`

	// DB
	Env    string `toml:"env"`     // "dev" | "prod"
	DBPath string `toml:"db_path"` // e.g. "./data/cardgate.db"

	// APIKey, when non-empty, must be presented by callers in the
	// x-api-key header. Empty disables the check (some fleets cannot
	// send headers at all).
	APIKey string `toml:"api_key"`

	// ResponseDialect pins the relay response convention for the
	// hardware fleet: "relay" or "legacy".
	ResponseDialect string `toml:"response_dialect"`

	// AutoProvisionDevices enables upsert-on-first-sight device rows.
	// false denies scans from unregistered serials instead.
	AutoProvisionDevices bool `toml:"auto_provision_devices"`

	// LookupTimeoutSeconds bounds each store call during a scan.
	LookupTimeoutSeconds int `toml:"lookup_timeout_seconds"`

	// Liveness ping retention
	LivenessRetentionDays int `toml:"liveness_retention_days"` // 0 = keep forever
	PruneIntervalHours    int `toml:"prune_interval_hours"`    // how often the pruner runs (default 6)
}

func defaults() Config {
	return Config{
		HTTPAddr:              ":8080",
		Env:                   "dev",
		DBPath:                "./data/cardgate.db",
		ResponseDialect:       "relay",
		AutoProvisionDevices:  true,
		LookupTimeoutSeconds:  3,
		LivenessRetentionDays: 30,
		PruneIntervalHours:    6,
	}
}

// Load builds the config from an optional TOML file with CARDGATE_*
// environment variables layered on top. path may be empty; a missing
// file is not an error, a malformed one is.
func Load(path string) (Config, error) {
	cfg := defaults()

	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// fall through to env
		case err != nil:
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := toml.Unmarshal(b, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	applyEnv(&cfg)

	cfg.Env = strings.ToLower(strings.TrimSpace(cfg.Env))
	if cfg.Env != "dev" && cfg.Env != "prod" {
		// fail-soft: treat unknown as dev
		cfg.Env = "dev"
	}

	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.HTTPAddr = getenvDefault("CARDGATE_HTTP_ADDR", cfg.HTTPAddr)
	cfg.Env = getenvDefault("CARDGATE_ENV", cfg.Env)
	cfg.DBPath = getenvDefault("CARDGATE_DB_PATH", cfg.DBPath)
	cfg.APIKey = getenvDefault("CARDGATE_API_KEY", cfg.APIKey)
	cfg.ResponseDialect = getenvDefault("CARDGATE_RESPONSE_DIALECT", cfg.ResponseDialect)

	if v := strings.TrimSpace(os.Getenv("CARDGATE_AUTO_PROVISION_DEVICES")); v != "" {
		cfg.AutoProvisionDevices = strings.EqualFold(v, "true") || v == "1"
	}

	cfg.LookupTimeoutSeconds = getenvInt("CARDGATE_LOOKUP_TIMEOUT_SECONDS", cfg.LookupTimeoutSeconds)
	cfg.LivenessRetentionDays = getenvInt("CARDGATE_LIVENESS_RETENTION_DAYS", cfg.LivenessRetentionDays)
	cfg.PruneIntervalHours = getenvInt("CARDGATE_PRUNE_INTERVAL_HOURS", cfg.PruneIntervalHours)
}

func getenvDefault(key, def string) string {
	v := os.Getenv(key)
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func getenvInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def
	}
	return n
}
