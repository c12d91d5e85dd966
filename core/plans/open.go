package plans

import "github.com/kilianp07/evroute/core/model"

// Config selects and configures the history backend.
type Config struct {
	// Backend is "jsonl", "rotating", "sqlite", "postgres" or "none".
	Backend string `json:"backend" yaml:"backend" koanf:"backend"`
	Path    string `json:"path" yaml:"path" koanf:"path"`
	// DSN is the connection string of the postgres backend.
	DSN string `json:"dsn" yaml:"dsn" koanf:"dsn"`
	// Rotation settings, used by the rotating backend only.
	MaxSizeMB  int `json:"max_size_mb" yaml:"max_size_mb" koanf:"max_size_mb"`
	MaxBackups int `json:"max_backups" yaml:"max_backups" koanf:"max_backups"`
	MaxAgeDays int `json:"max_age_days" yaml:"max_age_days" koanf:"max_age_days"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.Backend == "" {
		c.Backend = "jsonl"
	}
	if c.Path == "" && c.Backend != "postgres" {
		switch c.Backend {
		case "sqlite":
			c.Path = "evroute.db"
		default:
			c.Path = "plans.jsonl"
		}
	}
	if c.Backend == "rotating" && c.MaxSizeMB == 0 {
		c.MaxSizeMB = 10
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	switch c.Backend {
	case "none":
		return nil
	case "postgres":
		if c.DSN == "" {
			return model.ConfigErrorf("storage dsn is required for postgres")
		}
		return nil
	case "jsonl", "rotating", "sqlite":
	default:
		return model.ConfigErrorf("unknown storage backend %q", c.Backend)
	}
	if c.Path == "" {
		return model.ConfigErrorf("storage path is required")
	}
	if c.MaxSizeMB < 0 || c.MaxBackups < 0 || c.MaxAgeDays < 0 {
		return model.ConfigErrorf("storage rotation settings must not be negative")
	}
	return nil
}

// Open returns the store selected by cfg, or nil for the "none" backend.
func Open(cfg Config) (Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Backend {
	case "jsonl":
		return NewJSONLStore(cfg.Path)
	case "rotating":
		return NewRotatingJSONLStore(cfg.Path, cfg.MaxSizeMB, cfg.MaxBackups, cfg.MaxAgeDays)
	case "sqlite":
		return NewSQLiteStore(cfg.Path)
	case "postgres":
		return NewPostgresStore(cfg.DSN)
	}
	return nil, nil
}
