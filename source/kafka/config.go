package kafka

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"sinkbridge/bridge"
)

type Config struct {
	Brokers   []string `koanf:"brokers"`
	Topics    []string `koanf:"topics"`
	GroupID   string   `koanf:"group_id"`
	StartFrom string   `koanf:"start_from"` // oldest|newest (default newest)
	Version   string   `koanf:"version"`
	TLSEn     bool     `koanf:"tls_enabled"`
	SASLUser  string   `koanf:"sasl_user"`
	SASLPass  string   `koanf:"sasl_pass"`

	// Subscription is the delivery model the driver claims:
	// exclusive|failover|shared. The bridge only accepts the first two.
	Subscription string `koanf:"subscription"`

	// RawKey treats message keys as raw bytes instead of UTF-8 strings.
	RawKey bool `koanf:"raw_key"`

	// MaxInFlight caps records emitted but not yet acked or failed.
	MaxInFlight int64 `koanf:"max_in_flight"`
}

// ---------------------------------------------------------------------------
// Loader
// ---------------------------------------------------------------------------

// LoadConfig merges YAML (if present) with env-vars
// (prefix `SINKBRIDGE_SOURCE__`, delimiter `__`).
func LoadConfig(path string) (Config, error) {
	k := koanf.New(".")
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil &&
			!errors.Is(err, fs.ErrNotExist) {
			return Config{}, err
		}
	}
	// schema version check (only when YAML is present)
	sv := k.String("schema_version")
	if sv != "" && sv != "v1" {
		return Config{}, fmt.Errorf("kafka schema_version %q not supported (want v1)", sv)
	}

	_ = k.Load(env.Provider("SINKBRIDGE_SOURCE__", "__", nil), nil)

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, err
	}
	applyDefaults(&cfg)
	return cfg, nil
}

// SubscriptionType maps the configured subscription name to the bridge's
// enum; unknown names fall through to shared, which the bridge rejects.
func (c Config) SubscriptionType() bridge.SubscriptionType {
	switch c.Subscription {
	case "exclusive":
		return bridge.SubscriptionExclusive
	case "failover":
		return bridge.SubscriptionFailover
	default:
		return bridge.SubscriptionShared
	}
}

// ---------------------------------------------------------------------------
// defaults
// ---------------------------------------------------------------------------

func applyDefaults(c *Config) {
	if c.StartFrom == "" {
		c.StartFrom = "newest"
	}
	if c.Subscription == "" {
		c.Subscription = "failover"
	}
	if c.MaxInFlight == 0 {
		c.MaxInFlight = 30_000
	}
}
