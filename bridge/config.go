package bridge

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config is the bridge's own configuration surface. ConnectorProps is
// passed through to the connector untouched.
type Config struct {
	Connector      string            `koanf:"connector"`
	ConnectorProps map[string]string `koanf:"connector_props"`

	Topic          string `koanf:"topic"`
	UnwrapKeyValue bool   `koanf:"unwrap_key_value"`

	MaxBatchSize int64         `koanf:"max_batch_size"` // bytes, accumulated per-record
	LingerTime   time.Duration `koanf:"linger_time"`

	OffsetStorageTopic string `koanf:"offset_storage_topic"`
	ServiceURL         string `koanf:"service_url"`
}

// ---------------------------------------------------------------------------
// Loader
// ---------------------------------------------------------------------------

// LoadConfig merges YAML (if present) with env-vars
// (prefix `SINKBRIDGE__`, delimiter `__`).
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
		return Config{}, fmt.Errorf("bridge schema_version %q not supported (want v1)", sv)
	}

	_ = k.Load(env.Provider("SINKBRIDGE__", "__", nil), nil)

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, err
	}
	applyDefaults(&cfg)
	return cfg, nil
}

// ---------------------------------------------------------------------------
// defaults
// ---------------------------------------------------------------------------

func applyDefaults(c *Config) {
	if c.MaxBatchSize == 0 {
		c.MaxBatchSize = 16 * 1024
	}
	if c.LingerTime == 0 {
		c.LingerTime = 2 * time.Second
	}
}
