package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"sinkbridge/internal/spec"
)

const SupportedSchema = "v1"

// LoadBridgeSpec parses a bridge YAML, validates schema_version, and
// returns the parsed spec plus absolute paths to the source and bridge
// config files (if set).
func LoadBridgeSpec(path string) (spec.File, string, string, error) {
	var cfg spec.File
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, "", "", err
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, "", "", err
	}
	if cfg.SchemaVersion == "" {
		cfg.SchemaVersion = SupportedSchema
	}
	if cfg.SchemaVersion != SupportedSchema {
		return cfg, "", "", fmt.Errorf("bridge schema_version %q not supported (want %q)", cfg.SchemaVersion, SupportedSchema)
	}
	srcPath := absolutize(path, cfg.Source.Config)
	bridgePath := absolutize(path, cfg.Bridge.Config)
	return cfg, srcPath, bridgePath, nil
}

func absolutize(specPath, confPath string) string {
	if confPath == "" || filepath.IsAbs(confPath) {
		return confPath
	}
	return filepath.Join(filepath.Dir(specPath), confPath)
}
