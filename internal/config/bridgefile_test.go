package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadBridgeSpec(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bridge.yml")
	body := `
schema_version: v1
source:
  kind: kafka
  driver: sarama
  config: source.yml
bridge:
  config: /etc/sinkbridge/bridge-core.yml
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	file, srcPath, bridgePath, err := LoadBridgeSpec(path)
	if err != nil {
		t.Fatalf("LoadBridgeSpec: %v", err)
	}
	if file.Source.Kind != "kafka" || file.Source.Driver != "sarama" {
		t.Fatalf("source = %+v", file.Source)
	}
	if srcPath != filepath.Join(dir, "source.yml") {
		t.Fatalf("relative source config not resolved: %s", srcPath)
	}
	if bridgePath != "/etc/sinkbridge/bridge-core.yml" {
		t.Fatalf("absolute bridge config changed: %s", bridgePath)
	}
}

func TestLoadBridgeSpec_BadSchemaVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bridge.yml")
	if err := os.WriteFile(path, []byte("schema_version: v2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, _, err := LoadBridgeSpec(path); err == nil {
		t.Fatal("expected schema_version error")
	}
}

func TestLoadBridgeSpec_DefaultsSchemaVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bridge.yml")
	if err := os.WriteFile(path, []byte("source:\n  kind: kafka\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	file, _, _, err := LoadBridgeSpec(path)
	if err != nil {
		t.Fatalf("LoadBridgeSpec: %v", err)
	}
	if file.SchemaVersion != SupportedSchema {
		t.Fatalf("schema version = %q, want %q", file.SchemaVersion, SupportedSchema)
	}
}
