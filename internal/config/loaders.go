package config

import (
	"sinkbridge/bridge"
	kcfg "sinkbridge/source/kafka"
)

// LoadKafkaConfig delegates to the Kafka source loader while centralizing
// loader entrypoints under internal/config.
func LoadKafkaConfig(path string) (kcfg.Config, error) {
	return kcfg.LoadConfig(path)
}

// LoadBridgeConfig delegates to the bridge's own loader.
func LoadBridgeConfig(path string) (bridge.Config, error) {
	return bridge.LoadConfig(path)
}
