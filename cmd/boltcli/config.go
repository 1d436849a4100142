package main

import (
	"os"

	"gopkg.in/yaml.v3"
)

// cliConfig is the on-disk YAML shape boltcli reads its connection and
// translator settings from.
type cliConfig struct {
	// DSN is a "bolt://[user:pass@]host:port" connection string.
	DSN string `yaml:"dsn"`
	// Translator holds s2c.*-prefixed keys, passed verbatim to
	// cypher.ConfigFrom.
	Translator map[string]string `yaml:"translator"`
}

func loadCLIConfig(path string) (cliConfig, error) {
	var cfg cliConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
