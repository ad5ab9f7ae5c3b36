// Package config holds the collaborator-facing configuration object: the
// preferences the voucher-entry surface needs but the posting engine itself
// does not depend on.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the top-level bookledger.yaml configuration.
type Config struct {
	// PartyMasterType is the account group whose members populate the
	// party picker on item vouchers (e.g. "Sundry Debtors"). A value saved
	// in the database settings store takes precedence.
	PartyMasterType string `yaml:"party_master_type"`

	// ExcludeGroups lists account groups hidden from ledger-line pickers.
	ExcludeGroups []string `yaml:"exclude_groups,omitempty"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		PartyMasterType: "Sundry Debtors",
	}
}

// Load reads a bookledger.yaml file from disk. A missing file is not an
// error: defaults are returned.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.PartyMasterType == "" {
		cfg.PartyMasterType = Default().PartyMasterType
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
