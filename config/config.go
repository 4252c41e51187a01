// Package config holds the run configuration consumed by the
// aggregation pipeline. Values come from an optional YAML file with CLI
// flags layered on top.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"wordfreq/codec"
	"wordfreq/scan"
)

// Strategy selects how workers cooperate.
type Strategy string

const (
	// StrategyShared runs a pool of workers merging private maps into
	// one shared global map under mutual exclusion.
	StrategyShared Strategy = "shared"
	// StrategyDistributed runs workers with no shared memory; each
	// sends its encoded map to a coordinator over the wire.
	StrategyDistributed Strategy = "distributed"
)

// Mode selects between a single counting pass and the benchmark sweep.
type Mode string

const (
	ModeSinglePass Mode = "single-pass"
	ModeBenchmark  Mode = "benchmark-sweep"
)

// Config is the full run configuration.
type Config struct {
	Workers    int      `yaml:"workers"`
	Delimiters string   `yaml:"delimiters"`
	TopN       int      `yaml:"top_n"`
	Strategy   Strategy `yaml:"strategy"`
	Mode       Mode     `yaml:"mode"`
	// MaxPayload bounds one worker's encoded contribution in bytes.
	MaxPayload int  `yaml:"max_payload_bytes"`
	Verbose    bool `yaml:"verbose"`
}

// Default returns the configuration used when nothing is specified.
func Default() Config {
	return Config{
		Workers:    4,
		Delimiters: scan.DefaultDelimiters,
		TopN:       10,
		Strategy:   StrategyShared,
		Mode:       ModeSinglePass,
		MaxPayload: codec.DefaultMaxPayload,
	}
}

// Load reads a YAML config file over the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	if c.TopN < 0 {
		return fmt.Errorf("top_n must not be negative, got %d", c.TopN)
	}
	switch c.Strategy {
	case StrategyShared, StrategyDistributed:
	default:
		return fmt.Errorf("unknown strategy %q", c.Strategy)
	}
	switch c.Mode {
	case ModeSinglePass, ModeBenchmark:
	default:
		return fmt.Errorf("unknown mode %q", c.Mode)
	}
	if c.MaxPayload < 1 {
		return fmt.Errorf("max_payload_bytes must be positive, got %d", c.MaxPayload)
	}
	return nil
}
