// Package config loads the YAML scenario configuration that parametrizes
// an aodvsim run: topology generation and the scenario driver's per-step
// trial probabilities.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kprusa/aodvsim/network"
	"github.com/kprusa/aodvsim/scenario"
)

// Config is the fully-resolved, defaulted configuration for one run.
type Config struct {
	Topology network.RandomTopologyConfig
	Scenario scenario.Config
	Metrics  MetricsConfig
}

// MetricsConfig controls the optional Prometheus /metrics endpoint.
type MetricsConfig struct {
	Addr string
}

// Default returns the zero-file configuration: the same defaults Load
// applies to a YAML document with every field omitted.
func Default() *Config {
	return &Config{
		Topology: network.RandomTopologyConfig{
			N: 20, AreaSize: 10, RangeMin: 1.5, RangeMax: 3.0,
		},
		Scenario: scenario.Config{
			Steps: 20, PRequest: 0.5, PFail: 0.1, PNew: 0.1,
		},
	}
}

// Load reads filename as YAML and returns a defaulted Config.
func Load(filename string) (*Config, error) {
	type yamlConfig struct {
		Topology struct {
			Nodes    int     `yaml:"nodes"`
			Seed     int64   `yaml:"seed"`
			AreaSize float64 `yaml:"area_size"`
			RangeMin float64 `yaml:"range_min"`
			RangeMax float64 `yaml:"range_max"`
		} `yaml:"topology"`
		Scenario struct {
			Steps    int     `yaml:"steps"`
			PRequest float64 `yaml:"p_request"`
			PFail    float64 `yaml:"p_fail"`
			PNew     float64 `yaml:"p_new"`
		} `yaml:"scenario"`
		Metrics struct {
			Addr string `yaml:"addr"`
		} `yaml:"metrics"`
	}

	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("config: failed to open %s: %w", filename, err)
	}
	defer file.Close()

	var y yamlConfig
	if err := yaml.NewDecoder(file).Decode(&y); err != nil {
		return nil, fmt.Errorf("config: failed to decode %s: %w", filename, err)
	}

	// Defaults, applied to whatever the file left at its zero value.
	if y.Topology.Nodes == 0 {
		y.Topology.Nodes = 20
	}
	if y.Topology.AreaSize == 0 {
		y.Topology.AreaSize = 10
	}
	if y.Topology.RangeMin == 0 {
		y.Topology.RangeMin = 1.5
	}
	if y.Topology.RangeMax == 0 {
		y.Topology.RangeMax = 3.0
	}
	if y.Scenario.Steps == 0 {
		y.Scenario.Steps = 20
	}
	if y.Scenario.PRequest == 0 {
		y.Scenario.PRequest = 0.5
	}
	if y.Scenario.PFail == 0 {
		y.Scenario.PFail = 0.1
	}
	if y.Scenario.PNew == 0 {
		y.Scenario.PNew = 0.1
	}

	cfg := &Config{
		Topology: network.RandomTopologyConfig{
			N:        y.Topology.Nodes,
			Seed:     y.Topology.Seed,
			AreaSize: y.Topology.AreaSize,
			RangeMin: y.Topology.RangeMin,
			RangeMax: y.Topology.RangeMax,
		},
		Scenario: scenario.Config{
			Steps:    y.Scenario.Steps,
			PRequest: y.Scenario.PRequest,
			PFail:    y.Scenario.PFail,
			PNew:     y.Scenario.PNew,
		},
		Metrics: MetricsConfig{Addr: y.Metrics.Addr},
	}
	return cfg, nil
}
