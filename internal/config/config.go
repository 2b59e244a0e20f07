// Package config loads and validates analysis settings from YAML.
package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"bankroll-lab/internal/domain"
	"bankroll-lab/internal/logging"
)

// Settings is the full settings.yaml schema.
type Settings struct {
	Logging    logging.Config     `yaml:"logging"`
	Simulation SimulationSettings `yaml:"simulation"`
	Bootstrap  BootstrapSettings  `yaml:"bootstrap"`
}

// SimulationSettings mirrors the simulation block of settings.yaml.
type SimulationSettings struct {
	NSimulations       int       `yaml:"n_simulations"`
	TimeHorizons       []int     `yaml:"time_horizons"`
	CurrentBankrollBB  float64   `yaml:"current_bankroll_bb"`
	RiskTolerance      float64   `yaml:"risk_tolerance"`
	DrawdownThresholds []float64 `yaml:"drawdown_thresholds"`
	Seed               uint64    `yaml:"seed"`
}

// BootstrapSettings mirrors the bootstrap block of settings.yaml.
type BootstrapSettings struct {
	Trials int `yaml:"trials"`
}

// Default returns the settings used when no settings.yaml exists.
func Default() *Settings {
	return &Settings{
		Logging: logging.Config{Level: "info", Format: "console"},
		Simulation: SimulationSettings{
			NSimulations:       10000,
			TimeHorizons:       []int{500, 1000, 2500, 5000, 10000},
			CurrentBankrollBB:  5000,
			RiskTolerance:      0.05,
			DrawdownThresholds: []float64{10, 20, 30, 50},
			Seed:               42,
		},
		Bootstrap: BootstrapSettings{Trials: 1000},
	}
}

// Load reads and validates settings from a YAML file. Unknown fields are
// rejected so a typoed option fails loudly instead of silently falling
// back to a default.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read settings file: %w", err)
	}

	var s Settings
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("parse settings file %s: %w", path, err)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks every field against its valid domain before any
// pipeline work begins.
func (s *Settings) Validate() error {
	if s.Bootstrap.Trials < 1 {
		return fmt.Errorf("%w: bootstrap trials must be >= 1, got %d",
			domain.ErrInvalidConfig, s.Bootstrap.Trials)
	}
	return s.SimulationConfig().Validate()
}

// SimulationConfig converts the simulation block into the core config record.
func (s *Settings) SimulationConfig() *domain.SimulationConfig {
	return &domain.SimulationConfig{
		NSimulations:       s.Simulation.NSimulations,
		TimeHorizons:       s.Simulation.TimeHorizons,
		CurrentBankrollBB:  s.Simulation.CurrentBankrollBB,
		DrawdownThresholds: s.Simulation.DrawdownThresholds,
		RiskTolerance:      s.Simulation.RiskTolerance,
		Seed:               s.Simulation.Seed,
	}
}
