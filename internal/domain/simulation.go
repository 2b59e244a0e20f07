package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig wraps all simulation configuration validation failures.
var ErrInvalidConfig = errors.New("invalid simulation config")

// SimulationConfig holds the scalar inputs shared by every Monte Carlo
// batch. Validate must pass before any simulation work begins.
type SimulationConfig struct {
	NSimulations       int       // trial count per stake/horizon pair
	TimeHorizons       []int     // hand counts, each > 0
	CurrentBankrollBB  float64   // common starting bankroll, > 0
	DrawdownThresholds []float64 // bankroll units, each >= 0
	RiskTolerance      float64   // acceptable risk of ruin, in (0, 1)
	Seed               uint64    // shared by every simulate and bootstrap call
}

// Validate checks every field against its valid domain. A partially valid
// config would silently produce meaningless statistics, so the first
// violation fails the whole run.
func (c *SimulationConfig) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}
	if c.NSimulations < 1 {
		return fmt.Errorf("%w: n_simulations must be >= 1, got %d", ErrInvalidConfig, c.NSimulations)
	}
	if len(c.TimeHorizons) == 0 {
		return fmt.Errorf("%w: time_horizons must not be empty", ErrInvalidConfig)
	}
	for _, h := range c.TimeHorizons {
		if h < 1 {
			return fmt.Errorf("%w: time horizon must be >= 1, got %d", ErrInvalidConfig, h)
		}
	}
	if c.CurrentBankrollBB <= 0 {
		return fmt.Errorf("%w: current_bankroll_bb must be > 0, got %g", ErrInvalidConfig, c.CurrentBankrollBB)
	}
	for _, t := range c.DrawdownThresholds {
		if t < 0 {
			return fmt.Errorf("%w: drawdown threshold must be >= 0, got %g", ErrInvalidConfig, t)
		}
	}
	if c.RiskTolerance <= 0 || c.RiskTolerance >= 1 {
		return fmt.Errorf("%w: risk_tolerance must be in (0, 1), got %g", ErrInvalidConfig, c.RiskTolerance)
	}
	return nil
}

// MaxHorizon returns the largest configured time horizon.
func (c *SimulationConfig) MaxHorizon() int {
	max := 0
	for _, h := range c.TimeHorizons {
		if h > max {
			max = h
		}
	}
	return max
}

// HorizonMetrics holds the risk figures for one stake at one horizon.
type HorizonMetrics struct {
	RiskOfRuin float64 // P(min bankroll over the path <= 0)

	// Terminal bankroll distribution across trials
	FinalMean float64
	FinalStd  float64 // population standard deviation
	FinalP10  float64
	FinalP90  float64

	// Drawdown threshold -> P(max peak-to-trough drop >= threshold)
	Drawdowns map[float64]float64
}

// SimulationResult is one row per stake: the simulation parameters and a
// metrics record per configured horizon.
type SimulationResult struct {
	StakeID string
	Mu      float64
	Sigma   float64
	Sigma2  float64

	Horizons map[int]HorizonMetrics
}
