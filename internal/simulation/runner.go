package simulation

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"bankroll-lab/internal/domain"
	"bankroll-lab/internal/observability"
	"bankroll-lab/internal/storage"
)

// Runner drives Monte Carlo batches across every estimated stake and
// configured horizon.
type Runner struct {
	store   storage.SimulationResultStore // optional, nil disables persistence
	metrics *observability.Metrics        // optional, nil disables metrics
	logger  zerolog.Logger
}

// NewRunner creates a simulation runner. store and metrics may be nil.
func NewRunner(store storage.SimulationResultStore, metrics *observability.Metrics, logger zerolog.Logger) *Runner {
	return &Runner{
		store:   store,
		metrics: metrics,
		logger:  logger.With().Str("component", "simulation").Logger(),
	}
}

// Run simulates every estimate at every configured horizon and returns one
// result per stake, in the order of the input estimates.
//
// Every Simulate call reuses cfg.Seed, so each stake/horizon batch is an
// independent resimulation from the same stream start; results for a given
// config and estimate set are fully reproducible.
//
// Estimates with non-finite mu or variance cannot parameterize a normal
// walk and are skipped with a warning rather than failing the run.
func (r *Runner) Run(ctx context.Context, estimates []*domain.StakeEstimate, cfg *domain.SimulationConfig) ([]*domain.SimulationResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	results := make([]*domain.SimulationResult, 0, len(estimates))

	for _, e := range estimates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if !isFinite(e.MuBBPerHand) || !isFinite(e.Sigma2BB) {
			r.logger.Warn().
				Str("stake", e.StakeID).
				Float64("mu", e.MuBBPerHand).
				Float64("sigma2", e.Sigma2BB).
				Msg("skipping stake with non-finite parameters")
			observability.RecordStakeExcluded("simulate", "non_finite_params")
			continue
		}

		result := r.simulateStake(e, cfg)
		results = append(results, result)

		if r.store != nil {
			if err := r.store.Insert(ctx, result); err != nil {
				return nil, fmt.Errorf("store simulation result for stake %s: %w", e.StakeID, err)
			}
		}
	}

	return results, nil
}

func (r *Runner) simulateStake(e *domain.StakeEstimate, cfg *domain.SimulationConfig) *domain.SimulationResult {
	sigma := math.Sqrt(e.Sigma2BB)

	result := &domain.SimulationResult{
		StakeID:  e.StakeID,
		Mu:       e.MuBBPerHand,
		Sigma:    sigma,
		Sigma2:   e.Sigma2BB,
		Horizons: make(map[int]domain.HorizonMetrics, len(cfg.TimeHorizons)),
	}

	for _, horizon := range cfg.TimeHorizons {
		start := time.Now()

		stats := Simulate(Params{
			Mu:                 e.MuBBPerHand,
			Sigma:              sigma,
			InitialBankroll:    cfg.CurrentBankrollBB,
			NHands:             horizon,
			NTrials:            cfg.NSimulations,
			DrawdownThresholds: cfg.DrawdownThresholds,
			Seed:               cfg.Seed,
		})

		result.Horizons[horizon] = domain.HorizonMetrics{
			RiskOfRuin: stats.RiskOfRuin,
			FinalMean:  stats.FinalMean,
			FinalStd:   stats.FinalStd,
			FinalP10:   stats.FinalP10,
			FinalP90:   stats.FinalP90,
			Drawdowns:  stats.Drawdowns,
		}

		if r.metrics != nil {
			r.metrics.SimulateDuration.Observe(time.Since(start).Seconds())
			r.metrics.TrialsSimulated.Add(float64(cfg.NSimulations))
		}

		r.logger.Debug().
			Str("stake", e.StakeID).
			Int("horizon", horizon).
			Float64("risk_of_ruin", stats.RiskOfRuin).
			Float64("final_mean", stats.FinalMean).
			Msg("horizon simulated")
	}

	return result
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
