// Package simulation runs Monte Carlo bankroll random walks and derives
// ruin, drawdown, and terminal-distribution statistics from them.
package simulation

import (
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// ruinThreshold is the bankroll level considered ruin. A path counts as
// ruined when its running minimum reaches this level; the walk itself is
// never clamped and may go arbitrarily negative.
const ruinThreshold = 0.0

// Params are the scalar inputs of one Monte Carlo batch.
type Params struct {
	Mu              float64 // expected return per hand, in BB
	Sigma           float64 // standard deviation per hand, in BB
	InitialBankroll float64 // starting bankroll, in BB
	NHands          int     // horizon length
	NTrials         int     // independent paths

	// DrawdownThresholds are the peak-to-trough levels to measure, in BB.
	DrawdownThresholds []float64

	// Seed fully determines the batch. Identical Params give bit-identical
	// PathStats; callers in one run pass the same seed to every call, so
	// different horizons are independent resimulations rather than nested
	// sub-paths of each other.
	Seed uint64
}

// PathStats are the aggregate statistics of one batch. The underlying
// paths are never retained.
type PathStats struct {
	RiskOfRuin float64

	// Drawdown threshold -> P(max drawdown >= threshold)
	Drawdowns map[float64]float64

	// Terminal bankroll distribution across trials
	FinalMean float64
	FinalStd  float64 // population standard deviation
	FinalP10  float64
	FinalP90  float64
}

// Simulate generates NTrials independent random walks of NHands
// Normal(Mu, Sigma) increments on top of InitialBankroll and aggregates
// them into PathStats. Each path is streamed: the running minimum, running
// peak, and maximum drawdown are folded hand by hand, so memory stays
// O(NTrials) regardless of horizon.
//
// Sigma == 0 degenerates every trial to the same deterministic line
// InitialBankroll + Mu*t; no special casing is needed because a
// zero-scale normal draw is exactly Mu.
func Simulate(p Params) PathStats {
	rng := rand.New(rand.NewPCG(p.Seed, p.Seed))

	finals := make([]float64, p.NTrials)
	ruined := 0
	ddCounts := make([]int, len(p.DrawdownThresholds))

	for trial := 0; trial < p.NTrials; trial++ {
		bankroll := p.InitialBankroll
		minBankroll := bankroll
		peak := bankroll
		maxDrawdown := 0.0

		for hand := 0; hand < p.NHands; hand++ {
			bankroll += rng.NormFloat64()*p.Sigma + p.Mu

			if bankroll < minBankroll {
				minBankroll = bankroll
			}
			if bankroll > peak {
				peak = bankroll
			}
			if dd := peak - bankroll; dd > maxDrawdown {
				maxDrawdown = dd
			}
		}

		finals[trial] = bankroll
		if minBankroll <= ruinThreshold {
			ruined++
		}
		for i, threshold := range p.DrawdownThresholds {
			if maxDrawdown >= threshold {
				ddCounts[i]++
			}
		}
	}

	trials := float64(p.NTrials)

	drawdowns := make(map[float64]float64, len(p.DrawdownThresholds))
	for i, threshold := range p.DrawdownThresholds {
		drawdowns[threshold] = float64(ddCounts[i]) / trials
	}

	sorted := make([]float64, p.NTrials)
	copy(sorted, finals)
	sort.Float64s(sorted)

	return PathStats{
		RiskOfRuin: float64(ruined) / trials,
		Drawdowns:  drawdowns,
		FinalMean:  stat.Mean(finals, nil),
		FinalStd:   stat.PopStdDev(finals, nil),
		FinalP10:   percentile(sorted, 0.10),
		FinalP90:   percentile(sorted, 0.90),
	}
}

// percentile uses linear interpolation between order statistics.
// sorted must be pre-sorted ASC.
func percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return sorted[0]
	}

	idx := p * float64(n-1)
	lower := int(idx)
	upper := lower + 1
	if upper >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lower)
	return sorted[lower] + frac*(sorted[upper]-sorted[lower])
}
