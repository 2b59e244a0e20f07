package estimation

import (
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/stat"

	"bankroll-lab/internal/domain"
)

// Bootstrap re-estimates the sampling distribution of each stake's mean
// bb-per-hand outcome by resampling with replacement. It gives more
// robust intervals than the t-approximation when session counts are small.
//
// Stakes with fewer than MinSessionsBootstrap samples produce no entry.
// One generator seeded once drives the whole run and stakes are processed
// in first-occurrence order, so identical input reproduces identical
// output bit for bit.
func Bootstrap(samples []*domain.SessionSample, trials int, seed uint64) []*domain.BootstrapEstimate {
	groups, order := groupByStake(samples)
	rng := rand.New(rand.NewPCG(seed, seed))

	results := make([]*domain.BootstrapEstimate, 0, len(order))
	for _, stakeID := range order {
		group := groups[stakeID]
		if len(group) < MinSessionsBootstrap {
			continue
		}

		values := make([]float64, len(group))
		for i, s := range group {
			values[i] = s.BBPerHand
		}

		results = append(results, bootstrapStake(stakeID, values, trials, rng))
	}
	return results
}

func bootstrapStake(stakeID string, values []float64, trials int, rng *rand.Rand) *domain.BootstrapEstimate {
	n := len(values)

	means := make([]float64, trials)
	for t := 0; t < trials; t++ {
		sum := 0.0
		for i := 0; i < n; i++ {
			sum += values[rng.IntN(n)]
		}
		means[t] = sum / float64(n)
	}

	sorted := make([]float64, trials)
	copy(sorted, means)
	sort.Float64s(sorted)

	return &domain.BootstrapEstimate{
		StakeID:   stakeID,
		NSessions: n,
		Trials:    trials,
		Mean:      stat.Mean(means, nil),
		Std:       stat.PopStdDev(means, nil),
		CI95: domain.CI{
			Lower: percentile(sorted, 0.025),
			Upper: percentile(sorted, 0.975),
		},
		CI80: domain.CI{
			Lower: percentile(sorted, 0.10),
			Upper: percentile(sorted, 0.90),
		},
	}
}

// percentile uses linear interpolation between order statistics.
// sorted must be pre-sorted ASC. p is a fraction (0.10 = 10th percentile).
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
