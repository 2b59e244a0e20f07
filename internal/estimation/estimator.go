// Package estimation derives per-stake win rate and variance parameters
// from enriched session samples.
package estimation

import (
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"bankroll-lab/internal/domain"
)

const (
	// MinSessionsEstimate is the minimum session count for a stake to be
	// estimated at all. Below it the stake is silently excluded.
	MinSessionsEstimate = 3

	// MinSessionsBootstrap is the minimum session count for the bootstrap
	// resampler. Below it the stake produces no bootstrap entry.
	MinSessionsBootstrap = 5

	confidenceLevel = 0.95
)

// Estimate computes per-stake mean, Bessel-corrected sample variance, and
// two-sided 95% Student-t confidence intervals for bb-per-hand and
// usd-per-hand outcomes. Stakes with fewer than MinSessionsEstimate
// samples are excluded.
//
// The variance fed downstream is the unbiased sample estimate (n-1
// denominator); the simulator takes its sigma from this value. Output
// order is the first-occurrence order of stakes in the input; downstream
// consumers sort independently.
//
// Pure function of its input; the input samples are never mutated.
func Estimate(samples []*domain.SessionSample) []*domain.StakeEstimate {
	groups, order := groupByStake(samples)

	estimates := make([]*domain.StakeEstimate, 0, len(order))
	for _, stakeID := range order {
		group := groups[stakeID]
		if len(group) < MinSessionsEstimate {
			continue
		}
		estimates = append(estimates, estimateStake(stakeID, group))
	}
	return estimates
}

func estimateStake(stakeID string, group []*domain.SessionSample) *domain.StakeEstimate {
	n := len(group)

	bbPerHand := make([]float64, n)
	usdPerHand := make([]float64, n)
	var totalHands int
	var totalHours, totalBB, totalUSD, handsPerHourSum float64
	for i, s := range group {
		bbPerHand[i] = s.BBPerHand
		usdPerHand[i] = s.USDPerHand
		totalHands += s.HandsPlayed
		totalHours += s.HoursPlayed
		totalBB += s.BBPerSession
		totalUSD += s.NetResultUSD
		handsPerHourSum += s.HandsPerHour
	}

	muBB := stat.Mean(bbPerHand, nil)
	muUSD := stat.Mean(usdPerHand, nil)
	sigma2BB := stat.Variance(bbPerHand, nil)
	sigma2USD := stat.Variance(usdPerHand, nil)

	tCrit := tCritical(n)
	avgHandsPerHour := handsPerHourSum / float64(n)

	return &domain.StakeEstimate{
		StakeID:         stakeID,
		NSessions:       n,
		TotalHands:      totalHands,
		TotalHours:      totalHours,
		AvgSessionHours: totalHours / float64(n),

		MuBBPerHand:  muBB,
		MuBBCI:       meanCI(muBB, sigma2BB, n, tCrit),
		MuUSDPerHand: muUSD,
		MuUSDCI:      meanCI(muUSD, sigma2USD, n, tCrit),

		Sigma2BB:  sigma2BB,
		Sigma2USD: sigma2USD,

		BBPerHour:     muBB * avgHandsPerHour,
		HourlyRateUSD: muUSD * avgHandsPerHour,

		TotalBBWon:  totalBB,
		TotalUSDWon: totalUSD,
	}
}

// tCritical returns the two-sided critical value of the Student-t
// distribution with n-1 degrees of freedom at the 95% confidence level.
func tCritical(n int) float64 {
	t := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(n - 1)}
	return t.Quantile((1 + confidenceLevel) / 2)
}

// meanCI builds the two-sided interval mu ± t * s / sqrt(n). A zero
// sample variance yields a zero-width interval, which is valid.
func meanCI(mu, sigma2 float64, n int, tCrit float64) domain.CI {
	se := math.Sqrt(sigma2) / math.Sqrt(float64(n))
	return domain.CI{
		Lower: mu - tCrit*se,
		Upper: mu + tCrit*se,
	}
}

// groupByStake buckets samples by stake, recording first-occurrence order.
func groupByStake(samples []*domain.SessionSample) (map[string][]*domain.SessionSample, []string) {
	groups := make(map[string][]*domain.SessionSample)
	var order []string
	for _, s := range samples {
		if _, seen := groups[s.StakeID]; !seen {
			order = append(order, s.StakeID)
		}
		groups[s.StakeID] = append(groups[s.StakeID], s)
	}
	return groups, order
}
