package estimation

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"bankroll-lab/internal/domain"
)

// Kelly and bankroll-requirement bounds for live no-limit games.
const (
	maxKellyFraction = 0.25

	minRequiredBankrollBB     = 1000
	maxRequiredBankrollBB     = 10000
	defaultRequiredBankrollBB = 5000 // break-even or losing parameters
)

// KellyFraction computes the optimal bet-sizing ratio mu / sigma^2 for
// normally distributed returns, clamped to [0, maxKellyFraction].
// A zero sigma means no basis for sizing and yields 0.
func KellyFraction(mu, sigma float64) float64 {
	if sigma == 0 {
		return 0
	}
	f := mu / (sigma * sigma)
	if f < 0 {
		return 0
	}
	if f > maxKellyFraction {
		return maxKellyFraction
	}
	return f
}

// SharpeRatio is the per-hand return over volatility. Returns NaN when
// sigma is zero, matching an undefined ratio rather than inventing one.
func SharpeRatio(mu, sigma float64) float64 {
	if sigma == 0 {
		return math.NaN()
	}
	return mu / sigma
}

// RequiredBankrollBB approximates the bankroll needed to hold risk of
// ruin at riskTolerance: (z * sigma / mu)^2, clamped to
// [minRequiredBankrollBB, maxRequiredBankrollBB]. Non-winning parameters
// get the conservative default.
func RequiredBankrollBB(mu, sigma, riskTolerance float64) float64 {
	if mu <= 0 || sigma <= 0 {
		return defaultRequiredBankrollBB
	}

	z := math.Abs(distuv.UnitNormal.Quantile(riskTolerance))
	required := math.Pow(z*sigma/mu, 2)

	if required > maxRequiredBankrollBB {
		return maxRequiredBankrollBB
	}
	if required < minRequiredBankrollBB {
		return minRequiredBankrollBB
	}
	return required
}

// ApplyRiskMetrics fills the Sharpe, Kelly, and required-bankroll fields
// of each estimate in place.
func ApplyRiskMetrics(estimates []*domain.StakeEstimate, riskTolerance float64) {
	for _, e := range estimates {
		sigma := math.Sqrt(e.Sigma2BB)
		e.SharpeRatio = SharpeRatio(e.MuBBPerHand, sigma)
		e.KellyFraction = KellyFraction(e.MuBBPerHand, sigma)
		e.RequiredBankrollBB = RequiredBankrollBB(e.MuBBPerHand, sigma, riskTolerance)
	}
}
