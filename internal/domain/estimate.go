package domain

// CI is a two-sided confidence interval around a point estimate.
type CI struct {
	Lower float64
	Upper float64
}

// Width returns the interval width.
func (c CI) Width() float64 {
	return c.Upper - c.Lower
}

// StakeEstimate holds per-stake win rate and variance estimates derived
// from session samples. Built once per estimation run, never mutated.
type StakeEstimate struct {
	StakeID         string
	NSessions       int // always >= 3
	TotalHands      int
	TotalHours      float64
	AvgSessionHours float64

	// Win rate estimates (mu), per hand, with Student-t 95% intervals
	MuBBPerHand  float64
	MuBBCI       CI
	MuUSDPerHand float64
	MuUSDCI      CI

	// Variance estimates (sigma^2), per hand, Bessel-corrected
	Sigma2BB  float64
	Sigma2USD float64

	// Derived rates
	BBPerHour     float64
	HourlyRateUSD float64

	// Totals
	TotalBBWon  float64
	TotalUSDWon float64

	// Risk metrics, filled by ApplyRiskMetrics after estimation
	SharpeRatio        float64
	KellyFraction      float64
	RequiredBankrollBB float64
}

// BootstrapEstimate is the resampled distribution of a stake's mean
// bb-per-hand outcome.
type BootstrapEstimate struct {
	StakeID   string
	NSessions int // always >= 5
	Trials    int

	Mean float64
	Std  float64
	CI95 CI // 2.5 / 97.5 percentiles of the bootstrap means
	CI80 CI // 10 / 90 percentiles
}
