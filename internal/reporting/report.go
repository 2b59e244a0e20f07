// Package reporting assembles analysis output into a report and renders
// it as Markdown and CSV files.
package reporting

import (
	"time"

	"bankroll-lab/internal/domain"
)

// DataSummary describes the session data a report was built from.
type DataSummary struct {
	TotalSessions int
	TotalHands    int
	TotalHours    float64
	NetResultUSD  float64
	DateFrom      string // ISO date of the earliest session
	DateTo        string // ISO date of the latest session
	StakeCount    int
}

// Report is the complete output of one analysis run.
type Report struct {
	GeneratedAt time.Time

	DataSummary     DataSummary
	Estimates       []*domain.StakeEstimate
	Bootstrap       []*domain.BootstrapEstimate
	Simulations     []*domain.SimulationResult
	Recommendations []*domain.Recommendation

	// Column layout for simulation CSV output; taken from the run config
	// so file columns follow configured order, not map iteration order.
	TimeHorizons       []int
	DrawdownThresholds []float64
}
