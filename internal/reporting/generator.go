package reporting

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"bankroll-lab/internal/domain"
	"bankroll-lab/internal/storage"
)

// Output file names inside the report directory.
const (
	EstimatesFile       = "stake_estimates.csv"
	BootstrapFile       = "bootstrap_estimates.csv"
	SimulationsFile     = "simulation_results.csv"
	RecommendationsFile = "recommendations.csv"
	ReportFile          = "bankroll_report.md"
)

// Generator produces reports from stored estimates and simulation results.
type Generator struct {
	estimateStore   storage.EstimateStore
	simulationStore storage.SimulationResultStore
	now             func() time.Time // injectable clock for deterministic output
}

// NewGenerator creates a report generator over the given stores.
func NewGenerator(estimateStore storage.EstimateStore, simulationStore storage.SimulationResultStore) *Generator {
	return &Generator{
		estimateStore:   estimateStore,
		simulationStore: simulationStore,
		now:             func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate assembles a complete report. Estimates and simulation results
// come from the stores; sessions, bootstrap distributions, and
// recommendations are run artifacts handed in by the caller.
func (g *Generator) Generate(
	ctx context.Context,
	sessions []*domain.SessionSample,
	bootstrap []*domain.BootstrapEstimate,
	recommendations []*domain.Recommendation,
	cfg *domain.SimulationConfig,
) (*Report, error) {
	estimates, err := g.estimateStore.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load estimates: %w", err)
	}

	simulations, err := g.simulationStore.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load simulation results: %w", err)
	}

	return &Report{
		GeneratedAt:        g.now(),
		DataSummary:        summarizeSessions(sessions, len(estimates)),
		Estimates:          estimates,
		Bootstrap:          bootstrap,
		Simulations:        simulations,
		Recommendations:    recommendations,
		TimeHorizons:       cfg.TimeHorizons,
		DrawdownThresholds: cfg.DrawdownThresholds,
	}, nil
}

// WriteFiles renders the report into outputDir, creating it if needed.
func (g *Generator) WriteFiles(report *Report, outputDir string) error {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	files := map[string]string{
		EstimatesFile:       RenderEstimatesCSV(report.Estimates),
		BootstrapFile:       RenderBootstrapCSV(report.Bootstrap),
		SimulationsFile:     RenderSimulationCSV(report.Simulations, report.TimeHorizons, report.DrawdownThresholds),
		RecommendationsFile: RenderRecommendationsCSV(report.Recommendations),
		ReportFile:          RenderMarkdown(report),
	}

	for name, content := range files {
		path := filepath.Join(outputDir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
	}

	return nil
}

func summarizeSessions(sessions []*domain.SessionSample, stakeCount int) DataSummary {
	summary := DataSummary{
		TotalSessions: len(sessions),
		StakeCount:    stakeCount,
	}

	for i, s := range sessions {
		summary.TotalHands += s.HandsPlayed
		summary.TotalHours += s.HoursPlayed
		summary.NetResultUSD += s.NetResultUSD

		// ISO dates compare correctly as strings
		if i == 0 || s.Date < summary.DateFrom {
			summary.DateFrom = s.Date
		}
		if i == 0 || s.Date > summary.DateTo {
			summary.DateTo = s.Date
		}
	}

	return summary
}
