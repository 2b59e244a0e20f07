package reporting

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"bankroll-lab/internal/domain"
	"bankroll-lab/internal/storage/memory"
)

func seedStores(t *testing.T) (*memory.EstimateStore, *memory.SimulationResultStore) {
	t.Helper()
	ctx := context.Background()

	estimates := memory.NewEstimateStore()
	err := estimates.Insert(ctx, &domain.StakeEstimate{
		StakeID:     "2-5",
		NSessions:   15,
		TotalHands:  2500,
		MuBBPerHand: 0.05,
		MuBBCI:      domain.CI{Lower: 0.01, Upper: 0.09},
		Sigma2BB:    4,
	})
	if err != nil {
		t.Fatalf("seed estimate: %v", err)
	}

	simulations := memory.NewSimulationResultStore()
	err = simulations.Insert(ctx, &domain.SimulationResult{
		StakeID: "2-5",
		Mu:      0.05,
		Sigma:   2,
		Sigma2:  4,
		Horizons: map[int]domain.HorizonMetrics{
			500:  {RiskOfRuin: 0.01, FinalMean: 5025, FinalStd: 44, FinalP10: 4970, FinalP90: 5080, Drawdowns: map[float64]float64{10: 0.5, 20: 0.2}},
			1000: {RiskOfRuin: 0.02, FinalMean: 5050, FinalStd: 63, FinalP10: 4970, FinalP90: 5130, Drawdowns: map[float64]float64{10: 0.6, 20: 0.3}},
		},
	})
	if err != nil {
		t.Fatalf("seed simulation: %v", err)
	}

	return estimates, simulations
}

func testSamples() []*domain.SessionSample {
	return []*domain.SessionSample{
		{SessionID: "a", Date: "2025-02-10", StakeID: "2-5", HandsPlayed: 150, HoursPlayed: 5, NetResultUSD: 250},
		{SessionID: "b", Date: "2025-01-05", StakeID: "2-5", HandsPlayed: 120, HoursPlayed: 4, NetResultUSD: -100},
		{SessionID: "c", Date: "2025-03-01", StakeID: "2-5", HandsPlayed: 200, HoursPlayed: 7, NetResultUSD: 430},
	}
}

func testReportConfig() *domain.SimulationConfig {
	return &domain.SimulationConfig{
		NSimulations:       1000,
		TimeHorizons:       []int{500, 1000},
		CurrentBankrollBB:  5000,
		DrawdownThresholds: []float64{10, 20},
		RiskTolerance:      0.05,
		Seed:               42,
	}
}

func TestGenerate(t *testing.T) {
	estimates, simulations := seedStores(t)
	fixed := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	g := NewGenerator(estimates, simulations).WithClock(func() time.Time { return fixed })

	report, err := g.Generate(context.Background(), testSamples(), nil, nil, testReportConfig())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if !report.GeneratedAt.Equal(fixed) {
		t.Errorf("GeneratedAt = %v, want %v", report.GeneratedAt, fixed)
	}
	if len(report.Estimates) != 1 || len(report.Simulations) != 1 {
		t.Fatalf("expected 1 estimate and 1 simulation, got %d and %d",
			len(report.Estimates), len(report.Simulations))
	}

	s := report.DataSummary
	if s.TotalSessions != 3 || s.TotalHands != 470 || s.TotalHours != 16 {
		t.Errorf("summary totals wrong: %+v", s)
	}
	if s.NetResultUSD != 580 {
		t.Errorf("net result = %g, want 580", s.NetResultUSD)
	}
	if s.DateFrom != "2025-01-05" || s.DateTo != "2025-03-01" {
		t.Errorf("date range = %s to %s", s.DateFrom, s.DateTo)
	}
}

func TestRenderSimulationCSV_ColumnLayout(t *testing.T) {
	estimates, simulations := seedStores(t)
	g := NewGenerator(estimates, simulations)

	report, err := g.Generate(context.Background(), testSamples(), nil, nil, testReportConfig())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	csv := RenderSimulationCSV(report.Simulations, report.TimeHorizons, report.DrawdownThresholds)
	lines := strings.Split(strings.TrimSpace(csv), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header + 1 row, got %d lines", len(lines))
	}

	wantHeader := "stake_text,mu,sigma,sigma2," +
		"ror_500h,final_mean_500h,final_std_500h,final_p10_500h,final_p90_500h,dd_10bb_500h,dd_20bb_500h," +
		"ror_1000h,final_mean_1000h,final_std_1000h,final_p10_1000h,final_p90_1000h,dd_10bb_1000h,dd_20bb_1000h"
	if lines[0] != wantHeader {
		t.Errorf("header mismatch:\ngot  %s\nwant %s", lines[0], wantHeader)
	}
	if !strings.HasPrefix(lines[1], "2-5,0.050000,2.000000,4.000000,0.010000,") {
		t.Errorf("row prefix mismatch: %s", lines[1])
	}
}

func TestRenderRecommendationsCSV_QuotesCommaReasons(t *testing.T) {
	recs := []*domain.Recommendation{
		{
			StakeID:         "2-5",
			Verdict:         domain.VerdictRecommended,
			Reason:          "Low risk (1.0%), positive expectation (+0.0500 BB/hand)",
			DecisionHorizon: 10000,
			RiskOfRuin:      0.01,
			MuBBPerHand:     0.05,
			MinBankrollBB:   2500,
		},
	}

	csv := RenderRecommendationsCSV(recs)
	if !strings.Contains(csv, `"Low risk (1.0%), positive expectation (+0.0500 BB/hand)"`) {
		t.Errorf("reason with comma not quoted:\n%s", csv)
	}
}

func TestWriteFiles(t *testing.T) {
	estimates, simulations := seedStores(t)
	g := NewGenerator(estimates, simulations)

	report, err := g.Generate(context.Background(), testSamples(), nil, nil, testReportConfig())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	dir := t.TempDir()
	outputDir := filepath.Join(dir, "processed")
	if err := g.WriteFiles(report, outputDir); err != nil {
		t.Fatalf("WriteFiles failed: %v", err)
	}

	for _, name := range []string{EstimatesFile, BootstrapFile, SimulationsFile, RecommendationsFile, ReportFile} {
		data, err := os.ReadFile(filepath.Join(outputDir, name))
		if err != nil {
			t.Errorf("missing output file %s: %v", name, err)
			continue
		}
		if len(data) == 0 {
			t.Errorf("output file %s is empty", name)
		}
	}
}

func TestRenderMarkdown_Sections(t *testing.T) {
	estimates, simulations := seedStores(t)
	g := NewGenerator(estimates, simulations).
		WithClock(func() time.Time { return time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC) })

	report, err := g.Generate(context.Background(), testSamples(), nil, nil, testReportConfig())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	md := RenderMarkdown(report)
	for _, want := range []string{
		"# Bankroll Analysis Report",
		"## Data Summary",
		"| Total Sessions | 3 |",
		"## Stake Estimates",
		"| 2-5 | 15 | 2500 |",
		"## Simulation Results",
		"No stakes had enough sessions to bootstrap.",
		"No recommendations available.",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
}
