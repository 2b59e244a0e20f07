package decision

import (
	"strings"
	"testing"
	"time"

	"bankroll-lab/internal/domain"
)

func resultWith(stake string, mu, ror, finalMean float64) *domain.SimulationResult {
	return &domain.SimulationResult{
		StakeID: stake,
		Mu:      mu,
		Horizons: map[int]domain.HorizonMetrics{
			1000:  {RiskOfRuin: ror / 2, FinalMean: finalMean / 2},
			10000: {RiskOfRuin: ror, FinalMean: finalMean},
		},
	}
}

func TestEvaluate_Verdicts(t *testing.T) {
	e := NewEvaluator(5000, 0.05)

	cases := []struct {
		name   string
		result *domain.SimulationResult
		want   domain.Verdict
	}{
		{"low risk positive mu", resultWith("2-5", 0.05, 0.01, 5400), domain.VerdictRecommended},
		{"low risk negative mu", resultWith("2-5", -0.01, 0.01, 4900), domain.VerdictMarginal},
		{"moderate risk", resultWith("5-10", 0.03, 0.08, 5200), domain.VerdictAcceptable},
		{"high risk", resultWith("10-20", 0.02, 0.30, 5100), domain.VerdictNotRecommended},
	}
	for _, c := range cases {
		recs := e.Evaluate([]*domain.SimulationResult{c.result})
		if len(recs) != 1 {
			t.Fatalf("%s: expected 1 recommendation, got %d", c.name, len(recs))
		}
		if recs[0].Verdict != c.want {
			t.Errorf("%s: verdict = %s, want %s", c.name, recs[0].Verdict, c.want)
		}
	}
}

func TestEvaluate_UnderfundedOverridesEverything(t *testing.T) {
	e := NewEvaluator(1200, 0.05) // below the 2500 BB floor

	recs := e.Evaluate([]*domain.SimulationResult{
		resultWith("2-5", 0.05, 0.001, 1400), // would otherwise be RECOMMENDED
	})

	rec := recs[0]
	if rec.Verdict != domain.VerdictUnderfunded {
		t.Errorf("verdict = %s, want UNDERFUNDED", rec.Verdict)
	}
	if rec.BankrollSufficient {
		t.Error("bankroll reported sufficient at 1200 BB")
	}
	if !strings.Contains(rec.Reason, "2500") {
		t.Errorf("reason should name the 2500 BB floor, got %q", rec.Reason)
	}
}

func TestEvaluate_UsesLargestHorizon(t *testing.T) {
	e := NewEvaluator(5000, 0.05)

	recs := e.Evaluate([]*domain.SimulationResult{
		resultWith("2-5", 0.05, 0.04, 6000),
	})

	rec := recs[0]
	if rec.DecisionHorizon != 10000 {
		t.Errorf("decision horizon = %d, want 10000", rec.DecisionHorizon)
	}
	if rec.RiskOfRuin != 0.04 {
		t.Errorf("risk of ruin = %g, want the 10000-hand value 0.04", rec.RiskOfRuin)
	}
	if rec.ExpectedFinalBB != 6000 {
		t.Errorf("expected final = %g, want 6000", rec.ExpectedFinalBB)
	}
}

func TestEvaluate_SortedByRiskAscending(t *testing.T) {
	e := NewEvaluator(5000, 0.05)

	recs := e.Evaluate([]*domain.SimulationResult{
		resultWith("10-20", 0.02, 0.30, 5100),
		resultWith("2-5", 0.05, 0.01, 5400),
		resultWith("5-10", 0.03, 0.08, 5200),
	})

	want := []string{"2-5", "5-10", "10-20"}
	for i, rec := range recs {
		if rec.StakeID != want[i] {
			t.Errorf("position %d: got stake %s, want %s", i, rec.StakeID, want[i])
		}
	}
}

func TestRenderMemo_WithRecommendation(t *testing.T) {
	e := NewEvaluator(5000, 0.05)
	recs := e.Evaluate([]*domain.SimulationResult{
		resultWith("2-5", 0.05, 0.01, 5400),
		resultWith("10-20", 0.02, 0.30, 5100),
	})

	memo := RenderMemo(MemoInput{
		Recommendations: recs,
		BankrollBB:      5000,
		RiskTolerance:   0.05,
		NSimulations:    10000,
		MaxHorizon:      10000,
		NSessions:       40,
		TotalHours:      220,
		NetResultUSD:    3150.50,
		DateFrom:        time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC),
		DateTo:          time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC),
		GeneratedAt:     time.Date(2025, 7, 1, 9, 30, 0, 0, time.UTC),
	})

	for _, want := range []string{
		"# Poker Bankroll Decision Memo",
		"Generated: 2025-07-01 09:30",
		"**Primary recommendation: 2-5**",
		"| 2-5 | RECOMMENDED |",
		"| 10-20 | NOT_RECOMMENDED |",
		"- Risk tolerance: 5.0%",
		"- Date range: 2025-01-05 to 2025-06-20",
		"- Net result: $3150.50",
	} {
		if !strings.Contains(memo, want) {
			t.Errorf("memo missing %q", want)
		}
	}
}

func TestRenderMemo_NoRecommendedStake(t *testing.T) {
	e := NewEvaluator(5000, 0.05)
	recs := e.Evaluate([]*domain.SimulationResult{
		resultWith("10-20", 0.02, 0.30, 5100),
	})

	memo := RenderMemo(MemoInput{
		Recommendations: recs,
		BankrollBB:      5000,
		GeneratedAt:     time.Date(2025, 7, 1, 9, 30, 0, 0, time.UTC),
	})

	if !strings.Contains(memo, "**No stakes currently recommended.**") {
		t.Error("memo missing no-recommendation summary")
	}
	if strings.Contains(memo, "Primary recommendation") {
		t.Error("memo should not name a primary recommendation")
	}
}
