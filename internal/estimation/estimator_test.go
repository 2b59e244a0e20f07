package estimation

import (
	"math"
	"testing"

	"bankroll-lab/internal/domain"
)

// sampleAt builds a minimal SessionSample with the given per-hand outcomes.
func sampleAt(stake string, bbPerHand float64) *domain.SessionSample {
	return &domain.SessionSample{
		StakeID:      stake,
		BBPerHand:    bbPerHand,
		USDPerHand:   bbPerHand * 5, // 5 usd per bb at a "2-5" game
		HandsPlayed:  180,
		HoursPlayed:  6,
		HandsPerHour: 30,
		BBPerSession: bbPerHand * 180,
		NetResultUSD: bbPerHand * 5 * 180,
	}
}

func TestEstimate_MinimumSampleFilter(t *testing.T) {
	samples := []*domain.SessionSample{
		sampleAt("2-5", 0.1),
		sampleAt("2-5", 0.2),
		sampleAt("2-5", 0.3),
		sampleAt("5-10", 0.1), // only two sessions
		sampleAt("5-10", 0.2),
	}

	estimates := Estimate(samples)

	if len(estimates) != 1 {
		t.Fatalf("expected 1 estimate, got %d", len(estimates))
	}
	if estimates[0].StakeID != "2-5" {
		t.Errorf("expected stake 2-5, got %s", estimates[0].StakeID)
	}
}

func TestEstimate_ScenarioA(t *testing.T) {
	// samples [1.0, 1.2, 0.8, 1.0] → mu ≈ 1.0, sample variance ≈ 0.0267
	samples := []*domain.SessionSample{
		sampleAt("2-5", 1.0),
		sampleAt("2-5", 1.2),
		sampleAt("2-5", 0.8),
		sampleAt("2-5", 1.0),
	}

	estimates := Estimate(samples)
	if len(estimates) != 1 {
		t.Fatalf("expected 1 estimate, got %d", len(estimates))
	}
	e := estimates[0]

	if math.Abs(e.MuBBPerHand-1.0) > 1e-12 {
		t.Errorf("mu = %g, want 1.0", e.MuBBPerHand)
	}
	if math.Abs(e.Sigma2BB-0.08/3) > 1e-12 {
		t.Errorf("sigma2 = %g, want %g", e.Sigma2BB, 0.08/3)
	}
	if e.MuBBCI.Width() <= 0 {
		t.Errorf("expected positive CI width, got %g", e.MuBBCI.Width())
	}
	if e.MuBBCI.Lower > e.MuBBPerHand || e.MuBBCI.Upper < e.MuBBPerHand {
		t.Errorf("CI [%g, %g] does not straddle mu %g", e.MuBBCI.Lower, e.MuBBCI.Upper, e.MuBBPerHand)
	}
}

func TestEstimate_ZeroVarianceZeroWidthCI(t *testing.T) {
	samples := []*domain.SessionSample{
		sampleAt("2-5", 0.5),
		sampleAt("2-5", 0.5),
		sampleAt("2-5", 0.5),
	}

	e := Estimate(samples)[0]

	if e.Sigma2BB != 0 {
		t.Errorf("sigma2 = %g, want 0", e.Sigma2BB)
	}
	if e.MuBBCI.Lower != e.MuBBPerHand || e.MuBBCI.Upper != e.MuBBPerHand {
		t.Errorf("expected zero-width CI at mu, got [%g, %g]", e.MuBBCI.Lower, e.MuBBCI.Upper)
	}
}

func TestEstimate_USDMirrorsBB(t *testing.T) {
	samples := []*domain.SessionSample{
		sampleAt("2-5", 1.0),
		sampleAt("2-5", 1.2),
		sampleAt("2-5", 0.8),
	}

	e := Estimate(samples)[0]

	// usd outcomes are bb outcomes scaled by 5, so mu and CI scale too
	if math.Abs(e.MuUSDPerHand-5*e.MuBBPerHand) > 1e-12 {
		t.Errorf("usd mu = %g, want %g", e.MuUSDPerHand, 5*e.MuBBPerHand)
	}
	if math.Abs(e.MuUSDCI.Width()-5*e.MuBBCI.Width()) > 1e-9 {
		t.Errorf("usd CI width = %g, want %g", e.MuUSDCI.Width(), 5*e.MuBBCI.Width())
	}
	if math.Abs(e.Sigma2USD-25*e.Sigma2BB) > 1e-9 {
		t.Errorf("usd sigma2 = %g, want %g", e.Sigma2USD, 25*e.Sigma2BB)
	}
}

func TestEstimate_FirstOccurrenceOrder(t *testing.T) {
	var samples []*domain.SessionSample
	for i := 0; i < 3; i++ {
		samples = append(samples, sampleAt("5-10", 0.1))
	}
	for i := 0; i < 3; i++ {
		samples = append(samples, sampleAt("1-3", 0.1))
	}
	for i := 0; i < 3; i++ {
		samples = append(samples, sampleAt("2-5", 0.1))
	}

	estimates := Estimate(samples)

	want := []string{"5-10", "1-3", "2-5"}
	if len(estimates) != len(want) {
		t.Fatalf("expected %d estimates, got %d", len(want), len(estimates))
	}
	for i, e := range estimates {
		if e.StakeID != want[i] {
			t.Errorf("position %d: got stake %s, want %s", i, e.StakeID, want[i])
		}
	}
}

func TestEstimate_Totals(t *testing.T) {
	samples := []*domain.SessionSample{
		sampleAt("2-5", 0.1),
		sampleAt("2-5", 0.2),
		sampleAt("2-5", 0.3),
	}

	e := Estimate(samples)[0]

	if e.NSessions != 3 {
		t.Errorf("n sessions = %d, want 3", e.NSessions)
	}
	if e.TotalHands != 540 {
		t.Errorf("total hands = %d, want 540", e.TotalHands)
	}
	if e.TotalHours != 18 {
		t.Errorf("total hours = %g, want 18", e.TotalHours)
	}
	if e.AvgSessionHours != 6 {
		t.Errorf("avg session hours = %g, want 6", e.AvgSessionHours)
	}
	// bb/hour = mu * avg hands/hour = 0.2 * 30
	if math.Abs(e.BBPerHour-6) > 1e-12 {
		t.Errorf("bb/hour = %g, want 6", e.BBPerHour)
	}
}

func TestEstimate_EmptyInput(t *testing.T) {
	if got := Estimate(nil); len(got) != 0 {
		t.Errorf("expected no estimates for empty input, got %d", len(got))
	}
}
