// Package decision turns simulation results into per-stake verdicts and
// a decision memo.
package decision

import (
	"fmt"
	"sort"

	"bankroll-lab/internal/domain"
)

// Conservative bankroll floor for any live no-limit stake: 25 buyins of
// 100 BB each, independent of measured winrate.
const (
	minBankrollBuyins  = 25
	buyinBB            = 100
	minBankrollBB      = minBankrollBuyins * buyinBB
	acceptableRiskMult = 2 // ACCEPTABLE allows up to 2x the configured tolerance
)

// Evaluator classifies stakes against a bankroll and risk tolerance.
type Evaluator struct {
	bankrollBB    float64
	riskTolerance float64
}

// NewEvaluator creates a decision evaluator for the given bankroll (in BB)
// and acceptable risk-of-ruin level.
func NewEvaluator(bankrollBB, riskTolerance float64) *Evaluator {
	return &Evaluator{bankrollBB: bankrollBB, riskTolerance: riskTolerance}
}

// Evaluate produces one recommendation per simulated stake, judged at the
// largest horizon present in each result. Output is sorted by risk of
// ruin ascending, so the safest stake comes first.
//
// An underfunded bankroll overrides every other verdict: no measured edge
// justifies playing a stake the bankroll cannot absorb.
func (e *Evaluator) Evaluate(results []*domain.SimulationResult) []*domain.Recommendation {
	recommendations := make([]*domain.Recommendation, 0, len(results))
	for _, r := range results {
		recommendations = append(recommendations, e.evaluateStake(r))
	}

	sort.SliceStable(recommendations, func(i, j int) bool {
		return recommendations[i].RiskOfRuin < recommendations[j].RiskOfRuin
	})
	return recommendations
}

func (e *Evaluator) evaluateStake(r *domain.SimulationResult) *domain.Recommendation {
	horizon := decisionHorizon(r)
	metrics := r.Horizons[horizon]

	rec := &domain.Recommendation{
		StakeID:            r.StakeID,
		DecisionHorizon:    horizon,
		RiskOfRuin:         metrics.RiskOfRuin,
		MuBBPerHand:        r.Mu,
		MinBankrollBB:      minBankrollBB,
		BankrollSufficient: e.bankrollBB >= minBankrollBB,
		ExpectedFinalBB:    metrics.FinalMean,
	}

	switch {
	case metrics.RiskOfRuin <= e.riskTolerance && rec.BankrollSufficient:
		if r.Mu > 0 {
			rec.Verdict = domain.VerdictRecommended
			rec.Reason = fmt.Sprintf("Low risk (%.1f%%), positive expectation (+%.4f BB/hand)",
				metrics.RiskOfRuin*100, r.Mu)
		} else {
			rec.Verdict = domain.VerdictMarginal
			rec.Reason = fmt.Sprintf("Low risk but negative expectation (%.4f BB/hand)", r.Mu)
		}
	case metrics.RiskOfRuin <= e.riskTolerance*acceptableRiskMult:
		rec.Verdict = domain.VerdictAcceptable
		rec.Reason = fmt.Sprintf("Moderate risk (%.1f%%), monitor closely", metrics.RiskOfRuin*100)
	default:
		rec.Verdict = domain.VerdictNotRecommended
		rec.Reason = fmt.Sprintf("High risk of ruin (%.1f%%)", metrics.RiskOfRuin*100)
	}

	if !rec.BankrollSufficient {
		rec.Verdict = domain.VerdictUnderfunded
		rec.Reason = fmt.Sprintf("Insufficient bankroll (need %dBB, have %.0fBB)", minBankrollBB, e.bankrollBB)
	}

	return rec
}

// decisionHorizon is the largest horizon a result was simulated at.
func decisionHorizon(r *domain.SimulationResult) int {
	max := 0
	for h := range r.Horizons {
		if h > max {
			max = h
		}
	}
	return max
}
