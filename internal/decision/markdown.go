package decision

import (
	"fmt"
	"strings"
	"time"

	"bankroll-lab/internal/domain"
)

// MemoInput carries everything the one-page decision memo reports on.
type MemoInput struct {
	Recommendations []*domain.Recommendation

	BankrollBB    float64
	RiskTolerance float64
	NSimulations  int
	MaxHorizon    int

	// Session data summary
	NSessions    int
	TotalHours   float64
	NetResultUSD float64
	DateFrom     time.Time
	DateTo       time.Time

	GeneratedAt time.Time
}

// RenderMemo renders the decision memo as Markdown. Recommendations are
// printed in the order given, which Evaluate sorts by risk of ruin.
func RenderMemo(in MemoInput) string {
	var sb strings.Builder

	sb.WriteString("# Poker Bankroll Decision Memo\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n", in.GeneratedAt.Format("2006-01-02 15:04")))
	sb.WriteString(fmt.Sprintf("Current Bankroll: %.0f BB\n\n", in.BankrollBB))

	sb.WriteString("## Executive Summary\n\n")
	sb.WriteString(fmt.Sprintf("Based on %d sessions and %.0f hours of data:\n\n", in.NSessions, in.TotalHours))

	if best := firstRecommended(in.Recommendations); best != nil {
		sb.WriteString(fmt.Sprintf("**Primary recommendation: %s**\n\n", best.StakeID))
		sb.WriteString(fmt.Sprintf("- Risk of ruin (%d hands): %.1f%%\n", best.DecisionHorizon, best.RiskOfRuin*100))
		sb.WriteString(fmt.Sprintf("- Expected return: %.4f BB/hand\n", best.MuBBPerHand))
		sb.WriteString(fmt.Sprintf("- Reason: %s\n\n", best.Reason))
	} else {
		sb.WriteString("**No stakes currently recommended.**\n\n")
		sb.WriteString("All analyzed stakes exceed acceptable risk thresholds or show negative expectation.\n")
		sb.WriteString("Consider building bankroll at lower stakes or improving play.\n\n")
	}

	sb.WriteString("## Stake Analysis\n\n")
	sb.WriteString("| Stake | Verdict | Risk of Ruin | BB/Hand | Min Bankroll BB | Assessment |\n")
	sb.WriteString("|-------|---------|--------------|---------|-----------------|------------|\n")
	for _, rec := range in.Recommendations {
		sb.WriteString(fmt.Sprintf("| %s | %s | %.1f%% | %.4f | %.0f | %s |\n",
			rec.StakeID, rec.Verdict, rec.RiskOfRuin*100, rec.MuBBPerHand, rec.MinBankrollBB, rec.Reason))
	}
	sb.WriteString("\n")

	sb.WriteString("## Risk Parameters\n\n")
	sb.WriteString(fmt.Sprintf("- Risk tolerance: %.1f%%\n", in.RiskTolerance*100))
	sb.WriteString(fmt.Sprintf("- Simulation runs: %d\n", in.NSimulations))
	sb.WriteString(fmt.Sprintf("- Decision horizon: %d hands\n\n", in.MaxHorizon))

	sb.WriteString("## Data Quality\n\n")
	sb.WriteString(fmt.Sprintf("- Total sessions: %d\n", in.NSessions))
	sb.WriteString(fmt.Sprintf("- Date range: %s to %s\n", in.DateFrom.Format("2006-01-02"), in.DateTo.Format("2006-01-02")))
	sb.WriteString(fmt.Sprintf("- Total hours: %.0f\n", in.TotalHours))
	sb.WriteString(fmt.Sprintf("- Net result: $%.2f\n\n", in.NetResultUSD))

	sb.WriteString("---\n")
	sb.WriteString("*This analysis is based on historical performance and Monte Carlo simulation. ")
	sb.WriteString("Past results do not guarantee future performance. ")
	sb.WriteString("Always play within your means and maintain proper bankroll management.*\n")

	return sb.String()
}

func firstRecommended(recs []*domain.Recommendation) *domain.Recommendation {
	for _, rec := range recs {
		if rec.Verdict == domain.VerdictRecommended {
			return rec
		}
	}
	return nil
}
