package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RenderMarkdown renders the analysis report as a Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	sb.WriteString("# Bankroll Analysis Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))

	sb.WriteString("## Data Summary\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Total Sessions | %d |\n", r.DataSummary.TotalSessions))
	sb.WriteString(fmt.Sprintf("| Total Hands | %d |\n", r.DataSummary.TotalHands))
	sb.WriteString(fmt.Sprintf("| Total Hours | %.1f |\n", r.DataSummary.TotalHours))
	sb.WriteString(fmt.Sprintf("| Net Result | $%.2f |\n", r.DataSummary.NetResultUSD))
	sb.WriteString(fmt.Sprintf("| Date Range | %s to %s |\n", r.DataSummary.DateFrom, r.DataSummary.DateTo))
	sb.WriteString(fmt.Sprintf("| Stakes Analyzed | %d |\n", r.DataSummary.StakeCount))
	sb.WriteString("\n")

	sb.WriteString("## Stake Estimates\n\n")
	if len(r.Estimates) > 0 {
		sb.WriteString("| Stake | Sessions | Hands | BB/Hand | 95% CI | BB/Hour | $/Hour | Sharpe | Kelly | Req. BB |\n")
		sb.WriteString("|-------|----------|-------|---------|--------|---------|--------|--------|-------|--------|\n")
		for _, e := range r.Estimates {
			sb.WriteString(fmt.Sprintf("| %s | %d | %d | %.4f | [%.4f, %.4f] | %.2f | %.2f | %.4f | %.4f | %.0f |\n",
				e.StakeID, e.NSessions, e.TotalHands,
				e.MuBBPerHand, e.MuBBCI.Lower, e.MuBBCI.Upper,
				e.BBPerHour, e.HourlyRateUSD, e.SharpeRatio, e.KellyFraction, e.RequiredBankrollBB))
		}
	} else {
		sb.WriteString("No stakes had enough sessions to estimate.\n")
	}
	sb.WriteString("\n")

	sb.WriteString("## Bootstrap Distributions\n\n")
	if len(r.Bootstrap) > 0 {
		sb.WriteString("| Stake | Sessions | Trials | Mean | Std | 95% CI | 80% CI |\n")
		sb.WriteString("|-------|----------|--------|------|-----|--------|--------|\n")
		for _, b := range r.Bootstrap {
			sb.WriteString(fmt.Sprintf("| %s | %d | %d | %.4f | %.4f | [%.4f, %.4f] | [%.4f, %.4f] |\n",
				b.StakeID, b.NSessions, b.Trials, b.Mean, b.Std,
				b.CI95.Lower, b.CI95.Upper, b.CI80.Lower, b.CI80.Upper))
		}
	} else {
		sb.WriteString("No stakes had enough sessions to bootstrap.\n")
	}
	sb.WriteString("\n")

	sb.WriteString("## Simulation Results\n\n")
	if len(r.Simulations) > 0 {
		sb.WriteString("| Stake | Mu | Sigma |")
		for _, h := range r.TimeHorizons {
			sb.WriteString(fmt.Sprintf(" RoR %dh |", h))
		}
		sb.WriteString("\n|-------|----|-------|")
		for range r.TimeHorizons {
			sb.WriteString("---------|")
		}
		sb.WriteString("\n")
		for _, s := range r.Simulations {
			sb.WriteString(fmt.Sprintf("| %s | %.4f | %.4f |", s.StakeID, s.Mu, s.Sigma))
			for _, h := range r.TimeHorizons {
				sb.WriteString(fmt.Sprintf(" %.2f%% |", s.Horizons[h].RiskOfRuin*100))
			}
			sb.WriteString("\n")
		}
	} else {
		sb.WriteString("No simulation results available.\n")
	}
	sb.WriteString("\n")

	sb.WriteString("## Recommendations\n\n")
	if len(r.Recommendations) > 0 {
		sb.WriteString("| Stake | Verdict | Risk of Ruin | BB/Hand | Reason |\n")
		sb.WriteString("|-------|---------|--------------|---------|--------|\n")
		for _, rec := range r.Recommendations {
			sb.WriteString(fmt.Sprintf("| %s | %s | %.1f%% | %.4f | %s |\n",
				rec.StakeID, rec.Verdict, rec.RiskOfRuin*100, rec.MuBBPerHand, rec.Reason))
		}
	} else {
		sb.WriteString("No recommendations available.\n")
	}
	sb.WriteString("\n")

	return sb.String()
}
