package reporting

import (
	"fmt"
	"strconv"
	"strings"

	"bankroll-lab/internal/domain"
)

// RenderEstimatesCSV renders per-stake estimates as a CSV string.
func RenderEstimatesCSV(estimates []*domain.StakeEstimate) string {
	var sb strings.Builder

	sb.WriteString("stake_text,n_sessions,total_hands,total_hours,avg_session_hours,")
	sb.WriteString("mu_bb_per_hand,mu_bb_ci_lower,mu_bb_ci_upper,")
	sb.WriteString("mu_usd_per_hand,mu_usd_ci_lower,mu_usd_ci_upper,")
	sb.WriteString("sigma2_bb,sigma2_usd,bb_per_hour,hourly_rate_usd,")
	sb.WriteString("total_bb_won,total_usd_won,sharpe_ratio,kelly_fraction,required_bankroll_bb\n")

	for _, e := range estimates {
		sb.WriteString(fmt.Sprintf("%s,%d,%d,%.2f,%.2f,%.6f,%.6f,%.6f,%.6f,%.6f,%.6f,%.6f,%.6f,%.4f,%.2f,%.2f,%.2f,%.6f,%.6f,%.2f\n",
			e.StakeID,
			e.NSessions,
			e.TotalHands,
			e.TotalHours,
			e.AvgSessionHours,
			e.MuBBPerHand,
			e.MuBBCI.Lower,
			e.MuBBCI.Upper,
			e.MuUSDPerHand,
			e.MuUSDCI.Lower,
			e.MuUSDCI.Upper,
			e.Sigma2BB,
			e.Sigma2USD,
			e.BBPerHour,
			e.HourlyRateUSD,
			e.TotalBBWon,
			e.TotalUSDWon,
			e.SharpeRatio,
			e.KellyFraction,
			e.RequiredBankrollBB,
		))
	}

	return sb.String()
}

// RenderBootstrapCSV renders bootstrap distributions as a CSV string.
func RenderBootstrapCSV(estimates []*domain.BootstrapEstimate) string {
	var sb strings.Builder

	sb.WriteString("stake_text,n_sessions,trials,boot_mean,boot_std,")
	sb.WriteString("ci95_lower,ci95_upper,ci80_lower,ci80_upper\n")

	for _, b := range estimates {
		sb.WriteString(fmt.Sprintf("%s,%d,%d,%.6f,%.6f,%.6f,%.6f,%.6f,%.6f\n",
			b.StakeID,
			b.NSessions,
			b.Trials,
			b.Mean,
			b.Std,
			b.CI95.Lower,
			b.CI95.Upper,
			b.CI80.Lower,
			b.CI80.Upper,
		))
	}

	return sb.String()
}

// RenderSimulationCSV renders simulation results as a CSV string, one row
// per stake. Horizon metrics flatten into column groups like ror_1000h and
// final_mean_1000h, drawdown probabilities into dd_20bb_1000h; horizons and
// thresholds order the columns.
func RenderSimulationCSV(results []*domain.SimulationResult, horizons []int, thresholds []float64) string {
	var sb strings.Builder

	sb.WriteString("stake_text,mu,sigma,sigma2")
	for _, h := range horizons {
		sb.WriteString(fmt.Sprintf(",ror_%dh,final_mean_%dh,final_std_%dh,final_p10_%dh,final_p90_%dh",
			h, h, h, h, h))
		for _, t := range thresholds {
			sb.WriteString(fmt.Sprintf(",dd_%sbb_%dh", formatThreshold(t), h))
		}
	}
	sb.WriteString("\n")

	for _, r := range results {
		sb.WriteString(fmt.Sprintf("%s,%.6f,%.6f,%.6f", r.StakeID, r.Mu, r.Sigma, r.Sigma2))
		for _, h := range horizons {
			m := r.Horizons[h]
			sb.WriteString(fmt.Sprintf(",%.6f,%.2f,%.2f,%.2f,%.2f",
				m.RiskOfRuin, m.FinalMean, m.FinalStd, m.FinalP10, m.FinalP90))
			for _, t := range thresholds {
				sb.WriteString(fmt.Sprintf(",%.6f", m.Drawdowns[t]))
			}
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// RenderRecommendationsCSV renders stake recommendations as a CSV string.
func RenderRecommendationsCSV(recommendations []*domain.Recommendation) string {
	var sb strings.Builder

	sb.WriteString("stake_text,recommendation,reason,decision_horizon,risk_of_ruin,")
	sb.WriteString("expected_return_bb_per_hand,min_bankroll_bb,current_bankroll_sufficient,expected_final_bb\n")

	for _, rec := range recommendations {
		sb.WriteString(fmt.Sprintf("%s,%s,%s,%d,%.6f,%.6f,%.0f,%t,%.2f\n",
			rec.StakeID,
			rec.Verdict,
			csvQuote(rec.Reason),
			rec.DecisionHorizon,
			rec.RiskOfRuin,
			rec.MuBBPerHand,
			rec.MinBankrollBB,
			rec.BankrollSufficient,
			rec.ExpectedFinalBB,
		))
	}

	return sb.String()
}

// formatThreshold prints drawdown thresholds without a trailing ".0" so
// integer thresholds read as dd_20bb rather than dd_20.0bb.
func formatThreshold(t float64) string {
	return strconv.FormatFloat(t, 'g', -1, 64)
}

// csvQuote wraps a field in quotes when it contains a comma. Reasons carry
// human-readable text like "Low risk (1.0%), positive expectation".
func csvQuote(s string) string {
	if strings.ContainsAny(s, ",\"\n") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}
