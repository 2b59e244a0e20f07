package ingestion

import (
	"fmt"

	"bankroll-lab/internal/domain"
)

// ValidationReport summarizes a batch of sessions and lists data issues.
// Errors flag problems a downstream phase would silently absorb; callers
// decide whether they are fatal.
type ValidationReport struct {
	TotalSessions     int
	DateFrom          string
	DateTo            string
	TotalHours        float64
	TotalNetResultUSD float64
	StakeDistribution map[string]int

	Errors []string
}

// Valid reports whether the batch passed every check.
func (r *ValidationReport) Valid() bool {
	return len(r.Errors) == 0
}

// Validate checks a session batch for common data issues and returns the
// summary report. It never modifies the input.
func Validate(sessions []*domain.RawSession) *ValidationReport {
	report := &ValidationReport{
		TotalSessions:     len(sessions),
		StakeDistribution: make(map[string]int),
	}

	badHours := 0
	negativeCashouts := 0
	badBuyins := 0

	for i, s := range sessions {
		report.TotalHours += s.HoursPlayed
		report.TotalNetResultUSD += s.CashoutsUSD - s.BuyinsUSD
		report.StakeDistribution[s.StakeText]++

		// ISO dates compare correctly as strings
		if i == 0 || s.Date < report.DateFrom {
			report.DateFrom = s.Date
		}
		if i == 0 || s.Date > report.DateTo {
			report.DateTo = s.Date
		}

		if s.HoursPlayed <= 0 {
			badHours++
		}
		if s.CashoutsUSD < 0 {
			negativeCashouts++
		}
		if s.BuyinsUSD <= 0 {
			badBuyins++
		}
	}

	if badHours > 0 {
		report.Errors = append(report.Errors,
			fmt.Sprintf("invalid hours_played values found in %d sessions", badHours))
	}
	if negativeCashouts > 0 {
		report.Errors = append(report.Errors,
			fmt.Sprintf("negative cashout values found in %d sessions", negativeCashouts))
	}
	if badBuyins > 0 {
		report.Errors = append(report.Errors,
			fmt.Sprintf("invalid buyin values found in %d sessions", badBuyins))
	}

	return report
}
