package domain

// Verdict classifies a stake for the current bankroll.
type Verdict string

const (
	VerdictRecommended    Verdict = "RECOMMENDED"
	VerdictAcceptable     Verdict = "ACCEPTABLE"
	VerdictMarginal       Verdict = "MARGINAL"
	VerdictNotRecommended Verdict = "NOT_RECOMMENDED"
	VerdictUnderfunded    Verdict = "UNDERFUNDED"
)

// Recommendation is the decision output for one stake, evaluated at the
// largest configured horizon.
type Recommendation struct {
	StakeID string
	Verdict Verdict
	Reason  string

	DecisionHorizon    int     // hands
	RiskOfRuin         float64 // at the decision horizon
	MuBBPerHand        float64
	MinBankrollBB      float64
	BankrollSufficient bool
	ExpectedFinalBB    float64 // mean terminal bankroll at the decision horizon
}
