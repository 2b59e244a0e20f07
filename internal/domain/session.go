package domain

// Straddle exposure classes as recorded in the session log.
const (
	StraddleNone      = "none"
	StraddleLow       = "low"
	StraddleMedium    = "medium"
	StraddleHigh      = "high"
	StraddleMandatory = "mandatory"
)

// Stack depth classes. S <=120bb, N 120-200bb, D 200-320bb, VD >320bb.
const (
	DepthShallow  = "S"
	DepthNormal   = "N"
	DepthDeep     = "D"
	DepthVeryDeep = "VD"
)

// RawSession is one logged live session as imported from the session log.
// Fields mirror the canonical CSV schema.
type RawSession struct {
	SessionID string // deterministic hash, assigned at ingestion
	Date      string // ISO date, YYYY-MM-DD
	Room      string
	StakeText string // e.g. "1-3", "2-5", "2-5-10"

	BuyinsUSD   float64
	CashoutsUSD float64
	HoursPlayed float64

	StraddleExposure   string // one of the Straddle* constants
	SideBombpotsCount  int
	SideStandupMinutes int
	SideBountyFlag     bool
	StackDepthClass    string // one of the Depth* constants
	Notes              string
}

// SessionSample is a session with all derived features attached.
// Produced once by enrichment and read-only afterwards; this is the
// input shape the estimator consumes.
type SessionSample struct {
	SessionID string
	Date      string
	Room      string
	StakeID   string // stake identifier, equal to the raw StakeText

	// Game condition features
	EffectiveBB             float64
	StraddleMultiplier      float64
	EffectiveBBWithStraddle float64
	SideGameIntensity       float64 // 0..3 composite score
	DepthVarianceMult       float64
	DepthSkillMult          float64

	// Session result metrics
	NetResultUSD  float64
	ROI           float64
	HourlyRateUSD float64
	BBPerHour     float64
	BBPerSession  float64

	// Per-hand outcomes (what estimation operates on)
	HoursPlayed  float64
	HandsPerHour float64
	HandsPlayed  int // always >= 1
	BBPerHand    float64
	USDPerHand   float64
}
