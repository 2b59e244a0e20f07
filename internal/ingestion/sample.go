package ingestion

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/stat/distuv"

	"bankroll-lab/internal/domain"
	"bankroll-lab/internal/idhash"
)

// Per-stake buyin and session result distributions for sample data.
// Results carry a small positive expectation with live-game variance.
type stakeProfile struct {
	stake      string
	weight     float64
	buyinMean  float64
	buyinStd   float64
	resultMean float64
	resultStd  float64
}

var stakeProfiles = []stakeProfile{
	{"1-3", 0.30, 300, 100, 15, 180},
	{"2-5", 0.40, 500, 150, 25, 250},
	{"2-5-10", 0.20, 800, 200, 40, 350},
	{"5-10", 0.08, 1500, 300, 75, 600},
	{"10-20", 0.02, 3000, 500, 150, 1200},
}

var sampleRooms = []string{"Aria", "Bellagio", "Commerce", "Borgata", "Local Club"}

var straddleWeights = []weighted{
	{domain.StraddleNone, 0.40},
	{domain.StraddleLow, 0.20},
	{domain.StraddleMedium, 0.20},
	{domain.StraddleHigh, 0.15},
	{domain.StraddleMandatory, 0.05},
}

var depthWeights = []weighted{
	{domain.DepthShallow, 0.10},
	{domain.DepthNormal, 0.60},
	{domain.DepthDeep, 0.25},
	{domain.DepthVeryDeep, 0.05},
}

type weighted struct {
	value  string
	weight float64
}

// SampleSessions generates n plausible sessions spread over the two years
// before now. Output is fully determined by n, seed, and now.
func SampleSessions(n int, seed uint64, now time.Time) []*domain.RawSession {
	src := rand.NewPCG(seed, seed)
	rng := rand.New(src)

	buyinDist := distuv.Normal{Src: src}
	resultDist := distuv.Normal{Src: src}
	hoursDist := distuv.Normal{Mu: 6, Sigma: 2.5, Src: src}
	bombpotDist := distuv.Poisson{Lambda: 3, Src: src}
	standupDist := distuv.Exponential{Rate: 1.0 / 15.0, Src: src}

	start := now.AddDate(-2, 0, 0)

	sessions := make([]*domain.RawSession, n)
	for i := 0; i < n; i++ {
		profile := pickProfile(rng)

		buyinDist.Mu, buyinDist.Sigma = profile.buyinMean, profile.buyinStd
		resultDist.Mu, resultDist.Sigma = profile.resultMean, profile.resultStd

		buyin := math.Max(buyinDist.Rand(), 100)
		cashout := math.Max(buyin+resultDist.Rand(), 0)
		hours := clamp(hoursDist.Rand(), 1, 12)

		s := &domain.RawSession{
			Date:               start.AddDate(0, 0, rng.IntN(730)).Format("2006-01-02"),
			Room:               sampleRooms[rng.IntN(len(sampleRooms))],
			StakeText:          profile.stake,
			BuyinsUSD:          round2(buyin),
			CashoutsUSD:        round2(cashout),
			HoursPlayed:        math.Round(hours*10) / 10,
			StraddleExposure:   pickWeighted(rng, straddleWeights),
			SideBombpotsCount:  int(bombpotDist.Rand()),
			SideStandupMinutes: int(standupDist.Rand()),
			SideBountyFlag:     rng.Float64() < 0.1,
			StackDepthClass:    pickWeighted(rng, depthWeights),
			Notes:              fmt.Sprintf("Sample session %d", i),
		}
		s.SessionID = idhash.ComputeSessionID(s.Date, s.Room, s.StakeText, s.BuyinsUSD, s.CashoutsUSD, s.HoursPlayed)
		sessions[i] = s
	}
	return sessions
}

func pickProfile(rng *rand.Rand) stakeProfile {
	r := rng.Float64()
	cum := 0.0
	for _, p := range stakeProfiles {
		cum += p.weight
		if r < cum {
			return p
		}
	}
	return stakeProfiles[len(stakeProfiles)-1]
}

func pickWeighted(rng *rand.Rand, choices []weighted) string {
	r := rng.Float64()
	cum := 0.0
	for _, c := range choices {
		cum += c.weight
		if r < cum {
			return c.value
		}
	}
	return choices[len(choices)-1].value
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
