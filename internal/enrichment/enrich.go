// Package enrichment derives the per-session features that matter for
// variance: straddle exposure, side game intensity, stack depth effects,
// and the per-hand outcomes the estimator consumes.
package enrichment

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"bankroll-lab/internal/domain"
)

// straddleMultipliers converts straddle exposure to a numeric impact
// factor affecting effective blind size and variance.
var straddleMultipliers = map[string]float64{
	domain.StraddleNone:      1.0,
	domain.StraddleLow:       1.1,
	domain.StraddleMedium:    1.25,
	domain.StraddleHigh:      1.5,
	domain.StraddleMandatory: 2.0,
}

// depthEffect holds variance and skill multipliers for a stack depth class.
type depthEffect struct {
	varianceMult float64
	skillMult    float64
}

var depthEffects = map[string]depthEffect{
	domain.DepthShallow:  {varianceMult: 0.7, skillMult: 1.1},
	domain.DepthNormal:   {varianceMult: 1.0, skillMult: 1.0},
	domain.DepthDeep:     {varianceMult: 1.4, skillMult: 1.15},
	domain.DepthVeryDeep: {varianceMult: 2.0, skillMult: 1.3},
}

// Hands-per-hour heuristic for live poker, adjusted for game conditions.
const (
	baseHandsPerHour     = 30.0
	straddleHandsAdj     = -2.0 // straddling slows the game
	deepStackHandsAdj    = -3.0 // deep play slows decisions
	sideGameHandsAdj     = -5.0 // side games slow main action
	maxBombpotsPerHour   = 5.0
	maxStandupShare      = 0.5
	straddleAdjThreshold = 1.1 // multipliers above "low" slow the game
)

// EffectiveBB extracts the big blind size from stake text.
// "1-3" -> 3, "2-5" -> 5, "2-5-10" -> 5 (main game BB; the straddle is
// handled by the straddle multiplier).
func EffectiveBB(stakeText string) (float64, error) {
	parts := strings.Split(stakeText, "-")
	if len(parts) < 2 {
		return 0, fmt.Errorf("stake text %q: expected at least two blind levels", stakeText)
	}
	bb, err := strconv.ParseFloat(parts[1], 64)
	if err != nil || bb <= 0 {
		return 0, fmt.Errorf("stake text %q: invalid big blind %q", stakeText, parts[1])
	}
	return bb, nil
}

// StraddleMultiplier returns the impact factor for a straddle exposure
// class. Unknown classes are treated as no straddle.
func StraddleMultiplier(exposure string) float64 {
	if m, ok := straddleMultipliers[exposure]; ok {
		return m
	}
	return 1.0
}

// SideGameIntensity computes the composite 0..3 side game score from bomb
// pot rate, stand-up game share, and bounty flag.
func SideGameIntensity(s *domain.RawSession) float64 {
	bombpot := clamp(float64(s.SideBombpotsCount)/s.HoursPlayed, 0, maxBombpotsPerHour) / maxBombpotsPerHour
	standup := clamp(float64(s.SideStandupMinutes)/(s.HoursPlayed*60), 0, maxStandupShare) / maxStandupShare
	bounty := 0.0
	if s.SideBountyFlag {
		bounty = 1.0
	}
	return bombpot + standup + bounty
}

// HandsPerHour estimates dealt hands per hour for a session's conditions.
func HandsPerHour(straddleMult float64, depthClass string, sideIntensity float64) float64 {
	rate := baseHandsPerHour
	if straddleMult > straddleAdjThreshold {
		rate += straddleHandsAdj
	}
	if depthClass == domain.DepthDeep || depthClass == domain.DepthVeryDeep {
		rate += deepStackHandsAdj
	}
	rate += sideGameHandsAdj * math.Min(sideIntensity, 1)
	return rate
}

// Enrich derives all features for a batch of raw sessions, preserving
// input order. Sessions with unparseable stake text fail the whole batch:
// a malformed stake would silently land its sessions in a phantom group.
func Enrich(sessions []*domain.RawSession) ([]*domain.SessionSample, error) {
	samples := make([]*domain.SessionSample, 0, len(sessions))
	for _, s := range sessions {
		sample, err := enrichOne(s)
		if err != nil {
			return nil, fmt.Errorf("enrich session %s: %w", s.SessionID, err)
		}
		samples = append(samples, sample)
	}
	return samples, nil
}

func enrichOne(s *domain.RawSession) (*domain.SessionSample, error) {
	if s.HoursPlayed <= 0 {
		return nil, fmt.Errorf("hours_played must be > 0, got %g", s.HoursPlayed)
	}
	if s.BuyinsUSD <= 0 {
		return nil, fmt.Errorf("buyins_usd must be > 0, got %g", s.BuyinsUSD)
	}

	bb, err := EffectiveBB(s.StakeText)
	if err != nil {
		return nil, err
	}

	straddleMult := StraddleMultiplier(s.StraddleExposure)
	effectiveBB := bb * straddleMult
	sideIntensity := SideGameIntensity(s)

	depth, ok := depthEffects[s.StackDepthClass]
	if !ok {
		depth = depthEffects[domain.DepthNormal]
	}

	netResult := s.CashoutsUSD - s.BuyinsUSD
	hourlyRate := netResult / s.HoursPlayed
	bbPerSession := netResult / effectiveBB

	handsPerHour := HandsPerHour(straddleMult, s.StackDepthClass, sideIntensity)
	handsPlayed := int(math.Round(handsPerHour * s.HoursPlayed))
	if handsPlayed < 1 {
		handsPlayed = 1 // the estimator assumes nonzero hands_played
	}

	return &domain.SessionSample{
		SessionID: s.SessionID,
		Date:      s.Date,
		Room:      s.Room,
		StakeID:   s.StakeText,

		EffectiveBB:             bb,
		StraddleMultiplier:      straddleMult,
		EffectiveBBWithStraddle: effectiveBB,
		SideGameIntensity:       sideIntensity,
		DepthVarianceMult:       depth.varianceMult,
		DepthSkillMult:          depth.skillMult,

		NetResultUSD:  netResult,
		ROI:           netResult / s.BuyinsUSD,
		HourlyRateUSD: hourlyRate,
		BBPerHour:     hourlyRate / effectiveBB,
		BBPerSession:  bbPerSession,

		HoursPlayed:  s.HoursPlayed,
		HandsPerHour: handsPerHour,
		HandsPlayed:  handsPlayed,
		BBPerHand:    bbPerSession / float64(handsPlayed),
		USDPerHand:   netResult / float64(handsPlayed),
	}, nil
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
