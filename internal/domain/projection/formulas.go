package projection

import (
	"math"

	"github.com/okian/propcast/internal/domain/matchup"
	"github.com/okian/propcast/internal/domain/model"
)

// Clip bounds keep rates inside realistic MLB ranges regardless of
// what the exports claim (decimal space).
const (
	minBBRate    = 0.00
	maxBBRate    = 0.20
	minKRate     = 0.05
	maxKRate     = 0.40
	minHRPerAB   = 0.00
	maxHRPerAB   = 0.12
	minHitsPerAB = 0.15
	maxHitsPerAB = 0.40
	minXBHShare  = 0.05
	maxXBHShare  = 0.60
)

// XBH mix: share of non-HR extra-base hits that are doubles/triples.
const (
	doublesShare = 0.65
	triplesShare = 0.10
)

// Bounds for the opposing-pitcher and weather multipliers.
const (
	minAdjustment = 0.70
	maxAdjustment = 1.30
	minWeather    = 0.95
	maxWeather    = 1.05
)

// Context carries the game-level multiplier inputs for one player.
type Context struct {
	ParkFactor  float64
	Temperature float64
	WindSpeed   float64
	Dome        bool
	// Opposing starter rates; the Has flags distinguish a true zero
	// from an absent starter.
	OppKPercent     float64
	HasOppKPercent  bool
	OppBBPercent    float64
	HasOppBBPercent bool
}

// Input is one merged player row ready for projection. Rates is keyed
// by the merged-artifact column names; a missing key means the field
// was empty on both the live row and the fallback table.
type Input struct {
	Player  model.PlayerIdentity
	GameID  string
	Rates   map[string]float64
	Context Context
}

// Formula computes one stat's projected value for a player. It must be
// a pure function of the input. The second return is false when the
// player misses a rate the stat requires, which excludes the player
// from that stat's cohort.
type Formula func(in Input) (float64, bool)

// FormulaConfig anchors the multiplier formulas.
type FormulaConfig struct {
	LeagueKRate      float64
	LeagueBBRate     float64
	PitcherAdjWeight float64
	// TempBaseline is the temperature with a neutral weather factor;
	// TempWeight is the per-degree drift, applied outdoors only.
	TempBaseline float64
	TempWeight   float64
}

// DefaultFormulaConfig returns league-average anchors.
func DefaultFormulaConfig() FormulaConfig {
	return FormulaConfig{
		LeagueKRate:      0.220,
		LeagueBBRate:     0.082,
		PitcherAdjWeight: 0.75,
		TempBaseline:     70,
		TempWeight:       0.0025,
	}
}

// DefaultFormulas builds the standard batter prop formulas:
// hits, total bases, walks, and home runs.
func DefaultFormulas(cfg FormulaConfig) map[model.StatType]Formula {
	return map[model.StatType]Formula{
		model.StatHits:       hitsFormula(cfg),
		model.StatTotalBases: totalBasesFormula(cfg),
		model.StatWalks:      walksFormula(),
		model.StatHomeRuns:   homeRunsFormula(cfg),
	}
}

// NormalizeRate accepts a rate as either percent (12 for 12%) or
// decimal (0.12) and returns decimal space.
func NormalizeRate(v float64) float64 {
	if math.Abs(v) > 1 {
		return v / 100
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}

// atBats derives AB = PA x (1 - BB%), the denominator for every
// AB-scaled stat.
func atBats(in Input) (float64, bool) {
	pa, ok := in.Rates[matchup.ColPA]
	if !ok || pa <= 0 {
		return 0, false
	}
	bb, ok := in.Rates[matchup.ColBBPercent]
	if !ok {
		return 0, false
	}
	return pa * (1 - clamp(NormalizeRate(bb), minBBRate, maxBBRate)), true
}

// contactAdjustment scales hit-type stats by the opposing starter's
// strikeout rate relative to league average: a high-strikeout starter
// suppresses contact. Falls back to the batter's own K% when no
// starter context exists.
func contactAdjustment(cfg FormulaConfig, in Input) float64 {
	k, ok := in.Rates[matchup.ColKPercent]
	if in.Context.HasOppKPercent {
		k, ok = in.Context.OppKPercent, true
	}
	if !ok {
		return 1
	}
	k = clamp(NormalizeRate(k), minKRate, maxKRate)
	return clamp(1-cfg.PitcherAdjWeight*(k-cfg.LeagueKRate), minAdjustment, maxAdjustment)
}

// weatherFactor drifts with temperature in open-air parks; domes are
// always neutral.
func weatherFactor(cfg FormulaConfig, in Input) float64 {
	if in.Context.Dome || in.Context.Temperature == 0 {
		return 1
	}
	return clamp(1+cfg.TempWeight*(in.Context.Temperature-cfg.TempBaseline), minWeather, maxWeather)
}

func parkFactor(in Input) float64 {
	if in.Context.ParkFactor <= 0 {
		return 1
	}
	return in.Context.ParkFactor
}

func hitsPerAB(in Input) (float64, bool) {
	h, ok := in.Rates[matchup.ColHitsPerAB]
	if !ok {
		return 0, false
	}
	return clamp(NormalizeRate(h), minHitsPerAB, maxHitsPerAB), true
}

// hrPerAB prefers the export's HR rate; when absent it falls back to a
// conservative share of the hit rate.
func hrPerAB(in Input) (float64, bool) {
	if hr, ok := in.Rates[matchup.ColHRPerAB]; ok {
		return clamp(NormalizeRate(hr), minHRPerAB, maxHRPerAB), true
	}
	h, ok := hitsPerAB(in)
	if !ok {
		return 0, false
	}
	return clamp(0.12*h, minHRPerAB, maxHRPerAB), true
}

func hitsFormula(cfg FormulaConfig) Formula {
	return func(in Input) (float64, bool) {
		ab, ok := atBats(in)
		if !ok {
			return 0, false
		}
		h, ok := hitsPerAB(in)
		if !ok {
			return 0, false
		}
		return ab * h * parkFactor(in) * weatherFactor(cfg, in) * contactAdjustment(cfg, in), true
	}
}

func homeRunsFormula(cfg FormulaConfig) Formula {
	return func(in Input) (float64, bool) {
		ab, ok := atBats(in)
		if !ok {
			return 0, false
		}
		hr, ok := hrPerAB(in)
		if !ok {
			return 0, false
		}
		return ab * hr * parkFactor(in) * weatherFactor(cfg, in) * contactAdjustment(cfg, in), true
	}
}

// walksFormula projects walks from plate appearances and walk rate,
// preferring the opposing starter's walk rate when available.
func walksFormula() Formula {
	return func(in Input) (float64, bool) {
		pa, ok := in.Rates[matchup.ColPA]
		if !ok || pa <= 0 {
			return 0, false
		}
		bb, ok := in.Rates[matchup.ColBBPercent]
		if in.Context.HasOppBBPercent {
			bb, ok = in.Context.OppBBPercent, true
		}
		if !ok {
			return 0, false
		}
		return pa * clamp(NormalizeRate(bb), minBBRate, maxBBRate), true
	}
}

// totalBasesFormula uses a simple total-base mix: singles plus
// extra-base hits split into doubles, triples, and home runs.
func totalBasesFormula(cfg FormulaConfig) Formula {
	return func(in Input) (float64, bool) {
		ab, ok := atBats(in)
		if !ok {
			return 0, false
		}
		h, ok := hitsPerAB(in)
		if !ok {
			return 0, false
		}
		hr, ok := hrPerAB(in)
		if !ok {
			return 0, false
		}

		xbhShare := clamp(hr/h+0.1, minXBHShare, maxXBHShare)
		xbhPerAB := xbhShare * h
		singlesPerAB := (1 - xbhShare) * h
		hr = math.Min(hr, xbhPerAB) // HR cannot exceed total XBH
		remXBH := xbhPerAB - hr

		tbPerAB := singlesPerAB +
			2*doublesShare*remXBH +
			3*triplesShare*remXBH +
			4*hr

		return ab * tbPerAB * parkFactor(in) * weatherFactor(cfg, in) * contactAdjustment(cfg, in), true
	}
}
