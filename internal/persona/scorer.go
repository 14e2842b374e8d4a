package persona

import (
	"math"

	"github.com/speakbetter/persona-coach/internal/types"
)

// Score rates extracted speech metrics against a persona's targets. It is a
// total function: malformed targets degrade to documented sentinel scores
// rather than failing.
//
// Clarity is a fixed 0.9 placeholder until a real clarity measurement exists,
// and confidence mirrors the filler-control score (fewer fillers reads as more
// confident). Both are deliberate, not derived.
func Score(metrics types.Metrics, p types.Persona) types.PersonaScore {
	paceScore := scorePace(metrics.WPM, p.Targets.WPM)
	fillerScore := scoreFillerControl(metrics.FillersPerMin, p.Targets.MaxFillersPerMin)

	clarityScore := 0.9
	confidenceScore := fillerScore

	dims := types.ScoreDimensions{
		Pace:          round3(paceScore),
		Clarity:       round3(clarityScore),
		Confidence:    round3(confidenceScore),
		FillerControl: round3(fillerScore),
	}

	overall := (dims.Pace + dims.Clarity + dims.Confidence + dims.FillerControl) / 4.0

	return types.PersonaScore{
		Overall:    round3(overall),
		Dimensions: dims,
	}
}

// scorePace maps a WPM value onto a step function over distance from the
// target range:
//
//	in range            -> 0.95
//	within 15% of bound -> 0.80
//	within 50% of bound -> 0.50
//	further / invalid   -> 0.20
//
// Distance is normalized by the range width (floored at 1 to avoid division
// blowups on degenerate ranges).
func scorePace(wpm float64, targetRange []float64) float64 {
	if wpm <= 0 || len(targetRange) != 2 {
		return 0.2
	}

	low, high := targetRange[0], targetRange[1]
	if low <= wpm && wpm <= high {
		return 0.95
	}

	rangeWidth := math.Max(high-low, 1.0)
	var diff float64
	if wpm < low {
		diff = (low - wpm) / rangeWidth
	} else {
		diff = (wpm - high) / rangeWidth
	}

	switch {
	case diff <= 0.15:
		return 0.8
	case diff <= 0.5:
		return 0.5
	default:
		return 0.2
	}
}

// scoreFillerControl rewards staying at or under the persona's allowed filler
// rate with 0.98, then decays linearly to 0.2 at three times the allowance.
// A non-positive allowance is a degenerate target and scores a flat 0.5.
func scoreFillerControl(fillersPerMin, maxAllowed float64) float64 {
	if maxAllowed <= 0 {
		return 0.5
	}

	if fillersPerMin <= maxAllowed {
		return 0.98
	}

	ratio := fillersPerMin / maxAllowed
	if ratio >= 3.0 {
		return 0.2
	}

	score := 0.98 - (ratio-1.0)*((0.98-0.2)/2.0)
	return math.Max(0.2, score)
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
