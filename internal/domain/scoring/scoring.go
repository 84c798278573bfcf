// Package scoring holds the numeric rules shared by the radar engine:
// normalization onto the radar scale, percentages and qualitative levels.
package scoring

import "math"

// DefaultTargetMax is the radar scale used by every axis.
const DefaultTargetMax = 10.0

// Percentage bucket lower bounds.
const (
	intermediateFrom = 40
	advancedFrom     = 60
	expertFrom       = 75
	masterFrom       = 90
	percentScale     = 100
)

// Level is the qualitative reading of a percentage.
type Level string

// Qualitative levels, lowest first.
const (
	LevelBeginner     Level = "Beginner"
	LevelIntermediate Level = "Intermediate"
	LevelAdvanced     Level = "Advanced"
	LevelExpert       Level = "Expert"
	LevelMaster       Level = "Master"
)

// Levels lists every level in ascending order.
func Levels() []Level {
	return []Level{LevelBeginner, LevelIntermediate, LevelAdvanced, LevelExpert, LevelMaster}
}

// Normalize rescales score/max onto [0, targetMax] rounded to two decimals.
// A non-positive max means "no data" and yields 0. score is expected to be
// non-negative; negative input is passed through unchecked.
func Normalize(score, max, targetMax float64) float64 {
	if max <= 0 {
		return 0
	}
	return Round2(score / max * targetMax)
}

// Round2 rounds half away from zero to two decimal places.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// Percentage returns round(total/max*100), or 0 when max is not positive.
func Percentage(total, max float64) int {
	if max <= 0 {
		return 0
	}
	p := math.Round(total / max * percentScale)
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return 0
	}
	return int(p)
}

// LevelFor maps a percentage to its level. Buckets include their lower
// bound and exclude their upper bound; the top bucket includes 100.
func LevelFor(percentage int) Level {
	switch {
	case percentage >= masterFrom:
		return LevelMaster
	case percentage >= expertFrom:
		return LevelExpert
	case percentage >= advancedFrom:
		return LevelAdvanced
	case percentage >= intermediateFrom:
		return LevelIntermediate
	default:
		return LevelBeginner
	}
}
