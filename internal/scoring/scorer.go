package scoring

import (
	"math"
)

// Score bounds.
const (
	MinScore = 0.0
	MaxScore = 100.0
)

// Impact messages, one per score tier.
const (
	MessageLow          = "low impact"
	MessageModerateLow  = "moderate-low impact"
	MessageModerateHigh = "moderate-high impact"
	MessageHigh         = "high impact"
)

// ScoreFunc computes a score and its message from validated input.
type ScoreFunc func(in Input) (float64, string)

// Scorer applies the linear impact formula:
//
//	score = round2(clamp(valor * factor, 0, 100))
type Scorer struct{}

// NewScorer creates a Scorer.
func NewScorer() *Scorer {
	return &Scorer{}
}

// Score computes the bounded score for in and the message for its tier.
func (s *Scorer) Score(in Input) (float64, string) {
	score := round2(clamp(in.Valor*in.Factor, MinScore, MaxScore))
	return score, MessageFor(score)
}

// MessageFor maps a score to its tier message. Lower bounds are inclusive.
//
//	[0,25)=low, [25,50)=moderate-low, [50,75)=moderate-high, [75,100]=high
func MessageFor(score float64) string {
	switch {
	case score < 25:
		return MessageLow
	case score < 50:
		return MessageModerateLow
	case score < 75:
		return MessageModerateHigh
	default:
		return MessageHigh
	}
}

// round2 rounds half away from zero to two decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// clamp bounds v to [min,max]. NaN maps to min.
func clamp(v, min, max float64) float64 {
	if !(v >= min) {
		return min
	}
	if v > max {
		return max
	}
	return v
}
