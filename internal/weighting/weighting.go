// Package weighting holds the bracket-mismatch win weighting and the
// qualitative labelling of the pressure index. Both are pure functions of
// their inputs and a small configuration.
package weighting

// DefaultAlpha is the coefficient used when the caller does not override it.
const DefaultAlpha = 0.5

// WinWeight returns the weight applied to a win given the bracket delta
// (winner tier minus table average) and coefficient alpha.
//
//	delta > 0: winner above the table average, the win counts less
//	delta < 0: winner below the table average, the win counts more
//	delta = 0: neutral
//
// Negative alpha is clamped to 0, which makes every weight 1 and the
// weighted scheme degenerate to plain counting. Weights are always > 0.
func WinWeight(delta, alpha float64) float64 {
	if alpha < 0 {
		alpha = 0
	}
	switch {
	case delta > 0:
		return 1.0 / (1.0 + alpha*delta)
	case delta < 0:
		return 1.0 + alpha*(-delta)
	default:
		return 1.0
	}
}

// LabelScale maps a pressure index value to a qualitative label via three
// thresholds. Evaluation order: v >= Stomp, v >= Above, v <= Below, else
// neutral. A nil index gets UnknownLabel.
type LabelScale struct {
	Stomp float64
	Above float64
	Below float64

	StompLabel   string
	AboveLabel   string
	BelowLabel   string
	NeutralLabel string
	UnknownLabel string
}

// DefaultLabelScale returns the label thresholds the tracker has always
// shipped with.
func DefaultLabelScale() LabelScale {
	return LabelScale{
		Stomp:        2.0,
		Above:        1.0,
		Below:        -1.0,
		StompLabel:   "pubstomp",
		AboveLabel:   "over",
		BelowLabel:   "underdog",
		NeutralLabel: "fair",
		UnknownLabel: "n/a",
	}
}

// Label classifies a pressure index value.
func (s LabelScale) Label(index *float64) string {
	if index == nil {
		return s.UnknownLabel
	}
	v := *index
	switch {
	case v >= s.Stomp:
		return s.StompLabel
	case v >= s.Above:
		return s.AboveLabel
	case v <= s.Below:
		return s.BelowLabel
	default:
		return s.NeutralLabel
	}
}
