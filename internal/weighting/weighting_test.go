package weighting

import (
	"math"
	"testing"
)

func TestWinWeight(t *testing.T) {
	cases := []struct {
		name  string
		delta float64
		alpha float64
		want  float64
	}{
		{"neutral delta", 0, 0.5, 1.0},
		{"above table", 2, 0.5, 0.5}, // 1/(1+0.5*2)
		{"well above table", 4, 0.5, 1.0 / 3.0},
		{"below table", -2, 0.5, 2.0}, // 1+0.5*2
		{"slightly below", -0.5, 0.5, 1.25},
		{"alpha zero disables", 3, 0, 1.0},
		{"alpha zero disables negative", -3, 0, 1.0},
		{"negative alpha clamped", 2, -1, 1.0},
		{"large alpha stays positive", 10, 100, 1.0 / 1001.0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := WinWeight(c.delta, c.alpha)
			if math.Abs(got-c.want) > 1e-12 {
				t.Errorf("WinWeight(%v, %v) = %v, want %v", c.delta, c.alpha, got, c.want)
			}
		})
	}
}

// Weights never reach zero or go negative for any non-negative alpha, which
// keeps the weighted denominator from shrinking below the numerator.
func TestWinWeightAlwaysPositive(t *testing.T) {
	for _, delta := range []float64{-4, -1, 0, 1, 4} {
		for _, alpha := range []float64{0, 0.1, 0.5, 1, 10} {
			if w := WinWeight(delta, alpha); w <= 0 {
				t.Errorf("WinWeight(%v, %v) = %v, want > 0", delta, alpha, w)
			}
		}
	}
}

func TestLabelScale(t *testing.T) {
	s := DefaultLabelScale()

	if got := s.Label(nil); got != "n/a" {
		t.Errorf("nil index: got %q, want n/a", got)
	}

	cases := []struct {
		index float64
		want  string
	}{
		{2.5, "pubstomp"},
		{2.0, "pubstomp"}, // threshold is inclusive
		{1.5, "over"},
		{1.0, "over"},
		{0.99, "fair"},
		{0, "fair"},
		{-0.99, "fair"},
		{-1.0, "underdog"},
		{-3, "underdog"},
	}
	for _, c := range cases {
		if got := s.Label(&c.index); got != c.want {
			t.Errorf("Label(%v) = %q, want %q", c.index, got, c.want)
		}
	}
}

func TestLabelScaleCustomThresholds(t *testing.T) {
	s := LabelScale{
		Stomp: 0.5, Above: 0.25, Below: -0.25,
		StompLabel: "hot", AboveLabel: "warm", BelowLabel: "cold",
		NeutralLabel: "even", UnknownLabel: "?",
	}
	v := 0.3
	if got := s.Label(&v); got != "warm" {
		t.Errorf("custom scale: got %q, want warm", got)
	}
}
