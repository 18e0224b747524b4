package match

import (
	"testing"

	"github.com/strokedex/strokedex/internal/domain/stroke"
)

func feature(t *testing.T, values ...float64) stroke.Feature {
	t.Helper()
	f, err := stroke.FeatureFromValues(values)
	if err != nil {
		t.Fatalf("FeatureFromValues(%v): %v", values, err)
	}
	return f
}

// diagonal is the canonical diagonal stroke used across the scoring tests.
func diagonal(t *testing.T) stroke.Feature {
	return feature(t, 0, 0, 100, 100, 200, 200, 255, 255, 160, 255)
}

func TestCircularDistance_SymmetryAndBound(t *testing.T) {
	for a := 0; a < stroke.SpaceSize; a += 7 {
		for b := 0; b < stroke.SpaceSize; b++ {
			ab := CircularDistance(a, b, stroke.SpaceSize)
			ba := CircularDistance(b, a, stroke.SpaceSize)
			if ab != ba {
				t.Fatalf("CircularDistance(%d,%d) = %d, reversed = %d", a, b, ab, ba)
			}
			if ab < 0 || ab > 128 {
				t.Fatalf("CircularDistance(%d,%d) = %d, want [0,128]", a, b, ab)
			}
		}
	}
}

func TestCircularDistance_Wraparound(t *testing.T) {
	if got := CircularDistance(1, 255, stroke.SpaceSize); got != 2 {
		t.Errorf("CircularDistance(1,255) = %d, want 2", got)
	}
	if got := CircularDistance(0, 128, stroke.SpaceSize); got != 128 {
		t.Errorf("CircularDistance(0,128) = %d, want 128", got)
	}
}

func TestScore_IdenticalIsZero(t *testing.T) {
	q := []stroke.Feature{diagonal(t)}
	if got := Score(q, q, DefaultScoreParams(), 1); got != 0 {
		t.Errorf("Score(self) = %v, want 0", got)
	}
}

func TestScore_OffsetStrokes(t *testing.T) {
	// Same direction, every point shifted by 10 (last by -10): pure position
	// penalty of 80, zero angle penalty.
	q := []stroke.Feature{diagonal(t)}
	r := []stroke.Feature{feature(t, 10, 10, 110, 110, 210, 210, 245, 245, 160, 235)}
	if got := Score(q, r, DefaultScoreParams(), 1); got != -80 {
		t.Errorf("Score() = %v, want -80", got)
	}
}

func TestScore_AnglePenaltyWeightedByLength(t *testing.T) {
	q := []stroke.Feature{feature(t, 0, 0, 0, 0, 0, 0, 0, 0, 0, 128)}
	r := []stroke.Feature{feature(t, 0, 0, 0, 0, 0, 0, 0, 0, 10, 128)}
	// d=10, lengthy=(128+128)/256=1, penalty = 4*4*1*10.
	if got := Score(q, r, DefaultScoreParams(), 1); got != -160 {
		t.Errorf("Score() = %v, want -160", got)
	}
}

func TestScore_PositionPenaltyMonotonic(t *testing.T) {
	q := []stroke.Feature{diagonal(t)}
	base := Score(q, []stroke.Feature{feature(t, 5, 0, 100, 100, 200, 200, 255, 255, 160, 255)},
		DefaultScoreParams(), 1)
	worse := Score(q, []stroke.Feature{feature(t, 6, 0, 100, 100, 200, 200, 255, 255, 160, 255)},
		DefaultScoreParams(), 1)
	if worse >= base {
		t.Errorf("larger coordinate gap did not lower the score: %v >= %v", worse, base)
	}
}

func TestPairPolicies(t *testing.T) {
	tests := []struct {
		name   string
		policy PairPolicy
		q, r   int
		wantN  int
		wantOK bool
	}{
		{"zip equal", ZipShorter, 3, 3, 3, true},
		{"zip query shorter", ZipShorter, 2, 5, 2, true},
		{"zip reference shorter", ZipShorter, 5, 2, 2, true},
		{"strict equal", StrictCount, 3, 3, 3, true},
		{"strict mismatch", StrictCount, 3, 4, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, ok := tt.policy(tt.q, tt.r)
			if n != tt.wantN || ok != tt.wantOK {
				t.Errorf("policy(%d,%d) = (%d,%v), want (%d,%v)",
					tt.q, tt.r, n, ok, tt.wantN, tt.wantOK)
			}
		})
	}
}

func TestPolicyByName(t *testing.T) {
	if _, err := PolicyByName("zip"); err != nil {
		t.Errorf("zip: %v", err)
	}
	if _, err := PolicyByName(""); err != nil {
		t.Errorf("default: %v", err)
	}
	if _, err := PolicyByName("strict"); err != nil {
		t.Errorf("strict: %v", err)
	}
	if _, err := PolicyByName("nope"); err == nil {
		t.Error("unknown policy accepted")
	}
}
