package stroke

import (
	"errors"
	"testing"

	"github.com/strokedex/strokedex/internal/domain"
	"github.com/strokedex/strokedex/internal/domain/geom"
)

func TestFeatureFromValues_RoundTrip(t *testing.T) {
	values := []float64{0, 0, 100, 100, 200, 200, 255, 255, 160, 255}
	f, err := FeatureFromValues(values)
	if err != nil {
		t.Fatalf("FeatureFromValues: %v", err)
	}
	if f.Angle() != 160 || f.Length() != 255 {
		t.Errorf("codes = (%d, %d), want (160, 255)", f.Angle(), f.Length())
	}
	if f.Point(2) != (geom.Point{X: 200, Y: 200}) {
		t.Errorf("Point(2) = %v", f.Point(2))
	}
	got := f.Values()
	for i, v := range values {
		if got[i] != v {
			t.Fatalf("Values()[%d] = %v, want %v", i, got[i], v)
		}
	}
}

func TestFeatureFromValues_WrongLength(t *testing.T) {
	_, err := FeatureFromValues([]float64{1, 2, 3})
	if !errors.Is(err, domain.ErrMalformedEntry) {
		t.Errorf("err = %v, want ErrMalformedEntry", err)
	}
}

func TestNewFeature_CoordinateGrid(t *testing.T) {
	// Sampled coordinates are quantized: only integers in [0,255] are valid.
	tests := []struct {
		name string
		pt   geom.Point
	}{
		{"fractional", geom.Point{X: 12.5, Y: 0}},
		{"negative", geom.Point{X: -1, Y: 0}},
		{"overflow", geom.Point{X: 0, Y: 256}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			points := make([]geom.Point, SamplePoints)
			points[1] = tt.pt
			if _, err := NewFeature(points, 0, 0); !errors.Is(err, domain.ErrMalformedEntry) {
				t.Errorf("err = %v, want ErrMalformedEntry", err)
			}
		})
	}
}

func TestNewFeature_CodeRanges(t *testing.T) {
	points := make([]geom.Point, SamplePoints)
	tests := []struct {
		name          string
		angle, length int
		wantErr       bool
	}{
		{"valid zero", 0, 0, false},
		{"valid max", 255, 255, false},
		{"angle overflow", 256, 0, true},
		{"angle negative", -1, 0, true},
		{"length overflow", 0, 256, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewFeature(points, tt.angle, tt.length)
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
