package match

import (
	"reflect"
	"testing"

	"github.com/strokedex/strokedex/internal/domain/geom"
	"github.com/strokedex/strokedex/internal/domain/stroke"
)

func TestResample_FixedArity(t *testing.T) {
	tests := []struct {
		name string
		in   stroke.Stroke
	}{
		{"single point", pts(42, 42)},
		{"two points", pts(0, 0, 255, 255)},
		{"duplicates only", pts(7, 7, 7, 7, 7, 7)},
		{"long polyline", pts(0, 0, 10, 0, 10, 10, 20, 10, 20, 20, 30, 20, 40, 40)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resample(tt.in, stroke.SamplePoints)
			if len(got) != stroke.SamplePoints {
				t.Errorf("len = %d, want %d", len(got), stroke.SamplePoints)
			}
		})
	}
}

func TestResample_EndpointPreservedExactly(t *testing.T) {
	in := pts(0, 0, 50, 80, 10.3, 20.7)
	got := Resample(in, stroke.SamplePoints)
	if got[len(got)-1] != (geom.Point{X: 10.3, Y: 20.7}) {
		t.Errorf("last point = %v, want the original endpoint", got[len(got)-1])
	}
}

func TestResample_EvenSpacingOnLine(t *testing.T) {
	got := Resample(pts(0, 0, 255, 0), stroke.SamplePoints)
	want := pts(0, 0, 85, 0, 170, 0, 255, 0)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Resample() = %v, want %v", got, want)
	}
}

func TestResample_AlreadySampled(t *testing.T) {
	in := pts(0, 0, 100, 100, 200, 200, 255, 255)
	got := Resample(in, stroke.SamplePoints)
	if len(got) != stroke.SamplePoints {
		t.Fatalf("len = %d", len(got))
	}
	// Evenly spaced along the diagonal: 0, 85, 170, then the exact endpoint.
	want := pts(0, 0, 85, 85, 170, 170, 255, 255)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Resample() = %v, want %v", got, want)
	}
}

func TestResample_SinglePointRepeats(t *testing.T) {
	got := Resample(pts(9, 9), stroke.SamplePoints)
	for i, p := range got {
		if p != (geom.Point{X: 9, Y: 9}) {
			t.Errorf("point %d = %v, want (9,9)", i, p)
		}
	}
}

func TestResample_DuplicateSegmentGuard(t *testing.T) {
	// Zero-length segment in the middle must be skipped, not divided by.
	got := Resample(pts(0, 0, 0, 0, 90, 0), stroke.SamplePoints)
	want := pts(0, 0, 30, 0, 60, 0, 90, 0)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Resample() = %v, want %v", got, want)
	}
}
