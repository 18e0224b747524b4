// Package stroke defines the stroke and feature-vector value types.
package stroke

import (
	"fmt"
	"math"

	"github.com/strokedex/strokedex/internal/domain"
	"github.com/strokedex/strokedex/internal/domain/geom"
)

// SamplePoints is the number of points sampled per stroke during encoding.
const SamplePoints = 4

// SpaceSize is the side length of the canonical coordinate space. All
// normalized coordinates and the angle code live in [0, SpaceSize).
const SpaceSize = 256

// Stroke is an ordered sequence of points as originally drawn.
type Stroke []geom.Point

// Feature is the quantized fixed-size summary of one stroke: SamplePoints
// sampled points with integer-valued coordinates in [0,255], an 8-bit
// circular angle code, and a length code in [0,255]. Coordinates stay in
// float64 form; after quantization they hold exact small integers, so
// score arithmetic is exact.
type Feature struct {
	points []geom.Point
	angle  int
	length int
}

// FieldCount is the number of numeric fields in a serialized Feature:
// 2*SamplePoints coordinates plus angle and length codes.
const FieldCount = 2*SamplePoints + 2

// NewFeature builds a feature from sampled points and codes.
func NewFeature(points []geom.Point, angle, length int) (Feature, error) {
	if len(points) != SamplePoints {
		return Feature{}, fmt.Errorf("%w: %d sampled points, want %d",
			domain.ErrMalformedEntry, len(points), SamplePoints)
	}
	for i, pt := range points {
		if !validCoord(pt.X) || !validCoord(pt.Y) {
			return Feature{}, fmt.Errorf("%w: point %d (%v, %v) not on the [0,%d] integer grid",
				domain.ErrMalformedEntry, i, pt.X, pt.Y, SpaceSize-1)
		}
	}
	if angle < 0 || angle >= SpaceSize {
		return Feature{}, fmt.Errorf("%w: angle code %d out of [0,%d)",
			domain.ErrMalformedEntry, angle, SpaceSize)
	}
	if length < 0 || length > SpaceSize-1 {
		return Feature{}, fmt.Errorf("%w: length code %d out of [0,%d]",
			domain.ErrMalformedEntry, length, SpaceSize-1)
	}
	pts := make([]geom.Point, SamplePoints)
	copy(pts, points)
	return Feature{points: pts, angle: angle, length: length}, nil
}

func validCoord(v float64) bool {
	return v == math.Trunc(v) && v >= 0 && v <= SpaceSize-1
}

// FeatureFromValues parses the flat numeric record form
// [x0, y0, ..., x3, y3, angle, length].
func FeatureFromValues(values []float64) (Feature, error) {
	if len(values) != FieldCount {
		return Feature{}, fmt.Errorf("%w: %d fields, want %d",
			domain.ErrMalformedEntry, len(values), FieldCount)
	}
	points := make([]geom.Point, SamplePoints)
	for i := range points {
		points[i] = geom.Point{X: values[2*i], Y: values[2*i+1]}
	}
	return NewFeature(points, int(values[2*SamplePoints]), int(values[2*SamplePoints+1]))
}

// Point returns the i-th sampled point.
func (f *Feature) Point(i int) geom.Point { return f.points[i] }

// Angle returns the circular angle code in [0,256).
func (f *Feature) Angle() int { return f.angle }

// Length returns the length code in [0,255].
func (f *Feature) Length() int { return f.length }

// Values returns the flat numeric record form, mirroring FeatureFromValues.
func (f *Feature) Values() []float64 {
	out := make([]float64, 0, FieldCount)
	for _, p := range f.points {
		out = append(out, p.X, p.Y)
	}
	return append(out, float64(f.angle), float64(f.length))
}
