// Package geom provides the 2D vector operations the matching pipeline is
// built on. All functions are pure.
package geom

import "math"

// Point is a 2D coordinate.
type Point struct {
	X float64
	Y float64
}

// Sub returns a - b.
func Sub(a, b Point) Point {
	return Point{X: a.X - b.X, Y: a.Y - b.Y}
}

// Norm2 returns the squared magnitude of p.
func Norm2(p Point) float64 {
	return p.X*p.X + p.Y*p.Y
}

// Dist returns the Euclidean distance between a and b.
func Dist(a, b Point) float64 {
	return math.Sqrt(Norm2(Sub(a, b)))
}

// Round rounds both components to the nearest integer, halves away from zero.
// Every quantization step in the pipeline uses this rule; corpus
// preprocessing and query preprocessing must round identically or exact
// self-matching breaks.
func Round(p Point) Point {
	return Point{X: math.Round(p.X), Y: math.Round(p.Y)}
}
