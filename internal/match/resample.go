package match

import (
	"github.com/strokedex/strokedex/internal/domain/geom"
	"github.com/strokedex/strokedex/internal/domain/stroke"
)

// Resample reduces a non-empty stroke to exactly n points spaced evenly by
// distance traveled along the polyline. The first n-1 points are
// interpolated on the integer grid; the last point is always the stroke's
// final input point, so silhouette endpoints survive exactly. A single-point
// stroke yields that point n times.
func Resample(s stroke.Stroke, n int) stroke.Stroke {
	total := 0.0
	for i := 0; i+1 < len(s); i++ {
		total += geom.Dist(s[i], s[i+1])
	}

	out := make(stroke.Stroke, 0, n)
	h := 0            // current segment index
	candidate := s[0] // current position along the walk
	u := 0.0          // arc length traveled so far

	for i := 0; i < n-1; i++ {
		target := float64(i) * total / float64(n-1)
		for target > u && h+1 < len(s) {
			seg := geom.Dist(candidate, s[h+1])
			if seg == 0 {
				// Duplicate consecutive points (projection rounding can
				// produce them): carry the point forward, never divide.
				h++
				candidate = s[h]
				continue
			}
			if target > u+seg {
				h++
				candidate = s[h]
				u += seg
			} else {
				f := (target - u) / seg
				candidate = geom.Point{
					X: (1-f)*candidate.X + f*s[h+1].X,
					Y: (1-f)*candidate.Y + f*s[h+1].Y,
				}
				u = target
			}
		}
		out = append(out, geom.Round(candidate))
	}

	return append(out, s[len(s)-1])
}
