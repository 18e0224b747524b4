package match

import (
	"math"

	"github.com/strokedex/strokedex/internal/domain/geom"
	"github.com/strokedex/strokedex/internal/domain/stroke"
)

// NormalizeParams controls bounding-box expansion before projection.
type NormalizeParams struct {
	// MaxRatio caps the width:height ratio of the bounding box; 1.0 forces a
	// square box. 0 disables the constraint.
	MaxRatio float64
	// MinWidth is the minimum bounding-box extent per axis.
	MinWidth float64
}

// DefaultNormalizeParams returns the parameters the corpus was built with.
func DefaultNormalizeParams() NormalizeParams {
	return NormalizeParams{MaxRatio: 1.0, MinWidth: 8}
}

type aabb struct {
	min geom.Point
	max geom.Point
}

func boundingBox(strokes []stroke.Stroke) aabb {
	b := aabb{
		min: geom.Point{X: math.Inf(1), Y: math.Inf(1)},
		max: geom.Point{X: math.Inf(-1), Y: math.Inf(-1)},
	}
	for _, s := range strokes {
		for _, p := range s {
			b.min.X = math.Min(b.min.X, p.X)
			b.min.Y = math.Min(b.min.Y, p.Y)
			b.max.X = math.Max(b.max.X, p.X)
			b.max.Y = math.Max(b.max.Y, p.Y)
		}
	}
	return b
}

// expand grows the box to satisfy the minimum-width and aspect-ratio
// constraints, each dimension symmetrically around its center. Minimum-width
// expansion runs first; ratio equalization then reconsiders the already
// expanded extents.
func (b aabb) expand(p NormalizeParams) aabb {
	b.min = geom.Round(b.min)
	b.max = geom.Round(b.max)

	e := geom.Sub(b.max, b.min)
	if e.X < p.MinWidth {
		i := math.Ceil((p.MinWidth - e.X) / 2)
		b.min.X -= i
		b.max.X += i
	}
	if e.Y < p.MinWidth {
		i := math.Ceil((p.MinWidth - e.Y) / 2)
		b.min.Y -= i
		b.max.Y += i
	}

	if p.MaxRatio > 0 {
		e = geom.Sub(b.max, b.min)
		if e.X < e.Y/p.MaxRatio {
			i := math.Ceil((e.Y/p.MaxRatio - e.X) / 2)
			b.min.X -= i
			b.max.X += i
		} else if e.Y < e.X/p.MaxRatio {
			i := math.Ceil((e.X/p.MaxRatio - e.Y) / 2)
			b.min.Y -= i
			b.max.Y += i
		}
	}

	return b
}

// Normalize projects every point of every stroke from its own bounding box
// into the canonical [0,255]x[0,255] space. Pure: the input is not modified.
func Normalize(strokes []stroke.Stroke, p NormalizeParams) []stroke.Stroke {
	b := boundingBox(strokes).expand(p)
	extent := geom.Sub(b.max, b.min)
	side := float64(stroke.SpaceSize - 1)

	out := make([]stroke.Stroke, len(strokes))
	for i, s := range strokes {
		projected := make(stroke.Stroke, len(s))
		for j, pt := range s {
			projected[j] = geom.Round(geom.Point{
				X: project(pt.X, b.min.X, extent.X, side),
				Y: project(pt.Y, b.min.Y, extent.Y, side),
			})
		}
		out[i] = projected
	}
	return out
}

// project maps v from [min, min+extent] onto [0, side]. The division runs
// before the multiplication so exact fractions survive: the box midpoint is
// 0.5*side, never 0.4999... from a precomputed side/extent factor. Extents
// are >= MinWidth after expansion; the zero guard covers MinWidth = 0
// configurations.
func project(v, min, extent, side float64) float64 {
	if extent == 0 {
		return 0
	}
	return (v - min) / extent * side
}
