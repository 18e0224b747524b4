package match

import (
	"math"

	"github.com/strokedex/strokedex/internal/domain/geom"
	"github.com/strokedex/strokedex/internal/domain/stroke"
)

// EncodeParams controls feature quantization.
type EncodeParams struct {
	// SpaceSize is the canonical coordinate space side length and the size
	// of the circular angle scale.
	SpaceSize int
}

// DefaultEncodeParams returns the parameters the corpus was built with.
func DefaultEncodeParams() EncodeParams {
	return EncodeParams{SpaceSize: stroke.SpaceSize}
}

// Encode resamples one normalized stroke and derives its feature vector.
// Angle and length are taken from the span between the first and last
// sampled point: the angle code is circular with 0 pointing left and
// SpaceSize/2 pointing right, the length code is |span|/sqrt(2) so it stays
// within [0, SpaceSize-1] for canonical coordinates.
func Encode(s stroke.Stroke, p EncodeParams) (stroke.Feature, error) {
	sampled := Resample(s, stroke.SamplePoints)
	span := geom.Sub(sampled[len(sampled)-1], sampled[0])

	code := angleCode(math.Atan2(span.Y, span.X), p.SpaceSize)
	lengthCode := int(math.Round(math.Sqrt(geom.Norm2(span) / 2)))

	return stroke.NewFeature(sampled, code, lengthCode)
}

// angleCode quantizes an angle in radians onto the circular [0, size) scale.
func angleCode(rad float64, size int) int {
	side := float64(size)
	code := int(math.Round((rad+math.Pi)*side/(2*math.Pi))) % size
	if code < 0 {
		code += size
	}
	return code
}
