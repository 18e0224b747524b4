package match

import (
	"fmt"
	"math"

	"github.com/strokedex/strokedex/internal/domain/stroke"
)

// ScoreParams controls similarity scoring.
type ScoreParams struct {
	// SpaceSize is the circular angle scale size; must match EncodeParams.
	SpaceSize int
	// Weight scales the per-stroke angle penalty (applied squared).
	Weight float64
}

// DefaultScoreParams returns the parameters the corpus was tuned with.
func DefaultScoreParams() ScoreParams {
	return ScoreParams{SpaceSize: stroke.SpaceSize, Weight: 4.0}
}

// PairPolicy decides how many stroke pairs to score for a query with q
// strokes against a reference with r strokes. ok=false disqualifies the
// reference entry from ranking entirely.
type PairPolicy func(q, r int) (n int, ok bool)

// ZipShorter compares the first min(q, r) stroke pairs. Entries with a
// different stroke count are scored on the overlapping prefix.
func ZipShorter(q, r int) (int, bool) {
	if q < r {
		return q, true
	}
	return r, true
}

// StrictCount disqualifies entries whose stroke count differs from the query.
func StrictCount(q, r int) (int, bool) {
	if q != r {
		return 0, false
	}
	return q, true
}

// PolicyByName resolves a configured pairing policy name.
func PolicyByName(name string) (PairPolicy, error) {
	switch name {
	case "", "zip":
		return ZipShorter, nil
	case "strict":
		return StrictCount, nil
	default:
		return nil, fmt.Errorf("unknown pair policy %q", name)
	}
}

// CircularDistance returns the distance between two codes on a wraparound
// scale of the given size; at most size/2.
func CircularDistance(a, b, size int) int {
	d := a - b
	if d < 0 {
		d = -d
	}
	if size-d < d {
		d = size - d
	}
	return d
}

// Score compares the first n stroke pairs of a query and a reference.
// Each pair contributes an L1 position penalty over the sampled points plus
// an angle penalty weighted by the pair's combined length, so long strokes
// pointing the wrong way cost more than short ones. 0 is a perfect match;
// more negative is less similar.
func Score(query, ref []stroke.Feature, p ScoreParams, n int) float64 {
	side := float64(p.SpaceSize)
	score := 0.0
	for i := 0; i < n; i++ {
		q, r := &query[i], &ref[i]

		for s := 0; s < stroke.SamplePoints; s++ {
			qp, rp := q.Point(s), r.Point(s)
			score -= math.Abs(qp.X-rp.X) + math.Abs(qp.Y-rp.Y)
		}

		d := float64(CircularDistance(q.Angle(), r.Angle(), p.SpaceSize))
		lengthy := float64(q.Length()+r.Length()) / side
		score -= p.Weight * p.Weight * lengthy * d
	}
	return score
}
