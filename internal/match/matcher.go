// Package match implements the stroke-matching pipeline: bounding-box
// normalization, arc-length resampling, feature encoding, similarity
// scoring, and top-N ranking against an immutable corpus. Everything here
// is pure and CPU-bound; concurrent calls over the same corpus are safe.
package match

import (
	"fmt"

	"github.com/strokedex/strokedex/internal/domain"
	"github.com/strokedex/strokedex/internal/domain/corpus"
	"github.com/strokedex/strokedex/internal/domain/stroke"
)

// Params bundles the pipeline configuration.
type Params struct {
	Normalize NormalizeParams
	Encode    EncodeParams
	Score     ScoreParams
	Policy    PairPolicy
}

// DefaultParams returns the parameters the reference corpus was built with.
func DefaultParams() Params {
	return Params{
		Normalize: DefaultNormalizeParams(),
		Encode:    DefaultEncodeParams(),
		Score:     DefaultScoreParams(),
		Policy:    ZipShorter,
	}
}

// Matcher matches freehand stroke drawings against a fixed corpus.
type Matcher struct {
	params Params
	corpus *corpus.Corpus
}

// New creates a matcher over an immutable corpus.
func New(c *corpus.Corpus, params Params) *Matcher {
	if params.Policy == nil {
		params.Policy = ZipShorter
	}
	return &Matcher{params: params, corpus: c}
}

// CorpusSize returns the number of corpus entries.
func (m *Matcher) CorpusSize() int { return m.corpus.Len() }

// Preprocess turns raw strokes into quantized feature vectors.
func (m *Matcher) Preprocess(strokes []stroke.Stroke) ([]stroke.Feature, error) {
	for i, s := range strokes {
		if len(s) == 0 {
			return nil, fmt.Errorf("stroke %d: %w", i, domain.ErrEmptyStroke)
		}
	}

	normalized := Normalize(strokes, m.params.Normalize)
	features := make([]stroke.Feature, len(normalized))
	for i, s := range normalized {
		f, err := Encode(s, m.params.Encode)
		if err != nil {
			return nil, fmt.Errorf("encode stroke %d: %w", i, err)
		}
		features[i] = f
	}
	return features, nil
}

// MatchStrokes runs the full pipeline on raw strokes in any caller-defined
// coordinate system and returns the top limit candidates. An empty query
// yields an empty result.
func (m *Matcher) MatchStrokes(strokes []stroke.Stroke, limit int) ([]Candidate, error) {
	if len(strokes) == 0 {
		return nil, nil
	}
	features, err := m.Preprocess(strokes)
	if err != nil {
		return nil, err
	}
	return m.MatchFeatures(features, limit), nil
}

// MatchFeatures ranks already-quantized feature vectors directly. Callers
// holding a corpus entry's own stored features must use this path: running
// stored data back through Preprocess reintroduces rounding error and can
// break exact self-matching.
func (m *Matcher) MatchFeatures(features []stroke.Feature, limit int) []Candidate {
	return Rank(features, m.corpus, limit, m.params.Score, m.params.Policy)
}
