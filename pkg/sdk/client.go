// Package strokedex provides an embedded Go client for the handwritten
// character matcher: load a reference corpus once, then match freehand
// stroke drawings against it in-process.
//
//	client, _ := strokedex.New(strokedex.WithCorpusFile("graphics.tsv"))
//	candidates, _ := client.Match(ctx, [][]strokedex.Point{
//	    {{X: 10, Y: 100}, {X: 190, Y: 100}},
//	}, 5)
package strokedex

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/strokedex/strokedex/internal/domain/geom"
	"github.com/strokedex/strokedex/internal/domain/stroke"
	"github.com/strokedex/strokedex/internal/match"
	"github.com/strokedex/strokedex/internal/repository/corpusfile"
	"github.com/strokedex/strokedex/internal/usecase/recognize"
)

// Point is a 2D coordinate in any caller-defined space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Candidate pairs a corpus label with its similarity score (0 is a perfect
// match, more negative is less similar).
type Candidate = match.Candidate

// Client is the strokedex SDK entry point.
type Client struct {
	svc *recognize.Service
}

// New creates a Client. A corpus source (WithCorpusFile) is required.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		policy: "zip",
		limits: recognize.Limits{DefaultLimit: 10, MaxLimit: 50},
		logger: zap.NewNop(),
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.corpusPath == "" {
		return nil, fmt.Errorf("strokedex: corpus source required (use WithCorpusFile)")
	}
	corp, err := corpusfile.Load(cfg.corpusPath)
	if err != nil {
		return nil, fmt.Errorf("strokedex: load corpus: %w", err)
	}

	policy, err := match.PolicyByName(cfg.policy)
	if err != nil {
		return nil, fmt.Errorf("strokedex: %w", err)
	}
	params := match.DefaultParams()
	params.Policy = policy

	matcher := match.New(corp, params)
	return &Client{svc: recognize.New(matcher, cfg.limits, cfg.logger)}, nil
}

// Match runs the full pipeline on raw strokes and returns the top limit
// candidates, best first. An empty query yields an empty result.
func (c *Client) Match(ctx context.Context, strokes [][]Point, limit int) ([]Candidate, error) {
	converted := make([]stroke.Stroke, len(strokes))
	for i, s := range strokes {
		st := make(stroke.Stroke, len(s))
		for j, p := range s {
			st[j] = geom.Point{X: p.X, Y: p.Y}
		}
		converted[i] = st
	}
	return c.svc.Recognize(ctx, converted, limit)
}

// MatchVectors ranks already-quantized feature vectors (the corpus wire
// format, 10 values per stroke) without re-deriving them, so a corpus
// entry's own data matches itself exactly.
func (c *Client) MatchVectors(vectors [][]float64, limit int) ([]Candidate, error) {
	features := make([]stroke.Feature, len(vectors))
	for i, values := range vectors {
		f, err := stroke.FeatureFromValues(values)
		if err != nil {
			return nil, fmt.Errorf("strokedex: vector %d: %w", i, err)
		}
		features[i] = f
	}
	return c.svc.RecognizeFeatures(features, limit), nil
}

// CorpusSize returns the number of loaded corpus entries.
func (c *Client) CorpusSize() int { return c.svc.CorpusSize() }
