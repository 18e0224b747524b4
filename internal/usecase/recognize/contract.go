package recognize

import (
	"context"
	"time"

	"github.com/strokedex/strokedex/internal/domain/stroke"
	"github.com/strokedex/strokedex/internal/match"
)

// Matcher is the consumer interface over the matching core.
type Matcher interface {
	MatchStrokes(strokes []stroke.Stroke, limit int) ([]match.Candidate, error)
	MatchFeatures(features []stroke.Feature, limit int) []match.Candidate
	CorpusSize() int
}

// Store is the consumer interface for the result cache (ISP).
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}
