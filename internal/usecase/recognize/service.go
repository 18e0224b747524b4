// Package recognize orchestrates a match request: admission control,
// optional result caching, metrics, and the call into the matching core.
package recognize

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/strokedex/strokedex/internal/db"
	"github.com/strokedex/strokedex/internal/domain"
	"github.com/strokedex/strokedex/internal/domain/stroke"
	"github.com/strokedex/strokedex/internal/match"
	"github.com/strokedex/strokedex/internal/metrics"
)

const cacheKeyPrefix = "strokedex:match_cache:"

// Limits bound untrusted query input and the candidate count.
type Limits struct {
	DefaultLimit       int
	MaxLimit           int
	MaxStrokes         int
	MaxPointsPerStroke int
}

// Service handles recognition requests.
type Service struct {
	matcher    Matcher
	limits     Limits
	cache      Store // nil disables caching
	cacheTTL   time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a recognition service without caching.
func New(matcher Matcher, limits Limits, logger *zap.Logger) *Service {
	return &Service{matcher: matcher, limits: limits, logger: logger}
}

// WithCache enables the match-result cache. cacheTotal is a counter vec with
// label "result" ("hit"/"miss"), passed explicitly.
func (s *Service) WithCache(store Store, ttl time.Duration, cacheTotal *prometheus.CounterVec) *Service {
	s.cache = store
	s.cacheTTL = ttl
	s.cacheTotal = cacheTotal
	return s
}

// CorpusSize returns the number of loaded corpus entries.
func (s *Service) CorpusSize() int { return s.matcher.CorpusSize() }

// Recognize matches raw strokes against the corpus. An empty query returns
// an empty candidate list; queries over the admission caps are rejected.
func (s *Service) Recognize(
	ctx context.Context, strokes []stroke.Stroke, limit int,
) ([]match.Candidate, error) {
	limit = s.clampLimit(limit)

	if len(strokes) == 0 {
		metrics.MatchRequestsTotal.WithLabelValues("empty").Inc()
		return nil, nil
	}
	if err := s.admit(strokes); err != nil {
		metrics.MatchRequestsTotal.WithLabelValues("invalid").Inc()
		return nil, err
	}

	key, keyErr := cacheKey(strokes, limit)
	if s.cache != nil && keyErr == nil {
		if candidates, ok := s.fromCache(ctx, key); ok {
			s.incCache("hit")
			metrics.MatchRequestsTotal.WithLabelValues("ok").Inc()
			return candidates, nil
		}
		s.incCache("miss")
	}

	start := time.Now()
	candidates, err := s.matcher.MatchStrokes(strokes, limit)
	if err != nil {
		metrics.MatchRequestsTotal.WithLabelValues("invalid").Inc()
		return nil, err
	}
	metrics.MatchDuration.Observe(time.Since(start).Seconds())
	metrics.MatchRequestsTotal.WithLabelValues("ok").Inc()

	if s.cache != nil && keyErr == nil {
		s.putToCache(ctx, key, candidates)
	}
	return candidates, nil
}

// RecognizeFeatures ranks already-quantized feature vectors, bypassing
// preprocessing and the cache. This is the bit-exact path corpus
// self-consistency checks rely on.
func (s *Service) RecognizeFeatures(features []stroke.Feature, limit int) []match.Candidate {
	return s.matcher.MatchFeatures(features, s.clampLimit(limit))
}

func (s *Service) clampLimit(limit int) int {
	if limit <= 0 {
		limit = s.limits.DefaultLimit
	}
	if s.limits.MaxLimit > 0 && limit > s.limits.MaxLimit {
		limit = s.limits.MaxLimit
	}
	return limit
}

func (s *Service) admit(strokes []stroke.Stroke) error {
	if s.limits.MaxStrokes > 0 && len(strokes) > s.limits.MaxStrokes {
		return fmt.Errorf("%w: %d strokes (max %d)",
			domain.ErrQueryTooLarge, len(strokes), s.limits.MaxStrokes)
	}
	if s.limits.MaxPointsPerStroke > 0 {
		for i, st := range strokes {
			if len(st) > s.limits.MaxPointsPerStroke {
				return fmt.Errorf("%w: stroke %d has %d points (max %d)",
					domain.ErrQueryTooLarge, i, len(st), s.limits.MaxPointsPerStroke)
			}
		}
	}
	return nil
}

func (s *Service) incCache(result string) {
	if s.cacheTotal != nil {
		s.cacheTotal.WithLabelValues(result).Inc()
	}
}

// cacheKey hashes the raw query; identical drawings from canvas replays are
// common enough to be worth a lookup.
func cacheKey(strokes []stroke.Stroke, limit int) (string, error) {
	payload, err := json.Marshal(struct {
		Strokes []stroke.Stroke `json:"s"`
		Limit   int             `json:"l"`
	}{strokes, limit})
	if err != nil {
		return "", err
	}
	h := sha256.Sum256(payload)
	return cacheKeyPrefix + hex.EncodeToString(h[:]), nil
}

func (s *Service) fromCache(ctx context.Context, key string) ([]match.Candidate, bool) {
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			s.logger.Warn("Failed to get cached match result", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	var candidates []match.Candidate
	if err := json.Unmarshal(data, &candidates); err != nil {
		s.logger.Warn("Corrupted cached match result", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return candidates, true
}

func (s *Service) putToCache(ctx context.Context, key string, candidates []match.Candidate) {
	data, err := json.Marshal(candidates)
	if err != nil {
		return
	}
	if err := s.cache.SetWithTTL(ctx, key, data, s.cacheTTL); err != nil {
		s.logger.Warn("Failed to cache match result", zap.String("key", key), zap.Error(err))
	}
}
