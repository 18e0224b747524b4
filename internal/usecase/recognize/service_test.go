package recognize

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/strokedex/strokedex/internal/db"
	"github.com/strokedex/strokedex/internal/domain"
	"github.com/strokedex/strokedex/internal/domain/geom"
	"github.com/strokedex/strokedex/internal/domain/stroke"
	"github.com/strokedex/strokedex/internal/match"
)

// --- Mocks ---

type mockMatcher struct {
	candidates   []match.Candidate
	err          error
	rawCalls     int
	featureCalls int
	lastLimit    int
}

func (m *mockMatcher) MatchStrokes(_ []stroke.Stroke, limit int) ([]match.Candidate, error) {
	m.rawCalls++
	m.lastLimit = limit
	return m.candidates, m.err
}

func (m *mockMatcher) MatchFeatures(_ []stroke.Feature, limit int) []match.Candidate {
	m.featureCalls++
	m.lastLimit = limit
	return m.candidates
}

func (m *mockMatcher) CorpusSize() int { return 42 }

type mockStore struct {
	data    map[string][]byte
	getErr  error
	setErr  error
	lastTTL time.Duration
}

func newMockStore() *mockStore {
	return &mockStore{data: map[string][]byte{}}
}

func (m *mockStore) Get(_ context.Context, key string) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockStore) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	m.lastTTL = ttl
	return nil
}

func testLimits() Limits {
	return Limits{DefaultLimit: 10, MaxLimit: 50, MaxStrokes: 4, MaxPointsPerStroke: 8}
}

func line(n int) stroke.Stroke {
	s := make(stroke.Stroke, n)
	for i := range s {
		s[i] = geom.Point{X: float64(i), Y: float64(i)}
	}
	return s
}

// --- Tests ---

func TestRecognize_EmptyQuery(t *testing.T) {
	m := &mockMatcher{}
	svc := New(m, testLimits(), zap.NewNop())

	got, err := svc.Recognize(context.Background(), nil, 10)
	if err != nil {
		t.Fatalf("Recognize: %v", err)
	}
	if got != nil {
		t.Errorf("Recognize(empty) = %v, want nil", got)
	}
	if m.rawCalls != 0 {
		t.Errorf("matcher called %d times for an empty query", m.rawCalls)
	}
}

func TestRecognize_LimitClamping(t *testing.T) {
	m := &mockMatcher{candidates: []match.Candidate{{Label: "一", Score: 0}}}
	svc := New(m, testLimits(), zap.NewNop())

	if _, err := svc.Recognize(context.Background(), []stroke.Stroke{line(3)}, 0); err != nil {
		t.Fatalf("Recognize: %v", err)
	}
	if m.lastLimit != 10 {
		t.Errorf("default limit = %d, want 10", m.lastLimit)
	}

	if _, err := svc.Recognize(context.Background(), []stroke.Stroke{line(3)}, 500); err != nil {
		t.Fatalf("Recognize: %v", err)
	}
	if m.lastLimit != 50 {
		t.Errorf("clamped limit = %d, want 50", m.lastLimit)
	}
}

func TestRecognize_AdmissionCaps(t *testing.T) {
	m := &mockMatcher{}
	svc := New(m, testLimits(), zap.NewNop())

	tooManyStrokes := []stroke.Stroke{line(2), line(2), line(2), line(2), line(2)}
	if _, err := svc.Recognize(context.Background(), tooManyStrokes, 10); !errors.Is(err, domain.ErrQueryTooLarge) {
		t.Errorf("too many strokes: err = %v, want ErrQueryTooLarge", err)
	}

	tooManyPoints := []stroke.Stroke{line(9)}
	if _, err := svc.Recognize(context.Background(), tooManyPoints, 10); !errors.Is(err, domain.ErrQueryTooLarge) {
		t.Errorf("too many points: err = %v, want ErrQueryTooLarge", err)
	}
	if m.rawCalls != 0 {
		t.Errorf("matcher called %d times for rejected queries", m.rawCalls)
	}
}

func TestRecognize_MatcherErrorPropagates(t *testing.T) {
	m := &mockMatcher{err: domain.ErrEmptyStroke}
	svc := New(m, testLimits(), zap.NewNop())

	_, err := svc.Recognize(context.Background(), []stroke.Stroke{line(3)}, 10)
	if !errors.Is(err, domain.ErrEmptyStroke) {
		t.Errorf("err = %v, want ErrEmptyStroke", err)
	}
}

func TestRecognize_CacheHit(t *testing.T) {
	m := &mockMatcher{candidates: []match.Candidate{{Label: "一", Score: -3}}}
	store := newMockStore()
	svc := New(m, testLimits(), zap.NewNop()).WithCache(store, time.Minute, nil)

	query := []stroke.Stroke{line(3)}
	first, err := svc.Recognize(context.Background(), query, 10)
	if err != nil {
		t.Fatalf("first Recognize: %v", err)
	}
	if m.rawCalls != 1 {
		t.Fatalf("rawCalls = %d, want 1", m.rawCalls)
	}
	if store.lastTTL != time.Minute {
		t.Errorf("cache TTL = %v, want 1m", store.lastTTL)
	}

	second, err := svc.Recognize(context.Background(), query, 10)
	if err != nil {
		t.Fatalf("second Recognize: %v", err)
	}
	if m.rawCalls != 1 {
		t.Errorf("rawCalls = %d after cache hit, want 1", m.rawCalls)
	}
	if len(second) != len(first) || second[0] != first[0] {
		t.Errorf("cached result %v differs from original %v", second, first)
	}
}

func TestRecognize_DifferentLimitMissesCache(t *testing.T) {
	m := &mockMatcher{candidates: []match.Candidate{{Label: "一"}}}
	svc := New(m, testLimits(), zap.NewNop()).WithCache(newMockStore(), time.Minute, nil)

	query := []stroke.Stroke{line(3)}
	if _, err := svc.Recognize(context.Background(), query, 10); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Recognize(context.Background(), query, 20); err != nil {
		t.Fatal(err)
	}
	if m.rawCalls != 2 {
		t.Errorf("rawCalls = %d, want 2 (limit is part of the key)", m.rawCalls)
	}
}

func TestRecognize_CacheFailuresAreSoft(t *testing.T) {
	m := &mockMatcher{candidates: []match.Candidate{{Label: "一"}}}
	store := newMockStore()
	store.getErr = errors.New("connection refused")
	store.setErr = errors.New("connection refused")
	svc := New(m, testLimits(), zap.NewNop()).WithCache(store, time.Minute, nil)

	got, err := svc.Recognize(context.Background(), []stroke.Stroke{line(3)}, 10)
	if err != nil {
		t.Fatalf("Recognize: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("got %v, want the matcher result despite cache errors", got)
	}
}

func TestRecognize_CorruptedCacheEntryIgnored(t *testing.T) {
	m := &mockMatcher{candidates: []match.Candidate{{Label: "一"}}}
	store := newMockStore()
	svc := New(m, testLimits(), zap.NewNop()).WithCache(store, time.Minute, nil)

	query := []stroke.Stroke{line(3)}
	key, err := cacheKey(query, 10)
	if err != nil {
		t.Fatal(err)
	}
	store.data[key] = []byte("{not json")

	got, err := svc.Recognize(context.Background(), query, 10)
	if err != nil {
		t.Fatalf("Recognize: %v", err)
	}
	if m.rawCalls != 1 || len(got) != 1 {
		t.Errorf("corrupted entry not treated as a miss: calls=%d got=%v", m.rawCalls, got)
	}

	var cached []match.Candidate
	if jsonErr := json.Unmarshal(store.data[key], &cached); jsonErr != nil {
		t.Errorf("cache not repaired after recompute: %v", jsonErr)
	}
}

func TestRecognizeFeatures_BypassesCache(t *testing.T) {
	m := &mockMatcher{candidates: []match.Candidate{{Label: "一", Score: 0}}}
	svc := New(m, testLimits(), zap.NewNop()).WithCache(newMockStore(), time.Minute, nil)

	got := svc.RecognizeFeatures(nil, 0)
	if m.featureCalls != 1 {
		t.Errorf("featureCalls = %d, want 1", m.featureCalls)
	}
	if m.lastLimit != 10 {
		t.Errorf("limit = %d, want default 10", m.lastLimit)
	}
	if len(got) != 1 {
		t.Errorf("got = %v", got)
	}
}
