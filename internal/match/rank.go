package match

import (
	"sort"

	"github.com/strokedex/strokedex/internal/domain/corpus"
	"github.com/strokedex/strokedex/internal/domain/stroke"
)

// Candidate pairs a corpus label with its similarity score.
type Candidate struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Rank scores the query against every corpus entry and returns the top
// limit candidates, best first. Exact score ties keep corpus insertion
// order. An empty query returns nil without scoring anything.
func Rank(
	query []stroke.Feature, c *corpus.Corpus, limit int,
	p ScoreParams, policy PairPolicy,
) []Candidate {
	if len(query) == 0 || limit <= 0 {
		return nil
	}

	candidates := make([]Candidate, 0, c.Len())
	for i := 0; i < c.Len(); i++ {
		e := c.At(i)
		n, ok := policy(len(query), len(e.Features()))
		if !ok {
			continue
		}
		candidates = append(candidates, Candidate{
			Label: e.Label(),
			Score: Score(query, e.Features(), p, n),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates
}
