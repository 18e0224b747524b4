package strokedex

import (
	"go.uber.org/zap"

	"github.com/strokedex/strokedex/internal/usecase/recognize"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	corpusPath string
	policy     string // "zip" or "strict"
	limits     recognize.Limits
	logger     *zap.Logger
}

// WithCorpusFile loads the reference corpus from a TSV or JSON file
// (format inferred from the extension).
func WithCorpusFile(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.corpusPath = path
	})
}

// WithPairPolicy selects how queries whose stroke count differs from a
// corpus entry's are scored: "zip" (default) compares the shared prefix,
// "strict" disqualifies mismatched entries.
func WithPairPolicy(name string) Option {
	return optionFunc(func(c *clientConfig) {
		c.policy = name
	})
}

// WithLimits sets the candidate-count defaults: limit <= 0 becomes
// defaultLimit, larger requests are clamped to maxLimit.
// Defaults: DefaultLimit=10, MaxLimit=50.
func WithLimits(defaultLimit, maxLimit int) Option {
	return optionFunc(func(c *clientConfig) {
		c.limits.DefaultLimit = defaultLimit
		c.limits.MaxLimit = maxLimit
	})
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}
