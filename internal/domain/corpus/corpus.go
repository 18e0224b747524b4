// Package corpus holds the reference character templates a query is matched
// against. A Corpus is built once at load time and never mutated afterwards,
// which makes concurrent reads from request handlers safe without locks.
package corpus

import (
	"fmt"

	"github.com/strokedex/strokedex/internal/domain"
	"github.com/strokedex/strokedex/internal/domain/stroke"
)

// Entry is one reference character: its label and the precomputed feature
// vector of every stroke, in drawing order.
type Entry struct {
	label    string
	features []stroke.Feature
}

// NewEntry validates and creates a corpus entry.
func NewEntry(label string, features []stroke.Feature) (Entry, error) {
	if label == "" {
		return Entry{}, fmt.Errorf("%w: empty label", domain.ErrMalformedEntry)
	}
	if len(features) == 0 {
		return Entry{}, fmt.Errorf("%w: entry %q has no strokes", domain.ErrMalformedEntry, label)
	}
	fs := make([]stroke.Feature, len(features))
	copy(fs, features)
	return Entry{label: label, features: fs}, nil
}

// Label returns the character identifier.
func (e *Entry) Label() string { return e.label }

// Features returns the per-stroke feature vectors in drawing order.
func (e *Entry) Features() []stroke.Feature { return e.features }

// Corpus is an ordered, immutable collection of entries. Insertion order is
// the tie-break key during ranking.
type Corpus struct {
	entries []Entry
}

// New creates a corpus from already-validated entries.
func New(entries []Entry) *Corpus {
	es := make([]Entry, len(entries))
	copy(es, entries)
	return &Corpus{entries: es}
}

// Len returns the number of entries.
func (c *Corpus) Len() int { return len(c.entries) }

// At returns the entry at position i.
func (c *Corpus) At(i int) *Entry { return &c.entries[i] }
