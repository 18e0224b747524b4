// Package corpusfile loads the reference corpus from disk. Two formats are
// supported: tab-separated lines ("label\tv0,...,v9\t...") and the graphics
// JSON array ([["label", [[v0,...,v9], ...]], ...]). A load fails entirely
// on the first malformed record; a partially garbled corpus is never served.
package corpusfile

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/strokedex/strokedex/internal/domain"
	"github.com/strokedex/strokedex/internal/domain/corpus"
	"github.com/strokedex/strokedex/internal/domain/stroke"
)

// Load reads a corpus file, inferring the format from the extension:
// .json is the graphics JSON array, everything else is tab-separated.
func Load(path string) (*corpus.Corpus, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return LoadJSON(path)
	}
	return LoadTSV(path)
}

// LoadTSV reads the tab-separated corpus format, one character per line.
func LoadTSV(path string) (*corpus.Corpus, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("open corpus: %w", err)
	}
	defer f.Close()

	var entries []corpus.Entry
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if line == "" {
			continue
		}

		parts := strings.Split(line, "\t")
		if len(parts) < 2 {
			return nil, fmt.Errorf("line %d: %w: no stroke columns", lineNo, domain.ErrMalformedEntry)
		}

		features := make([]stroke.Feature, 0, len(parts)-1)
		for col, field := range parts[1:] {
			values, err := parseValues(field)
			if err != nil {
				return nil, fmt.Errorf("line %d, stroke %d: %w", lineNo, col, err)
			}
			feat, err := stroke.FeatureFromValues(values)
			if err != nil {
				return nil, fmt.Errorf("line %d, stroke %d: %w", lineNo, col, err)
			}
			features = append(features, feat)
		}

		entry, err := corpus.NewEntry(parts[0], features)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read corpus: %w", err)
	}

	return corpus.New(entries), nil
}

// LoadJSON reads the graphics JSON corpus format.
func LoadJSON(path string) (*corpus.Corpus, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("open corpus: %w", err)
	}

	var records [][]json.RawMessage
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse corpus: %w", err)
	}

	entries := make([]corpus.Entry, 0, len(records))
	for i, rec := range records {
		if len(rec) != 2 {
			return nil, fmt.Errorf("entry %d: %w: want [label, strokes] pair", i, domain.ErrMalformedEntry)
		}

		var label string
		if err := json.Unmarshal(rec[0], &label); err != nil {
			return nil, fmt.Errorf("entry %d: %w: label is not a string", i, domain.ErrMalformedEntry)
		}

		var strokes [][]float64
		if err := json.Unmarshal(rec[1], &strokes); err != nil {
			return nil, fmt.Errorf("entry %d (%q): %w: bad stroke data", i, label, domain.ErrMalformedEntry)
		}

		features := make([]stroke.Feature, 0, len(strokes))
		for j, values := range strokes {
			feat, err := stroke.FeatureFromValues(values)
			if err != nil {
				return nil, fmt.Errorf("entry %d (%q), stroke %d: %w", i, label, j, err)
			}
			features = append(features, feat)
		}

		entry, err := corpus.NewEntry(label, features)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		entries = append(entries, entry)
	}

	return corpus.New(entries), nil
}

func parseValues(field string) ([]float64, error) {
	cols := strings.Split(field, ",")
	values := make([]float64, len(cols))
	for i, c := range cols {
		v, err := strconv.ParseFloat(strings.TrimSpace(c), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: bad number %q", domain.ErrMalformedEntry, c)
		}
		values[i] = v
	}
	return values, nil
}
