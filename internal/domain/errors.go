// Package domain holds sentinel errors shared across the service.
package domain

import "errors"

var (
	// ErrEmptyStroke signals a stroke with no points inside a query.
	ErrEmptyStroke = errors.New("empty stroke")
	// ErrMalformedEntry signals a corpus record that fails validation.
	ErrMalformedEntry = errors.New("malformed corpus entry")
	// ErrQueryTooLarge signals a query exceeding the admission caps.
	ErrQueryTooLarge = errors.New("query too large")
)
