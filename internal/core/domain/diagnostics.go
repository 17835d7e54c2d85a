package domain

import (
	"errors"
	"fmt"
	"strings"
)

// NoSource marks a problem that was not found through an aggregator source.
const NoSource = -1

// Problem is a single issue reported by a check pass.
type Problem struct {
	// Path is the key path from the checked container to the offending entry.
	Path []any
	// Source is the index of the aggregator source that produced the value, or NoSource.
	Source int
	// Err describes the problem.
	Err error
}

// Error implements the error interface.
func (p Problem) Error() string {
	if p.Source == NoSource {
		return fmt.Sprintf("%s: %v", FormatPath(p.Path), p.Err)
	}
	return fmt.Sprintf("%s (source %d): %v", FormatPath(p.Path), p.Source, p.Err)
}

// Unwrap returns the underlying error.
func (p Problem) Unwrap() error {
	return p.Err
}

// Diagnostics is a path-keyed tree of problems. Each value is either a Problem or a nested
// Diagnostics. Aggregators key their problems first by key, then by source index.
type Diagnostics map[any]any

// Empty reports whether no problems were recorded.
func (d Diagnostics) Empty() bool {
	return len(d) == 0
}

// Problems returns every problem in the tree, depth-first in canonical key order.
func (d Diagnostics) Problems() []Problem {
	keys := make([]any, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	SortKeys(keys)

	var out []Problem
	for _, k := range keys {
		switch v := d[k].(type) {
		case Problem:
			out = append(out, v)
		case Diagnostics:
			out = append(out, v.Problems()...)
		}
	}
	return out
}

// Err joins every problem into one error, or returns nil when the tree is empty.
func (d Diagnostics) Err() error {
	problems := d.Problems()
	if len(problems) == 0 {
		return nil
	}
	errs := make([]error, len(problems))
	for i, p := range problems {
		errs[i] = p
	}
	return errors.Join(errs...)
}

// FormatPath renders a key path as dotted text, e.g. points.total.mental.
func FormatPath(path []any) string {
	if len(path) == 0 {
		return "<root>"
	}
	parts := make([]string, len(path))
	for i, k := range path {
		parts[i] = fmt.Sprint(k)
	}
	return strings.Join(parts, ".")
}

// ExtendPath returns a copy of path with key appended.
func ExtendPath(path []any, key any) []any {
	out := make([]any, len(path), len(path)+1)
	copy(out, path)
	return append(out, key)
}
