// Package rules provides canned rules and reducers for flock containers.
package rules

import (
	"slices"
	"sync"

	"go.trai.ch/flock/internal/core/domain"
	"go.trai.ch/flock/internal/engine/flock"
	"go.trai.ch/zerr"
)

// Reference returns a rule that reads the value at path below src.
// The rule declares src as read, so writes to src clear the caller's cache.
func Reference(src flock.Reader, path ...any) flock.Closure {
	keys := slices.Clone(path)
	return flock.Bind(func() (any, error) {
		return Walk(src, keys...)
	}, src)
}

// Lookup returns a rule that reads src[key] and looks the score up in table.
// A score that is not in the table resolves to nil.
func Lookup(src flock.Reader, key any, table map[int]any) flock.Closure {
	return flock.Bind(func() (any, error) {
		v, err := src.Get(key)
		if err != nil {
			return nil, err
		}
		score, err := Int(v)
		if err != nil {
			return nil, err
		}
		return table[score], nil
	}, src)
}

// Toggle returns a rule that alternates between true and false, starting with true.
func Toggle() flock.Rule {
	var (
		mu   sync.Mutex
		next = true
	)
	return func() (any, error) {
		mu.Lock()
		defer mu.Unlock()
		v := next
		next = !next
		return v, nil
	}
}

// Walk reads path through nested readers starting at src.
func Walk(src flock.Reader, path ...any) (any, error) {
	var cur any = src
	for i, k := range path {
		r, ok := cur.(flock.Reader)
		if !ok {
			return nil, zerr.With(zerr.Wrap(domain.ErrNotAContainer, "walk"), "path", domain.FormatPath(path[:i]))
		}
		v, err := r.Get(k)
		if err != nil {
			return nil, err
		}
		cur = v
	}
	return cur, nil
}

// AsReader adapts plain maps, slices and snapshots into free containers. Readers are
// returned unchanged.
func AsReader(v any) (flock.Reader, error) {
	switch x := v.(type) {
	case flock.Reader:
		return x, nil
	case *domain.Snapshot:
		return flock.FromMap(x.Plain()), nil
	case map[string]any:
		return flock.FromMap(x), nil
	case map[any]any:
		return flock.FromMap(x), nil
	case []any:
		return flock.NewList(x...), nil
	default:
		return nil, zerr.With(zerr.Wrap(domain.ErrNotAContainer, "adapt"), "type", typeName(v))
	}
}
