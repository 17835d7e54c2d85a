package rules

import (
	"go.trai.ch/flock/internal/core/domain"
	"go.trai.ch/flock/internal/engine/flock"
	"go.trai.ch/zerr"
)

// AppendKey as the last element of a patch path appends the value to a sequence.
const AppendKey = "append"

// Patch stores val at path below target. Missing intermediate keys are created as empty
// mappings; any other failure while walking the path is returned as is. target may be a
// flock container or a plain map[string]any / map[any]any.
func Patch(target any, path []any, val any) error {
	if len(path) == 0 {
		return domain.ErrEmptyPath
	}

	var (
		parent    any
		parentKey any
	)
	cur := target
	for i, key := range path[:len(path)-1] {
		next, found, err := lookup(cur, key)
		if err != nil {
			return zerr.With(err, "path", domain.FormatPath(path[:i+1]))
		}
		if !found {
			if err := store(cur, key, map[string]any{}); err != nil {
				return zerr.With(err, "path", domain.FormatPath(path[:i+1]))
			}
			if next, _, err = lookup(cur, key); err != nil {
				return err
			}
		}
		parent, parentKey, cur = cur, key, next
	}

	last := path[len(path)-1]
	if last == AppendKey {
		return appendTo(parent, parentKey, cur, val)
	}
	return store(cur, last, val)
}

func lookup(c, key any) (any, bool, error) {
	switch m := c.(type) {
	case flock.Reader:
		if !m.Contains(key) {
			return nil, false, nil
		}
		v, err := m.Get(key)
		return v, true, err
	case map[string]any:
		s, ok := key.(string)
		if !ok {
			return nil, false, zerr.With(zerr.Wrap(domain.ErrInvalidKey, "patch"), "type", typeName(key))
		}
		v, found := m[s]
		return v, found, nil
	case map[any]any:
		v, found := m[key]
		return v, found, nil
	default:
		return nil, false, zerr.With(zerr.Wrap(domain.ErrNotAContainer, "patch"), "type", typeName(c))
	}
}

func store(c, key, val any) error {
	switch m := c.(type) {
	case flock.Container:
		return m.Set(key, val)
	case map[string]any:
		s, ok := key.(string)
		if !ok {
			return zerr.With(zerr.Wrap(domain.ErrInvalidKey, "patch"), "type", typeName(key))
		}
		m[s] = val
		return nil
	case map[any]any:
		m[key] = val
		return nil
	default:
		return zerr.With(zerr.Wrap(domain.ErrNotAContainer, "patch"), "type", typeName(c))
	}
}

// appendTo appends val to seq. Plain slices are replaced in their parent.
func appendTo(parent, key, seq, val any) error {
	switch s := seq.(type) {
	case *flock.List:
		return s.Append(val)
	case []any:
		if parent == nil {
			return zerr.Wrap(domain.ErrNotASequence, "cannot grow a plain slice without its parent")
		}
		return store(parent, key, append(s, val))
	default:
		return zerr.With(zerr.Wrap(domain.ErrNotASequence, "patch"), "type", typeName(seq))
	}
}
