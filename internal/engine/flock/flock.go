// Package flock implements lazy, self-referential computation containers.
//
// A container maps keys to rules: zero-argument computations that may read other entries of
// the same container, of nested containers, or of foreign containers they were built
// against. Rules run on first read and their results are memoized. Any write clears the
// memo of the whole invalidation domain, which spans every container reachable from the
// writer's root through containment and peer edges.
package flock

import (
	"reflect"

	"go.trai.ch/flock/internal/core/domain"
	"go.trai.ch/zerr"
)

// Rule is a zero-argument computation bound to one key.
type Rule func() (any, error)

// Closure is a rule that names the containers it reads. Storing a closure registers the
// writing container as a peer of each of them, so a write to any of them clears the
// writer's cache too.
type Closure struct {
	Fn    Rule
	Reads []Reader
}

// Bind returns a closure that declares reads as the sources of fn.
func Bind(fn Rule, reads ...Reader) Closure {
	return Closure{Fn: fn, Reads: reads}
}

// Literal stores its value as a constant, even when the value is a function, map or slice.
type Literal struct {
	Value any
}

// Pair is one key/value pair of an ordered initial sequence.
type Pair struct {
	Key   any
	Value any
}

// Reader is the read contract shared by containers and aggregators.
type Reader interface {
	// Get returns the value at key, resolving and memoizing it if needed.
	Get(key any) (any, error)
	// Contains reports whether key is present without resolving it.
	Contains(key any) bool
	// Len returns the number of keys.
	Len() int
	// Keys returns the keys without resolving them.
	Keys() []any
	// Flatten resolves every entry into a plain snapshot.
	Flatten(recordErrors bool) (any, error)
	// Check reports structural problems without invoking rules.
	Check(path []any) domain.Diagnostics
}

// Container is a writable Reader that takes part in cache invalidation.
type Container interface {
	Reader
	// Set stores val at key and clears the invalidation domain.
	Set(key, val any) error
	// Delete removes key and clears the invalidation domain.
	Delete(key any) error

	graph() *node
}

type entryKind uint8

const (
	kindValue entryKind = iota
	kindRule
	kindContainer
	kindView
)

// entry is the stored form of one key.
type entry struct {
	kind  entryKind
	value any
	rule  Rule
}

func (e entry) child() *node {
	if e.kind == kindContainer {
		return e.value.(Container).graph()
	}
	return nil
}

// classify turns a written value into an entry for the container owning n.
// Nested literals become child containers joined to n's domain.
func classify(n *node, val any) (entry, error) {
	switch v := val.(type) {
	case Literal:
		return entry{kind: kindValue, value: v.Value}, nil
	case Closure:
		for _, r := range v.Reads {
			watch(n, r)
		}
		return entry{kind: kindRule, rule: v.Fn}, nil
	case Rule:
		return entry{kind: kindRule, rule: v}, nil
	case func() (any, error):
		return entry{kind: kindRule, rule: v}, nil
	case func() any:
		if v == nil {
			return entry{kind: kindRule}, nil
		}
		return entry{kind: kindRule, rule: func() (any, error) { return v(), nil }}, nil
	case map[string]any:
		return containerEntry(childFromMap(n, v))
	case map[any]any:
		return containerEntry(childFromMap(n, v))
	case []any:
		l := newList(n.domainRoot())
		for _, item := range v {
			if err := l.append(item, false); err != nil {
				return entry{}, err
			}
		}
		n.addChild(l.node)
		return entry{kind: kindContainer, value: l}, nil
	case *Dict:
		adopt(n, v.node)
		return entry{kind: kindContainer, value: v}, nil
	case *List:
		adopt(n, v.node)
		return entry{kind: kindContainer, value: v}, nil
	case *Aggregator:
		v.attach(n)
		return entry{kind: kindView, value: v}, nil
	default:
		if m, ok := anyMap(val); ok {
			return containerEntry(childFromMap(n, m))
		}
		return entry{kind: kindValue, value: val}, nil
	}
}

// anyMap converts a map with any key type and interface{} values, such as map[int]any,
// into a map[any]any.
func anyMap(val any) (map[any]any, bool) {
	rv := reflect.ValueOf(val)
	if rv.Kind() != reflect.Map || rv.Type().Elem().Kind() != reflect.Interface || rv.Type().Elem().NumMethod() != 0 {
		return nil, false
	}
	out := make(map[any]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().Interface()] = iter.Value().Interface()
	}
	return out, true
}

func childFromMap[K comparable](n *node, m map[K]any) (*Dict, error) {
	d := newDict(n.domainRoot())
	if err := fill(d, m); err != nil {
		return nil, err
	}
	n.addChild(d.node)
	return d, nil
}

func containerEntry(d *Dict, err error) (entry, error) {
	if err != nil {
		return entry{}, err
	}
	return entry{kind: kindContainer, value: d}, nil
}

// adopt nests an existing container under n. A free container joins n's domain; one that
// already belongs to a domain is nested by reference and gets n as a peer.
func adopt(n, c *node) {
	root := n.domainRoot()
	if c != root && c != n && c.claim() {
		c.join(root)
	} else {
		c.addPeer(n)
	}
	n.addChild(c)
}

// watch registers n as a peer of whatever r reads from.
func watch(n *node, r Reader) {
	switch src := r.(type) {
	case Container:
		src.graph().addPeer(n)
	case *Aggregator:
		src.attach(n)
	}
}

func sortedKeys[K comparable](m map[K]any) []any {
	keys := make([]any, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	domain.SortKeys(keys)
	return keys
}

func validKey(key any) error {
	t := reflect.TypeOf(key)
	if t != nil && !t.Comparable() {
		return zerr.With(zerr.Wrap(domain.ErrInvalidKey, "set"), "type", t.String())
	}
	return nil
}

func notFound(key any) error {
	return zerr.With(zerr.Wrap(domain.ErrKeyNotFound, "lookup"), "key", key)
}

// invoke runs a rule, turning a panic into an error.
func invoke(r Rule) (v any, err error) {
	if r == nil {
		return nil, zerr.Wrap(domain.ErrStructural, "entry holds a nil rule")
	}
	defer zerr.Defer(func(perr error) {
		v, err = nil, perr
	})
	return r()
}

// flattenValue expands readers returned by rules into snapshots.
func flattenValue(v any, recordErrors bool) (any, error) {
	if r, ok := v.(Reader); ok {
		return r.Flatten(recordErrors)
	}
	return v, nil
}
