package flock

import (
	"iter"
	"slices"
	"sync"

	"go.trai.ch/flock/internal/core/domain"
)

var _ Container = (*Dict)(nil)

// Dict is the mapping variant of a container. Keys keep their insertion order for
// iteration; Flatten always visits them in canonical order.
type Dict struct {
	node *node

	mu      sync.RWMutex
	entries map[any]entry
	order   []any
}

// NewDict creates an empty, free container that owns its own domain.
func NewDict() *Dict {
	return newDict(nil)
}

// FromMap creates a free container holding the entries of m, written in canonical key order.
func FromMap[K comparable](m map[K]any) *Dict {
	d := NewDict()
	// Map keys are comparable and literal values always classify, so this cannot fail.
	if err := fill(d, m); err != nil {
		panic(err)
	}
	return d
}

// fill writes the entries of m into d in canonical key order without invalidating.
func fill[K comparable](d *Dict, m map[K]any) error {
	for _, k := range sortedKeys(m) {
		if err := d.set(k, m[k.(K)], false); err != nil {
			return err
		}
	}
	return nil
}

func newDict(root *node) *Dict {
	return &Dict{
		node:    newNode(root),
		entries: make(map[any]entry),
	}
}

func (d *Dict) graph() *node {
	return d.node
}

// Update writes pairs in order through the same path as Set, then clears the domain once.
func (d *Dict) Update(pairs ...Pair) error {
	for _, p := range pairs {
		if err := d.set(p.Key, p.Value, false); err != nil {
			return err
		}
	}
	d.node.invalidate()
	return nil
}

// Set stores val at key. It never invokes a rule.
func (d *Dict) Set(key, val any) error {
	return d.set(key, val, true)
}

func (d *Dict) set(key, val any, invalidate bool) error {
	if err := validKey(key); err != nil {
		return err
	}
	e, err := classify(d.node, val)
	if err != nil {
		return err
	}

	d.mu.Lock()
	old, existed := d.entries[key]
	d.entries[key] = e
	if !existed {
		d.order = append(d.order, key)
	}
	d.mu.Unlock()

	if existed {
		if c := old.child(); c != nil {
			d.node.removeChild(c)
		}
	}
	if invalidate {
		d.node.invalidate()
	}
	return nil
}

// SetDefault stores val at key only when key is absent, and returns the value at key.
func (d *Dict) SetDefault(key, val any) (any, error) {
	if !d.Contains(key) {
		if err := d.Set(key, val); err != nil {
			return nil, err
		}
	}
	return d.Get(key)
}

// Delete removes key and its cached value.
func (d *Dict) Delete(key any) error {
	if err := validKey(key); err != nil {
		return err
	}

	d.mu.Lock()
	old, ok := d.entries[key]
	if !ok {
		d.mu.Unlock()
		return notFound(key)
	}
	delete(d.entries, key)
	if i := slices.Index(d.order, key); i >= 0 {
		d.order = slices.Delete(d.order, i, i+1)
	}
	d.mu.Unlock()

	if c := old.child(); c != nil {
		d.node.removeChild(c)
	}
	d.node.invalidate()
	return nil
}

// Get returns the value at key. A memoized value is returned without invoking the rule.
func (d *Dict) Get(key any) (any, error) {
	if err := validKey(key); err != nil {
		return nil, err
	}
	d.mu.RLock()
	e, ok := d.entries[key]
	d.mu.RUnlock()
	if !ok {
		return nil, notFound(key)
	}
	return resolve(d.node, key, e)
}

// resolve returns the value of e, consulting and filling the domain store.
func resolve(n *node, key any, e entry) (any, error) {
	switch e.kind {
	case kindValue, kindContainer, kindView:
		return e.value, nil
	}

	s := n.cache()
	v, gen, ok := s.lookup(n.id, key)
	if ok {
		return v, nil
	}
	v, err := invoke(e.rule)
	if err != nil {
		return nil, calculationError(key, err)
	}
	s.put(gen, n.id, key, v)
	return v, nil
}

// Contains reports whether key is present.
func (d *Dict) Contains(key any) bool {
	if validKey(key) != nil {
		return false
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.entries[key]
	return ok
}

// Len returns the number of keys.
func (d *Dict) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.entries)
}

// Keys returns the keys in insertion order.
func (d *Dict) Keys() []any {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return slices.Clone(d.order)
}

// All iterates over the keys in insertion order.
func (d *Dict) All() iter.Seq[any] {
	return slices.Values(d.Keys())
}

func (d *Dict) canonical() ([]any, map[any]entry) {
	d.mu.RLock()
	keys := slices.Clone(d.order)
	entries := make(map[any]entry, len(d.entries))
	for k, e := range d.entries {
		entries[k] = e
	}
	d.mu.RUnlock()
	domain.SortKeys(keys)
	return keys, entries
}

// Flatten resolves every entry into a *domain.Snapshot.
func (d *Dict) Flatten(recordErrors bool) (any, error) {
	return d.Snapshot(recordErrors)
}

// Snapshot resolves every entry depth-first in canonical key order. With recordErrors the
// error of a failing key becomes its value and the walk continues; otherwise the first
// error is returned.
func (d *Dict) Snapshot(recordErrors bool) (*domain.Snapshot, error) {
	keys, entries := d.canonical()
	values := make(map[any]any, len(keys))
	for _, k := range keys {
		v, err := flattenEntry(d.node, k, entries[k], recordErrors)
		if err != nil {
			if !recordErrors {
				return nil, err
			}
			v = err
		}
		values[k] = v
	}
	return domain.NewSnapshot(values), nil
}

func flattenEntry(n *node, key any, e entry, recordErrors bool) (any, error) {
	v, err := resolve(n, key, e)
	if err == nil {
		v, err = flattenValue(v, recordErrors)
	}
	if err != nil {
		return nil, atPath(key, err)
	}
	return v, nil
}

// Check reports entries that cannot be resolved, descending into nested containers and
// aggregators. Rules are never invoked.
func (d *Dict) Check(path []any) domain.Diagnostics {
	keys, entries := d.canonical()
	diags := domain.Diagnostics{}
	for _, k := range keys {
		checkEntry(diags, path, k, entries[k])
	}
	return diags
}

func checkEntry(diags domain.Diagnostics, path []any, key any, e entry) {
	at := domain.ExtendPath(path, key)
	switch e.kind {
	case kindContainer, kindView:
		if sub := e.value.(Reader).Check(at); !sub.Empty() {
			diags[key] = sub
		}
	case kindRule:
		if e.rule == nil {
			diags[key] = domain.Problem{
				Path:   at,
				Source: domain.NoSource,
				Err:    domain.ErrStructural,
			}
		}
	}
}
