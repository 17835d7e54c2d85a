package flock

import (
	"iter"
	"slices"
	"sync"

	"go.trai.ch/flock/internal/core/domain"
	"go.trai.ch/zerr"
)

var _ Container = (*List)(nil)

// List is the sequence variant of a container, addressed by int index.
type List struct {
	node *node

	mu      sync.RWMutex
	entries []entry
}

// NewList creates a free sequence holding values, each written through the Set path.
func NewList(values ...any) *List {
	l := newList(nil)
	for _, v := range values {
		// Appending cannot fail for a fresh list.
		_ = l.append(v, false)
	}
	return l
}

func newList(root *node) *List {
	return &List{node: newNode(root)}
}

func (l *List) graph() *node {
	return l.node
}

func index(key any) (int, error) {
	i, ok := key.(int)
	if !ok {
		return 0, zerr.With(zerr.Wrap(domain.ErrInvalidIndex, "index"), "key", key)
	}
	return i, nil
}

// Append adds val at the end of the sequence.
func (l *List) Append(val any) error {
	return l.append(val, true)
}

func (l *List) append(val any, invalidate bool) error {
	e, err := classify(l.node, val)
	if err != nil {
		return err
	}
	l.mu.Lock()
	l.entries = append(l.entries, e)
	l.mu.Unlock()
	if invalidate {
		l.node.invalidate()
	}
	return nil
}

// Insert places val before index i. i may equal Len to append.
func (l *List) Insert(i int, val any) error {
	e, err := classify(l.node, val)
	if err != nil {
		return err
	}
	l.mu.Lock()
	if i < 0 || i > len(l.entries) {
		l.mu.Unlock()
		l.release(e)
		return zerr.With(zerr.Wrap(domain.ErrIndexOutOfRange, "insert"), "index", i)
	}
	l.entries = slices.Insert(l.entries, i, e)
	l.mu.Unlock()
	l.node.invalidate()
	return nil
}

// Set replaces the entry at an existing index.
func (l *List) Set(key, val any) error {
	i, err := index(key)
	if err != nil {
		return err
	}
	e, err := classify(l.node, val)
	if err != nil {
		return err
	}
	l.mu.Lock()
	if i < 0 || i >= len(l.entries) {
		l.mu.Unlock()
		l.release(e)
		return zerr.With(zerr.Wrap(domain.ErrIndexOutOfRange, "set"), "index", i)
	}
	old := l.entries[i]
	l.entries[i] = e
	l.mu.Unlock()

	l.release(old)
	l.node.invalidate()
	return nil
}

// Delete removes the entry at index key, shifting later entries down.
func (l *List) Delete(key any) error {
	i, err := index(key)
	if err != nil {
		return err
	}
	l.mu.Lock()
	if i < 0 || i >= len(l.entries) {
		l.mu.Unlock()
		return notFound(key)
	}
	old := l.entries[i]
	l.entries = slices.Delete(l.entries, i, i+1)
	l.mu.Unlock()

	l.release(old)
	l.node.invalidate()
	return nil
}

// release drops the containment edge held by an entry that is no longer stored.
func (l *List) release(e entry) {
	if c := e.child(); c != nil {
		l.node.removeChild(c)
	}
}

// Get returns the value at index key.
func (l *List) Get(key any) (any, error) {
	i, err := index(key)
	if err != nil {
		return nil, err
	}
	l.mu.RLock()
	if i < 0 || i >= len(l.entries) {
		l.mu.RUnlock()
		return nil, notFound(key)
	}
	e := l.entries[i]
	l.mu.RUnlock()
	return resolve(l.node, i, e)
}

// Contains reports whether key is a valid index.
func (l *List) Contains(key any) bool {
	i, ok := key.(int)
	if !ok {
		return false
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	return i >= 0 && i < len(l.entries)
}

// Len returns the number of entries.
func (l *List) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Keys returns the valid indexes.
func (l *List) Keys() []any {
	n := l.Len()
	keys := make([]any, n)
	for i := range n {
		keys[i] = i
	}
	return keys
}

// All iterates over the valid indexes.
func (l *List) All() iter.Seq[any] {
	return slices.Values(l.Keys())
}

// Values resolves every entry in index order. See Dict.Snapshot for recordErrors.
func (l *List) Values(recordErrors bool) ([]any, error) {
	l.mu.RLock()
	entries := slices.Clone(l.entries)
	l.mu.RUnlock()

	out := make([]any, len(entries))
	for i, e := range entries {
		v, err := flattenEntry(l.node, i, e, recordErrors)
		if err != nil {
			if !recordErrors {
				return nil, err
			}
			v = err
		}
		out[i] = v
	}
	return out, nil
}

// Flatten resolves every entry into a []any.
func (l *List) Flatten(recordErrors bool) (any, error) {
	return l.Values(recordErrors)
}

// Check reports entries that cannot be resolved.
func (l *List) Check(path []any) domain.Diagnostics {
	l.mu.RLock()
	entries := slices.Clone(l.entries)
	l.mu.RUnlock()

	diags := domain.Diagnostics{}
	for i, e := range entries {
		checkEntry(diags, path, i, e)
	}
	return diags
}
