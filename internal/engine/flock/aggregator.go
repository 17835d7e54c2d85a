package flock

import (
	"slices"
	"sync"

	"go.trai.ch/flock/internal/core/domain"
	"go.trai.ch/zerr"
)

var _ Reader = (*Aggregator)(nil)

// Reducer combines the values collected for one key, in source order.
type Reducer func(values []any) (any, error)

// Sources describes where an aggregator reads from: a fixed list, a producer called on
// every access, or both (the list first).
type Sources struct {
	list     []Reader
	producer func() ([]Reader, error)
}

// SourceList uses readers in the given order.
func SourceList(readers ...Reader) Sources {
	return Sources{list: slices.Clone(readers)}
}

// SourceMap uses the values of m in canonical key order.
func SourceMap[K comparable](m map[K]Reader) Sources {
	keys := make([]any, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	domain.SortKeys(keys)
	list := make([]Reader, len(keys))
	for i, k := range keys {
		list[i] = m[k.(K)]
	}
	return Sources{list: list}
}

// SourceFunc calls fn on every access to obtain the current sources.
func SourceFunc(fn func() ([]Reader, error)) Sources {
	return Sources{producer: fn}
}

// AggregatorOption configures an Aggregator.
type AggregatorOption func(*Aggregator)

// WithKeys fixes the key set instead of using the union of the sources' keys.
func WithKeys(keys ...any) AggregatorOption {
	return func(a *Aggregator) {
		a.keys = slices.Clone(keys)
	}
}

// Aggregator is a read-only view that reduces the values stored under the same key in
// several sources. It never caches: every read recomputes from the current sources.
type Aggregator struct {
	reduce Reducer

	mu       sync.RWMutex
	list     []Reader
	producer func() ([]Reader, error)
	keys     []any
	hosts    map[*node]struct{}
}

// NewAggregator creates an aggregator over src combining values with reduce.
func NewAggregator(src Sources, reduce Reducer, opts ...AggregatorOption) *Aggregator {
	a := &Aggregator{
		reduce:   reduce,
		list:     src.list,
		producer: src.producer,
		hosts:    make(map[*node]struct{}),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// attach records host as a container holding a, and makes host a peer of every fixed source.
func (a *Aggregator) attach(host *node) {
	a.mu.Lock()
	a.hosts[host] = struct{}{}
	list := slices.Clone(a.list)
	a.mu.Unlock()

	for _, r := range list {
		watch(host, r)
	}
}

// AddSource appends r to the fixed sources and clears the domains of every container
// holding this aggregator.
func (a *Aggregator) AddSource(r Reader) {
	a.mu.Lock()
	a.list = append(a.list, r)
	hosts := make([]*node, 0, len(a.hosts))
	for h := range a.hosts {
		hosts = append(hosts, h)
	}
	a.mu.Unlock()

	for _, h := range hosts {
		watch(h, r)
		h.invalidate()
	}
}

// Sources returns the current sources in order.
func (a *Aggregator) Sources() ([]Reader, error) {
	a.mu.RLock()
	list := slices.Clone(a.list)
	producer := a.producer
	a.mu.RUnlock()

	if producer == nil {
		return list, nil
	}
	produced, err := producer()
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrSourcesFailed.Error())
	}
	return append(list, produced...), nil
}

// Keys returns the fixed key set, or the union of the sources' keys in canonical order.
// Keys is empty when the sources cannot be produced.
func (a *Aggregator) Keys() []any {
	a.mu.RLock()
	fixed := a.keys
	a.mu.RUnlock()
	if fixed != nil {
		return slices.Clone(fixed)
	}

	srcs, err := a.Sources()
	if err != nil {
		return nil
	}
	seen := make(map[any]struct{})
	var keys []any
	for _, s := range srcs {
		for _, k := range s.Keys() {
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			keys = append(keys, k)
		}
	}
	domain.SortKeys(keys)
	return keys
}

// Len returns the number of keys.
func (a *Aggregator) Len() int {
	return len(a.Keys())
}

// Contains reports whether key is one of the aggregator's keys.
func (a *Aggregator) Contains(key any) bool {
	if validKey(key) != nil {
		return false
	}
	for _, k := range a.Keys() {
		if k == key {
			return true
		}
	}
	return false
}

// collect reads key from every source that holds it.
func (a *Aggregator) collect(key any) ([]int, []any, error) {
	srcs, err := a.Sources()
	if err != nil {
		return nil, nil, err
	}
	var (
		from   []int
		values []any
	)
	for i, s := range srcs {
		if !s.Contains(key) {
			continue
		}
		v, err := s.Get(key)
		if err != nil {
			return nil, nil, err
		}
		from = append(from, i)
		values = append(values, v)
	}
	return from, values, nil
}

// Get reduces the values stored under key in every source that holds it.
func (a *Aggregator) Get(key any) (any, error) {
	if err := validKey(key); err != nil {
		return nil, err
	}
	from, values, err := a.collect(key)
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, notFound(key)
	}
	out, err := a.apply(values)
	if err != nil {
		return nil, &AggregationError{Key: key, Sources: from, Values: values, Err: err}
	}
	return out, nil
}

func (a *Aggregator) apply(values []any) (any, error) {
	if a.reduce == nil {
		return nil, zerr.Wrap(domain.ErrStructural, "aggregator has no reducer")
	}
	return invoke(func() (any, error) {
		return a.reduce(values)
	})
}

// Flatten reduces every key into a *domain.Snapshot.
func (a *Aggregator) Flatten(recordErrors bool) (any, error) {
	return a.Snapshot(recordErrors)
}

// Snapshot reduces every key. recordErrors has the same meaning as for Dict.Snapshot.
func (a *Aggregator) Snapshot(recordErrors bool) (*domain.Snapshot, error) {
	keys := a.Keys()
	if keys == nil {
		if _, err := a.Sources(); err != nil {
			return nil, err
		}
	}
	values := make(map[any]any, len(keys))
	for _, k := range keys {
		v, err := a.Get(k)
		if err == nil {
			v, err = flattenValue(v, recordErrors)
		}
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

// Check probes the reducer with the value of each source on its own, for every key.
// Problems are keyed by key, then by source index; the scan never stops early.
func (a *Aggregator) Check(path []any) domain.Diagnostics {
	diags := domain.Diagnostics{}
	if a.reduce == nil {
		diags[domain.NoSource] = domain.Problem{
			Path:   path,
			Source: domain.NoSource,
			Err:    zerr.Wrap(domain.ErrStructural, "aggregator has no reducer"),
		}
		return diags
	}
	srcs, err := a.Sources()
	if err != nil {
		diags[domain.NoSource] = domain.Problem{Path: path, Source: domain.NoSource, Err: err}
		return diags
	}

	for _, k := range a.Keys() {
		at := domain.ExtendPath(path, k)
		perSource := domain.Diagnostics{}
		for i, s := range srcs {
			if !s.Contains(k) {
				continue
			}
			v, err := s.Get(k)
			if err == nil {
				_, err = a.apply([]any{v})
			}
			if err != nil {
				perSource[i] = domain.Problem{Path: at, Source: i, Err: err}
			}
		}
		if !perSource.Empty() {
			diags[k] = perSource
		}
	}
	return diags
}
