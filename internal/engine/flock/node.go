package flock

import (
	"sync"
	"sync/atomic"
)

var nextNodeID atomic.Uint64

// cacheKey addresses one memoized value inside a shared store.
type cacheKey struct {
	node uint64
	key  any
}

// store is the memo of one invalidation domain. Every container joined to a root shares the
// root's store. The generation counter is bumped on every clear so that a value computed
// across a clear is never written back.
type store struct {
	mu      sync.Mutex
	gen     uint64
	entries map[cacheKey]any
}

func newStore() *store {
	return &store{entries: make(map[cacheKey]any)}
}

func (s *store) lookup(id uint64, key any) (any, uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.entries[cacheKey{node: id, key: key}]
	return v, s.gen, ok
}

func (s *store) put(gen, id uint64, key, val any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return
	}
	s.entries[cacheKey{node: id, key: key}] = val
}

func (s *store) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	clear(s.entries)
}

// node carries the identity and the invalidation edges of a container.
type node struct {
	id uint64

	mu       sync.Mutex
	root     *node
	store    *store
	owned    bool
	children map[*node]int
	peers    map[*node]struct{}
}

func newNode(root *node) *node {
	n := &node{
		id:       nextNodeID.Add(1),
		children: make(map[*node]int),
		peers:    make(map[*node]struct{}),
	}
	if root != nil {
		n.root = root
		n.store = root.cache()
		n.owned = true
	} else {
		n.store = newStore()
	}
	return n
}

func (n *node) cache() *store {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.store
}

// domainRoot returns the node that owns n's store.
func (n *node) domainRoot() *node {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.root == nil {
		return n
	}
	return n.root
}

func (n *node) addChild(c *node) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.children[c]++
}

func (n *node) removeChild(c *node) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.children[c] <= 1 {
		delete(n.children, c)
		return
	}
	n.children[c]--
}

// addPeer makes p part of every clear that reaches n.
func (n *node) addPeer(p *node) {
	if p == nil || p == n {
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.peers[p] = struct{}{}
}

// claim marks n as nested somewhere and reports whether it was free before.
func (n *node) claim() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	free := !n.owned && n.root == nil
	n.owned = true
	return free
}

// relatives returns the store of n and every node a clear must continue to.
func (n *node) relatives() (*store, []*node) {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]*node, 0, len(n.children)+len(n.peers)+1)
	for c := range n.children {
		out = append(out, c)
	}
	for p := range n.peers {
		out = append(out, p)
	}
	if n.root != nil {
		out = append(out, n.root)
	}
	return n.store, out
}

// invalidate clears every cache reachable from n's domain root through containment and
// peer edges. The graph may be cyclic; each node and each store is visited once.
func (n *node) invalidate() {
	stack := []*node{n.domainRoot()}
	visited := make(map[uint64]struct{})
	cleared := make(map[*store]struct{})

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, seen := visited[cur.id]; seen {
			continue
		}
		visited[cur.id] = struct{}{}

		s, next := cur.relatives()
		if _, done := cleared[s]; !done {
			cleared[s] = struct{}{}
			s.clear()
		}
		stack = append(stack, next...)
	}
}

// join moves a free node, and every member of its domain, into root's domain.
func (n *node) join(root *node) {
	rs := root.cache()
	stack := []*node{n}
	visited := make(map[uint64]struct{})

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, seen := visited[cur.id]; seen {
			continue
		}
		visited[cur.id] = struct{}{}

		cur.mu.Lock()
		if cur != n && cur.root != n {
			cur.mu.Unlock()
			continue
		}
		cur.root = root
		cur.store = rs
		cur.owned = true
		for c := range cur.children {
			stack = append(stack, c)
		}
		cur.mu.Unlock()
	}
}
