package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"iter"

	"github.com/cespare/xxhash/v2"
	"gopkg.in/yaml.v3"
)

// ErrorTag is the YAML tag used for error values recorded in a snapshot.
const ErrorTag = "!error"

// Snapshot is the immutable result of flattening a keyed container.
// Keys are held in canonical order; see CompareKeys.
type Snapshot struct {
	keys   []any
	values map[any]any
}

// NewSnapshot builds a snapshot from a set of values. The map is copied.
func NewSnapshot(values map[any]any) *Snapshot {
	s := &Snapshot{
		keys:   make([]any, 0, len(values)),
		values: make(map[any]any, len(values)),
	}
	for k, v := range values {
		s.keys = append(s.keys, k)
		s.values[k] = v
	}
	SortKeys(s.keys)
	return s
}

// Len returns the number of entries.
func (s *Snapshot) Len() int {
	return len(s.keys)
}

// Keys returns the keys in canonical order.
func (s *Snapshot) Keys() []any {
	out := make([]any, len(s.keys))
	copy(out, s.keys)
	return out
}

// Get returns the value stored at key.
func (s *Snapshot) Get(key any) (any, bool) {
	v, ok := s.values[key]
	return v, ok
}

// All iterates over the entries in canonical key order.
func (s *Snapshot) All() iter.Seq2[any, any] {
	return func(yield func(any, any) bool) {
		for _, k := range s.keys {
			if !yield(k, s.values[k]) {
				return
			}
		}
	}
}

// Plain converts the snapshot into nested Go maps and slices.
func (s *Snapshot) Plain() map[any]any {
	out := make(map[any]any, len(s.keys))
	for k, v := range s.All() {
		out[k] = plain(v)
	}
	return out
}

// PlainValue converts snapshots found in v, at any depth of nested slices, into plain maps.
func PlainValue(v any) any {
	return plain(v)
}

func plain(v any) any {
	switch x := v.(type) {
	case *Snapshot:
		return x.Plain()
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = plain(e)
		}
		return out
	default:
		return v
	}
}

// MarshalYAML encodes the snapshot as a mapping in canonical key order.
func (s *Snapshot) MarshalYAML() (any, error) {
	return yamlNode(s)
}

func yamlNode(v any) (*yaml.Node, error) {
	switch x := v.(type) {
	case *Snapshot:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for k, val := range x.All() {
			kn := &yaml.Node{}
			if err := kn.Encode(k); err != nil {
				return nil, err
			}
			vn, err := yamlNode(val)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, kn, vn)
		}
		return n, nil
	case []any:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, e := range x {
			en, err := yamlNode(e)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, en)
		}
		return n, nil
	case error:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: ErrorTag, Value: x.Error()}, nil
	default:
		n := &yaml.Node{}
		if err := n.Encode(v); err != nil {
			return nil, err
		}
		return n, nil
	}
}

// MarshalJSON encodes the snapshot as an object in canonical key order.
// Keys are printed with fmt; recorded errors become {"error": message}.
func (s *Snapshot) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	i := 0
	for k, v := range s.All() {
		if i > 0 {
			buf.WriteByte(',')
		}
		i++
		kb, err := json.Marshal(fmt.Sprint(k))
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(jsonValue(v))
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func jsonValue(v any) any {
	switch x := v.(type) {
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = jsonValue(e)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[fmt.Sprint(k)] = jsonValue(e)
		}
		return out
	case error:
		return map[string]string{"error": x.Error()}
	default:
		return v
	}
}

// Digest returns a stable fingerprint of the snapshot contents.
func (s *Snapshot) Digest() (string, error) {
	data, err := s.MarshalJSON()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%016x", xxhash.Sum64(data)), nil
}
