// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

// Package ordered implements a map that remembers the order in which its keys
// were first inserted, and that encodes and decodes as a JSON object with its
// members in that order.
package ordered

import (
	"iter"

	"github.com/creachadair/jcodec"
)

// Map is a map from keys of type K to values of type V that preserves the
// order of insertion. A zero Map is empty and ready for use.
//
// A *Map is a jcodec.MapTarget: decoding an object into a Map replaces its
// contents with the members of the object, in input order. K and V must be
// decodable, i.e., pointers to them must be accepted by jcodec.Into.
type Map[K comparable, V any] struct {
	keys []K
	vals map[K]V
}

// New constructs an empty Map with space preallocated for n entries.
func New[K comparable, V any](n int) *Map[K, V] {
	return &Map[K, V]{keys: make([]K, 0, n), vals: make(map[K]V, n)}
}

// Len reports the number of entries in m.
func (m *Map[K, V]) Len() int { return len(m.keys) }

// Get returns the value for key and reports whether it was present.
func (m *Map[K, V]) Get(key K) (V, bool) {
	v, ok := m.vals[key]
	return v, ok
}

// Set sets the value for key. If key is new, it is added after all existing
// keys; otherwise its value is replaced and its position is unchanged.
func (m *Map[K, V]) Set(key K, val V) {
	if m.vals == nil {
		m.vals = make(map[K]V)
	}
	if _, ok := m.vals[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.vals[key] = val
}

// Delete removes key from m, and reports whether it was present.
func (m *Map[K, V]) Delete(key K) bool {
	if _, ok := m.vals[key]; !ok {
		return false
	}
	delete(m.vals, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
	return true
}

// Keys returns a slice of the keys of m in insertion order.
func (m *Map[K, V]) Keys() []K { return append([]K(nil), m.keys...) }

// All iterates the entries of m in insertion order.
func (m *Map[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, k := range m.keys {
			if !yield(k, m.vals[k]) {
				return
			}
		}
	}
}

// Encode satisfies the jcodec.Encodable interface for both a Map and a *Map.
// Keys must encode as strings, integers, or Booleans.
func (m Map[K, V]) Encode(e *jcodec.Encoder) error {
	s, err := e.BeginMap(m.Len())
	if err != nil {
		return err
	}
	for k, v := range m.All() {
		if err := s.Entry(k, v); err != nil {
			return err
		}
	}
	return s.End()
}

// Expecting satisfies the jcodec.Target interface.
func (*Map[K, V]) Expecting() string { return "an ordered map" }

// AcceptMap satisfies the jcodec.MapTarget interface.
func (m *Map[K, V]) AcceptMap(acc jcodec.MapAccess) error {
	n, _ := acc.SizeHint()
	out := New[K, V](n)
	for {
		var key K
		var val V
		ok, err := acc.NextEntry(&key, &val)
		if err != nil {
			return err
		} else if !ok {
			break
		}
		out.Set(key, val)
	}
	*m = *out
	return nil
}
