// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jcodec

import (
	"fmt"
	"slices"
)

// Unknown is the ordinal reported by a lenient IdentSet for a name that is
// not in the set.
const Unknown = -1

// An IdentSet is a closed set of field or variant names. The ordinal of a name
// is its position in the set, so callers typically pair an IdentSet with a
// block of constants:
//
//	const (
//	   fieldSecs = iota
//	   fieldNanos
//	)
//	var durationFields = jcodec.Fields("secs", "nanos")
type IdentSet struct {
	names   []string
	variant bool // names are union variants rather than record fields
	lenient bool // unknown names resolve to Unknown
}

// Fields returns an IdentSet of record field names.
func Fields(names ...string) *IdentSet { return &IdentSet{names: names} }

// Variants returns an IdentSet of union variant names.
func Variants(names ...string) *IdentSet { return &IdentSet{names: names, variant: true} }

// Lenient returns a copy of s whose Resolve method reports Unknown instead of
// an error for names not in the set.
func (s *IdentSet) Lenient() *IdentSet {
	c := *s
	c.lenient = true
	return &c
}

// Len reports the number of names in s.
func (s *IdentSet) Len() int { return len(s.names) }

// Name returns the name with ordinal i.
func (s *IdentSet) Name(i int) string { return s.names[i] }

// Names returns a copy of the names in s, in order.
func (s *IdentSet) Names() []string { return slices.Clone(s.names) }

// Resolve returns the ordinal of name in s. If name is not in s, Resolve
// reports an error of kind UnknownIdentifier naming the allowed set, unless s
// is lenient, in which case it returns Unknown.
func (s *IdentSet) Resolve(name string) (int, error) {
	if i := slices.Index(s.names, name); i >= 0 {
		return i, nil
	} else if s.lenient {
		return Unknown, nil
	} else if s.variant {
		return Unknown, UnknownVariant(name, s.names)
	}
	return Unknown, UnknownField(name, s.names)
}

// Into returns a Target that resolves an identifier into *idx. The identifier
// may be given by name, or by its ordinal as an unsigned integer.
func (s *IdentSet) Into(idx *int) Target { return identTarget{set: s, idx: idx} }

type identTarget struct {
	set *IdentSet
	idx *int
}

func (t identTarget) Expecting() string {
	if t.set.variant {
		return "variant identifier"
	}
	return "field identifier"
}

func (t identTarget) AcceptString(name string) error {
	i, err := t.set.Resolve(name)
	if err != nil {
		return err
	}
	*t.idx = i
	return nil
}

func (t identTarget) AcceptUint(u uint64) error {
	if u >= uint64(len(t.set.names)) {
		if t.set.lenient {
			*t.idx = Unknown
			return nil
		}
		what := "field"
		if t.set.variant {
			what = "variant"
		}
		return InvalidValueError(fmt.Sprintf("integer `%d`", u),
			fmt.Sprintf("%s index 0 <= i < %d", what, len(t.set.names)))
	}
	*t.idx = int(u)
	return nil
}
