// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jcodec

import (
	"math"
	"strconv"
)

// Encodable is implemented by values that can write themselves to an Encoder.
// An implementation makes one call for a scalar, or opens exactly one
// composite, fills it, and ends it.
type Encodable interface {
	Encode(*Encoder) error
}

// An Encoder accumulates the JSON encoding of a value. The methods of an
// Encoder correspond to the shapes of values:
//
//	Shape             | Methods
//	----------------- | -------------------------------------------------
//	scalar            | Bool, Int, Uint, Float, Char, String, Bytes
//	absent / present  | None, Some
//	unit              | Unit, UnitStruct
//	newtype           | NewtypeStruct
//	sequence          | BeginSeq, BeginTuple, BeginTupleStruct
//	map               | BeginMap
//	record            | BeginStruct
//	union arm         | UnitVariant, NewtypeVariant, BeginTupleVariant,
//	                  | BeginStructVariant
//
// The Begin methods return a session value that accepts elements or fields
// and must be ended exactly once. Sessions must be ended in the reverse of
// the order they were begun; the Encoder reports an error if they are not.
//
// The zero Encoder is ready for use, but most callers should use Marshal.
type Encoder struct {
	buf  []byte
	stk  []frame
	key  bool // encoding a map key
	vals int  // values written at the top level
}

type frameKind byte

const (
	seqFrame frameKind = iota
	mapFrame
	structFrame
)

// A frame records the state of one open composite.
type frame struct {
	kind  frameKind
	first bool   // no element or field has been written yet
	key   bool   // map: a key has been written, its value is pending
	vals  int    // values written in the current slot
	close string // closing punctuation
}

// Output returns the encoded output accumulated so far. The caller must not
// modify the returned slice.
func (e *Encoder) Output() []byte { return e.buf }

// Depth reports the number of composites currently open.
func (e *Encoder) Depth() int { return len(e.stk) }

// Encode writes the encoding of v. If v implements Encodable, its Encode
// method is used; otherwise v must be a built-in value: nil, a boolean,
// number, string, Char, byte slice, pointer, slice, array, or map of these.
func (e *Encoder) Encode(v any) error {
	switch t := v.(type) {
	case nil:
		return e.None()
	case Encodable:
		if isNilPointer(t) {
			return e.None()
		}
		return t.Encode(e)
	case bool:
		return e.Bool(t)
	case int:
		return e.Int(int64(t))
	case int8:
		return e.Int(int64(t))
	case int16:
		return e.Int(int64(t))
	case int32:
		return e.Int(int64(t))
	case int64:
		return e.Int(t)
	case uint:
		return e.Uint(uint64(t))
	case uint8:
		return e.Uint(uint64(t))
	case uint16:
		return e.Uint(uint64(t))
	case uint32:
		return e.Uint(uint64(t))
	case uint64:
		return e.Uint(t)
	case uintptr:
		return e.Uint(uint64(t))
	case float32:
		return e.Float(float64(t), 32)
	case float64:
		return e.Float(t, 64)
	case string:
		return e.String(t)
	case []byte:
		return e.byteSeq(t)
	}
	return e.encodeReflect(v)
}

// Bool writes a Boolean value.
func (e *Encoder) Bool(v bool) error {
	if e.key {
		e.buf = append(e.buf, '"')
		e.buf = strconv.AppendBool(e.buf, v)
		e.buf = append(e.buf, '"')
	} else {
		e.buf = strconv.AppendBool(e.buf, v)
	}
	e.wrote()
	return nil
}

// Int writes a signed integer in decimal.
func (e *Encoder) Int(v int64) error {
	if e.key {
		e.buf = append(e.buf, '"')
		e.buf = strconv.AppendInt(e.buf, v, 10)
		e.buf = append(e.buf, '"')
	} else {
		e.buf = strconv.AppendInt(e.buf, v, 10)
	}
	e.wrote()
	return nil
}

// Uint writes an unsigned integer in decimal.
func (e *Encoder) Uint(v uint64) error {
	if e.key {
		e.buf = append(e.buf, '"')
		e.buf = strconv.AppendUint(e.buf, v, 10)
		e.buf = append(e.buf, '"')
	} else {
		e.buf = strconv.AppendUint(e.buf, v, 10)
	}
	e.wrote()
	return nil
}

// Float writes a floating-point value of the given bit size (32 or 64) in
// the shortest decimal form that round-trips. NaN and infinities have no
// JSON representation and are written as null.
func (e *Encoder) Float(v float64, bits int) error {
	if e.key {
		return e.keyError("a floating-point number")
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		e.buf = append(e.buf, "null"...)
	} else {
		e.buf = appendFloat(e.buf, v, bits)
	}
	e.wrote()
	return nil
}

// Char writes a single character as a string.
func (e *Encoder) Char(r rune) error { return e.String(string(r)) }

// String writes a quoted, escaped string.
func (e *Encoder) String(s string) error {
	e.buf = appendQuoted(e.buf, s)
	e.wrote()
	return nil
}

// Bytes writes b as an array of small unsigned integers. The output is the
// same as for a sequence of uint8 elements, but is written directly.
func (e *Encoder) Bytes(b []byte) error {
	if e.key {
		return e.keyError("a byte array")
	}
	e.buf = append(e.buf, '[')
	for i, c := range b {
		if i > 0 {
			e.buf = append(e.buf, ',')
		}
		e.buf = strconv.AppendUint(e.buf, uint64(c), 10)
	}
	e.buf = append(e.buf, ']')
	e.wrote()
	return nil
}

// byteSeq writes b through a sequence session, one element at a time.
func (e *Encoder) byteSeq(b []byte) error {
	s, err := e.BeginSeq(len(b))
	if err != nil {
		return err
	}
	for _, c := range b {
		if err := s.Element(c); err != nil {
			return err
		}
	}
	return s.End()
}

// None writes an absent value.
func (e *Encoder) None() error { return e.Unit() }

// Some writes a present value. The value is not tagged.
func (e *Encoder) Some(v any) error { return e.Encode(v) }

// Unit writes a value carrying no data.
func (e *Encoder) Unit() error {
	if e.key {
		return e.keyError("null")
	}
	e.buf = append(e.buf, "null"...)
	e.wrote()
	return nil
}

// UnitStruct writes a named marker type carrying no data.
func (e *Encoder) UnitStruct(name string) error { return e.Unit() }

// UnitVariant writes a union arm with no payload, as its variant name.
func (e *Encoder) UnitVariant(name string, index uint32, variant string) error {
	return e.String(variant)
}

// NewtypeStruct writes a single-value wrapper as the wrapped value.
func (e *Encoder) NewtypeStruct(name string, v any) error { return e.Encode(v) }

// NewtypeVariant writes a union arm with a single value, as {"variant":v}.
func (e *Encoder) NewtypeVariant(name string, index uint32, variant string, v any) error {
	if e.key {
		return e.keyError("a union variant")
	}
	d, err := e.open(structFrame, `{`+Quote(variant)+`:`, "}")
	if err != nil {
		return err
	}
	if err := e.encodeOne(d, v); err != nil {
		return err
	}
	return e.end(d)
}

// BeginSeq begins a sequence of n elements. The length is advisory.
func (e *Encoder) BeginSeq(n int) (*SeqEncoder, error) { return e.beginSeq("[", "]") }

// BeginTuple begins a fixed-length positional value of n elements.
func (e *Encoder) BeginTuple(n int) (*SeqEncoder, error) { return e.BeginSeq(n) }

// BeginTupleStruct begins a positional record of n fields.
func (e *Encoder) BeginTupleStruct(name string, n int) (*SeqEncoder, error) {
	return e.BeginSeq(n)
}

// BeginTupleVariant begins a union arm with n positional fields, written as
// {"variant":[...]}.
func (e *Encoder) BeginTupleVariant(name string, index uint32, variant string, n int) (*SeqEncoder, error) {
	return e.beginSeq(`{`+Quote(variant)+`:[`, "]}")
}

// BeginMap begins a map of n entries. The length is advisory.
func (e *Encoder) BeginMap(n int) (*MapEncoder, error) {
	d, err := e.open(mapFrame, "{", "}")
	if err != nil {
		return nil, err
	}
	return &MapEncoder{e: e, depth: d}, nil
}

// BeginStruct begins a record of n named fields.
func (e *Encoder) BeginStruct(name string, n int) (*StructEncoder, error) {
	return e.beginStruct("{", "}")
}

// BeginStructVariant begins a union arm with n named fields, written as
// {"variant":{...}}.
func (e *Encoder) BeginStructVariant(name string, index uint32, variant string, n int) (*StructEncoder, error) {
	return e.beginStruct(`{`+Quote(variant)+`:{`, "}}")
}

func (e *Encoder) beginSeq(open, close string) (*SeqEncoder, error) {
	d, err := e.open(seqFrame, open, close)
	if err != nil {
		return nil, err
	}
	return &SeqEncoder{e: e, depth: d}, nil
}

func (e *Encoder) beginStruct(open, close string) (*StructEncoder, error) {
	d, err := e.open(structFrame, open, close)
	if err != nil {
		return nil, err
	}
	return &StructEncoder{e: e, depth: d}, nil
}

// open writes the opening punctuation of a composite and pushes its frame,
// returning the depth of the new frame.
func (e *Encoder) open(kind frameKind, open, close string) (int, error) {
	if e.key {
		return 0, e.keyError("a composite value")
	}
	e.buf = append(e.buf, open...)
	e.wrote()
	e.stk = append(e.stk, frame{kind: kind, first: true, close: close})
	return len(e.stk) - 1, nil
}

// wrote records that a value was written in the innermost open slot.
func (e *Encoder) wrote() {
	if n := len(e.stk); n > 0 {
		e.stk[n-1].vals++
	} else {
		e.vals++
	}
}

// encodeOne encodes v as the single value of a slot in the frame at depth d,
// or at the top level if d < 0. It reports an error unless v wrote exactly
// one value and closed every composite it opened.
func (e *Encoder) encodeOne(d int, v any) error {
	e.setVals(d, 0)
	if err := e.Encode(v); err != nil {
		return err
	}
	if open := len(e.stk) - 1 - d; open > 0 {
		return Errorf("value left %d composites open", open)
	} else if open < 0 {
		return Errorf("value ended an enclosing composite")
	}
	if n := e.getVals(d); n != 1 {
		return Errorf("encoded %d values where one was expected", n)
	}
	return nil
}

func (e *Encoder) getVals(d int) int {
	if d < 0 {
		return e.vals
	}
	return e.stk[d].vals
}

func (e *Encoder) setVals(d, n int) {
	if d < 0 {
		e.vals = n
	} else {
		e.stk[d].vals = n
	}
}

// top returns the frame at depth d, which must be the innermost open frame.
func (e *Encoder) top(d int) (*frame, error) {
	if d != len(e.stk)-1 {
		if d >= len(e.stk) {
			return nil, Errorf("composite was already ended")
		}
		return nil, Errorf("composite is not the innermost open value")
	}
	return &e.stk[d], nil
}

// next writes a separator if the frame at depth d already has an element.
func (e *Encoder) next(d int) error {
	f, err := e.top(d)
	if err != nil {
		return err
	}
	if !f.first {
		e.buf = append(e.buf, ',')
	}
	f.first = false
	return nil
}

// end writes the closing punctuation of the frame at depth d and pops it.
func (e *Encoder) end(d int) error {
	f, err := e.top(d)
	if err != nil {
		return err
	} else if f.key {
		return Errorf("map entry is missing its value")
	}
	e.buf = append(e.buf, f.close...)
	e.stk = e.stk[:d]
	return nil
}

func (e *Encoder) keyError(what string) error {
	return Errorf("map key must be a string, got %s", what)
}

// A SeqEncoder writes the elements of a sequence, positional record, or
// positional union arm.
type SeqEncoder struct {
	e     *Encoder
	depth int
}

// Element writes the next element of the sequence.
func (s *SeqEncoder) Element(v any) error {
	if err := s.e.next(s.depth); err != nil {
		return err
	}
	return s.e.encodeOne(s.depth, v)
}

// Field writes the next field of a positional record. It is a synonym for
// Element.
func (s *SeqEncoder) Field(v any) error { return s.Element(v) }

// End closes the sequence.
func (s *SeqEncoder) End() error { return s.e.end(s.depth) }

// A MapEncoder writes the entries of a map. Keys must encode as strings,
// integers, or Booleans; non-string keys are written as quoted strings.
type MapEncoder struct {
	e     *Encoder
	depth int
}

// Key writes the key of the next entry. It must be followed by Value.
func (m *MapEncoder) Key(k any) error {
	f, err := m.e.top(m.depth)
	if err != nil {
		return err
	} else if f.key {
		return Errorf("map key written twice without a value")
	}
	ke := Encoder{key: true}
	if err := ke.encodeOne(-1, k); err != nil {
		return err
	}
	if err := m.e.next(m.depth); err != nil {
		return err
	}
	m.e.buf = append(m.e.buf, ke.buf...)
	m.e.buf = append(m.e.buf, ':')
	m.e.stk[m.depth].key = true
	return nil
}

// Value writes the value of the entry whose key was most recently written.
func (m *MapEncoder) Value(v any) error {
	f, err := m.e.top(m.depth)
	if err != nil {
		return err
	} else if !f.key {
		return Errorf("map value written without a key")
	}
	f.key = false
	return m.e.encodeOne(m.depth, v)
}

// Entry writes a complete key-value entry.
func (m *MapEncoder) Entry(k, v any) error {
	if err := m.Key(k); err != nil {
		return err
	}
	return m.Value(v)
}

// End closes the map.
func (m *MapEncoder) End() error { return m.e.end(m.depth) }

// A StructEncoder writes the named fields of a record or of a record-shaped
// union arm.
type StructEncoder struct {
	e     *Encoder
	depth int
}

// Field writes the named field of the record.
func (s *StructEncoder) Field(name string, v any) error {
	if err := s.e.next(s.depth); err != nil {
		return err
	}
	s.e.buf = appendQuoted(s.e.buf, name)
	s.e.buf = append(s.e.buf, ':')
	return s.e.encodeOne(s.depth, v)
}

// Skip records that the named field is omitted from the output. JSON has no
// representation for a skipped field, so nothing is written.
func (s *StructEncoder) Skip(name string) error {
	_, err := s.e.top(s.depth)
	return err
}

// End closes the record.
func (s *StructEncoder) End() error { return s.e.end(s.depth) }

// appendFloat appends the text of f, using exponent notation only for very
// large or very small magnitudes.
func appendFloat(buf []byte, f float64, bits int) []byte {
	abs := math.Abs(f)
	format := byte('f')
	if abs != 0 {
		if bits == 64 && (abs < 1e-6 || abs >= 1e21) ||
			bits == 32 && (float32(abs) < 1e-6 || float32(abs) >= 1e21) {
			format = 'e'
		}
	}
	buf = strconv.AppendFloat(buf, f, format, -1, bits)
	if format == 'e' {
		// Trim a redundant leading zero from the exponent: 1e-07 => 1e-7.
		n := len(buf)
		if n >= 4 && buf[n-4] == 'e' && buf[n-3] == '-' && buf[n-2] == '0' {
			buf[n-2] = buf[n-1]
			buf = buf[:n-1]
		}
	}
	return buf
}
