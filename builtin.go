// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jcodec

import (
	"cmp"
	"fmt"
	"reflect"
	"slices"
	"unicode/utf8"
)

// Into returns a Target that decodes into dst.
//
// If dst implements Target, it is returned unmodified. Otherwise dst must be
// a non-nil pointer to one of:
//
//   - a type whose pointer implements Target
//   - a Boolean, integer, floating-point, or string type
//   - a pointer, which is set to nil for null and allocated otherwise
//   - a slice, decoded from an array
//   - an array, decoded from an array of exactly the same length
//   - a map whose keys are strings, integers, or Booleans, decoded from an
//     object
//   - an empty struct, decoded from null
//
// Built-in targets modify *dst only when decoding succeeds.
func Into(dst any) (Target, error) {
	if t, ok := dst.(Target); ok {
		return t, nil
	}
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return nil, Errorf("decode target must be a non-nil pointer, got %T", dst)
	}
	return valueTarget(rv.Elem())
}

// valueTarget returns a Target for the addressable value v.
func valueTarget(v reflect.Value) (Target, error) {
	if t, ok := v.Addr().Interface().(Target); ok {
		return t, nil
	}
	switch v.Kind() {
	case reflect.Bool:
		return boolTarget{v}, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return intTarget{v}, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return uintTarget{v}, nil
	case reflect.Float32, reflect.Float64:
		return floatTarget{v}, nil
	case reflect.String:
		return stringTarget{v}, nil
	case reflect.Pointer:
		return ptrTarget{v}, nil
	case reflect.Slice:
		return sliceTarget{v}, nil
	case reflect.Array:
		return arrayTarget{v}, nil
	case reflect.Map:
		return mapTarget{v}, nil
	case reflect.Struct:
		if v.NumField() == 0 {
			return unitTarget{v}, nil
		}
	}
	return nil, &UnsupportedTypeError{Type: v.Type()}
}

type boolTarget struct{ v reflect.Value }

func (boolTarget) Expecting() string { return "a boolean" }

func (t boolTarget) AcceptBool(b bool) error { t.v.SetBool(b); return nil }

type intTarget struct{ v reflect.Value }

func (t intTarget) Expecting() string { return "an integer of type " + t.v.Type().String() }

func (t intTarget) AcceptInt(z int64) error {
	if t.v.OverflowInt(z) {
		return InvalidValueError(fmt.Sprintf("integer `%d`", z), t.Expecting())
	}
	t.v.SetInt(z)
	return nil
}

type uintTarget struct{ v reflect.Value }

func (t uintTarget) Expecting() string {
	return "an unsigned integer of type " + t.v.Type().String()
}

func (t uintTarget) AcceptUint(u uint64) error {
	if t.v.OverflowUint(u) {
		return InvalidValueError(fmt.Sprintf("integer `%d`", u), t.Expecting())
	}
	t.v.SetUint(u)
	return nil
}

type floatTarget struct{ v reflect.Value }

func (t floatTarget) Expecting() string { return "a number of type " + t.v.Type().String() }

func (t floatTarget) AcceptFloat(f float64) error {
	if t.v.OverflowFloat(f) {
		return InvalidValueError(fmt.Sprintf("floating point `%g`", f), t.Expecting())
	}
	t.v.SetFloat(f)
	return nil
}

type stringTarget struct{ v reflect.Value }

func (stringTarget) Expecting() string { return "a string" }

func (t stringTarget) AcceptString(s string) error { t.v.SetString(s); return nil }

type ptrTarget struct{ v reflect.Value }

func (t ptrTarget) Expecting() string { return "an optional " + t.v.Type().Elem().String() }

func (t ptrTarget) AcceptNull() error { t.v.SetZero(); return nil }

func (t ptrTarget) AcceptSome(va ValueAccess) error {
	p := reflect.New(t.v.Type().Elem())
	if err := va.Decode(p.Interface()); err != nil {
		return err
	}
	t.v.Set(p)
	return nil
}

type sliceTarget struct{ v reflect.Value }

func (sliceTarget) Expecting() string { return "a sequence" }

func (t sliceTarget) AcceptSeq(s SeqAccess) error {
	hint, _ := s.SizeHint()
	out := reflect.MakeSlice(t.v.Type(), 0, hint)
	elt := t.v.Type().Elem()
	for {
		p := reflect.New(elt)
		ok, err := s.NextElement(p.Interface())
		if err != nil {
			return err
		} else if !ok {
			break
		}
		out = reflect.Append(out, p.Elem())
	}
	t.v.Set(out)
	return nil
}

type arrayTarget struct{ v reflect.Value }

func (t arrayTarget) Expecting() string { return fmt.Sprintf("an array of length %d", t.v.Len()) }

func (t arrayTarget) AcceptSeq(s SeqAccess) error {
	out := reflect.New(t.v.Type()).Elem()
	for i := range out.Len() {
		ok, err := s.NextElement(out.Index(i).Addr().Interface())
		if err != nil {
			return err
		} else if !ok {
			return InvalidLengthError(i, t.Expecting())
		}
	}
	t.v.Set(out)
	return nil
}

type mapTarget struct{ v reflect.Value }

func (mapTarget) Expecting() string { return "a map" }

func (t mapTarget) AcceptMap(m MapAccess) error {
	hint, _ := m.SizeHint()
	mt := t.v.Type()
	out := reflect.MakeMapWithSize(mt, hint)
	for {
		k := reflect.New(mt.Key())
		v := reflect.New(mt.Elem())
		ok, err := m.NextEntry(k.Interface(), v.Interface())
		if err != nil {
			return err
		} else if !ok {
			break
		}
		out.SetMapIndex(k.Elem(), v.Elem())
	}
	t.v.Set(out)
	return nil
}

type unitTarget struct{ v reflect.Value }

func (unitTarget) Expecting() string { return "unit" }

func (unitTarget) AcceptNull() error { return nil }

// Ignore is a Target that accepts any value and discards it. It is useful for
// skipping the values of unrecognized record fields.
var Ignore Target = ignoreTarget{}

type ignoreTarget struct{}

func (ignoreTarget) Expecting() string         { return "any value" }
func (ignoreTarget) AcceptNull() error         { return nil }
func (ignoreTarget) AcceptBool(bool) error     { return nil }
func (ignoreTarget) AcceptInt(int64) error     { return nil }
func (ignoreTarget) AcceptUint(uint64) error   { return nil }
func (ignoreTarget) AcceptFloat(float64) error { return nil }
func (ignoreTarget) AcceptString(string) error { return nil }

func (ignoreTarget) AcceptSeq(s SeqAccess) error {
	for {
		if ok, err := s.NextElement(Ignore); err != nil || !ok {
			return err
		}
	}
}

func (ignoreTarget) AcceptMap(m MapAccess) error {
	for {
		if ok, err := m.NextEntry(Ignore, Ignore); err != nil || !ok {
			return err
		}
	}
}

// Char is a rune that encodes as a string containing exactly that rune, and
// decodes from a string containing exactly one rune.
type Char rune

// Encode satisfies the Encodable interface.
func (c Char) Encode(e *Encoder) error { return e.Char(rune(c)) }

// Expecting satisfies the Target interface.
func (*Char) Expecting() string { return "a character" }

// AcceptString satisfies the StringTarget interface.
func (c *Char) AcceptString(s string) error {
	r, n := utf8.DecodeRuneInString(s)
	if n == 0 || n != len(s) {
		return InvalidValueError("string "+Quote(s), c.Expecting())
	}
	*c = Char(r)
	return nil
}

// isNilPointer reports whether v is a nil pointer of any type.
func isNilPointer(v any) bool {
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

// encodeReflect encodes values of built-in kinds not handled by Encode.
func (e *Encoder) encodeReflect(v any) error {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		return e.Bool(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return e.Int(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return e.Uint(rv.Uint())
	case reflect.Float32:
		return e.Float(rv.Float(), 32)
	case reflect.Float64:
		return e.Float(rv.Float(), 64)
	case reflect.String:
		return e.String(rv.String())
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return e.None()
		}
		return e.Some(rv.Elem().Interface())
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return e.byteSeq(rv.Bytes())
		}
		return e.encodeSeq(rv)
	case reflect.Array:
		return e.encodeSeq(rv)
	case reflect.Map:
		return e.encodeMap(rv)
	case reflect.Struct:
		if rv.NumField() == 0 {
			return e.UnitStruct(rv.Type().Name())
		}
	}
	return &UnsupportedTypeError{Type: rv.Type()}
}

func (e *Encoder) encodeSeq(rv reflect.Value) error {
	s, err := e.BeginSeq(rv.Len())
	if err != nil {
		return err
	}
	for i := range rv.Len() {
		if err := s.Element(rv.Index(i).Interface()); err != nil {
			return err
		}
	}
	return s.End()
}

// encodeMap encodes a Go map with its entries ordered by the text of their
// encoded keys, so that the output is deterministic.
func (e *Encoder) encodeMap(rv reflect.Value) error {
	type entry struct {
		text string
		key  reflect.Value
	}
	ents := make([]entry, 0, rv.Len())
	for _, k := range rv.MapKeys() {
		ke := Encoder{key: true}
		if err := ke.Encode(k.Interface()); err != nil {
			return err
		}
		ents = append(ents, entry{text: string(ke.buf), key: k})
	}
	slices.SortFunc(ents, func(a, b entry) int { return cmp.Compare(a.text, b.text) })

	m, err := e.BeginMap(len(ents))
	if err != nil {
		return err
	}
	for _, ent := range ents {
		if err := m.Entry(ent.key.Interface(), rv.MapIndex(ent.key).Interface()); err != nil {
			return err
		}
	}
	return m.End()
}
