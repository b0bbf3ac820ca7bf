// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jcodec_test

import (
	"errors"
	"testing"

	"github.com/creachadair/jcodec"
	"github.com/google/go-cmp/cmp"
)

func TestIdentSet(t *testing.T) {
	fields := jcodec.Fields("alpha", "bravo", "charlie")
	if got := fields.Len(); got != 3 {
		t.Errorf("Len: got %d, want 3", got)
	}
	if got := fields.Name(1); got != "bravo" {
		t.Errorf("Name(1): got %q, want bravo", got)
	}
	if diff := cmp.Diff([]string{"alpha", "bravo", "charlie"}, fields.Names()); diff != "" {
		t.Errorf("Names: (-want, +got)\n%s", diff)
	}

	tests := []struct {
		set  *jcodec.IdentSet
		name string
		want int
		estr string
	}{
		{fields, "alpha", 0, ""},
		{fields, "charlie", 2, ""},
		{fields, "delta", jcodec.Unknown,
			"unknown field `delta`, expected one of `alpha`, `bravo`, or `charlie`"},
		{fields.Lenient(), "delta", jcodec.Unknown, ""},
		{fields.Lenient(), "bravo", 1, ""},
		{jcodec.Variants("Red", "Green"), "Blue", jcodec.Unknown,
			"unknown variant `Blue`, expected `Red` or `Green`"},
		{jcodec.Fields(), "any", jcodec.Unknown, "unknown field `any`, there are no fields"},
	}
	for _, test := range tests {
		got, err := test.set.Resolve(test.name)
		if got != test.want {
			t.Errorf("Resolve(%q): got %d, want %d", test.name, got, test.want)
		}
		if test.estr == "" {
			if err != nil {
				t.Errorf("Resolve(%q): unexpected error: %v", test.name, err)
			}
			continue
		}
		if !errors.Is(err, jcodec.UnknownIdentifier) {
			t.Errorf("Resolve(%q): got %v, want %v", test.name, err, jcodec.UnknownIdentifier)
		} else if err.Error() != test.estr {
			t.Errorf("Resolve(%q):\n got: %v\nwant: %s", test.name, err, test.estr)
		}
	}
}

func TestIdentSetInto(t *testing.T) {
	set := jcodec.Variants("A", "B", "C")

	t.Run("Name", func(t *testing.T) {
		var idx int
		if err := jcodec.Unmarshal([]byte(`"C"`), set.Into(&idx)); err != nil {
			t.Fatalf("Unmarshal failed: %v", err)
		} else if idx != 2 {
			t.Errorf("Index: got %d, want 2", idx)
		}
	})
	t.Run("Ordinal", func(t *testing.T) {
		var idx int
		if err := jcodec.Unmarshal([]byte(`1`), set.Into(&idx)); err != nil {
			t.Fatalf("Unmarshal failed: %v", err)
		} else if idx != 1 {
			t.Errorf("Index: got %d, want 1", idx)
		}
	})
	t.Run("OrdinalRange", func(t *testing.T) {
		var idx int
		err := jcodec.Unmarshal([]byte(`3`), set.Into(&idx))
		if !errors.Is(err, jcodec.InvalidValue) {
			t.Errorf("Unmarshal: got %v, want %v", err, jcodec.InvalidValue)
		}
		idx = 0
		if err := jcodec.Unmarshal([]byte(`3`), set.Lenient().Into(&idx)); err != nil {
			t.Errorf("Unmarshal lenient: unexpected error: %v", err)
		} else if idx != jcodec.Unknown {
			t.Errorf("Index: got %d, want %d", idx, jcodec.Unknown)
		}
	})
	t.Run("WrongShape", func(t *testing.T) {
		var idx int
		err := jcodec.Unmarshal([]byte(`true`), set.Into(&idx))
		if !errors.Is(err, jcodec.TypeMismatch) {
			t.Errorf("Unmarshal: got %v, want %v", err, jcodec.TypeMismatch)
		} else if want := "at 1:0: invalid type: boolean `true`, expected variant identifier"; err.Error() != want {
			t.Errorf("Unmarshal:\n got: %v\nwant: %s", err, want)
		}
	})
}

func TestDecodeStruct(t *testing.T) {
	type point struct {
		X, Y int
		Tag  string
	}
	// decodePoint is a record target built from DecodeStruct.
	decodePoint := func(p *point, lenient bool) jcodec.Target {
		return mapFunc(func(m jcodec.MapAccess) error {
			var x, y int
			var tag string
			decode := jcodec.DecodeStruct
			if lenient {
				decode = jcodec.DecodeStructLenient
			}
			if err := decode(m,
				jcodec.Field{Name: "x", Dst: &x},
				jcodec.Field{Name: "y", Dst: &y},
				jcodec.Field{Name: "tag", Dst: &tag, Optional: true},
			); err != nil {
				return err
			}
			*p = point{X: x, Y: y, Tag: tag}
			return nil
		})
	}

	tests := []struct {
		input   string
		lenient bool
		want    point
		kind    jcodec.ErrorKind
		fail    bool
	}{
		{`{"x":1,"y":2}`, false, point{X: 1, Y: 2}, 0, false},
		{`{"y":2,"tag":"p","x":1}`, false, point{X: 1, Y: 2, Tag: "p"}, 0, false},
		{`{"x":1}`, false, point{}, jcodec.MissingField, true},
		{`{"x":1,"x":1,"y":2}`, false, point{}, jcodec.DuplicateField, true},
		{`{"x":1,"y":2,"z":3}`, false, point{}, jcodec.UnknownIdentifier, true},
		{`{"x":1,"y":2,"z":{"deep":[1,2]}}`, true, point{X: 1, Y: 2}, 0, false},
		{`{"x":1,"y":"2"}`, false, point{}, jcodec.TypeMismatch, true},
	}
	for _, test := range tests {
		var got point
		err := jcodec.Unmarshal([]byte(test.input), decodePoint(&got, test.lenient))
		if test.fail {
			if !errors.Is(err, test.kind) {
				t.Errorf("Input %#q: got %v, want %v", test.input, err, test.kind)
			}
			continue
		} else if err != nil {
			t.Errorf("Input %#q: unexpected error: %v", test.input, err)
			continue
		}
		if diff := cmp.Diff(test.want, got); diff != "" {
			t.Errorf("Input %#q: (-want, +got)\n%s", test.input, diff)
		}
	}
}

func TestDecodeTuple(t *testing.T) {
	var a int
	var b string
	var c bool
	tgt := seqFunc(func(s jcodec.SeqAccess) error {
		return jcodec.DecodeTuple(s, "a triple", &a, &b, &c)
	})
	if err := jcodec.Unmarshal([]byte(`[5, "five", true]`), tgt); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if a != 5 || b != "five" || !c {
		t.Errorf("Result: got (%v, %q, %v), want (5, five, true)", a, b, c)
	}

	err := jcodec.Unmarshal([]byte(`[5, "five"]`), tgt)
	if !errors.Is(err, jcodec.InvalidLength) {
		t.Errorf("Unmarshal short: got %v, want %v", err, jcodec.InvalidLength)
	} else if want := "at 1:10: invalid length 2, expected a triple"; err.Error() != want {
		t.Errorf("Unmarshal short:\n got: %v\nwant: %s", err, want)
	}

	err = jcodec.Unmarshal([]byte(`[5, "five", true, null]`), tgt)
	if !errors.Is(err, jcodec.InvalidLength) {
		t.Errorf("Unmarshal long: got %v, want %v", err, jcodec.InvalidLength)
	} else if want := "at 1:22: invalid length 4, expected a sequence"; err.Error() != want {
		t.Errorf("Unmarshal long:\n got: %v\nwant: %s", err, want)
	}
}

// mapFunc adapts a function to the jcodec.MapTarget interface.
type mapFunc func(jcodec.MapAccess) error

func (mapFunc) Expecting() string                   { return "a map" }
func (f mapFunc) AcceptMap(m jcodec.MapAccess) error { return f(m) }

// seqFunc adapts a function to the jcodec.SeqTarget interface.
type seqFunc func(jcodec.SeqAccess) error

func (seqFunc) Expecting() string                   { return "a sequence" }
func (f seqFunc) AcceptSeq(s jcodec.SeqAccess) error { return f(s) }
