// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jcodec_test

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/creachadair/jcodec"
	"github.com/google/go-cmp/cmp"
)

func TestDecoder(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", "."},
		{"   ", "."},

		{"true false null", `
Bool true
Bool false
Null
.`},

		{`0 5 -6 -6.32 0.1e-2`, `
Uint 0
Uint 5
Int -6
Float -6.32
Float 0.001
.`},

		{`"" "a b c" "a\tb" "a b"`, `
String ""
String "a b c"
String "a\tb"
String "a b"
.`},

		{`{}`, "BeginMap\nEndMap\n."},

		{`{"a":15}`, `
BeginMap
String "a"
Uint 15
EndMap
.`},

		{`{"x":null, "y":[true]}`, `
BeginMap
String "x"
Null
String "y"
BeginSeq
Bool true
EndSeq
EndMap
.`},

		{`[]`, "BeginSeq\nEndSeq\n."},
	}

	for _, test := range tests {
		dec := jcodec.NewDecoder(strings.NewReader(test.input))
		tt := newTraceTarget()
		if err := decodeAll(dec, tt); err != nil {
			t.Errorf("Decode failed: %v", err)
		}

		if diff := diffStrings(test.want, tt.output()); diff != "" {
			t.Errorf("Input: %#q\nOutput: (-want, +got)\n%s", test.input, diff)
		}
	}
}

func TestDecoderErrors(t *testing.T) {
	tests := []struct {
		input string
		want  string
		estr  string // if empty, only the error type is checked
	}{
		// Various kinds of unbalanced object bits.
		{`{`, `BeginMap`,
			`at 1:1: expected "}" or string, got error: EOF`},
		{`}`, ``, `at 1:0: unexpected "}"`},
		{`{false:1}`, `BeginMap`,
			`at 1:1: expected "}" or string, got false`},
		{`{"true":}`, `
BeginMap
String "true"`,
			`at 1:8: unexpected "}"`},
		{`{"true":1,`, `
BeginMap
String "true"
Uint 1`,
			`at 1:10: expected string, got error: EOF`},
		{`{"a" 1}`, `
BeginMap
String "a"`,
			`at 1:5: expected ":", got integer`},

		// Unbalanced array bits.
		{`[`, `BeginSeq`,
			`at 1:1: expected more input, got error: EOF`},
		{`]`, ``, `at 1:0: unexpected "]"`},
		{`[15,`, `
BeginSeq
Uint 15`,
			`at 1:4: expected more input, got error: EOF`},
		{`[15,]`, `
BeginSeq
Uint 15`,
			`at 1:4: unexpected "]"`},
		{`[1 2]`, `
BeginSeq
Uint 1`,
			`at 1:3: expected "," or "]", got integer`},

		// Invalid values.
		{`1 2.0 forthright`, `
Uint 1
Float 2`, ``},
		{`"what did you`, ``, ``},
	}

	for _, test := range tests {
		dec := jcodec.NewDecoder(strings.NewReader(test.input))
		tt := newTraceTarget()
		err := decodeAll(dec, tt)
		if err == nil {
			t.Errorf("Input: %#q: Decode did not report an error", test.input)
			continue
		}
		var serr *jcodec.SyntaxError
		if !errors.As(err, &serr) {
			t.Errorf("Input: %#q: got error %[2]v (%[2]T), want *SyntaxError", test.input, err)
		}

		if diff := diffStrings(test.want, tt.output()); diff != "" {
			t.Errorf("Input: %#q\nOutput: (-want, +got)\n%s", test.input, diff)
		}
		if test.estr == "" {
			continue
		}
		if diff := diffStrings(test.estr, err.Error()); diff != "" {
			t.Errorf("Input: %#q\nError: (-want, +got)\n%s", test.input, diff)
		}
	}
}

func TestDecoderOptions(t *testing.T) {
	t.Run("TrailingCommas", func(t *testing.T) {
		const input = `[1, 2,] {"a":true,}`
		const want = `
BeginSeq
Uint 1
Uint 2
EndSeq
BeginMap
String "a"
Bool true
EndMap
.`
		dec := jcodec.NewDecoder(strings.NewReader(input))
		dec.AllowTrailingCommas(true)
		tt := newTraceTarget()
		if err := decodeAll(dec, tt); err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		if diff := diffStrings(want, tt.output()); diff != "" {
			t.Errorf("Output: (-want, +got)\n%s", diff)
		}
	})

	t.Run("Comments", func(t *testing.T) {
		const input = "/* head */ [1, // one\n 2 /* two */] // tail"
		const want = `
BeginSeq
Uint 1
Uint 2
EndSeq
.`
		dec := jcodec.NewDecoder(strings.NewReader(input))
		dec.AllowComments(true)
		tt := newTraceTarget()
		if err := decodeAll(dec, tt); err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		if diff := diffStrings(want, tt.output()); diff != "" {
			t.Errorf("Output: (-want, +got)\n%s", diff)
		}

		// Without the option, the comment is an error.
		dec = jcodec.NewDecoder(strings.NewReader(input))
		if err := dec.Decode(jcodec.Ignore); err == nil {
			t.Error("Decode: got nil, want error for comment")
		}
	})
}

func TestDecoderMore(t *testing.T) {
	const input = `{ "love": true } [] "ok"`
	const want = `
BeginMap
String "love"
Bool true
EndMap
---
BeginSeq
EndSeq
---
String "ok"
---
.`
	tt := newTraceTarget()
	dec := jcodec.NewDecoder(strings.NewReader(input))
	for dec.More() {
		if err := dec.Decode(tt); err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		tt.pr("---")
	}
	if err := dec.Decode(tt); err != io.EOF {
		t.Errorf("Decode at end: got %v, want %v", err, io.EOF)
	}
	tt.pr(".")

	if diff := diffStrings(want, tt.output()); diff != "" {
		t.Errorf("Input: %#q\nOutput: (-want, +got)\n%s", input, diff)
	}
}

func TestUnmarshal(t *testing.T) {
	t.Run("Slice", func(t *testing.T) {
		var got []int
		mustUnmarshal(t, `[1, 2, 3]`, &got)
		if diff := cmp.Diff([]int{1, 2, 3}, got); diff != "" {
			t.Errorf("Result: (-want, +got)\n%s", diff)
		}
	})
	t.Run("Array", func(t *testing.T) {
		var got [2]string
		mustUnmarshal(t, `["a", "b"]`, &got)
		if diff := cmp.Diff([2]string{"a", "b"}, got); diff != "" {
			t.Errorf("Result: (-want, +got)\n%s", diff)
		}
	})
	t.Run("Map", func(t *testing.T) {
		var got map[string]int
		mustUnmarshal(t, `{"b": 2, "a": 1}`, &got)
		if diff := cmp.Diff(map[string]int{"a": 1, "b": 2}, got); diff != "" {
			t.Errorf("Result: (-want, +got)\n%s", diff)
		}
	})
	t.Run("MapIntKeys", func(t *testing.T) {
		var got map[int]bool
		mustUnmarshal(t, `{"1": true, "-2": false}`, &got)
		if diff := cmp.Diff(map[int]bool{1: true, -2: false}, got); diff != "" {
			t.Errorf("Result: (-want, +got)\n%s", diff)
		}
	})
	t.Run("Pointer", func(t *testing.T) {
		got := new(int)
		mustUnmarshal(t, `null`, &got)
		if got != nil {
			t.Errorf("Result: got %v, want nil", *got)
		}
		mustUnmarshal(t, `5`, &got)
		if got == nil || *got != 5 {
			t.Errorf("Result: got %v, want 5", got)
		}
	})
	t.Run("Option", func(t *testing.T) {
		got := jcodec.Some(1)
		mustUnmarshal(t, `null`, &got)
		if got.Present {
			t.Errorf("Result: got %+v, want absent", got)
		}
		mustUnmarshal(t, `25`, &got)
		if diff := cmp.Diff(jcodec.Some(25), got); diff != "" {
			t.Errorf("Result: (-want, +got)\n%s", diff)
		}
	})
	t.Run("NestedOption", func(t *testing.T) {
		var got []jcodec.Option[string]
		mustUnmarshal(t, `["a", null, "b"]`, &got)
		want := []jcodec.Option[string]{jcodec.Some("a"), jcodec.None[string](), jcodec.Some("b")}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("Result: (-want, +got)\n%s", diff)
		}
	})
	t.Run("Unit", func(t *testing.T) {
		var got struct{}
		mustUnmarshal(t, `null`, &got)
	})
	t.Run("FloatFromInteger", func(t *testing.T) {
		var got float64
		mustUnmarshal(t, `17`, &got)
		if got != 17 {
			t.Errorf("Result: got %v, want 17", got)
		}
	})
	t.Run("Char", func(t *testing.T) {
		var got jcodec.Char
		mustUnmarshal(t, `"é"`, &got)
		if got != 'é' {
			t.Errorf("Result: got %q, want %q", got, 'é')
		}
	})
	t.Run("Ignore", func(t *testing.T) {
		mustUnmarshal(t, `{"a": [1, {"b": null}, "c"], "d": -1.5}`, jcodec.Ignore)
	})
}

func TestUnmarshalErrors(t *testing.T) {
	tests := []struct {
		input string
		dst   any
		kind  jcodec.ErrorKind
		estr  string
	}{
		{`300`, new(uint8), jcodec.InvalidValue,
			"at 1:0: invalid value: integer `300`, expected an unsigned integer of type uint8"},
		{`-129`, new(int8), jcodec.InvalidValue,
			"at 1:0: invalid value: integer `-129`, expected an integer of type int8"},
		{`"x"`, new(int), jcodec.TypeMismatch,
			"at 1:0: invalid type: string \"x\", expected an integer of type int"},
		{`-1`, new(uint), jcodec.InvalidValue,
			"at 1:0: invalid value: integer `-1`, expected an unsigned integer of type uint"},
		{`[-5]`, new([]uint8), jcodec.InvalidValue,
			"at 1:1: invalid value: integer `-5`, expected an unsigned integer of type uint8"},
		{`1.5`, new(int), jcodec.TypeMismatch,
			"at 1:0: invalid type: floating point `1.5`, expected an integer of type int"},
		{`{}`, new([]int), jcodec.TypeMismatch,
			"at 1:0: invalid type: map, expected a sequence"},
		{`[true]`, new(map[string]bool), jcodec.TypeMismatch,
			"at 1:0: invalid type: sequence, expected a map"},
		{`[1, 2, 3]`, new([2]int), jcodec.InvalidLength,
			"at 1:8: invalid length 3, expected an array of length 2"},
		{`[1]`, new([2]int), jcodec.InvalidLength,
			"at 1:2: invalid length 1, expected an array of length 2"},
		{`[1, "two"]`, new([]int), jcodec.TypeMismatch,
			"at 1:4: invalid type: string \"two\", expected an integer of type int"},
		{`"ab"`, new(jcodec.Char), jcodec.InvalidValue,
			"at 1:0: invalid value: string \"ab\", expected a character"},
		{`{"x": 1}`, new(map[bool]int), jcodec.TypeMismatch,
			"at 1:1: invalid type: string \"x\", expected a boolean"},
	}
	for _, test := range tests {
		err := jcodec.Unmarshal([]byte(test.input), test.dst)
		if err == nil {
			t.Errorf("Unmarshal(%#q, %T): got nil, want error", test.input, test.dst)
			continue
		}
		if !errors.Is(err, test.kind) {
			t.Errorf("Unmarshal(%#q, %T): got %v, want kind %v", test.input, test.dst, err, test.kind)
		}
		if got := err.Error(); got != test.estr {
			t.Errorf("Unmarshal(%#q, %T):\n got: %s\nwant: %s", test.input, test.dst, got, test.estr)
		}
	}
}

func TestUnmarshalInput(t *testing.T) {
	tests := []struct {
		input, estr string
	}{
		{``, `at 1:0: unexpected end of input`},
		{`{ "love": true } []`, `at 1:17: unexpected "[" after value`},
		{`1 2`, `at 1:2: unexpected integer after value`},
	}
	for _, test := range tests {
		err := jcodec.Unmarshal([]byte(test.input), jcodec.Ignore)
		var serr *jcodec.SyntaxError
		if !errors.As(err, &serr) {
			t.Errorf("Unmarshal(%#q): got %v, want *SyntaxError", test.input, err)
		} else if got := err.Error(); got != test.estr {
			t.Errorf("Unmarshal(%#q):\n got: %s\nwant: %s", test.input, got, test.estr)
		}
	}
}

func TestUnmarshalDepth(t *testing.T) {
	nest := func(n int) []byte {
		return []byte(strings.Repeat(`[`, n) + strings.Repeat(`]`, n))
	}
	if err := jcodec.Unmarshal(nest(10000), jcodec.Ignore); err != nil {
		t.Errorf("Unmarshal at the depth limit: unexpected error: %v", err)
	}

	err := jcodec.Unmarshal(nest(10001), jcodec.Ignore)
	var serr *jcodec.SyntaxError
	if !errors.As(err, &serr) {
		t.Fatalf("Unmarshal past the depth limit: got %v, want *SyntaxError", err)
	}
	if got, want := err.Error(), "at 1:10000: nesting depth exceeds 10000"; got != want {
		t.Errorf("Unmarshal:\n got: %s\nwant: %s", got, want)
	}

	deep := []byte(strings.Repeat(`{"a":`, 10001) + `1` + strings.Repeat(`}`, 10001))
	if err := jcodec.Unmarshal(deep, jcodec.Ignore); !errors.As(err, &serr) {
		t.Errorf("Unmarshal deep objects: got %v, want *SyntaxError", err)
	}
}

func TestInto(t *testing.T) {
	for _, dst := range []any{nil, 5, (*int)(nil), "x"} {
		if _, err := jcodec.Into(dst); err == nil {
			t.Errorf("Into(%#v): got nil, want error", dst)
		}
	}
	var ut *jcodec.UnsupportedTypeError
	if _, err := jcodec.Into(new(chan int)); !errors.As(err, &ut) {
		t.Errorf("Into(chan): got %v, want *UnsupportedTypeError", err)
	}
	if tt, err := jcodec.Into(jcodec.Ignore); err != nil || tt != jcodec.Ignore {
		t.Errorf("Into(Ignore): got (%v, %v), want Ignore", tt, err)
	}
}

// customTarget accepts strings and reports a custom error for one of them.
type customTarget struct{ got string }

var errCustom = errors.New("no thanks")

func (*customTarget) Expecting() string { return "a polite string" }

func (c *customTarget) AcceptString(s string) error {
	if s == "rude" {
		return jcodec.Errorf("rejected %q: %w", s, errCustom)
	}
	c.got = s
	return nil
}

func TestCustomError(t *testing.T) {
	var tgt customTarget
	err := jcodec.Unmarshal([]byte(` "rude"`), &tgt)
	if !errors.Is(err, jcodec.Custom) {
		t.Errorf("Unmarshal: got %v, want kind %v", err, jcodec.Custom)
	}
	if !errors.Is(err, errCustom) {
		t.Errorf("Unmarshal: got %v, want wrapped %v", err, errCustom)
	}
	const want = `at 1:1: rejected "rude": no thanks`
	if got := err.Error(); got != want {
		t.Errorf("Unmarshal:\n got: %s\nwant: %s", got, want)
	}

	// A target that does not accept a shape reports a type mismatch naming
	// what it expects.
	err = jcodec.Unmarshal([]byte(`[]`), &tgt)
	if !errors.Is(err, jcodec.TypeMismatch) {
		t.Errorf("Unmarshal: got %v, want kind %v", err, jcodec.TypeMismatch)
	} else if !strings.Contains(err.Error(), "expected a polite string") {
		t.Errorf("Unmarshal: got %v, want mention of expectation", err)
	}
}

func mustUnmarshal(t *testing.T, input string, dst any) {
	t.Helper()
	if err := jcodec.Unmarshal([]byte(input), dst); err != nil {
		t.Fatalf("Unmarshal(%#q) failed: %v", input, err)
	}
}

// decodeAll decodes values from dec into dst until the input is exhausted,
// then records the end of input.
func decodeAll(dec *jcodec.Decoder, tt *traceTarget) error {
	for {
		err := dec.Decode(tt)
		if err == io.EOF {
			tt.pr(".")
			return nil
		} else if err != nil {
			return err
		}
	}
}

func diffStrings(want, got string) string {
	return cmp.Diff(strings.Split(strings.TrimSpace(want), "\n"),
		strings.Split(strings.TrimSpace(got), "\n"))
}

// traceTarget accepts any value and records what it was offered.
type traceTarget struct {
	buf bytes.Buffer
}

func newTraceTarget() *traceTarget { return new(traceTarget) }

func (t *traceTarget) pr(msg string, args ...any) {
	if !strings.HasSuffix(msg, "\n") {
		msg += "\n"
	}
	fmt.Fprintf(&t.buf, msg, args...)
}

func (t *traceTarget) output() string { return t.buf.String() }

func (*traceTarget) Expecting() string { return "any value" }

func (t *traceTarget) AcceptNull() error         { t.pr("Null"); return nil }
func (t *traceTarget) AcceptBool(b bool) error   { t.pr("Bool %v", b); return nil }
func (t *traceTarget) AcceptInt(z int64) error   { t.pr("Int %d", z); return nil }
func (t *traceTarget) AcceptUint(u uint64) error { t.pr("Uint %d", u); return nil }
func (t *traceTarget) AcceptFloat(f float64) error {
	t.pr("Float %v", f)
	return nil
}
func (t *traceTarget) AcceptString(s string) error { t.pr("String %q", s); return nil }

func (t *traceTarget) AcceptSeq(s jcodec.SeqAccess) error {
	t.pr("BeginSeq")
	for {
		ok, err := s.NextElement(t)
		if err != nil {
			return err
		} else if !ok {
			break
		}
	}
	t.pr("EndSeq")
	return nil
}

func (t *traceTarget) AcceptMap(m jcodec.MapAccess) error {
	t.pr("BeginMap")
	for {
		ok, err := m.NextEntry(t, t)
		if err != nil {
			return err
		} else if !ok {
			break
		}
	}
	t.pr("EndMap")
	return nil
}
