// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jcodec

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
)

// A Decoder decodes JSON values from a stream of tokens into targets.
//
// The Decoder knows the syntax of the input and drives iteration; the target
// knows the type being built and decides how to fold the elements or entries
// it is offered into a result. In case of a syntax error, decoding stops and
// an error of concrete type *SyntaxError is returned. If a target reports an
// error, decoding stops and that error is returned. Arrays and objects may
// nest at most 10000 deep.
type Decoder struct {
	src    TokenSource
	scan   *Scanner // if src is a *Scanner, else nil
	tcomma bool     // allow trailing commas in objects and arrays

	peeked bool  // the current token has been read ahead
	perr   error // the error from reading ahead
	depth  int   // arrays and objects currently open
}

// maxDepth is the deepest nesting of arrays and objects a Decoder accepts.
const maxDepth = 10000

// NewDecoder constructs a new Decoder that consumes input from r.
func NewDecoder(r io.Reader) *Decoder { return NewDecoderFromSource(NewScanner(r)) }

// NewDecoderFromSource constructs a new Decoder that consumes tokens from src.
func NewDecoderFromSource(src TokenSource) *Decoder {
	d := &Decoder{src: src}
	d.scan, _ = src.(*Scanner)
	return d
}

// AllowComments configures the scanner associated with d to accept (true) or
// reject (false) comments. It has no effect if d does not read from a
// *Scanner. Comment tokens are otherwise ignored.
func (d *Decoder) AllowComments(ok bool) {
	if d.scan != nil {
		d.scan.AllowComments(ok)
	}
}

// AllowTrailingCommas configures the decoder to allow (true) or reject (false)
// trailing commas in objects and arrays.
func (d *Decoder) AllowTrailingCommas(ok bool) { d.tcomma = ok }

// Decode decodes the next value from the input into dst, which must be a
// Target or a pointer accepted by Into. If no further value is available,
// Decode returns io.EOF.
func (d *Decoder) Decode(dst any) error {
	if err := d.next(); err == io.EOF {
		return err
	} else if err != nil {
		return d.inputError(err, "%v", err)
	}
	return d.decodeCurrent(dst)
}

// More reports whether another value is available from the input.
func (d *Decoder) More() bool {
	if !d.peeked {
		d.perr = d.next()
		d.peeked = true
	}
	return d.perr == nil
}

// decodeCurrent decodes the value beginning at the current token into dst.
func (d *Decoder) decodeCurrent(dst any) error {
	t, err := Into(dst)
	if err != nil {
		return d.locate(err)
	}
	return d.dispatch(t)
}

// dispatch delivers the value beginning at the current token to t.
// Precondition: the current token is valid.
func (d *Decoder) dispatch(t Target) error {
	tok := d.src.Token()
	switch tok {
	case RBrace, RSquare, Comma, Colon:
		return d.syntaxError(nil, "unexpected %v", tok)
	case Invalid, BlockComment, LineComment:
		return d.syntaxError(nil, "unknown token %v", tok)
	}

	if st, ok := t.(SomeTarget); ok && tok != Null {
		va := &valueAccess{d: d}
		if err := st.AcceptSome(va); err != nil {
			return d.locate(err)
		} else if !va.used {
			return d.dispatch(Ignore)
		}
		return nil
	}

	switch tok {
	case Null:
		if nt, ok := t.(NullTarget); ok {
			return d.locate(nt.AcceptNull())
		}
	case True, False:
		if bt, ok := t.(BoolTarget); ok {
			return d.locate(bt.AcceptBool(tok == True))
		}
	case Integer:
		if done, err := d.decodeInteger(t); done {
			return err
		}
	case Number:
		if ft, ok := t.(FloatTarget); ok {
			f, err := strconv.ParseFloat(string(d.src.Text()), 64)
			if err != nil {
				return d.locate(InvalidValueError(d.describe(), t.Expecting()))
			}
			return d.locate(ft.AcceptFloat(f))
		}
	case String:
		if et, ok := t.(EnumTarget); ok {
			return d.decodeEnum(et)
		}
		if st, ok := t.(StringTarget); ok {
			s, err := d.unquote()
			if err != nil {
				return err
			}
			return d.locate(st.AcceptString(s))
		}
	case LSquare:
		if st, ok := t.(SeqTarget); ok {
			return d.decodeSeq(st)
		}
	case LBrace:
		if et, ok := t.(EnumTarget); ok {
			return d.decodeEnum(et)
		}
		if mt, ok := t.(MapTarget); ok {
			return d.decodeMap(mt)
		}
	}
	return d.locate(InvalidTypeError(d.describe(), t.Expecting()))
}

// decodeInteger offers the current integer token to t. It reports false if
// t does not accept numbers.
func (d *Decoder) decodeInteger(t Target) (bool, error) {
	text := string(d.src.Text())
	if !strings.HasPrefix(text, "-") {
		if ut, ok := t.(UintTarget); ok {
			u, err := strconv.ParseUint(text, 10, 64)
			if err != nil {
				return true, d.locate(InvalidValueError(d.describe(), t.Expecting()))
			}
			return true, d.locate(ut.AcceptUint(u))
		}
	}
	if it, ok := t.(IntTarget); ok {
		z, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return true, d.locate(InvalidValueError(d.describe(), t.Expecting()))
		}
		return true, d.locate(it.AcceptInt(z))
	}
	if ft, ok := t.(FloatTarget); ok {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return true, d.locate(InvalidValueError(d.describe(), t.Expecting()))
		}
		return true, d.locate(ft.AcceptFloat(f))
	}
	if _, ok := t.(UintTarget); ok {
		// A negative integer for an unsigned target.
		return true, d.locate(InvalidValueError(d.describe(), t.Expecting()))
	}
	return false, nil
}

// decodeSeq delivers the array at the current token to t.
// Precondition: token == LSquare.
// Postcondition: token == RSquare.
func (d *Decoder) decodeSeq(t SeqTarget) error {
	if err := d.push(); err != nil {
		return err
	}
	defer d.pop()
	sa := &seqAccess{d: d}
	if err := t.AcceptSeq(sa); err != nil {
		return d.locate(err)
	} else if sa.err != nil {
		return sa.err
	}
	if !sa.done {
		// Consume whatever the target did not, so we can report the length.
		extra := false
		for {
			ok, err := sa.NextElement(Ignore)
			if err != nil {
				return err
			} else if !ok {
				break
			}
			extra = true
		}
		if extra {
			return d.locate(InvalidLengthError(sa.n, t.Expecting()))
		}
	}
	return nil
}

// decodeMap delivers the object at the current token to t.
// Precondition: token == LBrace.
// Postcondition: token == RBrace.
func (d *Decoder) decodeMap(t MapTarget) error {
	if err := d.push(); err != nil {
		return err
	}
	defer d.pop()
	ma := &mapAccess{d: d}
	if err := t.AcceptMap(ma); err != nil {
		return d.locate(err)
	} else if ma.err != nil {
		return ma.err
	}
	if ma.key {
		if err := ma.NextValue(Ignore); err != nil {
			return err
		}
	}
	if !ma.done {
		extra := false
		for {
			ok, err := ma.NextEntry(Ignore, Ignore)
			if err != nil {
				return err
			} else if !ok {
				break
			}
			extra = true
		}
		if extra {
			return d.locate(InvalidLengthError(ma.n, t.Expecting()))
		}
	}
	return nil
}

// decodeEnum delivers the union arm at the current token to t.
// Precondition: token == String or token == LBrace.
// Postcondition: token == String or token == RBrace.
func (d *Decoder) decodeEnum(t EnumTarget) error {
	if d.src.Token() == String {
		name, err := d.unquote()
		if err != nil {
			return err
		}
		return d.locate(t.AcceptEnum(&enumAccess{d: d, name: name}))
	}
	if err := d.push(); err != nil {
		return err
	}
	defer d.pop()

	tok, err := d.advance(String, RBrace)
	if err != nil {
		return err
	} else if tok == RBrace {
		return d.locate(InvalidTypeError("empty map", t.Expecting()))
	}
	name, err := d.unquote()
	if err != nil {
		return err
	}
	if _, err := d.advance(Colon); err != nil {
		return err
	}

	ea := &enumAccess{d: d, name: name, obj: true, pending: true}
	if err := t.AcceptEnum(ea); err != nil {
		return d.locate(err)
	} else if ea.pending {
		return d.locate(Errorf("payload of variant `%s` was not decoded", name))
	}
	tok, err = d.advance(RBrace, Comma)
	if err != nil {
		return err
	} else if tok == Comma && d.tcomma {
		if tok, err = d.advance(); err != nil {
			return err
		}
	}
	if tok != RBrace {
		return d.locate(InvalidLengthError(2, "a map with a single variant key"))
	}
	return nil
}

// push records that an array or object at the current token is open.
func (d *Decoder) push() error {
	if d.depth >= maxDepth {
		return d.syntaxError(nil, "nesting depth exceeds %d", maxDepth)
	}
	d.depth++
	return nil
}

func (d *Decoder) pop() { d.depth-- }

// decodeKey delivers the object key name to the target for dst. JSON keys are
// always strings; a target that does not accept strings is offered the key
// parsed as a number or Boolean instead.
func (d *Decoder) decodeKey(name string, dst any) error {
	t, err := Into(dst)
	if err != nil {
		return d.locate(err)
	}
	switch tt := t.(type) {
	case EnumTarget:
		return d.locate(tt.AcceptEnum(&enumAccess{d: d, name: name}))
	case StringTarget:
		return d.locate(tt.AcceptString(name))
	}
	if ut, ok := t.(UintTarget); ok {
		if u, err := strconv.ParseUint(name, 10, 64); err == nil {
			return d.locate(ut.AcceptUint(u))
		}
	}
	if it, ok := t.(IntTarget); ok {
		if z, err := strconv.ParseInt(name, 10, 64); err == nil {
			return d.locate(it.AcceptInt(z))
		}
	}
	if bt, ok := t.(BoolTarget); ok {
		if name == "true" || name == "false" {
			return d.locate(bt.AcceptBool(name == "true"))
		}
	}
	return d.locate(InvalidTypeError("string "+Quote(name), t.Expecting()))
}

// next advances to the next non-comment token of the input.
func (d *Decoder) next() error {
	if d.peeked {
		d.peeked = false
		return d.perr
	}
	for {
		if err := d.src.Next(); err != nil {
			return err
		}
		if tok := d.src.Token(); tok != LineComment && tok != BlockComment {
			return nil
		}
	}
}

// advance moves to the next token, which must be one of tokens if any are
// given. Running out of input is a syntax error.
func (d *Decoder) advance(tokens ...Token) (Token, error) {
	if err := d.next(); err != nil {
		return Invalid, d.inputError(err, "%v", tokLabel(tokens, "error: "+err.Error()))
	}
	tok := d.src.Token()
	if len(tokens) != 0 && !slices.Contains(tokens, tok) {
		return Invalid, d.syntaxError(nil, "%v", tokLabel(tokens, tok))
	}
	return tok, nil
}

func (d *Decoder) unquote() (string, error) {
	dec, err := Unquote(d.src.Text())
	if err != nil {
		return "", d.syntaxError(err, "invalid string: %v", err)
	}
	return string(dec), nil
}

// describe summarizes the current token for an error message.
func (d *Decoder) describe() string {
	text := string(d.src.Text())
	switch tok := d.src.Token(); tok {
	case True, False:
		return "boolean `" + text + "`"
	case Integer:
		return "integer `" + text + "`"
	case Number:
		return "floating point `" + text + "`"
	case String:
		return "string " + text
	case Null:
		return "null"
	case LSquare:
		return "sequence"
	case LBrace:
		return "map"
	default:
		return tok.String()
	}
}

// locate records the location of the current token in err, if err is an
// *Error that does not already have a location.
func (d *Decoder) locate(err error) error {
	var e *Error
	if errors.As(err, &e) && e.At.Line == 0 {
		e.At = d.src.Location().First
	}
	return err
}

func (d *Decoder) syntaxError(err error, msg string, args ...any) error {
	return &SyntaxError{
		Location: d.src.Location().First,
		Message:  fmt.Sprintf(msg, args...),
		err:      err,
	}
}

// inputError reports an error from the token source. Lexical errors are
// already of type *SyntaxError and are returned unchanged.
func (d *Decoder) inputError(err error, msg string, args ...any) error {
	var serr *SyntaxError
	if errors.As(err, &serr) {
		return serr
	}
	return d.syntaxError(err, msg, args...)
}

// tokLabel makes a human-readable summary string for the given token types.
func tokLabel(tokens []Token, got any) string {
	if len(tokens) == 0 {
		return fmt.Sprintf("expected more input, got %v", got)
	}
	var exp string
	if len(tokens) == 1 {
		exp = tokens[0].String()
	} else {
		last := len(tokens) - 1
		ss := make([]string, len(tokens)-1)
		for i, tok := range tokens[:last] {
			ss[i] = tok.String()
		}
		exp = strings.Join(ss, ", ") + " or " + tokens[last].String()
	}
	return fmt.Sprintf("expected %s, got %v", exp, got)
}

// SyntaxError is the concrete type of errors reported for malformed input.
// For lexical errors the location is where scanning failed; otherwise it is
// the start of the offending token.
type SyntaxError struct {
	Location LineCol
	Message  string

	err error
}

// Error satisfies the error interface.
func (s *SyntaxError) Error() string {
	return fmt.Sprintf("at %s: %s", s.Location, s.Message)
}

// Unwrap supports error wrapping.
func (s *SyntaxError) Unwrap() error { return s.err }

// seqAccess implements SeqAccess over the elements of an array.
type seqAccess struct {
	d    *Decoder
	n    int  // number of elements decoded
	done bool // the closing bracket has been consumed
	err  error
}

func (s *seqAccess) NextElement(dst any) (bool, error) {
	if s.err != nil || s.done {
		return false, s.err
	}
	if ok, err := s.advance(); err != nil {
		s.err = err
		return false, err
	} else if !ok {
		return false, nil
	}
	if err := s.d.decodeCurrent(dst); err != nil {
		s.err = err
		return false, err
	}
	s.n++
	return true, nil
}

func (*seqAccess) SizeHint() (int, bool) { return 0, false }

// advance moves to the start of the next element, reporting false if the
// array ended instead.
func (s *seqAccess) advance() (bool, error) {
	tok, err := s.d.advance()
	if err != nil {
		return false, err
	}
	if s.n == 0 {
		if tok == RSquare {
			s.done = true
			return false, nil
		}
		return true, nil
	}
	switch tok {
	case RSquare:
		s.done = true
		return false, nil
	case Comma:
		// If trailing commas are allowed and the next token is a close bracket,
		// consider this a valid end of the array; otherwise it will fail on the
		// next element.
		if next, err := s.d.advance(); err != nil {
			return false, err
		} else if s.d.tcomma && next == RSquare {
			s.done = true
			return false, nil
		}
		return true, nil
	default:
		return false, s.d.syntaxError(nil, "%v", tokLabel([]Token{Comma, RSquare}, tok))
	}
}

// mapAccess implements MapAccess over the members of an object.
type mapAccess struct {
	d    *Decoder
	n    int  // number of entries decoded
	key  bool // a key has been decoded, its value is pending
	done bool // the closing brace has been consumed
	err  error
}

func (m *mapAccess) NextKey(dst any) (bool, error) {
	if m.err != nil || m.done {
		return false, m.err
	} else if m.key {
		return false, Errorf("map key requested before the previous value")
	}
	if ok, err := m.advance(); err != nil {
		m.err = err
		return false, err
	} else if !ok {
		return false, nil
	}

	name, err := m.d.unquote()
	if err == nil {
		err = m.d.decodeKey(name, dst)
	}
	if err == nil {
		_, err = m.d.advance(Colon)
	}
	if err != nil {
		m.err = err
		return false, err
	}
	m.key = true
	return true, nil
}

func (m *mapAccess) NextValue(dst any) error {
	if m.err != nil {
		return m.err
	} else if !m.key {
		return Errorf("map value requested without a key")
	}
	m.key = false
	if _, err := m.d.advance(); err != nil {
		m.err = err
		return err
	}
	if err := m.d.decodeCurrent(dst); err != nil {
		m.err = err
		return err
	}
	m.n++
	return nil
}

func (m *mapAccess) NextEntry(key, val any) (bool, error) {
	if ok, err := m.NextKey(key); err != nil || !ok {
		return false, err
	}
	return true, m.NextValue(val)
}

func (*mapAccess) SizeHint() (int, bool) { return 0, false }

// advance moves to the key of the next member, reporting false if the object
// ended instead.
func (m *mapAccess) advance() (bool, error) {
	if m.n == 0 {
		tok, err := m.d.advance(RBrace, String)
		if err != nil {
			return false, err
		} else if tok == RBrace {
			m.done = true
			return false, nil
		}
		return true, nil
	}

	// Check whether we have more members (",") or are done ("}").
	tok, err := m.d.advance(RBrace, Comma)
	if err != nil {
		return false, err
	} else if tok == RBrace {
		m.done = true
		return false, nil
	}
	if m.d.tcomma {
		tok, err = m.d.advance(String, RBrace)
		if err == nil && tok == RBrace {
			m.done = true
			return false, nil
		}
	} else {
		_, err = m.d.advance(String)
	}
	return err == nil, err
}

// enumAccess implements EnumAccess for a union arm.
type enumAccess struct {
	d       *Decoder
	name    string
	obj     bool // the arm is an object {"name": payload}
	pending bool // the payload has not been decoded
}

func (e *enumAccess) Variant(dst any) error { return e.d.decodeKey(e.name, dst) }

func (e *enumAccess) Unit() error {
	if !e.obj {
		return nil
	}
	if err := e.payload(); err != nil {
		return err
	}
	if e.d.src.Token() != Null {
		return e.d.locate(InvalidTypeError(e.d.describe(), "unit variant"))
	}
	return nil
}

func (e *enumAccess) Newtype(dst any) error {
	if err := e.need("newtype variant"); err != nil {
		return err
	}
	return e.d.decodeCurrent(dst)
}

func (e *enumAccess) Tuple(t Target) error {
	if err := e.need("tuple variant"); err != nil {
		return err
	}
	return e.d.dispatch(t)
}

func (e *enumAccess) Struct(t Target) error {
	if err := e.need("struct variant"); err != nil {
		return err
	}
	return e.d.dispatch(t)
}

// need advances to the payload of the arm, which must be present.
func (e *enumAccess) need(what string) error {
	if !e.obj {
		return InvalidTypeError("unit variant", what)
	}
	return e.payload()
}

func (e *enumAccess) payload() error {
	if !e.pending {
		return Errorf("payload of variant `%s` already decoded", e.name)
	}
	e.pending = false
	_, err := e.d.advance()
	return err
}

// valueAccess implements ValueAccess for the value at the current token.
type valueAccess struct {
	d    *Decoder
	used bool
}

func (v *valueAccess) Decode(dst any) error {
	if v.used {
		return Errorf("value already decoded")
	}
	v.used = true
	return v.d.decodeCurrent(dst)
}

// errEndOfInput is reported by Unmarshal for input without a value.
var errEndOfInput = errors.New("unexpected end of input")

// trailing reports an error if any tokens remain in the input.
func (d *Decoder) trailing() error {
	if err := d.next(); err == io.EOF {
		return nil
	} else if err != nil {
		return d.inputError(err, "%v", err)
	}
	return d.syntaxError(nil, "unexpected %v after value", d.src.Token())
}
