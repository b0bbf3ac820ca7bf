// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jcodec

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"

	"go4.org/mem"
)

// Token is the type of a lexical token in the JSON grammar.
type Token byte

// Constants defining the valid Token values.
const (
	Invalid Token = iota // invalid token
	LBrace               // left brace "{"
	RBrace               // right brace "}"
	LSquare              // left square bracket "["
	RSquare              // right square bracket "]"
	Comma                // comma ","
	Colon                // colon ":"
	Integer              // number: integer with no fraction or exponent
	Number               // number with fraction and/or exponent
	String               // quoted string
	True                 // constant: true
	False                // constant: false
	Null                 // constant: null

	BlockComment // comment: /* ... */
	LineComment  // comment: // ... <LF>
)

var tokenStr = [...]string{
	Invalid: "invalid token",
	LBrace:  `"{"`,
	RBrace:  `"}"`,
	LSquare: `"["`,
	RSquare: `"]"`,
	Comma:   `","`,
	Colon:   `":"`,
	Integer: "integer",
	Number:  "number",
	String:  "string",
	True:    "true",
	False:   "false",
	Null:    "null",

	BlockComment: "block comment",
	LineComment:  "line comment",
}

func (t Token) String() string {
	if int(t) >= len(tokenStr) {
		return tokenStr[Invalid]
	}
	return tokenStr[t]
}

// punct maps the self-delimiting punctuation characters to their tokens, in
// the order of the string "{}[],:".
var punct = [...]Token{LBrace, RBrace, LSquare, RSquare, Comma, Colon}

var constants = [...]struct {
	text mem.RO
	tok  Token
}{
	{mem.S("true"), True},
	{mem.S("false"), False},
	{mem.S("null"), Null},
}

// A Scanner reads lexical tokens from an input stream. Each call to Next
// advances the scanner to the next token, or reports an error.
//
// A *Scanner is the default TokenSource for a Decoder.
type Scanner struct {
	r        *bufio.Reader
	comments bool         // allow comments
	buf      bytes.Buffer // text of the current token
	tok      Token
	err      error

	start mark // where the current token begins
	at    mark // the read position
	prev  mark // the read position before the last rune, for unrune
}

// A mark is a position in the input. Line and column are 0-based.
type mark struct{ off, line, col int }

func (m mark) lineCol() LineCol { return LineCol{Line: m.line + 1, Column: m.col} }

// NewScanner constructs a new lexical scanner that consumes input from r.
func NewScanner(r io.Reader) *Scanner {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &Scanner{r: br}
}

// AllowComments configures the scanner to report (true) or reject (false)
// comment tokens. Comments are a non-standard extension of JSON. If enabled,
// block comments (/* ... */) and line comments (// ...) are recognized and
// reported as tokens.
func (s *Scanner) AllowComments(ok bool) { s.comments = ok }

// Next advances s to the next token of the input, or reports an error. At
// the end of the input, Next returns io.EOF. A lexical error is reported as a
// *SyntaxError giving the position where scanning failed.
func (s *Scanner) Next() error {
	s.buf.Reset()
	s.tok, s.err = Invalid, nil
	for {
		s.start = s.at
		ch, err := s.rune()
		if err == io.EOF {
			return s.setErr(err)
		} else if err != nil {
			return s.fail(err)
		}

		switch {
		case isSpace(ch):
			continue
		case ch == '"':
			return s.scanString()
		case ch == '-' || isDigit(ch):
			return s.scanNumber(ch)
		case ch == '/' && s.comments:
			return s.scanComment()
		case isNameRune(ch):
			return s.scanConstant(ch)
		}
		if i := strings.IndexRune("{}[],:", ch); i >= 0 {
			s.buf.WriteRune(ch)
			s.tok = punct[i]
			return nil
		}
		return s.failf("unexpected %q", ch)
	}
}

// Token returns the type of the current token.
func (s *Scanner) Token() Token { return s.tok }

// Err returns the last error reported by Next.
func (s *Scanner) Err() error { return s.err }

// Text returns the undecoded text of the current token. The return value is
// only valid until the next call of Next. The caller must copy the contents of
// the returned slice if it is needed beyond that.
func (s *Scanner) Text() []byte { return s.buf.Bytes() }

// Copy returns a copy of the undecoded text of the current token.
func (s *Scanner) Copy() []byte { return bytes.Clone(s.buf.Bytes()) }

// Span returns the location span of the current token.
func (s *Scanner) Span() Span { return Span{Pos: s.start.off, End: s.at.off} }

// Location returns the complete location of the current token.
func (s *Scanner) Location() Location {
	return Location{Span: s.Span(), First: s.start.lineCol(), Last: s.at.lineCol()}
}

func (s *Scanner) scanString() error {
	s.buf.WriteByte('"')
	for {
		ch, err := s.rune()
		if err != nil {
			return s.failf("unterminated string: %w", err)
		}
		switch {
		case ch == '"':
			s.buf.WriteByte('"')
			s.tok = String
			return nil
		case ch == '\\':
			s.buf.WriteByte('\\')
			if err := s.scanEscape(); err != nil {
				return err
			}
		case ch < ' ':
			return s.failf("unescaped control %q", ch)
		default:
			s.buf.WriteRune(ch)
		}
	}
}

// scanEscape consumes the remainder of an escape sequence after "\".
func (s *Scanner) scanEscape() error {
	ch, err := s.rune()
	if err != nil {
		return s.failf("incomplete escape: %w", err)
	}
	switch ch {
	case '"', '\\', '/', 'b', 'f', 'n', 'r', 't':
		s.buf.WriteRune(ch)
		return nil
	case 'u':
		s.buf.WriteRune(ch)
		for range 4 {
			h, err := s.rune()
			if err != nil {
				return s.failf("incomplete Unicode escape: %w", err)
			} else if !isHexDigit(h) {
				return s.failf("invalid Unicode escape: not a hex digit: %q", h)
			}
			s.buf.WriteRune(h)
		}
		return nil
	}
	return s.failf("invalid %q after escape", ch)
}

// scanNumber consumes a number beginning with first, which is a digit or a
// minus sign. The token is an Integer unless a fraction or exponent follows.
func (s *Scanner) scanNumber(first rune) error {
	s.buf.WriteRune(first)
	s.tok = Integer

	if first == '-' {
		if n, err := s.digits(); err != nil {
			return err
		} else if n == 0 {
			return s.failf("missing digits after sign")
		}
	} else if _, err := s.digits(); err != nil {
		return err
	}

	// JSON allows a single zero before the point: 0.12 is OK, 01.2 is not.
	if d := bytes.TrimPrefix(s.buf.Bytes(), []byte("-")); len(d) > 1 && d[0] == '0' {
		return s.failf("extra leading zeroes")
	}

	if ok, err := s.accept(".", false); err != nil {
		return err
	} else if ok {
		s.tok = Number
		if n, err := s.digits(); err != nil {
			return err
		} else if n == 0 {
			return s.failf("no digits after decimal point")
		}
	}

	if ok, err := s.accept("eE", false); err != nil {
		return err
	} else if ok {
		s.tok = Number
		if _, err := s.accept("+-", false); err != nil {
			return err
		}
		if n, err := s.digits(); err != nil {
			return err
		} else if n == 0 {
			return s.failf("missing exponent digits")
		}
	}
	return nil
}

// scanConstant consumes a name beginning with first, which must be one of the
// constants true, false, or null.
func (s *Scanner) scanConstant(first rune) error {
	s.buf.WriteRune(first)
	for {
		ok, err := s.accept("", true)
		if err != nil {
			return err
		} else if !ok {
			break
		}
	}
	got := mem.B(s.buf.Bytes())
	for _, c := range constants {
		if got.Equal(c.text) {
			s.tok = c.tok
			return nil
		}
	}
	return s.failf("unknown constant %q", got.StringCopy())
}

// scanComment consumes a comment after its leading "/".
func (s *Scanner) scanComment() error {
	s.buf.WriteByte('/')
	ch, err := s.rune()
	if err != nil {
		return s.failf("incomplete comment: %w", err)
	}
	switch ch {
	case '/': // through the next LF, which is included
		s.buf.WriteRune(ch)
		for {
			ch, err := s.rune()
			if err == io.EOF {
				break
			} else if err != nil {
				return s.fail(err)
			}
			s.buf.WriteRune(ch)
			if ch == '\n' {
				break
			}
		}
		s.tok = LineComment
		return nil

	case '*':
		s.buf.WriteRune(ch)
		var last rune
		for {
			ch, err := s.rune()
			if err != nil {
				return s.failf("unterminated comment: %w", err)
			}
			s.buf.WriteRune(ch)
			if last == '*' && ch == '/' {
				s.tok = BlockComment
				return nil
			}
			last = ch
		}
	}
	s.unrune()
	return s.failf("invalid %q in comment", ch)
}

// digits consumes decimal digits and reports how many were read.
func (s *Scanner) digits() (int, error) {
	var n int
	for {
		ok, err := s.accept("0123456789", false)
		if err != nil || !ok {
			return n, err
		}
		n++
	}
}

// accept consumes the next rune if it is in chars, or if name is true and it
// is a name rune. Otherwise the rune is left unread. The end of input is not
// an error.
func (s *Scanner) accept(chars string, name bool) (bool, error) {
	ch, err := s.rune()
	if err == io.EOF {
		return false, nil
	} else if err != nil {
		return false, s.fail(err)
	}
	if strings.ContainsRune(chars, ch) || (name && isNameRune(ch)) {
		s.buf.WriteRune(ch)
		return true, nil
	}
	s.unrune()
	return false, nil
}

// rune reads a rune from the input and advances the read position.
func (s *Scanner) rune() (rune, error) {
	ch, nb, err := s.r.ReadRune()
	s.prev = s.at
	s.at.off += nb
	if ch == '\n' {
		s.at.line++
		s.at.col = 0
	} else {
		s.at.col += nb
	}
	return ch, err
}

// unrune restores the last rune read to the input.
func (s *Scanner) unrune() {
	s.at = s.prev
	s.r.UnreadRune()
}

func (s *Scanner) setErr(err error) error {
	s.err = err
	return err
}

func (s *Scanner) fail(err error) error {
	s.tok = Invalid
	return s.setErr(&SyntaxError{
		Location: s.at.lineCol(),
		Message:  err.Error(),
		err:      err,
	})
}

func (s *Scanner) failf(msg string, args ...any) error {
	return s.fail(fmt.Errorf(msg, args...))
}

func isSpace(ch rune) bool {
	return ch == ' ' || ch == '\r' || ch == '\n' || ch == '\t'
}

func isDigit(ch rune) bool    { return '0' <= ch && ch <= '9' }
func isNameRune(ch rune) bool { return 'a' <= ch && ch <= 'z' }

func isHexDigit(ch rune) bool {
	return isDigit(ch) || ('a' <= ch && ch <= 'f') || ('A' <= ch && ch <= 'F')
}
