// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

// Package gojson implements a jcodec.TokenSource backed by the tokenizer of
// github.com/goccy/go-json.
//
// The tokenizer of that package does not report commas and colons, and does
// not check the structure of its input. A Source therefore validates its input
// as a whole before tokenizing, and synthesizes the punctuation a
// jcodec.Decoder expects. Locations are reported as byte offsets only.
package gojson

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/creachadair/jcodec"
	"github.com/goccy/go-json"
	"github.com/tailscale/hujson"
)

// Options control the construction of a Source. A nil *Options provides
// default values.
type Options struct {
	// If true, the input is HuJSON (JSON with comments and trailing commas)
	// and is converted to standard JSON before tokenizing.
	HuJSON bool
}

func (o *Options) hujson() bool { return o != nil && o.HuJSON }

// ErrInvalid is reported by New for input that is not a single valid JSON
// value.
var ErrInvalid = errors.New("invalid JSON input")

// A Source is a jcodec.TokenSource over a single JSON value.
type Source struct {
	dec *json.Decoder
	stk []frame

	queue []item // tokens read ahead, pending delivery
	cur   item
	end   int // offset of the end of the current raw token
}

// frame records the state of an open object or array.
type frame struct {
	obj   bool
	n     int  // members or elements completed
	value bool // in an object, the next token is a value
}

type item struct {
	tok  jcodec.Token
	text []byte
}

// New constructs a Source that tokenizes data, which must contain exactly one
// JSON value. If the input is not valid, New reports an error wrapping
// ErrInvalid.
func New(data []byte, opts *Options) (*Source, error) {
	if opts.hujson() {
		std, err := hujson.Standardize(bytes.Clone(data))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
		}
		data = std
	}
	if !json.Valid(data) {
		return nil, ErrInvalid
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return &Source{dec: dec}, nil
}

// NewReader constructs a Source that tokenizes the contents of r.
// It reads r to completion before returning.
func NewReader(r io.Reader, opts *Options) (*Source, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return New(data, opts)
}

// Next advances s to the next token. It returns io.EOF at the end of input.
func (s *Source) Next() error {
	if len(s.queue) == 0 {
		if err := s.fill(); err != nil {
			s.cur = item{}
			return err
		}
	}
	s.cur, s.queue = s.queue[0], s.queue[1:]
	return nil
}

// Token returns the type of the current token.
func (s *Source) Token() jcodec.Token { return s.cur.tok }

// Text returns the text of the current token.
func (s *Source) Text() []byte { return s.cur.text }

// Location returns the span of input consumed through the current token. Line
// and column positions are not tracked.
func (s *Source) Location() jcodec.Location {
	return jcodec.Location{Span: jcodec.Span{Pos: s.end, End: s.end}}
}

var (
	comma = item{tok: jcodec.Comma, text: []byte(",")}
	colon = item{tok: jcodec.Colon, text: []byte(":")}
)

// fill reads the next raw token and queues it along with any punctuation that
// precedes or follows it.
func (s *Source) fill() error {
	raw, err := s.dec.Token()
	if err != nil {
		return err
	}
	s.end = int(s.dec.InputOffset())
	it, err := classify(raw)
	if err != nil {
		return err
	}

	if it.tok == jcodec.RBrace || it.tok == jcodec.RSquare {
		if len(s.stk) == 0 {
			return fmt.Errorf("unbalanced %v", it.tok)
		}
		s.stk = s.stk[:len(s.stk)-1]
		s.queue = append(s.queue, it)
		s.completed()
		return nil
	}

	if len(s.stk) != 0 {
		f := &s.stk[len(s.stk)-1]
		switch {
		case f.obj && !f.value:
			if it.tok != jcodec.String {
				return fmt.Errorf("object key must be a string, got %v", it.tok)
			}
			if f.n > 0 {
				s.queue = append(s.queue, comma)
			}
			s.queue = append(s.queue, it, colon)
			f.value = true
			return nil
		case !f.obj && f.n > 0:
			s.queue = append(s.queue, comma)
		}
	}
	s.queue = append(s.queue, it)
	switch it.tok {
	case jcodec.LBrace:
		s.stk = append(s.stk, frame{obj: true})
	case jcodec.LSquare:
		s.stk = append(s.stk, frame{})
	default:
		s.completed()
	}
	return nil
}

// completed records that a value finished in the innermost open composite.
func (s *Source) completed() {
	if len(s.stk) == 0 {
		return
	}
	f := &s.stk[len(s.stk)-1]
	f.n++
	f.value = false
}

// classify converts a raw token into the corresponding jcodec token.
func classify(raw json.Token) (item, error) {
	switch v := raw.(type) {
	case json.Delim:
		switch v {
		case '{':
			return item{jcodec.LBrace, []byte("{")}, nil
		case '}':
			return item{jcodec.RBrace, []byte("}")}, nil
		case '[':
			return item{jcodec.LSquare, []byte("[")}, nil
		case ']':
			return item{jcodec.RSquare, []byte("]")}, nil
		}
	case json.Number:
		tok := jcodec.Integer
		if strings.ContainsAny(string(v), ".eE") {
			tok = jcodec.Number
		}
		return item{tok, []byte(string(v))}, nil
	case string:
		return item{jcodec.String, []byte(jcodec.Quote(v))}, nil
	case bool:
		if v {
			return item{jcodec.True, []byte("true")}, nil
		}
		return item{jcodec.False, []byte("false")}, nil
	case nil:
		return item{jcodec.Null, []byte("null")}, nil
	}
	return item{}, fmt.Errorf("unexpected token %v (%T)", raw, raw)
}
