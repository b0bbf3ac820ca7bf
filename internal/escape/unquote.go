// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Package escape handles quoting and unquoting of JSON strings.
package escape

import (
	"errors"
	"unicode/utf16"
	"unicode/utf8"

	"go4.org/mem"
)

var (
	errIncomplete  = errors.New("incomplete escape sequence")
	errIncompleteU = errors.New("incomplete Unicode escape")
)

// Unquote decodes a byte slice containing the JSON encoding of a string. The
// input must have the enclosing double quotation marks already removed.
//
// Escape sequences are replaced with their unescaped equivalents, and a
// UTF-16 surrogate pair written as two \u escapes is combined into one rune.
// Invalid escapes and unpaired surrogates are replaced by the Unicode
// replacement rune. Unquote reports an error for an incomplete escape.
func Unquote(src mem.RO) ([]byte, error) {
	dec := make([]byte, 0, src.Len())
	for {
		i := mem.IndexByte(src, '\\')
		if i < 0 {
			return mem.Append(dec, src), nil
		}
		dec = mem.Append(dec, src.SliceTo(i))
		src = src.SliceFrom(i + 1)
		if src.Len() == 0 {
			return nil, errIncomplete
		}

		if c := src.At(0); c != 'u' {
			if b, ok := simpleEsc(c); ok {
				dec = append(dec, b)
				src = src.SliceFrom(1)
			} else {
				_, n := mem.DecodeRune(src)
				dec = utf8.AppendRune(dec, utf8.RuneError)
				src = src.SliceFrom(max(n, 1))
			}
			continue
		}

		src = src.SliceFrom(1)
		r, err := hex4(src)
		if err != nil {
			return nil, err
		}
		src = src.SliceFrom(4)
		if utf16.IsSurrogate(r) {
			// A leading surrogate may be followed by \uXXXX for its pair.
			if src.Len() >= 6 && src.At(0) == '\\' && src.At(1) == 'u' {
				if r2, err := hex4(src.SliceFrom(2)); err == nil {
					if p := utf16.DecodeRune(r, r2); p != utf8.RuneError {
						dec = utf8.AppendRune(dec, p)
						src = src.SliceFrom(6)
						continue
					}
				}
			}
			r = utf8.RuneError
		}
		dec = utf8.AppendRune(dec, r)
	}
}

// simpleEsc reports the byte denoted by the single-character escape \c.
func simpleEsc(c byte) (byte, bool) {
	switch c {
	case '"', '\\', '/':
		return c, true
	case 'b':
		return '\b', true
	case 'f':
		return '\f', true
	case 'n':
		return '\n', true
	case 'r':
		return '\r', true
	case 't':
		return '\t', true
	}
	return 0, false
}

// hex4 decodes the four hexadecimal digits at the front of src. Invalid
// digits yield the replacement rune. It reports an error if fewer than four
// bytes remain.
func hex4(src mem.RO) (rune, error) {
	if src.Len() < 4 {
		return 0, errIncompleteU
	}
	var v rune
	for i := range 4 {
		b := src.At(i)
		switch {
		case '0' <= b && b <= '9':
			v = v<<4 | rune(b-'0')
		case 'a' <= b && b <= 'f':
			v = v<<4 | rune(b-'a'+10)
		case 'A' <= b && b <= 'F':
			v = v<<4 | rune(b-'A'+10)
		default:
			return utf8.RuneError, nil
		}
	}
	return v, nil
}
