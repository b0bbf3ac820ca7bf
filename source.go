// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jcodec

// A TokenSource delivers the lexical tokens of JSON input to a Decoder.
// A *Scanner is a TokenSource; see also package source/gojson.
//
// Next advances to the next token and returns nil, or returns io.EOF when the
// input is exhausted, or another error if the input is malformed. Token and
// Text describe the current token. Text for a String token includes the
// enclosing quotation marks and undecoded escapes, exactly as a Scanner
// reports it. The slice returned by Text is only valid until the next call
// of Next.
type TokenSource interface {
	Next() error
	Token() Token
	Text() []byte
	Location() Location
}
