// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jcodec

import (
	"bytes"
	"io"
)

// Marshal returns the JSON encoding of v. Each call uses a fresh Encoder.
// If v does not write exactly one complete value, Marshal reports an error
// and no output.
func Marshal(v any) ([]byte, error) {
	var e Encoder
	if err := e.encodeOne(-1, v); err != nil {
		return nil, err
	}
	return e.buf, nil
}

// MarshalString returns the JSON encoding of v as a string.
func MarshalString(v any) (string, error) {
	out, err := Marshal(v)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// MustMarshal returns the JSON encoding of v, or panics if encoding fails.
func MustMarshal(v any) []byte {
	out, err := Marshal(v)
	if err != nil {
		panic(err)
	}
	return out
}

// Unmarshal decodes exactly one JSON value from data into dst, which must be a
// Target or a pointer accepted by Into. It is an error if data contains no
// value, or anything other than whitespace after the value.
func Unmarshal(data []byte, dst any) error {
	d := NewDecoder(bytes.NewReader(data))
	return d.decodeOnly(dst)
}

// decodeOnly decodes a single value into dst and checks that no further
// input remains.
func (d *Decoder) decodeOnly(dst any) error {
	if err := d.Decode(dst); err == io.EOF {
		return d.syntaxError(err, "%v", errEndOfInput)
	} else if err != nil {
		return err
	}
	return d.trailing()
}

// DecodeOnly decodes exactly one value from d into dst, and reports an error
// if any further input remains.
func (d *Decoder) DecodeOnly(dst any) error { return d.decodeOnly(dst) }
