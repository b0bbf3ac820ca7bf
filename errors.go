// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jcodec

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// ErrorKind classifies the errors reported by encoding and decoding.
//
// An ErrorKind is itself an error, so callers can test the kind of an error
// with errors.Is:
//
//	if errors.Is(err, jcodec.MissingField) { ... }
type ErrorKind byte

// Constants defining the valid ErrorKind values.
const (
	Custom            ErrorKind = iota // caller-defined failure
	UnknownIdentifier                  // field or variant name not in the allowed set
	DuplicateField                     // record field decoded more than once
	MissingField                       // mandatory record field never decoded
	InvalidLength                      // positional input has the wrong number of elements
	TypeMismatch                       // target declined the shape present in the input
	InvalidValue                       // right shape, unacceptable value (e.g., overflow)
)

var kindStr = [...]string{
	Custom:            "custom error",
	UnknownIdentifier: "unknown identifier",
	DuplicateField:    "duplicate field",
	MissingField:      "missing field",
	InvalidLength:     "invalid length",
	TypeMismatch:      "invalid type",
	InvalidValue:      "invalid value",
}

func (k ErrorKind) String() string {
	if int(k) >= len(kindStr) {
		return kindStr[Custom]
	}
	return kindStr[k]
}

// Error satisfies the error interface.
func (k ErrorKind) Error() string { return k.String() }

// Error is the concrete type of errors reported by target-builders and by
// the encoder. The Decoder records the location of the token at which the
// error was detected.
type Error struct {
	Kind    ErrorKind
	Message string
	At      LineCol // zero if the location is not known

	err error
}

// Error satisfies the error interface.
func (e *Error) Error() string {
	if e.At.Line == 0 {
		return e.Message
	}
	return fmt.Sprintf("at %s: %s", e.At, e.Message)
}

// Unwrap supports error wrapping.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the ErrorKind of e.
func (e *Error) Is(target error) bool {
	k, ok := target.(ErrorKind)
	return ok && k == e.Kind
}

// Errorf returns a Custom error with the given formatted message. If the
// arguments include an error wrapped by %w, it is available via Unwrap.
func Errorf(msg string, args ...any) error {
	err := fmt.Errorf(msg, args...)
	return &Error{Kind: Custom, Message: err.Error(), err: errors.Unwrap(err)}
}

// UnknownField reports a record field name outside the allowed set.
func UnknownField(name string, allowed []string) error {
	return &Error{
		Kind:    UnknownIdentifier,
		Message: fmt.Sprintf("unknown field `%s`, %s", name, oneOf(allowed, "fields")),
	}
}

// UnknownVariant reports a union variant name outside the allowed set.
func UnknownVariant(name string, allowed []string) error {
	return &Error{
		Kind:    UnknownIdentifier,
		Message: fmt.Sprintf("unknown variant `%s`, %s", name, oneOf(allowed, "variants")),
	}
}

// DuplicateFieldError reports that the named field occurred more than once.
func DuplicateFieldError(name string) error {
	return &Error{Kind: DuplicateField, Message: fmt.Sprintf("duplicate field `%s`", name)}
}

// MissingFieldError reports that the named mandatory field did not occur.
func MissingFieldError(name string) error {
	return &Error{Kind: MissingField, Message: fmt.Sprintf("missing field `%s`", name)}
}

// InvalidLengthError reports that a positional value had n elements, which
// is not what the target described by expecting requires.
func InvalidLengthError(n int, expecting string) error {
	return &Error{
		Kind:    InvalidLength,
		Message: fmt.Sprintf("invalid length %d, expected %s", n, expecting),
	}
}

// InvalidTypeError reports that the input contained a value of shape got,
// but the target wanted expecting.
func InvalidTypeError(got, expecting string) error {
	return &Error{
		Kind:    TypeMismatch,
		Message: fmt.Sprintf("invalid type: %s, expected %s", got, expecting),
	}
}

// InvalidValueError reports that the input value described by got has an
// acceptable shape, but cannot be represented by the target.
func InvalidValueError(got, expecting string) error {
	return &Error{
		Kind:    InvalidValue,
		Message: fmt.Sprintf("invalid value: %s, expected %s", got, expecting),
	}
}

// oneOf renders the allowed set of names for an unknown identifier error.
func oneOf(names []string, what string) string {
	switch len(names) {
	case 0:
		return "there are no " + what
	case 1:
		return fmt.Sprintf("expected `%s`", names[0])
	case 2:
		return fmt.Sprintf("expected `%s` or `%s`", names[0], names[1])
	}
	last := len(names) - 1
	ss := make([]string, last)
	for i, name := range names[:last] {
		ss[i] = "`" + name + "`"
	}
	return fmt.Sprintf("expected one of %s, or `%s`", strings.Join(ss, ", "), names[last])
}

// UnsupportedTypeError is reported when Marshal or Into is given a value
// whose type the codec does not know how to handle.
type UnsupportedTypeError struct {
	Type reflect.Type
}

// Error satisfies the error interface.
func (u *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported type %v", u.Type)
}
