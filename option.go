// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jcodec

// Option is a value of type T that may be absent. An absent Option encodes
// as null; a present Option encodes as its value, without tagging.
type Option[T any] struct {
	Value   T
	Present bool
}

// Some returns a present Option holding v.
func Some[T any](v T) Option[T] { return Option[T]{Value: v, Present: true} }

// None returns an absent Option.
func None[T any]() Option[T] { return Option[T]{} }

// Get returns the value of o and reports whether it is present.
func (o Option[T]) Get() (T, bool) { return o.Value, o.Present }

// Encode satisfies the Encodable interface.
func (o Option[T]) Encode(e *Encoder) error {
	if !o.Present {
		return e.None()
	}
	return e.Some(o.Value)
}

// Expecting satisfies the Target interface.
func (o *Option[T]) Expecting() string { return "an optional value" }

// AcceptNull satisfies the NullTarget interface.
func (o *Option[T]) AcceptNull() error { *o = Option[T]{}; return nil }

// AcceptSome satisfies the SomeTarget interface.
func (o *Option[T]) AcceptSome(va ValueAccess) error {
	var v T
	if err := va.Decode(&v); err != nil {
		return err
	}
	*o = Some(v)
	return nil
}
