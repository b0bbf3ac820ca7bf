// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jcodec

// A Target receives a decoded value from a Decoder. The Decoder chooses which
// accept method to call based on the input; a Target declares which shapes it
// can accept by implementing the corresponding optional interfaces:
//
//	Input                | Interface     | Method
//	-------------------- | ------------- | ---------------------------
//	true, false          | BoolTarget    | AcceptBool
//	integer, number      | UintTarget    | AcceptUint (integers >= 0)
//	                     | IntTarget     | AcceptInt (integers)
//	                     | FloatTarget   | AcceptFloat (any number)
//	string               | StringTarget  | AcceptString
//	null                 | NullTarget    | AcceptNull
//	any non-null value   | SomeTarget    | AcceptSome
//	[ ... ]              | SeqTarget     | AcceptSeq
//	{ ... }              | MapTarget     | AcceptMap
//	"V", {"V": ...}      | EnumTarget    | AcceptEnum
//
// For an integer, the Decoder offers the value to each interface in the order
// shown, and calls the first one the target implements. If a Target does not
// implement any method accepting the input, decoding fails with an error of
// kind TypeMismatch whose message includes the result of Expecting.
//
// A Target owns the value it is building. The Decoder retains no reference to
// it after decoding, and a Target must not expose a partially-built value if
// an accept method fails.
type Target interface {
	// Expecting returns a short description of the values the target
	// accepts, used in error messages, e.g., "struct Duration".
	Expecting() string
}

// A BoolTarget accepts Boolean values.
type BoolTarget interface {
	Target
	AcceptBool(bool) error
}

// An IntTarget accepts signed integer values.
type IntTarget interface {
	Target
	AcceptInt(int64) error
}

// A UintTarget accepts unsigned integer values.
type UintTarget interface {
	Target
	AcceptUint(uint64) error
}

// A FloatTarget accepts floating-point values.
type FloatTarget interface {
	Target
	AcceptFloat(float64) error
}

// A StringTarget accepts string values. The string has been unescaped.
type StringTarget interface {
	Target
	AcceptString(string) error
}

// A NullTarget accepts the null value.
type NullTarget interface {
	Target
	AcceptNull() error
}

// A SomeTarget accepts a value that may be absent. The Decoder calls
// AcceptNull for null, and AcceptSome for any other value. AcceptSome should
// decode the present value from its argument; if it does not, the value is
// skipped.
type SomeTarget interface {
	NullTarget
	AcceptSome(ValueAccess) error
}

// A SeqTarget accepts a sequence of values. It pulls elements from the
// SeqAccess at its own pace; elements it leaves unconsumed cause an error of
// kind InvalidLength.
type SeqTarget interface {
	Target
	AcceptSeq(SeqAccess) error
}

// A MapTarget accepts a collection of key-value entries. It pulls entries
// from the MapAccess at its own pace; entries it leaves unconsumed cause an
// error of kind InvalidLength.
type MapTarget interface {
	Target
	AcceptMap(MapAccess) error
}

// An EnumTarget accepts one arm of a tagged union. A bare string is a unit
// arm; an object with a single member is an arm with a payload, keyed by the
// variant name. The target must resolve the variant and then decode exactly
// one payload shape from the EnumAccess.
type EnumTarget interface {
	Target
	AcceptEnum(EnumAccess) error
}

// A ValueAccess decodes a single pending value.
type ValueAccess interface {
	// Decode decodes the value into dst, which is a Target or a pointer
	// accepted by Into. Decode may be called at most once.
	Decode(dst any) error
}

// A SeqAccess is a cursor over the elements of a sequence.
type SeqAccess interface {
	// NextElement decodes the next element into dst and reports true, or
	// reports false if no elements remain. The dst is a Target or a pointer
	// accepted by Into.
	NextElement(dst any) (bool, error)

	// SizeHint reports the number of remaining elements, if known. The hint
	// is only useful for preallocation.
	SizeHint() (int, bool)
}

// A MapAccess is a cursor over the entries of a map.
type MapAccess interface {
	// NextKey decodes the next key into dst and reports true, or reports
	// false if no entries remain. A successful call must be followed by a
	// call to NextValue.
	NextKey(dst any) (bool, error)

	// NextValue decodes the value of the current entry into dst.
	NextValue(dst any) error

	// NextEntry decodes a complete entry, combining NextKey and NextValue.
	NextEntry(key, val any) (bool, error)

	// SizeHint reports the number of remaining entries, if known. The hint
	// is only useful for preallocation.
	SizeHint() (int, bool)
}

// An EnumAccess provides the variant and payload of a union arm.
type EnumAccess interface {
	// Variant decodes the variant name into dst, typically a target
	// returned by IdentSet.Into.
	Variant(dst any) error

	// Unit reports an error unless the arm has no payload.
	Unit() error

	// Newtype decodes a single-value payload into dst.
	Newtype(dst any) error

	// Tuple decodes a positional payload into t, which should implement
	// SeqTarget.
	Tuple(t Target) error

	// Struct decodes a named-field payload into t, which should implement
	// MapTarget.
	Struct(t Target) error
}
