// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package jcodec implements a JSON codec that encodes values of any shape by
// having them drive an Encoder, and decodes values by having a Decoder drive
// a type-specific Target. No intermediate tree of JSON values is constructed
// in either direction.
//
// # Encoding
//
// A type that implements Encodable writes itself to an Encoder by making one
// call per value, according to its shape:
//
//	func (p Point) Encode(e *jcodec.Encoder) error {
//	   s, err := e.BeginStruct("Point", 2)
//	   if err != nil {
//	      return err
//	   }
//	   if err := s.Field("x", p.X); err != nil {
//	      return err
//	   }
//	   if err := s.Field("y", p.Y); err != nil {
//	      return err
//	   }
//	   return s.End()
//	}
//
// Call Marshal to encode a value. Built-in scalars, pointers, slices, arrays,
// and maps are encoded without an Encodable implementation.
//
//	out, err := jcodec.Marshal(Point{X: 1, Y: 2})  // {"x":1,"y":2}
//
// Tagged unions are written as the variant name for arms without a payload,
// and as an object with a single member keyed by the variant name otherwise:
//
//	Arm                 | Methods                 | Output
//	------------------- | ----------------------- | -------------------
//	unit                | UnitVariant             | "V"
//	single value        | NewtypeVariant          | {"V":value}
//	positional fields   | BeginTupleVariant       | {"V":[values...]}
//	named fields        | BeginStructVariant      | {"V":{fields...}}
//
// # Decoding
//
// The Decoder reads tokens from a TokenSource (by default a Scanner) and
// calls exactly one accept method on a Target for each value, chosen by the
// shape of the input. Composite values are delivered through a SeqAccess or
// MapAccess that the target pulls from at its own pace:
//
//	func (d *Duration) AcceptMap(m jcodec.MapAccess) error {
//	   var secs jcodec.Option[uint64]
//	   var nanos jcodec.Option[uint32]
//	   for {
//	      var f int
//	      ok, err := m.NextKey(durationFields.Into(&f))
//	      ...
//	   }
//	}
//
// Call Unmarshal to decode a single value:
//
//	var d Duration
//	if err := jcodec.Unmarshal(data, &d); err != nil {
//	   log.Fatalf("Unmarshal: %v", err)
//	}
//
// Errors reported by targets have concrete type *Error, and are classified by
// an ErrorKind that can be checked with errors.Is. Malformed input is
// reported as a *SyntaxError.
//
// # Scanning
//
// The Scanner type implements a lexical scanner for JSON.  Construct a scanner
// from an io.Reader and call its Next method to iterate over the stream. Next
// advances to the next input token and returns nil, or reports an error:
//
//	s := jcodec.NewScanner(input)
//	for s.Next() == nil {
//	   log.Printf("Next token: %v", s.Token())
//	}
//
// Next returns io.EOF when the input has been fully consumed. Any other error
// indicates an I/O or lexical error in the input.
package jcodec
