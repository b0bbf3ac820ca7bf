// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

// Package shapes defines small types that encode and decode each of the value
// shapes supported by package jcodec: a record, a positional record, a
// single-value wrapper, a unit marker, a tagged union with one arm of each
// shape, and a record that accepts both positional and named input.
package shapes

import "github.com/creachadair/jcodec"

// Color is a record with three named fields.
//
// JSON: {"r":1,"g":2,"b":3}
type Color struct {
	R, G, B uint8
}

// Encode satisfies the jcodec.Encodable interface.
func (c Color) Encode(e *jcodec.Encoder) error {
	s, err := e.BeginStruct("Color", 3)
	if err != nil {
		return err
	}
	if err := c.fields(s); err != nil {
		return err
	}
	return s.End()
}

func (c Color) fields(s *jcodec.StructEncoder) error {
	if err := s.Field("r", c.R); err != nil {
		return err
	}
	if err := s.Field("g", c.G); err != nil {
		return err
	}
	return s.Field("b", c.B)
}

// Expecting satisfies the jcodec.Target interface.
func (*Color) Expecting() string { return "struct Color" }

// AcceptMap decodes a Color from an object with fields "r", "g", and "b".
func (c *Color) AcceptMap(m jcodec.MapAccess) error {
	var r, g, b uint8
	if err := jcodec.DecodeStruct(m,
		jcodec.Field{Name: "r", Dst: &r},
		jcodec.Field{Name: "g", Dst: &g},
		jcodec.Field{Name: "b", Dst: &b},
	); err != nil {
		return err
	}
	*c = Color{R: r, G: g, B: b}
	return nil
}

// AcceptSeq decodes a Color from an array [r, g, b].
func (c *Color) AcceptSeq(s jcodec.SeqAccess) error {
	var r, g, b uint8
	if err := jcodec.DecodeTuple(s, "struct Color with 3 elements", &r, &g, &b); err != nil {
		return err
	}
	*c = Color{R: r, G: g, B: b}
	return nil
}

// Point2D is a positional record with two fields.
//
// JSON: [1.5,2]
type Point2D struct {
	X, Y float64
}

// Encode satisfies the jcodec.Encodable interface.
func (p Point2D) Encode(e *jcodec.Encoder) error {
	s, err := e.BeginTupleStruct("Point2D", 2)
	if err != nil {
		return err
	}
	if err := s.Field(p.X); err != nil {
		return err
	}
	if err := s.Field(p.Y); err != nil {
		return err
	}
	return s.End()
}

// Expecting satisfies the jcodec.Target interface.
func (*Point2D) Expecting() string { return "tuple struct Point2D with 2 elements" }

// AcceptSeq decodes a Point2D from an array [x, y].
func (p *Point2D) AcceptSeq(s jcodec.SeqAccess) error {
	var x, y float64
	if err := jcodec.DecodeTuple(s, p.Expecting(), &x, &y); err != nil {
		return err
	}
	*p = Point2D{X: x, Y: y}
	return nil
}

// Inches is a single-value wrapper. It encodes as the wrapped value.
//
// JSON: 12
type Inches uint64

// Encode satisfies the jcodec.Encodable interface.
func (n Inches) Encode(e *jcodec.Encoder) error { return e.NewtypeStruct("Inches", uint64(n)) }

// Expecting satisfies the jcodec.Target interface.
func (*Inches) Expecting() string { return "newtype struct Inches" }

// AcceptUint decodes an Inches from an unsigned integer.
func (n *Inches) AcceptUint(v uint64) error { *n = Inches(v); return nil }

// Instance is a unit marker that carries no data.
//
// JSON: null
type Instance struct{}

// Encode satisfies the jcodec.Encodable interface.
func (Instance) Encode(e *jcodec.Encoder) error { return e.UnitStruct("Instance") }

// Expecting satisfies the jcodec.Target interface.
func (*Instance) Expecting() string { return "unit struct Instance" }

// AcceptNull decodes an Instance from null.
func (*Instance) AcceptNull() error { return nil }

// ByteBuf is a byte slice that encodes through the direct byte path of the
// encoder rather than element by element. The output is the same.
type ByteBuf []byte

// Encode satisfies the jcodec.Encodable interface.
func (b ByteBuf) Encode(e *jcodec.Encoder) error { return e.Bytes(b) }

// Efficient is a record with one byte field encoded by each path.
//
// JSON: {"bytes":[1,2],"byte_buf":[3,4]}
type Efficient struct {
	Bytes   ByteBuf
	ByteBuf []byte
}

// Encode satisfies the jcodec.Encodable interface.
func (v Efficient) Encode(e *jcodec.Encoder) error {
	s, err := e.BeginStruct("Efficient", 2)
	if err != nil {
		return err
	}
	if err := s.Field("bytes", v.Bytes); err != nil {
		return err
	}
	if err := s.Field("byte_buf", v.ByteBuf); err != nil {
		return err
	}
	return s.End()
}

// Expecting satisfies the jcodec.Target interface.
func (*Efficient) Expecting() string { return "struct Efficient" }

// AcceptMap decodes an Efficient from an object.
func (v *Efficient) AcceptMap(m jcodec.MapAccess) error {
	var bs ByteBuf
	var buf []byte
	if err := jcodec.DecodeStruct(m,
		jcodec.Field{Name: "bytes", Dst: &bs},
		jcodec.Field{Name: "byte_buf", Dst: &buf},
	); err != nil {
		return err
	}
	*v = Efficient{Bytes: bs, ByteBuf: buf}
	return nil
}
