// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package shapes

import "github.com/creachadair/jcodec"

// A Figure is a tagged union with one arm of each shape.
//
//	Arm          | JSON
//	------------ | --------------------------------
//	FigColor     | {"Color":{"r":1,"g":2,"b":3}}
//	FigPoint     | {"Point2D":[1,2]}
//	FigInches    | {"Inches":1}
//	FigInstance  | "Instance"
type Figure struct {
	Arm Arm
}

// An Arm is one of the arms of a Figure.
type Arm interface{ isArm() }

// FigColor is the record arm of a Figure.
type FigColor Color

// FigPoint is the positional arm of a Figure.
type FigPoint Point2D

// FigInches is the single-value arm of a Figure.
type FigInches uint64

// FigInstance is the unit arm of a Figure.
type FigInstance struct{}

func (FigColor) isArm()    {}
func (FigPoint) isArm()    {}
func (FigInches) isArm()   {}
func (FigInstance) isArm() {}

const (
	variantColor = iota
	variantPoint2D
	variantInches
	variantInstance
)

var figureVariants = jcodec.Variants("Color", "Point2D", "Inches", "Instance")

// Encode satisfies the jcodec.Encodable interface.
func (f Figure) Encode(e *jcodec.Encoder) error {
	switch a := f.Arm.(type) {
	case FigColor:
		s, err := e.BeginStructVariant("Figure", variantColor, "Color", 3)
		if err != nil {
			return err
		}
		if err := Color(a).fields(s); err != nil {
			return err
		}
		return s.End()

	case FigPoint:
		s, err := e.BeginTupleVariant("Figure", variantPoint2D, "Point2D", 2)
		if err != nil {
			return err
		}
		if err := s.Field(a.X); err != nil {
			return err
		}
		if err := s.Field(a.Y); err != nil {
			return err
		}
		return s.End()

	case FigInches:
		return e.NewtypeVariant("Figure", variantInches, "Inches", uint64(a))

	case FigInstance:
		return e.UnitVariant("Figure", variantInstance, "Instance")

	case nil:
		return jcodec.Errorf("figure has no arm")
	default:
		return jcodec.Errorf("unknown figure arm %T", a)
	}
}

// Expecting satisfies the jcodec.Target interface.
func (*Figure) Expecting() string { return "enum Figure" }

// AcceptEnum satisfies the jcodec.EnumTarget interface.
func (f *Figure) AcceptEnum(acc jcodec.EnumAccess) error {
	var v int
	if err := acc.Variant(figureVariants.Into(&v)); err != nil {
		return err
	}
	switch v {
	case variantColor:
		var c Color
		if err := acc.Struct(&c); err != nil {
			return err
		}
		f.Arm = FigColor(c)

	case variantPoint2D:
		var p Point2D
		if err := acc.Tuple(&p); err != nil {
			return err
		}
		f.Arm = FigPoint(p)

	case variantInches:
		var n uint64
		if err := acc.Newtype(&n); err != nil {
			return err
		}
		f.Arm = FigInches(n)

	case variantInstance:
		if err := acc.Unit(); err != nil {
			return err
		}
		f.Arm = FigInstance{}
	}
	return nil
}
