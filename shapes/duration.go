// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package shapes

import "github.com/creachadair/jcodec"

// Duration is a span of time split into whole seconds and nanoseconds.
// It encodes as an object, and decodes from either an object with fields
// "secs" and "nanos" or an array [secs, nanos].
type Duration struct {
	Secs  uint64
	Nanos uint32
}

const (
	fieldSecs = iota
	fieldNanos
)

var durationFields = jcodec.Fields("secs", "nanos")

// Encode satisfies the jcodec.Encodable interface.
func (d Duration) Encode(e *jcodec.Encoder) error {
	s, err := e.BeginStruct("Duration", 2)
	if err != nil {
		return err
	}
	if err := s.Field("secs", d.Secs); err != nil {
		return err
	}
	if err := s.Field("nanos", d.Nanos); err != nil {
		return err
	}
	return s.End()
}

// Expecting satisfies the jcodec.Target interface.
func (*Duration) Expecting() string { return "struct Duration" }

// AcceptSeq decodes a Duration from an array [secs, nanos].
func (d *Duration) AcceptSeq(s jcodec.SeqAccess) error {
	var secs uint64
	var nanos uint32
	if ok, err := s.NextElement(&secs); err != nil {
		return err
	} else if !ok {
		return jcodec.InvalidLengthError(0, d.Expecting())
	}
	if ok, err := s.NextElement(&nanos); err != nil {
		return err
	} else if !ok {
		return jcodec.InvalidLengthError(1, d.Expecting())
	}
	*d = Duration{Secs: secs, Nanos: nanos}
	return nil
}

// AcceptMap decodes a Duration from an object {"secs":s, "nanos":n}.
func (d *Duration) AcceptMap(m jcodec.MapAccess) error {
	var secs jcodec.Option[uint64]
	var nanos jcodec.Option[uint32]
	for {
		var f int
		ok, err := m.NextKey(durationFields.Into(&f))
		if err != nil {
			return err
		} else if !ok {
			break
		}
		switch f {
		case fieldSecs:
			if secs.Present {
				return jcodec.DuplicateFieldError("secs")
			}
			var v uint64
			if err := m.NextValue(&v); err != nil {
				return err
			}
			secs = jcodec.Some(v)
		case fieldNanos:
			if nanos.Present {
				return jcodec.DuplicateFieldError("nanos")
			}
			var v uint32
			if err := m.NextValue(&v); err != nil {
				return err
			}
			nanos = jcodec.Some(v)
		}
	}
	s, ok := secs.Get()
	if !ok {
		return jcodec.MissingFieldError("secs")
	}
	n, ok := nanos.Get()
	if !ok {
		return jcodec.MissingFieldError("nanos")
	}
	*d = Duration{Secs: s, Nanos: n}
	return nil
}
