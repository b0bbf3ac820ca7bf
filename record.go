// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jcodec

// A Field describes one field of a record for DecodeStruct.
type Field struct {
	Name     string
	Dst      any  // a Target, or a pointer accepted by Into
	Optional bool // the field may be absent
}

// DecodeStruct decodes the entries of m into the named fields of a record.
// Each key is resolved against the field names; it is an error if a key is
// not a field name, if a field occurs more than once, or if a field that is
// not optional does not occur.
//
// Field values are decoded directly into their destinations, so a MapTarget
// should decode into temporaries and assign its own fields only if
// DecodeStruct succeeds. To allow unknown keys, use DecodeStructLenient.
func DecodeStruct(m MapAccess, fields ...Field) error {
	return decodeStruct(m, false, fields)
}

// DecodeStructLenient is like DecodeStruct, but skips the values of keys
// that are not field names rather than reporting an error.
func DecodeStructLenient(m MapAccess, fields ...Field) error {
	return decodeStruct(m, true, fields)
}

func decodeStruct(m MapAccess, lenient bool, fields []Field) error {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	set := Fields(names...)
	if lenient {
		set = set.Lenient()
	}

	seen := make([]bool, len(fields))
	for {
		var i int
		ok, err := m.NextKey(set.Into(&i))
		if err != nil {
			return err
		} else if !ok {
			break
		}
		if i == Unknown {
			if err := m.NextValue(Ignore); err != nil {
				return err
			}
			continue
		}
		if seen[i] {
			return DuplicateFieldError(fields[i].Name)
		}
		if err := m.NextValue(fields[i].Dst); err != nil {
			return err
		}
		seen[i] = true
	}
	for i, f := range fields {
		if !seen[i] && !f.Optional {
			return MissingFieldError(f.Name)
		}
	}
	return nil
}

// DecodeTuple decodes the elements of s in order into dsts, each of which is
// a Target or a pointer accepted by Into. If s has fewer elements than dsts,
// DecodeTuple reports an error of kind InvalidLength whose message includes
// expecting.
func DecodeTuple(s SeqAccess, expecting string, dsts ...any) error {
	for i, dst := range dsts {
		ok, err := s.NextElement(dst)
		if err != nil {
			return err
		} else if !ok {
			return InvalidLengthError(i, expecting)
		}
	}
	return nil
}
