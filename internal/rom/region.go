// Package rom holds the region model shared by every stage of the analysis:
// region kinds, provenance, value maps, pointers and the region catalog.
package rom

import (
	"bytes"
	"fmt"
	"strings"
)

// Kind is the coarse content category of a byte range.
type Kind int

const (
	KindHeader Kind = iota
	KindCode
	KindData
	KindText
	KindPointer
	KindPointerTable
	KindReserved
	KindUnknown
)

var kindNames = [...]string{
	KindHeader:       "Header",
	KindCode:         "Code",
	KindData:         "Data",
	KindText:         "Text",
	KindPointer:      "Pointer",
	KindPointerTable: "PointerTable",
	KindReserved:     "Reserved",
	KindUnknown:      "Unknown",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind resolves a kind name case-insensitively.
func ParseKind(s string) (Kind, error) {
	for i, name := range kindNames {
		if strings.EqualFold(name, s) {
			return Kind(i), nil
		}
	}
	return KindUnknown, fmt.Errorf("unknown region kind %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(b []byte) error {
	v, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// Origin records where a region came from. It is fixed at creation.
type Origin int

const (
	// OriginSpec regions are declared by a platform layout.
	OriginSpec Origin = iota
	// OriginDiscovered is reserved for structural analysis such as code/data
	// boundary inference.
	OriginDiscovered
	// OriginInferred regions were grown from a pointer target.
	OriginInferred
)

func (o Origin) String() string {
	switch o {
	case OriginSpec:
		return "Spec"
	case OriginDiscovered:
		return "Discovered"
	case OriginInferred:
		return "Inferred"
	}
	return fmt.Sprintf("Origin(%d)", int(o))
}

// MarshalText implements encoding.TextMarshaler.
func (o Origin) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

// ValueMapping gives a human meaning to one exact byte pattern.
type ValueMapping struct {
	Raw     []byte
	Meaning string
}

// Region is a named, typed byte range [Offset, Offset+Size) of an image.
type Region struct {
	Offset   int
	Size     int
	Name     string
	Kind     Kind
	Required bool
	Values   []ValueMapping
	Origin   Origin
}

// End returns the exclusive end offset.
func (r Region) End() int { return r.Offset + r.Size }

// Contains reports whether off falls inside the region.
func (r Region) Contains(off int) bool {
	return off >= r.Offset && off < r.End()
}

// Interpret looks raw up in the value map. Only exact matches count; the
// first mapping in declaration order wins.
func (r Region) Interpret(raw []byte) (string, bool) {
	for _, m := range r.Values {
		if bytes.Equal(m.Raw, raw) {
			return m.Meaning, true
		}
	}
	return "", false
}

// Pointer is a 4-byte little-endian word whose value falls inside the
// platform's ROM address window.
type Pointer struct {
	From int    // offset the word was read at
	To   int    // Raw rebased to a buffer offset
	Raw  uint32 // word value as stored
}

func (p Pointer) String() string {
	return fmt.Sprintf("%06X -> %06X (%08X)", p.From, p.To, p.Raw)
}
