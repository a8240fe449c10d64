package model

import (
	"fmt"
	"strconv"
	"strings"
)

type UnitKind string

const (
	UnitWholeCourt UnitKind = "whole_court"
	UnitSection    UnitKind = "section"
	// UnitAnySection only appears on requests. It is resolved to a concrete
	// section before anything is stored.
	UnitAnySection UnitKind = "any_section"
)

// Unit identifies what a reservation occupies: the whole court or one
// numbered section of it.
type Unit struct {
	Kind    UnitKind `json:"kind" bson:"kind"`
	Section int      `json:"section,omitempty" bson:"section,omitempty"`
}

func WholeCourt() Unit       { return Unit{Kind: UnitWholeCourt} }
func SectionUnit(n int) Unit { return Unit{Kind: UnitSection, Section: n} }
func AnySection() Unit       { return Unit{Kind: UnitAnySection} }

func (u Unit) IsWholeCourt() bool { return u.Kind == UnitWholeCourt }
func (u Unit) IsSection() bool    { return u.Kind == UnitSection }
func (u Unit) IsAnySection() bool { return u.Kind == UnitAnySection }

func (u Unit) String() string {
	switch u.Kind {
	case UnitSection:
		return fmt.Sprintf("section:%d", u.Section)
	case UnitAnySection:
		return "any"
	default:
		return "whole"
	}
}

// ParseUnit accepts "", "whole", "any", "N" and "section:N".
func ParseUnit(s string) (Unit, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "", "whole", "whole_court", "court":
		return WholeCourt(), nil
	case "any", "any_section":
		return AnySection(), nil
	}

	raw := strings.TrimPrefix(s, "section:")
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return Unit{}, fmt.Errorf("invalid unit %q, expected whole, any or a section number", s)
	}
	return SectionUnit(n), nil
}
