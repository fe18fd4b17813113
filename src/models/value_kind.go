package models

import (
	"fmt"
	"strings"
)

// KindTag identifies one of the document representable shapes a field can take.
type KindTag int

const (
	KindUnknown KindTag = iota // zero value, never valid on a field

	KindString
	KindNumber
	KindBoolean
	KindEnum
	KindObjectID
	KindObject
	KindArray
	KindReference
	KindBinary

	// KindTotal is the number of kind tags, KindUnknown included
	KindTotal = int(iota)
)

var kindNames = [...]string{
	KindUnknown:   "unknown",
	KindString:    "string",
	KindNumber:    "number",
	KindBoolean:   "boolean",
	KindEnum:      "enum",
	KindObjectID:  "objectid",
	KindObject:    "object",
	KindArray:     "array",
	KindReference: "reference",
	KindBinary:    "binary",
}

func (k KindTag) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("KindTag(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKindTag looks up a kind by the name used in doc struct tags.
func ParseKindTag(name string) (KindTag, bool) {
	for i, n := range kindNames {
		if i != int(KindUnknown) && n == name {
			return KindTag(i), true
		}
	}
	return KindUnknown, false
}

// ValueKind is a KindTag plus, for arrays, the kind of the elements.
type ValueKind struct {
	Tag  KindTag
	Elem *ValueKind // only set when Tag is KindArray
}

// ScalarKind builds a ValueKind without element kind.
func ScalarKind(tag KindTag) ValueKind {
	return ValueKind{Tag: tag}
}

// ArrayOf builds the collection kind wrapping elem.
func ArrayOf(elem ValueKind) ValueKind {
	return ValueKind{Tag: KindArray, Elem: &elem}
}

func (v ValueKind) String() string {
	if v.Tag == KindArray && v.Elem != nil {
		return v.Tag.String() + ":" + v.Elem.String()
	}
	return v.Tag.String()
}

// Equal compares two kinds including nested element kinds.
func (v ValueKind) Equal(other ValueKind) bool {
	if v.Tag != other.Tag {
		return false
	}
	if v.Elem == nil || other.Elem == nil {
		return v.Elem == other.Elem
	}
	return v.Elem.Equal(*other.Elem)
}

// ParseValueKind parses "number" or "array:array:string" style kind expressions.
func ParseValueKind(expr string) (ValueKind, error) {
	expr = strings.TrimSpace(expr)
	head, rest, nested := strings.Cut(expr, ":")

	tag, ok := ParseKindTag(head)
	if !ok {
		return ValueKind{}, fmt.Errorf("unknown value kind %q", head)
	}

	if tag != KindArray {
		if nested {
			return ValueKind{}, fmt.Errorf("value kind %q does not take an element kind", head)
		}
		return ScalarKind(tag), nil
	}

	if !nested || rest == "" {
		return ValueKind{}, fmt.Errorf("array kind needs an element kind, e.g. array:string")
	}
	elem, err := ParseValueKind(rest)
	if err != nil {
		return ValueKind{}, err
	}
	return ArrayOf(elem), nil
}
