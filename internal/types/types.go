// Package types implements the front-end declarator type grammar and its
// normalization into the four canonical IR-layer type variants.
//
// The front-end grammar is deliberately looser than the IR layer: it
// permits forms a declarator can momentarily take on while it is being
// assembled (an array of function, a variable array with no size, a
// dangling "building" placeholder) so that NormalizeVariableDeclaration,
// NormalizeParameterDeclaration and NormalizeFunctionType have something
// concrete to reject.
package types

import "fmt"

// Kind tags a front-end Type.
type Kind int

const (
	Building Kind = iota // placeholder used mid-declarator, never legal in normalized output
	Void
	Bool
	Int
	Float
	Char
	String
	Pointer
	Array
	Function
)

func (k Kind) String() string {
	switch k {
	case Building:
		return "building"
	case Void:
		return "void"
	case Bool:
		return "bool"
	case Int:
		return "int"
	case Float:
		return "float"
	case Char:
		return "char"
	case String:
		return "string"
	case Pointer:
		return "pointer"
	case Array:
		return "array"
	case Function:
		return "function"
	default:
		return "unknown"
	}
}

// OffsetLimit records whether a decayed array pointer still remembers its
// original bound.
type OffsetLimit int

const (
	Unlimited OffsetLimit = iota
	Limited
)

// Type is the front-end declarator type. Equals/String match C declarator
// conventions; the zero value is a Building placeholder (invalid on its
// own).
type Type struct {
	Kind Kind

	// Pointer
	Aim         *Type
	OffsetLimit OffsetLimit
	OffsetBytes uint64

	// Array
	Element *Type
	Count   int64 // -1 == unknown

	// Function
	Return *Type
	Params []*Type
}

var (
	VoidType   = &Type{Kind: Void}
	BoolType   = &Type{Kind: Bool}
	IntType    = &Type{Kind: Int}
	FloatType  = &Type{Kind: Float}
	CharType   = &Type{Kind: Char}
	StringType = &Type{Kind: String}
)

// NewPointer builds a pointer type with no recorded decay bound.
func NewPointer(aim *Type) *Type {
	return &Type{Kind: Pointer, Aim: aim, OffsetLimit: Unlimited}
}

// NewPointerLimited builds a decayed-array pointer that still remembers
// how many elements it may legally offset across.
func NewPointerLimited(aim *Type, count uint64) *Type {
	return &Type{Kind: Pointer, Aim: aim, OffsetLimit: Limited, OffsetBytes: count}
}

// NewArray builds an array type. count == -1 means "unknown", legal only
// in parameter position after normalization.
func NewArray(element *Type, count int64) *Type {
	return &Type{Kind: Array, Element: element, Count: count}
}

// NewFunction builds a function type.
func NewFunction(ret *Type, params []*Type) *Type {
	return &Type{Kind: Function, Return: ret, Params: params}
}

func (t *Type) String() string {
	if t == nil {
		return "<nil type>"
	}
	switch t.Kind {
	case Pointer:
		if t.OffsetLimit == Limited {
			return fmt.Sprintf("*%s[%d]", t.Aim, t.OffsetBytes)
		}
		return fmt.Sprintf("*%s", t.Aim)
	case Array:
		if t.Count < 0 {
			return fmt.Sprintf("%s[]", t.Element)
		}
		return fmt.Sprintf("%s[%d]", t.Element, t.Count)
	case Function:
		return fmt.Sprintf("%s(...)->%s", t.paramString(), t.Return)
	default:
		return t.Kind.String()
	}
}

func (t *Type) paramString() string {
	s := "("
	for i, p := range t.Params {
		if i > 0 {
			s += ", "
		}
		s += p.String()
	}
	return s + ")"
}

// Equals is recursive structural equality.
func (t *Type) Equals(other *Type) bool {
	if t == nil || other == nil {
		return t == other
	}
	if t.Kind != other.Kind {
		return false
	}
	switch t.Kind {
	case Pointer:
		return t.OffsetLimit == other.OffsetLimit &&
			(t.OffsetLimit == Unlimited || t.OffsetBytes == other.OffsetBytes) &&
			t.Aim.Equals(other.Aim)
	case Array:
		return t.Count == other.Count && t.Element.Equals(other.Element)
	case Function:
		if !t.Return.Equals(other.Return) || len(t.Params) != len(other.Params) {
			return false
		}
		for i := range t.Params {
			if !t.Params[i].Equals(other.Params[i]) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

func (t *Type) IsNumeric() bool {
	return t != nil && (t.Kind == Int || t.Kind == Float || t.Kind == Char || t.Kind == Bool)
}

func (t *Type) IsInteger() bool {
	return t != nil && (t.Kind == Int || t.Kind == Char || t.Kind == Bool)
}
