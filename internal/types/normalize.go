package types

import (
	"github.com/hassandahiru/ccompiler/internal/diagnostics"
	"github.com/hassandahiru/ccompiler/internal/lexer"
	irtypes "github.com/hassandahiru/ccompiler/internal/ir/irtype"
)

// NormalizeVariableDeclaration normalizes a declarator appearing in a
// plain variable declaration. Unlike parameter position, an array here
// must carry a concrete element count.
func NormalizeVariableDeclaration(t *Type, pos lexer.Position) (*Type, error) {
	return normalizeArrayType(t, pos, true)
}

// NormalizeParameterDeclaration normalizes a declarator appearing in a
// function's parameter list: arrays decay to pointers (retaining any
// known bound), and function types decay to pointer-to-function.
func NormalizeParameterDeclaration(t *Type, pos lexer.Position) (*Type, error) {
	switch t.Kind {
	case Array:
		normalized, err := normalizeArrayType(t, pos, false)
		if err != nil {
			return nil, err
		}
		if normalized.Count < 0 {
			return NewPointer(normalized.Element), nil
		}
		return NewPointerLimited(normalized.Element, uint64(normalized.Count)), nil
	case Function:
		normalized, err := NormalizeFunctionType(t, pos)
		if err != nil {
			return nil, err
		}
		return NewPointer(normalized), nil
	case Building:
		return nil, diagnostics.New(diagnostics.InvalidType, pos, "a building/placeholder type reached normalization")
	default:
		return t, nil
	}
}

// NormalizeFunctionType normalizes a function type's return type and
// every parameter, rejecting a function returning a function or array.
func NormalizeFunctionType(t *Type, pos lexer.Position) (*Type, error) {
	if t.Kind != Function {
		return nil, diagnostics.New(diagnostics.InvalidType, pos, "not a function type: %s", t)
	}
	switch t.Return.Kind {
	case Function, Array:
		return nil, diagnostics.New(diagnostics.InvalidType, pos, "function cannot return %s", t.Return.Kind)
	case Building:
		return nil, diagnostics.New(diagnostics.InvalidType, pos, "a building/placeholder type reached normalization")
	}
	params := make([]*Type, len(t.Params))
	for i, p := range t.Params {
		normalized, err := NormalizeParameterDeclaration(p, pos)
		if err != nil {
			return nil, err
		}
		params[i] = normalized
	}
	return NewFunction(t.Return, params), nil
}

// normalizeArrayType recurses into nested array element types, rejecting
// an element type of Function, and (when forceCount is set, i.e. the
// array is in variable-declaration position rather than parameter
// position) requiring a concrete element count.
func normalizeArrayType(t *Type, pos lexer.Position, forceCount bool) (*Type, error) {
	if t.Kind == Building {
		return nil, diagnostics.New(diagnostics.InvalidType, pos, "a building/placeholder type reached normalization")
	}
	if t.Kind != Array {
		return t, nil
	}
	if t.Element.Kind == Function {
		return nil, diagnostics.New(diagnostics.InvalidType, pos, "element of array cannot be function")
	}
	element := t.Element
	if element.Kind == Array {
		normalized, err := normalizeArrayType(element, pos, forceCount)
		if err != nil {
			return nil, err
		}
		element = normalized
	}
	if forceCount && t.Count < 0 {
		return nil, diagnostics.New(diagnostics.InvalidType, pos, "variable array declaration must have a known element count")
	}
	return NewArray(element, t.Count), nil
}

// SizeOf returns the byte size of a normalized front-end type, as used
// to size an Alloca. Arrays and functions-by-value are not representable
// as a stack slot size by this compiler and are rejected.
func SizeOf(t *Type, pos lexer.Position) (uint64, error) {
	switch t.Kind {
	case Int, Bool, Char:
		return 4, nil
	case Pointer:
		return 8, nil
	default:
		return 0, diagnostics.New(diagnostics.InvalidType, pos, "no storage size for type %s", t)
	}
}

// ToIRType converts a normalized front-end Type into the narrower,
// four-variant IR-layer type system (irtype.Type). Int and Char become
// Integer(32) and Bool becomes Integer(1); Void, Float, String and
// Building are rejected, except that a Function's Void return type is
// let through by toIRReturnType.
func ToIRType(t *Type, pos lexer.Position) (irtypes.Type, error) {
	switch t.Kind {
	case Int, Char:
		return irtypes.NewInteger(32), nil
	case Bool:
		return irtypes.NewInteger(1), nil
	case Pointer:
		aim, err := ToIRType(t.Aim, pos)
		if err != nil {
			return nil, err
		}
		if t.OffsetLimit == Limited {
			return irtypes.NewPointerLimited(aim, t.OffsetBytes), nil
		}
		return irtypes.NewPointer(aim), nil
	case Array:
		element, err := ToIRType(t.Element, pos)
		if err != nil {
			return nil, err
		}
		return irtypes.NewArray(element, t.Count), nil
	case Function:
		ret, err := toIRReturnType(t.Return, pos)
		if err != nil {
			return nil, err
		}
		params := make([]irtypes.Type, len(t.Params))
		for i, p := range t.Params {
			pt, err := ToIRType(p, pos)
			if err != nil {
				return nil, err
			}
			params[i] = pt
		}
		return irtypes.NewFunction(ret, params), nil
	default:
		return nil, diagnostics.New(diagnostics.InvalidType, pos, "type %s has no IR representation", t)
	}
}

// toIRReturnType allows Void to pass through as a nil IR type (meaning
// "no result value"), since Void is otherwise illegal anywhere in the
// IR-layer type system.
func toIRReturnType(t *Type, pos lexer.Position) (irtypes.Type, error) {
	if t.Kind == Void {
		return nil, nil
	}
	return ToIRType(t, pos)
}
