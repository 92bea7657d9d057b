package types

import (
	"github.com/hassandahiru/ccompiler/internal/diagnostics"
	"github.com/hassandahiru/ccompiler/internal/lexer"
)

// KnrParam is one entry of a pre-ANSI, identifier-only parameter list.
type KnrParam struct {
	Name string
	Pos  lexer.Position
}

// KnrDecl is one entry of the trailing declaration list that supplies
// types for a K&R parameter list.
type KnrDecl struct {
	Name string
	Type *Type
	Pos  lexer.Position
}

// PromoteKnrParameters reconciles an identifier-only parameter list with
// its trailing declaration list: every name must appear exactly once: a
// name missing from decls defaults to Int(32); a name in decls but not
// in names, or appearing twice in either list, is MalformedDeclarator.
// A typed prototype (decls == nil) must not also carry a decl list.
func PromoteKnrParameters(names []KnrParam, decls []KnrDecl) ([]*Type, error) {
	declared := make(map[string]*Type, len(decls))
	seen := make(map[string]bool, len(decls))
	for _, d := range decls {
		if seen[d.Name] {
			return nil, diagnostics.New(diagnostics.MalformedDeclarator, d.Pos, "duplicate K&R declaration for parameter %q", d.Name)
		}
		seen[d.Name] = true
		declared[d.Name] = d.Type
	}

	nameSet := make(map[string]bool, len(names))
	result := make([]*Type, len(names))
	for i, n := range names {
		if nameSet[n.Name] {
			return nil, diagnostics.New(diagnostics.MalformedDeclarator, n.Pos, "duplicate parameter name %q", n.Name)
		}
		nameSet[n.Name] = true
		if t, ok := declared[n.Name]; ok {
			result[i] = t
			delete(declared, n.Name)
		} else {
			result[i] = IntType
		}
	}

	for name := range declared {
		return nil, diagnostics.New(diagnostics.MalformedDeclarator, decls[0].Pos, "K&R declaration for %q does not match any parameter name", name)
	}

	return result, nil
}
