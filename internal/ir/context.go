package ir

import "strconv"

// FunctionContext is the arena that owns every Value and Label
// allocated while generating and transforming one Function. Nothing
// outside IR generation and the passes retains a FunctionContext past
// the function's construction (spec §9's "lifetimes collapse to the
// FunctionContext", kept even though the Use↔Value graph itself no
// longer needs an index-based arena — see DESIGN.md).
type FunctionContext struct {
	nextLabel int
	nextVar   int
}

// NewLabel allocates a label with a fresh, function-scoped sequential
// name, matching the original's allocate_label().
func (ctx *FunctionContext) NewLabel() *Label {
	name := strconv.Itoa(ctx.nextLabel)
	ctx.nextLabel++
	return NewLabel(name)
}

// NewVariableName returns a fresh internal name for an Alloca-produced
// Variable when the declarator provides none (synthetic temporaries
// introduced by the generator, not user locals).
func (ctx *FunctionContext) NewVariableName() string {
	name := "v" + strconv.Itoa(ctx.nextVar)
	ctx.nextVar++
	return name
}
