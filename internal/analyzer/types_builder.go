package analyzer

import (
	"github.com/lumen-lang/lumen/internal/ast"
	"github.com/lumen-lang/lumen/internal/diag"
	"github.com/lumen-lang/lumen/internal/forest"
	"github.com/lumen-lang/lumen/internal/parser"
	"github.com/lumen-lang/lumen/internal/symbols"
	"github.com/lumen-lang/lumen/internal/typesystem"
)

// typeBuilder converts annotation trees into semantic types, resolving
// type names through the module table, the import view and the prelude.
// Signature builders mark their variables rigid; the special names
// number / comparable / appendable (with optional digit suffixes) carry
// their constraint class.
type typeBuilder struct {
	a     *Analyzer
	m     *forest.Module
	view  *forest.QualifiedView
	bag   *diag.Bag
	rigid bool
	vars  map[string]typesystem.TVar
}

func (a *Analyzer) newTypeBuilder(m *forest.Module, view *forest.QualifiedView, bag *diag.Bag, rigid bool) *typeBuilder {
	return &typeBuilder{
		a:     a,
		m:     m,
		view:  view,
		bag:   bag,
		rigid: rigid,
		vars:  make(map[string]typesystem.TVar),
	}
}

// declareVar pre-binds a type parameter so alias and constructor bodies
// share one variable per declared name.
func (b *typeBuilder) declareVar(name string) typesystem.TVar {
	if v, ok := b.vars[name]; ok {
		return v
	}
	v := typesystem.TVar{Name: name, Rigid: b.rigid, Class: typesystem.ClassFromName(name)}
	b.vars[name] = v
	return v
}

func (b *typeBuilder) build(te ast.TypeExpr) typesystem.Type {
	switch t := te.(type) {
	case nil:
		return typesystem.TError{}

	case *ast.TypeVarRef:
		return b.declareVar(t.Name)

	case *ast.TypeRef:
		return b.buildRef(t)

	case *ast.FuncType:
		return typesystem.TFunc{Param: b.build(t.Param), Result: b.build(t.Result)}

	case *ast.TupleType:
		elems := make([]typesystem.Type, len(t.Elems))
		for i, e := range t.Elems {
			elems[i] = b.build(e)
		}
		return typesystem.TTuple{Elems: elems}

	case *ast.RecordType:
		fields := make(map[string]typesystem.Type, len(t.Fields))
		for _, f := range t.Fields {
			fields[f.Name] = b.build(f.Type)
		}
		var row typesystem.Type
		if t.Base != "" {
			row = b.declareVar(t.Base)
		}
		return typesystem.TRecord{Fields: fields, Row: row}

	case *ast.UnitType:
		return typesystem.TUnit{}
	}
	return typesystem.TError{}
}

func (b *typeBuilder) buildRef(t *ast.TypeRef) typesystem.Type {
	sym, ok := b.resolveTypeName(t)
	if !ok {
		return typesystem.TError{}
	}
	base := sym.Scheme.T
	if base == nil {
		// An alias whose body is not built yet (cyclic alias group);
		// fall back to an opaque constant so unification can proceed
		// by name.
		base = typesystem.TCon{Name: sym.Name, Module: sym.Module, TypeParams: sym.TypeParams}
	}
	if len(t.Args) == 0 {
		return base
	}
	args := make([]typesystem.Type, len(t.Args))
	for i, argExpr := range t.Args {
		args[i] = b.build(argExpr)
	}
	return typesystem.TApp{Ctor: base, Args: args}
}

func (b *typeBuilder) resolveTypeName(t *ast.TypeRef) (symbols.Symbol, bool) {
	span := parser.TokenSpan(b.m.URI, t.Token)

	if t.Qualifier != "" {
		ri, ok := b.view.Qualified(t.Qualifier)
		if !ok {
			b.bag.Add(diag.New(diag.ImportMissing, span, t.Qualifier))
			return symbols.Symbol{}, false
		}
		if ri.Target == nil || ri.Target.Table == nil {
			// Pending ImportMissing on the import statement covers this.
			return symbols.Symbol{}, false
		}
		b.view.MarkUsed(ri)
		if sym, ok := ri.Target.Table.Type(t.Name); ok && ri.Target.ExposesType(t.Name) {
			return sym, true
		}
		b.bag.Add(diag.New(diag.UnresolvedReference, span, t.Name))
		return symbols.Symbol{}, false
	}

	if sym, ok := b.m.Table.Type(t.Name); ok {
		return sym, true
	}
	switch look := b.view.Type(t.Name); {
	case look.Found:
		return look.Sym, true
	case look.Ambiguous:
		b.bag.Add(diag.New(diag.AmbiguousReference, span, t.Name, joinNames(look.Candidates)))
		return symbols.Symbol{}, false
	}
	if sym, ok := builtinTypes[t.Name]; ok {
		return sym, true
	}
	if b.view.ExposesBare(t.Name) {
		return symbols.Symbol{}, false
	}
	b.bag.Add(diag.New(diag.UnresolvedReference, span, t.Name))
	return symbols.Symbol{}, false
}
