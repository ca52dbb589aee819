package analyzer

import (
	"github.com/lumen-lang/lumen/internal/ast"
	"github.com/lumen-lang/lumen/internal/diag"
	"github.com/lumen-lang/lumen/internal/forest"
	"github.com/lumen-lang/lumen/internal/parser"
	"github.com/lumen-lang/lumen/internal/source"
	"github.com/lumen-lang/lumen/internal/symbols"
	"github.com/lumen-lang/lumen/internal/token"
	"github.com/lumen-lang/lumen/internal/typesystem"
)

// ResolveAt resolves the reference under the given position to its
// symbol: a local binding, a top-level declaration, an imported name or
// a prelude entry. The second result is false when no reference sits at
// the position or the name does not resolve.
func (a *Analyzer) ResolveAt(m *forest.Module, pos source.Pos) (symbols.Symbol, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	st := a.declare(m)
	a.infer(m, st)

	// A scratch context: resolution failures here must not add to the
	// module's recorded diagnostics.
	ctx := &inferCtx{
		a:     a,
		m:     m,
		view:  st.view,
		namer: &typesystem.FreshNamer{},
		subst: typesystem.Subst{},
		bag:   diag.NewBag(0),
	}
	f := &refFinder{c: ctx, pos: pos}
	return f.find(m.Program)
}

// refFinder walks the tree to the reference at a position, rebuilding
// the local scope chain (names only) along the way.
type refFinder struct {
	c   *inferCtx
	pos source.Pos
}

func (f *refFinder) at(tok token.Token) bool {
	return parser.TokenSpan(f.c.m.URI, tok).Contains(f.pos)
}

func (f *refFinder) find(program *ast.Module) (symbols.Symbol, bool) {
	for _, decl := range program.Decls {
		switch d := decl.(type) {
		case *ast.ValueDecl:
			if d.Signature != nil {
				if sym, ok := f.findInType(d.Signature.Type); ok {
					return sym, true
				}
			}
			scope := symbols.NewScope(nil)
			for _, p := range d.Params {
				if sym, ok := f.findInPattern(p, scope); ok {
					return sym, true
				}
			}
			if sym, ok := f.findInExpr(d.Body, scope); ok {
				return sym, true
			}

		case *ast.TypeAliasDecl:
			if sym, ok := f.findInType(d.Body); ok {
				return sym, true
			}

		case *ast.CustomTypeDecl:
			for _, ctor := range d.Ctors {
				for _, arg := range ctor.Args {
					if sym, ok := f.findInType(arg); ok {
						return sym, true
					}
				}
			}
		}
	}
	return symbols.Symbol{}, false
}

// bindNames registers a pattern's variables in the frame without types;
// only identity matters for position queries.
func (f *refFinder) bindNames(pat ast.Pattern, frame *symbols.Scope) {
	switch p := pat.(type) {
	case *ast.PVar:
		frame.Rebind(symbols.Placeholder(p.Name))
	case *ast.PAlias:
		f.bindNames(p.Pattern, frame)
		frame.Rebind(symbols.Placeholder(p.Name))
	case *ast.PCtor:
		for _, sub := range p.Args {
			f.bindNames(sub, frame)
		}
	case *ast.PTuple:
		for _, sub := range p.Elems {
			f.bindNames(sub, frame)
		}
	case *ast.PList:
		for _, sub := range p.Elems {
			f.bindNames(sub, frame)
		}
	case *ast.PCons:
		f.bindNames(p.Head, frame)
		f.bindNames(p.Tail, frame)
	case *ast.PRecord:
		for _, field := range p.Fields {
			frame.Rebind(symbols.Placeholder(field.Name))
		}
	}
}

// findInPattern resolves a reference inside a pattern (a constructor
// name) and, regardless, binds the pattern's names into the frame.
func (f *refFinder) findInPattern(pat ast.Pattern, frame *symbols.Scope) (symbols.Symbol, bool) {
	if p, ok := pat.(*ast.PCtor); ok && f.at(p.Token) {
		return f.c.resolveValue(nil, p.Qualifier, p.Name, p.Token)
	}
	switch p := pat.(type) {
	case *ast.PCtor:
		for _, sub := range p.Args {
			if sym, ok := f.findInPattern(sub, frame); ok {
				return sym, true
			}
		}
	case *ast.PTuple:
		for _, sub := range p.Elems {
			if sym, ok := f.findInPattern(sub, frame); ok {
				return sym, true
			}
		}
	case *ast.PList:
		for _, sub := range p.Elems {
			if sym, ok := f.findInPattern(sub, frame); ok {
				return sym, true
			}
		}
	case *ast.PCons:
		if sym, ok := f.findInPattern(p.Head, frame); ok {
			return sym, true
		}
		if sym, ok := f.findInPattern(p.Tail, frame); ok {
			return sym, true
		}
	case *ast.PAlias:
		if sym, ok := f.findInPattern(p.Pattern, frame); ok {
			return sym, true
		}
	}
	f.bindNames(pat, frame)
	return symbols.Symbol{}, false
}

func (f *refFinder) findInType(te ast.TypeExpr) (symbols.Symbol, bool) {
	switch t := te.(type) {
	case *ast.TypeRef:
		if f.at(t.Token) {
			b := f.c.a.newTypeBuilder(f.c.m, f.c.view, f.c.bag, false)
			return b.resolveTypeName(t)
		}
		for _, arg := range t.Args {
			if sym, ok := f.findInType(arg); ok {
				return sym, true
			}
		}
	case *ast.FuncType:
		if sym, ok := f.findInType(t.Param); ok {
			return sym, true
		}
		return f.findInType(t.Result)
	case *ast.TupleType:
		for _, e := range t.Elems {
			if sym, ok := f.findInType(e); ok {
				return sym, true
			}
		}
	case *ast.RecordType:
		for _, field := range t.Fields {
			if sym, ok := f.findInType(field.Type); ok {
				return sym, true
			}
		}
	}
	return symbols.Symbol{}, false
}

func (f *refFinder) findInExpr(expr ast.Expr, scope *symbols.Scope) (symbols.Symbol, bool) {
	switch e := expr.(type) {
	case *ast.Ident:
		if f.at(e.Token) {
			if e.Qualifier == "" && isOperatorName(e.Name) {
				return f.c.resolveOperator(e.Name, e.Token)
			}
			return f.c.resolveValue(scope, e.Qualifier, e.Name, e.Token)
		}

	case *ast.CtorRef:
		if f.at(e.Token) {
			return f.c.resolveValue(scope, e.Qualifier, e.Name, e.Token)
		}

	case *ast.ListLit:
		for _, el := range e.Elems {
			if sym, ok := f.findInExpr(el, scope); ok {
				return sym, true
			}
		}

	case *ast.TupleLit:
		for _, el := range e.Elems {
			if sym, ok := f.findInExpr(el, scope); ok {
				return sym, true
			}
		}

	case *ast.RecordLit:
		if e.Base != nil && f.at(e.Base.Token) {
			return f.c.resolveValue(scope, e.Base.Qualifier, e.Base.Name, e.Base.Token)
		}
		for _, field := range e.Fields {
			if sym, ok := f.findInExpr(field.Value, scope); ok {
				return sym, true
			}
		}

	case *ast.FieldAccess:
		return f.findInExpr(e.Target, scope)

	case *ast.Lambda:
		frame := symbols.NewScope(scope)
		for _, p := range e.Params {
			if sym, ok := f.findInPattern(p, frame); ok {
				return sym, true
			}
		}
		return f.findInExpr(e.Body, frame)

	case *ast.Call:
		if sym, ok := f.findInExpr(e.Fn, scope); ok {
			return sym, true
		}
		for _, arg := range e.Args {
			if sym, ok := f.findInExpr(arg, scope); ok {
				return sym, true
			}
		}

	case *ast.BinOp:
		if f.at(e.Token) {
			return f.c.resolveOperator(e.Op, e.Token)
		}
		if sym, ok := f.findInExpr(e.Left, scope); ok {
			return sym, true
		}
		return f.findInExpr(e.Right, scope)

	case *ast.Negate:
		return f.findInExpr(e.Expr, scope)

	case *ast.If:
		if sym, ok := f.findInExpr(e.Cond, scope); ok {
			return sym, true
		}
		if sym, ok := f.findInExpr(e.Then, scope); ok {
			return sym, true
		}
		return f.findInExpr(e.Else, scope)

	case *ast.Let:
		frame := symbols.NewScope(scope)
		for _, b := range e.Bindings {
			if b.Signature != nil {
				if sym, ok := f.findInType(b.Signature.Type); ok {
					return sym, true
				}
			}
			if b.Name != "" {
				frame.Rebind(symbols.Placeholder(b.Name))
			}
			inner := symbols.NewScope(frame)
			for _, p := range b.Params {
				if sym, ok := f.findInPattern(p, inner); ok {
					return sym, true
				}
			}
			if sym, ok := f.findInExpr(b.Body, inner); ok {
				return sym, true
			}
			if b.Pattern != nil {
				f.bindNames(b.Pattern, frame)
			}
		}
		return f.findInExpr(e.Body, frame)

	case *ast.Case:
		if sym, ok := f.findInExpr(e.Subject, scope); ok {
			return sym, true
		}
		for _, br := range e.Branches {
			frame := symbols.NewScope(scope)
			if sym, ok := f.findInPattern(br.Pattern, frame); ok {
				return sym, true
			}
			if sym, ok := f.findInExpr(br.Body, frame); ok {
				return sym, true
			}
		}
	}
	return symbols.Symbol{}, false
}
