package analyzer

import (
	"errors"
	"fmt"

	"github.com/lumen-lang/lumen/internal/ast"
	"github.com/lumen-lang/lumen/internal/diag"
	"github.com/lumen-lang/lumen/internal/forest"
	"github.com/lumen-lang/lumen/internal/parser"
	"github.com/lumen-lang/lumen/internal/symbols"
	"github.com/lumen-lang/lumen/internal/token"
	"github.com/lumen-lang/lumen/internal/typesystem"
)

// inferCtx is the state of one module's inference run: a fresh namer,
// a growing substitution and the diagnostic bag. Discarded afterwards;
// only the generalized schemes written to the module table and the
// diagnostics survive.
type inferCtx struct {
	a     *Analyzer
	m     *forest.Module
	view  *forest.QualifiedView
	namer *typesystem.FreshNamer
	subst typesystem.Subst
	bag   *diag.Bag
}

// infer runs type inference over the module, dependencies first, and
// assembles the full semantic diagnostic list. Memoized per generation;
// a cycle partner mid-inference contributes its declaration results
// only.
func (a *Analyzer) infer(m *forest.Module, st *moduleState) []diag.Diagnostic {
	if st.phase >= phaseInferred {
		return st.semDiags
	}
	if st.phase == phaseInferring {
		return st.declDiags
	}
	st.phase = phaseInferring

	for i := range m.Imports {
		if target := m.Imports[i].Target; target != nil {
			a.infer(target, a.declare(target))
		}
	}

	ctx := &inferCtx{
		a:     a,
		m:     m,
		view:  st.view,
		namer: &typesystem.FreshNamer{},
		subst: typesystem.Subst{},
		bag:   diag.NewBag(0),
	}
	ctx.run()

	combined := diag.NewBag(0)
	combined.AddAll(st.declDiags)
	combined.AddAll(m.ImportDiags)
	combined.Merge(ctx.bag)
	st.semDiags = combined.Items()
	st.phase = phaseInferred
	return st.semDiags
}

// run infers every top-level value declaration in source order. All
// unsigned declarations are seeded with monotype variables up front so
// forward and mutual references typecheck monomorphically; each is
// generalized once its own body has been inferred.
func (c *inferCtx) run() {
	for _, decl := range c.m.Program.Decls {
		d, ok := decl.(*ast.ValueDecl)
		if !ok || d.Signature != nil {
			continue
		}
		sym, ok := c.m.Table.Value(d.Name)
		if !ok || sym.Kind != symbols.ValueSymbol || sym.Node != ast.Decl(d) {
			continue
		}
		sym.Scheme = typesystem.MonoScheme(c.namer.Fresh())
		c.m.Table.SetValue(sym)
	}

	for _, decl := range c.m.Program.Decls {
		if d, ok := decl.(*ast.ValueDecl); ok {
			c.inferDecl(d)
		}
	}
}

func (c *inferCtx) inferDecl(d *ast.ValueDecl) {
	sym, ok := c.m.Table.Value(d.Name)
	if !ok || sym.Node != ast.Decl(d) {
		// A redefined name keeps its first declaration's analysis.
		return
	}

	scope := symbols.NewScope(nil)

	if d.Signature != nil {
		sigType := sym.Scheme.T
		if sigType == nil {
			sigType = typesystem.TError{}
		}
		remaining := sigType
		for _, p := range d.Params {
			fn, ok := typesystem.UnwrapUnderlying(typesystem.ExpandAlias(remaining)).(typesystem.TFunc)
			if !ok {
				c.bag.Add(diag.New(
					diag.TypeMismatch,
					parser.TokenSpan(c.m.URI, p.GetToken()),
					sigType.String(),
					fmt.Sprintf("a function with at least %d parameters", len(d.Params)),
				))
				remaining = typesystem.TError{}
				break
			}
			c.bindPattern(p, fn.Param, scope)
			remaining = fn.Result
		}
		bodyT := c.inferExpr(d.Body, scope)
		c.unify(remaining, bodyT, d.Body.GetToken())
		return
	}

	declVar := sym.Scheme.T
	paramTypes := make([]typesystem.Type, len(d.Params))
	for i, p := range d.Params {
		pv := c.namer.Fresh()
		paramTypes[i] = pv
		c.bindPattern(p, pv, scope)
	}
	bodyT := c.inferExpr(d.Body, scope)
	fnT := typesystem.MakeFunc(bodyT, paramTypes...)
	c.unify(declVar, fnT, d.Token)

	final := declVar.Apply(c.subst)
	sym.Scheme = typesystem.Generalize(final, c.topLevelFree(d.Name))
	c.m.Table.SetValue(sym)
}

// topLevelFree collects the variables still free in the other top-level
// value schemes. The monotype seeds of declarations not yet inferred
// live there, so a mutual-recursion partner is never generalized over a
// variable the rest of its group still constrains.
func (c *inferCtx) topLevelFree(skip string) map[string]bool {
	out := make(map[string]bool)
	for _, name := range c.m.Table.ValueNames() {
		if name == skip {
			continue
		}
		sym, _ := c.m.Table.Value(name)
		if sym.Scheme.T == nil {
			continue
		}
		for _, v := range sym.Scheme.Apply(c.subst).FreeTypeVariables() {
			out[v.Name] = true
		}
	}
	return out
}

// unify merges the expected and actual types into the run's
// substitution, converting failures into diagnostics at tok. Reports
// whether unification succeeded.
func (c *inferCtx) unify(expected, actual typesystem.Type, tok token.Token) bool {
	e := expected.Apply(c.subst)
	a := actual.Apply(c.subst)
	s, err := typesystem.Unify(e, a)
	if err != nil {
		span := parser.TokenSpan(c.m.URI, tok)
		var ue *typesystem.UnifyError
		if errors.As(err, &ue) && ue.Infinite {
			c.bag.Add(diag.New(diag.InfiniteType, span, ue.Var, ue.Actual.String()))
		} else if errors.As(err, &ue) {
			c.bag.Add(diag.New(diag.TypeMismatch, span, ue.Expected.String(), ue.Actual.String()))
		} else {
			c.bag.Add(diag.New(diag.TypeMismatch, span, e.String(), a.String()))
		}
		return false
	}
	c.subst = c.subst.Compose(s)
	return true
}

// applyArg types one step of function application, returning the
// (narrowed) result type. The mismatch, if any, lands on the argument.
func (c *inferCtx) applyArg(fnT, argT typesystem.Type, argTok token.Token) typesystem.Type {
	applied := typesystem.UnwrapUnderlying(typesystem.ExpandAlias(fnT.Apply(c.subst)))
	if typesystem.IsError(applied) {
		return typesystem.TError{}
	}
	if fn, ok := applied.(typesystem.TFunc); ok {
		if !c.unify(fn.Param, argT, argTok) {
			return typesystem.TError{}
		}
		return fn.Result.Apply(c.subst)
	}
	res := c.namer.Fresh()
	if !c.unify(applied, typesystem.TFunc{Param: argT, Result: res}, argTok) {
		return typesystem.TError{}
	}
	return res.Apply(c.subst)
}

// instantiate freshens a symbol's scheme for one use site.
func (c *inferCtx) instantiate(sym symbols.Symbol) typesystem.Type {
	if sym.Scheme.T == nil {
		return typesystem.TError{}
	}
	return sym.Scheme.Apply(c.subst).Instantiate(c.namer)
}

// operatorType resolves the type an operator contributes to its infix
// use: its implementing function's scheme for user declarations, the
// built-in scheme otherwise.
func (c *inferCtx) operatorType(sym symbols.Symbol, tok token.Token) typesystem.Type {
	if sym.FuncName == "" {
		return c.instantiate(sym)
	}
	if sym.Module == c.m.Name {
		impl, ok := c.resolveValue(nil, "", sym.FuncName, tok)
		if !ok {
			return typesystem.TError{}
		}
		return c.instantiate(impl)
	}
	owner, ok := c.a.forest.ByName(sym.Module)
	if !ok || owner.Table == nil {
		return typesystem.TError{}
	}
	impl, ok := owner.Table.Value(sym.FuncName)
	if !ok {
		return typesystem.TError{}
	}
	return c.instantiate(impl)
}

// envFree collects the type variables free in the scope chain's
// schemes, the set generalization must not quantify over. The binding
// named skip is left out: its own provisional monotype must not pin its
// generalization.
func (c *inferCtx) envFree(scope *symbols.Scope, skip string) map[string]bool {
	out := make(map[string]bool)
	if scope == nil {
		return out
	}
	scope.Walk(func(sym symbols.Symbol) {
		if sym.Scheme.T == nil || sym.Name == skip {
			return
		}
		for _, v := range sym.Scheme.Apply(c.subst).FreeTypeVariables() {
			out[v.Name] = true
		}
	})
	return out
}

// checkAmbiguous reports a constrained type variable that survived a
// generalization boundary without being quantified or resolved.
// Variables free in the environment belong to the enclosing boundary
// and are not reported here.
func (c *inferCtx) checkAmbiguous(name string, t typesystem.Type, scheme typesystem.Scheme, envFree map[string]bool, tok token.Token) {
	quantified := make(map[string]bool, len(scheme.Vars))
	for _, v := range scheme.Vars {
		quantified[v] = true
	}
	for _, v := range typesystem.UnresolvedClassVars(t) {
		if !quantified[v.Name] && !envFree[v.Name] {
			c.bag.Add(diag.New(diag.AmbiguousType, parser.TokenSpan(c.m.URI, tok), name))
			return
		}
	}
}
