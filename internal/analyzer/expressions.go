package analyzer

import (
	"github.com/lumen-lang/lumen/internal/ast"
	"github.com/lumen-lang/lumen/internal/symbols"
	"github.com/lumen-lang/lumen/internal/typesystem"
)

// inferExpr assigns a type to an expression, generating and solving
// constraints against the run's substitution as it goes. Every failure
// has already been reported by the time TError comes back.
func (c *inferCtx) inferExpr(expr ast.Expr, scope *symbols.Scope) typesystem.Type {
	switch e := expr.(type) {
	case nil, *ast.BadExpr:
		return typesystem.TError{}

	case *ast.IntLit:
		// Integer literals are number-polymorphic until context picks
		// Int or Float.
		return c.namer.FreshWithClass(typesystem.ClassNumber)

	case *ast.FloatLit:
		return tFloat

	case *ast.StringLit:
		return tString

	case *ast.CharLit:
		return tChar

	case *ast.UnitLit:
		return typesystem.TUnit{}

	case *ast.Ident:
		// A parenthesized section like (+) parses to a plain reference
		// carrying the operator's name.
		if e.Qualifier == "" && isOperatorName(e.Name) {
			opSym, _ := c.resolveOperator(e.Name, e.Token)
			return c.operatorType(opSym, e.Token)
		}
		sym, _ := c.resolveValue(scope, e.Qualifier, e.Name, e.Token)
		return c.instantiate(sym)

	case *ast.CtorRef:
		sym, _ := c.resolveValue(scope, e.Qualifier, e.Name, e.Token)
		return c.instantiate(sym)

	case *ast.ListLit:
		elem := c.namer.Fresh()
		for _, el := range e.Elems {
			t := c.inferExpr(el, scope)
			c.unify(elem, t, el.GetToken())
		}
		return listOf(elem.Apply(c.subst))

	case *ast.TupleLit:
		elems := make([]typesystem.Type, len(e.Elems))
		for i, el := range e.Elems {
			elems[i] = c.inferExpr(el, scope)
		}
		return typesystem.TTuple{Elems: elems}

	case *ast.RecordLit:
		return c.inferRecordLit(e, scope)

	case *ast.FieldAccess:
		targetT := c.inferExpr(e.Target, scope)
		fieldT := c.namer.Fresh()
		row := c.namer.Fresh()
		want := typesystem.TRecord{
			Fields: map[string]typesystem.Type{e.Field: fieldT},
			Row:    row,
		}
		c.unify(want, targetT, e.Token)
		return fieldT.Apply(c.subst)

	case *ast.AccessorFunc:
		fieldT := c.namer.Fresh()
		row := c.namer.Fresh()
		rec := typesystem.TRecord{
			Fields: map[string]typesystem.Type{e.Field: fieldT},
			Row:    row,
		}
		return typesystem.TFunc{Param: rec, Result: fieldT}

	case *ast.Lambda:
		frame := symbols.NewScope(scope)
		params := make([]typesystem.Type, len(e.Params))
		for i, p := range e.Params {
			pv := c.namer.Fresh()
			params[i] = pv
			c.bindPattern(p, pv, frame)
		}
		bodyT := c.inferExpr(e.Body, frame)
		return typesystem.MakeFunc(bodyT, params...)

	case *ast.Call:
		fnT := c.inferExpr(e.Fn, scope)
		for _, arg := range e.Args {
			argT := c.inferExpr(arg, scope)
			fnT = c.applyArg(fnT, argT, arg.GetToken())
		}
		return fnT

	case *ast.BinOp:
		opSym, _ := c.resolveOperator(e.Op, e.Token)
		opT := c.operatorType(opSym, e.Token)
		leftT := c.inferExpr(e.Left, scope)
		opT = c.applyArg(opT, leftT, e.Left.GetToken())
		rightT := c.inferExpr(e.Right, scope)
		return c.applyArg(opT, rightT, e.Right.GetToken())

	case *ast.Negate:
		t := c.inferExpr(e.Expr, scope)
		n := c.namer.FreshWithClass(typesystem.ClassNumber)
		c.unify(n, t, e.Expr.GetToken())
		return n.Apply(c.subst)

	case *ast.If:
		condT := c.inferExpr(e.Cond, scope)
		c.unify(tBool, condT, e.Cond.GetToken())
		thenT := c.inferExpr(e.Then, scope)
		elseT := c.inferExpr(e.Else, scope)
		c.unify(thenT, elseT, e.Else.GetToken())
		return thenT.Apply(c.subst)

	case *ast.Let:
		return c.inferLet(e, scope)

	case *ast.Case:
		return c.inferCase(e, scope)
	}
	return typesystem.TError{}
}

func (c *inferCtx) inferRecordLit(e *ast.RecordLit, scope *symbols.Scope) typesystem.Type {
	fields := make(map[string]typesystem.Type, len(e.Fields))
	for _, f := range e.Fields {
		fields[f.Name] = c.inferExpr(f.Value, scope)
	}

	if e.Base == nil {
		return typesystem.TRecord{Fields: fields}
	}

	// Update form: the base must be a record carrying at least the
	// updated fields at the same types.
	sym, _ := c.resolveValue(scope, e.Base.Qualifier, e.Base.Name, e.Base.Token)
	baseT := c.instantiate(sym)
	row := c.namer.Fresh()
	c.unify(typesystem.TRecord{Fields: fields, Row: row}, baseT, e.Base.Token)
	return baseT.Apply(c.subst)
}

// inferLet types the bindings in order into one shared frame, then the
// body. Each binding is generalized against the environment outside it,
// so let-polymorphism works while sibling bindings stay monomorphic
// during their own inference.
func (c *inferCtx) inferLet(e *ast.Let, scope *symbols.Scope) typesystem.Type {
	frame := symbols.NewScope(scope)

	for _, b := range e.Bindings {
		if b.Pattern != nil {
			t := c.inferExpr(b.Body, frame)
			c.bindPattern(b.Pattern, t, frame)
			continue
		}

		var bindT typesystem.Type
		if b.Signature != nil {
			builder := c.a.newTypeBuilder(c.m, c.view, c.bag, true)
			bindT = builder.build(b.Signature.Type)
		} else {
			bindT = c.namer.Fresh()
		}

		sym := symbols.Symbol{
			Name:   b.Name,
			Kind:   symbols.ValueSymbol,
			Module: c.m.Name,
			Scheme: typesystem.MonoScheme(bindT),
			Node:   b,
		}
		if !frame.Bind(sym) {
			c.redefinition(b.Token, b.Name)
			continue
		}

		inner := symbols.NewScope(frame)
		params := make([]typesystem.Type, len(b.Params))
		for i, p := range b.Params {
			pv := c.namer.Fresh()
			params[i] = pv
			c.bindPattern(p, pv, inner)
		}
		bodyT := c.inferExpr(b.Body, inner)
		fnT := typesystem.MakeFunc(bodyT, params...)
		c.unify(bindT, fnT, b.Token)

		// The environment's free variables are taken after the body's
		// inference so substitutions made while typing it still pin the
		// variables they renamed.
		final := bindT.Apply(c.subst)
		outerFree := c.envFree(frame, b.Name)
		scheme := typesystem.Generalize(final, outerFree)
		c.checkAmbiguous(b.Name, final, scheme, outerFree, b.Token)
		sym.Scheme = scheme
		frame.Rebind(sym)
	}

	return c.inferExpr(e.Body, frame)
}

func (c *inferCtx) inferCase(e *ast.Case, scope *symbols.Scope) typesystem.Type {
	subjT := c.inferExpr(e.Subject, scope)
	result := c.namer.Fresh()

	for _, br := range e.Branches {
		frame := symbols.NewScope(scope)
		c.bindPattern(br.Pattern, subjT.Apply(c.subst), frame)
		bodyT := c.inferExpr(br.Body, frame)
		c.unify(result, bodyT, br.Body.GetToken())
	}
	return result.Apply(c.subst)
}
