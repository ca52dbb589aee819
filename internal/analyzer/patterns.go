package analyzer

import (
	"fmt"

	"github.com/lumen-lang/lumen/internal/ast"
	"github.com/lumen-lang/lumen/internal/diag"
	"github.com/lumen-lang/lumen/internal/parser"
	"github.com/lumen-lang/lumen/internal/symbols"
	"github.com/lumen-lang/lumen/internal/token"
	"github.com/lumen-lang/lumen/internal/typesystem"
)

func (c *inferCtx) redefinition(tok token.Token, name string) {
	c.bag.Add(diag.New(diag.Redefinition, parser.TokenSpan(c.m.URI, tok), name))
}

// bindName inserts a pattern binding into the frame. A duplicate within
// the same frame is a Redefinition at the new binding's token; a name
// shadowing an outer frame binds cleanly.
func (c *inferCtx) bindName(name string, t typesystem.Type, tok token.Token, frame *symbols.Scope) {
	sym := symbols.Symbol{
		Name:   name,
		Kind:   symbols.ValueSymbol,
		Module: c.m.Name,
		Scheme: typesystem.MonoScheme(t),
	}
	if !frame.Bind(sym) {
		c.redefinition(tok, name)
	}
}

// bindPattern checks a pattern against the matched type and binds its
// variables into the frame.
func (c *inferCtx) bindPattern(pat ast.Pattern, t typesystem.Type, frame *symbols.Scope) {
	switch p := pat.(type) {
	case nil:

	case *ast.PVar:
		c.bindName(p.Name, t, p.Token, frame)

	case *ast.PWildcard:

	case *ast.PUnit:
		c.unify(typesystem.TUnit{}, t, p.Token)

	case *ast.PLiteral:
		litT := c.inferExpr(p.Value, nil)
		c.unify(t, litT, p.Token)

	case *ast.PAlias:
		c.bindPattern(p.Pattern, t, frame)
		c.bindName(p.Name, t, p.Token, frame)

	case *ast.PTuple:
		elems := make([]typesystem.Type, len(p.Elems))
		for i := range p.Elems {
			elems[i] = c.namer.Fresh()
		}
		c.unify(typesystem.TTuple{Elems: elems}, t, p.Token)
		for i, sub := range p.Elems {
			c.bindPattern(sub, elems[i].Apply(c.subst), frame)
		}

	case *ast.PList:
		elem := c.namer.Fresh()
		c.unify(listOf(elem), t, p.Token)
		for _, sub := range p.Elems {
			c.bindPattern(sub, elem.Apply(c.subst), frame)
		}

	case *ast.PCons:
		elem := c.namer.Fresh()
		c.unify(listOf(elem), t, p.Token)
		c.bindPattern(p.Head, elem.Apply(c.subst), frame)
		c.bindPattern(p.Tail, listOf(elem).Apply(c.subst), frame)

	case *ast.PRecord:
		fields := make(map[string]typesystem.Type, len(p.Fields))
		for _, f := range p.Fields {
			fields[f.Name] = c.namer.Fresh()
		}
		row := c.namer.Fresh()
		c.unify(typesystem.TRecord{Fields: fields, Row: row}, t, p.Token)
		for _, f := range p.Fields {
			c.bindName(f.Name, fields[f.Name].Apply(c.subst), f.Token, frame)
		}

	case *ast.PCtor:
		c.bindCtorPattern(p, t, frame)
	}
}

// bindCtorPattern resolves the constructor, instantiates its scheme and
// matches argument patterns against the constructor's parameters.
func (c *inferCtx) bindCtorPattern(p *ast.PCtor, t typesystem.Type, frame *symbols.Scope) {
	sym, ok := c.resolveValue(nil, p.Qualifier, p.Name, p.Token)
	if !ok {
		// Still bind the sub-patterns so their names exist.
		for _, sub := range p.Args {
			c.bindPattern(sub, typesystem.TError{}, frame)
		}
		return
	}

	ctorT := c.instantiate(sym)
	params, result := typesystem.UncurryParams(ctorT)
	if typesystem.IsError(ctorT) {
		params, result = nil, typesystem.Type(typesystem.TError{})
	}

	if len(p.Args) != len(params) && !typesystem.IsError(result) {
		c.bag.Add(diag.New(
			diag.TypeMismatch,
			parser.TokenSpan(c.m.URI, p.Token),
			ctorT.String(),
			fmt.Sprintf("a pattern with %d arguments", len(p.Args)),
		))
		for _, sub := range p.Args {
			c.bindPattern(sub, typesystem.TError{}, frame)
		}
		return
	}

	c.unify(t, result, p.Token)
	for i, sub := range p.Args {
		argT := typesystem.Type(typesystem.TError{})
		if i < len(params) {
			argT = params[i].Apply(c.subst)
		}
		c.bindPattern(sub, argT, frame)
	}
}
