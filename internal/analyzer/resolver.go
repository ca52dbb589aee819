package analyzer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/lumen-lang/lumen/internal/diag"
	"github.com/lumen-lang/lumen/internal/parser"
	"github.com/lumen-lang/lumen/internal/symbols"
	"github.com/lumen-lang/lumen/internal/token"
)

func joinNames(names []string) string {
	return strings.Join(names, ", ")
}

// isOperatorName distinguishes a section reference like (+) from an
// ordinary identifier.
func isOperatorName(name string) bool {
	if name == "" {
		return false
	}
	r, _ := utf8.DecodeRuneInString(name)
	return !unicode.IsLetter(r) && r != '_'
}

// resolveValue resolves a value or constructor reference. Lookup order:
// local frames innermost-out, the module's own top level, the import
// view, the prelude. Failures are classified and reported here; the
// returned placeholder keeps inference going.
//
// A qualified name whose qualifier matches no import is an
// ImportMissing at the reference. A qualifier whose import target is
// absent from the forest resolves silently; the pending ImportMissing
// on the import statement already covers it.
func (c *inferCtx) resolveValue(scope *symbols.Scope, qualifier, name string, tok token.Token) (symbols.Symbol, bool) {
	span := parser.TokenSpan(c.m.URI, tok)

	if qualifier != "" {
		ri, ok := c.view.Qualified(qualifier)
		if !ok {
			c.bag.Add(diag.New(diag.ImportMissing, span, qualifier))
			return symbols.Placeholder(name), false
		}
		c.view.MarkUsed(ri)
		if ri.Target == nil || ri.Target.Table == nil {
			return symbols.Placeholder(name), false
		}
		if sym, ok := ri.Target.Table.Value(name); ok && ri.Target.ExposesValue(name) {
			return sym, true
		}
		c.bag.Add(diag.New(diag.UnresolvedReference, span, name))
		return symbols.Placeholder(name), false
	}

	if scope != nil {
		if sym, ok := scope.Lookup(name); ok {
			return sym, true
		}
	}
	if sym, ok := c.m.Table.Value(name); ok {
		return sym, true
	}
	switch look := c.view.Value(name); {
	case look.Found:
		return look.Sym, true
	case look.Ambiguous:
		c.bag.Add(diag.New(diag.AmbiguousReference, span, name, joinNames(look.Candidates)))
		return symbols.Placeholder(name), false
	}
	if sym, ok := builtinValues[name]; ok {
		return sym, true
	}
	if c.view.ExposesBare(name) {
		return symbols.Placeholder(name), false
	}
	c.bag.Add(diag.New(diag.UnresolvedReference, span, name))
	return symbols.Placeholder(name), false
}

// resolveOperator resolves an infix operator: own declarations, then
// imported ones, then the defaults.
func (c *inferCtx) resolveOperator(name string, tok token.Token) (symbols.Symbol, bool) {
	if sym, ok := c.m.Table.Operator(name); ok {
		return sym, true
	}
	span := parser.TokenSpan(c.m.URI, tok)
	switch look := c.view.Operator(name); {
	case look.Found:
		return look.Sym, true
	case look.Ambiguous:
		c.bag.Add(diag.New(diag.AmbiguousReference, span, name, joinNames(look.Candidates)))
		return symbols.Placeholder(name), false
	}
	if sym, ok := builtinOperators[name]; ok {
		return sym, true
	}
	c.bag.Add(diag.New(diag.UnresolvedReference, span, name))
	return symbols.Placeholder(name), false
}
