package analyzer

import (
	"github.com/lumen-lang/lumen/internal/ast"
	"github.com/lumen-lang/lumen/internal/diag"
	"github.com/lumen-lang/lumen/internal/forest"
	"github.com/lumen-lang/lumen/internal/parser"
	"github.com/lumen-lang/lumen/internal/symbols"
	"github.com/lumen-lang/lumen/internal/token"
	"github.com/lumen-lang/lumen/internal/typesystem"
)

// declareNames registers every top-level name of the module in its
// table, reporting same-scope duplicates at the new declaration's own
// token. Schemes are filled in by completeDecls.
func (a *Analyzer) declareNames(m *forest.Module, bag *diag.Bag) {
	m.Table = symbols.NewModuleTable(m.Name)

	redef := func(tok token.Token, name string) {
		bag.Add(diag.New(diag.Redefinition, parser.TokenSpan(m.URI, tok), name))
	}

	for _, decl := range m.Program.Decls {
		switch d := decl.(type) {
		case *ast.CustomTypeDecl:
			ctorNames := make([]string, len(d.Ctors))
			for i, c := range d.Ctors {
				ctorNames[i] = c.Name
			}
			sym := symbols.Symbol{
				Name:   d.Name,
				Kind:   symbols.TypeSymbol,
				Module: m.Name,
				Scheme: typesystem.MonoScheme(typesystem.TCon{
					Name:       d.Name,
					Module:     m.Name,
					TypeParams: d.TypeParams,
				}),
				Node:       d,
				Ctors:      ctorNames,
				TypeParams: d.TypeParams,
			}
			if _, ok := m.Table.DefineType(sym); !ok {
				redef(d.NameTok, d.Name)
			}
			for _, c := range d.Ctors {
				csym := symbols.Symbol{
					Name:   c.Name,
					Kind:   symbols.ConstructorSymbol,
					Module: m.Name,
					Node:   c,
				}
				if _, ok := m.Table.DefineValue(csym); !ok {
					redef(c.Token, c.Name)
				}
			}

		case *ast.TypeAliasDecl:
			sym := symbols.Symbol{
				Name:       d.Name,
				Kind:       symbols.AliasSymbol,
				Module:     m.Name,
				Node:       d,
				TypeParams: d.TypeParams,
			}
			if _, ok := m.Table.DefineType(sym); !ok {
				redef(d.NameTok, d.Name)
			}

		case *ast.ValueDecl:
			sym := symbols.Symbol{
				Name:   d.Name,
				Kind:   symbols.ValueSymbol,
				Module: m.Name,
				Node:   d,
			}
			if _, ok := m.Table.DefineValue(sym); !ok {
				redef(d.Token, d.Name)
			}

		case *ast.InfixDecl:
			sym := symbols.Symbol{
				Name:     d.Operator,
				Kind:     symbols.OperatorSymbol,
				Module:   m.Name,
				Node:     d,
				Fixity:   &symbols.Fixity{Assoc: d.Assoc, Precedence: d.Precedence},
				FuncName: d.FuncName,
			}
			if _, ok := m.Table.DefineOperator(sym); !ok {
				redef(d.OpTok, d.Operator)
			}
		}
	}
}

// completeDecls builds the types the name pass left open: alias bodies,
// constructor schemes and explicit signatures. Runs after the module's
// imports are declared so cross-module type references resolve.
func (a *Analyzer) completeDecls(m *forest.Module, st *moduleState, bag *diag.Bag) {
	for _, decl := range m.Program.Decls {
		switch d := decl.(type) {
		case *ast.TypeAliasDecl:
			b := a.newTypeBuilder(m, st.view, bag, false)
			for _, p := range d.TypeParams {
				b.declareVar(p)
			}
			body := b.build(d.Body)
			sym, _ := m.Table.Type(d.Name)
			sym.Scheme = typesystem.MonoScheme(typesystem.TCon{
				Name:       d.Name,
				Module:     m.Name,
				Underlying: body,
				TypeParams: d.TypeParams,
			})
			m.Table.SetType(sym)

		case *ast.CustomTypeDecl:
			tsym, ok := m.Table.Type(d.Name)
			if !ok || tsym.Kind != symbols.TypeSymbol {
				continue
			}
			base := tsym.Scheme.T
			params := make([]typesystem.Type, len(d.TypeParams))
			for i, p := range d.TypeParams {
				params[i] = typesystem.TVar{Name: p, Class: typesystem.ClassFromName(p)}
			}
			var result typesystem.Type = base
			if len(params) > 0 {
				result = typesystem.TApp{Ctor: base, Args: params}
			}
			for _, c := range d.Ctors {
				b := a.newTypeBuilder(m, st.view, bag, false)
				for _, p := range d.TypeParams {
					b.declareVar(p)
				}
				args := make([]typesystem.Type, len(c.Args))
				for i, argExpr := range c.Args {
					args[i] = b.build(argExpr)
				}
				csym, ok := m.Table.Value(c.Name)
				if !ok || csym.Kind != symbols.ConstructorSymbol {
					continue
				}
				csym.Scheme = typesystem.Scheme{
					Vars: d.TypeParams,
					T:    typesystem.MakeFunc(result, args...),
				}
				m.Table.SetValue(csym)
			}

		case *ast.ValueDecl:
			if d.Signature == nil {
				continue
			}
			b := a.newTypeBuilder(m, st.view, bag, true)
			sigType := b.build(d.Signature.Type)
			sym, ok := m.Table.Value(d.Name)
			if !ok || sym.Kind != symbols.ValueSymbol {
				continue
			}
			sym.Scheme = typesystem.Scheme{Vars: freeVarNames(sigType), T: sigType}
			m.Table.SetValue(sym)
		}
	}
}

func freeVarNames(t typesystem.Type) []string {
	vars := t.FreeTypeVariables()
	names := make([]string, len(vars))
	for i, v := range vars {
		names[i] = v.Name
	}
	return names
}

// checkExposing validates the module's own exposing list: every named
// entry must exist among the module's top-level declarations.
func (a *Analyzer) checkExposing(m *forest.Module, bag *diag.Bag) {
	ex := m.Program.Exposing
	if ex == nil || ex.All {
		return
	}
	for _, item := range ex.Items {
		if m.Table.Has(item.Name) {
			continue
		}
		bag.Add(diag.New(diag.UnresolvedReference, parser.TokenSpan(m.URI, item.Token), item.Name))
	}
}
