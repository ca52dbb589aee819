package parser

import (
	"strings"

	"github.com/lumen-lang/lumen/internal/ast"
	"github.com/lumen-lang/lumen/internal/token"
)

func (p *Parser) parseModule() *ast.Module {
	mod := &ast.Module{}

	if p.cur().Type == token.MODULE {
		mod.Token = p.advance()
		name, nameTok, ok := p.parseDottedUpperName()
		if !ok {
			p.syncTopLevel()
		}
		mod.Name = name
		mod.NameTok = nameTok
		if p.cur().Type == token.EXPOSING {
			p.advance()
			mod.Exposing = p.parseExposingList()
		}
	} else {
		p.errorAt(p.cur(), "a file must start with a module header, e.g. `module Main exposing (..)`")
		mod.Name = "Main"
	}

	for p.cur().Type != token.EOF {
		t := p.cur()
		if t.Column != 1 {
			p.errorAt(t, "unexpected %q, declarations must start at the beginning of a line", t.Lexeme)
			p.syncTopLevel()
			continue
		}
		switch t.Type {
		case token.IMPORT:
			if imp := p.parseImport(); imp != nil {
				mod.Imports = append(mod.Imports, imp)
			}
		case token.TYPE:
			if d := p.parseTypeDecl(); d != nil {
				mod.Decls = append(mod.Decls, d)
			}
		case token.INFIX:
			if d := p.parseInfixDecl(); d != nil {
				mod.Decls = append(mod.Decls, d)
			}
		case token.LOWER_IDENT:
			if d := p.parseValueDecl(); d != nil {
				mod.Decls = append(mod.Decls, d)
			}
		default:
			p.errorAt(t, "expected a declaration but found %q", t.Lexeme)
			p.syncTopLevel()
		}
	}
	return mod
}

// parseDottedUpperName reads `Data.List` style names.
func (p *Parser) parseDottedUpperName() (string, token.Token, bool) {
	first, ok := p.expect(token.UPPER_IDENT)
	if !ok {
		return "", first, false
	}
	segs := []string{first.Lexeme}
	for p.cur().Type == token.DOT && p.peek().Type == token.UPPER_IDENT {
		p.advance()
		segs = append(segs, p.advance().Lexeme)
	}
	return strings.Join(segs, "."), first, true
}

func (p *Parser) parseExposingList() *ast.ExposingList {
	open, ok := p.expect(token.LPAREN)
	if !ok {
		return nil
	}
	list := &ast.ExposingList{Token: open}

	if p.cur().Type == token.DOTDOT {
		p.advance()
		list.All = true
		p.expect(token.RPAREN)
		return list
	}

	for {
		item, ok := p.parseExposedItem()
		if !ok {
			break
		}
		list.Items = append(list.Items, item)
		if p.cur().Type != token.COMMA {
			break
		}
		p.advance()
	}
	p.expect(token.RPAREN)
	return list
}

func (p *Parser) parseExposedItem() (ast.ExposedItem, bool) {
	t := p.cur()
	switch t.Type {
	case token.LOWER_IDENT:
		p.advance()
		return ast.ExposedItem{Token: t, Name: t.Lexeme}, true
	case token.UPPER_IDENT:
		p.advance()
		item := ast.ExposedItem{Token: t, Name: t.Lexeme}
		// `Type(..)` exposes the constructors too.
		if p.cur().Type == token.LPAREN && p.peek().Type == token.DOTDOT {
			p.advance()
			p.advance()
			p.expect(token.RPAREN)
			item.OpenCtors = true
		}
		return item, true
	case token.LPAREN:
		// `(++)` exposes an operator.
		if op, ok := operatorAt(p.toks, p.pos); ok {
			p.advance()
			opTok := p.advance()
			p.advance()
			return ast.ExposedItem{Token: opTok, Name: op}, true
		}
	}
	p.errorAt(t, "expected an exposed name but found %q", t.Lexeme)
	return ast.ExposedItem{}, false
}

func (p *Parser) parseImport() *ast.Import {
	imp := &ast.Import{Token: p.advance()}
	name, nameTok, ok := p.parseDottedUpperName()
	if !ok {
		p.syncTopLevel()
		return nil
	}
	imp.ModuleName = name
	imp.NameTok = nameTok

	if p.cur().Type == token.AS {
		p.advance()
		if alias, ok := p.expect(token.UPPER_IDENT); ok {
			imp.Alias = alias.Lexeme
			imp.AliasTok = alias
		}
	}
	if p.cur().Type == token.EXPOSING {
		p.advance()
		imp.Exposing = p.parseExposingList()
	}
	return imp
}

// parseValueDecl handles a signature line, a definition line, or both.
// A signature immediately followed by a definition of the same name is
// attached to it.
func (p *Parser) parseValueDecl() ast.Decl {
	nameTok := p.advance()

	var sig *ast.Signature
	if p.cur().Type == token.COLON {
		p.advance()
		saved := p.indent
		p.indent = 1
		ty := p.parseTypeExpr()
		p.indent = saved
		sig = &ast.Signature{Token: nameTok, Name: nameTok.Lexeme, Type: ty}

		// The definition must follow at column one with the same name.
		if p.cur().Type != token.LOWER_IDENT || p.cur().Column != 1 || p.cur().Lexeme != nameTok.Lexeme {
			p.errorAt(nameTok, "the signature for %q has no matching definition", nameTok.Lexeme)
			return &ast.ValueDecl{
				Token:     nameTok,
				Name:      nameTok.Lexeme,
				Body:      &ast.BadExpr{Token: nameTok},
				Signature: sig,
			}
		}
		nameTok = p.advance()
	}

	decl := &ast.ValueDecl{Token: nameTok, Name: nameTok.Lexeme, Signature: sig}
	for p.cur().Type != token.EQUALS && !p.atTopLevelBoundary() {
		pat := p.parseAtomicPattern()
		if pat == nil {
			p.syncTopLevel()
			return decl
		}
		decl.Params = append(decl.Params, pat)
	}
	if _, ok := p.expect(token.EQUALS); !ok {
		p.syncTopLevel()
		decl.Body = &ast.BadExpr{Token: nameTok}
		return decl
	}

	saved := p.indent
	p.indent = 1
	decl.Body = p.parseExpr(0)
	p.indent = saved
	return decl
}

func (p *Parser) atTopLevelBoundary() bool {
	t := p.cur()
	return t.Type == token.EOF || t.Column == 1
}

func (p *Parser) parseTypeDecl() ast.Decl {
	typeTok := p.advance()

	if p.cur().Type == token.ALIAS {
		p.advance()
		nameTok, ok := p.expect(token.UPPER_IDENT)
		if !ok {
			p.syncTopLevel()
			return nil
		}
		decl := &ast.TypeAliasDecl{Token: typeTok, Name: nameTok.Lexeme, NameTok: nameTok}
		for p.cur().Type == token.LOWER_IDENT {
			decl.TypeParams = append(decl.TypeParams, p.advance().Lexeme)
		}
		if _, ok := p.expect(token.EQUALS); !ok {
			p.syncTopLevel()
			return decl
		}
		saved := p.indent
		p.indent = 1
		decl.Body = p.parseTypeExpr()
		p.indent = saved
		return decl
	}

	nameTok, ok := p.expect(token.UPPER_IDENT)
	if !ok {
		p.syncTopLevel()
		return nil
	}
	decl := &ast.CustomTypeDecl{Token: typeTok, Name: nameTok.Lexeme, NameTok: nameTok}
	for p.cur().Type == token.LOWER_IDENT {
		decl.TypeParams = append(decl.TypeParams, p.advance().Lexeme)
	}
	if _, ok := p.expect(token.EQUALS); !ok {
		p.syncTopLevel()
		return decl
	}

	saved := p.indent
	p.indent = 1
	for {
		ctorTok, ok := p.expect(token.UPPER_IDENT)
		if !ok {
			p.syncTopLevel()
			break
		}
		ctor := &ast.Constructor{Token: ctorTok, Name: ctorTok.Lexeme}
		for p.isTypeAtomStart() && !p.atEnd() {
			ctor.Args = append(ctor.Args, p.parseTypeAtom())
		}
		decl.Ctors = append(decl.Ctors, ctor)
		if p.cur().Type != token.PIPE || p.atEnd() {
			break
		}
		p.advance()
	}
	p.indent = saved
	return decl
}

// parseInfixDecl reads `infix right 5 (++) = append`.
func (p *Parser) parseInfixDecl() ast.Decl {
	infixTok := p.advance()
	decl := &ast.InfixDecl{Token: infixTok}

	assoc, ok := p.expect(token.LOWER_IDENT)
	if !ok || (assoc.Lexeme != "left" && assoc.Lexeme != "right" && assoc.Lexeme != "non") {
		p.errorAt(assoc, "expected `left`, `right` or `non` but found %q", assoc.Lexeme)
		p.syncTopLevel()
		return nil
	}
	decl.Assoc = assoc.Lexeme

	prec, ok := p.expect(token.INT)
	if !ok {
		p.syncTopLevel()
		return nil
	}
	decl.Precedence = atoi(prec.Lexeme)

	op, ok := operatorAt(p.toks, p.pos)
	if !ok {
		p.errorAt(p.cur(), "expected a parenthesized operator such as `(++)`")
		p.syncTopLevel()
		return nil
	}
	p.advance()
	decl.OpTok = p.advance()
	decl.Operator = op
	p.advance()

	if _, ok := p.expect(token.EQUALS); !ok {
		p.syncTopLevel()
		return decl
	}
	fn, ok := p.expect(token.LOWER_IDENT)
	if !ok {
		p.syncTopLevel()
		return decl
	}
	decl.FuncName = fn.Lexeme
	decl.FuncTok = fn
	return decl
}
