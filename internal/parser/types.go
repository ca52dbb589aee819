package parser

import (
	"strings"

	"github.com/lumen-lang/lumen/internal/ast"
	"github.com/lumen-lang/lumen/internal/token"
)

// parseTypeExpr parses a full type annotation. The arrow is
// right-associative: `a -> b -> c` is `a -> (b -> c)`.
func (p *Parser) parseTypeExpr() ast.TypeExpr {
	left := p.parseTypeApp()
	if left == nil {
		return nil
	}
	if p.cur().Type == token.ARROW && !p.atEnd() {
		arrow := p.advance()
		result := p.parseTypeExpr()
		if result == nil {
			p.errorAt(p.cur(), "expected a type after ->")
			return left
		}
		return &ast.FuncType{Token: arrow, Param: left, Result: result}
	}
	return left
}

// parseTypeApp parses a type constructor with its arguments: `List a`,
// `Dict String Int`.
func (p *Parser) parseTypeApp() ast.TypeExpr {
	if p.cur().Type == token.UPPER_IDENT {
		ref := p.parseTypeRefName()
		for !p.atEnd() && p.isTypeAtomStart() {
			arg := p.parseTypeAtom()
			if arg == nil {
				break
			}
			ref.Args = append(ref.Args, arg)
		}
		return ref
	}
	return p.parseTypeAtom()
}

func (p *Parser) isTypeAtomStart() bool {
	switch p.cur().Type {
	case token.LOWER_IDENT, token.UPPER_IDENT, token.LPAREN, token.LBRACE:
		return true
	}
	return false
}

// parseTypeRefName reads an optionally qualified type name without
// arguments: `Order`, `Base.Order`.
func (p *Parser) parseTypeRefName() *ast.TypeRef {
	first := p.advance()
	segs := []string{first.Lexeme}
	for p.cur().Type == token.DOT && adjacent(p.prev(), p.cur()) &&
		p.peek().Type == token.UPPER_IDENT && adjacent(p.cur(), p.peek()) {
		p.advance()
		segs = append(segs, p.advance().Lexeme)
	}
	ref := &ast.TypeRef{Token: first, Name: segs[len(segs)-1]}
	if len(segs) > 1 {
		ref.Qualifier = strings.Join(segs[:len(segs)-1], ".")
	}
	return ref
}

// parseTypeAtom parses a type usable in argument position.
func (p *Parser) parseTypeAtom() ast.TypeExpr {
	t := p.cur()
	switch t.Type {
	case token.LOWER_IDENT:
		p.advance()
		return &ast.TypeVarRef{Token: t, Name: t.Lexeme}
	case token.UPPER_IDENT:
		return p.parseTypeRefName()
	case token.LPAREN:
		return p.parseParenType()
	case token.LBRACE:
		return p.parseRecordType()
	}
	p.errorAt(t, "expected a type but found %q", t.Lexeme)
	return nil
}

// parseParenType handles `()`, grouping and tuple types.
func (p *Parser) parseParenType() ast.TypeExpr {
	open := p.advance()
	if p.cur().Type == token.RPAREN {
		p.advance()
		return &ast.UnitType{Token: open}
	}
	saved := p.indent
	p.indent = open.Column
	first := p.parseTypeExpr()
	if first == nil {
		p.expect(token.RPAREN)
		p.indent = saved
		return nil
	}
	if p.cur().Type == token.COMMA {
		elems := []ast.TypeExpr{first}
		for p.cur().Type == token.COMMA {
			p.advance()
			elem := p.parseTypeExpr()
			if elem == nil {
				break
			}
			elems = append(elems, elem)
		}
		p.expect(token.RPAREN)
		p.indent = saved
		return &ast.TupleType{Token: open, Elems: elems}
	}
	p.expect(token.RPAREN)
	p.indent = saved
	return first
}

// parseRecordType handles `{ x : Int }` and the extensible form
// `{ r | x : Int }`.
func (p *Parser) parseRecordType() ast.TypeExpr {
	open := p.advance()
	rt := &ast.RecordType{Token: open}
	if p.cur().Type == token.RBRACE {
		p.advance()
		return rt
	}

	saved := p.indent
	p.indent = open.Column

	if p.cur().Type == token.LOWER_IDENT && p.peek().Type == token.PIPE {
		baseTok := p.advance()
		rt.Base = baseTok.Lexeme
		rt.BaseTok = baseTok
		p.advance()
	}

	for {
		nameTok, ok := p.expect(token.LOWER_IDENT)
		if !ok {
			break
		}
		if _, ok := p.expect(token.COLON); !ok {
			break
		}
		fieldType := p.parseTypeExpr()
		rt.Fields = append(rt.Fields, ast.RecordTypeField{Token: nameTok, Name: nameTok.Lexeme, Type: fieldType})
		if p.cur().Type != token.COMMA {
			break
		}
		p.advance()
	}
	p.expect(token.RBRACE)
	p.indent = saved
	return rt
}
