package parser

import (
	"strconv"
	"strings"

	"github.com/lumen-lang/lumen/internal/ast"
	"github.com/lumen-lang/lumen/internal/token"
)

// parsePattern is the full pattern grammar: constructor application,
// cons chains and `as` aliases. Used for case branches.
func (p *Parser) parsePattern() ast.Pattern {
	pat := p.parseConsPattern()
	if pat == nil {
		return nil
	}
	for p.cur().Type == token.AS {
		p.advance()
		nameTok, ok := p.expect(token.LOWER_IDENT)
		if !ok {
			return pat
		}
		pat = &ast.PAlias{Token: nameTok, Pattern: pat, Name: nameTok.Lexeme}
	}
	return pat
}

// parseConsPattern handles the right-associative `head :: tail` chain.
func (p *Parser) parseConsPattern() ast.Pattern {
	head := p.parseCtorPattern()
	if head == nil {
		return nil
	}
	if p.cur().Type == token.OPERATOR && p.cur().Lexeme == "::" {
		consTok := p.advance()
		tail := p.parseConsPattern()
		if tail == nil {
			p.errorAt(p.cur(), "expected a pattern after ::")
			return head
		}
		return &ast.PCons{Token: consTok, Head: head, Tail: tail}
	}
	return head
}

// parseCtorPattern allows a constructor to take argument patterns when it
// heads the pattern: `Just x`, `Node left value right`.
func (p *Parser) parseCtorPattern() ast.Pattern {
	if p.cur().Type != token.UPPER_IDENT {
		return p.parseAtomicPattern()
	}
	ctor := p.parseCtorName()
	for !p.atEnd() && p.isPatternAtomStart() {
		arg := p.parseAtomicPattern()
		if arg == nil {
			break
		}
		ctor.Args = append(ctor.Args, arg)
	}
	return ctor
}

func (p *Parser) isPatternAtomStart() bool {
	switch p.cur().Type {
	case token.LOWER_IDENT, token.UPPER_IDENT, token.UNDERSCORE,
		token.INT, token.FLOAT, token.STRING, token.CHAR,
		token.LPAREN, token.LBRACKET, token.LBRACE:
		return true
	}
	return false
}

// parseCtorName reads an optionally qualified constructor: `LT`, `Base.LT`.
func (p *Parser) parseCtorName() *ast.PCtor {
	first := p.advance()
	segs := []string{first.Lexeme}
	for p.cur().Type == token.DOT && adjacent(p.prev(), p.cur()) &&
		p.peek().Type == token.UPPER_IDENT && adjacent(p.cur(), p.peek()) {
		p.advance()
		segs = append(segs, p.advance().Lexeme)
	}
	pc := &ast.PCtor{Token: first, Name: segs[len(segs)-1]}
	if len(segs) > 1 {
		pc.Qualifier = strings.Join(segs[:len(segs)-1], ".")
	}
	return pc
}

// parseAtomicPattern parses patterns legal in argument position: no bare
// constructor applications, no cons chains (parenthesize those).
func (p *Parser) parseAtomicPattern() ast.Pattern {
	t := p.cur()
	switch t.Type {
	case token.LOWER_IDENT:
		p.advance()
		return &ast.PVar{Token: t, Name: t.Lexeme}
	case token.UNDERSCORE:
		p.advance()
		return &ast.PWildcard{Token: t}
	case token.UPPER_IDENT:
		return p.parseCtorName()
	case token.INT:
		p.advance()
		v, _ := strconv.ParseInt(t.Lexeme, 10, 64)
		return &ast.PLiteral{Token: t, Value: &ast.IntLit{Token: t, Value: v}}
	case token.FLOAT:
		p.advance()
		v, _ := strconv.ParseFloat(t.Lexeme, 64)
		return &ast.PLiteral{Token: t, Value: &ast.FloatLit{Token: t, Value: v}}
	case token.STRING:
		p.advance()
		return &ast.PLiteral{Token: t, Value: &ast.StringLit{Token: t, Value: t.Lexeme}}
	case token.CHAR:
		p.advance()
		r := ' '
		for _, c := range t.Lexeme {
			r = c
			break
		}
		return &ast.PLiteral{Token: t, Value: &ast.CharLit{Token: t, Value: r}}
	case token.OPERATOR:
		if t.Lexeme == "-" && p.peek().Type == token.INT && adjacent(t, p.peek()) {
			p.advance()
			numTok := p.advance()
			v, _ := strconv.ParseInt(numTok.Lexeme, 10, 64)
			return &ast.PLiteral{Token: t, Value: &ast.IntLit{Token: t, Value: -v}}
		}
	case token.LPAREN:
		return p.parseParenPattern()
	case token.LBRACKET:
		return p.parseListPattern()
	case token.LBRACE:
		return p.parseRecordPattern()
	}
	p.errorAt(t, "expected a pattern but found %q", t.Lexeme)
	return nil
}

// parseParenPattern handles `()`, grouping and tuples.
func (p *Parser) parseParenPattern() ast.Pattern {
	open := p.advance()
	if p.cur().Type == token.RPAREN {
		p.advance()
		return &ast.PUnit{Token: open}
	}
	first := p.parsePattern()
	if first == nil {
		p.expect(token.RPAREN)
		return nil
	}
	if p.cur().Type == token.COMMA {
		elems := []ast.Pattern{first}
		for p.cur().Type == token.COMMA {
			p.advance()
			elem := p.parsePattern()
			if elem == nil {
				break
			}
			elems = append(elems, elem)
		}
		p.expect(token.RPAREN)
		return &ast.PTuple{Token: open, Elems: elems}
	}
	p.expect(token.RPAREN)
	return first
}

func (p *Parser) parseListPattern() ast.Pattern {
	open := p.advance()
	pl := &ast.PList{Token: open}
	if p.cur().Type == token.RBRACKET {
		p.advance()
		return pl
	}
	for {
		elem := p.parsePattern()
		if elem == nil {
			break
		}
		pl.Elems = append(pl.Elems, elem)
		if p.cur().Type != token.COMMA {
			break
		}
		p.advance()
	}
	p.expect(token.RBRACKET)
	return pl
}

// parseRecordPattern destructures fields by name: `{ name, age }`.
func (p *Parser) parseRecordPattern() ast.Pattern {
	open := p.advance()
	pr := &ast.PRecord{Token: open}
	if p.cur().Type == token.RBRACE {
		p.advance()
		return pr
	}
	for {
		nameTok, ok := p.expect(token.LOWER_IDENT)
		if !ok {
			break
		}
		pr.Fields = append(pr.Fields, ast.PRecordField{Token: nameTok, Name: nameTok.Lexeme})
		if p.cur().Type != token.COMMA {
			break
		}
		p.advance()
	}
	p.expect(token.RBRACE)
	return pr
}
