package parser

import (
	"strconv"
	"strings"

	"github.com/lumen-lang/lumen/internal/ast"
	"github.com/lumen-lang/lumen/internal/token"
)

// parseExpr is the precedence-climbing entry point. minPrec is the lowest
// operator precedence the caller will accept.
func (p *Parser) parseExpr(minPrec int) ast.Expr {
	left := p.parseOperand()

	for {
		if p.atEnd() {
			return left
		}
		op := p.cur()
		if op.Type != token.OPERATOR {
			return left
		}
		fix, ok := p.fix[op.Lexeme]
		if !ok {
			fix = Fixity{Assoc: "left", Precedence: 9}
		}
		if fix.Precedence < minPrec {
			return left
		}
		p.advance()

		nextMin := fix.Precedence + 1
		if fix.Assoc == "right" {
			nextMin = fix.Precedence
		}
		right := p.parseExpr(nextMin)
		left = &ast.BinOp{Token: op, Op: op.Lexeme, Left: left, Right: right}

		if fix.Assoc == "non" {
			// Non-associative operators must not chain.
			if next := p.cur(); next.Type == token.OPERATOR {
				if nf, ok := p.fix[next.Lexeme]; ok && nf.Precedence == fix.Precedence && nf.Assoc == "non" {
					p.errorAt(next, "operator %q is non-associative and cannot be chained", next.Lexeme)
				}
			}
			return left
		}
	}
}

// parseOperand parses a head expression (which may be a keyword form)
// followed by application arguments.
func (p *Parser) parseOperand() ast.Expr {
	switch p.cur().Type {
	case token.IF:
		return p.parseIf()
	case token.LET:
		return p.parseLet()
	case token.CASE:
		return p.parseCase()
	case token.BACKSLASH:
		return p.parseLambda()
	case token.OPERATOR:
		if p.cur().Lexeme == "-" {
			negTok := p.advance()
			return &ast.Negate{Token: negTok, Expr: p.parseApply()}
		}
	}
	return p.parseApply()
}

// parseApply parses an atom and then any juxtaposed arguments: `f a b`.
func (p *Parser) parseApply() ast.Expr {
	fn := p.parseAtom()
	if fn == nil {
		bad := &ast.BadExpr{Token: p.cur()}
		p.errorAt(p.cur(), "expected an expression but found %q", p.cur().Lexeme)
		p.advance()
		return bad
	}

	var args []ast.Expr
	for !p.atEnd() && p.isAtomStart() {
		arg := p.parseAtom()
		if arg == nil {
			break
		}
		args = append(args, arg)
	}
	if len(args) == 0 {
		return fn
	}
	return &ast.Call{Token: fn.GetToken(), Fn: fn, Args: args}
}

func (p *Parser) isAtomStart() bool {
	switch p.cur().Type {
	case token.LOWER_IDENT, token.UPPER_IDENT, token.INT, token.FLOAT,
		token.STRING, token.CHAR, token.LPAREN, token.LBRACKET, token.LBRACE:
		return true
	case token.DOT:
		// A standalone `.field` accessor; a dot glued to the previous
		// token belongs to it, not to a new atom.
		return !adjacent(p.prev(), p.cur()) && p.peek().Type == token.LOWER_IDENT && adjacent(p.cur(), p.peek())
	}
	return false
}

// parseAtom parses a single application argument, with postfix field
// access folded in.
func (p *Parser) parseAtom() ast.Expr {
	var e ast.Expr
	t := p.cur()

	switch t.Type {
	case token.INT:
		p.advance()
		v, err := strconv.ParseInt(t.Lexeme, 10, 64)
		if err != nil {
			p.errorAt(t, "integer literal %q is out of range", t.Lexeme)
		}
		e = &ast.IntLit{Token: t, Value: v}
	case token.FLOAT:
		p.advance()
		v, err := strconv.ParseFloat(t.Lexeme, 64)
		if err != nil {
			p.errorAt(t, "malformed number literal %q", t.Lexeme)
		}
		e = &ast.FloatLit{Token: t, Value: v}
	case token.STRING:
		p.advance()
		e = &ast.StringLit{Token: t, Value: t.Lexeme}
	case token.CHAR:
		p.advance()
		r := ' '
		for _, c := range t.Lexeme {
			r = c
			break
		}
		e = &ast.CharLit{Token: t, Value: r}
	case token.LOWER_IDENT:
		p.advance()
		e = &ast.Ident{Token: t, Name: t.Lexeme}
	case token.UPPER_IDENT:
		e = p.parseQualifiedRef()
	case token.DOT:
		dotTok := p.advance()
		field := p.advance()
		e = &ast.AccessorFunc{Token: dotTok, Field: field.Lexeme}
	case token.LPAREN:
		e = p.parseParenExpr()
	case token.LBRACKET:
		e = p.parseListLit()
	case token.LBRACE:
		e = p.parseRecordLit()
	default:
		return nil
	}

	return p.parseFieldAccess(e)
}

// parseFieldAccess folds `.field` chains glued to the expression just
// parsed: `point.pos.x`.
func (p *Parser) parseFieldAccess(e ast.Expr) ast.Expr {
	for p.cur().Type == token.DOT && adjacent(p.prev(), p.cur()) &&
		p.peek().Type == token.LOWER_IDENT && adjacent(p.cur(), p.peek()) {
		p.advance()
		field := p.advance()
		e = &ast.FieldAccess{Token: field, Target: e, Field: field.Lexeme}
	}
	return e
}

// parseQualifiedRef reads an uppercase chain: a constructor (`Just`,
// `Base.LT`) or a qualified value (`List.map`).
func (p *Parser) parseQualifiedRef() ast.Expr {
	first := p.advance()
	segs := []string{first.Lexeme}

	for p.cur().Type == token.DOT && adjacent(p.prev(), p.cur()) {
		next := p.peek()
		if !adjacent(p.cur(), next) {
			break
		}
		switch next.Type {
		case token.UPPER_IDENT:
			p.advance()
			segs = append(segs, p.advance().Lexeme)
		case token.LOWER_IDENT:
			p.advance()
			nameTok := p.advance()
			return &ast.Ident{Token: first, Qualifier: strings.Join(segs, "."), Name: nameTok.Lexeme}
		default:
			p.errorAt(next, "expected a name after %q.", segs[len(segs)-1])
			return &ast.BadExpr{Token: next}
		}
	}

	if len(segs) == 1 {
		return &ast.CtorRef{Token: first, Name: segs[0]}
	}
	return &ast.CtorRef{
		Token:     first,
		Qualifier: strings.Join(segs[:len(segs)-1], "."),
		Name:      segs[len(segs)-1],
	}
}

// parseParenExpr handles `()`, `(e)`, tuples and operator sections `(++)`.
func (p *Parser) parseParenExpr() ast.Expr {
	open := p.advance()

	if p.cur().Type == token.RPAREN {
		p.advance()
		return &ast.UnitLit{Token: open}
	}

	// A parenthesized operator is a reference to its implementing function.
	if op, ok := operatorAt(p.toks, p.pos-1); ok {
		opTok := p.advance()
		p.advance()
		return &ast.Ident{Token: opTok, Name: op}
	}

	saved := p.indent
	p.indent = open.Column
	first := p.parseExpr(0)
	if p.cur().Type == token.COMMA {
		elems := []ast.Expr{first}
		for p.cur().Type == token.COMMA {
			p.advance()
			elems = append(elems, p.parseExpr(0))
		}
		p.expect(token.RPAREN)
		p.indent = saved
		return p.parseFieldAccess(&ast.TupleLit{Token: open, Elems: elems})
	}
	p.expect(token.RPAREN)
	p.indent = saved
	return p.parseFieldAccess(first)
}

func (p *Parser) parseListLit() ast.Expr {
	open := p.advance()
	lit := &ast.ListLit{Token: open}
	if p.cur().Type == token.RBRACKET {
		p.advance()
		return lit
	}
	saved := p.indent
	p.indent = open.Column
	for {
		lit.Elems = append(lit.Elems, p.parseExpr(0))
		if p.cur().Type != token.COMMA {
			break
		}
		p.advance()
	}
	p.expect(token.RBRACKET)
	p.indent = saved
	return lit
}

// parseRecordLit handles `{ x = 1 }` and the update form `{ r | x = 1 }`.
func (p *Parser) parseRecordLit() ast.Expr {
	open := p.advance()
	lit := &ast.RecordLit{Token: open}
	if p.cur().Type == token.RBRACE {
		p.advance()
		return lit
	}

	saved := p.indent
	p.indent = open.Column

	if p.cur().Type == token.LOWER_IDENT && p.peek().Type == token.PIPE {
		baseTok := p.advance()
		lit.Base = &ast.Ident{Token: baseTok, Name: baseTok.Lexeme}
		p.advance()
	}

	for {
		nameTok, ok := p.expect(token.LOWER_IDENT)
		if !ok {
			break
		}
		if _, ok := p.expect(token.EQUALS); !ok {
			break
		}
		value := p.parseExpr(0)
		lit.Fields = append(lit.Fields, ast.RecordField{Token: nameTok, Name: nameTok.Lexeme, Value: value})
		if p.cur().Type != token.COMMA {
			break
		}
		p.advance()
	}
	p.expect(token.RBRACE)
	p.indent = saved
	return lit
}

func (p *Parser) parseLambda() ast.Expr {
	slash := p.advance()
	lam := &ast.Lambda{Token: slash}
	for p.cur().Type != token.ARROW && !p.atEnd() {
		pat := p.parseAtomicPattern()
		if pat == nil {
			break
		}
		lam.Params = append(lam.Params, pat)
	}
	if len(lam.Params) == 0 {
		p.errorAt(slash, "a lambda needs at least one parameter")
	}
	p.expect(token.ARROW)
	lam.Body = p.parseExpr(0)
	return lam
}

func (p *Parser) parseIf() ast.Expr {
	ifTok := p.advance()
	e := &ast.If{Token: ifTok}
	e.Cond = p.parseExpr(0)
	p.expect(token.THEN)
	e.Then = p.parseExpr(0)
	p.expect(token.ELSE)
	e.Else = p.parseExpr(0)
	return e
}

// parseLet reads a let block. Bindings align on the column of the first
// binding; `in` introduces the body.
func (p *Parser) parseLet() ast.Expr {
	letTok := p.advance()
	e := &ast.Let{Token: letTok}

	bindCol := p.cur().Column
	saved := p.indent
	for p.cur().Type != token.IN && p.cur().Type != token.EOF {
		if p.cur().Column != bindCol {
			p.errorAt(p.cur(), "let bindings must align, expected column %d", bindCol)
			break
		}
		p.indent = bindCol
		b := p.parseLetBinding()
		p.indent = saved
		if b == nil {
			break
		}
		e.Bindings = append(e.Bindings, b)
	}
	p.expect(token.IN)
	e.Body = p.parseExpr(0)
	return e
}

func (p *Parser) parseLetBinding() *ast.LetBinding {
	t := p.cur()

	// `name : Type` signature line for the binding below it.
	var sig *ast.Signature
	if t.Type == token.LOWER_IDENT && p.peek().Type == token.COLON {
		nameTok := p.advance()
		p.advance()
		ty := p.parseTypeExpr()
		sig = &ast.Signature{Token: nameTok, Name: nameTok.Lexeme, Type: ty}
		if p.cur().Type != token.LOWER_IDENT || p.cur().Lexeme != nameTok.Lexeme {
			p.errorAt(nameTok, "the signature for %q has no matching definition", nameTok.Lexeme)
			return &ast.LetBinding{
				Token:     nameTok,
				Name:      nameTok.Lexeme,
				Body:      &ast.BadExpr{Token: nameTok},
				Signature: sig,
			}
		}
		t = p.cur()
	}

	// Function form: `name p1 p2 = body`.
	if t.Type == token.LOWER_IDENT {
		nameTok := p.advance()
		b := &ast.LetBinding{Token: nameTok, Name: nameTok.Lexeme, Signature: sig}
		for p.cur().Type != token.EQUALS && !p.atEnd() && p.cur().Type != token.IN {
			pat := p.parseAtomicPattern()
			if pat == nil {
				return b
			}
			b.Params = append(b.Params, pat)
		}
		if _, ok := p.expect(token.EQUALS); !ok {
			b.Body = &ast.BadExpr{Token: nameTok}
			return b
		}
		b.Body = p.parseExpr(0)
		return b
	}

	// Destructuring form: `(a, b) = body`, `{ x } = body`.
	pat := p.parseAtomicPattern()
	if pat == nil {
		p.errorAt(t, "expected a let binding but found %q", t.Lexeme)
		p.advance()
		return nil
	}
	b := &ast.LetBinding{Token: pat.GetToken(), Pattern: pat, Signature: sig}
	if _, ok := p.expect(token.EQUALS); !ok {
		b.Body = &ast.BadExpr{Token: t}
		return b
	}
	b.Body = p.parseExpr(0)
	return b
}

// parseCase reads a case expression. Branches align on the column of the
// first branch pattern.
func (p *Parser) parseCase() ast.Expr {
	caseTok := p.advance()
	e := &ast.Case{Token: caseTok}
	e.Subject = p.parseExpr(0)
	p.expect(token.OF)

	if p.atEnd() {
		p.errorAt(p.cur(), "a case expression needs at least one branch")
		return e
	}
	branchCol := p.cur().Column
	saved := p.indent
	for !p.atEnd() && p.cur().Column == branchCol {
		patTok := p.cur()
		p.indent = branchCol
		pat := p.parsePattern()
		if pat == nil {
			p.indent = saved
			break
		}
		p.expect(token.ARROW)
		body := p.parseExpr(0)
		p.indent = saved
		e.Branches = append(e.Branches, &ast.CaseBranch{Token: patTok, Pattern: pat, Body: body})
	}
	if len(e.Branches) == 0 {
		p.errorAt(caseTok, "a case expression needs at least one branch")
	}
	return e
}
