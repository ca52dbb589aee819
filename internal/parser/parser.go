package parser

import (
	"fmt"

	"github.com/lumen-lang/lumen/internal/ast"
	"github.com/lumen-lang/lumen/internal/diag"
	"github.com/lumen-lang/lumen/internal/lexer"
	"github.com/lumen-lang/lumen/internal/source"
	"github.com/lumen-lang/lumen/internal/token"
)

// Fixity describes an operator's associativity and precedence for the
// expression parser.
type Fixity struct {
	Assoc      string // "left", "right" or "non"
	Precedence int
}

// defaultFixities is the built-in operator table. Module-local `infix`
// declarations extend or override it before the body parse.
var defaultFixities = map[string]Fixity{
	"<|": {Assoc: "right", Precedence: 0},
	"|>": {Assoc: "left", Precedence: 0},
	"||": {Assoc: "right", Precedence: 2},
	"&&": {Assoc: "right", Precedence: 3},
	"==": {Assoc: "non", Precedence: 4},
	"/=": {Assoc: "non", Precedence: 4},
	"<":  {Assoc: "non", Precedence: 4},
	">":  {Assoc: "non", Precedence: 4},
	"<=": {Assoc: "non", Precedence: 4},
	">=": {Assoc: "non", Precedence: 4},
	"++": {Assoc: "right", Precedence: 5},
	"::": {Assoc: "right", Precedence: 5},
	"+":  {Assoc: "left", Precedence: 6},
	"-":  {Assoc: "left", Precedence: 6},
	"*":  {Assoc: "left", Precedence: 7},
	"/":  {Assoc: "left", Precedence: 7},
	"//": {Assoc: "left", Precedence: 7},
	"^":  {Assoc: "right", Precedence: 8},
	"<<": {Assoc: "left", Precedence: 9},
	">>": {Assoc: "right", Precedence: 9},
}

type Parser struct {
	uri    string
	toks   []token.Token
	pos    int
	indent int // minimum column; a token at or left of it ends the construct
	fix    map[string]Fixity
	diags  *diag.Bag
}

// Parse lexes and parses one module's source text. It never fails hard:
// malformed regions produce ParseError diagnostics and the parser
// resynchronizes at the next column-one token.
func Parse(uri, src string) (*ast.Module, []diag.Diagnostic) {
	p := &Parser{
		uri:    uri,
		toks:   lexer.New(src).Tokens(),
		indent: 0,
		fix:    make(map[string]Fixity, len(defaultFixities)),
		diags:  diag.NewBag(0),
	}
	for op, f := range defaultFixities {
		p.fix[op] = f
	}
	p.collectFixities()
	mod := p.parseModule()
	return mod, p.diags.Items()
}

// collectFixities prescans for module-local infix declarations so the
// expression parser sees their precedence during the main parse.
func (p *Parser) collectFixities() {
	for i := 0; i+3 < len(p.toks); i++ {
		t := p.toks[i]
		if t.Type != token.INFIX || t.Column != 1 {
			continue
		}
		assoc := p.toks[i+1]
		prec := p.toks[i+2]
		if assoc.Type != token.LOWER_IDENT || prec.Type != token.INT {
			continue
		}
		if op, ok := operatorAt(p.toks, i+3); ok {
			p.fix[op] = Fixity{Assoc: assoc.Lexeme, Precedence: atoi(prec.Lexeme)}
		}
	}
}

// operatorAt reads a parenthesized operator starting at index i: `(++)`.
func operatorAt(toks []token.Token, i int) (string, bool) {
	if i+2 >= len(toks) {
		return "", false
	}
	if toks[i].Type != token.LPAREN || toks[i+2].Type != token.RPAREN {
		return "", false
	}
	switch toks[i+1].Type {
	case token.OPERATOR, token.PIPE, token.COLON, token.DOT:
		return toks[i+1].Lexeme, true
	}
	return "", false
}

func atoi(s string) int {
	n := 0
	for _, c := range s {
		n = n*10 + int(c-'0')
	}
	return n
}

func (p *Parser) cur() token.Token {
	if p.pos >= len(p.toks) {
		return p.toks[len(p.toks)-1] // EOF
	}
	return p.toks[p.pos]
}

func (p *Parser) peek() token.Token {
	if p.pos+1 >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+1]
}

func (p *Parser) prev() token.Token {
	if p.pos == 0 {
		return token.Token{}
	}
	return p.toks[p.pos-1]
}

func (p *Parser) advance() token.Token {
	t := p.cur()
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

// atEnd reports whether the current token terminates the construct being
// parsed under the current layout indent.
func (p *Parser) atEnd() bool {
	t := p.cur()
	return t.Type == token.EOF || t.Column <= p.indent
}

func (p *Parser) expect(tt token.Type) (token.Token, bool) {
	if p.cur().Type == tt {
		return p.advance(), true
	}
	p.errorAt(p.cur(), "expected %s but found %q", tt, p.cur().Lexeme)
	return p.cur(), false
}

func (p *Parser) errorAt(t token.Token, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	p.diags.Add(diag.New(diag.ParseError, p.tokSpan(t), msg))
}

func (p *Parser) tokSpan(t token.Token) source.Span {
	return TokenSpan(p.uri, t)
}

// TokenSpan converts a token into a source span.
func TokenSpan(uri string, t token.Token) source.Span {
	length := len([]rune(t.Lexeme))
	if length == 0 {
		length = 1
	}
	return source.Span{
		URI:   uri,
		Start: source.Pos{Line: t.Line, Column: t.Column},
		End:   source.Pos{Line: t.Line, Column: t.Column + length},
	}
}

// adjacent reports whether t starts exactly where prev ends on the same
// line. Used to tell `r.x` (field access) from qualified names and
// standalone dots.
func adjacent(prev, t token.Token) bool {
	return prev.Line == t.Line && t.Column == prev.Column+len([]rune(prev.Lexeme))
}

// syncTopLevel skips ahead to the next token at column one, where a new
// declaration can begin.
func (p *Parser) syncTopLevel() {
	p.advance()
	for {
		t := p.cur()
		if t.Type == token.EOF || t.Column == 1 {
			return
		}
		p.advance()
	}
}
