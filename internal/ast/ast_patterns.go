package ast

import (
	"github.com/lumen-lang/lumen/internal/token"
)

// PVar binds a name.
type PVar struct {
	Token token.Token
	Name  string
}

func (p *PVar) patternNode() {}
func (p *PVar) GetToken() token.Token {
	if p == nil {
		return token.Token{}
	}
	return p.Token
}

// PWildcard is `_`.
type PWildcard struct {
	Token token.Token
}

func (p *PWildcard) patternNode() {}
func (p *PWildcard) GetToken() token.Token {
	if p == nil {
		return token.Token{}
	}
	return p.Token
}

// PCtor matches a constructor with argument patterns: `Just x`, `Base.LT`.
type PCtor struct {
	Token     token.Token
	Qualifier string
	Name      string
	Args      []Pattern
}

func (p *PCtor) patternNode() {}
func (p *PCtor) GetToken() token.Token {
	if p == nil {
		return token.Token{}
	}
	return p.Token
}

// PTuple matches a tuple: `(a, b)`.
type PTuple struct {
	Token token.Token
	Elems []Pattern
}

func (p *PTuple) patternNode() {}
func (p *PTuple) GetToken() token.Token {
	if p == nil {
		return token.Token{}
	}
	return p.Token
}

// PRecord destructures record fields: `{ name, age }`.
type PRecord struct {
	Token  token.Token
	Fields []PRecordField
}

type PRecordField struct {
	Token token.Token
	Name  string
}

func (p *PRecord) patternNode() {}
func (p *PRecord) GetToken() token.Token {
	if p == nil {
		return token.Token{}
	}
	return p.Token
}

// PList matches a list literal pattern: `[a, b]`.
type PList struct {
	Token token.Token
	Elems []Pattern
}

func (p *PList) patternNode() {}
func (p *PList) GetToken() token.Token {
	if p == nil {
		return token.Token{}
	}
	return p.Token
}

// PCons matches head :: tail.
type PCons struct {
	Token token.Token // the :: token
	Head  Pattern
	Tail  Pattern
}

func (p *PCons) patternNode() {}
func (p *PCons) GetToken() token.Token {
	if p == nil {
		return token.Token{}
	}
	return p.Token
}

// PAlias is `pattern as name`.
type PAlias struct {
	Token   token.Token // the alias name token
	Pattern Pattern
	Name    string
}

func (p *PAlias) patternNode() {}
func (p *PAlias) GetToken() token.Token {
	if p == nil {
		return token.Token{}
	}
	return p.Token
}

// PUnit is `()`.
type PUnit struct {
	Token token.Token
}

func (p *PUnit) patternNode() {}
func (p *PUnit) GetToken() token.Token {
	if p == nil {
		return token.Token{}
	}
	return p.Token
}

// PLiteral matches an int, float, string or char literal.
type PLiteral struct {
	Token token.Token
	Value Expr // one of IntLit, FloatLit, StringLit, CharLit
}

func (p *PLiteral) patternNode() {}
func (p *PLiteral) GetToken() token.Token {
	if p == nil {
		return token.Token{}
	}
	return p.Token
}
