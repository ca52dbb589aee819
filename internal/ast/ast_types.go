package ast

import (
	"github.com/lumen-lang/lumen/internal/token"
)

// TypeRef is a named type with arguments: `List a`, `Base.Order`.
type TypeRef struct {
	Token     token.Token
	Qualifier string
	Name      string
	Args      []TypeExpr
}

func (t *TypeRef) typeExprNode() {}
func (t *TypeRef) GetToken() token.Token {
	if t == nil {
		return token.Token{}
	}
	return t.Token
}

// TypeVarRef is a lowercase type variable: `a`, `number`, `comparable1`.
type TypeVarRef struct {
	Token token.Token
	Name  string
}

func (t *TypeVarRef) typeExprNode() {}
func (t *TypeVarRef) GetToken() token.Token {
	if t == nil {
		return token.Token{}
	}
	return t.Token
}

// FuncType is `param -> result` (right-associative).
type FuncType struct {
	Token  token.Token
	Param  TypeExpr
	Result TypeExpr
}

func (t *FuncType) typeExprNode() {}
func (t *FuncType) GetToken() token.Token {
	if t == nil {
		return token.Token{}
	}
	return t.Token
}

// TupleType is `(a, b)`.
type TupleType struct {
	Token token.Token
	Elems []TypeExpr
}

func (t *TupleType) typeExprNode() {}
func (t *TupleType) GetToken() token.Token {
	if t == nil {
		return token.Token{}
	}
	return t.Token
}

// RecordType is `{ x : Int }` or the extensible form `{ r | x : Int }`.
type RecordType struct {
	Token   token.Token
	Base    string // row variable name for extensible records; empty otherwise
	BaseTok token.Token
	Fields  []RecordTypeField
}

type RecordTypeField struct {
	Token token.Token
	Name  string
	Type  TypeExpr
}

func (t *RecordType) typeExprNode() {}
func (t *RecordType) GetToken() token.Token {
	if t == nil {
		return token.Token{}
	}
	return t.Token
}

// UnitType is `()`.
type UnitType struct {
	Token token.Token
}

func (t *UnitType) typeExprNode() {}
func (t *UnitType) GetToken() token.Token {
	if t == nil {
		return token.Token{}
	}
	return t.Token
}
