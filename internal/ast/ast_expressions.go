package ast

import (
	"github.com/lumen-lang/lumen/internal/token"
)

// Ident is a value reference, optionally module-qualified: `x` or `List.map`.
type Ident struct {
	Token     token.Token
	Qualifier string // module name or alias; empty for bare references
	Name      string
}

func (e *Ident) exprNode() {}
func (e *Ident) GetToken() token.Token {
	if e == nil {
		return token.Token{}
	}
	return e.Token
}

// CtorRef is a constructor used as an expression: `Just`, `Base.LT`.
type CtorRef struct {
	Token     token.Token
	Qualifier string
	Name      string
}

func (e *CtorRef) exprNode() {}
func (e *CtorRef) GetToken() token.Token {
	if e == nil {
		return token.Token{}
	}
	return e.Token
}

type IntLit struct {
	Token token.Token
	Value int64
}

func (e *IntLit) exprNode() {}
func (e *IntLit) GetToken() token.Token {
	if e == nil {
		return token.Token{}
	}
	return e.Token
}

type FloatLit struct {
	Token token.Token
	Value float64
}

func (e *FloatLit) exprNode() {}
func (e *FloatLit) GetToken() token.Token {
	if e == nil {
		return token.Token{}
	}
	return e.Token
}

type StringLit struct {
	Token token.Token
	Value string
}

func (e *StringLit) exprNode() {}
func (e *StringLit) GetToken() token.Token {
	if e == nil {
		return token.Token{}
	}
	return e.Token
}

type CharLit struct {
	Token token.Token
	Value rune
}

func (e *CharLit) exprNode() {}
func (e *CharLit) GetToken() token.Token {
	if e == nil {
		return token.Token{}
	}
	return e.Token
}

// UnitLit is `()`.
type UnitLit struct {
	Token token.Token
}

func (e *UnitLit) exprNode() {}
func (e *UnitLit) GetToken() token.Token {
	if e == nil {
		return token.Token{}
	}
	return e.Token
}

type ListLit struct {
	Token token.Token
	Elems []Expr
}

func (e *ListLit) exprNode() {}
func (e *ListLit) GetToken() token.Token {
	if e == nil {
		return token.Token{}
	}
	return e.Token
}

type TupleLit struct {
	Token token.Token
	Elems []Expr
}

func (e *TupleLit) exprNode() {}
func (e *TupleLit) GetToken() token.Token {
	if e == nil {
		return token.Token{}
	}
	return e.Token
}

// RecordLit is `{ x = 1, y = 2 }` or the update form `{ base | x = 1 }`.
type RecordLit struct {
	Token  token.Token
	Base   *Ident // non-nil for record update
	Fields []RecordField
}

type RecordField struct {
	Token token.Token
	Name  string
	Value Expr
}

func (e *RecordLit) exprNode() {}
func (e *RecordLit) GetToken() token.Token {
	if e == nil {
		return token.Token{}
	}
	return e.Token
}

// FieldAccess is `record.field`.
type FieldAccess struct {
	Token  token.Token // the field token
	Target Expr
	Field  string
}

func (e *FieldAccess) exprNode() {}
func (e *FieldAccess) GetToken() token.Token {
	if e == nil {
		return token.Token{}
	}
	return e.Token
}

// AccessorFunc is the standalone accessor `.field`.
type AccessorFunc struct {
	Token token.Token
	Field string
}

func (e *AccessorFunc) exprNode() {}
func (e *AccessorFunc) GetToken() token.Token {
	if e == nil {
		return token.Token{}
	}
	return e.Token
}

// Lambda is `\p1 p2 -> body`.
type Lambda struct {
	Token  token.Token // the backslash
	Params []Pattern
	Body   Expr
}

func (e *Lambda) exprNode() {}
func (e *Lambda) GetToken() token.Token {
	if e == nil {
		return token.Token{}
	}
	return e.Token
}

// Call is curried application flattened: `f a b`.
type Call struct {
	Token token.Token
	Fn    Expr
	Args  []Expr
}

func (e *Call) exprNode() {}
func (e *Call) GetToken() token.Token {
	if e == nil {
		return token.Token{}
	}
	return e.Token
}

// BinOp is an infix operator application.
type BinOp struct {
	Token token.Token // the operator token
	Op    string
	Left  Expr
	Right Expr
}

func (e *BinOp) exprNode() {}
func (e *BinOp) GetToken() token.Token {
	if e == nil {
		return token.Token{}
	}
	return e.Token
}

// Negate is unary minus.
type Negate struct {
	Token token.Token
	Expr  Expr
}

func (e *Negate) exprNode() {}
func (e *Negate) GetToken() token.Token {
	if e == nil {
		return token.Token{}
	}
	return e.Token
}

type If struct {
	Token token.Token
	Cond  Expr
	Then  Expr
	Else  Expr
}

func (e *If) exprNode() {}
func (e *If) GetToken() token.Token {
	if e == nil {
		return token.Token{}
	}
	return e.Token
}

// Let is `let bindings in body`.
type Let struct {
	Token    token.Token
	Bindings []*LetBinding
	Body     Expr
}

// LetBinding is one binding inside a let block. Either Name with optional
// Params (function form) or Pattern (destructuring form) is set.
type LetBinding struct {
	Token     token.Token
	Name      string
	Params    []Pattern
	Pattern   Pattern
	Body      Expr
	Signature *Signature
}

func (e *Let) exprNode() {}
func (e *Let) GetToken() token.Token {
	if e == nil {
		return token.Token{}
	}
	return e.Token
}

func (b *LetBinding) GetToken() token.Token {
	if b == nil {
		return token.Token{}
	}
	return b.Token
}

// Case is `case subject of branches`.
type Case struct {
	Token    token.Token
	Subject  Expr
	Branches []*CaseBranch
}

type CaseBranch struct {
	Token   token.Token
	Pattern Pattern
	Body    Expr
}

func (e *Case) exprNode() {}
func (e *Case) GetToken() token.Token {
	if e == nil {
		return token.Token{}
	}
	return e.Token
}

// BadExpr marks a subtree the parser could not make sense of. Inference
// assigns it the error placeholder type so analysis continues around it.
type BadExpr struct {
	Token token.Token
}

func (e *BadExpr) exprNode() {}
func (e *BadExpr) GetToken() token.Token {
	if e == nil {
		return token.Token{}
	}
	return e.Token
}
