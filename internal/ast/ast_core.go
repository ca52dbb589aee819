package ast

import (
	"github.com/lumen-lang/lumen/internal/token"
)

// Node is the base interface for all tree nodes.
type Node interface {
	GetToken() token.Token
}

// Decl is a top-level declaration.
type Decl interface {
	Node
	declNode()
	DeclName() string
}

// Expr is an expression node.
type Expr interface {
	Node
	exprNode()
}

// Pattern is a pattern node (function parameters, let bindings, case branches).
type Pattern interface {
	Node
	patternNode()
}

// TypeExpr is a type annotation node.
type TypeExpr interface {
	Node
	typeExprNode()
}

// Module is the root node of every parsed source file.
type Module struct {
	Token    token.Token // the 'module' token
	Name     string      // dotted module name, e.g. "Data.List"
	NameTok  token.Token
	Exposing *ExposingList
	Imports  []*Import
	Decls    []Decl
}

func (m *Module) GetToken() token.Token {
	if m == nil {
		return token.Token{}
	}
	return m.Token
}

// ExposingList is the parenthesized list after `exposing`.
// All is true for `exposing (..)`.
type ExposingList struct {
	Token token.Token
	All   bool
	Items []ExposedItem
}

// ExposedItem is a single entry in an exposing list.
// OpenCtors is true for `Type(..)`, exposing the type with all constructors.
type ExposedItem struct {
	Token     token.Token
	Name      string
	OpenCtors bool
}

// Import is one import statement.
// `import Data.List as L exposing (map)` has ModuleName "Data.List",
// Alias "L" and a one-item exposing list.
type Import struct {
	Token      token.Token // the 'import' token
	ModuleName string
	NameTok    token.Token
	Alias      string // empty when unaliased
	AliasTok   token.Token
	Exposing   *ExposingList // nil when nothing exposed
}

func (i *Import) GetToken() token.Token {
	if i == nil {
		return token.Token{}
	}
	return i.Token
}

// Qualifier returns the name under which the import's symbols are
// addressed with a dot: the alias when present, else the last segment
// of the module name... the full dotted name is accepted as well.
func (i *Import) Qualifier() string {
	if i.Alias != "" {
		return i.Alias
	}
	return i.ModuleName
}

// ValueDecl is a top-level value or function declaration, possibly with
// a preceding type signature line.
type ValueDecl struct {
	Token     token.Token // the name token
	Name      string
	Params    []Pattern
	Body      Expr
	Signature *Signature // nil when unsigned
}

func (d *ValueDecl) declNode()        {}
func (d *ValueDecl) DeclName() string { return d.Name }
func (d *ValueDecl) GetToken() token.Token {
	if d == nil {
		return token.Token{}
	}
	return d.Token
}

// Signature is a standalone `name : Type` annotation line.
type Signature struct {
	Token token.Token // the name token
	Name  string
	Type  TypeExpr
}

func (s *Signature) GetToken() token.Token {
	if s == nil {
		return token.Token{}
	}
	return s.Token
}

// TypeAliasDecl is `type alias Name args = body`.
type TypeAliasDecl struct {
	Token      token.Token // the 'type' token
	Name       string
	NameTok    token.Token
	TypeParams []string
	Body       TypeExpr
}

func (d *TypeAliasDecl) declNode()        {}
func (d *TypeAliasDecl) DeclName() string { return d.Name }
func (d *TypeAliasDecl) GetToken() token.Token {
	if d == nil {
		return token.Token{}
	}
	return d.Token
}

// CustomTypeDecl is `type Name args = Ctor1 a | Ctor2`.
type CustomTypeDecl struct {
	Token      token.Token // the 'type' token
	Name       string
	NameTok    token.Token
	TypeParams []string
	Ctors      []*Constructor
}

func (d *CustomTypeDecl) declNode()        {}
func (d *CustomTypeDecl) DeclName() string { return d.Name }
func (d *CustomTypeDecl) GetToken() token.Token {
	if d == nil {
		return token.Token{}
	}
	return d.Token
}

// Constructor is a single variant of a custom type.
type Constructor struct {
	Token token.Token
	Name  string
	Args  []TypeExpr
}

func (c *Constructor) GetToken() token.Token {
	if c == nil {
		return token.Token{}
	}
	return c.Token
}

// InfixDecl is `infix right 5 (++) = append`: associativity, precedence,
// the operator and the name of its implementing function.
type InfixDecl struct {
	Token      token.Token // the 'infix' token
	Assoc      string      // "left", "right" or "non"
	Precedence int
	Operator   string
	OpTok      token.Token
	FuncName   string
	FuncTok    token.Token
}

func (d *InfixDecl) declNode()        {}
func (d *InfixDecl) DeclName() string { return d.Operator }
func (d *InfixDecl) GetToken() token.Token {
	if d == nil {
		return token.Token{}
	}
	return d.Token
}
