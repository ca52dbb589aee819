package token

import "fmt"

type Type int

const (
	ILLEGAL Type = iota
	EOF

	// Identifiers and literals
	LOWER_IDENT // function names, variables, type variables (e.g. map, a, number)
	UPPER_IDENT // module names, types, constructors (e.g. List, Just)
	INT
	FLOAT
	STRING
	CHAR
	OPERATOR // symbolic operator run (e.g. ++, |>, ::)

	// Punctuation
	LPAREN
	RPAREN
	LBRACE
	RBRACE
	LBRACKET
	RBRACKET
	COMMA
	DOT
	DOTDOT
	COLON
	EQUALS
	ARROW    // ->
	BACKSLASH
	PIPE       // |
	UNDERSCORE // _

	// Keywords
	MODULE
	IMPORT
	EXPOSING
	AS
	TYPE
	ALIAS
	LET
	IN
	CASE
	OF
	IF
	THEN
	ELSE
	INFIX
)

var keywords = map[string]Type{
	"module":   MODULE,
	"import":   IMPORT,
	"exposing": EXPOSING,
	"as":       AS,
	"type":     TYPE,
	"alias":    ALIAS,
	"let":      LET,
	"in":       IN,
	"case":     CASE,
	"of":       OF,
	"if":       IF,
	"then":     THEN,
	"else":     ELSE,
	"infix":    INFIX,
}

// LookupIdent maps a lowercase identifier to its keyword type, or LOWER_IDENT.
func LookupIdent(ident string) Type {
	if t, ok := keywords[ident]; ok {
		return t
	}
	return LOWER_IDENT
}

// Token is a single lexeme with its source position.
// Line and Column are 1-based.
type Token struct {
	Type   Type
	Lexeme string
	Line   int
	Column int
}

func (t Token) String() string {
	return fmt.Sprintf("%s@%d:%d", t.Lexeme, t.Line, t.Column)
}

func (t Type) String() string {
	switch t {
	case ILLEGAL:
		return "ILLEGAL"
	case EOF:
		return "EOF"
	case LOWER_IDENT:
		return "identifier"
	case UPPER_IDENT:
		return "capitalized identifier"
	case INT:
		return "integer"
	case FLOAT:
		return "float"
	case STRING:
		return "string"
	case CHAR:
		return "character"
	case OPERATOR:
		return "operator"
	case LPAREN:
		return "("
	case RPAREN:
		return ")"
	case LBRACE:
		return "{"
	case RBRACE:
		return "}"
	case LBRACKET:
		return "["
	case RBRACKET:
		return "]"
	case COMMA:
		return ","
	case DOT:
		return "."
	case DOTDOT:
		return ".."
	case COLON:
		return ":"
	case EQUALS:
		return "="
	case ARROW:
		return "->"
	case BACKSLASH:
		return "\\"
	case PIPE:
		return "|"
	case UNDERSCORE:
		return "_"
	case MODULE:
		return "module"
	case IMPORT:
		return "import"
	case EXPOSING:
		return "exposing"
	case AS:
		return "as"
	case TYPE:
		return "type"
	case ALIAS:
		return "alias"
	case LET:
		return "let"
	case IN:
		return "in"
	case CASE:
		return "case"
	case OF:
		return "of"
	case IF:
		return "if"
	case THEN:
		return "then"
	case ELSE:
		return "else"
	case INFIX:
		return "infix"
	}
	return "unknown"
}
