package symbols

import (
	"github.com/lumen-lang/lumen/internal/ast"
	"github.com/lumen-lang/lumen/internal/typesystem"
)

type SymbolKind int

const (
	ValueSymbol SymbolKind = iota
	TypeSymbol
	AliasSymbol
	ConstructorSymbol
	OperatorSymbol
	ModuleSymbol
)

func (k SymbolKind) String() string {
	switch k {
	case ValueSymbol:
		return "value"
	case TypeSymbol:
		return "type"
	case AliasSymbol:
		return "type alias"
	case ConstructorSymbol:
		return "constructor"
	case OperatorSymbol:
		return "operator"
	case ModuleSymbol:
		return "module"
	}
	return "unknown"
}

// Fixity is an operator's parse-time behavior, declared separately from
// its implementing function.
type Fixity struct {
	Assoc      string // "left", "right" or "non"
	Precedence int
}

// Symbol is one resolvable name.
type Symbol struct {
	Name   string
	Kind   SymbolKind
	Module string // declaring module name
	Scheme typesystem.Scheme
	Fixity *Fixity // operators only
	Node   ast.Node

	// FuncName names the implementing function for operator symbols.
	FuncName string
	// Ctors lists constructor names for type symbols.
	Ctors []string
	// TypeParams lists declared parameters for type and alias symbols.
	TypeParams []string
}

// Placeholder builds an unknown-typed symbol used to keep analysis going
// after a resolution failure.
func Placeholder(name string) Symbol {
	return Symbol{
		Name:   name,
		Kind:   ValueSymbol,
		Scheme: typesystem.MonoScheme(typesystem.TError{}),
	}
}
