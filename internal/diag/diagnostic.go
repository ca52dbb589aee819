package diag

import (
	"fmt"
	"strings"

	"github.com/lumen-lang/lumen/internal/source"
)

// Kind is the closed taxonomy of diagnostics the engine can produce.
// Each kind carries a fixed-arity ordered argument list (see templates).
type Kind uint16

const (
	UnknownKind Kind = 0

	// Syntactic
	ParseError Kind = 1001 // args: message

	// Semantic: resolution
	ImportMissing       Kind = 2001 // args: module name
	DuplicateImport     Kind = 2002 // args: module name
	Redefinition        Kind = 2003 // args: name
	UnresolvedReference Kind = 2004 // args: name
	AmbiguousReference  Kind = 2005 // args: name, candidate modules (joined)

	// Semantic: inference
	TypeMismatch  Kind = 3001 // args: expected, actual
	InfiniteType  Kind = 3002 // args: variable, type
	AmbiguousType Kind = 3003 // args: name

	// Suggestions
	UnusedImport Kind = 4001 // args: module name
)

func (k Kind) String() string {
	switch k {
	case ParseError:
		return "ParseError"
	case ImportMissing:
		return "ImportMissing"
	case DuplicateImport:
		return "DuplicateImport"
	case Redefinition:
		return "Redefinition"
	case UnresolvedReference:
		return "UnresolvedReference"
	case AmbiguousReference:
		return "AmbiguousReference"
	case TypeMismatch:
		return "TypeMismatch"
	case InfiniteType:
		return "InfiniteType"
	case AmbiguousType:
		return "AmbiguousType"
	case UnusedImport:
		return "UnusedImport"
	}
	return "Unknown"
}

type Severity uint8

const (
	SevHint Severity = iota + 1
	SevWarning
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevHint:
		return "hint"
	case SevWarning:
		return "warning"
	case SevError:
		return "error"
	}
	return "unknown"
}

// templates maps each kind to its human-readable message template.
// %s slots are filled from Args in order.
var templates = map[Kind]string{
	ParseError:          "parse error: %s",
	ImportMissing:       "cannot find module %q, is it missing from the project?",
	DuplicateImport:     "module %q is imported more than once",
	Redefinition:        "the name %q is defined more than once in the same scope",
	UnresolvedReference: "cannot find %q in scope",
	AmbiguousReference:  "the name %q is exposed by more than one import: %s",
	TypeMismatch:        "type mismatch: expected %s but found %s",
	InfiniteType:        "infinite type: %s occurs in %s",
	AmbiguousType:       "ambiguous type for %q: a constrained type variable was never resolved",
	UnusedImport:        "the import of %q is never used",
}

// Diagnostic is one positioned finding. Identity for deduplication and
// comparison is (Kind, Span, Args) — Severity and the rendered message
// are derived.
type Diagnostic struct {
	Kind     Kind
	Span     source.Span
	Args     []string
	Severity Severity
}

// New builds a diagnostic with the kind's default severity.
func New(kind Kind, span source.Span, args ...string) Diagnostic {
	sev := SevError
	if kind == UnusedImport {
		sev = SevHint
	}
	return Diagnostic{Kind: kind, Span: span, Args: args, Severity: sev}
}

// Message renders the diagnostic through its kind's template.
func (d Diagnostic) Message() string {
	tmpl, ok := templates[d.Kind]
	if !ok {
		return strings.Join(d.Args, " ")
	}
	args := make([]any, len(d.Args))
	for i, a := range d.Args {
		args[i] = a
	}
	return fmt.Sprintf(tmpl, args...)
}

// Key is the identity used for deduplication and test comparison.
func (d Diagnostic) Key() string {
	return fmt.Sprintf("%s|%s|%s", d.Kind, d.Span, strings.Join(d.Args, "\x1f"))
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s:%s: %s: %s", d.Span.URI, d.Span.Start, d.Severity, d.Message())
}

// Equal is structural equality on the identity key.
func (d Diagnostic) Equal(other Diagnostic) bool {
	return d.Key() == other.Key()
}
