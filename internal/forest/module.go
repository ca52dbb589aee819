package forest

import (
	"github.com/lumen-lang/lumen/internal/ast"
	"github.com/lumen-lang/lumen/internal/diag"
	"github.com/lumen-lang/lumen/internal/symbols"
)

type resolveState int

const (
	importsPending resolveState = iota
	importsResolving
	importsResolved
)

// ResolvedImport pairs an import statement with its target module.
// Target is nil when the module is not in the forest; the pending
// ImportMissing diagnostic lives on the importer.
type ResolvedImport struct {
	Import *ast.Import
	Target *Module
}

// Qualifier returns the name under which the import's symbols are
// addressed: the alias when present, else the full dotted module name.
func (r *ResolvedImport) Qualifier() string {
	return r.Import.Qualifier()
}

// Module is one analyzed compilation unit. It is replaced wholesale when
// its source changes; no partial mutation.
type Module struct {
	URI     string
	Name    string
	Program *ast.Module
	Version uint64

	// Gen advances whenever the module's derived state is dropped, either
	// by replacement or by a dependency changing underneath it. Analysis
	// caches key on (URI, Gen).
	Gen uint64

	// ParseDiags are the syntactic diagnostics recorded at parse time.
	ParseDiags []diag.Diagnostic

	// Table holds the module's top-level symbols once declared by the
	// analyzer. Nil until then.
	Table *symbols.ModuleTable

	// Imports is the resolved import list, populated by ResolveImports.
	// ImportDiags carries the pending ImportMissing / DuplicateImport
	// findings discovered while resolving.
	Imports     []ResolvedImport
	ImportDiags []diag.Diagnostic

	state resolveState
}

// invalidate drops everything derived from other modules or from the
// analyzer so the next analysis rebuilds it.
func (m *Module) invalidate(gen uint64) {
	m.Table = nil
	m.Imports = nil
	m.ImportDiags = nil
	m.state = importsPending
	m.Gen = gen
}

// ExposesValue reports whether importers may see the named value,
// constructor or operator.
func (m *Module) ExposesValue(name string) bool {
	ex := m.exposing()
	if ex == nil {
		return false
	}
	if ex.All {
		return true
	}
	for _, item := range ex.Items {
		if item.Name == name {
			return true
		}
		// `Type(..)` exposes the type's constructors as values.
		if item.OpenCtors && m.Table != nil {
			if tsym, ok := m.Table.Type(item.Name); ok {
				for _, ctor := range tsym.Ctors {
					if ctor == name {
						return true
					}
				}
			}
		}
	}
	return false
}

// ExposesType reports whether importers may see the named type or alias.
func (m *Module) ExposesType(name string) bool {
	ex := m.exposing()
	if ex == nil {
		return false
	}
	if ex.All {
		return true
	}
	for _, item := range ex.Items {
		if item.Name == name {
			return true
		}
	}
	return false
}

func (m *Module) exposing() *ast.ExposingList {
	if m.Program == nil {
		return nil
	}
	return m.Program.Exposing
}
