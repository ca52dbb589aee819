package forest

import (
	"sync"

	"github.com/lumen-lang/lumen/internal/diag"
	"github.com/lumen-lang/lumen/internal/parser"
)

// Forest owns every module of one analysis session, keyed by URI, plus
// the resolved import graph between them. It is the single owner: all
// registration and invalidation goes through it.
type Forest struct {
	mu      sync.RWMutex
	modules map[string]*Module
	byName  map[string]string // module name -> URI, last registration wins
	version uint64
}

func New() *Forest {
	return &Forest{
		modules: make(map[string]*Module),
		byName:  make(map[string]string),
	}
}

// AddOrReplace parses the source and stores the module under uri,
// replacing any previous registration wholesale. The module's own caches
// and those of every transitive dependent are invalidated; other
// modules' trees are untouched.
func (f *Forest) AddOrReplace(uri, src string) *Module {
	program, parseDiags := parser.Parse(uri, src)

	f.mu.Lock()
	defer f.mu.Unlock()

	if old, ok := f.modules[uri]; ok && f.byName[old.Name] == uri {
		delete(f.byName, old.Name)
	}

	f.version++
	m := &Module{
		URI:        uri,
		Name:       program.Name,
		Program:    program,
		Version:    f.version,
		Gen:        f.version,
		ParseDiags: parseDiags,
	}
	f.modules[uri] = m
	f.byName[m.Name] = uri

	f.invalidateDependentsLocked(m.Name, map[string]bool{uri: true})
	return m
}

// invalidateDependentsLocked resets the derived state of every module
// that (transitively) imports the named module.
func (f *Forest) invalidateDependentsLocked(name string, done map[string]bool) {
	for uri, m := range f.modules {
		if done[uri] || !importsName(m, name) {
			continue
		}
		done[uri] = true
		m.invalidate(f.version)
		f.invalidateDependentsLocked(m.Name, done)
	}
}

func importsName(m *Module, name string) bool {
	if m.Program == nil {
		return false
	}
	for _, imp := range m.Program.Imports {
		if imp.ModuleName == name {
			return true
		}
	}
	return false
}

// Get returns the module registered under uri.
func (f *Forest) Get(uri string) (*Module, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	m, ok := f.modules[uri]
	return m, ok
}

// ByName returns the module with the given declared module name.
func (f *Forest) ByName(name string) (*Module, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	uri, ok := f.byName[name]
	if !ok {
		return nil, false
	}
	m, ok := f.modules[uri]
	return m, ok
}

// URIs returns every registered module key.
func (f *Forest) URIs() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]string, 0, len(f.modules))
	for uri := range f.modules {
		out = append(out, uri)
	}
	return out
}

// ResolveImports resolves the module's import statements against the
// forest, memoized per module. Cyclic imports terminate through the
// resolving flag: a module already being resolved is returned as-is
// rather than recursed into. Unresolved targets become pending
// ImportMissing diagnostics on the importer, never an error.
func (f *Forest) ResolveImports(m *Module) []ResolvedImport {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resolveImportsLocked(m)
	return m.Imports
}

func (f *Forest) resolveImportsLocked(m *Module) {
	if m.state != importsPending {
		return
	}
	m.state = importsResolving

	seen := make(map[string]bool)
	for _, imp := range m.Program.Imports {
		if seen[imp.ModuleName] {
			m.ImportDiags = append(m.ImportDiags, diag.New(
				diag.DuplicateImport,
				parser.TokenSpan(m.URI, imp.NameTok),
				imp.ModuleName,
			))
			continue
		}
		seen[imp.ModuleName] = true

		ri := ResolvedImport{Import: imp}
		if uri, ok := f.byName[imp.ModuleName]; ok {
			target := f.modules[uri]
			ri.Target = target
			f.resolveImportsLocked(target)
		} else {
			m.ImportDiags = append(m.ImportDiags, diag.New(
				diag.ImportMissing,
				parser.TokenSpan(m.URI, imp.NameTok),
				imp.ModuleName,
			))
		}
		m.Imports = append(m.Imports, ri)
	}
	m.state = importsResolved
}
