package analyzer

import (
	"sync"

	"github.com/lumen-lang/lumen/internal/diag"
	"github.com/lumen-lang/lumen/internal/forest"
	"github.com/lumen-lang/lumen/internal/parser"
	"github.com/lumen-lang/lumen/internal/typesystem"
)

// Analyzer runs the semantic passes over a forest: declaration of
// top-level symbols, import and scope resolution, and type inference.
// Results are cached per module generation; replacing a module (or any
// of its dependencies) restarts its analysis from scratch.
type Analyzer struct {
	forest *forest.Forest

	mu     sync.Mutex
	states map[string]*moduleState
}

type phase int

const (
	phaseNone phase = iota
	phaseNames
	phaseDeclared
	phaseInferring
	phaseInferred
)

type moduleState struct {
	gen   uint64
	phase phase
	view  *forest.QualifiedView

	declaring bool

	// declDiags come from declaration and resolution: redefinitions,
	// exposing checks, signature type errors. semDiags is the final
	// combined semantic output.
	declDiags []diag.Diagnostic
	semDiags  []diag.Diagnostic
}

func New(f *forest.Forest) *Analyzer {
	return &Analyzer{forest: f, states: make(map[string]*moduleState)}
}

// Syntactic returns the parse-time diagnostics stored on the module.
func (a *Analyzer) Syntactic(m *forest.Module) []diag.Diagnostic {
	return m.ParseDiags
}

// Semantic declares, resolves and infers the module, analyzing its
// dependencies first. Deterministic for fixed forest contents.
func (a *Analyzer) Semantic(m *forest.Module) []diag.Diagnostic {
	a.mu.Lock()
	defer a.mu.Unlock()
	st := a.declare(m)
	return a.infer(m, st)
}

// Suggestion returns the advisory pass: unused imports. It needs the
// semantic pass's usage accounting, so it runs (or reuses) it.
func (a *Analyzer) Suggestion(m *forest.Module) []diag.Diagnostic {
	a.mu.Lock()
	defer a.mu.Unlock()
	st := a.declare(m)
	a.infer(m, st)

	bag := diag.NewBag(0)
	for _, ri := range st.view.Unused() {
		bag.Add(diag.New(
			diag.UnusedImport,
			parser.TokenSpan(m.URI, ri.Import.NameTok),
			ri.Import.ModuleName,
		))
	}
	return bag.Items()
}

// InferType returns the inferred (or declared) type of a top-level
// value declaration.
func (a *Analyzer) InferType(m *forest.Module, declName string) (typesystem.Type, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	st := a.declare(m)
	a.infer(m, st)
	sym, ok := m.Table.Value(declName)
	if !ok || sym.Scheme.T == nil {
		return nil, false
	}
	return sym.Scheme.T, true
}

// state returns the analysis state for the module's current generation,
// discarding any stale one.
func (a *Analyzer) state(m *forest.Module) *moduleState {
	st, ok := a.states[m.URI]
	if !ok || st.gen != m.Gen {
		st = &moduleState{gen: m.Gen}
		a.states[m.URI] = st
	}
	return st
}

// declare brings the module (and, dependency-first, its imports) to the
// declared phase: names registered, imports resolved, alias bodies and
// constructor and signature schemes built, exposing list checked.
// Cyclic imports terminate through the declaring flag; a cycle partner
// is observed with names only, which is sufficient for resolution.
func (a *Analyzer) declare(m *forest.Module) *moduleState {
	st := a.state(m)
	if st.phase >= phaseDeclared || st.declaring {
		return st
	}
	st.declaring = true
	defer func() { st.declaring = false }()

	bag := diag.NewBag(0)
	if st.phase < phaseNames {
		a.declareNames(m, bag)
		st.phase = phaseNames
	}

	a.forest.ResolveImports(m)
	for i := range m.Imports {
		if target := m.Imports[i].Target; target != nil {
			a.declare(target)
		}
	}

	st.view = forest.BuildQualifiedView(m)
	bag.AddAll(st.view.Diags())

	a.completeDecls(m, st, bag)
	a.checkExposing(m, bag)

	st.declDiags = bag.Items()
	st.phase = phaseDeclared
	return st
}
