package forest

import (
	"sort"

	"github.com/lumen-lang/lumen/internal/diag"
	"github.com/lumen-lang/lumen/internal/parser"
	"github.com/lumen-lang/lumen/internal/symbols"
)

type namespace int

const (
	nsValue namespace = iota
	nsType
	nsOperator
)

// candidate names an imported symbol reachable bare, together with the
// import that contributed it. The symbol itself is fetched from the
// target table at query time, because value schemes are filled in as
// their modules are inferred.
type candidate struct {
	name string
	ns   namespace
	ri   *ResolvedImport
}

func (c candidate) symbol() (symbols.Symbol, bool) {
	table := c.ri.Target.Table
	switch c.ns {
	case nsType:
		return table.Type(c.name)
	case nsOperator:
		return table.Operator(c.name)
	}
	return table.Value(c.name)
}

// Lookup is the outcome of a view query. Ambiguous means two or more
// unaliased imports expose the name; Candidates then lists the exposing
// module names in sorted order and Sym is unset.
type Lookup struct {
	Sym        symbols.Symbol
	Found      bool
	Ambiguous  bool
	Candidates []string
}

// QualifiedView is the imported-symbol surface of one module: every
// exposed import symbol keyed bare, plus each import reachable through
// its qualifier. Own top-level symbols are not included; the resolver
// consults the module's own table before the view.
//
// The view is rebuilt per analysis generation. Usage marks accumulate
// during inference and feed the unused-import suggestion pass.
type QualifiedView struct {
	owner      *Module
	values     map[string][]candidate
	types      map[string][]candidate
	operators  map[string][]candidate
	qualifiers map[string]*ResolvedImport
	used       map[*ResolvedImport]bool
	diags      []diag.Diagnostic
}

// BuildQualifiedView constructs the view from the module's resolved
// imports. Target tables must already hold their declared names.
// Exposing a name the target does not define yields an
// UnresolvedReference on the exposing entry.
func BuildQualifiedView(m *Module) *QualifiedView {
	v := &QualifiedView{
		owner:      m,
		values:     make(map[string][]candidate),
		types:      make(map[string][]candidate),
		operators:  make(map[string][]candidate),
		qualifiers: make(map[string]*ResolvedImport),
		used:       make(map[*ResolvedImport]bool),
	}
	for i := range m.Imports {
		ri := &m.Imports[i]
		// Missing targets stay addressable by qualifier so references
		// through them resolve to a placeholder instead of piling a
		// second diagnostic onto the pending ImportMissing.
		v.qualifiers[ri.Qualifier()] = ri
		if ri.Target == nil || ri.Target.Table == nil {
			continue
		}
		v.addExposed(ri)
	}
	return v
}

func (v *QualifiedView) addExposed(ri *ResolvedImport) {
	ex := ri.Import.Exposing
	if ex == nil {
		return
	}
	target := ri.Target
	table := target.Table

	if ex.All {
		for _, name := range table.ValueNames() {
			if target.ExposesValue(name) {
				v.values[name] = append(v.values[name], candidate{name, nsValue, ri})
			}
		}
		for _, name := range table.TypeNames() {
			if target.ExposesType(name) {
				v.types[name] = append(v.types[name], candidate{name, nsType, ri})
			}
		}
		for name := range table.Operators {
			if target.ExposesValue(name) {
				v.operators[name] = append(v.operators[name], candidate{name, nsOperator, ri})
			}
		}
		return
	}

	for _, item := range ex.Items {
		found := false
		if _, ok := table.Value(item.Name); ok && target.ExposesValue(item.Name) {
			v.values[item.Name] = append(v.values[item.Name], candidate{item.Name, nsValue, ri})
			found = true
		}
		if _, ok := table.Operator(item.Name); ok && target.ExposesValue(item.Name) {
			v.operators[item.Name] = append(v.operators[item.Name], candidate{item.Name, nsOperator, ri})
			found = true
		}
		if tsym, ok := table.Type(item.Name); ok && target.ExposesType(item.Name) {
			v.types[item.Name] = append(v.types[item.Name], candidate{item.Name, nsType, ri})
			found = true
			if item.OpenCtors {
				for _, ctorName := range tsym.Ctors {
					if _, ok := table.Value(ctorName); ok {
						v.values[ctorName] = append(v.values[ctorName], candidate{ctorName, nsValue, ri})
					}
				}
			}
		}
		if !found {
			v.diags = append(v.diags, diag.New(
				diag.UnresolvedReference,
				parser.TokenSpan(v.owner.URI, item.Token),
				item.Name,
			))
		}
	}
}

// Diags returns the findings recorded while building the view.
func (v *QualifiedView) Diags() []diag.Diagnostic {
	return v.diags
}

// Qualified returns the import addressed by the given qualifier. The
// returned import's Target is nil when the module is missing from the
// forest.
func (v *QualifiedView) Qualified(qualifier string) (*ResolvedImport, bool) {
	ri, ok := v.qualifiers[qualifier]
	return ri, ok
}

// Value resolves a bare imported value or constructor name.
func (v *QualifiedView) Value(name string) Lookup {
	return v.lookup(v.values[name])
}

// Type resolves a bare imported type or alias name.
func (v *QualifiedView) Type(name string) Lookup {
	return v.lookup(v.types[name])
}

// Operator resolves an imported operator.
func (v *QualifiedView) Operator(name string) Lookup {
	return v.lookup(v.operators[name])
}

// lookup classifies a candidate list. Candidates from one import count
// as a single match; distinct imports make the name ambiguous rather
// than silently picking one.
func (v *QualifiedView) lookup(cands []candidate) Lookup {
	if len(cands) == 0 {
		return Lookup{}
	}
	first := cands[0]
	distinct := false
	for _, c := range cands[1:] {
		if c.ri != first.ri {
			distinct = true
			break
		}
	}
	if !distinct {
		sym, ok := first.symbol()
		if !ok {
			return Lookup{}
		}
		v.MarkUsed(first.ri)
		return Lookup{Sym: sym, Found: true}
	}
	names := make(map[string]bool)
	for _, c := range cands {
		names[c.ri.Import.ModuleName] = true
	}
	sorted := make([]string, 0, len(names))
	for n := range names {
		sorted = append(sorted, n)
	}
	sort.Strings(sorted)
	return Lookup{Ambiguous: true, Candidates: sorted}
}

// ExposesBare reports whether an unresolved import could be the source
// of the given bare name. Used to suppress UnresolvedReference cascades
// behind a pending ImportMissing.
func (v *QualifiedView) ExposesBare(name string) bool {
	for i := range v.owner.Imports {
		ri := &v.owner.Imports[i]
		if ri.Target != nil || ri.Import.Exposing == nil {
			continue
		}
		if ri.Import.Exposing.All {
			return true
		}
		for _, item := range ri.Import.Exposing.Items {
			if item.Name == name {
				return true
			}
		}
	}
	return false
}

// MarkUsed records that the import contributed a resolved reference.
func (v *QualifiedView) MarkUsed(ri *ResolvedImport) {
	if ri != nil {
		v.used[ri] = true
	}
}

// Unused returns the imports that never contributed a resolution, in
// source order. Imports whose target is missing are skipped; the
// pending ImportMissing already covers them.
func (v *QualifiedView) Unused() []*ResolvedImport {
	var out []*ResolvedImport
	for i := range v.owner.Imports {
		ri := &v.owner.Imports[i]
		if ri.Target == nil {
			continue
		}
		if !v.used[ri] {
			out = append(out, ri)
		}
	}
	return out
}
