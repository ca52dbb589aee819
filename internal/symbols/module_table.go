package symbols

import "sort"

// ModuleTable holds one module's top-level symbols. Values and
// constructors share a namespace; types and aliases share another;
// operators have their own.
type ModuleTable struct {
	ModuleName string
	Values     map[string]Symbol
	Types      map[string]Symbol
	Operators  map[string]Symbol
}

func NewModuleTable(moduleName string) *ModuleTable {
	return &ModuleTable{
		ModuleName: moduleName,
		Values:     make(map[string]Symbol),
		Types:      make(map[string]Symbol),
		Operators:  make(map[string]Symbol),
	}
}

// DefineValue registers a value or constructor. The previous occupant is
// returned when the name is already taken, so the caller can report a
// redefinition at the new declaration.
func (t *ModuleTable) DefineValue(sym Symbol) (Symbol, bool) {
	if prev, ok := t.Values[sym.Name]; ok {
		return prev, false
	}
	t.Values[sym.Name] = sym
	return Symbol{}, true
}

func (t *ModuleTable) DefineType(sym Symbol) (Symbol, bool) {
	if prev, ok := t.Types[sym.Name]; ok {
		return prev, false
	}
	t.Types[sym.Name] = sym
	return Symbol{}, true
}

func (t *ModuleTable) DefineOperator(sym Symbol) (Symbol, bool) {
	if prev, ok := t.Operators[sym.Name]; ok {
		return prev, false
	}
	t.Operators[sym.Name] = sym
	return Symbol{}, true
}

// SetValue replaces a symbol in place (used when a later pass fills in an
// inferred scheme).
func (t *ModuleTable) SetValue(sym Symbol) {
	t.Values[sym.Name] = sym
}

func (t *ModuleTable) SetType(sym Symbol) {
	t.Types[sym.Name] = sym
}

func (t *ModuleTable) Value(name string) (Symbol, bool) {
	s, ok := t.Values[name]
	return s, ok
}

func (t *ModuleTable) Type(name string) (Symbol, bool) {
	s, ok := t.Types[name]
	return s, ok
}

func (t *ModuleTable) Operator(name string) (Symbol, bool) {
	s, ok := t.Operators[name]
	return s, ok
}

// ValueNames returns the defined value names in sorted order.
func (t *ModuleTable) ValueNames() []string {
	names := make([]string, 0, len(t.Values))
	for n := range t.Values {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// TypeNames returns the defined type names in sorted order.
func (t *ModuleTable) TypeNames() []string {
	names := make([]string, 0, len(t.Types))
	for n := range t.Types {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Has reports whether the name is defined in any namespace.
func (t *ModuleTable) Has(name string) bool {
	if _, ok := t.Values[name]; ok {
		return true
	}
	if _, ok := t.Types[name]; ok {
		return true
	}
	_, ok := t.Operators[name]
	return ok
}
