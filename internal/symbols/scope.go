package symbols

// Scope is one frame of local bindings (function parameters, let
// bindings, case patterns, lambda parameters) chained to an enclosing
// frame. Lookup walks innermost-out, so an inner binding shadows an
// outer one; binding a name twice in the same frame is a redefinition,
// which Bind surfaces to the caller.
type Scope struct {
	outer *Scope
	names map[string]Symbol
}

func NewScope(outer *Scope) *Scope {
	return &Scope{outer: outer, names: make(map[string]Symbol)}
}

func (s *Scope) Outer() *Scope {
	return s.outer
}

// Bind inserts a symbol into this frame. It reports false when the name
// is already bound in this same frame (shadowing across frames is legal
// and goes through NewScope instead).
func (s *Scope) Bind(sym Symbol) bool {
	if _, ok := s.names[sym.Name]; ok {
		return false
	}
	s.names[sym.Name] = sym
	return true
}

// Rebind replaces a binding in this frame unconditionally. Used when a
// let binding's provisional monotype is upgraded to its generalized
// scheme after inference.
func (s *Scope) Rebind(sym Symbol) {
	s.names[sym.Name] = sym
}

// Lookup resolves a name through the frame chain, innermost first.
func (s *Scope) Lookup(name string) (Symbol, bool) {
	for cur := s; cur != nil; cur = cur.outer {
		if sym, ok := cur.names[name]; ok {
			return sym, true
		}
	}
	return Symbol{}, false
}

// Walk visits every binding in the chain, innermost frame first. Used to
// collect the environment's free type variables for generalization.
func (s *Scope) Walk(fn func(Symbol)) {
	for cur := s; cur != nil; cur = cur.outer {
		for _, sym := range cur.names {
			fn(sym)
		}
	}
}

// InCurrentFrame reports whether the name is bound in this frame only.
func (s *Scope) InCurrentFrame(name string) bool {
	_, ok := s.names[name]
	return ok
}
