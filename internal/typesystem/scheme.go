package typesystem

import (
	"sort"
	"strings"
)

// Scheme is a polymorphic type: a body with a set of universally
// quantified variable names. Monomorphic symbols have an empty Vars list.
type Scheme struct {
	Vars []string
	T    Type
}

func MonoScheme(t Type) Scheme {
	return Scheme{T: t}
}

func (s Scheme) String() string {
	if len(s.Vars) == 0 {
		return s.T.String()
	}
	return "forall " + strings.Join(s.Vars, " ") + ". " + s.T.String()
}

// FreeTypeVariables of a scheme excludes its quantified variables.
func (s Scheme) FreeTypeVariables() []TVar {
	bound := make(map[string]bool, len(s.Vars))
	for _, v := range s.Vars {
		bound[v] = true
	}
	var out []TVar
	for _, v := range s.T.FreeTypeVariables() {
		if !bound[v.Name] {
			out = append(out, v)
		}
	}
	return out
}

// Apply substitutes only the free (unquantified) variables.
func (s Scheme) Apply(subst Subst) Scheme {
	filtered := make(Subst, len(subst))
	bound := make(map[string]bool, len(s.Vars))
	for _, v := range s.Vars {
		bound[v] = true
	}
	for k, v := range subst {
		if !bound[k] {
			filtered[k] = v
		}
	}
	return Scheme{Vars: s.Vars, T: s.T.Apply(filtered)}
}

// Generalize quantifies every flexible variable of t that does not occur
// free in the environment. Rigid variables stay rigid: they belong to an
// enclosing signature.
func Generalize(t Type, envFree map[string]bool) Scheme {
	var vars []string
	for _, v := range t.FreeTypeVariables() {
		if v.Rigid {
			continue
		}
		if envFree[v.Name] {
			continue
		}
		vars = append(vars, v.Name)
	}
	sort.Strings(vars)
	return Scheme{Vars: vars, T: t}
}

// Instantiate replaces every quantified variable with a fresh flexible
// variable so separate uses of a polymorphic symbol cannot interfere.
// Constraint classes carried by the quantified variables survive.
func (s Scheme) Instantiate(namer *FreshNamer) Type {
	if len(s.Vars) == 0 {
		return s.T
	}
	quantified := make(map[string]bool, len(s.Vars))
	for _, v := range s.Vars {
		quantified[v] = true
	}

	subst := make(Subst, len(s.Vars))
	for _, v := range s.T.FreeTypeVariables() {
		if !quantified[v.Name] {
			continue
		}
		class := v.Class
		if class == ClassNone {
			class = ClassFromName(v.Name)
		}
		subst[v.Name] = namer.FreshWithClass(class)
	}
	return s.T.Apply(subst)
}

// UnresolvedClassVars returns the constrained variables still free in t.
// A constrained variable alive at a generalization boundary of a
// monomorphic binding is an ambiguous type.
func UnresolvedClassVars(t Type) []TVar {
	var out []TVar
	for _, v := range t.FreeTypeVariables() {
		if v.Rigid {
			continue
		}
		class := v.Class
		if class == ClassNone {
			class = ClassFromName(v.Name)
		}
		if class != ClassNone {
			out = append(out, v)
		}
	}
	return out
}
