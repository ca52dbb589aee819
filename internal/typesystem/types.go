package typesystem

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Type is the interface for all types in the system.
type Type interface {
	String() string
	Apply(Subst) Type
	FreeTypeVariables() []TVar
}

// VarClass is the constraint class of a type variable. Class variables
// come from the special signature names number, comparable, appendable
// (optionally suffix-numbered: number1, comparable2, ...).
type VarClass int

const (
	ClassNone VarClass = iota
	ClassComparable
	ClassAppendable
	ClassNumber
)

func (c VarClass) String() string {
	switch c {
	case ClassNumber:
		return "number"
	case ClassComparable:
		return "comparable"
	case ClassAppendable:
		return "appendable"
	}
	return ""
}

// ClassFromName reports the constraint class a source-level type variable
// name carries. Suffix digits disambiguate independent variables within
// one signature and do not change the class.
func ClassFromName(name string) VarClass {
	base := strings.TrimRight(name, "0123456789")
	switch base {
	case "number":
		return ClassNumber
	case "comparable":
		return ClassComparable
	case "appendable":
		return ClassAppendable
	}
	return ClassNone
}

// TVar is a type variable. Rigid variables come from explicit signatures
// and only unify with themselves; flexible variables are substitutable.
type TVar struct {
	Name  string
	Rigid bool
	Class VarClass
}

func (t TVar) String() string { return t.Name }

func (t TVar) Apply(s Subst) Type {
	return applyWithCycleCheck(t, s, nil)
}

func (t TVar) FreeTypeVariables() []TVar {
	return []TVar{t}
}

// TCon is a named type constant. Underlying is non-nil for type aliases
// and makes the alias transparent to unification; TypeParams names the
// alias parameters substituted during expansion.
type TCon struct {
	Name       string
	Module     string // declaring module; part of the nominal identity when set
	Underlying Type
	TypeParams []string
}

func (t TCon) String() string { return t.Name }

func (t TCon) Apply(s Subst) Type {
	return applyWithCycleCheck(t, s, nil)
}

func (t TCon) FreeTypeVariables() []TVar { return nil }

// TApp is a type application: `List Int` is TApp{List, [Int]}.
type TApp struct {
	Ctor Type
	Args []Type
}

func (t TApp) String() string {
	parts := make([]string, 0, len(t.Args)+1)
	parts = append(parts, t.Ctor.String())
	for _, a := range t.Args {
		s := a.String()
		if needsParens(a) {
			s = "(" + s + ")"
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, " ")
}

func needsParens(t Type) bool {
	switch t.(type) {
	case TApp, TFunc:
		return true
	}
	return false
}

func (t TApp) Apply(s Subst) Type {
	return applyWithCycleCheck(t, s, nil)
}

func (t TApp) FreeTypeVariables() []TVar {
	vars := t.Ctor.FreeTypeVariables()
	for _, a := range t.Args {
		vars = append(vars, a.FreeTypeVariables()...)
	}
	return uniqueTVars(vars)
}

// TFunc is a single arrow; multi-parameter functions are curried chains.
type TFunc struct {
	Param  Type
	Result Type
}

func (t TFunc) String() string {
	param := t.Param.String()
	if _, ok := t.Param.(TFunc); ok {
		param = "(" + param + ")"
	}
	return param + " -> " + t.Result.String()
}

func (t TFunc) Apply(s Subst) Type {
	return applyWithCycleCheck(t, s, nil)
}

func (t TFunc) FreeTypeVariables() []TVar {
	vars := t.Param.FreeTypeVariables()
	vars = append(vars, t.Result.FreeTypeVariables()...)
	return uniqueTVars(vars)
}

// MakeFunc builds a curried function type from parameter types and a result.
func MakeFunc(result Type, params ...Type) Type {
	t := result
	for i := len(params) - 1; i >= 0; i-- {
		t = TFunc{Param: params[i], Result: t}
	}
	return t
}

// UncurryParams splits a curried function type into its parameter list
// and final result.
func UncurryParams(t Type) ([]Type, Type) {
	var params []Type
	for {
		fn, ok := t.(TFunc)
		if !ok {
			return params, t
		}
		params = append(params, fn.Param)
		t = fn.Result
	}
}

// TTuple is a tuple type.
type TTuple struct {
	Elems []Type
}

func (t TTuple) String() string {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = e.String()
	}
	return "( " + strings.Join(parts, ", ") + " )"
}

func (t TTuple) Apply(s Subst) Type {
	return applyWithCycleCheck(t, s, nil)
}

func (t TTuple) FreeTypeVariables() []TVar {
	var vars []TVar
	for _, e := range t.Elems {
		vars = append(vars, e.FreeTypeVariables()...)
	}
	return uniqueTVars(vars)
}

// TRecord is a record type. Row non-nil marks an extensible record whose
// row variable stands for "the rest of the fields".
type TRecord struct {
	Fields map[string]Type
	Row    Type
}

func (t TRecord) String() string {
	keys := make([]string, 0, len(t.Fields))
	for k := range t.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fields := make([]string, 0, len(keys))
	for _, k := range keys {
		fields = append(fields, fmt.Sprintf("%s : %s", k, t.Fields[k]))
	}

	if t.Row != nil {
		if len(fields) == 0 {
			return fmt.Sprintf("{ %s }", t.Row)
		}
		return fmt.Sprintf("{ %s | %s }", t.Row, strings.Join(fields, ", "))
	}
	if len(fields) == 0 {
		return "{}"
	}
	return fmt.Sprintf("{ %s }", strings.Join(fields, ", "))
}

func (t TRecord) Apply(s Subst) Type {
	return applyWithCycleCheck(t, s, nil)
}

func (t TRecord) FreeTypeVariables() []TVar {
	keys := make([]string, 0, len(t.Fields))
	for k := range t.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var vars []TVar
	for _, k := range keys {
		vars = append(vars, t.Fields[k].FreeTypeVariables()...)
	}
	if t.Row != nil {
		vars = append(vars, t.Row.FreeTypeVariables()...)
	}
	return uniqueTVars(vars)
}

// TUnit is the unit type ().
type TUnit struct{}

func (TUnit) String() string             { return "()" }
func (t TUnit) Apply(Subst) Type         { return t }
func (TUnit) FreeTypeVariables() []TVar  { return nil }

// TError is the placeholder assigned after a reported failure. It unifies
// with anything so one mistake does not cascade through a declaration.
type TError struct{}

func (TError) String() string            { return "?" }
func (t TError) Apply(Subst) Type        { return t }
func (TError) FreeTypeVariables() []TVar { return nil }

// IsError reports whether the type is (or trivially contains at the root)
// the error placeholder.
func IsError(t Type) bool {
	_, ok := t.(TError)
	return ok
}

// Subst is a mapping from type variable names to types.
type Subst map[string]Type

// Compose combines two substitutions: applying the result equals applying
// s2 first, then s1.
func (s1 Subst) Compose(s2 Subst) Subst {
	out := Subst{}
	for k, v := range s2 {
		out[k] = v
	}
	for k, v := range s1 {
		out[k] = v.Apply(s2)
	}
	return out
}

// applyWithCycleCheck applies a substitution with cycle detection so a
// malformed substitution can never send Apply into infinite recursion.
func applyWithCycleCheck(t Type, s Subst, visited map[string]bool) Type {
	if t == nil || len(s) == 0 {
		return t
	}

	switch typ := t.(type) {
	case TVar:
		if visited[typ.Name] {
			return typ
		}
		replacement, ok := s[typ.Name]
		if !ok {
			return typ
		}
		if tv, ok := replacement.(TVar); ok && tv.Name == typ.Name {
			return typ
		}
		next := copyVisited(visited)
		next[typ.Name] = true
		return applyWithCycleCheck(replacement, s, next)

	case TCon:
		return typ

	case TApp:
		args := make([]Type, len(typ.Args))
		for i, a := range typ.Args {
			args[i] = applyWithCycleCheck(a, s, visited)
		}
		return TApp{Ctor: applyWithCycleCheck(typ.Ctor, s, visited), Args: args}

	case TFunc:
		return TFunc{
			Param:  applyWithCycleCheck(typ.Param, s, visited),
			Result: applyWithCycleCheck(typ.Result, s, visited),
		}

	case TTuple:
		elems := make([]Type, len(typ.Elems))
		for i, e := range typ.Elems {
			elems[i] = applyWithCycleCheck(e, s, visited)
		}
		return TTuple{Elems: elems}

	case TRecord:
		fields := make(map[string]Type, len(typ.Fields))
		for k, v := range typ.Fields {
			fields[k] = applyWithCycleCheck(v, s, visited)
		}
		var row Type
		if typ.Row != nil {
			row = applyWithCycleCheck(typ.Row, s, visited)
			// A row resolved to a record folds its fields in.
			if rec, ok := row.(TRecord); ok {
				for k, v := range rec.Fields {
					if _, exists := fields[k]; !exists {
						fields[k] = v
					}
				}
				row = rec.Row
			}
		}
		return TRecord{Fields: fields, Row: row}

	default:
		return t.Apply(s)
	}
}

func copyVisited(m map[string]bool) map[string]bool {
	out := make(map[string]bool, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	return out
}

// UnwrapUnderlying follows TCon.Underlying links until reaching a
// non-alias type.
func UnwrapUnderlying(t Type) Type {
	for {
		tCon, ok := t.(TCon)
		if !ok || tCon.Underlying == nil {
			return t
		}
		t = tCon.Underlying
	}
}

// ExpandAlias expands an applied alias by substituting type arguments into
// its underlying type: `Named a = { a | name : String }` applied to T
// becomes `{ T | name : String }`. Non-aliases come back unchanged.
func ExpandAlias(t Type) Type {
	switch typ := t.(type) {
	case TCon:
		if typ.Underlying != nil && len(typ.TypeParams) == 0 {
			return typ.Underlying
		}
	case TApp:
		tCon, ok := typ.Ctor.(TCon)
		if !ok || tCon.Underlying == nil {
			return t
		}
		if len(typ.Args) < len(tCon.TypeParams) {
			// Partial alias application cannot be expanded.
			return t
		}
		subst := make(Subst, len(tCon.TypeParams))
		for i, p := range tCon.TypeParams {
			subst[p] = typ.Args[i]
		}
		return tCon.Underlying.Apply(subst)
	}
	return t
}

func uniqueTVars(vars []TVar) []TVar {
	seen := make(map[string]bool, len(vars))
	out := make([]TVar, 0, len(vars))
	for _, v := range vars {
		if !seen[v.Name] {
			seen[v.Name] = true
			out = append(out, v)
		}
	}
	return out
}

// FreshNamer hands out unique flexible type variable names within one
// inference run.
type FreshNamer struct {
	counter int
}

func (f *FreshNamer) Fresh() TVar {
	f.counter++
	return TVar{Name: "t" + strconv.Itoa(f.counter)}
}

func (f *FreshNamer) FreshWithClass(c VarClass) TVar {
	f.counter++
	return TVar{Name: "t" + strconv.Itoa(f.counter), Class: c}
}
