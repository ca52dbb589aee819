package typesystem

import (
	"fmt"
	"reflect"
	"sync/atomic"
)

// UnifyError reports a failed unification. Expected and Actual are the
// two sides at the point the conflict was detected; Infinite marks an
// occurs-check failure.
type UnifyError struct {
	Expected Type
	Actual   Type
	Infinite bool
	Var      string // the offending variable for occurs-check failures
}

func (e *UnifyError) Error() string {
	if e.Infinite {
		return fmt.Sprintf("infinite type: %s occurs in %s", e.Var, e.Actual)
	}
	return fmt.Sprintf("cannot unify %s with %s", e.Expected, e.Actual)
}

func errMismatch(expected, actual Type) error {
	return &UnifyError{Expected: expected, Actual: actual}
}

// typePair tracks a pair of types under comparison for co-induction.
type typePair struct {
	t1 Type
	t2 Type
}

// Unify finds a substitution making t1 (expected) and t2 (actual) equal,
// or fails with a *UnifyError. The error placeholder TError unifies with
// anything so reported failures do not cascade.
func Unify(t1, t2 Type) (Subst, error) {
	return unifyInternal(t1, t2, nil)
}

func unifyInternal(t1, t2 Type, visited []typePair) (Subst, error) {
	// Co-induction: a pair already on the comparison stack is assumed equal.
	for _, p := range visited {
		if reflect.DeepEqual(p.t1, t1) && reflect.DeepEqual(p.t2, t2) {
			return Subst{}, nil
		}
	}
	visited = append(visited, typePair{t1: t1, t2: t2})

	if IsError(t1) || IsError(t2) {
		return Subst{}, nil
	}
	if reflect.DeepEqual(t1, t2) {
		return Subst{}, nil
	}

	// Aliases are transparent: expand before structural comparison, except
	// when both sides are the same named constant. Nominal types are keyed
	// by (module, name); a missing module matches anything so prelude and
	// builtin constants stay module-less.
	if c1, ok := t1.(TCon); ok {
		if c2, ok := t2.(TCon); ok && c1.Name == c2.Name {
			if c1.Module == "" || c2.Module == "" || c1.Module == c2.Module {
				return Subst{}, nil
			}
		}
	}
	if e1 := ExpandAlias(t1); !reflect.DeepEqual(e1, t1) {
		return unifyInternal(e1, t2, visited)
	}
	if e2 := ExpandAlias(t2); !reflect.DeepEqual(e2, t2) {
		return unifyInternal(t1, e2, visited)
	}

	if tv, ok := t1.(TVar); ok {
		return bind(tv, t2)
	}
	if tv, ok := t2.(TVar); ok {
		return bind(tv, t1)
	}

	switch t1 := t1.(type) {
	case TCon:
		// Name mismatch; alias expansion above already handled transparent
		// constants.
		return nil, errMismatch(t1, t2)

	case TApp:
		app2, ok := t2.(TApp)
		if !ok {
			return nil, errMismatch(t1, t2)
		}
		if len(t1.Args) != len(app2.Args) {
			return nil, errMismatch(t1, app2)
		}
		s, err := unifyInternal(t1.Ctor, app2.Ctor, visited)
		if err != nil {
			return nil, err
		}
		for i := range t1.Args {
			s2, err := unifyInternal(t1.Args[i].Apply(s), app2.Args[i].Apply(s), visited)
			if err != nil {
				return nil, err
			}
			s = s.Compose(s2)
		}
		return s, nil

	case TFunc:
		fn2, ok := t2.(TFunc)
		if !ok {
			return nil, errMismatch(t1, t2)
		}
		s, err := unifyInternal(t1.Param, fn2.Param, visited)
		if err != nil {
			return nil, err
		}
		s2, err := unifyInternal(t1.Result.Apply(s), fn2.Result.Apply(s), visited)
		if err != nil {
			return nil, err
		}
		return s.Compose(s2), nil

	case TTuple:
		tup2, ok := t2.(TTuple)
		if !ok || len(t1.Elems) != len(tup2.Elems) {
			return nil, errMismatch(t1, t2)
		}
		s := Subst{}
		for i := range t1.Elems {
			s2, err := unifyInternal(t1.Elems[i].Apply(s), tup2.Elems[i].Apply(s), visited)
			if err != nil {
				return nil, err
			}
			s = s.Compose(s2)
		}
		return s, nil

	case TRecord:
		rec2, ok := t2.(TRecord)
		if !ok {
			return nil, errMismatch(t1, t2)
		}
		return unifyRecords(t1, rec2, visited)

	case TUnit:
		if _, ok := t2.(TUnit); ok {
			return Subst{}, nil
		}
		return nil, errMismatch(t1, t2)
	}

	return nil, errMismatch(t1, t2)
}

// unifyRecords implements row-polymorphic record unification: common
// fields unify pairwise, then each side's row variable absorbs the other
// side's extra fields. A closed record neither gains nor loses fields.
func unifyRecords(t1, t2 TRecord, visited []typePair) (Subst, error) {
	s := Subst{}

	for k, v1 := range t1.Fields {
		if v2, ok := t2.Fields[k]; ok {
			s2, err := unifyInternal(v1.Apply(s), v2.Apply(s), visited)
			if err != nil {
				return nil, err
			}
			s = s.Compose(s2)
		}
	}

	extra1 := map[string]Type{} // fields only in t1
	for k, v := range t1.Fields {
		if _, ok := t2.Fields[k]; !ok {
			extra1[k] = v.Apply(s)
		}
	}
	extra2 := map[string]Type{} // fields only in t2
	for k, v := range t2.Fields {
		if _, ok := t1.Fields[k]; !ok {
			extra2[k] = v.Apply(s)
		}
	}

	switch {
	case len(extra1) > 0 && len(extra2) > 0:
		// Both sides bring fields the other lacks, so both rows must stay
		// open and absorb into one shared tail. Threading one row through
		// the other's binding would make it contain itself.
		if t1.Row == nil || t2.Row == nil {
			return nil, errMismatch(t1, t2)
		}
		rest := freshRow()
		s2, err := unifyInternal(t1.Row.Apply(s), TRecord{Fields: extra2, Row: rest}, visited)
		if err != nil {
			return nil, err
		}
		s = s.Compose(s2)
		for k, v := range extra1 {
			extra1[k] = v.Apply(s)
		}
		s2, err = unifyInternal(t2.Row.Apply(s), TRecord{Fields: extra1, Row: rest}, visited)
		if err != nil {
			return nil, err
		}
		s = s.Compose(s2)

	case len(extra2) > 0:
		if t1.Row == nil {
			return nil, errMismatch(t1, t2)
		}
		var tail Type
		if t2.Row != nil {
			tail = t2.Row.Apply(s)
		}
		s2, err := unifyInternal(t1.Row.Apply(s), TRecord{Fields: extra2, Row: tail}, visited)
		if err != nil {
			return nil, err
		}
		s = s.Compose(s2)

	case len(extra1) > 0:
		if t2.Row == nil {
			return nil, errMismatch(t1, t2)
		}
		var tail Type
		if t1.Row != nil {
			tail = t1.Row.Apply(s)
		}
		s2, err := unifyInternal(t2.Row.Apply(s), TRecord{Fields: extra1, Row: tail}, visited)
		if err != nil {
			return nil, err
		}
		s = s.Compose(s2)

	default:
		if t1.Row != nil && t2.Row != nil {
			s2, err := unifyInternal(t1.Row.Apply(s), t2.Row.Apply(s), visited)
			if err != nil {
				return nil, err
			}
			s = s.Compose(s2)
		}
	}

	return s, nil
}

// rowCounter feeds freshRow across all unification runs. The generated
// names contain a character no source identifier can, so they cannot
// collide with a user's type variables or an inference run's namer.
var rowCounter uint64

func freshRow() TVar {
	return TVar{Name: fmt.Sprintf("row#%d", atomic.AddUint64(&rowCounter, 1))}
}

// bind binds a type variable to a type, enforcing rigidity, constraint
// classes and the occurs check.
func bind(tv TVar, t Type) (Subst, error) {
	if IsError(t) {
		return Subst{}, nil
	}

	if t2, ok := t.(TVar); ok {
		if tv.Name == t2.Name {
			return Subst{}, nil
		}
		return bindVars(tv, t2)
	}

	if tv.Rigid {
		// A rigid variable names a caller-chosen type; it never becomes
		// a concrete type during inference.
		return nil, errMismatch(tv, t)
	}

	if occursCheck(tv, t) {
		return nil, &UnifyError{Expected: tv, Actual: t, Infinite: true, Var: tv.Name}
	}

	if tv.Class != ClassNone && !classAdmits(tv.Class, t) {
		return nil, errMismatch(tv, t)
	}

	return Subst{tv.Name: t}, nil
}

// bindVars unifies two distinct type variables. The surviving variable
// carries the stronger constraint class; two rigid variables never merge.
func bindVars(a, b TVar) (Subst, error) {
	if a.Rigid && b.Rigid {
		return nil, errMismatch(a, b)
	}

	merged, ok := mergeClass(a.Class, b.Class)
	if !ok {
		return nil, errMismatch(a, b)
	}

	// A rigid variable survives. An unconstrained rigid cannot gain a
	// class from usage, but a constrained rigid accepts partners whose
	// class refines its own: number and appendable both imply comparable.
	if a.Rigid {
		if a.Class == ClassNone && merged != ClassNone {
			return nil, errMismatch(a, b)
		}
		return Subst{b.Name: a}, nil
	}
	if b.Rigid {
		if b.Class == ClassNone && merged != ClassNone {
			return nil, errMismatch(a, b)
		}
		return Subst{a.Name: b}, nil
	}

	// Both flexible: keep whichever already carries the merged class,
	// otherwise upgrade b.
	if a.Class == merged {
		return Subst{b.Name: a}, nil
	}
	if b.Class == merged {
		return Subst{a.Name: b}, nil
	}
	upgraded := TVar{Name: b.Name, Class: merged}
	return Subst{a.Name: upgraded, b.Name: upgraded}, nil
}

// mergeClass combines two constraint classes. number and appendable are
// disjoint; comparable is implied by number and by appendable strings/lists,
// so it yields to either.
func mergeClass(a, b VarClass) (VarClass, bool) {
	if a == b {
		return a, true
	}
	if a == ClassNone {
		return b, true
	}
	if b == ClassNone {
		return a, true
	}
	if a == ClassComparable {
		return b, true
	}
	if b == ClassComparable {
		return a, true
	}
	return ClassNone, false
}

// classAdmits reports whether a concrete type satisfies a constraint class.
func classAdmits(c VarClass, t Type) bool {
	t = UnwrapUnderlying(ExpandAlias(t))
	if IsError(t) {
		return true
	}

	switch c {
	case ClassNumber:
		tc, ok := t.(TCon)
		return ok && (tc.Name == "Int" || tc.Name == "Float")

	case ClassAppendable:
		if tc, ok := t.(TCon); ok {
			return tc.Name == "String"
		}
		if app, ok := t.(TApp); ok {
			if tc, ok := app.Ctor.(TCon); ok {
				return tc.Name == "List"
			}
		}
		return false

	case ClassComparable:
		switch t := t.(type) {
		case TVar:
			// Permissive: a still-flexible element may resolve later.
			return true
		case TCon:
			switch t.Name {
			case "Int", "Float", "Char", "String":
				return true
			}
			return false
		case TApp:
			tc, ok := t.Ctor.(TCon)
			if !ok || tc.Name != "List" {
				return false
			}
			for _, a := range t.Args {
				if !classAdmits(ClassComparable, a) {
					return false
				}
			}
			return true
		case TTuple:
			for _, e := range t.Elems {
				if !classAdmits(ClassComparable, e) {
					return false
				}
			}
			return true
		}
		return false
	}
	return true
}

func occursCheck(tv TVar, t Type) bool {
	for _, v := range t.FreeTypeVariables() {
		if v.Name == tv.Name {
			return true
		}
	}
	return false
}
