package typesystem

import (
	"errors"
	"testing"
)

var (
	tInt    = TCon{Name: "Int"}
	tFloat  = TCon{Name: "Float"}
	tString = TCon{Name: "String"}
	tList   = TCon{Name: "List", TypeParams: []string{"a"}}
)

func listOf(elem Type) Type {
	return TApp{Ctor: tList, Args: []Type{elem}}
}

// expectUnify asserts that t1 and t2 unify and returns the substitution.
func expectUnify(t *testing.T, t1, t2 Type) Subst {
	t.Helper()
	s, err := Unify(t1, t2)
	if err != nil {
		t.Fatalf("expected %s to unify with %s, got: %v", t1, t2, err)
	}
	return s
}

// expectMismatch asserts that unification fails with a non-infinite error.
func expectMismatch(t *testing.T, t1, t2 Type) {
	t.Helper()
	_, err := Unify(t1, t2)
	if err == nil {
		t.Fatalf("expected %s and %s to fail unification", t1, t2)
	}
	var ue *UnifyError
	if !errors.As(err, &ue) {
		t.Fatalf("expected *UnifyError, got %T", err)
	}
	if ue.Infinite {
		t.Fatalf("expected a mismatch, got occurs-check failure: %v", err)
	}
}

func TestUnifyIdenticalConstants(t *testing.T) {
	s := expectUnify(t, tInt, tInt)
	if len(s) != 0 {
		t.Errorf("expected empty substitution, got %v", s)
	}
}

func TestUnifyConstantMismatch(t *testing.T) {
	expectMismatch(t, tInt, tString)
}

func TestUnifyVarBindsConcrete(t *testing.T) {
	a := TVar{Name: "a"}
	s := expectUnify(t, a, tInt)
	if got := a.Apply(s); got.String() != "Int" {
		t.Errorf("expected a -> Int, got %s", got)
	}
}

func TestUnifyOccursCheck(t *testing.T) {
	a := TVar{Name: "a"}
	_, err := Unify(a, listOf(a))
	if err == nil {
		t.Fatal("expected occurs-check failure")
	}
	var ue *UnifyError
	if !errors.As(err, &ue) || !ue.Infinite {
		t.Fatalf("expected infinite-type error, got %v", err)
	}
	if ue.Var != "a" {
		t.Errorf("expected offending variable a, got %q", ue.Var)
	}
}

func TestUnifyRigidVarRejectsConcrete(t *testing.T) {
	a := TVar{Name: "a", Rigid: true}
	expectMismatch(t, a, tInt)
}

func TestUnifyRigidVarAbsorbsFlexible(t *testing.T) {
	rigid := TVar{Name: "a", Rigid: true}
	flex := TVar{Name: "t1"}
	s := expectUnify(t, rigid, flex)
	if got := flex.Apply(s); got.String() != "a" {
		t.Errorf("expected t1 -> a, got %s", got)
	}
}

func TestUnifyTwoRigidVarsFail(t *testing.T) {
	expectMismatch(t, TVar{Name: "a", Rigid: true}, TVar{Name: "b", Rigid: true})
}

func TestUnifyRigidComparableAcceptsNumberVar(t *testing.T) {
	// number refines comparable, so a comparable-constrained signature
	// variable tolerates a numeric literal's variable.
	rigid := TVar{Name: "comparable", Rigid: true, Class: ClassComparable}
	num := TVar{Name: "t1", Class: ClassNumber}
	s := expectUnify(t, rigid, num)
	if got := num.Apply(s); got.String() != "comparable" {
		t.Errorf("expected t1 to resolve to the rigid variable, got %s", got)
	}
}

func TestUnifyUnconstrainedRigidRejectsNumberVar(t *testing.T) {
	expectMismatch(t, TVar{Name: "a", Rigid: true}, TVar{Name: "t1", Class: ClassNumber})
}

func TestUnifyFunctions(t *testing.T) {
	a := TVar{Name: "a"}
	fn1 := TFunc{Param: a, Result: a}
	fn2 := TFunc{Param: tInt, Result: tInt}
	expectUnify(t, fn1, fn2)

	fn3 := TFunc{Param: tInt, Result: tString}
	expectMismatch(t, fn1, fn3)
}

func TestUnifyErrorPlaceholderUnifiesWithAnything(t *testing.T) {
	expectUnify(t, TError{}, tInt)
	expectUnify(t, TFunc{Param: TError{}, Result: tString}, TFunc{Param: tInt, Result: tString})
	expectUnify(t, TVar{Name: "a", Rigid: true}, TError{})
}

func TestUnifyNumberClass(t *testing.T) {
	num := TVar{Name: "t1", Class: ClassNumber}
	expectUnify(t, num, tInt)
	expectUnify(t, num, tFloat)
	expectMismatch(t, num, tString)
}

func TestUnifyAppendableClass(t *testing.T) {
	app := TVar{Name: "t1", Class: ClassAppendable}
	expectUnify(t, app, tString)
	expectUnify(t, app, listOf(tInt))
	expectMismatch(t, app, tInt)
}

func TestUnifyComparableClass(t *testing.T) {
	cmp := TVar{Name: "t1", Class: ClassComparable}
	expectUnify(t, cmp, tInt)
	expectUnify(t, cmp, tString)
	expectUnify(t, cmp, listOf(tInt))
	expectUnify(t, cmp, TTuple{Elems: []Type{tInt, tString}})
	expectMismatch(t, cmp, TFunc{Param: tInt, Result: tInt})
	expectMismatch(t, cmp, TRecord{Fields: map[string]Type{"x": tInt}})
}

func TestUnifyClassMergeComparableYields(t *testing.T) {
	num := TVar{Name: "t1", Class: ClassNumber}
	cmp := TVar{Name: "t2", Class: ClassComparable}
	s := expectUnify(t, num, cmp)
	// The surviving variable must carry the stronger class.
	merged := num.Apply(s)
	tv, ok := merged.(TVar)
	if !ok {
		t.Fatalf("expected a variable, got %s", merged)
	}
	if tv.Class != ClassNumber {
		t.Errorf("expected merged class number, got %v", tv.Class)
	}
}

func TestUnifyClassMergeNumberAppendableFails(t *testing.T) {
	num := TVar{Name: "t1", Class: ClassNumber}
	app := TVar{Name: "t2", Class: ClassAppendable}
	expectMismatch(t, num, app)
}

func TestUnifyClosedRecords(t *testing.T) {
	r1 := TRecord{Fields: map[string]Type{"x": tInt, "y": tString}}
	r2 := TRecord{Fields: map[string]Type{"x": tInt, "y": tString}}
	expectUnify(t, r1, r2)

	// A closed record cannot gain fields.
	r3 := TRecord{Fields: map[string]Type{"x": tInt}}
	expectMismatch(t, r1, r3)
	expectMismatch(t, r3, r1)
}

func TestUnifyRecordFieldConflict(t *testing.T) {
	r1 := TRecord{Fields: map[string]Type{"x": tInt}}
	r2 := TRecord{Fields: map[string]Type{"x": tString}}
	expectMismatch(t, r1, r2)
}

func TestUnifyExtensibleRecordAbsorbsExtraFields(t *testing.T) {
	row := TVar{Name: "r"}
	want := TRecord{Fields: map[string]Type{"name": tString}, Row: row}
	have := TRecord{Fields: map[string]Type{"name": tString, "age": tInt}}

	s := expectUnify(t, want, have)
	resolved := row.Apply(s)
	rec, ok := resolved.(TRecord)
	if !ok {
		t.Fatalf("expected row to resolve to a record, got %s", resolved)
	}
	if _, ok := rec.Fields["age"]; !ok {
		t.Errorf("expected row to absorb the age field, got %s", rec)
	}
	if rec.Row != nil {
		t.Errorf("expected the absorbed tail to be closed, got %s", rec)
	}
}

func TestUnifyTwoExtensibleRecords(t *testing.T) {
	row1 := TVar{Name: "r1"}
	row2 := TVar{Name: "r2"}
	r1 := TRecord{Fields: map[string]Type{"x": tInt}, Row: row1}
	r2 := TRecord{Fields: map[string]Type{"y": tString}, Row: row2}

	s := expectUnify(t, r1, r2)

	// Each row absorbs the other side's extra field and both stay open
	// over one shared tail.
	for _, tc := range []struct {
		row   TVar
		field string
	}{
		{row1, "y"},
		{row2, "x"},
	} {
		rec, ok := tc.row.Apply(s).(TRecord)
		if !ok {
			t.Fatalf("expected %s to resolve to a record, got %s", tc.row, tc.row.Apply(s))
		}
		if _, ok := rec.Fields[tc.field]; !ok {
			t.Errorf("expected %s to absorb the %s field, got %s", tc.row, tc.field, rec)
		}
		if rec.Row == nil {
			t.Errorf("expected %s to stay open, got %s", tc.row, rec)
		}
	}
}

func TestUnifySequentialFieldConstraints(t *testing.T) {
	// Reading two different fields off one record parameter constrains
	// its variable twice; the second constraint must extend the row
	// produced by the first rather than fold it into itself.
	rec := TVar{Name: "t1"}
	s := expectUnify(t, rec, TRecord{Fields: map[string]Type{"x": tInt}, Row: TVar{Name: "t2"}})

	s2, err := Unify(rec.Apply(s), TRecord{Fields: map[string]Type{"y": tInt}, Row: TVar{Name: "t3"}})
	if err != nil {
		t.Fatalf("second field constraint failed: %v", err)
	}
	s = s.Compose(s2)

	final, ok := rec.Apply(s).(TRecord)
	if !ok {
		t.Fatalf("expected a record, got %s", rec.Apply(s))
	}
	for _, field := range []string{"x", "y"} {
		if _, ok := final.Fields[field]; !ok {
			t.Errorf("expected field %s, got %s", field, final)
		}
	}
	if final.Row == nil {
		t.Errorf("expected the record to stay open, got %s", final)
	}
}

func TestUnifyAliasTransparent(t *testing.T) {
	point := TCon{
		Name:       "Point",
		Underlying: TRecord{Fields: map[string]Type{"x": tFloat, "y": tFloat}},
	}
	structural := TRecord{Fields: map[string]Type{"x": tFloat, "y": tFloat}}
	expectUnify(t, point, structural)
	expectUnify(t, structural, point)
}

func TestUnifyParameterizedAliasExpansion(t *testing.T) {
	// type alias Named a = { a | name : String }
	named := TCon{
		Name:       "Named",
		TypeParams: []string{"a"},
		Underlying: TRecord{Fields: map[string]Type{"name": tString}, Row: TVar{Name: "a"}},
	}
	applied := TApp{Ctor: named, Args: []Type{TRecord{Fields: map[string]Type{"age": tInt}}}}
	concrete := TRecord{Fields: map[string]Type{"name": tString, "age": tInt}}
	expectUnify(t, applied, concrete)
}

func TestUnifySameNamedOpaqueConstants(t *testing.T) {
	// Two constants with the same name unify without expansion; this is
	// what keeps mutually recursive aliases from diverging. A constant
	// without a module matches any declaring module.
	c1 := TCon{Name: "Tree", Underlying: nil}
	c2 := TCon{Name: "Tree", Module: "Data.Tree"}
	expectUnify(t, c1, c2)
}

func TestUnifySameNamedConstantsFromDifferentModules(t *testing.T) {
	// Nominal types are keyed by declaring module as well as name.
	a := TCon{Name: "Id", Module: "A"}
	b := TCon{Name: "Id", Module: "B"}
	expectMismatch(t, a, b)
	expectUnify(t, a, TCon{Name: "Id", Module: "A"})
}

func TestUnifyTuples(t *testing.T) {
	a := TVar{Name: "a"}
	t1 := TTuple{Elems: []Type{a, tString}}
	t2 := TTuple{Elems: []Type{tInt, tString}}
	s := expectUnify(t, t1, t2)
	if got := a.Apply(s); got.String() != "Int" {
		t.Errorf("expected a -> Int, got %s", got)
	}
	expectMismatch(t, t1, TTuple{Elems: []Type{tInt}})
}

func TestSubstCompose(t *testing.T) {
	s1 := Subst{"a": TVar{Name: "b"}}
	s2 := Subst{"b": tInt}
	composed := s1.Compose(s2)
	if got := (TVar{Name: "a"}).Apply(composed); got.String() != "Int" {
		t.Errorf("expected a to reach Int through the composition, got %s", got)
	}
	if got := (TVar{Name: "b"}).Apply(composed); got.String() != "Int" {
		t.Errorf("expected b -> Int to survive composition, got %s", got)
	}
}
