package typesystem

import (
	"reflect"
	"testing"
)

func TestGeneralizeQuantifiesFreeFlexibleVars(t *testing.T) {
	a := TVar{Name: "t1"}
	b := TVar{Name: "t2"}
	fn := TFunc{Param: a, Result: b}

	scheme := Generalize(fn, nil)
	if !reflect.DeepEqual(scheme.Vars, []string{"t1", "t2"}) {
		t.Errorf("expected both variables quantified, got %v", scheme.Vars)
	}
}

func TestGeneralizeSkipsEnvironmentVars(t *testing.T) {
	a := TVar{Name: "t1"}
	b := TVar{Name: "t2"}
	fn := TFunc{Param: a, Result: b}

	scheme := Generalize(fn, map[string]bool{"t1": true})
	if !reflect.DeepEqual(scheme.Vars, []string{"t2"}) {
		t.Errorf("expected only t2 quantified, got %v", scheme.Vars)
	}
}

func TestGeneralizeSkipsRigidVars(t *testing.T) {
	a := TVar{Name: "a", Rigid: true}
	scheme := Generalize(TFunc{Param: a, Result: a}, nil)
	if len(scheme.Vars) != 0 {
		t.Errorf("expected rigid variables to stay unquantified, got %v", scheme.Vars)
	}
}

func TestInstantiateFreshensPerUse(t *testing.T) {
	a := TVar{Name: "a"}
	scheme := Scheme{Vars: []string{"a"}, T: TFunc{Param: a, Result: a}}
	namer := &FreshNamer{}

	t1 := scheme.Instantiate(namer)
	t2 := scheme.Instantiate(namer)
	if t1.String() == t2.String() {
		t.Errorf("expected distinct instantiations, both came back %s", t1)
	}

	// Each instantiation must still unify with its own concrete pick
	// independently.
	s1, err := Unify(t1, TFunc{Param: tInt, Result: tInt})
	if err != nil {
		t.Fatalf("first instantiation failed to take Int: %v", err)
	}
	if _, err := Unify(t2.Apply(s1), TFunc{Param: tString, Result: tString}); err != nil {
		t.Errorf("second instantiation was not independent: %v", err)
	}
}

func TestInstantiateMonomorphicSchemeShares(t *testing.T) {
	scheme := MonoScheme(TVar{Name: "t1"})
	namer := &FreshNamer{}
	got := scheme.Instantiate(namer)
	if got.String() != "t1" {
		t.Errorf("expected a monomorphic scheme to instantiate to itself, got %s", got)
	}
}

func TestInstantiateKeepsConstraintClass(t *testing.T) {
	num := TVar{Name: "number", Class: ClassNumber}
	scheme := Scheme{Vars: []string{"number"}, T: TFunc{Param: num, Result: num}}
	namer := &FreshNamer{}

	inst := scheme.Instantiate(namer)
	fn, ok := inst.(TFunc)
	if !ok {
		t.Fatalf("expected a function, got %s", inst)
	}
	tv, ok := fn.Param.(TVar)
	if !ok || tv.Class != ClassNumber {
		t.Errorf("expected a fresh number-classed variable, got %s", fn.Param)
	}
}

func TestInstantiateDerivesClassFromName(t *testing.T) {
	// A signature-derived scheme may quantify `comparable` without a class
	// tag on the variable itself; the name carries the constraint.
	cmp := TVar{Name: "comparable"}
	scheme := Scheme{Vars: []string{"comparable"}, T: cmp}
	namer := &FreshNamer{}

	inst := scheme.Instantiate(namer)
	tv, ok := inst.(TVar)
	if !ok || tv.Class != ClassComparable {
		t.Errorf("expected a comparable-classed fresh variable, got %s", inst)
	}
}

func TestSchemeFreeTypeVariablesExcludesQuantified(t *testing.T) {
	a := TVar{Name: "a"}
	b := TVar{Name: "b"}
	scheme := Scheme{Vars: []string{"a"}, T: TFunc{Param: a, Result: b}}

	free := scheme.FreeTypeVariables()
	if len(free) != 1 || free[0].Name != "b" {
		t.Errorf("expected only b free, got %v", free)
	}
}

func TestSchemeApplyRespectsQuantification(t *testing.T) {
	a := TVar{Name: "a"}
	b := TVar{Name: "b"}
	scheme := Scheme{Vars: []string{"a"}, T: TFunc{Param: a, Result: b}}

	applied := scheme.Apply(Subst{"a": tInt, "b": tString})
	want := "forall a. a -> String"
	if applied.String() != want {
		t.Errorf("expected %q, got %q", want, applied)
	}
}

func TestUnresolvedClassVars(t *testing.T) {
	num := TVar{Name: "t1", Class: ClassNumber}
	plain := TVar{Name: "t2"}
	rigid := TVar{Name: "number", Rigid: true}
	fn := MakeFunc(plain, num, rigid)

	got := UnresolvedClassVars(fn)
	if len(got) != 1 || got[0].Name != "t1" {
		t.Errorf("expected only the flexible constrained variable, got %v", got)
	}
}
