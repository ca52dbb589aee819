package analyzer_test

import (
	"testing"

	"github.com/lumen-lang/lumen/internal/analyzer"
	"github.com/lumen-lang/lumen/internal/diag"
	"github.com/lumen-lang/lumen/internal/forest"
	"github.com/lumen-lang/lumen/internal/source"
	"github.com/lumen-lang/lumen/internal/typesystem"
)

// ---------------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------------

func analyzeOne(t *testing.T, src string) []diag.Diagnostic {
	t.Helper()
	f := forest.New()
	m := f.AddOrReplace("Main.lum", src)
	return analyzer.New(f).Semantic(m)
}

func expectClean(t *testing.T, src string) {
	t.Helper()
	if diags := analyzeOne(t, src); len(diags) != 0 {
		t.Fatalf("expected no diagnostics, got %v", diags)
	}
}

// expectOnly asserts the exact diagnostic kinds in their reported
// (source) order.
func expectOnly(t *testing.T, diags []diag.Diagnostic, want ...diag.Kind) {
	t.Helper()
	if len(diags) != len(want) {
		t.Fatalf("expected %d diagnostics %v, got %v", len(want), want, diags)
	}
	for i, k := range want {
		if diags[i].Kind != k {
			t.Errorf("diagnostic %d: expected %s, got %v", i, k, diags[i])
		}
	}
}

// ---------------------------------------------------------------------------
// resolution
// ---------------------------------------------------------------------------

func TestCleanModule(t *testing.T) {
	expectClean(t, `module Main exposing (..)

greet : String -> String
greet name = name

answer = 40 + 2
`)
}

func TestTopLevelRedefinition(t *testing.T) {
	diags := analyzeOne(t, `module Main exposing (..)

value = 1

value = 2
`)
	expectOnly(t, diags, diag.Redefinition)
	if diags[0].Args[0] != "value" {
		t.Errorf("expected the redefined name, got %v", diags[0].Args)
	}
}

func TestDuplicateParameterRedefinition(t *testing.T) {
	diags := analyzeOne(t, `module Main exposing (..)

pair x x = x
`)
	expectOnly(t, diags, diag.Redefinition)
}

func TestShadowingIsNotRedefinition(t *testing.T) {
	expectClean(t, `module Main exposing (..)

shift = 1

apply shift = shift + 1

wrap n =
    let
        inner n = n
    in
    inner n
`)
}

func TestMissingImportReportedOnce(t *testing.T) {
	// Two qualified references through the dead import must not add
	// anything beyond the pending diagnostic on the import itself.
	diags := analyzeOne(t, `module Main exposing (..)

import Ghost

a = Ghost.one

b = Ghost.two
`)
	expectOnly(t, diags, diag.ImportMissing)
	if diags[0].Args[0] != "Ghost" {
		t.Errorf("expected the module name, got %v", diags[0].Args)
	}
	if diags[0].Span.Start.Line != 3 {
		t.Errorf("expected the diagnostic on the import statement, got %v", diags[0].Span)
	}
}

func TestUnknownQualifierIsMissingImport(t *testing.T) {
	diags := analyzeOne(t, `module Main exposing (..)

value = Mystery.thing
`)
	expectOnly(t, diags, diag.ImportMissing)
	if diags[0].Span.Start.Line != 3 {
		t.Errorf("expected the diagnostic at the reference, got %v", diags[0].Span)
	}
}

func TestBareNameBehindMissingImport(t *testing.T) {
	diags := analyzeOne(t, `module Main exposing (..)

import Ghost exposing (phantom)

use = phantom
`)
	expectOnly(t, diags, diag.ImportMissing)
}

func TestAmbiguousReference(t *testing.T) {
	f := forest.New()
	f.AddOrReplace("A.lum", "module A exposing (..)\n\nshared = 1\n")
	f.AddOrReplace("B.lum", "module B exposing (..)\n\nshared = 2\n")
	m := f.AddOrReplace("Main.lum", `module Main exposing (..)

import A exposing (..)
import B exposing (..)

clash = shared

fine = A.shared
`)

	diags := analyzer.New(f).Semantic(m)
	expectOnly(t, diags, diag.AmbiguousReference)
	if diags[0].Args[0] != "shared" || diags[0].Args[1] != "A, B" {
		t.Errorf("expected the name and the sorted candidate modules, got %v", diags[0].Args)
	}
}

func TestQualifiedAccessToUnexposedName(t *testing.T) {
	f := forest.New()
	f.AddOrReplace("Util.lum", "module Util exposing (visible)\n\nvisible = 1\n\nsecret = 2\n")
	m := f.AddOrReplace("Main.lum", `module Main exposing (..)

import Util

use = Util.secret
`)

	diags := analyzer.New(f).Semantic(m)
	expectOnly(t, diags, diag.UnresolvedReference)
}

func TestExposingUnknownName(t *testing.T) {
	f := forest.New()
	f.AddOrReplace("Util.lum", "module Util exposing (..)\n\nhelp = 1\n")
	m := f.AddOrReplace("Main.lum", `module Main exposing (..)

import Util exposing (missing)

use = 1
`)

	diags := analyzer.New(f).Semantic(m)
	expectOnly(t, diags, diag.UnresolvedReference)
	if diags[0].Args[0] != "missing" {
		t.Errorf("expected the exposing entry's name, got %v", diags[0].Args)
	}
}

// ---------------------------------------------------------------------------
// inference
// ---------------------------------------------------------------------------

func TestAliasTransparency(t *testing.T) {
	expectClean(t, `module Main exposing (..)

type alias Age = Int

birthday : Age -> Age
birthday n = n + 1

start : Age
start = 0
`)
}

func TestParameterizedAliasOverRecord(t *testing.T) {
	expectClean(t, `module Main exposing (..)

type alias Named a = { a | name : String }

label : Named { age : Int } -> String
label thing = thing.name
`)
}

func TestAliasOfTypeVariable(t *testing.T) {
	// The alias body is a bare constrained variable; an integer literal
	// must flow through the expansion without a diagnostic.
	expectClean(t, `module Main exposing (..)

type alias Comparable comparable = comparable

lowest : Comparable comparable
lowest = 0
`)
}

func TestRecordPatternFieldShadowsFunctionName(t *testing.T) {
	expectClean(t, `module Main exposing (..)

name { name } = name
`)
}

func TestPolymorphicCallSitesAreIndependent(t *testing.T) {
	expectClean(t, `module Main exposing (..)

same : a -> a -> Bool
same x y = True

ints = same 1 2

strings = same "a" "b"
`)
}

func TestPolymorphicMixedArguments(t *testing.T) {
	diags := analyzeOne(t, `module Main exposing (..)

same : a -> a -> Bool
same x y = True

bad = same 1 "a"
`)
	expectOnly(t, diags, diag.TypeMismatch)
}

func TestRigidSignatureVariableRejectsNumber(t *testing.T) {
	diags := analyzeOne(t, `module Main exposing (..)

broken : a -> a
broken x = x + 1
`)
	expectOnly(t, diags, diag.TypeMismatch)
}

func TestRigidVariablesStayDistinct(t *testing.T) {
	diags := analyzeOne(t, `module Main exposing (..)

swap : a -> b -> a
swap x y = y
`)
	expectOnly(t, diags, diag.TypeMismatch)
}

func TestInfiniteType(t *testing.T) {
	diags := analyzeOne(t, `module Main exposing (..)

loop x = loop
`)
	expectOnly(t, diags, diag.InfiniteType)
}

func TestSignatureBodyMismatch(t *testing.T) {
	diags := analyzeOne(t, `module Main exposing (..)

count : Int
count = "three"
`)
	expectOnly(t, diags, diag.TypeMismatch)
	if diags[0].Args[0] != "Int" || diags[0].Args[1] != "String" {
		t.Errorf("expected Int vs String, got %v", diags[0].Args)
	}
}

func TestNumberPlusString(t *testing.T) {
	diags := analyzeOne(t, `module Main exposing (..)

value = 1 + "a"
`)
	expectOnly(t, diags, diag.TypeMismatch)
}

func TestLetPolymorphism(t *testing.T) {
	expectClean(t, `module Main exposing (..)

both =
    let
        id x = x
    in
    ( id 1, id "a" )
`)
}

func TestLetBindingSharesParameterConstraint(t *testing.T) {
	// The binding's number variable belongs to the enclosing parameter;
	// generalizing y must neither quantify it nor call it ambiguous.
	expectClean(t, `module Main exposing (..)

bump x =
    let
        y = x + 1
    in
    y
`)
}

func TestLetBindingSignature(t *testing.T) {
	expectClean(t, `module Main exposing (..)

calc =
    let
        twice : Int -> Int
        twice n = n * 2
    in
    twice 5
`)
}

func TestMutualRecursion(t *testing.T) {
	expectClean(t, `module Main exposing (..)

isEven n = if n == 0 then True else isOdd (n - 1)

isOdd n = if n == 0 then False else isEven (n - 1)
`)
}

func TestMutualRecursionKeepsSharedTypes(t *testing.T) {
	// one and two constrain each other to a number, so a later boolean
	// use of one must be rejected. Neither may be generalized over the
	// variable the other still pins.
	diags := analyzeOne(t, `module Main exposing (..)

one = two

two = one + 1

use = one && True
`)
	expectOnly(t, diags, diag.TypeMismatch)
}

func TestCaseOverCustomType(t *testing.T) {
	f := forest.New()
	m := f.AddOrReplace("Main.lum", `module Main exposing (..)

type Shape = Circle Float | Square Float

area shape =
    case shape of
        Circle r -> r
        Square side -> side * side
`)
	a := analyzer.New(f)
	expectOnly(t, a.Semantic(m))

	got, ok := a.InferType(m, "area")
	if !ok {
		t.Fatal("expected area to have an inferred type")
	}
	if got.String() != "Shape -> Float" {
		t.Errorf("expected Shape -> Float, got %s", got)
	}
}

func TestConstructorPatternArity(t *testing.T) {
	diags := analyzeOne(t, `module Main exposing (..)

type Shape = Circle Float

bad shape =
    case shape of
        Circle -> 0
`)
	expectOnly(t, diags, diag.TypeMismatch)
}

func TestExtensibleRecordParameter(t *testing.T) {
	expectClean(t, `module Main exposing (..)

getName : { r | name : String } -> String
getName person = person.name

caller = getName { name = "Ada", age = 36 }
`)
}

func TestRecordMultiFieldAccess(t *testing.T) {
	f := forest.New()
	m := f.AddOrReplace("Main.lum", `module Main exposing (..)

sum r = r.x + r.y
`)
	a := analyzer.New(f)
	expectOnly(t, a.Semantic(m))

	got, ok := a.InferType(m, "sum")
	if !ok {
		t.Fatal("expected sum to have an inferred type")
	}
	fn, ok := got.(typesystem.TFunc)
	if !ok {
		t.Fatalf("expected a function, got %s", got)
	}
	rec, ok := fn.Param.(typesystem.TRecord)
	if !ok {
		t.Fatalf("expected a record parameter, got %s", fn.Param)
	}
	for _, field := range []string{"x", "y"} {
		if _, ok := rec.Fields[field]; !ok {
			t.Errorf("expected the parameter to require field %s, got %s", field, rec)
		}
	}
	if rec.Row == nil {
		t.Errorf("expected the parameter record to stay open, got %s", rec)
	}
}

func TestClosedRecordRejectsExtraField(t *testing.T) {
	diags := analyzeOne(t, `module Main exposing (..)

type alias Point = { x : Float, y : Float }

origin : Point
origin = { x = 0.0, y = 0.0, z = 0.0 }
`)
	expectOnly(t, diags, diag.TypeMismatch)
}

func TestAccessorApplication(t *testing.T) {
	f := forest.New()
	m := f.AddOrReplace("Main.lum", `module Main exposing (..)

pick = .name { name = "x" }
`)
	a := analyzer.New(f)
	expectOnly(t, a.Semantic(m))

	got, ok := a.InferType(m, "pick")
	if !ok || got.String() != "String" {
		t.Errorf("expected String, got %v (ok=%v)", got, ok)
	}
}

func TestPipelineOperator(t *testing.T) {
	expectClean(t, `module Main exposing (..)

bump = 1 |> (+) 2
`)
}

func TestComparatorConcat(t *testing.T) {
	f := forest.New()
	f.AddOrReplace("Base.lum", "module Base exposing (..)\n\ntype Order = LT | EQ | GT\n")
	m := f.AddOrReplace("Main.lum", `module Main exposing (..)

import Base exposing (Order(..))

type alias Comparator a = a -> a -> Base.Order

concat : List (Comparator a) -> Comparator a
concat comparators x y =
    case comparators of
        [] -> EQ
        first :: rest ->
            case first x y of
                EQ -> concat rest x y
                other -> other
`)
	expectOnly(t, analyzer.New(f).Semantic(m))
}

func TestSameNamedTypesFromDifferentModules(t *testing.T) {
	f := forest.New()
	f.AddOrReplace("A.lum", "module A exposing (Id(..))\n\ntype Id = MkId\n")
	f.AddOrReplace("B.lum", `module B exposing (Id, unwrap)

type Id = IdOf Int

unwrap : Id -> Int
unwrap i =
    case i of
        IdOf n -> n
`)
	m := f.AddOrReplace("Main.lum", `module Main exposing (..)

import A exposing (Id(..))
import B

bad = B.unwrap MkId
`)
	expectOnly(t, analyzer.New(f).Semantic(m), diag.TypeMismatch)
}

// ---------------------------------------------------------------------------
// queries
// ---------------------------------------------------------------------------

func TestInferTypeSigned(t *testing.T) {
	f := forest.New()
	m := f.AddOrReplace("Main.lum", `module Main exposing (..)

inc : Int -> Int
inc n = n + 1
`)
	a := analyzer.New(f)

	got, ok := a.InferType(m, "inc")
	if !ok || got.String() != "Int -> Int" {
		t.Errorf("expected Int -> Int, got %v (ok=%v)", got, ok)
	}
}

func TestInferTypeGeneralized(t *testing.T) {
	f := forest.New()
	m := f.AddOrReplace("Main.lum", `module Main exposing (..)

id x = x
`)
	a := analyzer.New(f)

	got, ok := a.InferType(m, "id")
	if !ok {
		t.Fatal("expected id to have a type")
	}
	fn, ok := got.(typesystem.TFunc)
	if !ok {
		t.Fatalf("expected a function type, got %s", got)
	}
	pv, pok := fn.Param.(typesystem.TVar)
	rv, rok := fn.Result.(typesystem.TVar)
	if !pok || !rok || pv.Name != rv.Name {
		t.Errorf("expected the identity type a -> a, got %s", got)
	}
}

func TestInferTypeUnknownDeclaration(t *testing.T) {
	f := forest.New()
	m := f.AddOrReplace("Main.lum", "module Main exposing (..)\n\nx = 1\n")
	if _, ok := analyzer.New(f).InferType(m, "missing"); ok {
		t.Error("expected no type for an unknown declaration")
	}
}

func TestResolveAtTopLevel(t *testing.T) {
	f := forest.New()
	m := f.AddOrReplace("Main.lum", `module Main exposing (..)

top = 1

use = top
`)
	a := analyzer.New(f)

	sym, ok := a.ResolveAt(m, source.Pos{Line: 5, Column: 8})
	if !ok || sym.Name != "top" {
		t.Errorf("expected to resolve top, got %+v (ok=%v)", sym, ok)
	}
	if _, ok := a.ResolveAt(m, source.Pos{Line: 4, Column: 1}); ok {
		t.Error("expected no reference on a blank line")
	}
}

func TestResolveAtLocalBinding(t *testing.T) {
	f := forest.New()
	m := f.AddOrReplace("Main.lum", `module Main exposing (..)

double x = x + x
`)
	sym, ok := analyzer.New(f).ResolveAt(m, source.Pos{Line: 3, Column: 12})
	if !ok || sym.Name != "x" {
		t.Errorf("expected to resolve the parameter, got %+v (ok=%v)", sym, ok)
	}
}

func TestResolveAtImported(t *testing.T) {
	f := forest.New()
	f.AddOrReplace("Util.lum", "module Util exposing (..)\n\nhelp = 1\n")
	m := f.AddOrReplace("Main.lum", `module Main exposing (..)

import Util

use = Util.help
`)
	sym, ok := analyzer.New(f).ResolveAt(m, source.Pos{Line: 5, Column: 7})
	if !ok || sym.Name != "help" || sym.Module != "Util" {
		t.Errorf("expected Util.help, got %+v (ok=%v)", sym, ok)
	}
}

// ---------------------------------------------------------------------------
// suggestions
// ---------------------------------------------------------------------------

func TestUnusedImportSuggestion(t *testing.T) {
	f := forest.New()
	f.AddOrReplace("Util.lum", "module Util exposing (..)\n\nhelp = 1\n")
	m := f.AddOrReplace("Main.lum", `module Main exposing (..)

import Util

value = 2
`)
	a := analyzer.New(f)
	expectOnly(t, a.Semantic(m))

	sugg := a.Suggestion(m)
	expectOnly(t, sugg, diag.UnusedImport)
	if sugg[0].Args[0] != "Util" {
		t.Errorf("expected the unused module's name, got %v", sugg[0].Args)
	}
}

func TestUsedImportHasNoSuggestion(t *testing.T) {
	f := forest.New()
	f.AddOrReplace("Util.lum", "module Util exposing (..)\n\nhelp = 1\n")
	m := f.AddOrReplace("Main.lum", `module Main exposing (..)

import Util

value = Util.help
`)
	if sugg := analyzer.New(f).Suggestion(m); len(sugg) != 0 {
		t.Errorf("expected no suggestions, got %v", sugg)
	}
}

func TestMissingImportHasNoUnusedSuggestion(t *testing.T) {
	f := forest.New()
	m := f.AddOrReplace("Main.lum", `module Main exposing (..)

import Ghost

value = 2
`)
	if sugg := analyzer.New(f).Suggestion(m); len(sugg) != 0 {
		t.Errorf("the pending missing-import error already covers the import, got %v", sugg)
	}
}

// ---------------------------------------------------------------------------
// incrementality and determinism
// ---------------------------------------------------------------------------

func TestSemanticDeterministic(t *testing.T) {
	f := forest.New()
	m := f.AddOrReplace("Main.lum", `module Main exposing (..)

x = 1 + "a"

x = 2
`)
	a := analyzer.New(f)

	first := a.Semantic(m)
	second := a.Semantic(m)
	if len(first) != len(second) {
		t.Fatalf("repeated passes disagree: %v vs %v", first, second)
	}
	for i := range first {
		if !first[i].Equal(second[i]) {
			t.Errorf("diagnostic %d differs: %v vs %v", i, first[i], second[i])
		}
	}
	expectOnly(t, first, diag.TypeMismatch, diag.Redefinition)
}

func TestReRegistrationIsIdempotent(t *testing.T) {
	const src = `module Main exposing (..)

x = 1 + "a"
`
	f := forest.New()
	a := analyzer.New(f)
	first := a.Semantic(f.AddOrReplace("Main.lum", src))
	second := a.Semantic(f.AddOrReplace("Main.lum", src))

	if len(first) != len(second) {
		t.Fatalf("re-registration changed the diagnostics: %v vs %v", first, second)
	}
	for i := range first {
		if !first[i].Equal(second[i]) {
			t.Errorf("diagnostic %d differs: %v vs %v", i, first[i], second[i])
		}
	}
}

func TestReplaceModuleReanalyzes(t *testing.T) {
	f := forest.New()
	a := analyzer.New(f)

	m := f.AddOrReplace("Main.lum", "module Main exposing (..)\n\nvalue = 1 + \"a\"\n")
	expectOnly(t, a.Semantic(m), diag.TypeMismatch)

	m = f.AddOrReplace("Main.lum", "module Main exposing (..)\n\nvalue = 1 + 2\n")
	expectOnly(t, a.Semantic(m))
}

func TestDependencyChangePropagates(t *testing.T) {
	f := forest.New()
	a := analyzer.New(f)

	f.AddOrReplace("Util.lum", "module Util exposing (..)\n\nhelp = 1\n")
	m := f.AddOrReplace("Main.lum", `module Main exposing (..)

import Util

use = Util.help + 1
`)
	expectOnly(t, a.Semantic(m))

	f.AddOrReplace("Util.lum", "module Util exposing (..)\n\nhelp = \"text\"\n")
	m, _ = f.Get("Main.lum")
	expectOnly(t, a.Semantic(m), diag.TypeMismatch)
}
