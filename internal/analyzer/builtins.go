package analyzer

import (
	"github.com/lumen-lang/lumen/internal/symbols"
	"github.com/lumen-lang/lumen/internal/typesystem"
)

// The implicit prelude: primitive types, Bool constructors, a few core
// functions and the default operators. Everything here is shadowable by
// user declarations.

const preludeModule = "Lumen.Core"

var (
	tInt    = typesystem.TCon{Name: "Int", Module: preludeModule}
	tFloat  = typesystem.TCon{Name: "Float", Module: preludeModule}
	tBool   = typesystem.TCon{Name: "Bool", Module: preludeModule}
	tChar   = typesystem.TCon{Name: "Char", Module: preludeModule}
	tString = typesystem.TCon{Name: "String", Module: preludeModule}
	tList   = typesystem.TCon{Name: "List", Module: preludeModule, TypeParams: []string{"a"}}
)

func listOf(elem typesystem.Type) typesystem.Type {
	return typesystem.TApp{Ctor: tList, Args: []typesystem.Type{elem}}
}

// tv builds a flexible type variable whose class follows from its name.
func tv(name string) typesystem.TVar {
	return typesystem.TVar{Name: name, Class: typesystem.ClassFromName(name)}
}

func forAll(t typesystem.Type, vars ...string) typesystem.Scheme {
	return typesystem.Scheme{Vars: vars, T: t}
}

func fn(result typesystem.Type, params ...typesystem.Type) typesystem.Type {
	return typesystem.MakeFunc(result, params...)
}

var builtinTypes = map[string]symbols.Symbol{
	"Int":    {Name: "Int", Kind: symbols.TypeSymbol, Module: preludeModule, Scheme: typesystem.MonoScheme(tInt)},
	"Float":  {Name: "Float", Kind: symbols.TypeSymbol, Module: preludeModule, Scheme: typesystem.MonoScheme(tFloat)},
	"Bool":   {Name: "Bool", Kind: symbols.TypeSymbol, Module: preludeModule, Scheme: typesystem.MonoScheme(tBool), Ctors: []string{"True", "False"}},
	"Char":   {Name: "Char", Kind: symbols.TypeSymbol, Module: preludeModule, Scheme: typesystem.MonoScheme(tChar)},
	"String": {Name: "String", Kind: symbols.TypeSymbol, Module: preludeModule, Scheme: typesystem.MonoScheme(tString)},
	"List":   {Name: "List", Kind: symbols.TypeSymbol, Module: preludeModule, Scheme: typesystem.MonoScheme(tList), TypeParams: []string{"a"}},
}

var builtinValues = map[string]symbols.Symbol{
	"True":     {Name: "True", Kind: symbols.ConstructorSymbol, Module: preludeModule, Scheme: typesystem.MonoScheme(tBool)},
	"False":    {Name: "False", Kind: symbols.ConstructorSymbol, Module: preludeModule, Scheme: typesystem.MonoScheme(tBool)},
	"identity": {Name: "identity", Kind: symbols.ValueSymbol, Module: preludeModule, Scheme: forAll(fn(tv("a"), tv("a")), "a")},
	"always":   {Name: "always", Kind: symbols.ValueSymbol, Module: preludeModule, Scheme: forAll(fn(tv("a"), tv("a"), tv("b")), "a", "b")},
	"not":      {Name: "not", Kind: symbols.ValueSymbol, Module: preludeModule, Scheme: typesystem.MonoScheme(fn(tBool, tBool))},
	"negate":   {Name: "negate", Kind: symbols.ValueSymbol, Module: preludeModule, Scheme: forAll(fn(tv("number"), tv("number")), "number")},
	"abs":      {Name: "abs", Kind: symbols.ValueSymbol, Module: preludeModule, Scheme: forAll(fn(tv("number"), tv("number")), "number")},
	"toFloat":  {Name: "toFloat", Kind: symbols.ValueSymbol, Module: preludeModule, Scheme: typesystem.MonoScheme(fn(tFloat, tInt))},
	"round":    {Name: "round", Kind: symbols.ValueSymbol, Module: preludeModule, Scheme: typesystem.MonoScheme(fn(tInt, tFloat))},
}

func opSymbol(name, assoc string, prec int, scheme typesystem.Scheme) symbols.Symbol {
	return symbols.Symbol{
		Name:   name,
		Kind:   symbols.OperatorSymbol,
		Module: preludeModule,
		Scheme: scheme,
		Fixity: &symbols.Fixity{Assoc: assoc, Precedence: prec},
	}
}

var builtinOperators = map[string]symbols.Symbol{
	"<|": opSymbol("<|", "right", 0, forAll(fn(tv("b"), fn(tv("b"), tv("a")), tv("a")), "a", "b")),
	"|>": opSymbol("|>", "left", 0, forAll(fn(tv("b"), tv("a"), fn(tv("b"), tv("a"))), "a", "b")),
	"||": opSymbol("||", "right", 2, typesystem.MonoScheme(fn(tBool, tBool, tBool))),
	"&&": opSymbol("&&", "right", 3, typesystem.MonoScheme(fn(tBool, tBool, tBool))),
	"==": opSymbol("==", "non", 4, forAll(fn(tBool, tv("a"), tv("a")), "a")),
	"/=": opSymbol("/=", "non", 4, forAll(fn(tBool, tv("a"), tv("a")), "a")),
	"<":  opSymbol("<", "non", 4, forAll(fn(tBool, tv("comparable"), tv("comparable")), "comparable")),
	">":  opSymbol(">", "non", 4, forAll(fn(tBool, tv("comparable"), tv("comparable")), "comparable")),
	"<=": opSymbol("<=", "non", 4, forAll(fn(tBool, tv("comparable"), tv("comparable")), "comparable")),
	">=": opSymbol(">=", "non", 4, forAll(fn(tBool, tv("comparable"), tv("comparable")), "comparable")),
	"++": opSymbol("++", "right", 5, forAll(fn(tv("appendable"), tv("appendable"), tv("appendable")), "appendable")),
	"::": opSymbol("::", "right", 5, forAll(fn(listOf(tv("a")), tv("a"), listOf(tv("a"))), "a")),
	"+":  opSymbol("+", "left", 6, forAll(fn(tv("number"), tv("number"), tv("number")), "number")),
	"-":  opSymbol("-", "left", 6, forAll(fn(tv("number"), tv("number"), tv("number")), "number")),
	"*":  opSymbol("*", "left", 7, forAll(fn(tv("number"), tv("number"), tv("number")), "number")),
	"/":  opSymbol("/", "left", 7, typesystem.MonoScheme(fn(tFloat, tFloat, tFloat))),
	"//": opSymbol("//", "left", 7, typesystem.MonoScheme(fn(tInt, tInt, tInt))),
	"^":  opSymbol("^", "right", 8, forAll(fn(tv("number"), tv("number"), tv("number")), "number")),
	"<<": opSymbol("<<", "left", 9, forAll(fn(fn(tv("c"), tv("a")), fn(tv("c"), tv("b")), fn(tv("b"), tv("a"))), "a", "b", "c")),
	">>": opSymbol(">>", "right", 9, forAll(fn(fn(tv("c"), tv("a")), fn(tv("b"), tv("a")), fn(tv("c"), tv("b"))), "a", "b", "c")),
}
