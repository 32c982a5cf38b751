package typeenv

import (
	"testing"

	"github.com/tidwall/gjson"

	"github.com/tsgoscript/tscore/internal/parser"
	"github.com/tsgoscript/tscore/internal/types"
)

func resolveSrc(t *testing.T, env *TypeEnvironment, src string) types.TypeInfo {
	t.Helper()
	te, err := parser.ParseTypeExpression(src, "test.ts")
	if err != nil {
		t.Fatalf("ParseTypeExpression(%q): %v", src, err)
	}
	return env.Resolve(te)
}

func TestLookupTypeWalksScopeChain(t *testing.T) {
	root := New()
	root.DefineType("Foo", types.STRING_TYPE)

	inner := NewEnclosed(root)
	if _, ok := inner.LookupType("Foo"); !ok {
		t.Error("expected inner scope to see outer scope's type binding")
	}

	inner.DefineType("Bar", types.NUMBER_TYPE)
	if _, ok := root.LookupType("Bar"); ok {
		t.Error("inner scope's own binding leaked into outer scope")
	}
}

func TestLookupValueWalksScopeChain(t *testing.T) {
	root := New()
	root.DefineValue("x", types.NUMBER_TYPE)

	inner := NewEnclosed(root)
	got, ok := inner.LookupValue("x")
	if !ok || got != types.NUMBER_TYPE {
		t.Errorf("LookupValue(x) = %v, %v; want number, true", got, ok)
	}

	if _, ok := inner.LookupValue("nonexistent"); ok {
		t.Error("expected lookup of undefined value to fail")
	}
}

func TestOuterReturnsNilAtRoot(t *testing.T) {
	root := New()
	if root.Outer() != nil {
		t.Error("expected root scope's Outer() to be nil")
	}
	inner := NewEnclosed(root)
	if inner.Outer() != root {
		t.Error("expected enclosed scope's Outer() to be its parent")
	}
}

func TestResolveBuiltinPrimitives(t *testing.T) {
	env := New()
	tests := map[string]types.TypeInfo{
		"string":  types.STRING_TYPE,
		"number":  types.NUMBER_TYPE,
		"boolean": types.BOOLEAN_TYPE,
		"any":     types.ANY,
		"unknown": types.UNKNOWN,
		"never":   types.NEVER,
	}
	for src, want := range tests {
		if got := resolveSrc(t, env, src); got != want {
			t.Errorf("Resolve(%q) = %v, want %v", src, got, want)
		}
	}
}

func TestResolveUnionType(t *testing.T) {
	env := New()
	got := resolveSrc(t, env, "string | number")
	if _, ok := got.(*types.Union); !ok {
		t.Errorf("Resolve(string | number) = %T, want *types.Union", got)
	}
}

func TestResolveUnknownTypeNamePanics(t *testing.T) {
	env := New()
	defer func() {
		if recover() == nil {
			t.Error("expected Resolve of an unknown type name to panic")
		}
	}()
	resolveSrc(t, env, "NoSuchType")
}

func TestResolveAliasDepthCapIsConfigurable(t *testing.T) {
	original := MaxAliasExpansionDepth
	defer func() { MaxAliasExpansionDepth = original }()
	MaxAliasExpansionDepth = 1

	env := New()
	te, err := parser.ParseTypeExpression("Deep", "test.ts")
	if err != nil {
		t.Fatalf("ParseTypeExpression: %v", err)
	}

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected expansion depth panic")
		}
	}()
	// stack already at depth 1 == MaxAliasExpansionDepth, so even the
	// first nested expansion attempt should overflow.
	env.ResolveAlias("Deep", te, []string{"Outer"})
}

func TestNamespaceDeclarationMerging(t *testing.T) {
	root := New()
	a := &types.Namespace{Name: "NS", Types: map[string]types.TypeInfo{"A": types.STRING_TYPE}, Values: map[string]types.TypeInfo{}}
	b := &types.Namespace{Name: "NS", Types: map[string]types.TypeInfo{"B": types.NUMBER_TYPE}, Values: map[string]types.TypeInfo{}}

	merged := root.DefineNamespace(a)
	again := root.DefineNamespace(b)
	if merged != again {
		t.Fatal("expected DefineNamespace to merge into the existing namespace, not create a second one")
	}
	if _, ok := merged.Types["A"]; !ok {
		t.Error("expected merged namespace to retain first declaration's members")
	}
	if _, ok := merged.Types["B"]; !ok {
		t.Error("expected merged namespace to gain second declaration's members")
	}
}

func TestOwnTypesAndValuesExcludesOuterScope(t *testing.T) {
	root := New()
	root.DefineType("Outer", types.STRING_TYPE)

	inner := NewEnclosed(root)
	inner.DefineType("Inner", types.NUMBER_TYPE)
	inner.DefineValue("v", types.BOOLEAN_TYPE)

	gotTypes, gotValues := inner.OwnTypesAndValues()
	if _, ok := gotTypes["Outer"]; ok {
		t.Error("OwnTypesAndValues leaked an outer-scope type binding")
	}
	if _, ok := gotTypes["Inner"]; !ok {
		t.Error("OwnTypesAndValues missing its own type binding")
	}
	if _, ok := gotValues["v"]; !ok {
		t.Error("OwnTypesAndValues missing its own value binding")
	}
}

func TestSnapshotEncodesScopeChain(t *testing.T) {
	root := New()
	root.DefineType("Foo", types.STRING_TYPE)
	inner := NewEnclosed(root)
	inner.DefineValue("x", types.NUMBER_TYPE)

	out, err := inner.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}

	result := gjson.Parse(out)
	if !result.IsArray() {
		t.Fatalf("expected Snapshot output to be a JSON array, got %s", out)
	}
	if len(result.Array()) != 2 {
		t.Fatalf("expected 2 scope entries (inner + root), got %d", len(result.Array()))
	}
	innerEntry := result.Array()[0]
	if innerEntry.Get("values.x").String() != "number" {
		t.Errorf("expected inner scope's value x to be typed number, got %s", innerEntry.Get("values.x").String())
	}
	rootEntry := result.Array()[1]
	if rootEntry.Get("types.Foo").String() != "string" {
		t.Errorf("expected root scope's type Foo to render as string, got %s", rootEntry.Get("types.Foo").String())
	}
}
