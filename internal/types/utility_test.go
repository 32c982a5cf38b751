package types

import "testing"

func recordWith(fields map[string]TypeInfo) *Record {
	r := NewRecord()
	for k, v := range fields {
		r.Fields[k] = v
	}
	return r
}

func TestApplyUtilityPartialMarksAllOptional(t *testing.T) {
	r := recordWith(map[string]TypeInfo{"name": STRING_TYPE, "age": NUMBER_TYPE})
	got, ok := ApplyUtility("Partial", []TypeInfo{r})
	if !ok {
		t.Fatal("expected Partial to be recognized")
	}
	out := got.(*Record)
	if !out.Optional["name"] || !out.Optional["age"] {
		t.Errorf("expected all fields optional, got %+v", out.Optional)
	}
}

func TestApplyUtilityRequiredClearsOptional(t *testing.T) {
	r := recordWith(map[string]TypeInfo{"name": STRING_TYPE})
	r.Optional["name"] = true
	got, _ := ApplyUtility("Required", []TypeInfo{r})
	out := got.(*Record)
	if out.Optional["name"] {
		t.Error("expected Required to clear the optional flag")
	}
}

func TestApplyUtilityReadonlyOnArray(t *testing.T) {
	arr := &Array{Element: STRING_TYPE}
	got, _ := ApplyUtility("Readonly", []TypeInfo{arr})
	out, ok := got.(*Array)
	if !ok || !out.Readonly {
		t.Errorf("expected Readonly<string[]> to produce a readonly array, got %+v", got)
	}
}

func TestApplyUtilityPickSelectsNamedFields(t *testing.T) {
	r := recordWith(map[string]TypeInfo{"name": STRING_TYPE, "age": NUMBER_TYPE})
	got, _ := ApplyUtility("Pick", []TypeInfo{r, &StringLiteral{Value: "name"}})
	out := got.(*Record)
	if _, ok := out.Fields["name"]; !ok {
		t.Error("expected Pick to retain the named field")
	}
	if _, ok := out.Fields["age"]; ok {
		t.Error("expected Pick to drop the unnamed field")
	}
}

func TestApplyUtilityOmitDropsNamedFields(t *testing.T) {
	r := recordWith(map[string]TypeInfo{"name": STRING_TYPE, "age": NUMBER_TYPE})
	got, _ := ApplyUtility("Omit", []TypeInfo{r, &StringLiteral{Value: "age"}})
	out := got.(*Record)
	if _, ok := out.Fields["age"]; ok {
		t.Error("expected Omit to drop the named field")
	}
	if _, ok := out.Fields["name"]; !ok {
		t.Error("expected Omit to retain the unnamed field")
	}
}

func TestApplyUtilityRecordBuildsMapFromKeyUnion(t *testing.T) {
	keys := NewUnion(&StringLiteral{Value: "a"}, &StringLiteral{Value: "b"})
	got, _ := ApplyUtility("Record", []TypeInfo{keys, NUMBER_TYPE})
	out := got.(*Record)
	if out.Fields["a"] != NUMBER_TYPE || out.Fields["b"] != NUMBER_TYPE {
		t.Errorf("expected Record<'a'|'b', number> to produce fields a and b typed number, got %+v", out.Fields)
	}
}

func TestApplyUtilityRecordWithNonLiteralKeyUsesStringIndex(t *testing.T) {
	got, _ := ApplyUtility("Record", []TypeInfo{STRING_TYPE, NUMBER_TYPE})
	out := got.(*Record)
	if out.StringIndex != NUMBER_TYPE {
		t.Errorf("expected Record<string, number> to set a string index signature, got %+v", out)
	}
}

func TestApplyUtilityExcludeRemovesAssignableMembers(t *testing.T) {
	u := NewUnion(STRING_TYPE, NUMBER_TYPE, BOOLEAN_TYPE)
	got, _ := ApplyUtility("Exclude", []TypeInfo{u, STRING_TYPE})
	out, ok := got.(*Union)
	if !ok {
		t.Fatalf("expected a union result, got %T", got)
	}
	for _, m := range out.Types {
		if m == STRING_TYPE {
			t.Error("expected Exclude<T, string> to drop string")
		}
	}
}

func TestApplyUtilityExtractKeepsAssignableMembers(t *testing.T) {
	u := NewUnion(STRING_TYPE, NUMBER_TYPE, BOOLEAN_TYPE)
	got, _ := ApplyUtility("Extract", []TypeInfo{u, STRING_TYPE})
	if got != STRING_TYPE {
		t.Errorf("expected Extract<T, string> to yield string, got %v", got)
	}
}

func TestApplyUtilityNonNullableStripsNullAndUndefined(t *testing.T) {
	u := NewUnion(STRING_TYPE, NULL, UNDEFINED)
	got, _ := ApplyUtility("NonNullable", []TypeInfo{u})
	if got != STRING_TYPE {
		t.Errorf("expected NonNullable<string|null|undefined> to yield string, got %v", got)
	}
}

func TestApplyUtilityReturnTypeOfFunction(t *testing.T) {
	fn := &Function{Params: nil, Return: NUMBER_TYPE}
	got, _ := ApplyUtility("ReturnType", []TypeInfo{fn})
	if got != NUMBER_TYPE {
		t.Errorf("expected ReturnType<() => number> to yield number, got %v", got)
	}
}

func TestApplyUtilityParametersOfFunction(t *testing.T) {
	fn := &Function{Params: []TypeInfo{STRING_TYPE, NUMBER_TYPE}, Return: VOID}
	got, _ := ApplyUtility("Parameters", []TypeInfo{fn})
	tup, ok := got.(*Tuple)
	if !ok || len(tup.Elements) != 2 {
		t.Fatalf("expected a 2-tuple of parameter types, got %+v", got)
	}
	if tup.Elements[0].Type != STRING_TYPE || tup.Elements[1].Type != NUMBER_TYPE {
		t.Errorf("expected parameter tuple to preserve order and types, got %+v", tup.Elements)
	}
}

func TestApplyUtilityInstanceTypeOfClass(t *testing.T) {
	c := NewClass("Widget")
	got, _ := ApplyUtility("InstanceType", []TypeInfo{c})
	inst, ok := got.(*Instance)
	if !ok || inst.ClassType != c {
		t.Errorf("expected InstanceType<typeof Widget> to yield an Instance of Widget, got %+v", got)
	}
}

func TestApplyUtilityUppercaseAndLowercase(t *testing.T) {
	up, _ := ApplyUtility("Uppercase", []TypeInfo{&StringLiteral{Value: "abc"}})
	if s := up.(*StringLiteral); s.Value != "ABC" {
		t.Errorf("Uppercase('abc') = %q, want ABC", s.Value)
	}
	low, _ := ApplyUtility("Lowercase", []TypeInfo{&StringLiteral{Value: "ABC"}})
	if s := low.(*StringLiteral); s.Value != "abc" {
		t.Errorf("Lowercase('ABC') = %q, want abc", s.Value)
	}
}

func TestApplyUtilityCapitalizeAndUncapitalize(t *testing.T) {
	cap, _ := ApplyUtility("Capitalize", []TypeInfo{&StringLiteral{Value: "hello"}})
	if s := cap.(*StringLiteral); s.Value != "Hello" {
		t.Errorf("Capitalize('hello') = %q, want Hello", s.Value)
	}
	uncap, _ := ApplyUtility("Uncapitalize", []TypeInfo{&StringLiteral{Value: "Hello"}})
	if s := uncap.(*StringLiteral); s.Value != "hello" {
		t.Errorf("Uncapitalize('Hello') = %q, want hello", s.Value)
	}
}

func TestApplyUtilityUnknownNameNotRecognized(t *testing.T) {
	if _, ok := ApplyUtility("NotAUtility", nil); ok {
		t.Error("expected an unrecognized utility name to return ok=false")
	}
}
