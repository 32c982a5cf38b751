package types

import "testing"

func TestIsAssignableAnyIsUniversal(t *testing.T) {
	if !IsAssignable(ANY, STRING_TYPE) {
		t.Error("expected any to accept anything")
	}
	if !IsAssignable(STRING_TYPE, ANY) {
		t.Error("expected any to be assignable to anything")
	}
}

func TestIsAssignableNeverOnlyAcceptsNever(t *testing.T) {
	if !IsAssignable(STRING_TYPE, NEVER) {
		t.Error("expected never to be assignable to anything")
	}
	if IsAssignable(NEVER, STRING_TYPE) {
		t.Error("expected only never to be assignable to never")
	}
}

func TestIsAssignableUnknownAcceptsEverything(t *testing.T) {
	if !IsAssignable(UNKNOWN, STRING_TYPE) {
		t.Error("expected unknown to accept any value")
	}
	if IsAssignable(STRING_TYPE, UNKNOWN) {
		t.Error("expected unknown to not be assignable to a concrete type")
	}
}

func TestIsAssignableNullAndUndefinedAreDistinct(t *testing.T) {
	if IsAssignable(NULL, UNDEFINED) {
		t.Error("expected undefined to not be assignable to null")
	}
	if !IsAssignable(NULL, NULL) {
		t.Error("expected null to be assignable to null")
	}
}

func TestIsAssignableNullIntoUnionMember(t *testing.T) {
	u := NewUnion(STRING_TYPE, NULL)
	if !IsAssignable(u, NULL) {
		t.Error("expected null to be assignable to a union containing null")
	}
	if IsAssignable(STRING_TYPE, NULL) {
		t.Error("expected null to not be assignable to a bare string type")
	}
}

func TestIsAssignableLiteralWidensToPrimitive(t *testing.T) {
	if !IsAssignable(STRING_TYPE, &StringLiteral{Value: "x"}) {
		t.Error("expected a string literal to be assignable to string")
	}
	if !IsAssignable(NUMBER_TYPE, &NumberLiteral{Value: 1}) {
		t.Error("expected a number literal to be assignable to number")
	}
	if IsAssignable(&StringLiteral{Value: "x"}, STRING_TYPE) {
		t.Error("did not expect the bare string type to narrow into a literal")
	}
}

func TestIsAssignableUnionExpectedAcceptsAnyMember(t *testing.T) {
	u := NewUnion(STRING_TYPE, NUMBER_TYPE)
	if !IsAssignable(u, STRING_TYPE) {
		t.Error("expected string to be assignable to string|number")
	}
	if IsAssignable(u, BOOLEAN_TYPE) {
		t.Error("did not expect boolean to be assignable to string|number")
	}
}

func TestIsAssignableUnionActualRequiresEveryMember(t *testing.T) {
	u := NewUnion(STRING_TYPE, NUMBER_TYPE)
	if IsAssignable(STRING_TYPE, u) {
		t.Error("did not expect string|number to be assignable into bare string")
	}
	wider := NewUnion(STRING_TYPE, NUMBER_TYPE, BOOLEAN_TYPE)
	if !IsAssignable(wider, u) {
		t.Error("expected string|number to be assignable into a wider union")
	}
}

func TestIsAssignableArrayCovariantElement(t *testing.T) {
	strs := &Array{Element: STRING_TYPE}
	nums := &Array{Element: NUMBER_TYPE}
	if !IsAssignable(strs, strs) {
		t.Error("expected string[] to be assignable to string[]")
	}
	if IsAssignable(strs, nums) {
		t.Error("did not expect number[] to be assignable to string[]")
	}
}

func TestIsAssignableFunctionIdenticalSignatures(t *testing.T) {
	// Parameters are compared covariantly (each actual parameter must be
	// assignable to the expected one); identical signatures always pass.
	expected := &Function{Params: []TypeInfo{STRING_TYPE}, Return: VOID}
	narrower := &Function{Params: []TypeInfo{STRING_TYPE}, Return: VOID}
	if !isFunctionAssignable(expected, narrower) {
		t.Error("expected identical signatures to be assignable")
	}
}

func TestIsAssignableFunctionReturnIsCovariant(t *testing.T) {
	expected := &Function{Params: nil, Return: NUMBER_TYPE}
	wideReturn := &Function{Params: nil, Return: ANY}
	if !IsAssignable(expected, wideReturn) {
		t.Error("expected a function returning any to satisfy a number-returning slot")
	}
	narrowReturn := &Function{Params: nil, Return: &NumberLiteral{Value: 1}}
	if !IsAssignable(expected, narrowReturn) {
		t.Error("expected a function returning a number literal to satisfy a number-returning slot")
	}
}

func TestIsAssignableExtraParamsRequireRest(t *testing.T) {
	expected := &Function{Params: []TypeInfo{STRING_TYPE}, Return: VOID}
	tooMany := &Function{Params: []TypeInfo{STRING_TYPE, NUMBER_TYPE}, Return: VOID}
	if IsAssignable(expected, tooMany) {
		t.Error("did not expect extra non-rest params to be assignable")
	}
	tooMany.HasRest = true
	if !IsAssignable(expected, tooMany) {
		t.Error("expected a rest-param function to absorb extra declared params")
	}
}

func TestIsAssignableRecordStructural(t *testing.T) {
	expected := NewRecord()
	expected.Fields["name"] = STRING_TYPE
	actual := NewRecord()
	actual.Fields["name"] = STRING_TYPE
	actual.Fields["extra"] = NUMBER_TYPE
	if !IsAssignable(expected, actual) {
		t.Error("expected excess-property actual record to satisfy a narrower expected record")
	}

	missing := NewRecord()
	if IsAssignable(expected, missing) {
		t.Error("did not expect a record missing a required field to be assignable")
	}
}

func TestIsAssignableRecordOptionalFieldMayBeAbsent(t *testing.T) {
	expected := NewRecord()
	expected.Fields["name"] = STRING_TYPE
	expected.Optional["name"] = true
	actual := NewRecord()
	if !IsAssignable(expected, actual) {
		t.Error("expected an absent optional field to satisfy the expected record")
	}
}

func TestIsAssignableClassExtends(t *testing.T) {
	base := NewClass("Animal")
	derived := NewClass("Dog")
	derived.Superclass = base
	if !IsAssignable(base, derived) {
		t.Error("expected a subclass instance to be assignable to its superclass type")
	}
	if IsAssignable(derived, base) {
		t.Error("did not expect a superclass to be assignable to a subclass")
	}
}

func TestIsAssignableTupleRequiresMinimumLength(t *testing.T) {
	expected := &Tuple{
		Elements:      []TupleElement{{Type: STRING_TYPE, Kind: TupleRequired}, {Type: NUMBER_TYPE, Kind: TupleRequired}},
		RequiredCount: 2,
	}
	short := &Tuple{Elements: []TupleElement{{Type: STRING_TYPE, Kind: TupleRequired}}, RequiredCount: 1}
	if IsAssignable(expected, short) {
		t.Error("did not expect a shorter tuple to satisfy a longer required tuple")
	}
}

func TestIsAssignableArrayIntoTupleSlot(t *testing.T) {
	expected := &Tuple{Elements: []TupleElement{{Type: NUMBER_TYPE, Kind: TupleRequired}}, RequiredCount: 1}
	arr := &Array{Element: NUMBER_TYPE}
	if !IsAssignable(expected, arr) {
		t.Error("expected a homogeneous array to satisfy a tuple of the same element type")
	}
}
