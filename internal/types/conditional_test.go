package types

import "testing"

func TestEvaluateConditionalTrueBranch(t *testing.T) {
	c := &ConditionalType{Check: STRING_TYPE, Extends: STRING_TYPE, True: NUMBER_TYPE, False: BOOLEAN_TYPE}
	if got := EvaluateConditional(c); got != NUMBER_TYPE {
		t.Errorf("EvaluateConditional = %v, want number (true branch)", got)
	}
}

func TestEvaluateConditionalFalseBranch(t *testing.T) {
	c := &ConditionalType{Check: NUMBER_TYPE, Extends: STRING_TYPE, True: NUMBER_TYPE, False: BOOLEAN_TYPE}
	if got := EvaluateConditional(c); got != BOOLEAN_TYPE {
		t.Errorf("EvaluateConditional = %v, want boolean (false branch)", got)
	}
}

func TestEvaluateConditionalDistributesOverNakedUnionCheck(t *testing.T) {
	u := NewUnion(STRING_TYPE, NUMBER_TYPE)
	c := &ConditionalType{Check: u, Extends: STRING_TYPE, True: BOOLEAN_TYPE, False: NUMBER_TYPE, IsNakedCheck: true}
	got := EvaluateConditional(c)
	union, ok := got.(*Union)
	if !ok {
		t.Fatalf("expected a distributed union result, got %T", got)
	}
	foundTrue, foundFalse := false, false
	for _, m := range union.Types {
		if m == BOOLEAN_TYPE {
			foundTrue = true
		}
		if m == NUMBER_TYPE {
			foundFalse = true
		}
	}
	if !foundTrue || !foundFalse {
		t.Errorf("expected distribution to produce both branches, got %v", union.Types)
	}
}

func TestEvaluateConditionalNonNakedUnionDoesNotDistribute(t *testing.T) {
	u := NewUnion(STRING_TYPE, NUMBER_TYPE)
	c := &ConditionalType{Check: u, Extends: u, True: BOOLEAN_TYPE, False: NEVER, IsNakedCheck: false}
	got := EvaluateConditional(c)
	if got != BOOLEAN_TYPE {
		t.Errorf("expected a non-distributed evaluation testing the union as a whole, got %v", got)
	}
}

func TestMatchExtendsInfersTypeParameter(t *testing.T) {
	bindings := map[string]TypeInfo{}
	infer := &InferredTypeParameter{Name: "T"}
	if !matchExtends(STRING_TYPE, infer, bindings) {
		t.Fatal("expected matchExtends against an infer parameter to always succeed")
	}
	if bindings["T"] != STRING_TYPE {
		t.Errorf("expected T bound to string, got %v", bindings["T"])
	}
}

func TestEvaluateConditionalInfersArrayElement(t *testing.T) {
	infer := &InferredTypeParameter{Name: "E"}
	c := &ConditionalType{
		Check:   &Array{Element: NUMBER_TYPE},
		Extends: &Array{Element: infer},
		True:    infer,
		False:   NEVER,
	}
	if got := EvaluateConditional(c); got != NUMBER_TYPE {
		t.Errorf("expected infer U from T[] extends U[] to bind to number, got %v", got)
	}
}

func TestEvaluateConditionalInfersFunctionReturnType(t *testing.T) {
	infer := &InferredTypeParameter{Name: "R"}
	fn := &Function{Params: nil, Return: STRING_TYPE}
	pattern := &Function{Params: nil, Return: infer}
	c := &ConditionalType{Check: fn, Extends: pattern, True: infer, False: NEVER}
	if got := EvaluateConditional(c); got != STRING_TYPE {
		t.Errorf("expected infer R to bind to string, got %v", got)
	}
}

func TestEvaluateConditionalFunctionArityMismatchFallsBackToAssignability(t *testing.T) {
	fn := &Function{Params: []TypeInfo{STRING_TYPE}, Return: VOID}
	pattern := &Function{Params: []TypeInfo{STRING_TYPE, NUMBER_TYPE}, Return: VOID}
	c := &ConditionalType{Check: fn, Extends: pattern, True: BOOLEAN_TYPE, False: NEVER}
	if got := EvaluateConditional(c); got != BOOLEAN_TYPE {
		t.Errorf("expected a check function with fewer parameters to pass the assignability fallback, got %v", got)
	}
}

func TestEvaluateConditionalInfersPromiseValue(t *testing.T) {
	infer := &InferredTypeParameter{Name: "V"}
	c := &ConditionalType{
		Check:   &Promise{Value: NUMBER_TYPE},
		Extends: &Promise{Value: infer},
		True:    infer,
		False:   NEVER,
	}
	if got := EvaluateConditional(c); got != NUMBER_TYPE {
		t.Errorf("expected infer V from Promise<T> extends Promise<U> to bind to number, got %v", got)
	}
}

func TestSubstituteInferredUnboundYieldsUndefined(t *testing.T) {
	infer := &InferredTypeParameter{Name: "Z"}
	got := substituteInferred(infer, map[string]TypeInfo{})
	if got != UNDEFINED {
		t.Errorf("expected an unbound inferred parameter to substitute to undefined, got %v", got)
	}
}
