package checker

import "testing"

func TestArrayLiteralWidening(t *testing.T) {
	expectNoErrors(t, `
		let xs: number[] = [1, 2, 3];
	`)
}

func TestArrayLiteralContextualTyping(t *testing.T) {
	expectError(t, `
		let xs: number[] = [1, "two", 3];
	`, "cannot assign")
}

func TestObjectLiteralContextualTyping(t *testing.T) {
	expectNoErrors(t, `
		interface Point {
			x: number;
			y: number;
		}
		let p: Point = { x: 1, y: 2 };
	`)
}

func TestConditionalExpressionUnion(t *testing.T) {
	expectNoErrors(t, `
		function f(b: boolean): number | string {
			return b ? 1 : "no";
		}
	`)
}

func TestArrowFunctionInferredReturn(t *testing.T) {
	expectNoErrors(t, `
		let double = (x: number) => x * 2;
		let n: number = double(3);
	`)
}

func TestAsExpressionPermissiveConversion(t *testing.T) {
	expectNoErrors(t, `
		let x: unknown = 1;
		let n: number = x as number;
	`)
}

func TestSatisfiesPreservesLiteralType(t *testing.T) {
	expectNoErrors(t, `
		interface Point {
			x: number;
			y: number;
		}
		let p = { x: 1, y: 2 } satisfies Point;
	`)
}

func TestSatisfiesFailsOnMismatch(t *testing.T) {
	expectError(t, `
		interface Point {
			x: number;
			y: number;
		}
		let p = { x: 1, y: "bad" } satisfies Point;
	`, "does not satisfy")
}

func TestTernaryNarrowingInCondition(t *testing.T) {
	expectNoErrors(t, `
		function f(x: number | null): number {
			return x === null ? 0 : x;
		}
	`)
}

func TestNonNullAssertion(t *testing.T) {
	expectNoErrors(t, `
		function f(x: number | null): number {
			return x!;
		}
	`)
}

func TestArrayLiteralAgainstTupleContext(t *testing.T) {
	expectNoErrors(t, `
		let p: [string, number] = ["x", 1];
	`)
}

func TestArrayLiteralAgainstTupleContextWrongElementType(t *testing.T) {
	expectError(t, `
		let p: [string, number] = [1, "x"];
	`, "cannot assign")
}

func TestArrayLiteralAgainstTupleContextTooFewElements(t *testing.T) {
	expectError(t, `
		let p: [string, number] = ["x"];
	`, "cannot assign")
}

func TestArrayLiteralAgainstTupleContextOptionalElement(t *testing.T) {
	expectNoErrors(t, `
		let p: [string, number?] = ["x"];
	`)
}
