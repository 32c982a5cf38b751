package checker

import "testing"

func TestOverloadResolutionPicksFirstMatch(t *testing.T) {
	expectNoErrors(t, `
		function format(x: number): string;
		function format(x: string): string;
		function format(x: any): string {
			return "x";
		}
		let a: string = format(1);
		let b: string = format("hi");
	`)
}

func TestOverloadResolutionNoMatch(t *testing.T) {
	expectError(t, `
		function format(x: number): string;
		function format(x: string): string;
		function format(x: any): string {
			return "x";
		}
		let a = format(true);
	`, "no overload matches")
}

func TestGenericFunctionInference(t *testing.T) {
	expectNoErrors(t, `
		function identity<T>(x: T): T {
			return x;
		}
		let n: number = identity(1);
		let s: string = identity("hi");
	`)
}

func TestGenericFunctionExplicitTypeArgs(t *testing.T) {
	expectNoErrors(t, `
		function identity<T>(x: T): T {
			return x;
		}
		let n: number = identity<number>(1);
	`)
}

func TestGenericArrayInference(t *testing.T) {
	expectNoErrors(t, `
		function first<T>(xs: T[]): T {
			return xs[0];
		}
		let xs: number[] = [1, 2, 3];
		let n: number = first(xs);
	`)
}

func TestOverloadResolutionPrefersLiteralOverPrimitive(t *testing.T) {
	expectNoErrors(t, `
		function f(x: "a"): 1;
		function f(x: string): 2;
		function f(x: string): number {
			return x === "a" ? 1 : 2;
		}
		let r: 1 = f("a");
	`)
}

func TestOverloadResolutionSpecificityIsOrderIndependent(t *testing.T) {
	expectNoErrors(t, `
		function g(x: string): 2;
		function g(x: "a"): 1;
		function g(x: string): number {
			return x === "a" ? 1 : 2;
		}
		let r: 1 = g("a");
	`)
}

func TestOverloadResolutionPrimitiveWinsForNonLiteralArgument(t *testing.T) {
	expectError(t, `
		function f(x: "a"): 1;
		function f(x: string): 2;
		function f(x: string): number {
			return x === "a" ? 1 : 2;
		}
		let s: string = "b";
		let r: 1 = f(s);
	`, "cannot assign")
}

func TestGenericInferenceUnionsDivergentOccurrences(t *testing.T) {
	expectNoErrors(t, `
		function pair<T>(a: T, b: T): T[] {
			return [a, b];
		}
		let r: (string | number)[] = pair(1, "x");
	`)
}
