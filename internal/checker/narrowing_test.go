package checker

import "testing"

func TestTypeofNarrowingString(t *testing.T) {
	expectNoErrors(t, `
		function f(x: number | string) {
			if (typeof x === "string") {
				let s: string = x;
			} else {
				let n: number = x;
			}
		}
	`)
}

func TestNullishNarrowing(t *testing.T) {
	expectNoErrors(t, `
		function f(x: number | null) {
			if (x != null) {
				let n: number = x;
			}
		}
	`)
}

func TestTruthyNarrowing(t *testing.T) {
	expectNoErrors(t, `
		function f(x: number | undefined) {
			if (x) {
				let n: number = x;
			}
		}
	`)
}

func TestInstanceofNarrowing(t *testing.T) {
	expectNoErrors(t, `
		class Animal {
			name: string;
			constructor(name: string) { this.name = name; }
		}
		class Dog extends Animal {
			bark(): string { return "woof"; }
		}
		function f(a: Animal) {
			if (a instanceof Dog) {
				a.bark();
			}
		}
	`)
}

func TestLogicalAndNarrowing(t *testing.T) {
	expectNoErrors(t, `
		function f(x: number | string, y: boolean) {
			if (typeof x === "string" && y) {
				let s: string = x;
			}
		}
	`)
}

func TestNarrowingElseBranchStillWrong(t *testing.T) {
	expectError(t, `
		function f(x: number | string) {
			if (typeof x === "string") {
				let n: number = x;
			}
		}
	`, "cannot assign")
}

func TestTypeofNarrowingObject(t *testing.T) {
	expectNoErrors(t, `
		function f(x: object | string) {
			if (typeof x === "object") {
				let o: object = x;
			} else {
				let s: string = x;
			}
		}
	`)
}

func TestTypeofNarrowingFunction(t *testing.T) {
	expectNoErrors(t, `
		function f(x: string | (() => void)) {
			if (typeof x === "function") {
				x();
			} else {
				let s: string = x;
			}
		}
	`)
}
