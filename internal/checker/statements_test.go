package checker

import "testing"

func TestForOfNarrowsElementType(t *testing.T) {
	expectNoErrors(t, `
		function f(xs: number[]) {
			for (const x of xs) {
				let n: number = x;
			}
		}
	`)
}

func TestForOfElementTypeMismatch(t *testing.T) {
	expectError(t, `
		function f(xs: number[]) {
			for (const x of xs) {
				let s: string = x;
			}
		}
	`, "cannot assign")
}

func TestForInBindsStringKey(t *testing.T) {
	expectNoErrors(t, `
		function f(o: object) {
			for (const k in o) {
				let s: string = k;
			}
		}
	`)
}

func TestBreakOutsideLoop(t *testing.T) {
	expectError(t, `
		break;
	`, "break statement outside")
}

func TestContinueOutsideLoop(t *testing.T) {
	expectError(t, `
		continue;
	`, "continue statement outside")
}

func TestLabeledBreak(t *testing.T) {
	expectNoErrors(t, `
		outer: for (let i = 0; i < 10; i++) {
			for (let j = 0; j < 10; j++) {
				break outer;
			}
		}
	`)
}

func TestSwitchStatement(t *testing.T) {
	expectNoErrors(t, `
		function f(x: number): string {
			switch (x) {
				case 1:
					return "one";
				case 2:
					return "two";
				default:
					return "other";
			}
		}
	`)
}

func TestTryCatchFinally(t *testing.T) {
	expectNoErrors(t, `
		function f() {
			try {
				let x: number = 1;
			} catch (e) {
				let msg: string = "err";
			} finally {
				let done: boolean = true;
			}
		}
	`)
}

func TestReturnOutsideFunction(t *testing.T) {
	expectError(t, `
		return 1;
	`, "return statement outside")
}
