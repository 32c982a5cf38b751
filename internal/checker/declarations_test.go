package checker

import "testing"

func TestTypeAliasResolution(t *testing.T) {
	expectNoErrors(t, `
		type ID = number;
		let id: ID = 5;
	`)
}

func TestUnionTypeAlias(t *testing.T) {
	expectNoErrors(t, `
		type Value = number | string;
		let v: Value = "hi";
	`)
}

func TestGenericTypeAlias(t *testing.T) {
	expectNoErrors(t, `
		type Box<T> = { value: T };
		let b: Box<number> = { value: 1 };
	`)
}

func TestNumericEnum(t *testing.T) {
	expectNoErrors(t, `
		enum Color { Red, Green, Blue }
		let c: Color = Color.Red;
	`)
}

func TestStringEnum(t *testing.T) {
	expectNoErrors(t, `
		enum Direction {
			Up = "UP",
			Down = "DOWN",
		}
		let d: Direction = Direction.Up;
	`)
}

func TestNamespaceMemberAccess(t *testing.T) {
	expectNoErrors(t, `
		namespace Util {
			export function square(x: number): number {
				return x * x;
			}
		}
		let n: number = Util.square(4);
	`)
}

func TestInterfaceExtends(t *testing.T) {
	expectNoErrors(t, `
		interface Named {
			name: string;
		}
		interface Aged extends Named {
			age: number;
		}
		let a: Aged = { name: "x", age: 1 };
	`)
}

func TestInterfaceExtendsUndefinedParent(t *testing.T) {
	expectError(t, `
		interface Aged extends Missing {
			age: number;
		}
	`, "cannot find interface")
}
