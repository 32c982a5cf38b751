package checker

import "testing"

func TestSimpleClassDeclaration(t *testing.T) {
	expectNoErrors(t, `
		class Point {
			x: number;
			y: number;
			constructor(x: number, y: number) {
				this.x = x;
				this.y = y;
			}
		}
		let p = new Point(1, 2);
	`)
}

func TestClassWithSuperclass(t *testing.T) {
	expectNoErrors(t, `
		class Base {
			id: number;
			constructor(id: number) { this.id = id; }
		}
		class Derived extends Base {
			name: string;
			constructor(id: number, name: string) {
				super(id);
				this.name = name;
			}
		}
		let d = new Derived(1, "a");
	`)
}

func TestPrivateMemberNotAccessibleOutsideClass(t *testing.T) {
	expectError(t, `
		class Box {
			#value: number;
			constructor(v: number) { this.#value = v; }
		}
		let b = new Box(1);
		let v = b.#value;
	`, "not accessible here")
}

func TestProtectedMemberAccessibleFromSubclass(t *testing.T) {
	expectNoErrors(t, `
		class Base {
			protected id: number;
			constructor(id: number) { this.id = id; }
		}
		class Derived extends Base {
			constructor(id: number) {
				super(id);
				let x: number = this.id;
			}
		}
	`)
}

func TestProtectedMemberNotAccessibleOutsideClass(t *testing.T) {
	expectError(t, `
		class Base {
			protected id: number;
			constructor(id: number) { this.id = id; }
		}
		let b = new Base(1);
		let x = b.id;
	`, "not accessible here")
}

func TestAbstractClassMustImplementAbstractMethod(t *testing.T) {
	expectError(t, `
		abstract class Shape {
			abstract area(): number;
		}
		class Circle extends Shape {
			radius: number;
			constructor(r: number) { this.radius = r; }
		}
	`, "does not implement abstract method")
}

func TestAbstractClassWithImplementation(t *testing.T) {
	expectNoErrors(t, `
		abstract class Shape {
			abstract area(): number;
		}
		class Circle extends Shape {
			radius: number;
			constructor(r: number) { this.radius = r; }
			area(): number { return this.radius; }
		}
	`)
}

func TestClassImplementsInterface(t *testing.T) {
	expectNoErrors(t, `
		interface Named {
			name: string;
		}
		class Person implements Named {
			name: string;
			constructor(name: string) { this.name = name; }
		}
	`)
}

func TestUndefinedSuperclass(t *testing.T) {
	expectError(t, `
		class Derived extends Missing {
			x: number;
		}
	`, "cannot find")
}
