package interpreter

import (
	"testing"

	"github.com/tsgoscript/tscore/internal/checker"
	"github.com/tsgoscript/tscore/internal/parser"
)

// run parses, checks, and interprets src, mirroring the checker
// package's own checkSource helper so a reviewer already familiar with
// that file recognizes the pattern here.
func run(t *testing.T, src string) (Value, error) {
	t.Helper()
	prog, err := parser.Parse(src, "test.ts")
	if err != nil {
		t.Fatalf("parser error: %v", err)
	}
	c := checker.New(checker.DefaultOptions(), nil)
	if d := c.Check(prog); d != nil {
		t.Fatalf("checker error: %v", d)
	}
	ip := New(c.TypeMap())
	return ip.Run(prog)
}

func expectValue(t *testing.T, src, want string) {
	t.Helper()
	v, err := run(t, src)
	if err != nil {
		t.Fatalf("unexpected runtime error: %v", err)
	}
	if v == nil || v.String() != want {
		t.Errorf("expected %q, got %v", want, v)
	}
}

func TestArithmetic(t *testing.T) {
	expectValue(t, `1 + 2 * 3;`, "7")
}

func TestStringConcatenation(t *testing.T) {
	expectValue(t, `"a" + "b" + 1;`, "ab1")
}

func TestVariablesAndReassignment(t *testing.T) {
	expectValue(t, `
		let x = 1;
		x = x + 41;
		x;
	`, "42")
}

func TestIfElse(t *testing.T) {
	expectValue(t, `
		let x = 1;
		let y: number;
		if (x > 0) { y = 1; } else { y = -1; }
		y;
	`, "1")
}

func TestWhileLoopAccumulates(t *testing.T) {
	expectValue(t, `
		let i = 0;
		let sum = 0;
		while (i < 5) {
			sum = sum + i;
			i = i + 1;
		}
		sum;
	`, "10")
}

func TestForLoopBreakContinue(t *testing.T) {
	expectValue(t, `
		let sum = 0;
		for (let i = 0; i < 10; i = i + 1) {
			if (i === 5) { break; }
			if (i % 2 === 0) { continue; }
			sum = sum + i;
		}
		sum;
	`, "4")
}

func TestFunctionCallAndClosure(t *testing.T) {
	expectValue(t, `
		function makeAdder(a: number): (b: number) => number {
			return (b: number) => a + b;
		}
		const add5 = makeAdder(5);
		add5(37);
	`, "42")
}

func TestClassFieldsAndMethods(t *testing.T) {
	expectValue(t, `
		class Counter {
			value: number = 0;
			increment(): number {
				this.value = this.value + 1;
				return this.value;
			}
		}
		const c = new Counter();
		c.increment();
		c.increment();
		c.increment();
	`, "3")
}

func TestClassInheritanceAndSuper(t *testing.T) {
	expectValue(t, `
		class Animal {
			name: string;
			constructor(name: string) { this.name = name; }
			describe(): string { return "Animal:" + this.name; }
		}
		class Dog extends Animal {
			describe(): string { return "Dog<" + super.describe() + ">"; }
		}
		const d = new Dog("Rex");
		d.describe();
	`, "Dog<Animal:Rex>")
}

func TestTryCatchFinally(t *testing.T) {
	expectValue(t, `
		let log = "";
		try {
			throw "boom";
		} catch (e) {
			log = log + "caught:" + e;
		} finally {
			log = log + ":done";
		}
		log;
	`, "caught:boom:done")
}

func TestArrayLiteralAndIteration(t *testing.T) {
	expectValue(t, `
		let sum = 0;
		for (const n of [1, 2, 3, 4]) {
			sum = sum + n;
		}
		sum;
	`, "10")
}

func TestSwitchStatementFallthrough(t *testing.T) {
	expectValue(t, `
		function classify(n: number): string {
			let result = "";
			switch (n) {
				case 1:
				case 2:
					result = "small";
					break;
				default:
					result = "large";
			}
			return result;
		}
		classify(2);
	`, "small")
}

func TestOptionalChainingShortCircuits(t *testing.T) {
	expectValue(t, `
		let x: { a?: { b: number } } = {};
		x.a?.b;
	`, "undefined")
}

func TestNullishCoalescing(t *testing.T) {
	expectValue(t, `
		let x: number | null = null;
		x ?? 9;
	`, "9")
}

func TestAsyncAwaitRunsSynchronously(t *testing.T) {
	expectValue(t, `
		async function greet(): Promise<string> {
			return "hi";
		}
		async function main(): Promise<string> {
			const g = await greet();
			return g + "!";
		}
		await main();
	`, "hi!")
}

func TestPrivateFieldAccessIsScopedToClass(t *testing.T) {
	expectValue(t, `
		class Wallet {
			#balance: number = 0;
			deposit(n: number): number {
				this.#balance = this.#balance + n;
				return this.#balance;
			}
		}
		const w = new Wallet();
		w.deposit(10);
		w.deposit(32);
	`, "42")
}
