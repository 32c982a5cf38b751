// Command tscore is a thin CLI over the type checker, interpreter, and
// bytecode emitter, in the teacher's cmd/dwscript style.
package main

import (
	"fmt"
	"os"

	"github.com/tsgoscript/tscore/cmd/tscore/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
