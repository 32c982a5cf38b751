package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tsgoscript/tscore/internal/bytecode"
	"github.com/tsgoscript/tscore/internal/checker"
	"github.com/tsgoscript/tscore/internal/parser"
)

var (
	emitOutputFile string
	disassemble    bool
)

var emitCmd = &cobra.Command{
	Use:   "emit [file]",
	Short: "Type-check and lower a source file to bytecode",
	Long: `Parse, type-check, and lower a source file through the bytecode
back end, emitting an IL-style instruction stream for an external
managed runtime to execute.

Examples:
  # Emit a disassembly listing to stdout
  tscore emit --disassemble script.ts

  # Emit nothing but verify the file lowers cleanly
  tscore emit --disassemble=false script.ts`,
	Args: cobra.ExactArgs(1),
	RunE: runEmit,
}

func init() {
	rootCmd.AddCommand(emitCmd)
	emitCmd.Flags().StringVarP(&emitOutputFile, "output", "o", "", "write the disassembly listing to this file (extension replaced by .bc.txt) instead of stdout")
	emitCmd.Flags().BoolVar(&disassemble, "disassemble", true, "print the disassembled bytecode (default: true)")
}

func runEmit(_ *cobra.Command, args []string) error {
	filename := args[0]
	content, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	source := string(content)

	prog, err := parser.Parse(source, filename)
	if err != nil {
		return fmt.Errorf("parse error: %w", err)
	}

	opts, err := loadCheckerOptions()
	if err != nil {
		return err
	}
	c := checker.New(opts, nil)
	if d := c.Check(prog); d != nil {
		fmt.Fprintln(os.Stderr, d.Format(source, true))
		return fmt.Errorf("type checking failed")
	}

	compiled, err := bytecode.Emit(prog, c.TypeMap())
	if err != nil {
		return fmt.Errorf("bytecode emission failed: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Lowered %s: %d function chunk(s), %d class layout(s)\n",
			filename, len(compiled.Functions), len(compiled.Classes))
	}

	if !disassemble {
		return nil
	}

	listing := bytecode.DisassembleProgram(compiled)
	if emitOutputFile == "" {
		fmt.Print(listing)
		return nil
	}

	outFile := emitOutputFile
	if !strings.HasSuffix(outFile, ".bc.txt") {
		outFile = strings.TrimSuffix(outFile, filepath.Ext(outFile)) + ".bc.txt"
	}
	if err := os.WriteFile(outFile, []byte(listing), 0o644); err != nil {
		return fmt.Errorf("failed to write output file %s: %w", outFile, err)
	}
	fmt.Printf("Emitted %s -> %s\n", filename, outFile)
	return nil
}
