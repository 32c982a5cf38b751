package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tsgoscript/tscore/internal/checker"
	"github.com/tsgoscript/tscore/internal/interpreter"
	"github.com/tsgoscript/tscore/internal/parser"
)

var (
	evalExpr      string
	skipTypeCheck bool
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Type-check and interpret a source file",
	Long: `Parse, type-check, and execute a source file through the
tree-walking interpreter back end.

Examples:
  # Run a script file
  tscore run script.ts

  # Evaluate an inline expression
  tscore run -e "1 + 2;"

  # Run without type checking first (faster, less safe)
  tscore run --skip-type-check script.ts`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInterpret,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "evaluate inline code instead of reading from file")
	runCmd.Flags().BoolVar(&skipTypeCheck, "skip-type-check", false, "skip the type-checking pass before interpreting")
}

func runInterpret(_ *cobra.Command, args []string) error {
	source, filename, err := readSource(evalExpr, args)
	if err != nil {
		return err
	}

	prog, err := parser.Parse(source, filename)
	if err != nil {
		return fmt.Errorf("parse error: %w", err)
	}

	var tm *checker.TypeMap
	if !skipTypeCheck {
		opts, err := loadCheckerOptions()
		if err != nil {
			return err
		}
		c := checker.New(opts, nil)
		if d := c.Check(prog); d != nil {
			fmt.Fprintln(os.Stderr, d.Format(source, true))
			return fmt.Errorf("type checking failed")
		}
		tm = c.TypeMap()
	} else {
		tm = checker.NewTypeMap()
	}

	ip := interpreter.New(tm)
	result, err := ip.Run(prog)
	if err != nil {
		return fmt.Errorf("runtime error: %w", err)
	}
	if verbose && result != nil {
		fmt.Fprintf(os.Stderr, "=> %s\n", result.String())
	}
	return nil
}

// readSource resolves the -e/--eval flag vs. a single file argument, the
// two input modes the run subcommand accepts.
func readSource(eval string, args []string) (source, filename string, err error) {
	if eval != "" {
		return eval, "<eval>", nil
	}
	if len(args) == 1 {
		content, err := os.ReadFile(args[0])
		if err != nil {
			return "", "", fmt.Errorf("failed to read file %s: %w", args[0], err)
		}
		return string(content), args[0], nil
	}
	return "", "", fmt.Errorf("either provide a file path or use -e flag for inline code")
}
