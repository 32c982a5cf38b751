package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tsgoscript/tscore/internal/checker"
	"github.com/tsgoscript/tscore/internal/parser"
	"github.com/tsgoscript/tscore/internal/token"
)

var (
	traceChecker bool
	jsonOutput   bool
	scopeJSON    bool
)

var checkCmd = &cobra.Command{
	Use:   "check [file]",
	Short: "Type-check a TypeScript-subset source file",
	Long: `Parse and type-check a source file, reporting the first diagnostic
encountered (spec §7's no-recovery propagation policy).

Examples:
  # Check a file
  tscore check script.ts

  # Check with checker phase tracing on stderr
  tscore check --trace script.ts`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().BoolVar(&traceChecker, "trace", false, "trace checker phases to stderr")
	checkCmd.Flags().BoolVar(&jsonOutput, "json", false, "emit the diagnostic (if any) as JSON instead of formatted text")
	checkCmd.Flags().BoolVar(&scopeJSON, "scope-json", false, "print the root TypeEnvironment as JSON after a successful check (for IDE tooling)")
}

// stderrTracer forwards checker.Tracer events through fmt.Fprintf to
// stderr in the teacher's plain, unadorned logging style.
type stderrTracer struct{}

func (stderrTracer) Trace(event string, pos token.Position, detail string) {
	fmt.Fprintf(os.Stderr, "[trace] %s %s: %s\n", pos, event, detail)
}

func runCheck(_ *cobra.Command, args []string) error {
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

	var tracer checker.Tracer
	if traceChecker {
		tracer = stderrTracer{}
	}

	c := checker.New(opts, tracer)
	d := c.Check(prog)
	if d == nil {
		if verbose {
			fmt.Fprintf(os.Stderr, "%s: no diagnostics (%d expressions typed)\n", filename, c.TypeMap().Len())
		}
		if scopeJSON {
			snapshot, serr := c.ScopeSnapshotJSON()
			if serr != nil {
				return fmt.Errorf("failed to render scope snapshot: %w", serr)
			}
			fmt.Println(snapshot)
			return nil
		}
		fmt.Println("OK")
		return nil
	}

	if jsonOutput {
		out, jerr := diagToJSON(d)
		if jerr != nil {
			return jerr
		}
		fmt.Println(out)
	} else {
		fmt.Fprintln(os.Stderr, d.Format(source, true))
	}
	return fmt.Errorf("type checking failed")
}
