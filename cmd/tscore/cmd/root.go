package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tsgoscript/tscore/internal/checker"
	"github.com/tsgoscript/tscore/internal/config"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	verbose    bool
	configPath string
	noStrict   bool
)

var rootCmd = &cobra.Command{
	Use:   "tscore",
	Short: "A TypeScript-subset type checker and lowering core",
	Long: `tscore is a Go implementation of a TypeScript-subset front-end:
a bidirectional type checker and a shared lowering core with two
back ends, a tree-walking interpreter and an IL-style bytecode emitter
that targets an external managed runtime.

Configuration can be supplied via tscore.yaml (see --config) or
overridden per-run with flags.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultFileName, "path to a tscore.yaml config file")
	rootCmd.PersistentFlags().BoolVar(&noStrict, "no-strict", false, "disable strictNullChecks/noImplicitAny/strictFunctionTypes for this run")
}

// loadCheckerOptions reads the project config (if present) and applies
// --no-strict on top, the same flag-over-config precedence the teacher's
// cmd/dwscript applies for --type-check.
func loadCheckerOptions() (checker.Options, error) {
	opts, err := config.Load(configPath)
	if err != nil {
		return opts, fmt.Errorf("failed to load config %s: %w", configPath, err)
	}
	if noStrict {
		opts.StrictNullChecks = false
		opts.NoImplicitAny = false
		opts.StrictFunctionTypes = false
	}
	return opts, nil
}
