package cmd

import "github.com/tsgoscript/tscore/internal/diag"

// diagToJSON wraps a single diagnostic in the batch encoding diag.ToJSON
// expects, for the check subcommand's --json flag.
func diagToJSON(d *diag.Diagnostic) (string, error) {
	return diag.ToJSON([]*diag.Diagnostic{d})
}
