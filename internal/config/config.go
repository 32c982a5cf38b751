// Package config loads internal/checker.Options from an optional YAML
// project file, giving the CLI a persisted-config story alongside its
// flags, in the same spirit as the teacher's cobra-driven
// cmd/dwscript flag set.
package config

import (
	"os"

	"github.com/goccy/go-yaml"

	"github.com/tsgoscript/tscore/internal/checker"
)

// DefaultFileName is the project config file tscore looks for in the
// current directory when no --config path is given.
const DefaultFileName = "tscore.yaml"

// Options is the on-disk shape of a tscore.yaml file. Zero-valued fields
// that are absent from the file fall back to checker.DefaultOptions().
type Options struct {
	StrictNullChecks    *bool `yaml:"strictNullChecks"`
	NoImplicitAny       *bool `yaml:"noImplicitAny"`
	StrictFunctionTypes *bool `yaml:"strictFunctionTypes"`

	TemplateLiteralExpansionCap int `yaml:"templateLiteralExpansionCap"`
	TypeAliasExpansionDepth     int `yaml:"typeAliasExpansionDepth"`
}

// Load reads and parses a tscore.yaml file at path. A missing file is not
// an error: Load returns checker.DefaultOptions() unchanged, so running
// tscore with no config behaves exactly like the teacher's flag-only mode.
func Load(path string) (checker.Options, error) {
	opts := checker.DefaultOptions()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return opts, nil
		}
		return opts, err
	}

	var file Options
	if err := yaml.Unmarshal(data, &file); err != nil {
		return opts, err
	}
	return file.apply(opts), nil
}

// apply overlays the fields present in the file on top of base, leaving
// anything the file didn't mention at base's value.
func (f Options) apply(base checker.Options) checker.Options {
	if f.StrictNullChecks != nil {
		base.StrictNullChecks = *f.StrictNullChecks
	}
	if f.NoImplicitAny != nil {
		base.NoImplicitAny = *f.NoImplicitAny
	}
	if f.StrictFunctionTypes != nil {
		base.StrictFunctionTypes = *f.StrictFunctionTypes
	}
	if f.TemplateLiteralExpansionCap > 0 {
		base.TemplateLiteralExpansionCap = f.TemplateLiteralExpansionCap
	}
	if f.TypeAliasExpansionDepth > 0 {
		base.TypeAliasExpansionDepth = f.TypeAliasExpansionDepth
	}
	return base
}

// LoadDefault looks for DefaultFileName in the current directory, treating
// its absence the same way Load does.
func LoadDefault() (checker.Options, error) {
	return Load(DefaultFileName)
}
