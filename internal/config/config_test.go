package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	opts, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !opts.StrictNullChecks || !opts.NoImplicitAny || !opts.StrictFunctionTypes {
		t.Errorf("expected strict defaults, got %+v", opts)
	}
}

func TestLoadOverridesSelectedFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tscore.yaml")
	contents := "strictNullChecks: false\ntemplateLiteralExpansionCap: 500\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	opts, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.StrictNullChecks {
		t.Error("expected strictNullChecks to be overridden to false")
	}
	if !opts.NoImplicitAny {
		t.Error("expected noImplicitAny to keep its default of true")
	}
	if opts.TemplateLiteralExpansionCap != 500 {
		t.Errorf("TemplateLiteralExpansionCap = %d, want 500", opts.TemplateLiteralExpansionCap)
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tscore.yaml")
	if err := os.WriteFile(path, []byte("strictNullChecks: [unterminated"), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected an error for malformed YAML")
	}
}
