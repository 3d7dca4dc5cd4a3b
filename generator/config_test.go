package generator

import (
	"strings"
	"testing"
)

func TestApplyParameterStringOverridesDefaults(t *testing.T) {
	cfg, err := applyParameterString(defaultConfig(), "license=Apache-2.0,strict_field_numbers=false")
	if err != nil {
		t.Fatalf("applyParameterString() error = %v", err)
	}
	if cfg.License != "Apache-2.0" {
		t.Errorf("License = %q, want Apache-2.0", cfg.License)
	}
	if cfg.StrictFieldNumbers {
		t.Errorf("StrictFieldNumbers = true, want false")
	}
	// Untouched keys keep their default.
	if !cfg.StrictEnumValidation {
		t.Errorf("StrictEnumValidation = false, want true (untouched default)")
	}
}

func TestApplyParameterStringRejectsUnknownKey(t *testing.T) {
	if _, err := applyParameterString(defaultConfig(), "bogus=1"); err == nil {
		t.Fatal("applyParameterString() error = nil, want error for unrecognized key")
	}
}

func TestApplyParameterStringRejectsMalformedBool(t *testing.T) {
	if _, err := applyParameterString(defaultConfig(), "strict_field_numbers=yes"); err == nil {
		t.Fatal("applyParameterString() error = nil, want error for non-true/false value")
	}
}

func TestConfigYAMLRoundTripsKnownKeys(t *testing.T) {
	cfg := defaultConfig()
	cfg.License = "Apache-2.0"
	out, err := cfg.YAML()
	if err != nil {
		t.Fatalf("YAML() error = %v", err)
	}
	for _, want := range []string{"license: Apache-2.0", "strict_field_numbers: true", "strict_enum_validation: true"} {
		if !strings.Contains(out, want) {
			t.Errorf("YAML() = %q, want substring %q", out, want)
		}
	}
}
