package version

import (
	"strings"
	"testing"
)

func TestVersionDefault(t *testing.T) {
	if Version == "" {
		t.Fatal("Version must have a compiled-in default")
	}
	if !strings.Contains(Version, "0") {
		t.Fatalf("default version %q lost its digits", Version)
	}
}

func TestVersionLdflagsOverride(t *testing.T) {
	orig := Version
	defer func() { Version = orig }()

	Version = "1.4.0"
	if Version != "1.4.0" {
		t.Fatalf("Version = %q after override", Version)
	}
}

func TestOptionalFieldsDefaultEmpty(t *testing.T) {
	// GitCommit, GitMessage and BuildDate are only stamped by release
	// builds and stay empty otherwise
	for name, v := range map[string]string{
		"GitCommit":  GitCommit,
		"GitMessage": GitMessage,
		"BuildDate":  BuildDate,
	} {
		if v != "" {
			t.Errorf("%s = %q, want empty in a source build", name, v)
		}
	}
}
