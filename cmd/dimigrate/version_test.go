package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestVersionCommandPretty(t *testing.T) {
	var out bytes.Buffer
	versionJSON = false
	versionCmd.SetOut(&out)
	if err := versionCmd.RunE(versionCmd, nil); err != nil {
		t.Fatal(err)
	}
	got := out.String()
	if !strings.HasPrefix(got, "dimigrate ") {
		t.Fatalf("output %q does not start with the tool name", got)
	}
	// source builds stamp no commit or date
	if strings.Contains(got, "commit ") || strings.Contains(got, "built  ") {
		t.Fatalf("unstamped metadata leaked into %q", got)
	}
}

func TestVersionCommandJSON(t *testing.T) {
	var out bytes.Buffer
	versionJSON = true
	defer func() { versionJSON = false }()
	versionCmd.SetOut(&out)
	if err := versionCmd.RunE(versionCmd, nil); err != nil {
		t.Fatal(err)
	}
	var meta buildMeta
	if err := json.Unmarshal(out.Bytes(), &meta); err != nil {
		t.Fatalf("not valid JSON: %v\n%s", err, out.String())
	}
	if meta.Version == "" {
		t.Fatal("version field must be populated")
	}
}
