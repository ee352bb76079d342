package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/xattr"

	"github.com/jra3/tdb/internal/attr"
)

func requireXattrSupport(t *testing.T, path string) {
	t.Helper()
	if err := xattr.Set(path, "user.tdb_probe", []byte("1")); err != nil {
		t.Skipf("filesystem does not support user.* xattrs: %v", err)
	}
	_ = xattr.Remove(path, "user.tdb_probe")
}

// run executes the root command with args and returns its stdout. Every
// call passes --db/--config explicitly and every boolean flag it cares
// about by name, since the flag-bound package vars in update.go/query.go/
// convention.go are singletons that persist across calls within a test
// binary.
func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("tdb %s failed: %v\noutput: %s", strings.Join(args, " "), err, out.String())
	}
	return out.String()
}

func TestCLIEndToEnd(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	requireXattrSupport(t, path)

	af, err := attr.Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := af.Add("work"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if _, err := af.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	dbPath := filepath.Join(dir, "tdb.db")
	configPath := filepath.Join(dir, "config.yaml")
	configYaml := `
db_path: ` + dbPath + `
conventions:
  flag-work:
    comment: flag everything tagged work
    commands:
      - query: "[tag::work]"
        actions: [["add", "flagged"]]
`
	if err := os.WriteFile(configPath, []byte(configYaml), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	exact := "[path::" + path + "]"

	run(t, "--db", dbPath, "--config", configPath, "update", path)

	out := run(t, "--db", dbPath, "--config", configPath, "query", exact, "count")
	if !strings.Contains(out, "1 files") {
		t.Errorf("expected 1 matching file after update, got %q", out)
	}

	out = run(t, "--db", dbPath, "--config", configPath, "query", exact,
		"map", "add", "urgent", "--filter", "", "--pipe", "", "--commit=true")
	if !strings.Contains(out, "1 files, 1 updated, 0 forgotten") {
		t.Errorf("expected one file updated by map add, got %q", out)
	}

	f, err := attr.Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	found := false
	for _, tg := range f.Tags() {
		if tg == "urgent" {
			found = true
		}
	}
	if !found {
		t.Error("expected committed map action to persist the new tag to disk")
	}

	out = run(t, "--db", dbPath, "--config", configPath, "query", exact, "serialize", "plain",
		"--filter", "", "--pipe", "")
	if !strings.Contains(out, "work") || !strings.Contains(out, "urgent") {
		t.Errorf("expected serialized output to list both tags, got %q", out)
	}

	out = run(t, "--db", dbPath, "--config", configPath, "tag", "list")
	if !strings.Contains(out, "work") || !strings.Contains(out, "urgent") {
		t.Errorf("expected tag list to include both tags, got %q", out)
	}

	out = run(t, "--db", dbPath, "--config", configPath, "tag", "statistics")
	if !strings.Contains(out, "work") {
		t.Errorf("expected tag statistics to report usage of work, got %q", out)
	}

	out = run(t, "--db", dbPath, "--config", configPath, "convention", "enforce", "flag-work", "--commit=true")
	if !strings.Contains(out, "1 files, 1 updated, 0 forgotten") {
		t.Errorf("expected the convention to flag the one file tagged work, got %q", out)
	}

	f, err = attr.Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	found = false
	for _, tg := range f.Tags() {
		if tg == "flagged" {
			found = true
		}
	}
	if !found {
		t.Error("expected the enforced convention to persist the flagged tag to disk")
	}

	out = run(t, "--db", dbPath, "--config", configPath, "update", path, "--clean=false")
	if !strings.Contains(out, "files: ") {
		t.Errorf("expected an update summary line, got %q", out)
	}

	out = run(t, "--db", dbPath, "--config", configPath, "tag", "clean")
	if !strings.Contains(out, "removed 0 unused tags") {
		t.Errorf("expected no unused tags to remove, got %q", out)
	}
}
