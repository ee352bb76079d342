package config

import (
	"os"
	"path/filepath"
	"testing"
)

func mockEnv(env map[string]string) func(string) string {
	return func(key string) string {
		return env[key]
	}
}

func TestDefaultConfigHasNoNamespaceOrTemplates(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.DefaultNamespace != "" {
		t.Errorf("expected no default namespace, got %q", cfg.DefaultNamespace)
	}
	if len(cfg.Templates) != 0 || len(cfg.Conventions) != 0 {
		t.Errorf("expected empty templates/conventions, got %+v / %+v", cfg.Templates, cfg.Conventions)
	}
	if cfg.DBPath == "" {
		t.Error("expected a non-empty default db path")
	}
}

func TestLoadWithEnvMissingFileReturnsDefaults(t *testing.T) {
	env := mockEnv(map[string]string{"XDG_CONFIG_HOME": t.TempDir()})
	cfg, err := LoadWithEnv(env, "")
	if err != nil {
		t.Fatalf("LoadWithEnv failed: %v", err)
	}
	if cfg.DBPath == "" {
		t.Error("expected a default db path when no file is present")
	}
}

func TestLoadWithEnvReadsConfigFile(t *testing.T) {
	dir := t.TempDir()
	configDir := filepath.Join(dir, "tdb")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	content := `
db_path: /tmp/custom.db
default_namespace: "::project::"
dictionary:
  area: finance
templates:
  tag-by-area:
    parameters: [name]
    commands:
      - query: "[tag::{{name}}]"
        actions: [["add", "{{name}}"]]
`
	if err := os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	env := mockEnv(map[string]string{"XDG_CONFIG_HOME": dir})
	cfg, err := LoadWithEnv(env, "")
	if err != nil {
		t.Fatalf("LoadWithEnv failed: %v", err)
	}
	if cfg.DBPath != "/tmp/custom.db" {
		t.Errorf("expected custom db_path, got %q", cfg.DBPath)
	}
	if cfg.Dictionary["area"] != "finance" {
		t.Errorf("expected dictionary entry, got %+v", cfg.Dictionary)
	}
	tmpl, ok := cfg.Templates["tag-by-area"]
	if !ok || len(tmpl.Parameters) != 1 {
		t.Fatalf("expected a parsed template, got %+v", cfg.Templates)
	}
}

func TestLoadWithEnvExplicitPathWins(t *testing.T) {
	dir := t.TempDir()
	explicit := filepath.Join(dir, "explicit.yaml")
	if err := os.WriteFile(explicit, []byte("db_path: /explicit.db\n"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	env := mockEnv(map[string]string{"TDB_CONFIG": filepath.Join(dir, "nonexistent.yaml")})

	cfg, err := LoadWithEnv(env, explicit)
	if err != nil {
		t.Fatalf("LoadWithEnv failed: %v", err)
	}
	if cfg.DBPath != "/explicit.db" {
		t.Errorf("expected the explicit path to win over $TDB_CONFIG, got %q", cfg.DBPath)
	}
}

func TestLoadWithEnvTdbConfigWinsOverXDG(t *testing.T) {
	dir := t.TempDir()
	envConfig := filepath.Join(dir, "env.yaml")
	if err := os.WriteFile(envConfig, []byte("db_path: /env.db\n"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	env := mockEnv(map[string]string{
		"TDB_CONFIG":      envConfig,
		"XDG_CONFIG_HOME": filepath.Join(dir, "unused"),
	})

	cfg, err := LoadWithEnv(env, "")
	if err != nil {
		t.Fatalf("LoadWithEnv failed: %v", err)
	}
	if cfg.DBPath != "/env.db" {
		t.Errorf("expected $TDB_CONFIG to win over XDG, got %q", cfg.DBPath)
	}
}
