package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "librarydesk.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaultsUnderOverrides(t *testing.T) {
	path := writeConfig(t, `
[storage]
data_dir = "/tmp/lib-data"

[admin]
username = "librarian"
password = "s3cret"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Storage.DataDir != "/tmp/lib-data" {
		t.Fatalf("data_dir = %q", cfg.Storage.DataDir)
	}
	if cfg.Admin.Username != "librarian" {
		t.Fatalf("admin username = %q", cfg.Admin.Username)
	}
	// Untouched sections keep defaults.
	if cfg.SMTP.Port != 587 {
		t.Fatalf("smtp port default = %d", cfg.SMTP.Port)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "text" {
		t.Fatalf("logging defaults = %+v", cfg.Logging)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"empty data dir", "[storage]\ndata_dir = \" \"\n"},
		{"empty admin", "[admin]\nusername = \"\"\n"},
		{"bad smtp port", "[smtp]\nport = 70000\n"},
		{"bad log format", "[logging]\nformat = \"yaml\"\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tc.content)); err == nil {
				t.Fatalf("want validation error")
			}
		})
	}
}

func TestLoadMissingExplicitPathFails(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Fatalf("want error for missing explicit config path")
	}
}

func TestDefaultsValidate(t *testing.T) {
	cfg := Default()
	if err := cfg.validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}
