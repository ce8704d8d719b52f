package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadAppliesDefaultsWithNoFileOrEnv(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("ENVIRONMENT", "")
	outDir := filepath.Join(t.TempDir(), "output")
	tempDir := filepath.Join(t.TempDir(), "temp")
	t.Setenv("PRINT_OUTPUT_DIRECTORY", outDir)
	t.Setenv("PRINT_TEMP_DIRECTORY", tempDir)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Pagination.PageSize != "a4" {
		t.Errorf("Pagination.PageSize = %q, want a4", cfg.Pagination.PageSize)
	}
	if cfg.Pagination.ReflowDebounceMs != 100 {
		t.Errorf("Pagination.ReflowDebounceMs = %d, want 100", cfg.Pagination.ReflowDebounceMs)
	}
}

func TestLoadEnvOverridesPaginationConfig(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("ENVIRONMENT", "")
	t.Setenv("PRINT_OUTPUT_DIRECTORY", filepath.Join(t.TempDir(), "out"))
	t.Setenv("PRINT_TEMP_DIRECTORY", filepath.Join(t.TempDir(), "tmp"))
	t.Setenv("PAGINATION_PAGE_SIZE", "LETTER")
	t.Setenv("PAGINATION_ORIENTATION", "LANDSCAPE")
	t.Setenv("PAGINATION_REFLOW_DEBOUNCE_MS", "250")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Pagination.PageSize != "letter" {
		t.Errorf("PageSize = %q, want letter (lowercased)", cfg.Pagination.PageSize)
	}
	if cfg.Pagination.Orientation != "landscape" {
		t.Errorf("Orientation = %q, want landscape (lowercased)", cfg.Pagination.Orientation)
	}
	if cfg.Pagination.ReflowDebounceMs != 250 {
		t.Errorf("ReflowDebounceMs = %d, want 250", cfg.Pagination.ReflowDebounceMs)
	}
}

func TestLoadRejectsInvalidPaginationPageSize(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("ENVIRONMENT", "")
	t.Setenv("PRINT_OUTPUT_DIRECTORY", filepath.Join(t.TempDir(), "out"))
	t.Setenv("PRINT_TEMP_DIRECTORY", filepath.Join(t.TempDir(), "tmp"))
	t.Setenv("PAGINATION_PAGE_SIZE", "tabloid")

	if _, err := Load(); err == nil {
		t.Errorf("Load() error = nil, want error for invalid page size")
	}
}

func TestLoadRejectsInvalidServerPortEnv(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("ENVIRONMENT", "")
	t.Setenv("PRINT_OUTPUT_DIRECTORY", filepath.Join(t.TempDir(), "out"))
	t.Setenv("PRINT_TEMP_DIRECTORY", filepath.Join(t.TempDir(), "tmp"))
	t.Setenv("SERVER_PORT", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want default 8080 when env value does not parse", cfg.Server.Port)
	}
}

func TestLoadFromFileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "custom.yaml")
	writeFile(t, yamlPath, "server:\n  port: 9090\n")

	t.Setenv("CONFIG_FILE", yamlPath)
	t.Setenv("PRINT_OUTPUT_DIRECTORY", filepath.Join(dir, "out"))
	t.Setenv("PRINT_TEMP_DIRECTORY", filepath.Join(dir, "tmp"))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090 from config file", cfg.Server.Port)
	}
}

func TestParseIntAndParseInt64(t *testing.T) {
	if got := parseInt("42"); got != 42 {
		t.Errorf("parseInt(42) = %d, want 42", got)
	}
	if got := parseInt("not-a-number"); got != 0 {
		t.Errorf("parseInt(garbage) = %d, want 0", got)
	}
	if got := parseInt64("123456789012"); got != 123456789012 {
		t.Errorf("parseInt64(...) = %d, want 123456789012", got)
	}
}

func TestGetConfigPathAbsoluteIsUnchanged(t *testing.T) {
	abs := filepath.Join(t.TempDir(), "whatever.yaml")
	if got := GetConfigPath(abs); got != abs {
		t.Errorf("GetConfigPath(abs) = %q, want %q", got, abs)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test fixture %s: %v", path, err)
	}
}
